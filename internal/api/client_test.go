package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/niclasedge/fast-teuxdeux/internal/api/apitest"
	"github.com/niclasedge/fast-teuxdeux/internal/model"
)

var fixedNow = time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)

func newFake(t *testing.T, opts ...apitest.Option) (*apitest.Server, *Client) {
	t.Helper()
	opts = append([]apitest.Option{apitest.WithClock(func() time.Time { return fixedNow })}, opts...)
	srv := apitest.New(opts...)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, WithStrictSchema(true))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv, c
}

func TestNewRejectsBadURLs(t *testing.T) {
	for _, u := range []string{"", "   ", "ftp://example.com", "://nope"} {
		if _, err := New(u); err == nil {
			t.Errorf("New(%q): expected error", u)
		}
	}
}

func TestCreateThenDashboardBuckets(t *testing.T) {
	_, c := newFake(t, apitest.WithDefaultCategories())
	ctx := context.Background()

	dated, err := c.CreateTodo(ctx, model.CreateTodoRequest{Title: "call mom", ScheduledDate: "2026-10-19"})
	if err != nil {
		t.Fatalf("CreateTodo dated: %v", err)
	}
	cat := int64(2)
	someday, err := c.CreateTodo(ctx, model.CreateTodoRequest{Title: "oat milk", CategoryID: &cat})
	if err != nil {
		t.Fatalf("CreateTodo someday: %v", err)
	}

	d, err := c.Dashboard(ctx, 0)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if len(d.WeeklyTodos) != 7 {
		t.Fatalf("got %d days, want 7", len(d.WeeklyTodos))
	}
	if d.TodayDate != "2026-10-17" || d.WeekStartDate != "2026-10-17" {
		t.Errorf("dates: today=%s start=%s", d.TodayDate, d.WeekStartDate)
	}
	day, ok := d.Day("2026-10-19")
	if !ok || len(day.Todos) != 1 || day.Todos[0].ID != dated {
		t.Errorf("day bucket: %+v", day)
	}
	bucket := d.SomedayByCategory()[2]
	if len(bucket) != 1 || bucket[0].ID != someday || bucket[0].CategoryName != "Grocery List" {
		t.Errorf("someday bucket: %+v", bucket)
	}
}

func TestToggleFlipsOnlyCompleted(t *testing.T) {
	srv, c := newFake(t, apitest.WithDefaultCategories())
	ctx := context.Background()
	id := srv.SeedTodo("write report", "2026-10-18", 1)
	before, _ := srv.Todo(id)

	if err := c.UpdateTodo(ctx, id, model.UpdateTodoRequest{}.SetCompleted(true)); err != nil {
		t.Fatalf("UpdateTodo: %v", err)
	}
	after, _ := srv.Todo(id)
	if !after.Completed {
		t.Error("todo should be completed")
	}
	if after.Title != before.Title || after.Date() != before.Date() || after.CategoryID != before.CategoryID {
		t.Errorf("toggle changed other fields: before=%+v after=%+v", before, after)
	}
}

func TestClearingDateMovesToSomeday(t *testing.T) {
	srv, c := newFake(t)
	ctx := context.Background()
	id := srv.SeedTodo("dentist", "2026-10-17", 0)

	if err := c.UpdateTodo(ctx, id, model.UpdateTodoRequest{}.ClearDate()); err != nil {
		t.Fatalf("UpdateTodo: %v", err)
	}
	d, err := c.Dashboard(ctx, 0)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	for _, day := range d.WeeklyTodos {
		for _, td := range day.Todos {
			if td.ID == id {
				t.Fatalf("todo still in day %s", day.Date)
			}
		}
	}
	unc := d.SomedayByCategory()[model.Uncategorized]
	if len(unc) != 1 || unc[0].ID != id {
		t.Errorf("uncategorized: %+v", unc)
	}
}

func TestDeletedCategoryFallsBackToUncategorized(t *testing.T) {
	srv, c := newFake(t)
	srv.RefuseInUseDelete = false
	ctx := context.Background()
	cat := srv.SeedCategory("Restaurants", "#dc2626")
	id := srv.SeedTodo("ramen place", "", cat)

	if err := c.DeleteCategory(ctx, cat); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	d, err := c.Dashboard(ctx, 0)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	unc := d.SomedayByCategory()[model.Uncategorized]
	if len(unc) != 1 || unc[0].ID != id {
		t.Errorf("uncategorized: %+v", unc)
	}
}

func TestRefusedCategoryDeleteIsAnError(t *testing.T) {
	srv, c := newFake(t)
	cat := srv.SeedCategory("Books", "#7c2d12")
	srv.SeedTodo("dune", "", cat)

	err := c.DeleteCategory(context.Background(), cat)
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("got %v, want *Error", err)
	}
	if apiErr.Status != http.StatusBadRequest || !strings.Contains(apiErr.Message, "1 todos") {
		t.Errorf("unexpected error: %+v", apiErr)
	}
}

func TestWeekOffsetIsDays(t *testing.T) {
	srv, c := newFake(t)
	d, err := c.Dashboard(context.Background(), 7)
	if err != nil {
		t.Fatalf("Dashboard: %v", err)
	}
	if d.WeekStartDate != "2026-10-24" || d.WeeklyTodos[0].Date != "2026-10-24" {
		t.Errorf("start: %s", d.WeekStartDate)
	}
	calls := srv.Calls()
	if len(calls) != 1 || calls[0].Path != "/api/v1/dashboard" {
		t.Errorf("calls: %+v", calls)
	}
}

func TestMigrateAndCategories(t *testing.T) {
	srv, c := newFake(t)
	ctx := context.Background()
	srv.SeedTodo("old", "2026-10-10", 0)
	srv.SeedTodo("older", "2026-10-01", 0)
	srv.SeedTodo("future", "2026-10-30", 0)

	n, err := c.MigrateTodos(ctx)
	if err != nil || n != 2 {
		t.Fatalf("MigrateTodos: n=%d err=%v", n, err)
	}

	id, err := c.CreateCategory(ctx, model.CreateCategoryRequest{Name: "Travel"})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	name := "Trips"
	if err := c.UpdateCategory(ctx, id, model.UpdateCategoryRequest{Name: &name}); err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}
	cats, err := c.Categories(ctx)
	if err != nil {
		t.Fatalf("Categories: %v", err)
	}
	if len(cats) != 1 || cats[0].Name != "Trips" || cats[0].Color != model.DefaultCategoryColor {
		t.Errorf("categories: %+v", cats)
	}
}

func TestValidationHappensBeforeTheRequest(t *testing.T) {
	srv, c := newFake(t)
	ctx := context.Background()
	if _, err := c.CreateTodo(ctx, model.CreateTodoRequest{Title: "  "}); !errors.Is(err, model.ErrEmptyTitle) {
		t.Errorf("got %v", err)
	}
	if err := c.UpdateTodo(ctx, 1, model.UpdateTodoRequest{}); !errors.Is(err, model.ErrNoFields) {
		t.Errorf("got %v", err)
	}
	if n := len(srv.Calls()); n != 0 {
		t.Errorf("invalid requests reached the server %d times", n)
	}
}

func TestFailureEnvelope(t *testing.T) {
	srv, c := newFake(t)
	srv.FailNext(http.StatusInternalServerError, "database is locked")
	_, err := c.Dashboard(context.Background(), 0)
	if got := Message(err); got != "database is locked" {
		t.Errorf("Message: got %q", got)
	}
	if IsNotFound(err) {
		t.Error("500 is not a 404")
	}
	if err := c.UpdateTodo(context.Background(), 42, model.UpdateTodoRequest{}.SetCompleted(true)); !IsNotFound(err) {
		t.Errorf("update of missing todo: got %v", err)
	}
}

func TestNonEnvelopeBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer ts.Close()
	c, err := New(ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Dashboard(context.Background(), 0)
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusBadGateway {
		t.Errorf("got %v", err)
	}
}

func TestStrictSchemaRejectsMalformedDashboard(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":true,"data":{"weekly_todos":"nope","someday_todos":[],"categories":[],"today_date":"2026-10-17"}}`))
	}))
	defer ts.Close()

	strict, err := New(ts.URL, WithStrictSchema(true))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := strict.Dashboard(context.Background(), 0); err == nil {
		t.Error("strict client accepted a malformed dashboard")
	}
}

func TestBearerTokenAndRequestID(t *testing.T) {
	var gotAuth, gotID string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotID = r.Header.Get(RequestIDHeader)
		w.Write([]byte(`{"success":true,"data":{"migrated_count":0}}`))
	}))
	defer ts.Close()

	c, err := New(ts.URL, WithToken("secret"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.MigrateTodos(context.Background()); err != nil {
		t.Fatal(err)
	}
	if gotAuth != "Bearer secret" {
		t.Errorf("Authorization: got %q", gotAuth)
	}
	if len(gotID) != 36 {
		t.Errorf("request id: got %q", gotID)
	}
}

func TestTokenRequiredByServer(t *testing.T) {
	srv, _ := newFake(t, apitest.WithToken("tok"))
	anon, _ := New(srv.URL)
	if _, err := anon.Dashboard(context.Background(), 0); err == nil {
		t.Error("expected unauthorized error")
	}
	authed, _ := New(srv.URL, WithToken("tok"))
	if _, err := authed.Dashboard(context.Background(), 0); err != nil {
		t.Errorf("authorized dashboard: %v", err)
	}
}

func TestHealth(t *testing.T) {
	_, c := newFake(t)
	h, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health: %v", err)
	}
	if h.Status != "healthy" {
		t.Errorf("status: %q", h.Status)
	}
}

func TestHealthSharesRequestPath(t *testing.T) {
	var gotID string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotID = r.Header.Get(RequestIDHeader)
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer ts.Close()

	c, err := New(ts.URL)
	if err != nil {
		t.Fatal(err)
	}
	_, err = c.Health(context.Background())
	var apiErr *Error
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusServiceUnavailable {
		t.Fatalf("got %v", err)
	}
	if len(gotID) != 36 || apiErr.RequestID != gotID {
		t.Errorf("request id: sent %q, error carries %q", gotID, apiErr.RequestID)
	}
}
