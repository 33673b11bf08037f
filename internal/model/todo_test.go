package model

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestTodoDecodesBothNullForms(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantCat  NullInt
		wantDate string
	}{
		{
			name:     "sql object form",
			input:    `{"id":1,"title":"a","category_id":{"Int64":3,"Valid":true},"scheduled_date":{"String":"2026-10-17","Valid":true}}`,
			wantCat:  Int(3),
			wantDate: "2026-10-17",
		},
		{
			name:     "sql object form invalid",
			input:    `{"id":1,"title":"a","category_id":{"Int64":0,"Valid":false},"scheduled_date":{"String":"","Valid":false}}`,
			wantCat:  NullInt{},
			wantDate: "",
		},
		{
			name:     "plain values",
			input:    `{"id":1,"title":"a","category_id":4,"scheduled_date":"2026-10-18"}`,
			wantCat:  Int(4),
			wantDate: "2026-10-18",
		},
		{
			name:     "nulls",
			input:    `{"id":1,"title":"a","category_id":null,"scheduled_date":null}`,
			wantCat:  NullInt{},
			wantDate: "",
		},
		{
			name:    "missing fields",
			input:   `{"id":1,"title":"a"}`,
			wantCat: NullInt{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var todo Todo
			if err := json.Unmarshal([]byte(tt.input), &todo); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			if todo.CategoryID != tt.wantCat {
				t.Errorf("CategoryID: got %+v, want %+v", todo.CategoryID, tt.wantCat)
			}
			if got := todo.Date(); got != tt.wantDate {
				t.Errorf("Date: got %q, want %q", got, tt.wantDate)
			}
			if todo.Someday() != (tt.wantDate == "") {
				t.Errorf("Someday: got %v", todo.Someday())
			}
		})
	}
}

func TestNullIntRoundTripsObjectForm(t *testing.T) {
	b, err := json.Marshal(Int(9))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != `{"Int64":9,"Valid":true}` {
		t.Errorf("got %s", b)
	}
}

func TestSomedayByCategoryFallsBackToUncategorized(t *testing.T) {
	d := DashboardData{
		Categories: []Category{{ID: 1, Name: "Personal"}, {ID: 2, Name: "Books"}},
		SomedayTodos: []Todo{
			{ID: 10, CategoryID: Int(1)},
			{ID: 11, CategoryID: Int(2)},
			{ID: 12},
			{ID: 13, CategoryID: Int(99)}, // category was deleted
			{ID: 14, CategoryID: Int(1)},
		},
	}

	got := d.SomedayByCategory()
	if n := len(got[1]); n != 2 {
		t.Errorf("bucket 1: got %d todos, want 2", n)
	}
	if n := len(got[2]); n != 1 {
		t.Errorf("bucket 2: got %d todos, want 1", n)
	}
	unc := got[Uncategorized]
	if len(unc) != 2 || unc[0].ID != 12 || unc[1].ID != 13 {
		t.Errorf("uncategorized: got %+v", unc)
	}
	if _, ok := got[99]; ok {
		t.Error("dangling category id must not get its own bucket")
	}
}

func TestFindTodoAndStats(t *testing.T) {
	d := DashboardData{
		TodayDate: "2026-10-17",
		WeeklyTodos: []WeeklyTodos{
			{Date: "2026-10-17", Todos: []Todo{{ID: 1, Completed: true}, {ID: 2}}},
			{Date: "2026-10-18", Todos: []Todo{{ID: 3}}},
		},
		SomedayTodos: []Todo{{ID: 4}},
	}
	if _, ok := d.FindTodo(3); !ok {
		t.Error("FindTodo(3) not found")
	}
	if _, ok := d.FindTodo(4); !ok {
		t.Error("FindTodo(4) not found")
	}
	if _, ok := d.FindTodo(5); ok {
		t.Error("FindTodo(5) found")
	}
	done, pending := d.Stats()
	if done != 1 || pending != 2 {
		t.Errorf("Stats: got %d/%d, want 1/2", done, pending)
	}
	if !d.IsToday("2026-10-17") || d.IsToday("") {
		t.Error("IsToday mismatch")
	}
}

func TestSortedCategories(t *testing.T) {
	d := DashboardData{Categories: []Category{
		{ID: 1, Name: "b", SortOrder: 2},
		{ID: 2, Name: "z", SortOrder: 1},
		{ID: 3, Name: "a", SortOrder: 2},
	}}
	got := d.SortedCategories()
	ids := []int64{got[0].ID, got[1].ID, got[2].ID}
	if ids[0] != 2 || ids[1] != 3 || ids[2] != 1 {
		t.Errorf("order: got %v", ids)
	}
	if d.Categories[0].ID != 1 {
		t.Error("SortedCategories must not reorder the snapshot")
	}
}

func TestUpdateTodoRequestEncoding(t *testing.T) {
	tests := []struct {
		name string
		req  UpdateTodoRequest
		want string
	}{
		{"toggle only", UpdateTodoRequest{}.SetCompleted(true), `{"completed":true}`},
		{"clear date", UpdateTodoRequest{}.ClearDate(), `{"scheduled_date":""}`},
		{"move to category", UpdateTodoRequest{}.SetCategory(3).ClearDate(), `{"scheduled_date":"","category_id":3}`},
		{"clear category", UpdateTodoRequest{}.ClearCategory(), `{"category_id":""}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.req)
			if err != nil {
				t.Fatal(err)
			}
			if string(b) != tt.want {
				t.Errorf("got %s, want %s", b, tt.want)
			}
		})
	}
}

func TestCategoryRefDecodesEmptyString(t *testing.T) {
	var req UpdateTodoRequest
	if err := json.Unmarshal([]byte(`{"category_id":""}`), &req); err != nil {
		t.Fatal(err)
	}
	if req.CategoryID == nil || *req.CategoryID != 0 {
		t.Errorf("got %v", req.CategoryID)
	}
}

func TestRequestNormalize(t *testing.T) {
	c := CreateTodoRequest{Title: "  milk "}
	if err := c.Normalize(); err != nil || c.Title != "milk" {
		t.Errorf("create: %v %q", err, c.Title)
	}
	c = CreateTodoRequest{Title: "   "}
	if err := c.Normalize(); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("create empty: got %v", err)
	}

	var u UpdateTodoRequest
	if err := u.Normalize(); !errors.Is(err, ErrNoFields) {
		t.Errorf("update empty: got %v", err)
	}
	u = UpdateTodoRequest{}.SetTitle(" ")
	if err := u.Normalize(); !errors.Is(err, ErrEmptyTitle) {
		t.Errorf("update blank title: got %v", err)
	}

	cat := CreateCategoryRequest{Name: "Books"}
	if err := cat.Normalize(); err != nil || cat.Color != DefaultCategoryColor {
		t.Errorf("category default color: %v %q", err, cat.Color)
	}
	cat = CreateCategoryRequest{Name: "Books", Color: "red"}
	if err := cat.Normalize(); !errors.Is(err, ErrInvalidColor) || !strings.Contains(err.Error(), "red") {
		t.Errorf("category bad color: got %v", err)
	}
}
