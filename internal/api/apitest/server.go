// Package apitest is an in-memory stand-in for the planner backend.
//
// It serves the same routes and envelopes as the real service, including the
// database/sql style null objects on todo fields, so client code can be
// exercised end to end without a database.
package apitest

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/niclasedge/fast-teuxdeux/internal/calendar"
	"github.com/niclasedge/fast-teuxdeux/internal/model"
)

// Call is one request the server saw.
type Call struct {
	Method string
	Path   string
}

// Server is a running fake backend.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	todos      map[int64]*model.Todo
	categories map[int64]*model.Category
	nextTodo   int64
	nextCat    int64
	calls      []Call
	failNext   []failure
	clock      func() time.Time

	// RefuseInUseDelete mirrors the real backend, which refuses to delete a
	// category that still has todos. With it off the todos keep a dangling
	// category_id.
	RefuseInUseDelete bool
	// Token, when set, is required as a bearer token on every request.
	Token string
}

type failure struct {
	status int
	msg    string
}

// Option configures a Server.
type Option func(*Server)

// WithClock fixes the server's notion of now.
func WithClock(now func() time.Time) Option {
	return func(s *Server) { s.clock = now }
}

// WithDefaultCategories seeds the five categories the real schema inserts.
func WithDefaultCategories() Option {
	return func(s *Server) {
		for i, c := range []struct{ name, color string }{
			{"Personal", "#6b46c1"},
			{"Grocery List", "#059669"},
			{"Restaurants", "#dc2626"},
			{"Books to Read", "#7c2d12"},
			{"Things to Buy", "#1d4ed8"},
		} {
			s.addCategory(c.name, c.color, i+1)
		}
	}
}

// WithToken requires a bearer token.
func WithToken(token string) Option {
	return func(s *Server) { s.Token = token }
}

// New starts a server. Close it when done.
func New(opts ...Option) *Server {
	gin.SetMode(gin.TestMode)
	s := &Server{
		todos:             map[int64]*model.Todo{},
		categories:        map[int64]*model.Category{},
		clock:             time.Now,
		RefuseInUseDelete: true,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

func (s *Server) routes() *gin.Engine {
	r := gin.New()
	r.Use(s.record, s.auth, s.injectFailure)

	api := r.Group("/api/v1")
	{
		api.GET("/dashboard", s.getDashboard)

		api.POST("/todos", s.createTodo)
		api.PUT("/todos/:id", s.updateTodo)
		api.DELETE("/todos/:id", s.deleteTodo)
		api.POST("/todos/migrate", s.migrateTodos)

		api.GET("/categories", s.getCategories)
		api.POST("/categories", s.createCategory)
		api.PUT("/categories/:id", s.updateCategory)
		api.DELETE("/categories/:id", s.deleteCategory)

		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": s.now()})
		})
	}
	return r
}

// Calls returns a copy of the request log.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Call(nil), s.calls...)
}

// Mutations counts non-GET requests.
func (s *Server) Mutations() int {
	n := 0
	for _, c := range s.Calls() {
		if c.Method != http.MethodGet {
			n++
		}
	}
	return n
}

// ResetCalls clears the request log.
func (s *Server) ResetCalls() {
	s.mu.Lock()
	s.calls = nil
	s.mu.Unlock()
}

// FailNext makes the next request fail with status and msg.
func (s *Server) FailNext(status int, msg string) {
	s.mu.Lock()
	s.failNext = append(s.failNext, failure{status: status, msg: msg})
	s.mu.Unlock()
}

// Today is the server's current date in wire format.
func (s *Server) Today() string { return calendar.FormatDate(s.now()) }

// SeedCategory inserts a category directly and returns its id.
func (s *Server) SeedCategory(name, color string) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.addCategory(name, color, len(s.categories)+1)
}

// SeedTodo inserts a todo directly and returns its id. date may be empty
// and categoryID may be zero.
func (s *Server) SeedTodo(title, date string, categoryID int64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var cat *int64
	if categoryID > 0 {
		cat = &categoryID
	}
	return s.addTodo(title, date, cat)
}

// Todo returns a copy of a stored todo.
func (s *Server) Todo(id int64) (model.Todo, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.todos[id]
	if !ok {
		return model.Todo{}, false
	}
	return s.joined(*t), true
}

func (s *Server) now() time.Time { return s.clock() }

func (s *Server) addCategory(name, color string, order int) int64 {
	s.nextCat++
	now := s.now()
	s.categories[s.nextCat] = &model.Category{
		ID: s.nextCat, Name: name, Color: color, SortOrder: order, CreatedAt: now, UpdatedAt: now,
	}
	return s.nextCat
}

func (s *Server) addTodo(title, date string, categoryID *int64) int64 {
	s.nextTodo++
	now := s.now()
	t := &model.Todo{ID: s.nextTodo, Title: title, CreatedAt: now, UpdatedAt: now}
	if date != "" {
		t.ScheduledDate = model.String(date)
	}
	if categoryID != nil && *categoryID > 0 {
		t.CategoryID = model.Int(*categoryID)
	}
	s.todos[t.ID] = t
	return t.ID
}

// joined fills in category name and color the way the backend's LEFT JOIN does.
func (s *Server) joined(t model.Todo) model.Todo {
	t.CategoryName, t.CategoryColor = "", ""
	if t.CategoryID.Valid {
		if c, ok := s.categories[t.CategoryID.Int64]; ok {
			t.CategoryName = c.Name
			t.CategoryColor = c.Color
		}
	}
	return t
}

func (s *Server) record(c *gin.Context) {
	s.mu.Lock()
	s.calls = append(s.calls, Call{Method: c.Request.Method, Path: c.Request.URL.Path})
	s.mu.Unlock()
	c.Next()
}

func (s *Server) auth(c *gin.Context) {
	if s.Token == "" {
		c.Next()
		return
	}
	got := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
	if got != s.Token {
		c.AbortWithStatusJSON(http.StatusUnauthorized, model.Envelope{Error: "unauthorized"})
		return
	}
	c.Next()
}

func (s *Server) injectFailure(c *gin.Context) {
	s.mu.Lock()
	var f *failure
	if len(s.failNext) > 0 {
		f = &s.failNext[0]
		s.failNext = s.failNext[1:]
	}
	s.mu.Unlock()
	if f != nil {
		c.AbortWithStatusJSON(f.status, model.Envelope{Error: f.msg})
		return
	}
	c.Next()
}

func fail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"success": false, "error": msg})
}

func ok(c *gin.Context, status int, msg string, data any) {
	body := gin.H{"success": true}
	if msg != "" {
		body["message"] = msg
	}
	if data != nil {
		body["data"] = data
	}
	c.JSON(status, body)
}

func paramID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func (s *Server) getDashboard(c *gin.Context) {
	offset, err := strconv.Atoi(c.DefaultQuery("weekOffset", "0"))
	if err != nil {
		offset = 0
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	start := now.AddDate(0, 0, offset)
	week := make([]model.WeeklyTodos, calendar.DaysPerWeek)
	for i := range week {
		d := start.AddDate(0, 0, i)
		date := calendar.FormatDate(d)
		week[i] = model.WeeklyTodos{Date: date, Day: d.Format("Monday"), Todos: s.todosWhere(func(t *model.Todo) bool {
			return t.Date() == date
		})}
	}
	someday := s.todosWhere(func(t *model.Todo) bool { return t.Someday() })
	sort.SliceStable(someday, func(i, j int) bool {
		return someday[i].CategoryID.Int64 < someday[j].CategoryID.Int64
	})

	ok(c, http.StatusOK, "", model.DashboardData{
		WeeklyTodos:   week,
		SomedayTodos:  someday,
		Categories:    s.sortedCategories(),
		TodayDate:     calendar.FormatDate(now),
		WeekStartDate: calendar.FormatDate(start),
	})
}

// todosWhere returns matching todos ordered by sort_order then creation. A
// nil slice is returned when nothing matches, as the backend does.
func (s *Server) todosWhere(match func(*model.Todo) bool) []model.Todo {
	var out []model.Todo
	for _, t := range s.todos {
		if match(t) {
			out = append(out, s.joined(*t))
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func (s *Server) sortedCategories() []model.Category {
	out := make([]model.Category, 0, len(s.categories))
	for _, c := range s.categories {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func (s *Server) createTodo(c *gin.Context) {
	var req model.CreateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		fail(c, http.StatusBadRequest, "Invalid request body: title is required")
		return
	}
	if req.ScheduledDate != "" {
		if _, err := calendar.ParseDate(req.ScheduledDate); err != nil {
			fail(c, http.StatusBadRequest, "Invalid scheduled_date")
			return
		}
	}

	s.mu.Lock()
	id := s.addTodo(req.Title, req.ScheduledDate, req.CategoryID)
	s.mu.Unlock()

	ok(c, http.StatusCreated, "Todo created successfully", gin.H{"id": id})
}

func (s *Server) updateTodo(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		fail(c, http.StatusBadRequest, "Invalid todo ID")
		return
	}
	var req model.UpdateTodoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Title == nil && req.Completed == nil && req.ScheduledDate == nil && req.CategoryID == nil {
		fail(c, http.StatusBadRequest, "No fields to update")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, found := s.todos[id]
	if !found {
		fail(c, http.StatusNotFound, "Todo not found")
		return
	}
	if req.Title != nil {
		t.Title = *req.Title
	}
	if req.Completed != nil {
		t.Completed = *req.Completed
	}
	if req.ScheduledDate != nil {
		t.ScheduledDate = model.NullString{}
		if *req.ScheduledDate != "" {
			t.ScheduledDate = model.String(*req.ScheduledDate)
		}
	}
	if req.CategoryID != nil {
		t.CategoryID = model.NullInt{}
		if *req.CategoryID > 0 {
			t.CategoryID = model.Int(int64(*req.CategoryID))
		}
	}
	t.UpdatedAt = s.now()
	ok(c, http.StatusOK, "Todo updated successfully", nil)
}

func (s *Server) deleteTodo(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		fail(c, http.StatusBadRequest, "Invalid todo ID")
		return
	}
	s.mu.Lock()
	delete(s.todos, id)
	s.mu.Unlock()
	ok(c, http.StatusOK, "Todo deleted successfully", nil)
}

func (s *Server) migrateTodos(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	today := calendar.FormatDate(s.now())
	n := 0
	for _, t := range s.todos {
		if d := t.Date(); !t.Completed && d != "" && d < today {
			t.ScheduledDate = model.String(today)
			n++
		}
	}
	ok(c, http.StatusOK, fmt.Sprintf("Migrated %d todos to today", n), gin.H{"migrated_count": n})
}

func (s *Server) getCategories(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ok(c, http.StatusOK, "", s.sortedCategories())
}

func (s *Server) createCategory(c *gin.Context) {
	var req model.CreateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		fail(c, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Color == "" {
		req.Color = model.DefaultCategoryColor
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cat := range s.categories {
		if cat.Name == req.Name {
			fail(c, http.StatusInternalServerError, "Failed to create category: UNIQUE constraint failed: categories.name")
			return
		}
	}
	id := s.addCategory(req.Name, req.Color, 0)
	ok(c, http.StatusCreated, "Category created successfully", gin.H{"id": id})
}

func (s *Server) updateCategory(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		fail(c, http.StatusBadRequest, "Invalid category ID")
		return
	}
	var req model.UpdateCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Name == nil && req.Color == nil && req.SortOrder == nil {
		fail(c, http.StatusBadRequest, "No fields to update")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cat, found := s.categories[id]
	if !found {
		fail(c, http.StatusNotFound, "Category not found")
		return
	}
	if req.Name != nil {
		cat.Name = *req.Name
	}
	if req.Color != nil {
		cat.Color = *req.Color
	}
	if req.SortOrder != nil {
		cat.SortOrder = *req.SortOrder
	}
	cat.UpdatedAt = s.now()
	ok(c, http.StatusOK, "Category updated successfully", nil)
}

func (s *Server) deleteCategory(c *gin.Context) {
	id, valid := paramID(c)
	if !valid {
		fail(c, http.StatusBadRequest, "Invalid category ID")
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.categories[id]; !found {
		fail(c, http.StatusNotFound, "Category not found")
		return
	}
	if s.RefuseInUseDelete {
		n := 0
		for _, t := range s.todos {
			if t.CategoryID.Valid && t.CategoryID.Int64 == id {
				n++
			}
		}
		if n > 0 {
			fail(c, http.StatusBadRequest, fmt.Sprintf("Cannot delete category: %d todos are using this category", n))
			return
		}
	}
	delete(s.categories, id)
	ok(c, http.StatusOK, "Category deleted successfully", nil)
}
