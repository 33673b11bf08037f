package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/niclasedge/fast-teuxdeux/internal/model"
)

type createdID struct {
	ID int64 `json:"id"`
}

type migrated struct {
	MigratedCount int `json:"migrated_count"`
}

// Health is the backend health check payload.
type Health struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

// Dashboard fetches the snapshot for the week starting weekOffset days from
// today.
func (c *Client) Dashboard(ctx context.Context, weekOffset int) (*model.DashboardData, error) {
	var q url.Values
	if weekOffset != 0 {
		q = url.Values{"weekOffset": {strconv.Itoa(weekOffset)}}
	}

	var raw json.RawMessage
	if _, err := c.do(ctx, http.MethodGet, "/dashboard", q, nil, &raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, &Error{Message: "dashboard response carried no data"}
	}
	if c.schema != nil {
		if err := validateDashboard(c.schema, raw); err != nil {
			c.log.Error("dashboard failed schema validation", "err", err)
			return nil, err
		}
	}

	var d model.DashboardData
	if err := json.Unmarshal(raw, &d); err != nil {
		return nil, fmt.Errorf("decode dashboard: %w", err)
	}
	return &d, nil
}

// CreateTodo creates a todo and returns its id.
func (c *Client) CreateTodo(ctx context.Context, req model.CreateTodoRequest) (int64, error) {
	if err := req.Normalize(); err != nil {
		return 0, err
	}
	var out createdID
	if _, err := c.do(ctx, http.MethodPost, "/todos", nil, req, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// UpdateTodo applies the non-nil fields of req to todo id.
func (c *Client) UpdateTodo(ctx context.Context, id int64, req model.UpdateTodoRequest) error {
	if err := req.Normalize(); err != nil {
		return err
	}
	_, err := c.do(ctx, http.MethodPut, todoPath(id), nil, req, nil)
	return err
}

// DeleteTodo removes todo id.
func (c *Client) DeleteTodo(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, todoPath(id), nil, nil, nil)
	return err
}

// MigrateTodos asks the backend to move unfinished past todos onto today and
// returns how many moved.
func (c *Client) MigrateTodos(ctx context.Context) (int, error) {
	var out migrated
	if _, err := c.do(ctx, http.MethodPost, "/todos/migrate", nil, nil, &out); err != nil {
		return 0, err
	}
	return out.MigratedCount, nil
}

// Categories lists all categories.
func (c *Client) Categories(ctx context.Context) ([]model.Category, error) {
	var out []model.Category
	if _, err := c.do(ctx, http.MethodGet, "/categories", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateCategory creates a category and returns its id.
func (c *Client) CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (int64, error) {
	if err := req.Normalize(); err != nil {
		return 0, err
	}
	var out createdID
	if _, err := c.do(ctx, http.MethodPost, "/categories", nil, req, &out); err != nil {
		return 0, err
	}
	return out.ID, nil
}

// UpdateCategory applies the non-nil fields of req to category id.
func (c *Client) UpdateCategory(ctx context.Context, id int64, req model.UpdateCategoryRequest) error {
	if err := req.Normalize(); err != nil {
		return err
	}
	_, err := c.do(ctx, http.MethodPut, categoryPath(id), nil, req, nil)
	return err
}

// DeleteCategory removes category id.
func (c *Client) DeleteCategory(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, categoryPath(id), nil, nil, nil)
	return err
}

// Health pings the backend. The health endpoint answers without an
// envelope, so it is decoded directly.
func (c *Client) Health(ctx context.Context) (Health, error) {
	var h Health
	resp, err := c.send(ctx, http.MethodGet, "/health", nil, nil)
	if err != nil {
		return h, err
	}
	if resp.status != http.StatusOK {
		c.log.Warn("backend unhealthy", "status", resp.status, "request_id", resp.reqID)
		return h, &Error{Status: resp.status, Message: "backend unhealthy", RequestID: resp.reqID}
	}
	if err := json.Unmarshal(resp.body, &h); err != nil {
		return h, fmt.Errorf("health: decode: %w", err)
	}
	return h, nil
}

func todoPath(id int64) string     { return "/todos/" + strconv.FormatInt(id, 10) }
func categoryPath(id int64) string { return "/categories/" + strconv.FormatInt(id, 10) }
