package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// DefaultCategoryColor is what the backend assigns when no color is given.
const DefaultCategoryColor = "#6b7280"

// Palette is the set of colors offered when creating a category.
var Palette = []string{
	"#6b46c1", "#059669", "#dc2626", "#7c2d12", "#1d4ed8", "#db2777", "#d97706", DefaultCategoryColor,
}

var (
	ErrEmptyTitle   = errors.New("title cannot be empty")
	ErrEmptyName    = errors.New("name cannot be empty")
	ErrNoFields     = errors.New("no fields to update")
	ErrInvalidColor = errors.New("color must look like #rrggbb")
)

var hexColor = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidColor reports whether c is a #rrggbb color.
func ValidColor(c string) bool { return hexColor.MatchString(c) }

// CategoryRef is a category_id in a write request. A ref <= 0 encodes as the
// empty string, which the backend treats as "no category".
type CategoryRef int64

func (r CategoryRef) MarshalJSON() ([]byte, error) {
	if r <= 0 {
		return []byte(`""`), nil
	}
	return strconv.AppendInt(nil, int64(r), 10), nil
}

func (r *CategoryRef) UnmarshalJSON(b []byte) error {
	var n NullInt
	if err := n.UnmarshalJSON(b); err != nil {
		return err
	}
	*r = CategoryRef(n.Int64)
	return nil
}

// CreateTodoRequest is the POST /todos body.
type CreateTodoRequest struct {
	Title         string `json:"title"`
	ScheduledDate string `json:"scheduled_date,omitempty"`
	CategoryID    *int64 `json:"category_id,omitempty"`
}

// Normalize trims the title and checks it.
func (r *CreateTodoRequest) Normalize() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return ErrEmptyTitle
	}
	return nil
}

// UpdateTodoRequest is the PUT /todos/{id} body. Nil fields are left alone.
type UpdateTodoRequest struct {
	Title         *string      `json:"title,omitempty"`
	Completed     *bool        `json:"completed,omitempty"`
	ScheduledDate *string      `json:"scheduled_date,omitempty"`
	CategoryID    *CategoryRef `json:"category_id,omitempty"`
}

// SetTitle, SetCompleted, SetDate and SetCategory return a copy with one
// field set, so requests read as a chain.
func (r UpdateTodoRequest) SetTitle(title string) UpdateTodoRequest {
	r.Title = &title
	return r
}

func (r UpdateTodoRequest) SetCompleted(done bool) UpdateTodoRequest {
	r.Completed = &done
	return r
}

func (r UpdateTodoRequest) SetDate(date string) UpdateTodoRequest {
	r.ScheduledDate = &date
	return r
}

// ClearDate moves the todo to the someday lists.
func (r UpdateTodoRequest) ClearDate() UpdateTodoRequest { return r.SetDate("") }

func (r UpdateTodoRequest) SetCategory(id int64) UpdateTodoRequest {
	ref := CategoryRef(id)
	r.CategoryID = &ref
	return r
}

// ClearCategory drops the category association.
func (r UpdateTodoRequest) ClearCategory() UpdateTodoRequest { return r.SetCategory(0) }

// Normalize trims a title if present and rejects empty updates.
func (r *UpdateTodoRequest) Normalize() error {
	if r.Title != nil {
		t := strings.TrimSpace(*r.Title)
		if t == "" {
			return ErrEmptyTitle
		}
		r.Title = &t
	}
	if r.Title == nil && r.Completed == nil && r.ScheduledDate == nil && r.CategoryID == nil {
		return ErrNoFields
	}
	return nil
}

// CreateCategoryRequest is the POST /categories body.
type CreateCategoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

func (r *CreateCategoryRequest) Normalize() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return ErrEmptyName
	}
	r.Color = strings.TrimSpace(r.Color)
	if r.Color == "" {
		r.Color = DefaultCategoryColor
	}
	if !ValidColor(r.Color) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, r.Color)
	}
	return nil
}

// UpdateCategoryRequest is the PUT /categories/{id} body.
type UpdateCategoryRequest struct {
	Name      *string `json:"name,omitempty"`
	Color     *string `json:"color,omitempty"`
	SortOrder *int    `json:"sort_order,omitempty"`
}

func (r *UpdateCategoryRequest) Normalize() error {
	if r.Name != nil {
		n := strings.TrimSpace(*r.Name)
		if n == "" {
			return ErrEmptyName
		}
		r.Name = &n
	}
	if r.Color != nil && !ValidColor(*r.Color) {
		return fmt.Errorf("%w: %q", ErrInvalidColor, *r.Color)
	}
	if r.Name == nil && r.Color == nil && r.SortOrder == nil {
		return ErrNoFields
	}
	return nil
}

// Envelope wraps every API response.
type Envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data,omitempty"`
	Error   string          `json:"error,omitempty"`
	Message string          `json:"message,omitempty"`
}

// HasData reports whether the envelope carries a non-null payload.
func (e Envelope) HasData() bool {
	d := bytes.TrimSpace(e.Data)
	return len(d) > 0 && !bytes.Equal(d, jsonNull)
}
