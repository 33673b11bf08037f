// Package model holds the planner entities as the backend serves them.
//
// The client never owns these values: every dashboard fetch replaces the
// previous snapshot wholesale and nothing here is merged or cached.
package model

import (
	"sort"
	"time"
)

// Uncategorized is the someday bucket key for todos without a usable category.
const Uncategorized int64 = 0

// Todo is a single planner entry.
type Todo struct {
	ID               int64      `json:"id"`
	Title            string     `json:"title"`
	Completed        bool       `json:"completed"`
	CategoryID       NullInt    `json:"category_id"`
	CategoryName     string     `json:"category_name,omitempty"`
	CategoryColor    string     `json:"category_color,omitempty"`
	ScheduledDate    NullString `json:"scheduled_date"`
	SortOrder        int        `json:"sort_order"`
	Color            NullString `json:"color"`
	RecurringPattern NullString `json:"recurring_pattern"`
	ParentID         NullInt    `json:"parent_id"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// Date returns the scheduled date, or "" for a someday todo.
func (t Todo) Date() string {
	if !t.ScheduledDate.Valid {
		return ""
	}
	return t.ScheduledDate.String
}

// Someday reports whether the todo has no scheduled date.
func (t Todo) Someday() bool { return t.Date() == "" }

// Category is a user defined someday list.
type Category struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Color     string    `json:"color"`
	SortOrder int       `json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// WeeklyTodos is one day column of the week grid.
type WeeklyTodos struct {
	Date  string `json:"date"`
	Day   string `json:"day"`
	Todos []Todo `json:"todos"`
}

// DashboardData is the aggregate snapshot the client renders.
type DashboardData struct {
	WeeklyTodos   []WeeklyTodos `json:"weekly_todos"`
	SomedayTodos  []Todo        `json:"someday_todos"`
	Categories    []Category    `json:"categories"`
	TodayDate     string        `json:"today_date"`
	WeekStartDate string        `json:"week_start_date"`
}

// Category looks up a category by id.
func (d *DashboardData) Category(id int64) (Category, bool) {
	for _, c := range d.Categories {
		if c.ID == id {
			return c, true
		}
	}
	return Category{}, false
}

// Day returns the bucket for date.
func (d *DashboardData) Day(date string) (WeeklyTodos, bool) {
	for _, day := range d.WeeklyTodos {
		if day.Date == date {
			return day, true
		}
	}
	return WeeklyTodos{}, false
}

// IsToday reports whether date is the server's today.
func (d *DashboardData) IsToday(date string) bool {
	return date != "" && date == d.TodayDate
}

// FindTodo searches the day buckets first, then the someday list.
func (d *DashboardData) FindTodo(id int64) (Todo, bool) {
	for _, day := range d.WeeklyTodos {
		for _, t := range day.Todos {
			if t.ID == id {
				return t, true
			}
		}
	}
	for _, t := range d.SomedayTodos {
		if t.ID == id {
			return t, true
		}
	}
	return Todo{}, false
}

// BucketKey is the someday bucket a todo belongs to. A missing category and
// a reference to a category that no longer exists both fall back to
// Uncategorized.
func (d *DashboardData) BucketKey(t Todo) int64 {
	if !t.CategoryID.Valid || t.CategoryID.Int64 <= 0 {
		return Uncategorized
	}
	if _, ok := d.Category(t.CategoryID.Int64); !ok {
		return Uncategorized
	}
	return t.CategoryID.Int64
}

// SomedayByCategory groups undated todos by bucket key, keeping server order.
func (d *DashboardData) SomedayByCategory() map[int64][]Todo {
	out := make(map[int64][]Todo, len(d.Categories)+1)
	for _, t := range d.SomedayTodos {
		k := d.BucketKey(t)
		out[k] = append(out[k], t)
	}
	return out
}

// SortedCategories returns the categories ordered the way the backend orders
// them: sort_order, then name.
func (d *DashboardData) SortedCategories() []Category {
	out := append([]Category(nil), d.Categories...)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].SortOrder != out[j].SortOrder {
			return out[i].SortOrder < out[j].SortOrder
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// Stats counts done and pending todos across the visible week.
func (d *DashboardData) Stats() (done, pending int) {
	for _, day := range d.WeeklyTodos {
		for _, t := range day.Todos {
			if t.Completed {
				done++
			} else {
				pending++
			}
		}
	}
	return
}
