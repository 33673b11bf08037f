package drag

import (
	"fmt"

	"github.com/niclasedge/fast-teuxdeux/internal/model"
)

// Kind says what a drop target reassigns.
type Kind int

const (
	None Kind = iota
	// DayTarget schedules the todo on Target.Date.
	DayTarget
	// CategoryTarget files the todo under Target.CategoryID as a someday todo.
	CategoryTarget
	// SomedayTarget unschedules the todo and drops its category.
	SomedayTarget
)

// Target is a drop zone marker: a day column or a someday list.
type Target struct {
	Kind       Kind
	Date       string
	CategoryID int64
}

// Day returns the target for a day column.
func Day(date string) Target { return Target{Kind: DayTarget, Date: date} }

// Category returns the target for a category list. The uncategorized bucket
// maps to SomedayTarget.
func Category(id int64) Target {
	if id == model.Uncategorized {
		return Target{Kind: SomedayTarget}
	}
	return Target{Kind: CategoryTarget, CategoryID: id}
}

// Someday returns the uncategorized someday target.
func Someday() Target { return Target{Kind: SomedayTarget} }

// Valid reports whether the target can receive a drop.
func (t Target) Valid() bool {
	switch t.Kind {
	case DayTarget:
		return t.Date != ""
	case CategoryTarget:
		return t.CategoryID > 0
	case SomedayTarget:
		return true
	}
	return false
}

func (t Target) String() string {
	switch t.Kind {
	case DayTarget:
		return "day " + t.Date
	case CategoryTarget:
		return fmt.Sprintf("category %d", t.CategoryID)
	case SomedayTarget:
		return "someday"
	}
	return "none"
}

// Mutation is the single update a completed drop issues.
type Mutation struct {
	TodoID  int64
	Target  Target
	Request model.UpdateTodoRequest
}

// MutationFor builds the update moving todoID onto t.
func MutationFor(todoID int64, t Target) (Mutation, bool) {
	if todoID <= 0 || !t.Valid() {
		return Mutation{}, false
	}
	var req model.UpdateTodoRequest
	switch t.Kind {
	case DayTarget:
		req = req.SetDate(t.Date)
	case CategoryTarget:
		req = req.SetCategory(t.CategoryID).ClearDate()
	case SomedayTarget:
		req = req.ClearCategory().ClearDate()
	}
	return Mutation{TodoID: todoID, Target: t, Request: req}, true
}

// Rect is a cell-addressed screen region.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

type zone struct {
	rect   Rect
	target Target
}

// HitMap resolves screen cells to drop targets. Zones added later sit on
// top, so Resolve checks them first.
type HitMap struct {
	zones []zone
}

// Add registers a zone. Empty rects and invalid targets are ignored.
func (h *HitMap) Add(r Rect, t Target) {
	if r.W <= 0 || r.H <= 0 || !t.Valid() {
		return
	}
	h.zones = append(h.zones, zone{rect: r, target: t})
}

// Resolve returns the topmost target under (x, y).
func (h *HitMap) Resolve(x, y int) (Target, bool) {
	if h == nil {
		return Target{}, false
	}
	for i := len(h.zones) - 1; i >= 0; i-- {
		if h.zones[i].rect.Contains(x, y) {
			return h.zones[i].target, true
		}
	}
	return Target{}, false
}
