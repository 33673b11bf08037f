// Package events turns calendar exports into timed todos. An imported todo
// is titled "HH:MM summary (location)" and scheduled on the event's start
// date; the time prefix is what marks it as imported.
package events

import (
	"sort"
	"strings"
	"time"

	"github.com/niclasedge/fast-teuxdeux/internal/calendar"
)

// Event is one calendar entry.
type Event struct {
	Summary  string
	Start    time.Time
	End      time.Time
	Location string
}

// Title is the todo title for e.
func (e Event) Title() string {
	title := e.Start.Format("15:04") + " " + e.Summary
	if loc := strings.TrimSpace(e.Location); loc != "" {
		title += " (" + loc + ")"
	}
	return title
}

// Date is the wire date e is scheduled on.
func (e Event) Date() string { return calendar.FormatDate(e.Start) }

// IsTimed reports whether title starts with a valid "HH:MM " prefix.
func IsTimed(title string) bool {
	if len(title) < 6 || title[2] != ':' || title[5] != ' ' {
		return false
	}
	_, err := time.Parse("15:04", title[:5])
	return err == nil
}

// Signature identifies a scheduled todo for duplicate detection.
func Signature(title, date string) string { return title + "|" + date }

// Plan is what an import will do.
type Plan struct {
	Create     []Event
	Duplicates int
}

// PlanImport drops events whose signature is already in existing, or that
// repeat an earlier event of the same run. existing is extended in place.
func PlanImport(evs []Event, existing map[string]bool) Plan {
	var p Plan
	for _, e := range evs {
		sig := Signature(e.Title(), e.Date())
		if existing[sig] {
			p.Duplicates++
			continue
		}
		existing[sig] = true
		p.Create = append(p.Create, e)
	}
	return p
}

// Weeks lists, in order, the grid weeks counted from today that hold at
// least one event.
func Weeks(evs []Event, today string) ([]calendar.Offset, error) {
	seen := map[calendar.Offset]bool{}
	var out []calendar.Offset
	for _, e := range evs {
		off, err := calendar.WeekOffsetFor(today, e.Date())
		if err != nil {
			return nil, err
		}
		if !seen[off] {
			seen[off] = true
			out = append(out, off)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out, nil
}
