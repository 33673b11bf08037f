package events

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
)

// Columns of the calendar export. Matching is case-insensitive; location is
// optional.
const (
	ColSummary  = "termin"
	ColStart    = "start"
	ColEnd      = "end"
	ColLocation = "location"
)

var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"02.01.2006 15:04",
}

// Report counts the rows ReadCSV dropped.
type Report struct {
	Rows       int
	Invalid    int // missing summary or unreadable times
	Duplicates int // same summary, start and end as an earlier row
}

// ReadCSV reads a calendar export. Times without a zone offset are taken in
// loc, and every time is converted to loc.
func ReadCSV(r io.Reader, loc *time.Location) ([]Event, Report, error) {
	var rep Report
	if loc == nil {
		loc = time.Local
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, rep, errors.New("calendar file is empty")
	}
	if err != nil {
		return nil, rep, fmt.Errorf("read calendar header: %w", err)
	}
	cols := map[string]int{}
	for i, h := range header {
		h = strings.TrimPrefix(h, "\ufeff")
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, need := range []string{ColSummary, ColStart, ColEnd} {
		if _, ok := cols[need]; !ok {
			return nil, rep, fmt.Errorf("calendar file has no %q column", need)
		}
	}

	var out []Event
	seen := map[string]bool{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, rep, fmt.Errorf("read calendar: %w", err)
		}
		rep.Rows++
		field := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return strings.TrimSpace(rec[i])
		}

		summary := field(ColSummary)
		start, errStart := parseTime(field(ColStart), loc)
		end, errEnd := parseTime(field(ColEnd), loc)
		if summary == "" || errStart != nil || errEnd != nil {
			rep.Invalid++
			continue
		}
		key := fmt.Sprintf("%s|%d|%d", summary, start.Unix(), end.Unix())
		if seen[key] {
			rep.Duplicates++
			continue
		}
		seen[key] = true
		out = append(out, Event{Summary: summary, Start: start, End: end, Location: field(ColLocation)})
	}
	return out, rep, nil
}

func parseTime(s string, loc *time.Location) (time.Time, error) {
	if s == "" {
		return time.Time{}, errors.New("empty time")
	}
	for _, layout := range timeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.In(loc), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised time %q", s)
}
