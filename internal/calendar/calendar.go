// Package calendar holds the date math behind the week grid.
package calendar

import (
	"fmt"
	"time"
)

// DateLayout is the wire format of scheduled_date and the dashboard dates.
const DateLayout = "2006-01-02"

// DaysPerWeek is both the grid width and the week navigation step.
const DaysPerWeek = 7

const day = 24 * time.Hour

// ISOWeek returns the ISO-8601 week number of t's calendar date.
//
// The date is pinned to UTC midnight and shifted to the Thursday of its
// Monday-based week; the week number is then the count of whole weeks between
// January 1 of that Thursday's year and the Thursday, plus one. Because the
// Thursday decides the year, Dec 29-31 can land in week 1 and Jan 1-3 in
// week 52 or 53 of the previous year.
func ISOWeek(t time.Time) int {
	d := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	wd := int(d.Weekday())
	if wd == 0 {
		wd = 7
	}
	thursday := d.AddDate(0, 0, 4-wd)
	yearStart := time.Date(thursday.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	days := int(thursday.Sub(yearStart) / day)
	return days/DaysPerWeek + 1
}

// ParseDate parses a wire date into UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return t, nil
}

// FormatDate renders t's calendar date in the wire format.
func FormatDate(t time.Time) string { return t.Format(DateLayout) }

// Today is the local calendar date in wire format.
func Today(now time.Time) string { return FormatDate(now) }

// WeekLabel is the short calendar-week marker shown in the header.
func WeekLabel(t time.Time) string { return fmt.Sprintf("CW %d", ISOWeek(t)) }

// MonthLabel is the month/year title of the grid, e.g. "October 2026".
func MonthLabel(t time.Time) string { return t.Format("January 2006") }

// DayNumber returns the day of month of a wire date, or 0 if it does not parse.
func DayNumber(date string) int {
	t, err := ParseDate(date)
	if err != nil {
		return 0
	}
	return t.Day()
}

// ShortWeekday returns "Mon", "Tue", ... for a wire date.
func ShortWeekday(date string) string {
	t, err := ParseDate(date)
	if err != nil {
		return ""
	}
	return t.Format("Mon")
}

// WeekOffsetFor returns the offset of the grid week, counted in whole weeks
// from today, that contains date.
func WeekOffsetFor(today, date string) (Offset, error) {
	from, err := ParseDate(today)
	if err != nil {
		return 0, err
	}
	to, err := ParseDate(date)
	if err != nil {
		return 0, err
	}
	days := int(to.Sub(from) / day)
	weeks := days / DaysPerWeek
	if days < 0 && days%DaysPerWeek != 0 {
		weeks--
	}
	return Weeks(weeks), nil
}

// Offset is the dashboard weekOffset parameter. It is measured in days from
// today; week navigation moves it by DaysPerWeek.
type Offset int

// Next and Prev step one week forward or back.
func (o Offset) Next() Offset { return o + DaysPerWeek }
func (o Offset) Prev() Offset { return o - DaysPerWeek }

// IsCurrent reports whether the grid starts today.
func (o Offset) IsCurrent() bool { return o == 0 }

// Weeks converts a whole-week count into an Offset.
func Weeks(n int) Offset { return Offset(n * DaysPerWeek) }
