package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/niclasedge/fast-teuxdeux/internal/calendar"
	"github.com/niclasedge/fast-teuxdeux/internal/drag"
	"github.com/niclasedge/fast-teuxdeux/internal/ui"
)

const (
	defaultWidth  = 112
	defaultHeight = 32
	minRows       = 3
	minColWidth   = 10

	// header row + blank
	headerLines = 2
	// weekday label + rule
	dayHeadLines = 2
	// header, day heads, blank, tabs, blank, status, help
	chromeLines = headerLines + dayHeadLines + 5
)

type tabSpan struct {
	listTab
	label string
	x, w  int
}

// layout is the screen geometry of one frame. View draws with it and the
// mouse handler hit-tests with it, so both always agree.
type layout struct {
	width    int
	colW     int
	gridTop  int // first todo row of the day columns
	gridRows int
	tabsY    int
	tabs     []tabSpan
	listTop  int
	listRows int
	hits     drag.HitMap
}

func (m *Model) layout() *layout {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	l := &layout{width: w, colW: max(w/calendar.DaysPerWeek, minColWidth)}

	body := max(h-chromeLines, 2*minRows)
	longest := 0
	for col := 0; col < somedayCol; col++ {
		longest = max(longest, len(m.paneTodos(col)))
	}
	l.gridRows = min(max(longest+1, minRows), body-minRows)
	l.listRows = body - l.gridRows
	l.gridTop = headerLines + dayHeadLines
	l.tabsY = l.gridTop + l.gridRows + 1
	l.listTop = l.tabsY + 1

	x := 0
	for i, t := range m.tabs() {
		if i > 0 {
			x++ // separator
		}
		label := fmt.Sprintf(" %s (%d) ", ui.OneLine(t.name), t.count)
		span := tabSpan{listTab: t, label: label, x: x, w: lipgloss.Width(label)}
		l.tabs = append(l.tabs, span)
		x += span.w
	}

	if m.data != nil {
		for i, d := range m.data.WeeklyTodos {
			if i >= somedayCol {
				break
			}
			l.hits.Add(drag.Rect{X: i * l.colW, Y: headerLines, W: l.colW, H: dayHeadLines + l.gridRows}, drag.Day(d.Date))
		}
	}
	l.hits.Add(drag.Rect{X: 0, Y: l.listTop, W: w, H: l.listRows}, drag.Category(m.activeTab()))
	// Tabs go last so they win over anything they overlap.
	for _, t := range l.tabs {
		l.hits.Add(drag.Rect{X: t.x, Y: l.tabsY, W: t.w, H: 1}, drag.Category(t.id))
	}
	return l
}

func (l *layout) tabAt(x, y int) (int64, bool) {
	if y != l.tabsY {
		return 0, false
	}
	for _, t := range l.tabs {
		if x >= t.x && x < t.x+t.w {
			return t.id, true
		}
	}
	return 0, false
}

// scroll is the first visible index of col's list. Only the focused pane
// scrolls, just far enough to keep the cursor on screen.
func (m *Model) scroll(col, rows int) int {
	if col != m.col || m.row < rows {
		return 0
	}
	return m.row - rows + 1
}

// todoAt maps a screen cell to the todo drawn there.
func (m *Model) todoAt(l *layout, x, y int) (col, row int, ok bool) {
	switch {
	case y >= l.gridTop && y < l.gridTop+l.gridRows && x >= 0 && x < somedayCol*l.colW:
		col = x / l.colW
		row = m.scroll(col, l.gridRows) + y - l.gridTop
	case y >= l.listTop && y < l.listTop+l.listRows:
		col = somedayCol
		row = m.scroll(col, l.listRows) + y - l.listTop
	default:
		return 0, 0, false
	}
	if row >= len(m.paneTodos(col)) {
		return 0, 0, false
	}
	return col, row, true
}
