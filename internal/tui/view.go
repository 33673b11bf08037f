package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/niclasedge/fast-teuxdeux/internal/api"
	"github.com/niclasedge/fast-teuxdeux/internal/calendar"
	"github.com/niclasedge/fast-teuxdeux/internal/drag"
	"github.com/niclasedge/fast-teuxdeux/internal/model"
	"github.com/niclasedge/fast-teuxdeux/internal/ui"
)

func (m *Model) View() string {
	th := ui.Current()
	if m.data == nil {
		if m.loadErr != nil {
			return ui.Box(strings.Join([]string{
				th.Error.Render("Couldn't load your week"),
				"",
				api.Message(m.loadErr),
				"",
				th.Help.Render("r retry • q quit"),
			}, "\n"))
		}
		return fmt.Sprintf("\n  %s Loading your week…\n", m.spin.View())
	}
	if m.help.ShowAll {
		return m.header() + "\n\n" + m.help.View(m.keys) + "\n\n" + th.Help.Render("? close help")
	}

	lay := m.layout()
	lines := make([]string, 0, chromeLines+lay.gridRows+lay.listRows)
	lines = append(lines, m.header(), "")
	lines = append(lines, m.dayHeads(lay)...)
	for r := 0; r < lay.gridRows; r++ {
		lines = append(lines, m.gridRow(lay, r))
	}
	lines = append(lines, "", m.tabLine(lay))

	list := m.paneTodos(somedayCol)
	off := m.scroll(somedayCol, lay.listRows)
	for r := 0; r < lay.listRows; r++ {
		idx := off + r
		switch {
		case idx < len(list):
			lines = append(lines, m.todoCell(list[idx], lay.width-2, m.col == somedayCol && idx == m.row, true))
		case r == 0:
			lines = append(lines, th.Muted.Render("Nothing here yet. Press a to add."))
		default:
			lines = append(lines, "")
		}
	}
	lines = append(lines, "", m.statusLine(), m.helpLine())
	return strings.Join(lines, "\n")
}

func (m *Model) header() string {
	th := ui.Current()
	first := m.data.WeekStartDate
	if len(m.data.WeeklyTodos) > 0 {
		first = m.data.WeeklyTodos[0].Date
	}
	t, _ := calendar.ParseDate(first)
	done, pending := m.data.Stats()

	parts := []string{
		th.Title.Render(calendar.MonthLabel(t)),
		th.Accent.Render(calendar.WeekLabel(t)),
		th.Muted.Render(ui.ProgressBar(done, done+pending, 20)),
	}
	if !m.offset.IsCurrent() {
		parts = append(parts, th.Muted.Render(fmt.Sprintf("(%+d wk)", int(m.offset)/calendar.DaysPerWeek)))
	}
	if !m.showDone {
		parts = append(parts, th.Muted.Render("done hidden"))
	}
	if m.loading {
		parts = append(parts, m.spin.View())
	}
	return strings.Join(parts, "  ")
}

func (m *Model) dayHeads(l *layout) []string {
	th := ui.Current()
	var names, rules strings.Builder
	for i, d := range m.data.WeeklyTodos {
		if i >= somedayCol {
			break
		}
		label := ui.Truncate(fmt.Sprintf("%s %d", calendar.ShortWeekday(d.Date), calendar.DayNumber(d.Date)), l.colW-1)
		style := th.Title
		switch {
		case m.drag.Highlighted(drag.Day(d.Date)):
			style = th.DropTarget
		case m.data.IsToday(d.Date):
			style = th.Today
		}
		names.WriteString(pad(style.Render(label), l.colW))

		rule := th.Muted
		if i == m.col {
			rule = th.Accent
		}
		rules.WriteString(pad(rule.Render(strings.Repeat("─", l.colW-1)), l.colW))
	}
	return []string{names.String(), rules.String()}
}

func (m *Model) gridRow(l *layout, r int) string {
	var b strings.Builder
	for col := 0; col < somedayCol && col < len(m.data.WeeklyTodos); col++ {
		todos := m.paneTodos(col)
		idx := m.scroll(col, l.gridRows) + r
		cell := ""
		if idx < len(todos) {
			cell = m.todoCell(todos[idx], l.colW-1, col == m.col && idx == m.row, false)
		}
		b.WriteString(pad(cell, l.colW))
	}
	return b.String()
}

// todoCell draws one todo in width cells: checkbox, category dot when the
// todo sits in a day column, title.
func (m *Model) todoCell(t model.Todo, width int, selected, inList bool) string {
	th := ui.Current()
	box := th.BoxUnchecked
	if t.Completed {
		box = th.BoxChecked
	}

	var cat model.Category
	hasCat := false
	if !inList && t.CategoryID.Valid {
		cat, hasCat = m.data.Category(t.CategoryID.Int64)
	}
	used := lipgloss.Width(box) + 1
	if hasCat {
		used += 2
	}
	title := ui.Truncate(t.Title, width-used)

	if selected && m.mode != modeGrab {
		plain := box + " "
		if hasCat {
			plain += "● "
		}
		return th.Selected.Render(plain + title)
	}

	var b strings.Builder
	b.WriteString(th.Checkbox(t.Completed) + " ")
	if hasCat {
		b.WriteString(th.CategoryStyle(cat.Color).Render("●") + " ")
	}
	src, dragging := m.drag.Source()
	switch {
	case dragging && src.TodoID == t.ID:
		b.WriteString(th.Pending.Render(title))
	case t.Completed:
		b.WriteString(th.Done.Render(title))
	default:
		b.WriteString(title)
	}
	return b.String()
}

func (m *Model) tabLine(l *layout) string {
	th := ui.Current()
	active := m.activeTab()
	sep := th.Muted.Render("│")
	parts := make([]string, 0, len(l.tabs))
	for _, t := range l.tabs {
		style := th.CategoryStyle(t.color)
		switch {
		case m.drag.Highlighted(drag.Category(t.id)):
			style = th.DropTarget
		case t.id == active && m.col == somedayCol:
			style = th.Selected
		case t.id == active:
			style = style.Bold(true).Underline(true)
		}
		parts = append(parts, style.Render(t.label))
	}
	return strings.Join(parts, sep)
}

func (m *Model) statusLine() string {
	th := ui.Current()
	flash := ""
	if m.flash != "" {
		if m.flashErr {
			flash = th.Error.Render(m.flash)
		} else {
			flash = th.Success.Render(m.flash)
		}
	}

	switch m.mode {
	case modeAdd, modeEdit, modeNewCategory, modeEditCategory:
		line := m.promptLabel() + " " + m.input.View()
		if flash != "" {
			line += "  " + flash
		}
		return line
	case modeConfirmDelete:
		t, _ := m.data.FindTodo(m.target)
		return th.Pending.Render(fmt.Sprintf("Delete %q? (y/N)", t.Title))
	case modeConfirmDeleteCategory:
		c, _ := m.data.Category(m.target)
		return th.Pending.Render(fmt.Sprintf("Delete list %q? Todos in it must be moved first. (y/N)", c.Name))
	}
	if src, ok := m.drag.Source(); ok {
		return th.Accent.Render(fmt.Sprintf("Moving %q → %s", src.Title, m.targetLabel(m.drag.Highlight())))
	}
	return flash
}

func (m *Model) promptLabel() string {
	th := ui.Current()
	switch m.mode {
	case modeAdd:
		if m.col < somedayCol && m.col < len(m.data.WeeklyTodos) {
			d := m.data.WeeklyTodos[m.col].Date
			return th.Title.Render(fmt.Sprintf("Add to %s %d", calendar.ShortWeekday(d), calendar.DayNumber(d)))
		}
		return th.Title.Render("Add to " + m.targetLabel(drag.Category(m.activeTab())))
	case modeEdit:
		return th.Title.Render("Edit")
	case modeNewCategory:
		return th.Title.Render("New list")
	case modeEditCategory:
		return th.Title.Render("Rename list")
	}
	return ""
}

func (m *Model) targetLabel(t drag.Target) string {
	switch t.Kind {
	case drag.DayTarget:
		return fmt.Sprintf("%s %d", calendar.ShortWeekday(t.Date), calendar.DayNumber(t.Date))
	case drag.CategoryTarget:
		if c, ok := m.data.Category(t.CategoryID); ok {
			return ui.OneLine(c.Name)
		}
	case drag.SomedayTarget:
		return "Uncategorized"
	}
	return "…"
}

func (m *Model) helpLine() string {
	if m.mode == modeGrab {
		return m.help.View(grabKeys{m.keys})
	}
	return m.help.View(m.keys)
}

// pad right-fills an already styled string to w cells.
func pad(s string, w int) string {
	if n := w - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
