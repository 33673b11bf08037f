package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/niclasedge/fast-teuxdeux/internal/drag"
	"github.com/niclasedge/fast-teuxdeux/internal/model"
)

func (m *Model) onKey(msg tea.KeyMsg) tea.Cmd {
	if msg.Type == tea.KeyCtrlC || (!m.prompting() && key.Matches(msg, m.keys.Quit)) {
		return tea.Quit
	}
	if m.data == nil {
		// Only the retry screen takes keys.
		if m.loadErr != nil && key.Matches(msg, m.keys.Refresh) {
			m.loadErr = nil
			return m.refetch()
		}
		return nil
	}
	if m.mouseDrag && msg.Type == tea.KeyEsc {
		m.cancelMouseDrag()
		return nil
	}

	switch m.mode {
	case modeAdd, modeEdit, modeNewCategory, modeEditCategory:
		return m.onPromptKey(msg)
	case modeConfirmDelete, modeConfirmDeleteCategory:
		return m.onConfirmKey(msg)
	case modeGrab:
		return m.onGrabKey(msg)
	}
	return m.onBrowseKey(msg)
}

func (m *Model) onBrowseKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	switch {
	case key.Matches(msg, k.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, k.Up):
		if m.row > 0 {
			m.row--
		}
	case key.Matches(msg, k.Down):
		if m.row < len(m.paneTodos(m.col))-1 {
			m.row++
		}
	case key.Matches(msg, k.Left):
		if m.col > 0 {
			m.col--
			m.clampRow()
		}
	case key.Matches(msg, k.Right):
		if m.col < somedayCol {
			m.col++
			m.clampRow()
		}
	case key.Matches(msg, k.NextTab):
		m.cycleTab()
		m.clampRow()

	case key.Matches(msg, k.Toggle):
		if t, ok := m.selected(); ok {
			return m.updateTodo("update todo", t.ID, model.UpdateTodoRequest{}.SetCompleted(!t.Completed))
		}
	case key.Matches(msg, k.Add):
		return m.prompt(modeAdd, 0, "", "New todo")
	case key.Matches(msg, k.Edit):
		if t, ok := m.selected(); ok {
			return m.prompt(modeEdit, t.ID, t.Title, "Todo title")
		}
	case key.Matches(msg, k.Delete):
		if t, ok := m.selected(); ok {
			m.mode, m.target = modeConfirmDelete, t.ID
		}

	case key.Matches(msg, k.PrevWeek):
		m.offset = m.offset.Prev()
		return m.refetch()
	case key.Matches(msg, k.NextWeek):
		m.offset = m.offset.Next()
		return m.refetch()
	case key.Matches(msg, k.Today):
		if !m.offset.IsCurrent() {
			m.offset = 0
			return m.refetch()
		}
	case key.Matches(msg, k.Migrate):
		return m.migrate()

	case key.Matches(msg, k.NewCategory):
		return m.prompt(modeNewCategory, 0, "", "List name")
	case key.Matches(msg, k.EditCategory):
		if c, ok := m.data.Category(m.activeTab()); ok {
			return m.prompt(modeEditCategory, c.ID, c.Name, "List name")
		}
	case key.Matches(msg, k.DeleteCategory):
		if c, ok := m.data.Category(m.activeTab()); ok {
			m.mode, m.target = modeConfirmDeleteCategory, c.ID
		}

	case key.Matches(msg, k.Grab):
		m.grab()
	case key.Matches(msg, k.HideDone):
		m.showDone = !m.showDone
		m.clampRow()
		m.saveState()
	case key.Matches(msg, k.Refresh):
		return m.refetch()
	}
	return nil
}

func (m *Model) prompt(md mode, target int64, value, placeholder string) tea.Cmd {
	m.mode, m.target = md, target
	m.input.Placeholder = placeholder
	m.input.SetValue(value)
	m.input.CursorEnd()
	return m.input.Focus()
}

func (m *Model) closePrompt() {
	m.mode, m.target = modeBrowse, 0
	m.input.SetValue("")
	m.input.Blur()
}

func (m *Model) onPromptKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		m.closePrompt()
		return nil
	case tea.KeyEnter:
		value := strings.TrimSpace(m.input.Value())
		md, target := m.mode, m.target
		if value == "" {
			if md == modeNewCategory || md == modeEditCategory {
				return m.setFlash("Name cannot be empty", true)
			}
			return m.setFlash("Title cannot be empty", true)
		}
		m.closePrompt()
		switch md {
		case modeAdd:
			return m.createTodo(m.newTodoRequest(value))
		case modeEdit:
			return m.updateTodo("update todo", target, model.UpdateTodoRequest{}.SetTitle(value))
		case modeNewCategory:
			return m.createCategory(model.CreateCategoryRequest{Name: value, Color: m.nextColor()})
		case modeEditCategory:
			return m.updateCategory(target, model.UpdateCategoryRequest{Name: &value})
		}
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *Model) onConfirmKey(msg tea.KeyMsg) tea.Cmd {
	md, target := m.mode, m.target
	m.mode, m.target = modeBrowse, 0
	if msg.String() != "y" {
		return nil
	}
	if md == modeConfirmDelete {
		return m.deleteTodo(target)
	}
	return m.deleteCategory(target)
}

// grab picks up the selected todo for keyboard moving, hovering where it is.
func (m *Model) grab() {
	t, ok := m.selected()
	if !ok {
		return
	}
	from := m.paneTarget(m.col)
	if !m.drag.Begin(drag.Source{TodoID: t.ID, Title: t.Title, From: from}) {
		return
	}
	m.mode = modeGrab
	m.grabIdx = 0
	for i, target := range m.grabTargets() {
		if target == from {
			m.grabIdx = i
			break
		}
	}
	m.hoverGrab()
}

func (m *Model) hoverGrab() {
	targets := m.grabTargets()
	if len(targets) == 0 {
		m.drag.Leave()
		return
	}
	m.grabIdx = (m.grabIdx%len(targets) + len(targets)) % len(targets)
	m.drag.Over(targets[m.grabIdx])
}

func (m *Model) onGrabKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	switch {
	case key.Matches(msg, k.Left, k.Up):
		m.grabIdx--
		m.hoverGrab()
	case key.Matches(msg, k.Right, k.Down, k.NextTab):
		m.grabIdx++
		m.hoverGrab()
	case key.Matches(msg, k.Drop):
		mut, ok := m.drag.DropHovered()
		m.mode = modeBrowse
		if !ok {
			return nil
		}
		return m.move(mut)
	case key.Matches(msg, k.Cancel):
		m.drag.Cancel()
		m.mode = modeBrowse
	}
	return nil
}

// onMouse drives the pointer drag. Press on a todo selects it, the first
// motion picks it up, further motion hovers the zone under the cursor and
// release drops there. A press and release with no motion is a click. A
// press that arrives mid-drag means the release was lost; the stale drag is
// cancelled and the press handled as a fresh one.
func (m *Model) onMouse(msg tea.MouseMsg) tea.Cmd {
	if m.data == nil || (m.mode != modeBrowse && !m.mouseDrag) {
		return nil
	}
	lay := m.layout()
	switch msg.Action {
	case tea.MouseActionPress:
		if m.mouseDrag {
			m.cancelMouseDrag()
		}
		if msg.Button != tea.MouseButtonLeft {
			return nil
		}
		m.pressed = nil
		if id, ok := lay.tabAt(msg.X, msg.Y); ok {
			m.setActive(id)
			m.col = somedayCol
			m.clampRow()
			return nil
		}
		col, row, ok := m.todoAt(lay, msg.X, msg.Y)
		if !ok {
			return nil
		}
		m.col, m.row = col, row
		if t, ok := m.selected(); ok {
			m.pressed = &drag.Source{TodoID: t.ID, Title: t.Title, From: m.paneTarget(col)}
		}
	case tea.MouseActionMotion:
		if m.pressed != nil {
			m.mouseDrag = m.drag.Begin(*m.pressed)
			m.pressed = nil
		}
		if m.mouseDrag {
			m.drag.Move(&lay.hits, msg.X, msg.Y)
		}
	case tea.MouseActionRelease:
		m.pressed = nil
		if !m.mouseDrag {
			return nil
		}
		m.mouseDrag = false
		mut, ok := m.drag.End(&lay.hits, msg.X, msg.Y)
		if !ok {
			return nil
		}
		return m.move(mut)
	}
	return nil
}

func (m *Model) cancelMouseDrag() {
	m.drag.Cancel()
	m.mouseDrag = false
	m.pressed = nil
}
