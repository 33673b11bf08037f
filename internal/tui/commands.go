package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/niclasedge/fast-teuxdeux/internal/calendar"
	"github.com/niclasedge/fast-teuxdeux/internal/drag"
	"github.com/niclasedge/fast-teuxdeux/internal/model"
)

// Network work runs inside tea.Cmds. The closures capture the backend and
// the arguments, never the model.

func (m *Model) load(gen uint64, off calendar.Offset) tea.Cmd {
	b, ctx := m.api, m.ctx
	return func() tea.Msg {
		data, err := b.Dashboard(ctx, int(off))
		return dashboardMsg{gen: gen, data: data, err: err}
	}
}

// refetch issues a new dashboard fetch. Responses to older fetches are
// dropped when they arrive.
func (m *Model) refetch() tea.Cmd {
	m.gen++
	cmd := m.load(m.gen, m.offset)
	if m.loading {
		return cmd
	}
	m.loading = true
	return tea.Batch(cmd, m.spin.Tick)
}

func (m *Model) mutate(op string, fn func(context.Context, Backend) (string, error)) tea.Cmd {
	b, ctx := m.api, m.ctx
	return func() tea.Msg {
		info, err := fn(ctx, b)
		return mutatedMsg{op: op, info: info, err: err}
	}
}

func (m *Model) createTodo(req model.CreateTodoRequest) tea.Cmd {
	return m.mutate("add todo", func(ctx context.Context, b Backend) (string, error) {
		_, err := b.CreateTodo(ctx, req)
		return "", err
	})
}

func (m *Model) updateTodo(op string, id int64, req model.UpdateTodoRequest) tea.Cmd {
	return m.mutate(op, func(ctx context.Context, b Backend) (string, error) {
		return "", b.UpdateTodo(ctx, id, req)
	})
}

func (m *Model) deleteTodo(id int64) tea.Cmd {
	return m.mutate("delete todo", func(ctx context.Context, b Backend) (string, error) {
		return "", b.DeleteTodo(ctx, id)
	})
}

func (m *Model) migrate() tea.Cmd {
	return m.mutate("migrate todos", func(ctx context.Context, b Backend) (string, error) {
		n, err := b.MigrateTodos(ctx)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Moved %d unfinished todos to today", n), nil
	})
}

func (m *Model) createCategory(req model.CreateCategoryRequest) tea.Cmd {
	return m.mutate("add list", func(ctx context.Context, b Backend) (string, error) {
		_, err := b.CreateCategory(ctx, req)
		return "", err
	})
}

func (m *Model) updateCategory(id int64, req model.UpdateCategoryRequest) tea.Cmd {
	return m.mutate("rename list", func(ctx context.Context, b Backend) (string, error) {
		return "", b.UpdateCategory(ctx, id, req)
	})
}

func (m *Model) deleteCategory(id int64) tea.Cmd {
	return m.mutate("delete list", func(ctx context.Context, b Backend) (string, error) {
		return "", b.DeleteCategory(ctx, id)
	})
}

// move applies a completed drop.
func (m *Model) move(mut drag.Mutation) tea.Cmd {
	m.log.Debug("drop", "todo", mut.TodoID, "target", mut.Target.String())
	return m.updateTodo("move todo", mut.TodoID, mut.Request)
}

// newTodoRequest files a new todo under the focused day or someday list.
func (m *Model) newTodoRequest(title string) model.CreateTodoRequest {
	req := model.CreateTodoRequest{Title: title}
	if m.col < somedayCol {
		if m.data != nil && m.col < len(m.data.WeeklyTodos) {
			req.ScheduledDate = m.data.WeeklyTodos[m.col].Date
		}
		return req
	}
	if id := m.activeTab(); id != model.Uncategorized {
		req.CategoryID = &id
	}
	return req
}

func (m *Model) nextColor() string {
	n := 0
	if m.data != nil {
		n = len(m.data.Categories)
	}
	return model.Palette[n%len(model.Palette)]
}
