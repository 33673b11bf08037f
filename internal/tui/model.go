// Package tui is the interactive week board: seven day columns over the
// someday lists, driven by the dashboard endpoint.
//
// The board never edits its snapshot in place. Every successful mutation is
// followed by a fresh dashboard fetch, and fetches are numbered so that a
// slow response can never overwrite a newer one.
package tui

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/niclasedge/fast-teuxdeux/internal/api"
	"github.com/niclasedge/fast-teuxdeux/internal/calendar"
	"github.com/niclasedge/fast-teuxdeux/internal/drag"
	"github.com/niclasedge/fast-teuxdeux/internal/model"
	"github.com/niclasedge/fast-teuxdeux/internal/store/jsonstore"
)

// Backend is the slice of the API client the board uses.
type Backend interface {
	Dashboard(ctx context.Context, weekOffset int) (*model.DashboardData, error)
	CreateTodo(ctx context.Context, req model.CreateTodoRequest) (int64, error)
	UpdateTodo(ctx context.Context, id int64, req model.UpdateTodoRequest) error
	DeleteTodo(ctx context.Context, id int64) error
	MigrateTodos(ctx context.Context) (int, error)
	CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (int64, error)
	UpdateCategory(ctx context.Context, id int64, req model.UpdateCategoryRequest) error
	DeleteCategory(ctx context.Context, id int64) error
}

// Options wires the board to its collaborators.
type Options struct {
	Backend Backend
	State   *jsonstore.Store
	Logger  *log.Logger
	// Flash is how long transient messages stay visible.
	Flash time.Duration
}

type mode int

const (
	modeBrowse mode = iota
	modeAdd
	modeEdit
	modeConfirmDelete
	modeNewCategory
	modeEditCategory
	modeConfirmDeleteCategory
	modeGrab
)

// somedayCol is the focus column of the someday list, after the seven days.
const somedayCol = calendar.DaysPerWeek

// Model is the Bubble Tea model of the board.
type Model struct {
	ctx      context.Context
	api      Backend
	state    *jsonstore.Store
	log      *log.Logger
	flashFor time.Duration

	keys  keyMap
	help  help.Model
	spin  spinner.Model
	input textinput.Model

	width, height int

	data    *model.DashboardData
	offset  calendar.Offset
	gen     uint64 // newest issued fetch
	loading bool
	loadErr error

	col, row int
	active   int64
	showDone bool

	mode      mode
	target    int64 // todo or category the open prompt acts on
	drag      drag.Controller
	grabIdx   int
	pressed   *drag.Source // pressed on, not yet dragged
	mouseDrag bool

	flash    string
	flashErr bool
	flashSeq int
}

type dashboardMsg struct {
	gen  uint64
	data *model.DashboardData
	err  error
}

type mutatedMsg struct {
	op   string
	info string
	err  error
}

type flashDoneMsg struct{ seq int }

// New builds a board. The first fetch is issued by Init.
func New(ctx context.Context, opt Options) *Model {
	if ctx == nil {
		ctx = context.Background()
	}
	if opt.Logger == nil {
		opt.Logger = log.New(io.Discard)
	}
	if opt.Flash <= 0 {
		opt.Flash = 4 * time.Second
	}

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	sp := spinner.New()
	sp.Spinner = spinner.Dot

	m := &Model{
		ctx:      ctx,
		api:      opt.Backend,
		state:    opt.State,
		log:      opt.Logger,
		flashFor: opt.Flash,
		keys:     defaultKeys(),
		help:     help.New(),
		spin:     sp,
		input:    ti,
		gen:      1,
		loading:  true,
		showDone: true,
	}

	st, err := opt.State.Load()
	if err != nil {
		m.log.Warn("load view state", "err", err)
	} else {
		m.active = st.ActiveCategory
		if st.ShowCompleted != nil {
			m.showDone = *st.ShowCompleted
		}
	}
	return m
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, m.load(m.gen, m.offset))
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil
	case spinner.TickMsg:
		if !m.loading {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case dashboardMsg:
		return m, m.onDashboard(msg)
	case mutatedMsg:
		return m, m.onMutated(msg)
	case flashDoneMsg:
		if msg.seq == m.flashSeq {
			m.flash = ""
		}
		return m, nil
	case tea.MouseMsg:
		return m, m.onMouse(msg)
	case tea.KeyMsg:
		return m, m.onKey(msg)
	}

	if m.prompting() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) onDashboard(msg dashboardMsg) tea.Cmd {
	if msg.gen != m.gen {
		m.log.Debug("dropping stale dashboard", "gen", msg.gen, "newest", m.gen)
		return nil
	}
	m.loading = false
	if msg.err != nil {
		m.log.Error("load dashboard", "offset", int(m.offset), "err", msg.err)
		if m.data == nil {
			m.loadErr = msg.err
			return nil
		}
		return m.setFlash("Failed to load week: "+api.Message(msg.err), true)
	}
	m.loadErr = nil
	m.data = msg.data
	m.clampRow()
	return nil
}

func (m *Model) onMutated(msg mutatedMsg) tea.Cmd {
	if msg.err != nil {
		m.log.Error(msg.op, "err", msg.err)
		return m.setFlash("Failed to "+msg.op+": "+api.Message(msg.err), true)
	}
	m.log.Debug(msg.op + " ok")
	cmds := []tea.Cmd{m.refetch()}
	if msg.info != "" {
		cmds = append(cmds, m.setFlash(msg.info, false))
	}
	return tea.Batch(cmds...)
}

func (m *Model) setFlash(text string, isErr bool) tea.Cmd {
	m.flashSeq++
	seq := m.flashSeq
	m.flash, m.flashErr = text, isErr
	return tea.Tick(m.flashFor, func(time.Time) tea.Msg { return flashDoneMsg{seq: seq} })
}

// ------- selection -------

type listTab struct {
	id    int64
	name  string
	color string
	count int
}

// tabs lists the someday lists in backend order. The Uncategorized tab
// appears when it has todos, or when there are no categories at all.
func (m *Model) tabs() []listTab {
	if m.data == nil {
		return nil
	}
	buckets := m.data.SomedayByCategory()
	var out []listTab
	for _, c := range m.data.SortedCategories() {
		out = append(out, listTab{id: c.ID, name: c.Name, color: c.Color, count: len(m.visible(buckets[c.ID]))})
	}
	if len(buckets[model.Uncategorized]) > 0 || len(out) == 0 {
		out = append(out, listTab{
			id:    model.Uncategorized,
			name:  "Uncategorized",
			count: len(m.visible(buckets[model.Uncategorized])),
		})
	}
	return out
}

// activeTab is the remembered tab if it still exists, else the first one.
func (m *Model) activeTab() int64 {
	tabs := m.tabs()
	for _, t := range tabs {
		if t.id == m.active {
			return t.id
		}
	}
	if len(tabs) > 0 {
		return tabs[0].id
	}
	return model.Uncategorized
}

func (m *Model) setActive(id int64) {
	if m.active == id {
		return
	}
	m.active = id
	if m.col == somedayCol {
		m.row = 0
	}
	m.saveState()
}

func (m *Model) cycleTab() {
	tabs := m.tabs()
	if len(tabs) == 0 {
		return
	}
	cur := m.activeTab()
	for i, t := range tabs {
		if t.id == cur {
			m.setActive(tabs[(i+1)%len(tabs)].id)
			return
		}
	}
}

func (m *Model) visible(todos []model.Todo) []model.Todo {
	if m.showDone {
		return todos
	}
	out := make([]model.Todo, 0, len(todos))
	for _, t := range todos {
		if !t.Completed {
			out = append(out, t)
		}
	}
	return out
}

// paneTodos is what column col shows: a day, or the active someday list.
func (m *Model) paneTodos(col int) []model.Todo {
	if m.data == nil {
		return nil
	}
	if col < somedayCol {
		if col >= len(m.data.WeeklyTodos) {
			return nil
		}
		return m.visible(m.data.WeeklyTodos[col].Todos)
	}
	return m.visible(m.data.SomedayByCategory()[m.activeTab()])
}

// paneTarget is where a todo shown in col currently lives.
func (m *Model) paneTarget(col int) drag.Target {
	if col < somedayCol {
		if m.data == nil || col >= len(m.data.WeeklyTodos) {
			return drag.Target{}
		}
		return drag.Day(m.data.WeeklyTodos[col].Date)
	}
	return drag.Category(m.activeTab())
}

func (m *Model) selected() (model.Todo, bool) {
	todos := m.paneTodos(m.col)
	if m.row < 0 || m.row >= len(todos) {
		return model.Todo{}, false
	}
	return todos[m.row], true
}

func (m *Model) clampRow() {
	n := len(m.paneTodos(m.col))
	if m.row >= n {
		m.row = n - 1
	}
	if m.row < 0 {
		m.row = 0
	}
}

// grabTargets orders the keyboard drop targets: days, then someday lists.
func (m *Model) grabTargets() []drag.Target {
	var out []drag.Target
	if m.data != nil {
		for _, d := range m.data.WeeklyTodos {
			out = append(out, drag.Day(d.Date))
		}
	}
	for _, t := range m.tabs() {
		out = append(out, drag.Category(t.id))
	}
	return out
}

func (m *Model) prompting() bool {
	switch m.mode {
	case modeAdd, modeEdit, modeNewCategory, modeEditCategory:
		return true
	}
	return false
}

func (m *Model) saveState() {
	show := m.showDone
	if err := m.state.Save(jsonstore.State{ActiveCategory: m.active, ShowCompleted: &show}); err != nil {
		m.log.Warn("save view state", "err", err)
	}
}
