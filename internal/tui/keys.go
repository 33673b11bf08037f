package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down, Left, Right key.Binding
	Toggle, Add, Edit     key.Binding
	Delete                key.Binding
	PrevWeek, NextWeek    key.Binding
	Today, Migrate        key.Binding
	NextTab               key.Binding
	NewCategory           key.Binding
	EditCategory          key.Binding
	DeleteCategory        key.Binding
	Grab, Drop, Cancel    key.Binding
	HideDone              key.Binding
	Refresh, Help, Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:             key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:           key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:           key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev day")),
		Right:          key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
		Toggle:         key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "done")),
		Add:            key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:           key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:         key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		PrevWeek:       key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev week")),
		NextWeek:       key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next week")),
		Today:          key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "this week")),
		Migrate:        key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "migrate")),
		NextTab:        key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next list")),
		NewCategory:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "new list")),
		EditCategory:   key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "rename list")),
		DeleteCategory: key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "delete list")),
		Grab:           key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
		Drop:           key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		Cancel:         key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		HideDone:       key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "hide done")),
		Refresh:        key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Help:           key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:           key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Toggle, k.Add, k.Grab, k.PrevWeek, k.NextWeek, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.NextTab},
		{k.Toggle, k.Add, k.Edit, k.Delete, k.HideDone},
		{k.PrevWeek, k.NextWeek, k.Today, k.Migrate, k.Refresh},
		{k.NewCategory, k.EditCategory, k.DeleteCategory},
		{k.Grab, k.Drop, k.Cancel, k.Help, k.Quit},
	}
}

// grabKeys is the help shown while a todo is held.
type grabKeys struct{ k keyMap }

func (g grabKeys) ShortHelp() []key.Binding {
	return []key.Binding{
		key.NewBinding(key.WithKeys("left", "right"), key.WithHelp("←/→", "target")),
		g.k.Drop, g.k.Cancel,
	}
}

func (g grabKeys) FullHelp() [][]key.Binding { return [][]key.Binding{g.ShortHelp()} }
