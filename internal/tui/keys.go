package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the table key bindings.
type KeyMap struct {
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Top         key.Binding
	Bottom      key.Binding
	Left        key.Binding
	Right       key.Binding
	NextColumn  key.Binding
	PrevColumn  key.Binding
	Toggle      key.Binding
	Sort        key.Binding
	ExpandAll   key.Binding
	CollapseAll key.Binding
	Resize      key.Binding
	Commit      key.Binding
	Cancel      key.Binding
	Help        key.Binding
	Quit        key.Binding
}

// DefaultKeyMap returns the default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PageUp:      key.NewBinding(key.WithKeys("pgup", "b"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown", "f"), key.WithHelp("pgdn", "page down")),
		Top:         key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:      key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Left:        key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "scroll left")),
		Right:       key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "scroll right")),
		NextColumn:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next column")),
		PrevColumn:  key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev column")),
		Toggle:      key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "expand/collapse")),
		Sort:        key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort column")),
		ExpandAll:   key.NewBinding(key.WithKeys("E"), key.WithHelp("E", "expand all")),
		CollapseAll: key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "collapse all")),
		Resize:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resize column")),
		Commit:      key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "apply width")),
		Cancel:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Sort, k.Resize, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PageUp, k.PageDown, k.Top, k.Bottom},
		{k.Left, k.Right, k.NextColumn, k.PrevColumn},
		{k.Toggle, k.ExpandAll, k.CollapseAll, k.Sort},
		{k.Resize, k.Commit, k.Cancel, k.Help, k.Quit},
	}
}

// resizeKeys is the help shown while a column is being resized.
type resizeKeys struct{ k KeyMap }

func (r resizeKeys) ShortHelp() []key.Binding {
	return []key.Binding{r.k.Left, r.k.Right, r.k.Commit, r.k.Cancel}
}

func (r resizeKeys) FullHelp() [][]key.Binding { return [][]key.Binding{r.ShortHelp()} }
