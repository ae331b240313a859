package gridview

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up          key.Binding
	Down        key.Binding
	Left        key.Binding
	Right       key.Binding
	JumpUp      key.Binding
	JumpDown    key.Binding
	JumpLeft    key.Binding
	JumpRight   key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	ScrollLeft  key.Binding
	ScrollRight key.Binding

	Select    key.Binding
	SelectAll key.Binding
	Clear     key.Binding

	Search       key.Binding
	Filter       key.Binding
	ClearFilters key.Binding
	Sort         key.Binding
	SortMulti    key.Binding

	Wider    key.Binding
	Narrower key.Binding
	AutoFit  key.Binding
	Pin      key.Binding
	Hide     key.Binding
	ShowAll  key.Binding
	Drag     key.Binding
	Reset    key.Binding
	Save     key.Binding

	Move       key.Binding
	Copy       key.Binding
	Delete     key.Binding
	Edit       key.Binding
	Views      key.Binding
	NewView    key.Binding
	DeleteView key.Binding
	Reload     key.Binding

	YankCell key.Binding
	YankRow  key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:        key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "prev column")),
	Right:       key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next column")),
	JumpUp:      key.NewBinding(key.WithKeys("ctrl+up", "home", "g"), key.WithHelp("g", "first row")),
	JumpDown:    key.NewBinding(key.WithKeys("ctrl+down", "end", "G"), key.WithHelp("G", "last row")),
	JumpLeft:    key.NewBinding(key.WithKeys("ctrl+left", "0"), key.WithHelp("0", "first column")),
	JumpRight:   key.NewBinding(key.WithKeys("ctrl+right", "$"), key.WithHelp("$", "last column")),
	PageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
	PageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
	ScrollLeft:  key.NewBinding(key.WithKeys("shift+left"), key.WithHelp("⇧←", "scroll left")),
	ScrollRight: key.NewBinding(key.WithKeys("shift+right"), key.WithHelp("⇧→", "scroll right")),

	Select:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "select row")),
	SelectAll: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
	Clear:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "clear selection")),

	Search:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Filter:       key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filter column")),
	ClearFilters: key.NewBinding(key.WithKeys("F"), key.WithHelp("F", "clear filters")),
	Sort:         key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort")),
	SortMulti:    key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "add sort")),

	Wider:    key.NewBinding(key.WithKeys("+", "ctrl+l"), key.WithHelp("+", "wider")),
	Narrower: key.NewBinding(key.WithKeys("-", "ctrl+h"), key.WithHelp("-", "narrower")),
	AutoFit:  key.NewBinding(key.WithKeys("="), key.WithHelp("=", "auto-fit")),
	Pin:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pin")),
	Hide:     key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hide column")),
	ShowAll:  key.NewBinding(key.WithKeys("H"), key.WithHelp("H", "show all")),
	Drag:     key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "reorder")),
	Reset:    key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("^r", "reset layout")),
	Save:     key.NewBinding(key.WithKeys("w"), key.WithHelp("w", "save layout")),

	Move:       key.NewBinding(key.WithKeys("M"), key.WithHelp("M", "move to")),
	Copy:       key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "copy to")),
	Delete:     key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete rows")),
	Edit:       key.NewBinding(key.WithKeys("e", "enter"), key.WithHelp("e", "edit cell")),
	Views:      key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "views")),
	NewView:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new view")),
	DeleteView: key.NewBinding(key.WithKeys("X"), key.WithHelp("X", "delete view")),
	Reload:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),

	YankCell: key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy cell")),
	YankRow:  key.NewBinding(key.WithKeys("Y"), key.WithHelp("Y", "copy row")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.Search, k.Filter, k.Sort, k.Move, k.Views, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right, k.JumpUp, k.JumpDown, k.PageUp, k.PageDown},
		{k.Select, k.SelectAll, k.Clear, k.Search, k.Filter, k.ClearFilters, k.Sort, k.SortMulti},
		{k.Wider, k.Narrower, k.AutoFit, k.Pin, k.Hide, k.ShowAll, k.Drag, k.Reset, k.Save},
		{k.Move, k.Copy, k.Delete, k.Edit, k.Views, k.NewView, k.DeleteView, k.Reload, k.YankCell, k.YankRow},
	}
}
