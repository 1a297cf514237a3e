package keys

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds every binding used by the views
type KeyMap struct {
	Quit   key.Binding
	Back   key.Binding
	New    key.Binding
	Enter  key.Binding
	Delete key.Binding
	Tab    key.Binding
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Help   key.Binding

	// Timer
	Toggle key.Binding
	Reset  key.Binding

	// Schedule
	Grab     key.Binding
	Done     key.Binding
	More     key.Binding
	Less     key.Binding
	Timeline key.Binding
	PrevDay  key.Binding
	NextDay  key.Binding
	DayStart key.Binding
	Schedule key.Binding
	Projects key.Binding
}

// DefaultKeyMap returns the default bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit:   key.NewBinding(key.WithKeys("ctrl+c", "q"), key.WithHelp("q", "quit")),
		Back:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new")),
		Enter:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("↵", "select")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Tab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next")),
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "swipe left")),
		Right:  key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "swipe right")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),

		Toggle: key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "start/pause")),
		Reset:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),

		Grab:     key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
		Done:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "done")),
		More:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "more")),
		Less:     key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "less")),
		Timeline: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "timeline")),
		PrevDay:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev day")),
		NextDay:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next day")),
		DayStart: key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "day start")),
		Schedule: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add to today")),
		Projects: key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "projects")),
	}
}
