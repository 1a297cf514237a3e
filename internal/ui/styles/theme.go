package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme represents a color scheme for the application
type Theme struct {
	Name string

	Background    lipgloss.Color
	Foreground    lipgloss.Color
	ForegroundDim lipgloss.Color

	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color

	// Work and break periods
	Work  lipgloss.Color
	Break lipgloss.Color

	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color

	Border      lipgloss.Color
	BorderFocus lipgloss.Color
	Selection   lipgloss.Color
}

// TokyoNight is the default color theme
var TokyoNight = Theme{
	Name: "Tokyo Night",

	Background:    lipgloss.Color("#1a1b26"),
	Foreground:    lipgloss.Color("#c0caf5"),
	ForegroundDim: lipgloss.Color("#565f89"),

	Primary:   lipgloss.Color("#7aa2f7"),
	Secondary: lipgloss.Color("#bb9af7"),
	Accent:    lipgloss.Color("#7dcfff"),

	Work:  lipgloss.Color("#f7768e"),
	Break: lipgloss.Color("#9ece6a"),

	Success: lipgloss.Color("#9ece6a"),
	Warning: lipgloss.Color("#e0af68"),
	Error:   lipgloss.Color("#f7768e"),

	Border:      lipgloss.Color("#3b4261"),
	BorderFocus: lipgloss.Color("#7aa2f7"),
	Selection:   lipgloss.Color("#33467c"),
}

// Current holds the active theme
var Current = TokyoNight

// MaxWidth is the maximum content width for the app (classic terminal width)
const MaxWidth = 80

// ContentWidth returns the actual content width to use (min of terminal width and MaxWidth)
func ContentWidth(terminalWidth int) int {
	if terminalWidth > MaxWidth {
		return MaxWidth
	}
	return terminalWidth
}

// CenterView wraps content and centers it horizontally if terminal is wider than MaxWidth
func CenterView(content string, terminalWidth, terminalHeight int) string {
	if terminalWidth <= MaxWidth {
		return content
	}
	return lipgloss.Place(terminalWidth, terminalHeight,
		lipgloss.Center, lipgloss.Top,
		content,
	)
}

// Swatch renders a project color dot, or a dim one without a color
func Swatch(color string) string {
	if color == "" {
		return lipgloss.NewStyle().Foreground(Current.ForegroundDim).Render("○")
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("●")
}

// Styles holds all the pre-computed styles for the UI
type Styles struct {
	Title      lipgloss.Style
	TitleMuted lipgloss.Style

	ListItem     lipgloss.Style
	ListSelected lipgloss.Style
	ListGrabbed  lipgloss.Style

	// Timer face
	Clock      lipgloss.Style
	ClockBreak lipgloss.Style
	Status     lipgloss.Style

	// Schedule
	SlotDone    lipgloss.Style
	SlotOpen    lipgloss.Style
	SlotRemoved lipgloss.Style
	SlotTime    lipgloss.Style
	Banner      lipgloss.Style
	Prompt      lipgloss.Style

	Button        lipgloss.Style
	ButtonFocused lipgloss.Style
	ButtonPrimary lipgloss.Style

	Input        lipgloss.Style
	InputFocused lipgloss.Style

	Help     lipgloss.Style
	HelpKey  lipgloss.Style
	HelpDesc lipgloss.Style

	Error lipgloss.Style
}

// NewStyles creates styles based on the current theme
func NewStyles() *Styles {
	t := Current

	return &Styles{
		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		TitleMuted: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		ListItem: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Padding(0, 2),

		ListSelected: lipgloss.NewStyle().
			Foreground(t.Primary).
			Background(t.Selection).
			Padding(0, 2).
			Bold(true),

		ListGrabbed: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Accent).
			Padding(0, 2).
			Bold(true),

		Clock: lipgloss.NewStyle().
			Foreground(t.Work).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Work).
			Padding(0, 3).
			Bold(true),

		ClockBreak: lipgloss.NewStyle().
			Foreground(t.Break).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Break).
			Padding(0, 3).
			Bold(true),

		Status: lipgloss.NewStyle().
			Foreground(t.Secondary),

		SlotDone: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Strikethrough(true),

		SlotOpen: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Italic(true),

		SlotRemoved: lipgloss.NewStyle().
			Foreground(t.Error).
			Italic(true),

		SlotTime: lipgloss.NewStyle().
			Foreground(t.Accent),

		Banner: lipgloss.NewStyle().
			Foreground(t.Warning).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Warning).
			Padding(0, 1),

		Prompt: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus),

		Button: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 2),

		ButtonFocused: lipgloss.NewStyle().
			Foreground(t.Primary).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 2).
			Bold(true),

		ButtonPrimary: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Padding(0, 2).
			Bold(true),

		Input: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(0, 1),

		InputFocused: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(t.BorderFocus).
			Padding(0, 1),

		Help: lipgloss.NewStyle().
			Foreground(t.ForegroundDim).
			Padding(1, 2),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.ForegroundDim),

		Error: lipgloss.NewStyle().
			Foreground(t.Error),
	}
}
