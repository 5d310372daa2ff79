package theme

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the color scheme for the UI
type Theme struct {
	Name string

	// Base colors
	Background lipgloss.Color
	Foreground lipgloss.Color
	Subtle     lipgloss.Color
	Highlight  lipgloss.Color
	Border     lipgloss.Color

	// Semantic colors
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
	Error     lipgloss.Color
	Info      lipgloss.Color

	// Task markers
	Important lipgloss.Color
	Moving    lipgloss.Color
}

// Styles holds pre-computed lipgloss styles based on theme
type Styles struct {
	Header    lipgloss.Style
	TabActive lipgloss.Style
	TabIdle   lipgloss.Style
	UserLabel lipgloss.Style

	TaskNormal lipgloss.Style
	TaskCursor lipgloss.Style
	TaskDone   lipgloss.Style
	TaskMoving lipgloss.Style
	Important  lipgloss.Style
	Counter    lipgloss.Style
	Empty      lipgloss.Style

	Prompt lipgloss.Style
	Input  lipgloss.Style
	Panel  lipgloss.Style
	Title  lipgloss.Style
	Label  lipgloss.Style

	ToastInfo  lipgloss.Style
	ToastError lipgloss.Style

	HelpKey       lipgloss.Style
	HelpDesc      lipgloss.Style
	HelpSeparator lipgloss.Style
}

// NewStyles creates styles from a theme
func NewStyles(t Theme) Styles {
	return Styles{
		Header: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			Padding(0, 1),

		TabActive: lipgloss.NewStyle().
			Foreground(t.Background).
			Background(t.Primary).
			Bold(true).
			Padding(0, 1),

		TabIdle: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Padding(0, 1),

		UserLabel: lipgloss.NewStyle().
			Foreground(t.Secondary).
			Padding(0, 1),

		TaskNormal: lipgloss.NewStyle().
			Foreground(t.Foreground),

		TaskCursor: lipgloss.NewStyle().
			Foreground(t.Foreground).
			Background(t.Highlight).
			Bold(true),

		TaskDone: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Strikethrough(true),

		TaskMoving: lipgloss.NewStyle().
			Foreground(t.Moving).
			Bold(true),

		Important: lipgloss.NewStyle().
			Foreground(t.Important),

		Counter: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Padding(0, 1),

		Empty: lipgloss.NewStyle().
			Foreground(t.Subtle).
			Italic(true).
			Padding(1, 2),

		Prompt: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		Input: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Primary).
			Padding(0, 1),

		Panel: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(t.Border).
			Padding(1, 2),

		Title: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true).
			MarginBottom(1),

		Label: lipgloss.NewStyle().
			Foreground(t.Subtle),

		ToastInfo: lipgloss.NewStyle().
			Foreground(t.Info),

		ToastError: lipgloss.NewStyle().
			Foreground(t.Error).
			Bold(true),

		HelpKey: lipgloss.NewStyle().
			Foreground(t.Primary).
			Bold(true),

		HelpDesc: lipgloss.NewStyle().
			Foreground(t.Subtle),

		HelpSeparator: lipgloss.NewStyle().
			Foreground(t.Border),
	}
}

// TagBadge renders a tag name on its own color
func TagBadge(name, color string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFFFFF")).
		Background(lipgloss.Color(color)).
		Padding(0, 1).
		Render(name)
}

// Current holds the current active theme and styles
var Current = struct {
	Theme  Theme
	Styles Styles
}{
	Theme:  Nord,
	Styles: NewStyles(Nord),
}

// SetTheme changes the current theme
func SetTheme(t Theme) {
	Current.Theme = t
	Current.Styles = NewStyles(t)
}

// Available returns all available themes
func Available() []Theme {
	return []Theme{
		Nord,
		Dracula,
	}
}

// ByName returns a theme by its name
func ByName(name string) (Theme, bool) {
	for _, t := range Available() {
		if t.Name == name {
			return t, true
		}
	}
	return Theme{}, false
}
