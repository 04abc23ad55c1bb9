package components

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	PrimaryColor   = lipgloss.Color("#7D56F4")
	SecondaryColor = lipgloss.Color("#04B575")
	Gray           = lipgloss.Color("#8B8B8B")
	CursorColor    = lipgloss.Color("#CCCCCC")
)

var (
	TitleStyle = lipgloss.NewStyle().
			Foreground(PrimaryColor).
			Bold(true).
			Padding(0, 1)

	SubtitleStyle = lipgloss.NewStyle().
			Foreground(SecondaryColor).
			Bold(true).
			Padding(0, 1)

	InfoStyle = lipgloss.NewStyle().
			Foreground(Gray).
			Padding(0, 1)

	BorderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(Gray)
)

// Cell renders one map tile as a two-column block of colour.
func Cell(color string) string {
	return lipgloss.NewStyle().Background(lipgloss.Color(color)).Render("  ")
}

// Cursor renders the character's tile.
func Cursor() string {
	return lipgloss.NewStyle().
		Background(CursorColor).
		Foreground(lipgloss.Color("#000000")).
		Bold(true).
		Render("@@")
}

// Swatch renders a legend entry.
func Swatch(color, label string) string {
	return lipgloss.JoinHorizontal(lipgloss.Center, Cell(color), InfoStyle.Render(label))
}
