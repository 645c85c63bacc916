// Package render formats catalog listings and tool results for the terminal,
// with colours that follow the light or dark theme.
package render

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of colours for one theme
type Palette struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Accent    lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color
}

var (
	darkPalette = Palette{
		Primary:   lipgloss.Color("39"),  // Blue
		Secondary: lipgloss.Color("245"), // Gray
		Accent:    lipgloss.Color("212"), // Pink
		Error:     lipgloss.Color("196"), // Red
		Success:   lipgloss.Color("82"),  // Green
		Warning:   lipgloss.Color("214"), // Orange
	}
	lightPalette = Palette{
		Primary:   lipgloss.Color("25"),  // Dark blue
		Secondary: lipgloss.Color("240"), // Dark gray
		Accent:    lipgloss.Color("162"), // Magenta
		Error:     lipgloss.Color("160"), // Dark red
		Success:   lipgloss.Color("28"),  // Dark green
		Warning:   lipgloss.Color("130"), // Brown
	}
)

// Styles holds the lipgloss styles used by the CLI
type Styles struct {
	Theme string

	Category lipgloss.Style
	ID       lipgloss.Style
	Name     lipgloss.Style
	Muted    lipgloss.Style
	Alert    lipgloss.Style
	Success  lipgloss.Style
	Media    lipgloss.Style
}

// New builds the styles for theme ("light" or "dark") rendering to w.
// Colour is dropped automatically when w is not a terminal.
func New(theme string, w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	p := darkPalette
	if theme == "light" {
		p = lightPalette
	} else {
		theme = "dark"
	}

	return Styles{
		Theme: theme,

		Category: r.NewStyle().
			Bold(true).
			Foreground(p.Primary),

		ID: r.NewStyle().
			Foreground(p.Accent).
			Bold(true),

		Name: r.NewStyle().
			Foreground(p.Secondary),

		Muted: r.NewStyle().
			Foreground(p.Secondary).
			Italic(true),

		Alert: r.NewStyle().
			Foreground(p.Error).
			Bold(true),

		Success: r.NewStyle().
			Foreground(p.Success),

		Media: r.NewStyle().
			Foreground(p.Warning).
			Italic(true),
	}
}
