package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"textools/internal/texture"
)

var (
	ColorInk       = lipgloss.Color("#E5E9F0")
	ColorDim       = lipgloss.Color("#7A8291")
	ColorAccent    = lipgloss.Color("#88C0D0")
	ColorAccentAlt = lipgloss.Color("#81A1C1")
	ColorSuccess   = lipgloss.Color("#A3BE8C")
	ColorWarn      = lipgloss.Color("#EBCB8B")
	ColorError     = lipgloss.Color("#BF616A")
)

// Swatch renders the fill colour's name on a block of that colour, with dark
// or light text depending on its lightness.
func Swatch(c texture.FillColor) string {
	fg := ColorInk
	if col, err := colorful.Hex(c.Hex()); err == nil {
		if _, _, l := col.Hcl(); l > 0.6 {
			fg = lipgloss.Color("#2E3440")
		}
	}
	return lipgloss.NewStyle().
		Background(lipgloss.Color(c.Hex())).
		Foreground(fg).
		Padding(0, 1).
		Render(c.String())
}
