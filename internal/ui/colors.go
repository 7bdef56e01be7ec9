package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette defines the console color palette.
type Palette struct {
	Name     string
	Primary  lipgloss.Color
	Info     lipgloss.Color
	Success  lipgloss.Color
	Warning  lipgloss.Color
	Error    lipgloss.Color
	Muted    lipgloss.Color
	Disabled bool
}

const defaultThemeName = "ansi"

// ThemeNames returns supported palette names.
func ThemeNames() []string {
	return []string{"ansi", "aurora", "mono"}
}

// PaletteByName returns a palette by theme name. Unknown names fall back to
// the default palette.
func PaletteByName(name string) Palette {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "aurora":
		return Palette{
			Name:    "aurora",
			Primary: lipgloss.Color("#22D3EE"),
			Info:    lipgloss.Color("#60A5FA"),
			Success: lipgloss.Color("#34D399"),
			Warning: lipgloss.Color("#FBBF24"),
			Error:   lipgloss.Color("#F87171"),
			Muted:   lipgloss.Color("#94A3B8"),
		}
	case "mono":
		return Palette{
			Name:    "mono",
			Primary: lipgloss.Color("#E2E8F0"),
			Info:    lipgloss.Color("#E2E8F0"),
			Success: lipgloss.Color("#E2E8F0"),
			Warning: lipgloss.Color("#94A3B8"),
			Error:   lipgloss.Color("#CBD5F5"),
			Muted:   lipgloss.Color("#94A3B8"),
		}
	default:
		// Plain 16-color ANSI so the gate looks the same in any terminal.
		return Palette{
			Name:    "ansi",
			Primary: lipgloss.Color("6"),
			Info:    lipgloss.Color("4"),
			Success: lipgloss.Color("2"),
			Warning: lipgloss.Color("3"),
			Error:   lipgloss.Color("1"),
			Muted:   lipgloss.Color("8"),
		}
	}
}

// DefaultPalette returns the default theme palette.
func DefaultPalette() Palette {
	return PaletteByName(defaultThemeName)
}
