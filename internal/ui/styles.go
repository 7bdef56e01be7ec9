// Package ui provides console output components for nbcheck
package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var (
	// Active palette colors, replaced by ApplyPalette.
	Primary = DefaultPalette().Primary
	Info    = DefaultPalette().Info
	Success = DefaultPalette().Success
	Warning = DefaultPalette().Warning
	Error   = DefaultPalette().Error
	Muted   = DefaultPalette().Muted

	colorDisabled bool
)

// ApplyPalette makes p the palette used by package-level styles and new
// reporters.
func ApplyPalette(p Palette) {
	Primary = p.Primary
	Info = p.Info
	Success = p.Success
	Warning = p.Warning
	Error = p.Error
	Muted = p.Muted
	colorDisabled = p.Disabled
}

// ApplyTheme switches the active palette by name.
func ApplyTheme(theme string, noColor bool) {
	palette := PaletteByName(theme)
	palette.Disabled = noColor
	ApplyPalette(palette)
}

// ActivePalette returns the palette currently in effect.
func ActivePalette() Palette {
	return Palette{
		Primary:  Primary,
		Info:     Info,
		Success:  Success,
		Warning:  Warning,
		Error:    Error,
		Muted:    Muted,
		Disabled: colorDisabled,
	}
}

// Banner returns the nbcheck banner
func Banner() string {
	banner := `
 ┏┓╻┏┓ ┏━╸╻ ╻┏━╸┏━╸╻┏
 ┃┗┫┣┻┓┃  ┣━┫┣╸ ┃  ┣┻┓
 ╹ ╹┗━┛┗━╸╹ ╹┗━╸┗━╸╹ ╹`
	style := lipgloss.NewStyle().Bold(true)
	if !colorDisabled {
		style = style.Foreground(Primary)
	}
	return style.Render(banner)
}

// SuccessBox returns a rounded box in the success color.
func SuccessBox() lipgloss.Style {
	style := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1).
		MarginTop(1).
		MarginBottom(1)
	if !colorDisabled {
		style = style.BorderForeground(Success)
	}
	return style
}
