package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Colours shared by the shell and the page providers.
var (
	ColorText     = lipgloss.Color("#cdd6f4")
	ColorMuted    = lipgloss.Color("#a6adc8")
	ColorBorder   = lipgloss.Color("#585b70")
	ColorBg       = lipgloss.Color("#1e1e2e")
	ColorMantle   = lipgloss.Color("#181825")
	ColorSurface0 = lipgloss.Color("#313244")
	ColorAccent   = lipgloss.Color("#89b4fa")
	ColorSuccess  = lipgloss.Color("#a6e3a1")
	ColorWarn     = lipgloss.Color("#f9e2af")
	ColorError    = lipgloss.Color("#f38ba8")
	ColorTabOff   = lipgloss.Color("#7f849c")
)

var (
	MutedStyle   = lipgloss.NewStyle().Foreground(ColorMuted)
	AccentStyle  = lipgloss.NewStyle().Foreground(ColorAccent).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(ColorSuccess)
	WarnStyle    = lipgloss.NewStyle().Foreground(ColorWarn)
	ErrorStyle   = lipgloss.NewStyle().Foreground(ColorError)
)

// Bar draws a horizontal gauge of width cells filled to ratio.
func Bar(ratio float64, width int) string {
	if width <= 0 {
		return ""
	}
	if ratio < 0 {
		ratio = 0
	}
	filled := int(ratio*float64(width) + 0.5)
	if filled > width {
		filled = width
	}
	style := SuccessStyle
	switch {
	case ratio >= 1:
		style = ErrorStyle
	case ratio >= 0.8:
		style = WarnStyle
	}
	return style.Render(strings.Repeat("█", filled)) + MutedStyle.Render(strings.Repeat("░", width-filled))
}
