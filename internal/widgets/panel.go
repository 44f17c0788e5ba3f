package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Panel is a rounded box with a title set into the top border.
type Panel struct {
	Title   string
	Body    string
	Border  lipgloss.TerminalColor
	Text    lipgloss.TerminalColor
	Heading lipgloss.TerminalColor
}

// Render draws the panel exactly width x height cells.
func (p Panel) Render(width, height int) string {
	if width < 4 || height < 2 {
		return Fit(ansi.Strip(p.Body), width, height)
	}
	border := lipgloss.NewStyle().Foreground(orDefault(p.Border, "#585b70"))
	heading := lipgloss.NewStyle().Foreground(orDefault(p.Heading, "#89b4fa")).Bold(true)
	text := lipgloss.NewStyle().Foreground(orDefault(p.Text, "#cdd6f4"))

	inner := width - 2
	title := ""
	if t := strings.TrimSpace(p.Title); t != "" {
		title = " " + ansi.Truncate(t, max(1, inner-3), "…") + " "
	}
	fill := max(0, inner-1-ansi.StringWidth(title))
	top := border.Render("╭─") + heading.Render(title) + border.Render(strings.Repeat("─", fill)+"╮")
	if title == "" {
		top = border.Render("╭" + strings.Repeat("─", inner) + "╮")
	}
	bottom := border.Render("╰" + strings.Repeat("─", inner) + "╯")
	side := border.Render("│")

	body := strings.Split(p.Body, "\n")
	rows := make([]string, 0, height)
	rows = append(rows, top)
	for i := 0; i < height-2; i++ {
		line := ""
		if i < len(body) {
			line = body[i]
		}
		line = PadRight(ansi.Truncate(line, max(0, inner-2), ""), max(0, inner-2))
		rows = append(rows, side+" "+text.Render(line)+" "+side)
	}
	rows = append(rows, bottom)
	return strings.Join(rows, "\n")
}

func orDefault(c lipgloss.TerminalColor, hex string) lipgloss.TerminalColor {
	if c == nil {
		return lipgloss.Color(hex)
	}
	return c
}

// Fit pads or clips s to exactly width x height cells.
func Fit(s string, width, height int) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	lines := strings.Split(s, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, l := range lines {
		lines[i] = PadRight(ansi.Truncate(l, width, ""), width)
	}
	return strings.Join(lines, "\n")
}

// PadRight pads s with spaces to width display cells.
func PadRight(s string, width int) string {
	w := ansi.StringWidth(s)
	if w >= width {
		return s
	}
	return s + strings.Repeat(" ", width-w)
}
