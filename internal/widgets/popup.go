package widgets

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Popup draws card centred over base. Cells of base outside the card stay
// visible.
func Popup(base, card string, width, height int, border lipgloss.TerminalColor) string {
	if width <= 0 || height <= 0 {
		return ""
	}
	framed := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(orDefault(border, "#89b4fa")).
		Padding(0, 1).
		Render(card)
	cardLines := strings.Split(framed, "\n")
	cardW := lipgloss.Width(framed)
	top := max(0, (height-len(cardLines))/2)
	left := max(0, (width-cardW)/2)

	lines := strings.Split(Fit(base, width, height), "\n")
	for i, cl := range cardLines {
		row := top + i
		if row >= height {
			break
		}
		lines[row] = splice(lines[row], cl, left, width)
	}
	return strings.Join(lines, "\n")
}

// splice replaces the cells of line starting at column col with segment.
func splice(line, segment string, col, width int) string {
	segW := ansi.StringWidth(segment)
	head := ansi.Truncate(line, col, "")
	head = PadRight(head, col)
	tail := ""
	if end := col + segW; end < width {
		tail = ansi.TruncateLeft(line, end, "")
	}
	return ansi.Truncate(head+segment+tail, width, "")
}
