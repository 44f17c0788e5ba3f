package transition

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/lucasb-eyer/go-colorful"
)

// Palette is the pair of colours a fade interpolates between.
type Palette struct {
	Foreground colorful.Color
	Background colorful.Color
}

// NewPalette parses two hex colours.
func NewPalette(fg, bg string) (Palette, error) {
	f, err := colorful.Hex(fg)
	if err != nil {
		return Palette{}, fmt.Errorf("foreground %q: %w", fg, err)
	}
	b, err := colorful.Hex(bg)
	if err != nil {
		return Palette{}, fmt.Errorf("background %q: %w", bg, err)
	}
	return Palette{Foreground: f, Background: b}, nil
}

// DefaultPalette is the shell's text-on-base pair.
func DefaultPalette() Palette {
	pal, err := NewPalette("#cdd6f4", "#1e1e2e")
	if err != nil {
		panic(err)
	}
	return pal
}

// Apply draws content as seen at frame f: shifted by f.Offset rows and faded
// toward the background by 1-f.Opacity. Idle frames return content as is.
func Apply(f Frame, content string, width, height int, pal Palette) string {
	if f.Opacity >= 1 && f.Offset == 0 {
		return content
	}
	lines := strings.Split(content, "\n")
	lines = shift(lines, f.Offset)
	if height > 0 && len(lines) > height {
		lines = lines[:height]
	}
	if f.Opacity < 1 {
		c := pal.Background.BlendLab(pal.Foreground, clamp01(f.Opacity)).Clamped()
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(c.Hex()))
		for i, line := range lines {
			plain := ansi.Strip(line)
			if width > 0 {
				plain = ansi.Truncate(plain, width, "")
			}
			if strings.TrimSpace(plain) == "" {
				lines[i] = plain
				continue
			}
			lines[i] = style.Render(plain)
		}
	}
	return strings.Join(lines, "\n")
}

func shift(lines []string, offset int) []string {
	switch {
	case offset < 0:
		n := min(-offset, len(lines))
		out := append([]string(nil), lines[n:]...)
		for i := 0; i < n; i++ {
			out = append(out, "")
		}
		return out
	case offset > 0:
		out := make([]string, offset, offset+len(lines))
		return append(out, lines...)
	default:
		return lines
	}
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
