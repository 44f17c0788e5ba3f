package pages

import (
	"strings"

	"github.com/jask/walletshell/internal/page"
	"github.com/jask/walletshell/internal/registry"
	"github.com/jask/walletshell/internal/widgets"
)

// Skeleton is the placeholder shown while a lazy page loads. Lists get
// rows, analytics gets a chart block, budget and goals get gauges.
func Skeleton(id page.ID) registry.View {
	return registry.ViewFunc(func(width, height int) string {
		inner := max(1, width-4)
		rows := max(1, height-2)
		lines := make([]string, 0, rows)
		for i := 0; i < rows; i++ {
			lines = append(lines, skeletonLine(id, i, inner))
		}
		body := widgets.MutedStyle.Render(strings.Join(lines, "\n"))
		return widgets.Panel{Title: id.Title(), Body: body, Text: widgets.ColorSurface0}.Render(width, height)
	})
}

func skeletonLine(id page.ID, i, width int) string {
	switch id {
	case page.Analytics:
		if i < 6 {
			return strings.Repeat("▒", width)
		}
		if i%2 == 1 {
			return ""
		}
		return strings.Repeat("░", width*2/3)
	case page.Budget, page.Goals:
		if i%3 == 2 {
			return ""
		}
		if i%3 == 0 {
			return strings.Repeat("░", min(width, 16))
		}
		return strings.Repeat("▒", width)
	default:
		w := width - (i%3)*width/6
		return strings.Repeat("░", max(0, w))
	}
}
