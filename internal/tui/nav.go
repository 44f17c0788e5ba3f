package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/walletshell/internal/page"
	"github.com/jask/walletshell/internal/widgets"
)

// NavProps is everything the navigation region is given.
type NavProps struct {
	ActiveTab   page.ID
	OnTabChange func(page.ID)
}

// Nav is the navigation region: a sidebar on wide terminals, a bottom tab
// bar otherwise.
type Nav struct {
	Props NavProps
	Keys  KeyMap
}

// HandleKey reports whether msg was a navigation key. Tab changes go
// through OnTabChange; the region never changes the active tab itself.
func (n *Nav) HandleKey(msg tea.KeyMsg) bool {
	var to page.ID
	switch {
	case key.Matches(msg, n.Keys.Jump):
		id, ok := jumpTarget(msg.String())
		if !ok {
			return false
		}
		to = id
	case key.Matches(msg, n.Keys.Next):
		to = n.Props.ActiveTab.Next()
	case key.Matches(msg, n.Keys.Prev):
		to = n.Props.ActiveTab.Prev()
	default:
		return false
	}
	if n.Props.OnTabChange != nil {
		n.Props.OnTabChange(to)
	}
	return true
}

func jumpTarget(k string) (page.ID, bool) {
	for _, id := range page.All() {
		if id.JumpKey() == k {
			return id, true
		}
	}
	return 0, false
}

var (
	navActive   = lipgloss.NewStyle().Foreground(widgets.ColorBg).Background(widgets.ColorAccent).Bold(true)
	navInactive = lipgloss.NewStyle().Foreground(widgets.ColorTabOff)
	navKeyStyle = lipgloss.NewStyle().Foreground(widgets.ColorMuted)
)

// Render draws the region into width x height cells.
func (n *Nav) Render(width, height int, sidebar bool) string {
	if sidebar {
		return n.sidebar(width, height)
	}
	return n.bar(width, height)
}

func (n *Nav) sidebar(width, height int) string {
	inner := max(1, width-4)
	lines := make([]string, 0, page.Count)
	for _, id := range page.All() {
		label := widgets.PadRight(id.JumpKey()+" "+id.Title(), inner)
		if id == n.Props.ActiveTab {
			lines = append(lines, navActive.Render(label))
			continue
		}
		lines = append(lines, navKeyStyle.Render(id.JumpKey())+" "+navInactive.Render(id.Title()))
	}
	return widgets.Panel{Title: "WalletShell", Body: strings.Join(lines, "\n")}.Render(width, height)
}

// bar shows full titles when they fit and jump keys with short titles when
// they do not.
func (n *Nav) bar(width, height int) string {
	labels := func(short bool) []string {
		out := make([]string, 0, page.Count)
		for _, id := range page.All() {
			t := id.Title()
			if short {
				t = ansi.Truncate(t, 4, "")
			}
			out = append(out, " "+id.JumpKey()+" "+t+" ")
		}
		return out
	}
	ls := labels(false)
	if ansi.StringWidth(strings.Join(ls, "")) > width {
		ls = labels(true)
	}
	var b strings.Builder
	for i, id := range page.All() {
		if id == n.Props.ActiveTab {
			b.WriteString(navActive.Render(ls[i]))
		} else {
			b.WriteString(navInactive.Render(ls[i]))
		}
	}
	return widgets.Fit(b.String(), width, height)
}
