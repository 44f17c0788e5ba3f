package tui

// Minimum usable terminal size. Anything smaller gets a notice instead of
// the shell.
const (
	MinWidth  = 40
	MinHeight = 12

	sidebarWidth  = 20
	bottomNavRows = 1
	footerRows    = 1
)

// Layout is the viewport split into regions.
type Layout struct {
	Width, Height int
	TooSmall      bool
	Sidebar       bool

	NavWidth, NavHeight         int
	ContentWidth, ContentHeight int
}

// ComputeLayout normalises the terminal size. Widths at or above breakpoint
// put navigation in a left sidebar, narrower ones in a bottom tab bar.
func ComputeLayout(width, height, breakpoint int) Layout {
	l := Layout{Width: width, Height: height}
	if width < MinWidth || height < MinHeight {
		l.TooSmall = true
		return l
	}
	body := height - footerRows
	if width >= breakpoint {
		l.Sidebar = true
		l.NavWidth, l.NavHeight = sidebarWidth, body
		l.ContentWidth, l.ContentHeight = width-sidebarWidth, body
		return l
	}
	l.NavWidth, l.NavHeight = width, bottomNavRows
	l.ContentWidth, l.ContentHeight = width, body-bottomNavRows
	return l
}
