package pages

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"

	"github.com/jask/walletshell/internal/ledger"
	"github.com/jask/walletshell/internal/widgets"
)

// ListKeys move the cursor in list pages.
type ListKeys struct {
	Up     key.Binding
	Down   key.Binding
	Top    key.Binding
	Bottom key.Binding
	Toggle key.Binding
}

// DefaultListKeys are vim-style list bindings.
var DefaultListKeys = ListKeys{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Top:    key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
	Bottom: key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
	Toggle: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "mark read")),
}

type cursor struct {
	pos, n int
}

func (c *cursor) update(msg tea.Msg) bool {
	km, ok := msg.(tea.KeyMsg)
	if !ok || c.n == 0 {
		return false
	}
	switch {
	case key.Matches(km, DefaultListKeys.Up):
		c.pos = max(0, c.pos-1)
	case key.Matches(km, DefaultListKeys.Down):
		c.pos = min(c.n-1, c.pos+1)
	case key.Matches(km, DefaultListKeys.Top):
		c.pos = 0
	case key.Matches(km, DefaultListKeys.Bottom):
		c.pos = c.n - 1
	default:
		return false
	}
	return true
}

// window returns the visible slice [start, end) keeping pos on screen.
func (c cursor) window(rows int) (int, int) {
	if rows <= 0 {
		return 0, 0
	}
	start := 0
	if c.pos >= rows {
		start = c.pos - rows + 1
	}
	return start, min(c.n, start+rows)
}

// Transactions is a scrollable transaction list.
type Transactions struct {
	txs      []ledger.Transaction
	currency string
	cur      cursor
}

func NewTransactions(txs []ledger.Transaction, currency string) *Transactions {
	return &Transactions{txs: txs, currency: currency, cur: cursor{n: len(txs)}}
}

// Selected is the index under the cursor.
func (v *Transactions) Selected() int { return v.cur.pos }

func (v *Transactions) Update(msg tea.Msg) tea.Cmd {
	v.cur.update(msg)
	return nil
}

func (v *Transactions) Render(width, height int) string {
	if len(v.txs) == 0 {
		return widgets.Panel{Title: "Transactions", Body: widgets.MutedStyle.Render("No transactions.")}.Render(width, height)
	}
	rows := max(1, height-3)
	start, end := v.cur.window(rows)
	lines := make([]string, 0, rows+1)
	lines = append(lines, widgets.MutedStyle.Render(fmt.Sprintf("%d of %d", v.cur.pos+1, len(v.txs))))
	for i := start; i < end; i++ {
		tx := v.txs[i]
		cat := widgets.MutedStyle.Render(widgets.PadRight(ansi.Truncate(tx.Category, 12, "…"), 12))
		line := cat + " " + txLine(tx, v.currency, width-19)
		if i == v.cur.pos {
			line = widgets.AccentStyle.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	return widgets.Panel{Title: "Transactions", Body: strings.Join(lines, "\n")}.Render(width, height)
}

// Notifications is the inbox. Marking read is local to the session.
type Notifications struct {
	items []ledger.Notification
	now   time.Time
	cur   cursor
}

func NewNotifications(items []ledger.Notification, now time.Time) *Notifications {
	cp := make([]ledger.Notification, len(items))
	copy(cp, items)
	return &Notifications{items: cp, now: now, cur: cursor{n: len(cp)}}
}

// Unread counts unread items.
func (v *Notifications) Unread() int {
	n := 0
	for _, it := range v.items {
		if it.Unread {
			n++
		}
	}
	return n
}

func (v *Notifications) Update(msg tea.Msg) tea.Cmd {
	if v.cur.update(msg) {
		return nil
	}
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, DefaultListKeys.Toggle) && len(v.items) > 0 {
		v.items[v.cur.pos].Unread = false
	}
	return nil
}

func (v *Notifications) Render(width, height int) string {
	if len(v.items) == 0 {
		return widgets.Panel{Title: "Notifications", Body: widgets.MutedStyle.Render("You're all caught up.")}.Render(width, height)
	}
	rows := max(1, (height-2)/2)
	start, end := v.cur.window(rows)
	var b strings.Builder
	for i := start; i < end; i++ {
		it := v.items[i]
		mark := "  "
		if it.Unread {
			mark = widgets.WarnStyle.Render("● ")
		}
		head := it.Title
		if i == v.cur.pos {
			head = widgets.AccentStyle.Render(head)
		}
		fmt.Fprintf(&b, "%s%s  %s\n", mark, head, widgets.MutedStyle.Render(ago(v.now, it.CreatedOn)))
		fmt.Fprintf(&b, "  %s\n", widgets.MutedStyle.Render(ansi.Truncate(it.Body, max(1, width-8), "…")))
	}
	title := "Notifications"
	if n := v.Unread(); n > 0 {
		title = fmt.Sprintf("Notifications (%d)", n)
	}
	return widgets.Panel{Title: title, Body: strings.TrimRight(b.String(), "\n")}.Render(width, height)
}

func ago(now, then time.Time) string {
	days := int(now.Sub(then).Hours() / 24)
	switch {
	case days <= 0:
		return "today"
	case days == 1:
		return "yesterday"
	default:
		return fmt.Sprintf("%dd ago", days)
	}
}
