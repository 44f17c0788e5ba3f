package tui

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/walletshell/internal/page"
	"github.com/jask/walletshell/internal/widgets"
)

type pickerAction int

const (
	pickerActionNone pickerAction = iota
	pickerActionMoved
	pickerActionSelected
	pickerActionCancelled
)

type pickerResult struct {
	Action pickerAction
	Page   page.ID
}

// pickerState is the ":" go-to popup.
type pickerState struct {
	input    textinput.Model
	filtered []page.ID
	cursor   int
}

func newPicker() *pickerState {
	ti := textinput.New()
	ti.Placeholder = "page name"
	ti.Prompt = ": "
	ti.CharLimit = 32
	ti.Width = 24
	ti.PromptStyle = widgets.AccentStyle
	p := &pickerState{input: ti}
	p.input.Focus()
	p.rebuildFiltered()
	return p
}

// Query returns the typed filter.
func (p *pickerState) Query() string { return p.input.Value() }

// Filtered returns the pages currently offered, best match first.
func (p *pickerState) Filtered() []page.ID { return p.filtered }

func (p *pickerState) HandleKey(msg tea.KeyMsg) (pickerResult, tea.Cmd) {
	switch msg.String() {
	case "up", "ctrl+p":
		if p.cursor > 0 {
			p.cursor--
			return pickerResult{Action: pickerActionMoved}, nil
		}
		return pickerResult{}, nil
	case "down", "ctrl+n":
		if p.cursor < len(p.filtered)-1 {
			p.cursor++
			return pickerResult{Action: pickerActionMoved}, nil
		}
		return pickerResult{}, nil
	case "enter":
		if len(p.filtered) == 0 {
			return pickerResult{}, nil
		}
		return pickerResult{Action: pickerActionSelected, Page: p.filtered[p.cursor]}, nil
	case "esc":
		return pickerResult{Action: pickerActionCancelled}, nil
	}
	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if p.input.Value() != before {
		p.rebuildFiltered()
	}
	return pickerResult{}, cmd
}

type scoredPage struct {
	id    page.ID
	score int
}

// rebuildFiltered ranks prefix matches first, then substring matches, then
// the closest names by edit distance. Names too far from the query drop out.
func (p *pickerState) rebuildFiltered() {
	q := strings.ToLower(strings.TrimSpace(p.input.Value()))
	scored := make([]scoredPage, 0, page.Count)
	for _, id := range page.All() {
		name := id.String()
		switch {
		case q == "" || strings.HasPrefix(name, q):
			scored = append(scored, scoredPage{id, 0})
		case strings.Contains(name, q):
			scored = append(scored, scoredPage{id, 1})
		default:
			d := levenshtein.ComputeDistance(q, name[:min(len(name), len(q))])
			if d <= max(1, len(q)/2) {
				scored = append(scored, scoredPage{id, 2 + d})
			}
		}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].score < scored[j].score })
	p.filtered = p.filtered[:0]
	for _, s := range scored {
		p.filtered = append(p.filtered, s.id)
	}
	if p.cursor >= len(p.filtered) {
		p.cursor = max(0, len(p.filtered)-1)
	}
}

var pickerCursor = lipgloss.NewStyle().Foreground(widgets.ColorBg).Background(widgets.ColorAccent)

func renderPicker(p *pickerState, width int) string {
	lines := []string{widgets.AccentStyle.Render("Go to page"), p.input.View(), ""}
	for i, id := range p.filtered {
		row := widgets.PadRight("  "+id.JumpKey()+"  "+id.Title(), width)
		if i == p.cursor {
			row = pickerCursor.Render(row)
		}
		lines = append(lines, row)
	}
	if len(p.filtered) == 0 {
		lines = append(lines, widgets.MutedStyle.Render("  no match"))
	}
	lines = append(lines, "", widgets.MutedStyle.Render("enter go  esc cancel"))
	return strings.Join(lines, "\n")
}
