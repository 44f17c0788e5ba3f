package pages

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"

	"github.com/jask/walletshell/internal/widgets"
)

const welcome = `# Welcome to WalletShell

Your money, one keypress away.

* **Dashboard** for the month at a glance
* **Budget** and **Goals** to stay on track
* Press **1-8** or **tab** to move between pages, **:** to jump by name
`

// Onboarding is shown until the session is authenticated. It calls
// onComplete once, with the trimmed name, when the form is confirmed.
type Onboarding struct {
	form       *huh.Form
	name       string
	ready      bool
	done       bool
	onComplete func(name string)

	mdWidth int
	md      string
}

func NewOnboarding(name string, onComplete func(name string)) *Onboarding {
	o := &Onboarding{name: name, onComplete: onComplete}
	o.form = o.newForm()
	return o
}

func (o *Onboarding) newForm() *huh.Form {
	o.ready = true
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("What should we call you?").
				Value(&o.name),
			huh.NewConfirm().
				Title("Ready to open your wallet?").
				Affirmative("Let's go").
				Negative("Not yet").
				Value(&o.ready),
		),
	).WithTheme(huh.ThemeCatppuccin()).WithShowHelp(false)
}

// Name is the name typed into the form.
func (o *Onboarding) Name() string { return strings.TrimSpace(o.name) }

// Done reports whether onComplete has fired.
func (o *Onboarding) Done() bool { return o.done }

func (o *Onboarding) Init() tea.Cmd { return o.form.Init() }

func (o *Onboarding) Update(msg tea.Msg) tea.Cmd {
	if o.done {
		return nil
	}
	m, cmd := o.form.Update(msg)
	if f, ok := m.(*huh.Form); ok {
		o.form = f
	}
	switch o.form.State {
	case huh.StateCompleted:
		if !o.ready {
			o.form = o.newForm()
			return o.form.Init()
		}
		o.done = true
		if o.onComplete != nil {
			o.onComplete(o.Name())
		}
		return nil
	case huh.StateAborted:
		return tea.Quit
	}
	return cmd
}

func (o *Onboarding) Render(width, height int) string {
	inner := max(10, width-4)
	if o.mdWidth != inner {
		o.mdWidth = inner
		o.md = renderMarkdown(welcome, inner)
	}
	o.form.WithWidth(inner)
	body := strings.TrimSpace(o.md) + "\n\n" + o.form.View()
	return widgets.Panel{Title: "WalletShell", Body: body}.Render(width, height)
}

func renderMarkdown(md string, width int) string {
	r, err := glamour.NewTermRenderer(glamour.WithStandardStyle("dark"), glamour.WithWordWrap(width))
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
