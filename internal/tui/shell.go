// Package tui is the shell: the session gate, the navigation and content
// regions, and the pipeline that composes them on every frame.
//
// All mutation happens inside Update. Store listeners only queue commands,
// which Update returns once the message that caused them is handled.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/walletshell/internal/boundary"
	"github.com/jask/walletshell/internal/loader"
	"github.com/jask/walletshell/internal/logging"
	"github.com/jask/walletshell/internal/page"
	"github.com/jask/walletshell/internal/registry"
	"github.com/jask/walletshell/internal/state"
	"github.com/jask/walletshell/internal/transition"
	"github.com/jask/walletshell/internal/widgets"
)

const (
	navKey        = "nav"
	onboardingKey = "onboarding"
	preloadLimit  = 2
)

// OnboardingFunc builds the onboarding view. The view calls onComplete once
// the user is done.
type OnboardingFunc func(onComplete func()) registry.View

// Options configure a Shell.
type Options struct {
	Context       context.Context
	Registry      *registry.Registry
	Store         *state.Store
	Onboarding    OnboardingFunc
	Transition    transition.Options
	NavBreakpoint int
	Preload       bool
	Keys          *KeyMap
	Log           *logging.Logger
}

// Shell is the root Bubble Tea model.
type Shell struct {
	reg     *registry.Registry
	store   *state.Store
	cache   *loader.Cache
	anim    *transition.Animator
	navB    *boundary.Boundary
	content *boundary.Boundary
	nav     *Nav
	picker  *pickerState
	palette transition.Palette

	onboarding registry.View
	newOnboard OnboardingFunc
	keys       KeyMap
	help       help.Model
	spinner    spinner.Model
	spinning   bool

	breakpoint int
	preload    bool
	width      int
	height     int

	queued []tea.Cmd
	log    *logging.Logger
}

// New wires a shell. The store's current state decides whether onboarding
// or the controller is mounted first.
func New(opts Options) *Shell {
	if opts.Context == nil {
		opts.Context = context.Background()
	}
	if opts.Log == nil {
		opts.Log = logging.Discard()
	}
	keys := DefaultKeyMap()
	if opts.Keys != nil {
		keys = *opts.Keys
	}
	if opts.NavBreakpoint <= 0 {
		opts.NavBreakpoint = 100
	}
	log := opts.Log.WithComponent("shell")
	snap := opts.Store.Snapshot()

	sp := spinner.New()
	sp.Spinner = spinner.MiniDot
	sp.Style = widgets.AccentStyle

	s := &Shell{
		reg:        opts.Registry,
		store:      opts.Store,
		cache:      loader.NewCache(opts.Context, opts.Log),
		anim:       transition.New(snap.CurrentPage, opts.Transition, opts.Log),
		navB:       boundary.New("navigation", navFallback, opts.Log),
		content:    boundary.New("content", contentFallback, opts.Log),
		palette:    transition.DefaultPalette(),
		keys:       keys,
		help:       help.New(),
		spinner:    sp,
		breakpoint: opts.NavBreakpoint,
		preload:    opts.Preload,
		log:        log,
	}
	s.nav = &Nav{Keys: keys, Props: NavProps{ActiveTab: snap.CurrentPage, OnTabChange: s.navigate}}
	if opts.Onboarding != nil {
		s.newOnboard = opts.Onboarding
		s.onboarding = opts.Onboarding(s.completeOnboarding)
	}
	s.store.Subscribe(s.onStateChange)
	return s
}

func (s *Shell) navigate(id page.ID) {
	if err := s.store.Dispatch(state.SetCurrentPage{Page: id}); err != nil {
		s.log.Warn("navigation rejected", "page", id, "err", err)
	}
}

func (s *Shell) completeOnboarding() {
	if err := s.store.Dispatch(state.CompleteOnboarding{}); err != nil {
		s.log.Warn("onboarding completion rejected", "err", err)
	}
}

func (s *Shell) onStateChange(prev, next state.ApplicationState) {
	s.nav.Props.ActiveTab = next.CurrentPage
	if prev.Session != next.Session && next.Session == state.Authenticated {
		s.log.Info("session authenticated", "page", next.CurrentPage)
		s.anim.Reset(next.CurrentPage)
		s.queue(s.mountController())
		return
	}
	if prev.CurrentPage != next.CurrentPage && next.Session == state.Authenticated {
		s.queue(s.anim.Navigate(next.CurrentPage), s.request(next.CurrentPage), s.mountShown())
	}
}

func (s *Shell) queue(cmds ...tea.Cmd) {
	for _, c := range cmds {
		if c != nil {
			s.queued = append(s.queued, c)
		}
	}
}

func (s *Shell) flush(cmds ...tea.Cmd) tea.Cmd {
	cmds = append(cmds, s.queued...)
	s.queued = nil
	return tea.Batch(cmds...)
}

// mountController starts the current page and, if enabled, the preload.
func (s *Shell) mountController() tea.Cmd {
	cur := s.store.Snapshot().CurrentPage
	cmds := []tea.Cmd{s.request(cur), s.mountShown()}
	if s.preload {
		descs := make([]registry.Descriptor, 0, page.Count)
		for _, id := range page.All() {
			if !s.reg.Registered(id) {
				continue
			}
			d, _ := s.reg.Resolve(id)
			descs = append(descs, d)
		}
		cmds = append(cmds, s.cache.Preload(descs, preloadLimit))
	}
	return tea.Batch(cmds...)
}

// request starts a lazy load for id and the spinner that goes with it.
func (s *Shell) request(id page.ID) tea.Cmd {
	d, _ := s.reg.Resolve(id)
	cmd := s.cache.Request(d)
	if cmd == nil {
		return nil
	}
	return tea.Batch(s.content.Guard(d.ID.String(), cmd), s.spin())
}

func (s *Shell) spin() tea.Cmd {
	if s.spinning {
		return nil
	}
	s.spinning = true
	return s.spinner.Tick
}

// mountShown runs Init for the view in the content region the first time
// it is shown.
func (s *Shell) mountShown() tea.Cmd {
	d, _ := s.reg.Resolve(s.anim.Shown())
	return s.content.Update(d.ID.String(), func() tea.Cmd {
		_, cmd := s.cache.Mount(d)
		return cmd
	})
}

// Init implements tea.Model.
func (s *Shell) Init() tea.Cmd {
	if s.authenticated() {
		return s.mountController()
	}
	return s.mountOnboarding()
}

func (s *Shell) mountOnboarding() tea.Cmd {
	if in, ok := s.onboarding.(registry.Initializer); ok {
		return s.content.Update(onboardingKey, in.Init)
	}
	return nil
}

func (s *Shell) authenticated() bool {
	return s.store.Snapshot().Session == state.Authenticated
}

// Update implements tea.Model.
func (s *Shell) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		s.width, s.height = msg.Width, msg.Height
		s.help.Width = msg.Width
		return s, s.flush(s.forward(msg))

	case tea.KeyMsg:
		return s, s.handleKey(msg)

	case transition.FrameMsg:
		before := s.anim.Shown()
		cmd := s.anim.Update(msg)
		if s.anim.Shown() != before {
			return s, s.flush(cmd, s.mountShown())
		}
		return s, s.flush(cmd)

	case loader.LoadedMsg:
		return s, s.flush(s.settle(msg))

	case loader.PreloadedMsg:
		cmds := make([]tea.Cmd, 0, len(msg))
		for _, m := range msg {
			cmds = append(cmds, s.settle(m))
		}
		return s, s.flush(cmds...)

	case boundary.FailureMsg:
		s.navB.Record(msg.Failure)
		s.content.Record(msg.Failure)
		if msg.Failure != nil && msg.Failure.Region == s.content.Region() {
			if id, err := page.Parse(msg.Failure.Key); err == nil && s.cache.State(id) == loader.Pending {
				s.cache.Settle(loader.LoadedMsg{Page: id, Err: msg.Failure})
			}
		}
		return s, s.flush()

	case spinner.TickMsg:
		if !s.loading() {
			s.spinning = false
			return s, nil
		}
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, s.flush(s.forward(msg))
}

func (s *Shell) settle(msg loader.LoadedMsg) tea.Cmd {
	if !s.cache.Settle(msg) {
		return nil
	}
	if s.cache.State(msg.Page) == loader.Failed {
		s.content.Fail(msg.Page.String(), s.cache.Err(msg.Page))
		return nil
	}
	if msg.Page == s.anim.Shown() {
		return s.mountShown()
	}
	return nil
}

func (s *Shell) loading() bool {
	for _, id := range page.All() {
		if s.cache.State(id) == loader.Pending {
			return true
		}
	}
	return false
}

func (s *Shell) handleKey(msg tea.KeyMsg) tea.Cmd {
	if msg.String() == "ctrl+c" {
		return tea.Quit
	}
	if !s.authenticated() {
		if key.Matches(msg, s.keys.Retry) {
			if _, failed := s.content.Failed(onboardingKey); failed {
				return s.flush(s.retryOnboarding())
			}
		}
		return s.flush(s.forward(msg))
	}
	if s.picker != nil {
		res, cmd := s.picker.HandleKey(msg)
		switch res.Action {
		case pickerActionSelected:
			s.picker = nil
			s.navigate(res.Page)
		case pickerActionCancelled:
			s.picker = nil
		}
		return s.flush(cmd)
	}
	switch {
	case key.Matches(msg, s.keys.Quit):
		return tea.Quit
	case key.Matches(msg, s.keys.Picker):
		s.picker = newPicker()
		return textinput.Blink
	case key.Matches(msg, s.keys.Help):
		s.help.ShowAll = !s.help.ShowAll
		return nil
	case key.Matches(msg, s.keys.Retry):
		return s.flush(s.retry())
	}
	handled := false
	cmd := s.navB.Update(navKey, func() tea.Cmd {
		handled = s.nav.HandleKey(msg)
		return nil
	})
	if handled {
		return s.flush(cmd)
	}
	return s.flush(cmd, s.forward(msg))
}

// retry clears a failure on the shown page and, for lazy pages, loads it
// again. A failed navigation region is remounted too.
func (s *Shell) retry() tea.Cmd {
	s.navB.Reset(navKey)
	d, _ := s.reg.Resolve(s.anim.Shown())
	k := d.ID.String()
	if _, failed := s.content.Failed(k); !failed {
		return nil
	}
	s.log.Info("retrying page", "page", d.ID)
	s.content.Reset(k)
	s.cache.Reset(d.ID)
	return tea.Batch(s.request(d.ID), s.mountShown())
}

// retryOnboarding replaces a failed onboarding view with a fresh one.
func (s *Shell) retryOnboarding() tea.Cmd {
	s.log.Info("retrying onboarding")
	s.content.Reset(onboardingKey)
	if s.newOnboard != nil {
		s.onboarding = s.newOnboard(s.completeOnboarding)
	}
	return s.mountOnboarding()
}

// forward hands msg to onboarding before authentication and to the shown
// page's view after. Failed or not-yet-loaded views get nothing.
func (s *Shell) forward(msg tea.Msg) tea.Cmd {
	if !s.authenticated() {
		up, ok := s.onboarding.(registry.Updater)
		if !ok {
			return nil
		}
		return s.content.Update(onboardingKey, func() tea.Cmd { return up.Update(msg) })
	}
	d, _ := s.reg.Resolve(s.anim.Shown())
	return s.content.Update(d.ID.String(), func() tea.Cmd {
		view, st := s.cache.Get(d)
		if st != loader.Ready {
			return nil
		}
		up, ok := view.(registry.Updater)
		if !ok {
			return nil
		}
		return up.Update(msg)
	})
}

// View implements tea.Model.
func (s *Shell) View() string {
	if s.width == 0 || s.height == 0 {
		return ""
	}
	l := ComputeLayout(s.width, s.height, s.breakpoint)
	if l.TooSmall {
		return lipgloss.Place(s.width, s.height, lipgloss.Center, lipgloss.Center,
			widgets.WarnStyle.Render("Terminal too small")+"\n"+
				widgets.MutedStyle.Render("need at least 40x12"))
	}
	if !s.authenticated() {
		if s.onboarding == nil {
			return widgets.Fit("", l.Width, l.Height)
		}
		return s.content.Render(onboardingKey, l.Width, l.Height, s.onboarding.Render)
	}

	nav := s.navB.Render(navKey, l.NavWidth, l.NavHeight, func(w, h int) string {
		return s.nav.Render(w, h, l.Sidebar)
	})
	frame := s.anim.Frame()
	d, _ := s.reg.Resolve(frame.Page)
	content := s.content.Render(d.ID.String(), l.ContentWidth, l.ContentHeight, func(w, h int) string {
		return s.renderPage(d, w, h)
	})
	content = transition.Apply(frame, content, l.ContentWidth, l.ContentHeight, s.palette)
	content = widgets.Fit(content, l.ContentWidth, l.ContentHeight)

	var body string
	if l.Sidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, nav, content)
	} else {
		body = content + "\n" + nav
	}
	out := body + "\n" + s.footer(l.Width)
	if s.picker != nil {
		out = widgets.Popup(out, renderPicker(s.picker, 28), l.Width, l.Height, widgets.ColorAccent)
	}
	return out
}

// renderPage draws the resolved view, or its fallback while it loads.
func (s *Shell) renderPage(d registry.Descriptor, width, height int) string {
	view, st := s.cache.Get(d)
	if st == loader.Ready {
		return view.Render(width, height)
	}
	if d.Fallback == nil {
		return widgets.Fit("", width, height)
	}
	status := widgets.PadRight(" "+s.spinner.View()+" "+widgets.MutedStyle.Render("Loading "+d.ID.Title()+"…"), width)
	return status + "\n" + d.Fallback.Render(width, height-1)
}

func (s *Shell) footer(width int) string {
	if s.help.ShowAll {
		full := s.help.FullHelpView(s.keys.FullHelp())
		return widgets.Fit(strings.ReplaceAll(full, "\n", "  "), width, 1)
	}
	return widgets.Fit(s.help.ShortHelpView(s.keys.ShortHelp()), width, 1)
}

func navFallback(f *boundary.Failure, width, height int) string {
	return widgets.Fit(widgets.ErrorStyle.Render("nav unavailable")+"\n"+
		widgets.MutedStyle.Render("ctrl+r to retry"), width, height)
}

func contentFallback(f *boundary.Failure, width, height int) string {
	body := widgets.ErrorStyle.Render("This page failed to load.") + "\n\n" +
		widgets.MutedStyle.Render(firstLine(f.Cause.Error())) + "\n\n" +
		widgets.MutedStyle.Render("Other pages still work. Press ctrl+r to retry.")
	title := "Error"
	if id, err := page.Parse(f.Key); err == nil {
		title = id.Title()
	}
	return widgets.Panel{Title: title, Body: body, Border: widgets.ColorError}.Render(width, height)
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
