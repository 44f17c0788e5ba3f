// Package transition sequences the replacement of one page's view by another.
//
// The animator is a small state machine:
//
//	Idle(P) --navigate Q--> Exiting(P) --done--> Entering(Q) --done--> Idle(Q)
//
// Exit always finishes before enter starts, so the content region shows one
// page at a time. A phase ends when its frames have covered Duration or when
// Complete is called.
package transition

import (
	"fmt"
	"math"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/walletshell/internal/logging"
	"github.com/jask/walletshell/internal/page"
)

// Phase is the animator's state.
type Phase uint8

const (
	Idle Phase = iota
	Exiting
	Entering
)

func (p Phase) String() string {
	switch p {
	case Idle:
		return "idle"
	case Exiting:
		return "exiting"
	case Entering:
		return "entering"
	default:
		return fmt.Sprintf("phase(%d)", uint8(p))
	}
}

// Options tune the animation.
type Options struct {
	Enabled   bool
	Duration  time.Duration // per phase
	FrameRate int           // frames per second
	Offset    int           // rows travelled during a phase
}

// DefaultOptions is 300ms per phase with an ease-out curve.
func DefaultOptions() Options {
	return Options{Enabled: true, Duration: 300 * time.Millisecond, FrameRate: 30, Offset: 2}
}

// FrameMsg advances the running phase by one frame. Frames from an older
// generation are ignored.
type FrameMsg struct {
	Gen uint64
}

// Frame describes how the content region should be drawn right now.
type Frame struct {
	Page    page.ID
	Phase   Phase
	Opacity float64 // 0 transparent .. 1 opaque
	Offset  int     // rows; negative is up
}

// Animator is owned by the update loop.
type Animator struct {
	opts    Options
	phase   Phase
	shown   page.ID
	target  page.ID
	elapsed time.Duration
	gen     uint64
	log     *logging.Logger
}

// New returns an animator idle on initial.
func New(initial page.ID, opts Options, log *logging.Logger) *Animator {
	if log == nil {
		log = logging.Discard()
	}
	if opts.FrameRate <= 0 {
		opts.FrameRate = DefaultOptions().FrameRate
	}
	if opts.Duration <= 0 {
		opts.Enabled = false
	}
	return &Animator{opts: opts, shown: initial, target: initial, log: log.WithComponent("transition")}
}

// Phase returns the current phase.
func (a *Animator) Phase() Phase { return a.phase }

// Shown returns the page whose view occupies the content region.
func (a *Animator) Shown() page.ID { return a.shown }

// Target returns the page the animator is converging to.
func (a *Animator) Target() page.ID { return a.target }

// Generation identifies the live frame chain.
func (a *Animator) Generation() uint64 { return a.gen }

// Progress is the linear progress of the running phase in [0,1].
func (a *Animator) Progress() float64 {
	if a.phase == Idle || a.opts.Duration <= 0 {
		return 1
	}
	return math.Min(1, float64(a.elapsed)/float64(a.opts.Duration))
}

// Reset jumps straight to Idle(id) and invalidates frames in flight.
func (a *Animator) Reset(id page.ID) {
	a.gen++
	a.phase = Idle
	a.shown = id
	a.target = id
	a.elapsed = 0
}

// Navigate starts or retargets a transition towards to.
func (a *Animator) Navigate(to page.ID) tea.Cmd {
	if !to.Valid() {
		return nil
	}
	if !a.opts.Enabled {
		if to != a.shown {
			a.Reset(to)
		}
		return nil
	}
	switch a.phase {
	case Idle:
		if to == a.shown {
			return nil
		}
		a.gen++
		a.phase = Exiting
		a.target = to
		a.elapsed = 0
		a.log.Debug("transition started", "from", a.shown, "to", to)
		return a.tick()
	case Exiting:
		if to == a.shown {
			// fade the page back in from where the exit left it
			a.phase = Entering
			a.elapsed = a.opts.Duration - a.elapsed
			a.target = to
			a.log.Debug("transition reversed", "page", a.shown)
			return nil
		}
		if to != a.target {
			a.log.Debug("transition retargeted", "exiting", a.shown, "to", to)
		}
		a.target = to
		return nil
	case Entering:
		if to == a.target {
			return nil
		}
		// reverse out of the half-entered page from where it is now
		a.phase = Exiting
		a.elapsed = a.opts.Duration - a.elapsed
		a.target = to
		a.log.Debug("transition interrupted", "leaving", a.shown, "to", to)
		return nil
	}
	return nil
}

// Update handles FrameMsg; anything else is ignored.
func (a *Animator) Update(msg tea.Msg) tea.Cmd {
	f, ok := msg.(FrameMsg)
	if !ok || f.Gen != a.gen || a.phase == Idle {
		return nil
	}
	a.elapsed += a.interval()
	if a.elapsed >= a.opts.Duration {
		return a.Complete()
	}
	return a.tick()
}

// Complete signals that the running phase's animation has finished.
func (a *Animator) Complete() tea.Cmd {
	switch a.phase {
	case Exiting:
		a.gen++
		a.shown = a.target
		a.phase = Entering
		a.elapsed = 0
		a.log.Debug("exit complete", "entering", a.shown)
		return a.tick()
	case Entering:
		a.gen++
		a.phase = Idle
		a.elapsed = 0
		a.log.Debug("enter complete", "page", a.shown)
	}
	return nil
}

// Frame returns the drawing parameters for the current instant.
func (a *Animator) Frame() Frame {
	eased := EaseOut(a.Progress())
	off := float64(a.opts.Offset)
	switch a.phase {
	case Exiting:
		return Frame{Page: a.shown, Phase: Exiting, Opacity: 1 - eased, Offset: -int(math.Round(eased * off))}
	case Entering:
		return Frame{Page: a.shown, Phase: Entering, Opacity: eased, Offset: int(math.Round((1 - eased) * off))}
	default:
		return Frame{Page: a.shown, Phase: Idle, Opacity: 1}
	}
}

func (a *Animator) interval() time.Duration {
	return time.Second / time.Duration(a.opts.FrameRate)
}

func (a *Animator) tick() tea.Cmd {
	gen := a.gen
	return tea.Tick(a.interval(), func(time.Time) tea.Msg { return FrameMsg{Gen: gen} })
}

// EaseOut is a cubic ease-out curve on [0,1].
func EaseOut(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	u := 1 - t
	return 1 - u*u*u
}
