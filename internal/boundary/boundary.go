// Package boundary contains render and lifecycle failures inside a region so
// the rest of the shell keeps working.
//
// A Boundary guards any number of subtrees, each identified by a key (the
// content region uses one key per page). Once a subtree fails it stays
// unmounted and its fallback is drawn until Reset.
package boundary

import (
	"errors"
	"fmt"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/walletshell/internal/logging"
)

// Failure is a captured render, update, command, or load failure.
type Failure struct {
	Region string
	Key    string
	Cause  error
	Stack  string
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s/%s: %v", f.Region, f.Key, f.Cause)
}

func (f *Failure) Unwrap() error { return f.Cause }

// ErrPanic is the cause recorded when a guarded call panics with a non-error value.
var ErrPanic = errors.New("panic")

// FailureMsg reports a failure captured off the update loop.
type FailureMsg struct {
	Failure *Failure
}

// FallbackFunc draws the placeholder for a failed subtree.
type FallbackFunc func(f *Failure, width, height int) string

// Boundary guards one region.
type Boundary struct {
	region   string
	fallback FallbackFunc
	failed   map[string]*Failure
	log      *logging.Logger
}

// New creates a boundary for region. fallback must not fail itself.
func New(region string, fallback FallbackFunc, log *logging.Logger) *Boundary {
	if log == nil {
		log = logging.Discard()
	}
	if fallback == nil {
		fallback = func(f *Failure, _, _ int) string { return "Something went wrong in " + f.Region }
	}
	return &Boundary{
		region:   region,
		fallback: fallback,
		failed:   map[string]*Failure{},
		log:      log.WithComponent("boundary").With("region", region),
	}
}

// Region returns the boundary's name.
func (b *Boundary) Region() string { return b.region }

// Failed returns the failure recorded for key.
func (b *Boundary) Failed(key string) (*Failure, bool) {
	f, ok := b.failed[key]
	return f, ok
}

// Reset remounts key on the next render.
func (b *Boundary) Reset(key string) {
	if _, ok := b.failed[key]; ok {
		b.log.Info("subtree reset", "key", key)
		delete(b.failed, key)
	}
}

// Fail records err as key's failure. Used for failures detected outside a
// guarded call, such as a lazy load error.
func (b *Boundary) Fail(key string, err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if !errors.As(err, &f) || f.Region != b.region || f.Key != key {
		f = &Failure{Region: b.region, Key: key, Cause: err}
	}
	return b.record(f)
}

// Record stores a failure captured elsewhere (see FailureMsg).
func (b *Boundary) Record(f *Failure) {
	if f == nil || f.Region != b.region {
		return
	}
	b.record(f)
}

func (b *Boundary) record(f *Failure) *Failure {
	if _, already := b.failed[f.Key]; already {
		return b.failed[f.Key]
	}
	b.failed[f.Key] = f
	b.log.Error("subtree failed", "key", f.Key, "err", f.Cause, "stack", f.Stack)
	return f
}

// Render draws key with render, or the fallback if key has failed or fails now.
func (b *Boundary) Render(key string, width, height int, render func(width, height int) string) (out string) {
	if f, ok := b.failed[key]; ok {
		return b.fallback(f, width, height)
	}
	defer func() {
		if r := recover(); r != nil {
			f := b.record(b.capture(key, r))
			out = b.fallback(f, width, height)
		}
	}()
	return render(width, height)
}

// Update runs a lifecycle call for key. A failed key is skipped; a panic
// fails the key. Commands returned by fn are wrapped with Guard.
func (b *Boundary) Update(key string, fn func() tea.Cmd) (cmd tea.Cmd) {
	if _, ok := b.failed[key]; ok {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			b.record(b.capture(key, r))
			cmd = nil
		}
	}()
	return b.Guard(key, fn())
}

// Guard wraps cmd so a panic while it runs becomes a FailureMsg for key
// instead of taking down the program. Commands inside a tea.BatchMsg are
// guarded too, since the runtime runs them on their own.
func (b *Boundary) Guard(key string, cmd tea.Cmd) tea.Cmd {
	return guard(b.region, key, cmd)
}

func guard(region, key string, cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = FailureMsg{Failure: capture(region, key, r)}
			}
		}()
		msg = cmd()
		if batch, ok := msg.(tea.BatchMsg); ok {
			wrapped := make(tea.BatchMsg, len(batch))
			for i, c := range batch {
				wrapped[i] = guard(region, key, c)
			}
			return wrapped
		}
		return msg
	}
}

func (b *Boundary) capture(key string, r any) *Failure {
	return capture(b.region, key, r)
}

func capture(region, key string, r any) *Failure {
	cause, ok := r.(error)
	if !ok {
		cause = fmt.Errorf("%w: %v", ErrPanic, r)
	}
	return &Failure{Region: region, Key: key, Cause: cause, Stack: string(debug.Stack())}
}
