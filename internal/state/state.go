// Package state owns the application state and the only path that mutates it.
package state

import (
	"errors"
	"fmt"

	"github.com/jask/walletshell/internal/logging"
	"github.com/jask/walletshell/internal/page"
)

// ErrInvalidAction is returned by Dispatch when an action carries a payload
// outside its domain. State is left untouched.
var ErrInvalidAction = errors.New("invalid action payload")

// SessionStatus is the session gate's state.
type SessionStatus uint8

const (
	Unauthenticated SessionStatus = iota
	Authenticated
)

func (s SessionStatus) String() string {
	switch s {
	case Unauthenticated:
		return "unauthenticated"
	case Authenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("session(%d)", uint8(s))
	}
}

// ApplicationState is the single source of truth for the shell.
// Readers only ever see copies.
type ApplicationState struct {
	CurrentPage page.ID
	Session     SessionStatus
}

// Action is a request to change state. The set of variants is closed.
type Action interface {
	isAction()
}

// SetCurrentPage selects the page shown in the content region.
type SetCurrentPage struct {
	Page page.ID
}

// CompleteOnboarding authenticates the session and moves to the entry page.
type CompleteOnboarding struct{}

func (SetCurrentPage) isAction()     {}
func (CompleteOnboarding) isAction() {}

// Listener observes committed state changes.
type Listener func(prev, next ApplicationState)

// Store holds ApplicationState. It is not safe for concurrent use; drive it
// from the Bubble Tea update loop only.
type Store struct {
	state     ApplicationState
	listeners []*Listener
	queue     []Action
	busy      bool
	log       *logging.Logger
}

// NewStore creates a store. An invalid initial page is replaced by
// page.Default.
func NewStore(initial ApplicationState, log *logging.Logger) *Store {
	if log == nil {
		log = logging.Discard()
	}
	if !initial.CurrentPage.Valid() {
		initial.CurrentPage = page.Default
	}
	if initial.Session != Authenticated {
		initial.Session = Unauthenticated
	}
	return &Store{state: initial, log: log.WithComponent("state")}
}

// Snapshot returns a copy of the current state.
func (s *Store) Snapshot() ApplicationState {
	return s.state
}

// Subscribe registers l and returns a function that removes it.
func (s *Store) Subscribe(l Listener) func() {
	p := &l
	s.listeners = append(s.listeners, p)
	return func() {
		for i, cur := range s.listeners {
			if cur == p {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Dispatch applies a. Actions dispatched by listeners while another action
// is being committed are queued and applied afterwards, in issue order.
// An invalid payload is logged, dropped, and reported as ErrInvalidAction.
func (s *Store) Dispatch(a Action) error {
	if err := validate(a); err != nil {
		s.log.Warn("action rejected", "action", fmt.Sprintf("%T", a), "err", err)
		return err
	}
	s.queue = append(s.queue, a)
	if s.busy {
		return nil
	}
	s.busy = true
	defer func() {
		// a panicking listener abandons whatever it left queued
		s.busy = false
		s.queue = nil
	}()
	for len(s.queue) > 0 {
		next := s.queue[0]
		s.queue = s.queue[1:]
		s.commit(next)
	}
	return nil
}

func validate(a Action) error {
	switch act := a.(type) {
	case SetCurrentPage:
		if !act.Page.Valid() {
			return fmt.Errorf("%w: page %s", ErrInvalidAction, act.Page)
		}
		return nil
	case CompleteOnboarding:
		return nil
	case nil:
		return fmt.Errorf("%w: nil action", ErrInvalidAction)
	default:
		return fmt.Errorf("%w: unsupported action %T", ErrInvalidAction, a)
	}
}

func (s *Store) commit(a Action) {
	prev := s.state
	next := reduce(prev, a)
	if next == prev {
		return
	}
	s.state = next
	if prev.Session != next.Session {
		s.log.Info("session changed", "from", prev.Session, "to", next.Session)
	}
	if prev.CurrentPage != next.CurrentPage {
		s.log.Debug("page changed", "from", prev.CurrentPage, "to", next.CurrentPage)
	}
	for _, l := range append([]*Listener(nil), s.listeners...) {
		(*l)(prev, next)
	}
}

func reduce(st ApplicationState, a Action) ApplicationState {
	switch act := a.(type) {
	case SetCurrentPage:
		st.CurrentPage = act.Page
	case CompleteOnboarding:
		if st.Session == Unauthenticated {
			st.Session = Authenticated
			st.CurrentPage = page.Default
		}
	}
	return st
}
