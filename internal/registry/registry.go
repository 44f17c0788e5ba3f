// Package registry binds every page to the view that renders it.
package registry

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/walletshell/internal/page"
)

// ErrInvalidDescriptor reports a descriptor that cannot be registered.
var ErrInvalidDescriptor = errors.New("invalid view descriptor")

// View is anything that can draw itself into a width x height box.
type View interface {
	Render(width, height int) string
}

// ViewFunc adapts a function to View.
type ViewFunc func(width, height int) string

func (f ViewFunc) Render(width, height int) string { return f(width, height) }

// Initializer is implemented by views that need a start-up command when
// they are first mounted.
type Initializer interface {
	Init() tea.Cmd
}

// Updater is implemented by interactive views.
type Updater interface {
	Update(msg tea.Msg) tea.Cmd
}

// LoadMode says when a descriptor's view becomes available.
type LoadMode uint8

const (
	Eager LoadMode = iota
	Lazy
)

func (m LoadMode) String() string {
	if m == Lazy {
		return "lazy"
	}
	return "eager"
}

// Loader produces a lazy view. It runs off the update loop.
type Loader func(ctx context.Context) (View, error)

// Descriptor binds a page to its view.
//
// Eager descriptors set New; Lazy descriptors set Load and Fallback.
type Descriptor struct {
	ID       page.ID
	Mode     LoadMode
	New      func() View
	Load     Loader
	Fallback View
}

func (d Descriptor) validate() error {
	if !d.ID.Valid() {
		return fmt.Errorf("%w: page %s", ErrInvalidDescriptor, d.ID)
	}
	switch d.Mode {
	case Eager:
		if d.New == nil {
			return fmt.Errorf("%w: eager page %s has no constructor", ErrInvalidDescriptor, d.ID)
		}
	case Lazy:
		if d.Load == nil {
			return fmt.Errorf("%w: lazy page %s has no loader", ErrInvalidDescriptor, d.ID)
		}
		if d.Fallback == nil {
			return fmt.Errorf("%w: lazy page %s has no fallback", ErrInvalidDescriptor, d.ID)
		}
	default:
		return fmt.Errorf("%w: page %s has load mode %d", ErrInvalidDescriptor, d.ID, d.Mode)
	}
	return nil
}

// Registry is a fixed page -> descriptor table. It is never mutated after New.
type Registry struct {
	entries [page.Count]*Descriptor
}

// New builds a registry. Every descriptor must be valid, ids must be unique
// and page.Default must be present. Pages left out resolve to the default.
func New(descs ...Descriptor) (*Registry, error) {
	r := &Registry{}
	for _, d := range descs {
		if err := d.validate(); err != nil {
			return nil, err
		}
		if r.entries[d.ID] != nil {
			return nil, fmt.Errorf("%w: page %s registered twice", ErrInvalidDescriptor, d.ID)
		}
		d := d
		r.entries[d.ID] = &d
	}
	if r.entries[page.Default] == nil {
		return nil, fmt.Errorf("%w: default page %s is not registered", ErrInvalidDescriptor, page.Default)
	}
	return r, nil
}

// Resolve returns the descriptor registered for id. When id has no entry the
// default page's descriptor is returned and fellBack is true.
func (r *Registry) Resolve(id page.ID) (d Descriptor, fellBack bool) {
	if id.Valid() {
		if e := r.entries[id]; e != nil {
			return *e, false
		}
	}
	return *r.entries[page.Default], true
}

// Registered reports whether id has its own descriptor.
func (r *Registry) Registered(id page.ID) bool {
	return id.Valid() && r.entries[id] != nil
}

// Missing lists pages that will fall back to the default.
func (r *Registry) Missing() []page.ID {
	var out []page.ID
	for _, id := range page.All() {
		if r.entries[id] == nil {
			out = append(out, id)
		}
	}
	return out
}
