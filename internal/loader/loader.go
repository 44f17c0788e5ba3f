// Package loader tracks per-page view availability and caches loaded views so
// a page resolved once is not loaded again on return visits.
package loader

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"

	"github.com/jask/walletshell/internal/logging"
	"github.com/jask/walletshell/internal/page"
	"github.com/jask/walletshell/internal/registry"
)

// ErrLoaderPanic wraps a panic raised by a loader.
var ErrLoaderPanic = errors.New("loader panicked")

// State is the load state of one page.
type State uint8

const (
	NotRequested State = iota
	Pending
	Ready
	Failed
)

func (s State) String() string {
	switch s {
	case NotRequested:
		return "not-requested"
	case Pending:
		return "pending"
	case Ready:
		return "ready"
	case Failed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", uint8(s))
	}
}

// LoadedMsg carries the outcome of one lazy load back to the update loop.
type LoadedMsg struct {
	Page page.ID
	View registry.View
	Err  error
}

// PreloadedMsg carries the outcomes of a preload batch.
type PreloadedMsg []LoadedMsg

type entry struct {
	state   State
	view    registry.View
	err     error
	mounted bool
	started time.Time
}

// Cache holds one entry per page. Like state.Store it is owned by the update
// loop; only the returned commands run elsewhere, and they never touch it.
type Cache struct {
	ctx     context.Context
	entries [page.Count]entry
	log     *logging.Logger
}

// NewCache creates an empty cache. ctx bounds every load it starts.
func NewCache(ctx context.Context, log *logging.Logger) *Cache {
	if log == nil {
		log = logging.Discard()
	}
	return &Cache{ctx: ctx, log: log.WithComponent("loader")}
}

// State reports the load state of id.
func (c *Cache) State(id page.ID) State {
	if !id.Valid() {
		return NotRequested
	}
	return c.entries[id].state
}

// Err returns the failure recorded for id, if any.
func (c *Cache) Err(id page.ID) error {
	if !id.Valid() {
		return nil
	}
	return c.entries[id].err
}

// Get returns the view for d when it is available. Eager views are built on
// first use and kept.
func (c *Cache) Get(d registry.Descriptor) (registry.View, State) {
	e := &c.entries[d.ID]
	if d.Mode == registry.Eager && e.state != Ready {
		e.view = d.New()
		e.state = Ready
	}
	if e.state == Ready {
		return e.view, Ready
	}
	return nil, e.state
}

// Mount marks d's view as mounted and reports whether this is the first
// mount, in which case the view's Init command is returned too.
func (c *Cache) Mount(d registry.Descriptor) (first bool, cmd tea.Cmd) {
	view, st := c.Get(d)
	if st != Ready {
		return false, nil
	}
	e := &c.entries[d.ID]
	if e.mounted {
		return false, nil
	}
	e.mounted = true
	if in, ok := view.(registry.Initializer); ok {
		cmd = in.Init()
	}
	return true, cmd
}

// Request starts loading a lazy descriptor that has not been requested yet.
// It returns nil for eager descriptors and for pages already pending,
// loaded, or failed.
func (c *Cache) Request(d registry.Descriptor) tea.Cmd {
	if d.Mode != registry.Lazy {
		return nil
	}
	e := &c.entries[d.ID]
	if e.state != NotRequested {
		return nil
	}
	e.state = Pending
	e.started = time.Now()
	c.log.Debug("load started", "page", d.ID)
	ctx, load, id := c.ctx, d.Load, d.ID
	return func() tea.Msg {
		view, err := run(ctx, load)
		return LoadedMsg{Page: id, View: view, Err: err}
	}
}

// Preload requests every lazy descriptor in descs, running at most limit
// loaders at a time, and reports all outcomes in one PreloadedMsg.
func (c *Cache) Preload(descs []registry.Descriptor, limit int) tea.Cmd {
	type job struct {
		id   page.ID
		load registry.Loader
	}
	var jobs []job
	for _, d := range descs {
		if d.Mode != registry.Lazy || c.entries[d.ID].state != NotRequested {
			continue
		}
		c.entries[d.ID].state = Pending
		c.entries[d.ID].started = time.Now()
		jobs = append(jobs, job{id: d.ID, load: d.Load})
	}
	if len(jobs) == 0 {
		return nil
	}
	if limit <= 0 {
		limit = len(jobs)
	}
	c.log.Debug("preload started", "pages", len(jobs), "limit", limit)
	ctx := c.ctx
	return func() tea.Msg {
		out := make(PreloadedMsg, len(jobs))
		var g errgroup.Group
		g.SetLimit(limit)
		for i, j := range jobs {
			g.Go(func() error {
				view, err := run(ctx, j.load)
				out[i] = LoadedMsg{Page: j.id, View: view, Err: err}
				return nil
			})
		}
		_ = g.Wait()
		return out
	}
}

// Settle records the outcome of a load. Outcomes for pages that are no
// longer pending (reset in the meantime) are dropped; the return value
// reports whether msg was applied.
func (c *Cache) Settle(msg LoadedMsg) bool {
	if !msg.Page.Valid() {
		return false
	}
	e := &c.entries[msg.Page]
	if e.state != Pending {
		c.log.Debug("stale load result dropped", "page", msg.Page, "state", e.state)
		return false
	}
	elapsed := time.Since(e.started)
	if msg.Err == nil && msg.View == nil {
		msg.Err = fmt.Errorf("load %s: loader returned no view", msg.Page)
	}
	if msg.Err != nil {
		e.state = Failed
		e.err = msg.Err
		e.view = nil
		c.log.ErrorContext(c.ctx, "load failed", "page", msg.Page, "elapsed", elapsed, "err", msg.Err)
		return true
	}
	e.state = Ready
	e.view = msg.View
	e.err = nil
	c.log.Info("load finished", "page", msg.Page, "elapsed", elapsed)
	return true
}

// Reset forgets everything about id so it can be requested again.
func (c *Cache) Reset(id page.ID) {
	if !id.Valid() {
		return
	}
	c.entries[id] = entry{}
}

func run(ctx context.Context, load registry.Loader) (view registry.View, err error) {
	defer func() {
		if r := recover(); r != nil {
			view = nil
			err = fmt.Errorf("%w: %v\n%s", ErrLoaderPanic, r, debug.Stack())
		}
	}()
	return load(ctx)
}
