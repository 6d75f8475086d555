// Package history records undo/redo snapshots of a live range
// controller.
//
// Bursts of change notifications (dragging, scrolling) are coalesced:
// a snapshot is committed only once no further notification arrived
// for the quiet interval. Writing a snapshot back during undo/redo is
// not itself recorded.
package history

import (
	"log/slog"
	"sync"
	"time"

	"github.com/Mr-Dark-debug/tracerange/internal/debounce"
	"github.com/Mr-Dark-debug/tracerange/internal/timegraph"
)

// DefaultQuietInterval is the pause after which a burst is committed.
const DefaultQuietInterval = 500 * time.Millisecond

// RangeController is the live range state history reads and restores.
// *timegraph.UnitController satisfies it.
type RangeController interface {
	SelectionRange() *timegraph.Range
	ViewRange() timegraph.Range
	SetSelectionRange(r *timegraph.Range)
	SetViewRange(r timegraph.Range)
}

// Snapshot is one history entry.
type Snapshot struct {
	Selection *timegraph.Range
	View      timegraph.Range
}

func (s Snapshot) clone() Snapshot {
	if s.Selection != nil {
		sel := *s.Selection
		s.Selection = &sel
	}
	return s
}

// State is the controller's position in its commit cycle.
type State int

const (
	Idle State = iota
	PendingCommit
	Restoring
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case PendingCommit:
		return "pending"
	case Restoring:
		return "restoring"
	default:
		return "unknown"
	}
}

// Controller is the undo/redo stack of one range controller.
//
// entries[k-1] holds entry k; i is the current entry and max the redo
// ceiling, with 1 <= i <= max once anything was committed.
type Controller struct {
	mu        sync.Mutex
	uc        RangeController
	debouncer *debounce.Debouncer
	logger    *slog.Logger

	entries   []Snapshot
	i         int
	max       int
	latest    Snapshot
	restoring bool
}

// Option configures a Controller.
type Option func(*options)

type options struct {
	quiet     time.Duration
	scheduler debounce.Scheduler
	logger    *slog.Logger
}

// WithQuietInterval overrides DefaultQuietInterval.
func WithQuietInterval(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.quiet = d
		}
	}
}

// WithScheduler sets the timer source, mainly for tests.
func WithScheduler(s debounce.Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

// WithLogger sets the logger used for commit and restore events.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = l }
}

// NewController creates an empty history over uc.
func NewController(uc RangeController, opts ...Option) *Controller {
	o := options{
		quiet:     DefaultQuietInterval,
		scheduler: debounce.RealScheduler,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&o)
	}

	c := &Controller{
		uc:     uc,
		logger: o.logger,
	}
	c.debouncer = debounce.New(o.quiet, o.scheduler, c.commit)
	return c
}

// AddCurrentState offers the controller's current ranges for the next
// commit.
func (c *Controller) AddCurrentState() {
	c.Notify(Snapshot{
		Selection: c.uc.SelectionRange(),
		View:      c.uc.ViewRange(),
	})
}

// Notify schedules s to be committed after the quiet interval,
// superseding any snapshot still waiting. It is a no-op while a
// snapshot is being restored.
func (c *Controller) Notify(s Snapshot) {
	c.mu.Lock()
	if c.restoring {
		c.mu.Unlock()
		return
	}
	c.latest = s.clone()
	c.mu.Unlock()

	c.debouncer.Call()
}

// commit appends the latest snapshot after the cursor, dropping any
// redo entries.
func (c *Controller) commit() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = append(c.entries[:c.i], c.latest)
	c.i++
	c.max = c.i
	c.logger.Debug("history committed", "index", c.i)
}

// Undo restores the previous entry. It reports false when there is
// none.
func (c *Controller) Undo() bool {
	c.mu.Lock()
	if c.i <= 1 {
		c.mu.Unlock()
		return false
	}
	c.i--
	c.restore()
	return true
}

// Redo restores the next entry. It reports false when there is none.
func (c *Controller) Redo() bool {
	c.mu.Lock()
	if c.i >= c.max {
		c.mu.Unlock()
		return false
	}
	c.i++
	c.restore()
	return true
}

// restore writes entry i back to the range controller. It is entered
// with c.mu held and releases it before the write-back so listeners of
// the range controller can re-enter Notify.
func (c *Controller) restore() {
	s := c.entries[c.i-1].clone()
	c.restoring = true
	c.logger.Debug("history restoring", "index", c.i, "max", c.max)
	c.mu.Unlock()

	defer func() {
		c.mu.Lock()
		c.restoring = false
		c.mu.Unlock()
	}()

	c.uc.SetSelectionRange(s.Selection)
	c.uc.SetViewRange(s.View)
}

// Clear empties the history. A pending commit is not cancelled.
func (c *Controller) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	clear(c.entries)
	c.entries = c.entries[:0]
	c.i = 0
	c.max = 0
}

// Flush commits a pending snapshot immediately.
func (c *Controller) Flush() {
	c.debouncer.Flush()
}

// Close cancels a pending commit.
func (c *Controller) Close() {
	c.debouncer.Cancel()
}

// Cursor returns the current entry index and the redo ceiling.
func (c *Controller) Cursor() (i, max int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.i, c.max
}

// CanUndo reports whether Undo would move.
func (c *Controller) CanUndo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.i > 1
}

// CanRedo reports whether Redo would move.
func (c *Controller) CanRedo() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.i < c.max
}

// Current returns the entry at the cursor.
func (c *Controller) Current() (Snapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.i == 0 {
		return Snapshot{}, false
	}
	return c.entries[c.i-1].clone(), true
}

// State reports where the controller is in its commit cycle.
func (c *Controller) State() State {
	c.mu.Lock()
	restoring := c.restoring
	c.mu.Unlock()

	switch {
	case restoring:
		return Restoring
	case c.debouncer.Pending():
		return PendingCommit
	default:
		return Idle
	}
}
