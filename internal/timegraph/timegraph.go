// Package timegraph holds the live range controller of an open
// experiment: its view range, optional selection range, offset and
// absolute length, plus a synchronous change subscription.
//
// Ranges handled here are offset-relative. Absolute (displayed)
// values are obtained by adding Offset().
package timegraph

import (
	"sort"
	"sync"
)

// Range is an offset-relative [Start, End] pair. Start may exceed End
// when a selection was dragged backwards.
type Range struct {
	Start int64 `json:"start"`
	End   int64 `json:"end"`
}

// Ordered returns the range with the lesser bound first.
func (r Range) Ordered() Range {
	if r.Start > r.End {
		return Range{Start: r.End, End: r.Start}
	}
	return r
}

// Length returns the ordered span of the range.
func (r Range) Length() int64 {
	o := r.Ordered()
	return o.End - o.Start
}

// ExperimentData is the state of one experiment's controller, published
// whenever the controller changes.
type ExperimentData struct {
	ID             string `json:"id"`
	ViewRange      Range  `json:"view_range"`
	SelectionRange *Range `json:"selection_range,omitempty"`
	Offset         int64  `json:"offset"`
	AbsoluteRange  int64  `json:"absolute_range"`
}

// ChangeKind tells listeners which part of the controller moved.
type ChangeKind int

const (
	ViewChanged ChangeKind = iota
	SelectionChanged
)

func (k ChangeKind) String() string {
	switch k {
	case ViewChanged:
		return "view"
	case SelectionChanged:
		return "selection"
	default:
		return "unknown"
	}
}

// Listener receives change notifications. It is called synchronously,
// after the controller lock has been released, so it may read or
// write the controller.
type Listener func(kind ChangeKind)

// UnitController is the mutable range state of one experiment.
// It is safe for concurrent use.
type UnitController struct {
	mu            sync.RWMutex
	offset        int64
	absoluteRange int64
	viewRange     Range
	selection     *Range

	listeners map[int]Listener
	nextID    int
}

// NewUnitController creates a controller spanning [0, absoluteRange]
// relative to offset, with the whole range in view and no selection.
func NewUnitController(absoluteRange, offset int64) *UnitController {
	return &UnitController{
		offset:        offset,
		absoluteRange: absoluteRange,
		viewRange:     Range{Start: 0, End: absoluteRange},
		listeners:     make(map[int]Listener),
	}
}

// Offset returns the base added to stored bounds to get absolute values.
func (c *UnitController) Offset() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.offset
}

// AbsoluteRange returns the total addressable length.
func (c *UnitController) AbsoluteRange() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.absoluteRange
}

// ViewRange returns the visible window.
func (c *UnitController) ViewRange() Range {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.viewRange
}

// SelectionRange returns a copy of the selection, or nil when none.
func (c *UnitController) SelectionRange() *Range {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.selection == nil {
		return nil
	}
	sel := *c.selection
	return &sel
}

// SetViewRange replaces the visible window and notifies listeners.
func (c *UnitController) SetViewRange(r Range) {
	c.mu.Lock()
	c.viewRange = r
	c.mu.Unlock()
	c.emit(ViewChanged)
}

// SetSelectionRange replaces the selection (nil clears it) and
// notifies listeners.
func (c *UnitController) SetSelectionRange(r *Range) {
	c.mu.Lock()
	if r == nil {
		c.selection = nil
	} else {
		sel := *r
		c.selection = &sel
	}
	c.mu.Unlock()
	c.emit(SelectionChanged)
}

// PanView shifts the view by delta, keeping its width and clamping it
// inside [0, AbsoluteRange].
func (c *UnitController) PanView(delta int64) {
	c.mu.Lock()
	v := c.viewRange.Ordered()
	width := v.End - v.Start
	start := v.Start + delta
	if start < 0 {
		start = 0
	}
	if start+width > c.absoluteRange {
		start = c.absoluteRange - width
	}
	c.viewRange = Range{Start: start, End: start + width}
	c.mu.Unlock()
	c.emit(ViewChanged)
}

// ZoomView scales the view width by num/den around its center,
// clamped to [0, AbsoluteRange]. The width never drops below 1.
func (c *UnitController) ZoomView(num, den int64) {
	if num <= 0 || den <= 0 {
		return
	}
	c.mu.Lock()
	v := c.viewRange.Ordered()
	center := v.Start + (v.End-v.Start)/2
	width := (v.End - v.Start) * num / den
	if width < 1 {
		width = 1
	}
	if width > c.absoluteRange {
		width = c.absoluteRange
	}
	start := center - width/2
	if start < 0 {
		start = 0
	}
	if start+width > c.absoluteRange {
		start = c.absoluteRange - width
	}
	c.viewRange = Range{Start: start, End: start + width}
	c.mu.Unlock()
	c.emit(ViewChanged)
}

// Data returns the controller state as an ExperimentData payload.
func (c *UnitController) Data(id string) ExperimentData {
	return ExperimentData{
		ID:             id,
		ViewRange:      c.ViewRange(),
		SelectionRange: c.SelectionRange(),
		Offset:         c.Offset(),
		AbsoluteRange:  c.AbsoluteRange(),
	}
}

// OnChange registers a listener and returns a function removing it.
func (c *UnitController) OnChange(l Listener) (unsubscribe func()) {
	c.mu.Lock()
	id := c.nextID
	c.nextID++
	c.listeners[id] = l
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		delete(c.listeners, id)
		c.mu.Unlock()
	}
}

// emit calls listeners in registration order.
func (c *UnitController) emit(kind ChangeKind) {
	c.mu.RLock()
	ids := make([]int, 0, len(c.listeners))
	for id := range c.listeners {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	listeners := make([]Listener, 0, len(ids))
	for _, id := range ids {
		listeners = append(listeners, c.listeners[id])
	}
	c.mu.RUnlock()

	for _, l := range listeners {
		l(kind)
	}
}
