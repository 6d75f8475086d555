package rangeinput

import (
	"sync"

	"github.com/Mr-Dark-debug/tracerange/internal/timegraph"
)

// Tracker keeps the latest controller state of every open experiment
// and which experiment is active.
type Tracker struct {
	mu     sync.RWMutex
	data   map[string]timegraph.ExperimentData
	active string
}

// NewTracker creates an empty tracker.
func NewTracker() *Tracker {
	return &Tracker{data: make(map[string]timegraph.ExperimentData)}
}

// Update stores the latest state of an experiment.
func (t *Tracker) Update(d timegraph.ExperimentData) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.data[d.ID] = d
}

// Select makes id the active experiment. An empty id deselects.
func (t *Tracker) Select(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.active = id
}

// Remove forgets an experiment, deselecting it if it was active.
func (t *Tracker) Remove(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.data, id)
	if t.active == id {
		t.active = ""
	}
}

// Active returns the data of the active experiment, if any is known.
func (t *Tracker) Active() (timegraph.ExperimentData, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if t.active == "" {
		return timegraph.ExperimentData{}, false
	}
	d, ok := t.data[t.active]
	return d, ok
}

// Get returns the last known state of an experiment.
func (t *Tracker) Get(id string) (timegraph.ExperimentData, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	d, ok := t.data[id]
	return d, ok
}
