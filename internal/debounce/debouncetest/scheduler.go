// Package debouncetest provides a manually advanced scheduler for
// deterministic tests of debounced code.
package debouncetest

import (
	"sort"
	"sync"
	"time"

	"github.com/Mr-Dark-debug/tracerange/internal/debounce"
)

// Scheduler is a debounce.Scheduler driven by Advance.
type Scheduler struct {
	mu     sync.Mutex
	now    time.Duration
	nextID uint64
	timers map[uint64]*timer
}

type timer struct {
	s        *Scheduler
	id       uint64
	deadline time.Duration
	f        func()
}

// New creates a scheduler at time zero.
func New() *Scheduler {
	return &Scheduler{timers: make(map[uint64]*timer)}
}

// AfterFunc implements debounce.Scheduler.
func (s *Scheduler) AfterFunc(d time.Duration, f func()) debounce.Timer {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	t := &timer{s: s, id: s.nextID, deadline: s.now + d, f: f}
	s.timers[t.id] = t
	return t
}

// Stop implements debounce.Timer.
func (t *timer) Stop() bool {
	t.s.mu.Lock()
	defer t.s.mu.Unlock()

	if _, ok := t.s.timers[t.id]; !ok {
		return false
	}
	delete(t.s.timers, t.id)
	return true
}

// Advance moves the clock forward by d, running due callbacks in
// deadline order on the calling goroutine.
func (s *Scheduler) Advance(d time.Duration) {
	s.mu.Lock()
	target := s.now + d
	s.mu.Unlock()

	for {
		s.mu.Lock()
		var due []*timer
		for _, t := range s.timers {
			if t.deadline <= target {
				due = append(due, t)
			}
		}
		if len(due) == 0 {
			s.now = target
			s.mu.Unlock()
			return
		}
		sort.Slice(due, func(i, j int) bool {
			if due[i].deadline == due[j].deadline {
				return due[i].id < due[j].id
			}
			return due[i].deadline < due[j].deadline
		})
		next := due[0]
		delete(s.timers, next.id)
		s.now = next.deadline
		s.mu.Unlock()

		next.f()
	}
}

// Pending returns the number of scheduled callbacks.
func (s *Scheduler) Pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.timers)
}
