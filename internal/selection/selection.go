// Package selection holds the most recently chosen start and end dates.
package selection

import (
	"sync/atomic"
	"time"
)

// State is an immutable snapshot of the date selection. Nil = not chosen yet.
type State struct {
	Start *time.Time
	End   *time.Time
}

// Store is read and updated by concurrent event loops.
type Store interface {
	Load() State
	SetStart(d time.Time)
	SetEnd(d time.Time)
}

// Cell is a copy-on-write snapshot cell. Readers get an immutable copy;
// writers install a new one.
type Cell struct {
	p atomic.Pointer[State]
}

// NewCell creates a Cell with nothing selected.
func NewCell() *Cell {
	c := &Cell{}
	c.p.Store(&State{})
	return c
}

// Load returns the current snapshot.
func (c *Cell) Load() State {
	s := c.p.Load()
	return State{Start: copyTime(s.Start), End: copyTime(s.End)}
}

// SetStart records d as the start date.
func (c *Cell) SetStart(d time.Time) {
	c.update(func(s *State) { s.Start = &d })
}

// SetEnd records d as the end date.
func (c *Cell) SetEnd(d time.Time) {
	c.update(func(s *State) { s.End = &d })
}

func (c *Cell) update(fn func(*State)) {
	for {
		old := c.p.Load()
		next := *old
		fn(&next)
		if c.p.CompareAndSwap(old, &next) {
			return
		}
	}
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
