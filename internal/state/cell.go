// Package state provides a single-slot mailbox for sharing the latest value
// between independently scheduled loops.
package state

import "sync/atomic"

// Cell holds the most recent value of T. The producer replaces the whole
// value; readers always observe either the previous or the new value, never
// a partial update. There is no locking and no history: consumers that run
// slower than the producer simply skip intermediate values, which every
// consumer here tolerates.
type Cell[T any] struct {
	ptr atomic.Pointer[T]
}

// NewCell creates a Cell seeded with the given initial value.
func NewCell[T any](initial T) *Cell[T] {
	c := &Cell[T]{}
	c.ptr.Store(&initial)
	return c
}

// Store replaces the held value.
func (c *Cell[T]) Store(v T) {
	c.ptr.Store(&v)
}

// Load returns the most recently stored value.
func (c *Cell[T]) Load() T {
	return *c.ptr.Load()
}
