package dmaecho

import "sync"

// Governor is a single-slot container for shared state. Every MustTake must
// be matched by exactly one Put before the next access.
type Governor[T any] interface {
	MustTake() T
	Put(v T)
	Occupied() bool
}

// Cell is a lock-free Governor. It performs no mutual exclusion: callers must
// guarantee that the accessing contexts never run concurrently, which holds
// when they share one sched.Level.
type Cell[T any] struct {
	v  T
	ok bool
}

// Take removes and returns the content, leaving the cell empty.
func (c *Cell[T]) Take() (T, bool) {
	v, ok := c.v, c.ok
	var zero T
	c.v, c.ok = zero, false
	return v, ok
}

// MustTake is Take for callers that require a value. An empty cell panics.
func (c *Cell[T]) MustTake() T {
	v, ok := c.Take()
	if !ok {
		panic(ErrEmptyCell)
	}
	return v
}

// Put installs v. Putting into an occupied cell panics.
func (c *Cell[T]) Put(v T) {
	if c.ok {
		panic(ErrCellOccupied)
	}
	c.v, c.ok = v, true
}

// Occupied reports whether the cell holds a value.
func (c *Cell[T]) Occupied() bool { return c.ok }

// LockedCell is a Governor for environments where the accessing contexts can
// preempt each other. MustTake acquires the lock and Put releases it, so a
// context that preempts the holder blocks for as long as the holder keeps
// the state, which includes any blocking transfer retire in between.
type LockedCell[T any] struct {
	mu   sync.Mutex
	cell Cell[T]
}

// NewLockedCell returns a LockedCell seeded with v.
func NewLockedCell[T any](v T) *LockedCell[T] {
	c := &LockedCell[T]{}
	c.cell.Put(v)
	return c
}

// MustTake locks the cell and removes its content. An empty cell panics
// with the lock released.
func (c *LockedCell[T]) MustTake() T {
	c.mu.Lock()
	v, ok := c.cell.Take()
	if !ok {
		c.mu.Unlock()
		panic(ErrEmptyCell)
	}
	return v
}

// Put installs v and releases the lock taken by the matching MustTake.
func (c *LockedCell[T]) Put(v T) {
	defer c.mu.Unlock()
	c.cell.Put(v)
}

// Occupied reports whether the cell holds a value, waiting for any holder.
func (c *LockedCell[T]) Occupied() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cell.Occupied()
}
