// Package sched runs tasks on static priority levels. Tasks on one Level run
// strictly one at a time, in the order they became ready; a Level never
// preempts itself. Separate Levels run independently of each other, which is
// how a higher level gets ahead of a lower one that is busy or blocked.
//
// Spawning never blocks, so tasks may be spawned from interrupt handlers. Each
// task has its own bounded queue; a spawn on a full queue is refused.
package sched

import (
	"context"
	"errors"
	"sync/atomic"
)

// ErrAlreadyRunning is returned when a second runner is started on a Level.
var ErrAlreadyRunning = errors.New("sched: level already running")

type runnable interface {
	run()
}

// Level is one priority level with a FIFO run queue.
type Level struct {
	name     string
	priority uint8

	ready    chan runnable
	reserved int // sum of task capacities; never exceeds cap(ready)
	running  atomic.Bool
}

// NewLevel creates a Level whose run queue can hold depth ready entries.
// depth must cover the capacities of every task registered on it.
func NewLevel(name string, priority uint8, depth int) *Level {
	return &Level{
		name:     name,
		priority: priority,
		ready:    make(chan runnable, depth),
	}
}

// Name returns the level name.
func (l *Level) Name() string { return l.name }

// Priority returns the static priority; higher runs ahead of lower.
func (l *Level) Priority() uint8 { return l.priority }

// Pending returns the number of ready entries waiting to run.
func (l *Level) Pending() int { return len(l.ready) }

// Run executes ready tasks one at a time until ctx is done. Only one Run may
// be active per Level.
func (l *Level) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrAlreadyRunning
	}
	defer l.running.Store(false)
	for {
		select {
		case r := <-l.ready:
			r.run()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (l *Level) reserve(capacity int) {
	if capacity <= 0 {
		panic("sched: task capacity must be positive")
	}
	if l.reserved+capacity > cap(l.ready) {
		panic("sched: level " + l.name + " run queue too shallow")
	}
	l.reserved += capacity
}

func (l *Level) makeReady(r runnable) {
	// Reservation guarantees room; a full queue means a task ran its own
	// queue past capacity.
	select {
	case l.ready <- r:
	default:
		panic("sched: level " + l.name + " run queue overflow")
	}
}

// Task is a software task carrying a value of type T per invocation.
type Task[T any] struct {
	name  string
	level *Level
	fn    func(T)
	slots chan T
}

// NewTask registers fn on l with room for capacity pending invocations.
// Register all tasks before the level starts running.
func NewTask[T any](l *Level, name string, capacity int, fn func(T)) *Task[T] {
	l.reserve(capacity)
	return &Task[T]{
		name:  name,
		level: l,
		fn:    fn,
		slots: make(chan T, capacity),
	}
}

// Name returns the task name.
func (t *Task[T]) Name() string { return t.name }

// Spawn queues one invocation with v. It returns false without queueing when
// the task already has capacity invocations pending.
func (t *Task[T]) Spawn(v T) bool {
	select {
	case t.slots <- v:
	default:
		return false
	}
	t.level.makeReady(t)
	return true
}

// Pending returns the number of queued invocations.
func (t *Task[T]) Pending() int { return len(t.slots) }

func (t *Task[T]) run() {
	t.fn(<-t.slots)
}

// Binding is a task bound to an interrupt source. Like a hardware pending
// bit, raising it while already pending has no further effect.
type Binding struct {
	task *Task[struct{}]
}

// NewBinding registers fn on l as an interrupt-bound task.
func NewBinding(l *Level, name string, fn func()) *Binding {
	return &Binding{
		task: NewTask(l, name, 1, func(struct{}) { fn() }),
	}
}

// Pend marks the binding pending. It reports false if it already was.
func (b *Binding) Pend() bool { return b.task.Spawn(struct{}{}) }

// Name returns the binding name.
func (b *Binding) Name() string { return b.task.name }
