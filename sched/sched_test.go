package sched

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func runLevel(t *testing.T, l *Level) (context.CancelFunc, <-chan error) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()
	return cancel, done
}

func stop(t *testing.T, cancel context.CancelFunc, done <-chan error) {
	t.Helper()
	cancel()
	select {
	case err := <-done:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for level to stop")
	}
}

func TestTask_SpawnRefusedWhenFull(t *testing.T) {
	l := NewLevel("low", 1, 4)
	task := NewTask(l, "t", 2, func(int) {})

	require.True(t, task.Spawn(1))
	require.True(t, task.Spawn(2))
	require.False(t, task.Spawn(3))
	require.Equal(t, 2, task.Pending())
	require.Equal(t, 2, l.Pending())
}

func TestLevel_RunsInArrivalOrder(t *testing.T) {
	l := NewLevel("low", 1, 8)
	var (
		mu  sync.Mutex
		got []string
	)
	record := func(s string) {
		mu.Lock()
		got = append(got, s)
		mu.Unlock()
	}
	all := make(chan struct{})
	a := NewTask(l, "a", 4, func(v int) { record("a" + string(rune('0'+v))) })
	b := NewTask(l, "b", 3, func(v int) {
		record("b" + string(rune('0'+v)))
		if v == 2 {
			close(all)
		}
	})

	// Queue everything before the runner starts.
	require.True(t, a.Spawn(1))
	require.True(t, b.Spawn(1))
	require.True(t, a.Spawn(2))
	require.True(t, b.Spawn(2))

	cancel, done := runLevel(t, l)
	select {
	case <-all:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for tasks")
	}
	stop(t, cancel, done)

	require.Equal(t, []string{"a1", "b1", "a2", "b2"}, got)
}

func TestLevel_NeverRunsTwoTasksAtOnce(t *testing.T) {
	l := NewLevel("low", 1, 16)
	var inside, overlaps, ran int32
	var mu sync.Mutex
	finished := make(chan struct{}, 16)

	body := func(int) {
		mu.Lock()
		inside++
		if inside > 1 {
			overlaps++
		}
		mu.Unlock()
		time.Sleep(time.Millisecond)
		mu.Lock()
		inside--
		ran++
		mu.Unlock()
		finished <- struct{}{}
	}
	x := NewTask(l, "x", 8, body)
	y := NewTask(l, "y", 8, body)

	cancel, done := runLevel(t, l)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		i := i
		wg.Add(2)
		go func() { defer wg.Done(); x.Spawn(i) }()
		go func() { defer wg.Done(); y.Spawn(i) }()
	}
	wg.Wait()
	for i := 0; i < 16; i++ {
		select {
		case <-finished:
		case <-time.After(time.Second):
			t.Fatal("timeout waiting for tasks")
		}
	}
	stop(t, cancel, done)

	require.Zero(t, overlaps)
	require.EqualValues(t, 16, ran)
}

func TestBinding_CoalescesWhilePending(t *testing.T) {
	l := NewLevel("low", 1, 1)
	fired := make(chan struct{}, 4)
	b := NewBinding(l, "irq", func() { fired <- struct{}{} })

	require.True(t, b.Pend())
	require.False(t, b.Pend())
	require.False(t, b.Pend())

	cancel, done := runLevel(t, l)
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for binding")
	}
	stop(t, cancel, done)
	require.Empty(t, fired)

	// Once serviced it can pend again.
	require.True(t, b.Pend())
}

func TestLevel_SecondRunnerRejected(t *testing.T) {
	l := NewLevel("low", 1, 1)
	cancel, done := runLevel(t, l)
	defer stop(t, cancel, done)

	require.Eventually(t, func() bool { return l.running.Load() }, time.Second, time.Millisecond)
	require.ErrorIs(t, l.Run(context.Background()), ErrAlreadyRunning)
}

func TestNewTask_PanicsWhenLevelTooShallow(t *testing.T) {
	l := NewLevel("low", 1, 3)
	NewTask(l, "a", 2, func(int) {})
	require.Panics(t, func() { NewTask(l, "b", 2, func(int) {}) })
	require.Panics(t, func() { NewTask(l, "c", 0, func(int) {}) })
}
