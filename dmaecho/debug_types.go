//go:build dmaechodebug

package dmaecho

import "sync/atomic"

// Stats holds counters since the last reset.
type Stats struct {
	// Receive pipeline
	RxCompletions uint32 // RX transfers retired
	Rearms        uint32 // RX transfers started after a completion
	EchoSpawned   uint32 // payloads accepted by the echo queue
	EchoDropped   uint32 // payloads dropped on a full echo queue

	// Transmit state machine
	TxStarts        uint32 // TX transfers started
	TxRetired       uint32 // TX transfers retired
	TxBlockingWaits uint32 // retires that had to poll for completion
	TxStale         uint32 // TX completions that found the state Idle
}

type counters struct {
	s Stats
}

func (c *counters) reset() {
	atomic.StoreUint32(&c.s.RxCompletions, 0)
	atomic.StoreUint32(&c.s.Rearms, 0)
	atomic.StoreUint32(&c.s.EchoSpawned, 0)
	atomic.StoreUint32(&c.s.EchoDropped, 0)
	atomic.StoreUint32(&c.s.TxStarts, 0)
	atomic.StoreUint32(&c.s.TxRetired, 0)
	atomic.StoreUint32(&c.s.TxBlockingWaits, 0)
	atomic.StoreUint32(&c.s.TxStale, 0)
}

func (c *counters) snapshot() Stats {
	return Stats{
		RxCompletions: atomic.LoadUint32(&c.s.RxCompletions),
		Rearms:        atomic.LoadUint32(&c.s.Rearms),
		EchoSpawned:   atomic.LoadUint32(&c.s.EchoSpawned),
		EchoDropped:   atomic.LoadUint32(&c.s.EchoDropped),

		TxStarts:        atomic.LoadUint32(&c.s.TxStarts),
		TxRetired:       atomic.LoadUint32(&c.s.TxRetired),
		TxBlockingWaits: atomic.LoadUint32(&c.s.TxBlockingWaits),
		TxStale:         atomic.LoadUint32(&c.s.TxStale),
	}
}

// DebugReset zeroes the counters.
func (a *App) DebugReset() { a.stats.reset() }

// DebugStats returns a copy of the counters.
func (a *App) DebugStats() Stats { return a.stats.snapshot() }
