//go:build dmaechodebug

package dmaecho

import "sync/atomic"

func (c *counters) dbgRxComplete() {
	atomic.AddUint32(&c.s.RxCompletions, 1)
}

func (c *counters) dbgRearm() {
	atomic.AddUint32(&c.s.Rearms, 1)
}

func (c *counters) dbgEcho(spawned bool) {
	if spawned {
		atomic.AddUint32(&c.s.EchoSpawned, 1)
	} else {
		atomic.AddUint32(&c.s.EchoDropped, 1)
	}
}

func (c *counters) dbgTxStart() {
	atomic.AddUint32(&c.s.TxStarts, 1)
}

// Called once per retired TX transfer; blocking is true when the retire had
// to poll because the frame was still on the wire.
func (c *counters) dbgTxRetire(blocking bool) {
	atomic.AddUint32(&c.s.TxRetired, 1)
	if blocking {
		atomic.AddUint32(&c.s.TxBlockingWaits, 1)
	}
}

func (c *counters) dbgTxStale() {
	atomic.AddUint32(&c.s.TxStale, 1)
}
