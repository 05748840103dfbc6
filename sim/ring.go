//go:build !rp2040 && !rp2350

package sim

import "sync/atomic"

// Power of two so the free-running indices wrap cleanly.
const lineSize = 128

// lineRing is a single-producer, single-consumer byte ring. The producer
// publishes through head and the consumer through tail, so neither side
// needs a lock.
type lineRing struct {
	buf  [lineSize]byte
	head atomic.Uint32
	tail atomic.Uint32
}

// Size returns the total capacity of the ring in bytes.
func (r *lineRing) Size() uint32 { return lineSize }

// Used returns how many bytes are waiting.
func (r *lineRing) Used() uint32 {
	return r.head.Load() - r.tail.Load()
}

// Put stores a byte. If the ring is already full, it returns false.
func (r *lineRing) Put(b byte) bool {
	if r.Used() == lineSize {
		return false
	}
	h := r.head.Load()
	r.buf[(h+1)%lineSize] = b // 1) write data
	r.head.Store(h + 1)       // 2) publish
	return true
}

// Get returns the oldest byte, or (0, false) when empty.
func (r *lineRing) Get() (byte, bool) {
	if r.Used() == 0 {
		return 0, false
	}
	t := r.tail.Load()
	b := r.buf[(t+1)%lineSize] // 1) read current element
	r.tail.Store(t + 1)        // 2) publish consumption
	return b, true
}
