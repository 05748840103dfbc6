package dmaecho

import "sync/atomic"

// Buffer is a DMA-capable frame. A Buffer has exactly one owner at a time:
// the DMA engine while a Transfer holds it, or the handler that retired it.
type Buffer [BufSize]byte

// Payload is a frame copied out of a Buffer by value.
type Payload = Buffer

// The two frames live for the whole process. Their addresses are handed to
// the DMA engine, so they must never move or be copied while in flight.
var (
	txBuf Buffer
	rxBuf Buffer

	staticTaken atomic.Bool
)

// StaticBuffers hands out the process-wide TX and RX buffers. Ownership moves
// to the caller; a second call panics.
func StaticBuffers() (tx, rx *Buffer) {
	if !staticTaken.CompareAndSwap(false, true) {
		panic(ErrBuffersTaken)
	}
	return &txBuf, &rxBuf
}
