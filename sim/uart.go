//go:build !rp2040 && !rp2350

// Package sim models the hardware the echo core runs against: a PL011-style
// UART whose halves are serviced by DMA, and a DMA controller whose channels
// raise a completion flag and a completion interrupt. It lets the core run
// unchanged on the host toolchain.
package sim

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/jangala-dev/tinygo-dmaecho/dmaecho"
)

// ErrLineFull is returned when the receive line cannot take more bytes.
var ErrLineFull = errors.New("sim: receive line full")

// Register layout of the modelled UART0 and its DMA request lines.
const (
	uart0Base = 0x40034000
	uart0DR   = uart0Base + 0x000

	DREQ_UART0_TX = 0x14
	DREQ_UART0_RX = 0x15
)

// UART is a simulated serial port. Bytes injected on the receive line are
// consumed by RX DMA transfers; bytes moved by TX DMA transfers accumulate
// on the wire.
type UART struct {
	baud uint32 // 0 disables pacing

	rx       lineRing
	rxNotify chan struct{} // coalesced RX line activity
	injectMu sync.Mutex    // keeps the ring single-producer

	wireMu     sync.Mutex
	wire       []byte
	wireNotify chan struct{} // coalesced TX progress

	closed    chan struct{}
	closeOnce sync.Once
}

// NewUART returns a UART paced at baud. A zero baud moves bytes instantly.
func NewUART(baud uint32) *UART {
	return &UART{
		baud:       baud,
		rxNotify:   make(chan struct{}, 1),
		wireNotify: make(chan struct{}, 1),
		closed:     make(chan struct{}),
	}
}

// Split returns the transmit and receive halves.
func (u *UART) Split() (dmaecho.TxHalf, dmaecho.RxHalf) {
	return txHalf{u}, rxHalf{u}
}

type txHalf struct{ u *UART }

func (h txHalf) TxPort() dmaecho.Port {
	return dmaecho.Port{Addr: uart0DR, DREQ: DREQ_UART0_TX}
}

type rxHalf struct{ u *UART }

func (h rxHalf) RxPort() dmaecho.Port {
	return dmaecho.Port{Addr: uart0DR, DREQ: DREQ_UART0_RX}
}

// Inject places p on the receive line and returns how many bytes fit.
func (u *UART) Inject(p []byte) int {
	u.injectMu.Lock()
	n := 0
	for n < len(p) && u.rx.Put(p[n]) {
		n++
	}
	u.injectMu.Unlock()
	if n > 0 {
		notify(u.rxNotify)
	}
	return n
}

// Write implements io.Writer on the receive line.
func (u *UART) Write(p []byte) (int, error) {
	n := u.Inject(p)
	if n < len(p) {
		return n, ErrLineFull
	}
	return n, nil
}

// Baud returns the line rate; 0 means unpaced.
func (u *UART) Baud() uint32 { return u.baud }

// Buffered returns the number of bytes on the receive line not yet taken by
// a transfer.
func (u *UART) Buffered() int { return int(u.rx.Used()) }

// Wire returns a copy of every byte transmitted so far.
func (u *UART) Wire() []byte {
	u.wireMu.Lock()
	defer u.wireMu.Unlock()
	return append([]byte(nil), u.wire...)
}

// WaitWire blocks until at least n bytes have been transmitted, then returns
// a copy of the wire.
func (u *UART) WaitWire(ctx context.Context, n int) ([]byte, error) {
	for {
		if w := u.Wire(); len(w) >= n {
			return w, nil
		}
		select {
		case <-u.wireNotify: // coalesced; re-check
		case <-u.closed:
			return u.Wire(), context.Canceled
		case <-ctx.Done():
			return u.Wire(), ctx.Err()
		}
	}
}

// Close stops the line. Transfers waiting for receive bytes are abandoned.
func (u *UART) Close() error {
	u.closeOnce.Do(func() { close(u.closed) })
	return nil
}

// charTime is one 8N1 character at the configured baud.
func (u *UART) charTime() time.Duration {
	if u.baud == 0 {
		return 0
	}
	return 10 * (time.Second / time.Duration(u.baud))
}

// transmit shifts one byte out. It reports false once the line is closed.
func (u *UART) transmit(b byte) bool {
	if d := u.charTime(); d > 0 {
		select {
		case <-time.After(d):
		case <-u.closed:
			return false
		}
	}
	u.wireMu.Lock()
	u.wire = append(u.wire, b)
	u.wireMu.Unlock()
	notify(u.wireNotify)
	return true
}

// receive blocks for the next byte on the line.
func (u *UART) receive() (byte, bool) {
	for {
		if b, ok := u.rx.Get(); ok {
			return b, true
		}
		select {
		case <-u.rxNotify: // coalesced; re-check
		case <-u.closed:
			return 0, false
		}
	}
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
