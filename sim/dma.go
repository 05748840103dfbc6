//go:build !rp2040 && !rp2350

package sim

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/jangala-dev/tinygo-dmaecho/dmaecho"
)

// NumChannels matches the RP2040 DMA controller.
const NumChannels = 12

// DMA is a simulated DMA controller attached to one UART.
type DMA struct {
	uart     *UART
	channels [NumChannels]Channel
}

// NewDMA returns a controller whose channels serve u.
func NewDMA(u *UART) *DMA {
	d := &DMA{uart: u}
	for i := range d.channels {
		d.channels[i].id = uint8(i)
		d.channels[i].dma = d
	}
	return d
}

// Channel returns channel id.
func (d *DMA) Channel(id uint8) *Channel {
	if int(id) >= NumChannels {
		panic("sim: invalid DMA channel")
	}
	return &d.channels[id]
}

// Channel is one simulated DMA channel. Each transfer runs on its own
// goroutine; on the last byte it sets the completion flag and then raises
// the completion interrupt.
type Channel struct {
	id  uint8
	dma *DMA

	busy     atomic.Bool
	complete atomic.Bool
	starts   atomic.Uint32

	mu      sync.Mutex
	irq     func()
	pending bool // completion raised while no handler was bound
}

var _ dmaecho.Channel = (*Channel)(nil)

// ID implements dmaecho.Channel.
func (c *Channel) ID() uint8 { return c.id }

// OnComplete binds fn as the completion interrupt handler. A completion that
// was latched before binding is delivered immediately.
func (c *Channel) OnComplete(fn func()) {
	c.mu.Lock()
	c.irq = fn
	pending := c.pending && fn != nil
	if pending {
		c.pending = false
	}
	c.mu.Unlock()
	if pending {
		fn()
	}
}

// Start implements dmaecho.Channel.
func (c *Channel) Start(dir dmaecho.Direction, buf *dmaecho.Buffer, port dmaecho.Port) {
	if port.Addr != uart0DR {
		panic(fmt.Sprintf("sim: channel %d: no peripheral at %#x", c.id, port.Addr))
	}
	if !c.busy.CompareAndSwap(false, true) {
		panic(fmt.Sprintf("sim: channel %d started while busy", c.id))
	}
	c.complete.Store(false)
	c.starts.Add(1)

	switch {
	case dir == dmaecho.PeripheralToMemory && port.DREQ == DREQ_UART0_RX:
		go c.pull(buf)
	case dir == dmaecho.MemoryToPeripheral && port.DREQ == DREQ_UART0_TX:
		go c.push(buf)
	default:
		panic(fmt.Sprintf("sim: channel %d: %v transfer paced by DREQ %#x", c.id, dir, port.DREQ))
	}
}

// Complete implements dmaecho.Channel.
func (c *Channel) Complete() bool { return c.complete.Load() }

// Stop implements dmaecho.Channel.
func (c *Channel) Stop() { c.complete.Store(false) }

// Busy reports whether a transfer is moving bytes.
func (c *Channel) Busy() bool { return c.busy.Load() }

// Starts returns the number of transfers started on the channel.
func (c *Channel) Starts() int { return int(c.starts.Load()) }

func (c *Channel) pull(buf *dmaecho.Buffer) {
	for i := range buf {
		b, ok := c.dma.uart.receive()
		if !ok {
			return
		}
		buf[i] = b
	}
	c.finish()
}

func (c *Channel) push(buf *dmaecho.Buffer) {
	for i := range buf {
		if !c.dma.uart.transmit(buf[i]) {
			return
		}
	}
	c.finish()
}

func (c *Channel) finish() {
	c.busy.Store(false)
	c.complete.Store(true)

	c.mu.Lock()
	irq := c.irq
	if irq == nil {
		c.pending = true
	}
	c.mu.Unlock()
	if irq != nil {
		irq()
	}
}
