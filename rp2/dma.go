//go:build rp2040 || rp2350

package rp2

import (
	"device/rp"
	"runtime/interrupt"
	"runtime/volatile"
	"unsafe"

	"github.com/jangala-dev/tinygo-dmaecho/dmaecho"
)

// NumChannels is the channel count common to RP2040 and RP2350.
const NumChannels = 12

// channelRegs is one channel's register block. See rp.DMA_Type.
type channelRegs struct {
	READ_ADDR   volatile.Register32
	WRITE_ADDR  volatile.Register32
	TRANS_COUNT volatile.Register32
	CTRL_TRIG   volatile.Register32
	_           [12]volatile.Register32 // aliases
}

var regs = unsafe.Slice((*channelRegs)(unsafe.Pointer(&rp.DMA.CH0_READ_ADDR)), NumChannels)

// Channel is a DMA channel carrying byte-wide UART transfers.
type Channel struct {
	id    uint8
	regs  *channelRegs
	armed volatile.Register8 // 1 between Start and Stop
}

var channels [NumChannels]Channel

func init() {
	for i := range channels {
		channels[i].id = uint8(i)
		channels[i].regs = &regs[i]
	}
}

// ChannelAt returns channel id.
func ChannelAt(id uint8) *Channel {
	return &channels[id]
}

var _ dmaecho.Channel = (*Channel)(nil)

// ID implements dmaecho.Channel.
func (c *Channel) ID() uint8 { return c.id }

// Start implements dmaecho.Channel. The CTRL_TRIG write triggers the transfer.
func (c *Channel) Start(dir dmaecho.Direction, buf *dmaecho.Buffer, port dmaecho.Port) {
	mem := uint32(uintptr(unsafe.Pointer(&buf[0])))
	periph := uint32(port.Addr)

	ctrl := uint32(rp.DMA_CH0_CTRL_TRIG_EN) |
		0<<rp.DMA_CH0_CTRL_TRIG_DATA_SIZE_Pos | // bytes
		port.DREQ<<rp.DMA_CH0_CTRL_TRIG_TREQ_SEL_Pos |
		uint32(c.id)<<rp.DMA_CH0_CTRL_TRIG_CHAIN_TO_Pos // chain to self: no chaining

	switch dir {
	case dmaecho.PeripheralToMemory:
		c.regs.READ_ADDR.Set(periph)
		c.regs.WRITE_ADDR.Set(mem)
		ctrl |= rp.DMA_CH0_CTRL_TRIG_INCR_WRITE
	case dmaecho.MemoryToPeripheral:
		c.regs.READ_ADDR.Set(mem)
		c.regs.WRITE_ADDR.Set(periph)
		ctrl |= rp.DMA_CH0_CTRL_TRIG_INCR_READ
	default:
		panic("rp2: invalid DMA direction")
	}
	c.regs.TRANS_COUNT.Set(uint32(len(buf)))
	c.armed.Set(1)
	c.regs.CTRL_TRIG.Set(ctrl)
}

// Complete implements dmaecho.Channel. It reads the channel registers only, so
// it is valid with the completion interrupt masked or already acknowledged.
func (c *Channel) Complete() bool {
	return c.armed.Get() != 0 &&
		c.regs.TRANS_COUNT.Get() == 0 &&
		!c.regs.CTRL_TRIG.HasBits(rp.DMA_CH0_CTRL_TRIG_BUSY)
}

// Stop implements dmaecho.Channel.
func (c *Channel) Stop() {
	c.regs.CTRL_TRIG.ClearBits(rp.DMA_CH0_CTRL_TRIG_EN)
	c.armed.Set(0)
}

// IRQ is one of the DMA controller's shared completion interrupts.
type IRQ uint8

const (
	IRQ0 IRQ = iota
	IRQ1
)

type irqHandler struct {
	num      IRQ
	intr     interrupt.Interrupt
	callback func()
}

var handlers [2]irqHandler

func init() {
	handlers[0].num = IRQ0
	handlers[1].num = IRQ1
	handlers[0].intr = interrupt.New(rp.IRQ_DMA_IRQ_0, handlers[0].handleInterrupt)
	handlers[1].intr = interrupt.New(rp.IRQ_DMA_IRQ_1, handlers[1].handleInterrupt)
}

func (irq IRQ) regs() (inte, ints *volatile.Register32) {
	if irq == IRQ0 {
		return &rp.DMA.INTE0, &rp.DMA.INTS0
	}
	return &rp.DMA.INTE1, &rp.DMA.INTS1
}

func (h *irqHandler) handleInterrupt(interrupt.Interrupt) {
	// Acknowledge first so a completion during the callback raises again.
	_, ints := h.num.regs()
	ints.Set(ints.Get())
	if h.callback != nil {
		h.callback()
	}
}

// Set routes completions of ch to irq and runs callback on each. NVIC
// priority is numerically inverted: lower values preempt higher ones.
// A completion already raised before Set is delivered once enabled.
func (irq IRQ) Set(ch *Channel, priority uint8, callback func()) {
	h := &handlers[irq]
	h.intr.Disable()
	h.callback = callback
	if callback == nil {
		return
	}
	inte, _ := irq.regs()
	inte.SetBits(1 << ch.id)
	h.intr.SetPriority(priority)
	h.intr.Enable()
}
