package dmaecho

import "runtime"

// Direction is the data path of a DMA transfer.
type Direction uint8

const (
	// PeripheralToMemory fills a Buffer from the peripheral data register.
	PeripheralToMemory Direction = iota
	// MemoryToPeripheral drains a Buffer into the peripheral data register.
	MemoryToPeripheral
)

func (d Direction) String() string {
	switch d {
	case PeripheralToMemory:
		return "p2m"
	case MemoryToPeripheral:
		return "m2p"
	default:
		return "unknown"
	}
}

// Port is the peripheral end of a transfer: the data register the channel
// reads or writes, and the request line that paces it.
type Port struct {
	Addr uintptr
	DREQ uint32
}

// Channel is one DMA channel.
type Channel interface {
	// Start arms the channel to move len(buf) bytes between buf and port.
	Start(dir Direction, buf *Buffer, port Port)
	// Complete reports the raw transfer-complete status. It never blocks and
	// does not depend on interrupt delivery.
	Complete() bool
	// Stop disables the channel and clears its completion status.
	Stop()
	// ID returns the hardware channel number.
	ID() uint8
}

// RxHalf is the receive side of a split serial peripheral.
type RxHalf interface {
	RxPort() Port
}

// TxHalf is the transmit side of a split serial peripheral.
type TxHalf interface {
	TxPort() Port
}

// Serial is a duplex byte channel that splits into independent halves.
type Serial interface {
	Split() (TxHalf, RxHalf)
}

// Transfer is an in-flight DMA operation. It owns its buffer, channel and
// peripheral half until Wait hands them back.
type Transfer[H any] struct {
	buf  *Buffer
	ch   Channel
	half H
}

// ReadExact starts filling buf from rx on ch.
func ReadExact(rx RxHalf, buf *Buffer, ch Channel) Transfer[RxHalf] {
	ch.Start(PeripheralToMemory, buf, rx.RxPort())
	return Transfer[RxHalf]{buf: buf, ch: ch, half: rx}
}

// WriteAll starts draining buf into tx on ch.
func WriteAll(tx TxHalf, buf *Buffer, ch Channel) Transfer[TxHalf] {
	ch.Start(MemoryToPeripheral, buf, tx.TxPort())
	return Transfer[TxHalf]{buf: buf, ch: ch, half: tx}
}

// Valid reports whether the transfer has not been retired yet.
func (t *Transfer[H]) Valid() bool { return t.buf != nil }

// Done reports whether the hardware has finished without blocking.
func (t *Transfer[H]) Done() bool {
	t.mustValid()
	return t.ch.Complete()
}

// Wait polls the channel until the transfer is complete, stops the channel
// and returns the resources. The poll is bounded by the time the frame takes
// on the wire. The handle is invalid afterwards; waiting again panics.
func (t *Transfer[H]) Wait() (*Buffer, Channel, H) {
	t.mustValid()
	for !t.ch.Complete() {
		runtime.Gosched()
	}
	t.ch.Stop()

	buf, ch, half := t.buf, t.ch, t.half
	*t = Transfer[H]{}
	return buf, ch, half
}

func (t *Transfer[H]) mustValid() {
	if t.buf == nil {
		panic(ErrTransferRetired)
	}
}
