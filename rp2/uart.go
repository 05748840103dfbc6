//go:build rp2040 || rp2350

// Package rp2 brings up the RP2040/RP2350 peripherals the echo core runs on: a
// PL011 UART whose FIFOs are serviced by DMA rather than interrupts, and the
// DMA channels and completion interrupts that move its frames.
package rp2

import (
	"device/rp"
	"errors"
	"machine"
	"unsafe"

	"github.com/jangala-dev/tinygo-dmaecho/dmaecho"
)

// DMA request lines of the two PL011 instances.
const (
	DREQ_UART0_TX = 0x14
	DREQ_UART0_RX = 0x15
	DREQ_UART1_TX = 0x16
	DREQ_UART1_RX = 0x17
)

// UART is a PL011 instance in DMA mode. The CPU never touches UARTDR once
// Configure returns; the DMA channels own both directions.
type UART struct {
	Bus *rp.UART0_Type

	txDREQ uint32
	rxDREQ uint32
	baud   uint32
}

var (
	UART0 = &UART{Bus: rp.UART0, txDREQ: DREQ_UART0_TX, rxDREQ: DREQ_UART0_RX}
	UART1 = &UART{Bus: rp.UART1, txDREQ: DREQ_UART1_TX, rxDREQ: DREQ_UART1_RX}
)

// Configure resets the PL011, muxes its pins, programs baud and 8N1 format,
// and enables the TX and RX DMA requests. All UART interrupts stay masked.
func (uart *UART) Configure(cfg UARTConfig) error {
	initUART(uart)

	if cfg.BaudRate == 0 {
		cfg.BaudRate = dmaecho.BaudRate
	}
	if cfg.TX == NoPin && cfg.RX == NoPin {
		cfg.TX = UART_TX_PIN
		cfg.RX = UART_RX_PIN
	}

	uart.Bus.UARTCR.ClearBits(rp.UART0_UARTCR_UARTEN | rp.UART0_UARTCR_RXE | rp.UART0_UARTCR_TXE)

	if cfg.TX != NoPin {
		cfg.TX.Configure(machine.PinConfig{Mode: machine.PinUART})
	}
	if cfg.RX != NoPin {
		cfg.RX.Configure(machine.PinConfig{Mode: machine.PinUART})
	}

	uart.SetBaudRate(cfg.BaudRate)
	if err := uart.SetFormat(8, 1, ParityNone); err != nil {
		return err
	}

	// Start from a quiet peripheral: nothing pending, RX FIFO empty, no
	// sticky errors.
	uart.Bus.UARTIMSC.Set(0)
	uart.Bus.UARTICR.Set(0x7FF)
	for !uart.Bus.UARTFR.HasBits(rp.UART0_UARTFR_RXFE) {
		_ = uart.Bus.UARTDR.Get()
	}
	uart.Bus.UARTRSR.Set(0)

	uart.Bus.UARTDMACR.Set(rp.UART0_UARTDMACR_TXDMAE | rp.UART0_UARTDMACR_RXDMAE)
	uart.Bus.UARTCR.Set(rp.UART0_UARTCR_UARTEN | rp.UART0_UARTCR_RXE | rp.UART0_UARTCR_TXE)
	return nil
}

// SetBaudRate programs the integer and fractional divisors. The PL011 only
// latches them on an LCR_H write.
func (uart *UART) SetBaudRate(br uint32) {
	uart.baud = br
	div := 8 * machine.CPUFrequency() / br

	ibrd := div >> 7
	var fbrd uint32
	switch {
	case ibrd == 0:
		ibrd, fbrd = 1, 0
	case ibrd >= 65535:
		ibrd, fbrd = 65535, 0
	default:
		fbrd = ((div & 0x7f) + 1) / 2
	}

	uart.Bus.UARTIBRD.Set(ibrd)
	uart.Bus.UARTFBRD.Set(fbrd)
	uart.Bus.UARTLCR_H.Set(uart.Bus.UARTLCR_H.Get())
}

// SetFormat writes the whole of LCR_H with the FIFOs enabled. DMA requests
// are paced by FIFO levels, so FEN is not optional here.
func (uart *UART) SetFormat(databits, stopbits uint8, parity UARTParity) error {
	if databits < 5 || databits > 8 {
		return errors.New("rp2: invalid databits")
	}
	if stopbits != 1 && stopbits != 2 {
		return errors.New("rp2: invalid stopbits")
	}

	var pen, pev uint32
	if parity != ParityNone {
		pen = rp.UART0_UARTLCR_H_PEN
		if parity == ParityEven {
			pev = rp.UART0_UARTLCR_H_EPS
		}
	}
	val := uint32((databits-5)<<rp.UART0_UARTLCR_H_WLEN_Pos|
		(stopbits-1)<<rp.UART0_UARTLCR_H_STP2_Pos) |
		pen | pev | rp.UART0_UARTLCR_H_FEN

	uart.Bus.UARTLCR_H.Set(val)
	return nil
}

// Baud returns the last configured line rate.
func (uart *UART) Baud() uint32 { return uart.baud }

// Split returns the DMA-facing halves. Both name the same data register; the
// request line tells them apart.
func (uart *UART) Split() (dmaecho.TxHalf, dmaecho.RxHalf) {
	return txHalf{uart}, rxHalf{uart}
}

func (uart *UART) dataRegister() uintptr {
	return uintptr(unsafe.Pointer(&uart.Bus.UARTDR))
}

type txHalf struct{ uart *UART }

func (h txHalf) TxPort() dmaecho.Port {
	return dmaecho.Port{Addr: h.uart.dataRegister(), DREQ: h.uart.txDREQ}
}

type rxHalf struct{ uart *UART }

func (h rxHalf) RxPort() dmaecho.Port {
	return dmaecho.Port{Addr: h.uart.dataRegister(), DREQ: h.uart.rxDREQ}
}

func initUART(uart *UART) {
	var resetVal uint32
	switch {
	case uart.Bus == rp.UART0:
		resetVal = rp.RESETS_RESET_UART0
	case uart.Bus == rp.UART1:
		resetVal = rp.RESETS_RESET_UART1
	}

	rp.RESETS.RESET.SetBits(resetVal)
	rp.RESETS.RESET.ClearBits(resetVal)
	for !rp.RESETS.RESET_DONE.HasBits(resetVal) {
	}
}
