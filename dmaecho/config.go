// Package dmaecho implements a zero-copy, full-duplex serial echo built on two
// DMA channels. A receive pipeline keeps one buffer permanently armed on the
// RX channel and forwards every completed frame by value; an echo task copies
// each frame into the single TX buffer and starts a transmit transfer; the TX
// completion handler retires that transfer and returns the buffer to idle.
//
// The transmit state lives in a single-slot Cell shared by the echo task and
// the TX completion handler. Both run on the same scheduling level (see
// package sched), so the cell is never accessed concurrently and needs no lock.
package dmaecho

import "time"

// Build-time configuration. None of these are adjustable at run time.
const (
	// BufSize is the length of every DMA frame in bytes.
	BufSize = 12
	// BaudRate is the line rate the firmware configures.
	BaudRate uint32 = 9600
	// QueueCapacity bounds the number of received frames awaiting echo.
	QueueCapacity = 4

	// PriorityRx is the scheduling level of the receive pipeline.
	PriorityRx uint8 = 2
	// PriorityTx is the shared level of the echo task and TX completion.
	PriorityTx uint8 = 1
)

// TransferTime returns how long one BufSize frame occupies the wire at baud,
// assuming 8N1 (10 bits per character). It returns 0 for an unpaced line.
func TransferTime(baud uint32) time.Duration {
	if baud == 0 {
		return 0
	}
	perBit := time.Second / time.Duration(baud)
	return BufSize * 10 * perBit
}
