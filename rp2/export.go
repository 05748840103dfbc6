//go:build rp2040 || rp2350

package rp2

import "machine"

type UARTConfig = machine.UARTConfig
type UARTParity = machine.UARTParity
type Pin = machine.Pin

const (
	NoPin       = machine.NoPin
	UART_TX_PIN = machine.UART_TX_PIN
	UART_RX_PIN = machine.UART_RX_PIN

	ParityNone = machine.ParityNone
	ParityEven = machine.ParityEven
	ParityOdd  = machine.ParityOdd
)
