//go:build rp2040 || rp2350

package rp2

import (
	"github.com/jangala-dev/tinygo-dmaecho/dmaecho"
)

// Fixed channel assignment for the echo.
const (
	TxChannel = 4
	RxChannel = 5
)

// NVIC priorities: receive completion preempts transmit completion.
const (
	rxIRQPriority = 0x40
	txIRQPriority = 0x80
)

// Bringup configures UART0 at dmaecho.BaudRate on the default pins and
// returns the resources for dmaecho.New. It claims the static buffers, so it
// may only be called once.
func Bringup() (dmaecho.Resources, error) {
	if err := UART0.Configure(UARTConfig{
		BaudRate: dmaecho.BaudRate,
		TX:       UART_TX_PIN,
		RX:       UART_RX_PIN,
	}); err != nil {
		return dmaecho.Resources{}, err
	}

	tx, rx := UART0.Split()
	txBuf, rxBuf := dmaecho.StaticBuffers()
	return dmaecho.Resources{
		Tx:    tx,
		Rx:    rx,
		TxCh:  ChannelAt(TxChannel),
		RxCh:  ChannelAt(RxChannel),
		TxBuf: txBuf,
		RxBuf: rxBuf,
	}, nil
}

// BindIRQs routes the RX channel to DMA_IRQ_0 and the TX channel to
// DMA_IRQ_1 and hands both to app.
func BindIRQs(app *dmaecho.App) {
	IRQ0.Set(ChannelAt(RxChannel), rxIRQPriority, app.RxIRQ())
	IRQ1.Set(ChannelAt(TxChannel), txIRQPriority, app.TxIRQ())
}
