//go:build rp2040 || rp2350

// Command echo is the firmware: every 12-byte frame received on UART0 is
// transmitted back unchanged, with both directions moved by DMA.
package main

import (
	"context"
	"machine"
	"time"

	"github.com/rs/zerolog"

	"github.com/jangala-dev/tinygo-dmaecho/dmaecho"
	"github.com/jangala-dev/tinygo-dmaecho/rp2"
)

func must[T any](v T, err error) T {
	if err != nil {
		println("fatal:", err.Error())
		for {
			time.Sleep(time.Hour)
		}
	}
	return v
}

func main() {
	// USB CDC takes a moment to enumerate; records before that are lost.
	time.Sleep(2 * time.Second)

	log := zerolog.New(machine.Serial).With().Str("app", "echo").Logger()

	res := must(rp2.Bringup())
	app := must(dmaecho.New(res, dmaecho.WithLogger(log)))
	rp2.BindIRQs(app)

	log.Info().
		Uint32("baud", rp2.UART0.Baud()).
		Uint8("tx_channel", rp2.TxChannel).
		Uint8("rx_channel", rp2.RxChannel).
		Msg("bringup complete")

	_ = app.Run(context.Background())
}
