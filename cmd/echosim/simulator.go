//go:build !rp2040 && !rp2350

package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jangala-dev/tinygo-dmaecho/dmaecho"
	"github.com/jangala-dev/tinygo-dmaecho/sim"
)

const (
	txChannel = 4
	rxChannel = 5
)

// simulator runs the echo core against a simulated UART and DMA controller.
type simulator struct {
	uart *sim.UART
	txCh *sim.Channel
	rxCh *sim.Channel
	app  *dmaecho.App

	cancel context.CancelFunc
	done   chan error
}

func startSimulator(baud uint32, log zerolog.Logger) (*simulator, error) {
	u := sim.NewUART(baud)
	dma := sim.NewDMA(u)
	tx, rx := u.Split()
	txBuf, rxBuf := dmaecho.StaticBuffers()

	s := &simulator{
		uart: u,
		txCh: dma.Channel(txChannel),
		rxCh: dma.Channel(rxChannel),
		done: make(chan error, 1),
	}
	app, err := dmaecho.New(dmaecho.Resources{
		Tx:    tx,
		Rx:    rx,
		TxCh:  s.txCh,
		RxCh:  s.rxCh,
		TxBuf: txBuf,
		RxBuf: rxBuf,
	}, dmaecho.WithLogger(log))
	if err != nil {
		_ = u.Close()
		return nil, fmt.Errorf("start simulator: %w", err)
	}
	s.app = app
	s.txCh.OnComplete(app.TxIRQ())
	s.rxCh.OnComplete(app.RxIRQ())

	var ctx context.Context
	ctx, s.cancel = context.WithCancel(context.Background())
	go func() { s.done <- app.Run(ctx) }()
	return s, nil
}

// send places frames on the receive line and waits until the same number of
// bytes has been echoed on top of what was already on the wire.
func (s *simulator) send(ctx context.Context, frames ...dmaecho.Payload) ([]byte, error) {
	before := len(s.uart.Wire())
	var in []byte
	for _, f := range frames {
		in = append(in, f[:]...)
	}
	if _, err := s.uart.Write(in); err != nil {
		return nil, err
	}
	wire, err := s.uart.WaitWire(ctx, before+len(in))
	if err != nil {
		return nil, err
	}
	return wire[before:], nil
}

func (s *simulator) Close() error {
	s.cancel()
	err := <-s.done
	_ = s.uart.Close()
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
