//go:build !rp2040 && !rp2350

package main

import (
	"context"
	"fmt"
	"time"

	"github.com/mattn/go-tty"

	"github.com/jangala-dev/tinygo-dmaecho/dmaecho"
)

const (
	keyCtrlC = 0x03
	keyCtrlD = 0x04
)

// runTTY puts the terminal in raw mode and feeds every keystroke onto the
// receive line. Each time 12 keys have been typed the echoed frame is
// printed. Ctrl-C or Ctrl-D exits.
func runTTY(s *simulator) error {
	t, err := tty.Open()
	if err != nil {
		return fmt.Errorf("open tty: %w", err)
	}
	defer t.Close()

	restore, err := t.Raw()
	if err != nil {
		return fmt.Errorf("raw tty: %w", err)
	}
	defer restore()

	out := t.Output()
	fmt.Fprintf(out, "typing goes onto the line; every %d bytes echo back (ctrl-d to quit)\r\n", dmaecho.BufSize)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	printed := len(s.uart.Wire())
	go func() {
		for {
			wire, err := s.uart.WaitWire(ctx, printed+dmaecho.BufSize)
			if err != nil {
				return
			}
			for len(wire)-printed >= dmaecho.BufSize {
				fmt.Fprintf(out, "\r\necho: %q\r\n", wire[printed:printed+dmaecho.BufSize])
				printed += dmaecho.BufSize
			}
		}
	}()

	for {
		r, err := t.ReadRune()
		if err != nil {
			return fmt.Errorf("read tty: %w", err)
		}
		if r == keyCtrlC || r == keyCtrlD {
			fmt.Fprint(out, "\r\n")
			return nil
		}
		var buf [4]byte
		n := copy(buf[:], string(r))
		for s.uart.Inject(buf[:n]) == 0 {
			// Line full: the RX channel drains it within one frame time.
			time.Sleep(time.Millisecond)
		}
		fmt.Fprint(out, string(r))
	}
}
