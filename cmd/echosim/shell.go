//go:build !rp2040 && !rp2350

package main

import (
	"context"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abiosoft/ishell"

	"github.com/jangala-dev/tinygo-dmaecho/dmaecho"
)

const (
	simKey      = "$sim"
	shellPrompt = "echo> "
	cmdTimeout  = 5 * time.Second
)

var shellCmds = []*ishell.Cmd{
	&SendCmd,
	&HexCmd,
	&BurstCmd,
	&WireCmd,
	&StateCmd,
	&StatsCmd,
}

var (
	// SendCmd echoes one text frame.
	SendCmd = ishell.Cmd{
		Name: "send",
		Help: "TEXT (padded or truncated to one frame)",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("TEXT required"))
				return
			}
			echo(c, toFrame(strings.Join(c.Args, " ")))
		},
	}

	// HexCmd echoes one frame given as hex.
	HexCmd = ishell.Cmd{
		Name: "hex",
		Help: "HEX (up to 12 bytes)",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("HEX required"))
				return
			}
			raw, err := hex.DecodeString(strings.Join(c.Args, ""))
			if err != nil {
				c.Err(fmt.Errorf("invalid HEX: %v", err))
				return
			}
			if len(raw) > dmaecho.BufSize {
				c.Err(fmt.Errorf("HEX longer than %d bytes", dmaecho.BufSize))
				return
			}
			var p dmaecho.Payload
			copy(p[:], raw)
			echo(c, p)
		},
	}

	// BurstCmd injects several frames back to back.
	BurstCmd = ishell.Cmd{
		Name: "burst",
		Help: "N (frames injected at once; more than 4 overflows the echo queue)",
		Func: func(c *ishell.Context) {
			if len(c.Args) < 1 {
				c.Err(fmt.Errorf("N required"))
				return
			}
			n, err := strconv.Atoi(c.Args[0])
			if err != nil || n <= 0 {
				c.Err(fmt.Errorf("invalid N: %q", c.Args[0]))
				return
			}
			frames := make([]dmaecho.Payload, n)
			for i := range frames {
				frames[i] = toFrame(fmt.Sprintf("burst-%06d", i))
			}
			s := simFrom(c)
			before := len(s.uart.Wire())
			var in []byte
			for _, f := range frames {
				in = append(in, f[:]...)
			}
			if _, err := s.uart.Write(in); err != nil {
				c.Err(err)
				return
			}
			// Dropped frames never reach the wire; wait for the line to
			// drain and report what came back.
			time.Sleep(time.Duration(n+1) * (dmaecho.TransferTime(s.uart.Baud()) + 10*time.Millisecond))
			got := len(s.uart.Wire()) - before
			c.Printf("injected %d frames, echoed %d\n", n, got/dmaecho.BufSize)
		},
	}

	// WireCmd dumps everything transmitted so far.
	WireCmd = ishell.Cmd{
		Name: "wire",
		Help: "dump transmitted bytes",
		Func: func(c *ishell.Context) {
			wire := simFrom(c).uart.Wire()
			c.Printf("%d bytes\n", len(wire))
			for len(wire) > 0 {
				n := min(dmaecho.BufSize, len(wire))
				c.Println(hex.EncodeToString(wire[:n]))
				wire = wire[n:]
			}
		},
	}

	// StateCmd reports the transmit state.
	StateCmd = ishell.Cmd{
		Name: "state",
		Help: "transmit state and echo backlog",
		Func: func(c *ishell.Context) {
			s := simFrom(c)
			ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
			defer cancel()
			k, err := s.app.State(ctx)
			if err != nil {
				c.Err(err)
				return
			}
			c.Printf("tx=%s backlog=%d\n", k, s.app.Backlog())
		},
	}

	// StatsCmd prints channel and debug counters.
	StatsCmd = ishell.Cmd{
		Name: "stats",
		Help: "DMA channel and pipeline counters",
		Func: func(c *ishell.Context) {
			s := simFrom(c)
			c.Printf("rx_starts=%d tx_starts=%d line_buffered=%d\n",
				s.rxCh.Starts(), s.txCh.Starts(), s.uart.Buffered())
			c.Printf("%+v\n", s.app.DebugStats())
		},
	}
)

func simFrom(c *ishell.Context) *simulator {
	return c.Get(simKey).(*simulator)
}

func echo(c *ishell.Context, p dmaecho.Payload) {
	ctx, cancel := context.WithTimeout(context.Background(), cmdTimeout)
	defer cancel()
	got, err := simFrom(c).send(ctx, p)
	if err != nil {
		c.Err(err)
		return
	}
	c.Printf("%s  %q\n", hex.EncodeToString(got), got)
}

func newShell(s *simulator) *ishell.Shell {
	sh := ishell.New()
	sh.Set(simKey, s)
	sh.SetPrompt(shellPrompt)
	for _, cmd := range shellCmds {
		sh.AddCmd(cmd)
	}
	return sh
}

// runShell evaluates args as one command when given, otherwise runs the
// interactive shell.
func runShell(s *simulator, args []string) error {
	sh := newShell(s)
	if len(args) > 0 {
		return sh.Process(args...)
	}
	sh.Run()
	return nil
}
