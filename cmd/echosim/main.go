//go:build !rp2040 && !rp2350

// Command echosim runs the DMA echo against simulated hardware on the host.
package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/jangala-dev/tinygo-dmaecho/dmaecho"
	"github.com/jangala-dev/tinygo-dmaecho/internal/logging"
)

func main() {
	configPath := flag.String("config", "", "TOML config file")
	mode := flag.String("mode", "script", "script, shell or tty")
	flag.Parse()

	if err := run(*configPath, *mode, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "echosim: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath, mode string, args []string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	log := logging.ConfigureRuntime("echosim")
	if _, ok := logging.ParseLevel(os.Getenv(logging.EnvLogLevel)); !ok {
		log = log.Level(cfg.LogLevel)
	}

	s, err := startSimulator(cfg.Baud, log)
	if err != nil {
		return err
	}
	defer s.Close()

	switch mode {
	case "script":
		return runScript(s, cfg, log)
	case "shell":
		return runShell(s, args)
	case "tty":
		return runTTY(s)
	default:
		return fmt.Errorf("unknown mode %q", mode)
	}
}

// runScript echoes the configured frames one at a time and checks the wire.
func runScript(s *simulator, cfg config, log zerolog.Logger) error {
	timeout := 2*time.Second + time.Duration(len(cfg.Frames))*(cfg.FrameGap+2*dmaecho.TransferTime(cfg.Baud))
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	for i, f := range cfg.Frames {
		if i > 0 && cfg.FrameGap > 0 {
			time.Sleep(cfg.FrameGap)
		}
		got, err := s.send(ctx, f)
		if err != nil {
			return fmt.Errorf("frame %d: %w", i, err)
		}
		if !bytes.Equal(got, f[:]) {
			return fmt.Errorf("frame %d: echoed %x, want %x", i, got, f[:])
		}
	}

	log.Info().
		Int("frames", len(cfg.Frames)).
		Int("wire_bytes", len(s.uart.Wire())).
		Int("rx_starts", s.rxCh.Starts()).
		Int("tx_starts", s.txCh.Starts()).
		Msg("script complete")
	return nil
}
