//go:build !rp2040 && !rp2350

package main

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jangala-dev/tinygo-dmaecho/dmaecho"
	"github.com/jangala-dev/tinygo-dmaecho/internal/testutil/testlog"
)

// The simulator claims the process-wide buffers, so one test drives it.
func TestSimulatorEchoesScriptAndShellFrames(t *testing.T) {
	log, rec := testlog.Start(t)

	s, err := startSimulator(0, log)
	require.NoError(t, err)
	defer func() { require.NoError(t, s.Close()) }()

	cfg := defaultConfig()
	cfg.Baud = 0
	cfg.Frames = []dmaecho.Payload{toFrame("first"), toFrame("second frame")}
	require.NoError(t, runScript(s, cfg, log))
	require.Len(t, rec.Records("script complete"), 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	got, err := s.send(ctx, toFrame("third"))
	require.NoError(t, err)
	want := toFrame("third")
	require.Equal(t, want[:], got)

	require.Eventually(t, func() bool { return len(rec.Records("sent")) == 3 }, time.Second, time.Millisecond)
	require.Equal(t, 4, s.rxCh.Starts())
}
