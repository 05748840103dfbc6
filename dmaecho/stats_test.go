//go:build dmaechodebug

package dmaecho_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/jangala-dev/tinygo-dmaecho/dmaecho"
)

func TestStats_CountPipelineEvents(t *testing.T) {
	r := newRig(t, 0)
	start(t, r.app.RunRx)

	var frames []dmaecho.Payload
	for i := 0; i < dmaecho.QueueCapacity+1; i++ {
		frames = append(frames, frame(byte(i)))
	}
	r.inject(t, frames...)
	require.Eventually(t, func() bool { return r.app.DebugStats().Rearms == uint32(len(frames)) },
		time.Second, time.Millisecond)

	start(t, r.app.RunTx)
	r.waitWire(t, dmaecho.QueueCapacity*dmaecho.BufSize)
	r.waitIdle(t)

	s := r.app.DebugStats()
	require.EqualValues(t, len(frames), s.RxCompletions)
	require.EqualValues(t, dmaecho.QueueCapacity, s.EchoSpawned)
	require.EqualValues(t, 1, s.EchoDropped)
	require.EqualValues(t, dmaecho.QueueCapacity, s.TxStarts)
	require.EqualValues(t, dmaecho.QueueCapacity, s.TxRetired)

	r.app.DebugReset()
	require.Equal(t, dmaecho.Stats{}, r.app.DebugStats())
}
