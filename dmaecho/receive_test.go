package dmaecho

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jangala-dev/tinygo-dmaecho/internal/testutil/testlog"
)

func TestReceiver_ArmsOnConstruction(t *testing.T) {
	log, _ := testlog.Start(t)
	ch := &fakeChannel{id: 5}
	buf := new(Buffer)

	NewReceiver(fakeHalf{}, buf, ch, &spawnRecorder{limit: 1}, log)

	require.Equal(t, 1, ch.starts)
	require.Equal(t, PeripheralToMemory, ch.lastDir)
	require.Same(t, buf, ch.lastBuf)
}

func TestReceiver_ForwardsByValueAndRearms(t *testing.T) {
	log, _ := testlog.Start(t)
	ch := &fakeChannel{id: 5}
	buf := new(Buffer)
	echo := &spawnRecorder{limit: 4}
	r := NewReceiver(fakeHalf{}, buf, ch, echo, log)

	for i := 0; i < 3; i++ {
		*buf = frame(byte(i * 0x10))
		ch.finish()
		r.OnComplete()
	}

	require.Equal(t, 4, ch.starts, "one start at construction plus one per completion")
	require.Same(t, buf, ch.lastBuf)
	require.Equal(t, []Payload{frame(0x00), frame(0x10), frame(0x20)}, echo.got)

	// The forwarded copies are independent of the live buffer.
	*buf = Payload{}
	require.Equal(t, frame(0x20), echo.got[2])
}

func TestReceiver_DropsWhenQueueFull(t *testing.T) {
	log, rec := testlog.Start(t)
	ch := &fakeChannel{id: 5}
	buf := new(Buffer)
	echo := &spawnRecorder{limit: 1}
	r := NewReceiver(fakeHalf{}, buf, ch, echo, log)

	*buf = frame(1)
	ch.finish()
	r.OnComplete()
	*buf = frame(2)
	ch.finish()
	r.OnComplete()

	require.Equal(t, []Payload{frame(1)}, echo.got)
	require.Len(t, rec.Records("echo queue full, frame dropped"), 1)
	require.Equal(t, 3, ch.starts, "a dropped frame still re-arms")
}
