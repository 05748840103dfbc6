package dmaecho

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestTransfer_WaitReturnsResources(t *testing.T) {
	ch := &fakeChannel{id: 3}
	var buf Buffer
	tr := WriteAll(fakeHalf{}, &buf, ch)

	require.True(t, tr.Valid())
	require.Equal(t, MemoryToPeripheral, ch.lastDir)
	require.Same(t, &buf, ch.lastBuf)
	require.False(t, tr.Done())

	ch.finish()
	require.True(t, tr.Done())

	gotBuf, gotCh, _ := tr.Wait()
	require.Same(t, &buf, gotBuf)
	require.Equal(t, uint8(3), gotCh.ID())
	require.Equal(t, 1, ch.stops)
	require.False(t, tr.Valid())
}

func TestTransfer_WaitPollsUntilComplete(t *testing.T) {
	ch := &fakeChannel{}
	var buf Buffer
	tr := ReadExact(fakeHalf{}, &buf, ch)
	require.Equal(t, PeripheralToMemory, ch.lastDir)

	go func() {
		time.Sleep(5 * time.Millisecond)
		ch.finish()
	}()

	done := make(chan struct{})
	go func() {
		tr.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("timeout waiting for Wait to return")
	}
}

func TestTransfer_SecondWaitPanics(t *testing.T) {
	ch := &fakeChannel{}
	var buf Buffer
	tr := ReadExact(fakeHalf{}, &buf, ch)
	ch.finish()
	tr.Wait()

	require.PanicsWithValue(t, ErrTransferRetired, func() { tr.Wait() })
	require.PanicsWithValue(t, ErrTransferRetired, func() { tr.Done() })
}

func TestStaticBuffers_SecondClaimPanics(t *testing.T) {
	tx, rx := StaticBuffers()
	require.NotSame(t, tx, rx)
	require.PanicsWithValue(t, ErrBuffersTaken, func() { StaticBuffers() })
}

func TestTransferTime(t *testing.T) {
	require.Zero(t, TransferTime(0))
	// 12 characters of 10 bits at 9600 baud.
	require.Equal(t, 12*10*(time.Second/9600), TransferTime(BaudRate))
	require.Less(t, TransferTime(115200), TransferTime(9600))
}

func TestStateKind_String(t *testing.T) {
	require.Equal(t, "idle", Idle{}.Kind().String())
	require.Equal(t, "running", Running{}.Kind().String())
	require.Equal(t, "empty", StateEmpty.String())
	require.Equal(t, "m2p", MemoryToPeripheral.String())
}
