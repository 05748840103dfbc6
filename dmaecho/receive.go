package dmaecho

import "github.com/rs/zerolog"

// Spawner accepts received payloads for echo without blocking. It reports
// false when the payload was not accepted.
type Spawner interface {
	Spawn(p Payload) bool
}

// Receiver keeps the RX buffer armed at all times. There is no idle receive
// state: every completion is followed immediately by a new transfer on the
// same buffer, channel and half.
type Receiver struct {
	recv  Transfer[RxHalf]
	echo  Spawner
	log   zerolog.Logger
	stats *counters
}

// NewReceiver starts the first RX transfer and returns the pipeline.
func NewReceiver(rx RxHalf, buf *Buffer, ch Channel, echo Spawner, log zerolog.Logger) *Receiver {
	return newReceiver(rx, buf, ch, echo, log, &counters{})
}

func newReceiver(rx RxHalf, buf *Buffer, ch Channel, echo Spawner, log zerolog.Logger, stats *counters) *Receiver {
	return &Receiver{
		recv:  ReadExact(rx, buf, ch),
		echo:  echo,
		log:   log,
		stats: stats,
	}
}

// OnComplete handles an RX channel completion. The wait returns at once since
// the hardware has already signalled. A payload the echo queue cannot take is
// dropped; the pipeline never blocks on the transmit side.
func (r *Receiver) OnComplete() {
	buf, ch, rx := r.recv.Wait()
	r.stats.dbgRxComplete()

	payload := *buf
	spawned := r.echo.Spawn(payload)
	r.stats.dbgEcho(spawned)
	if !spawned {
		r.log.Debug().Hex("bytes", payload[:]).Msg("echo queue full, frame dropped")
	}

	r.recv = ReadExact(rx, buf, ch)
	r.stats.dbgRearm()
}
