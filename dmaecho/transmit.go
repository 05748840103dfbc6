package dmaecho

import "github.com/rs/zerolog"

// Transmitter drives the TX state machine. Echo and OnTxComplete must run on
// the same scheduling level: they share the state through a Governor that
// relies on never being entered twice at once.
type Transmitter struct {
	send  Governor[TxState]
	log   zerolog.Logger
	stats *counters
}

// NewTransmitter returns a Transmitter whose state starts Idle with the given
// resources, held in a lock-free Cell.
func NewTransmitter(tx TxHalf, buf *Buffer, ch Channel, log zerolog.Logger) *Transmitter {
	return newTransmitter(newCell(Idle{Buf: buf, Ch: ch, Tx: tx}), log, &counters{})
}

func newTransmitter(send Governor[TxState], log zerolog.Logger, stats *counters) *Transmitter {
	return &Transmitter{send: send, log: log, stats: stats}
}

func newCell(s TxState) *Cell[TxState] {
	c := &Cell[TxState]{}
	c.Put(s)
	return c
}

// Echo transmits one received payload. If the previous frame is still on the
// wire, Echo blocks until it completes.
func (t *Transmitter) Echo(p Payload) {
	logReceived(t.log, &p)

	var (
		buf *Buffer
		ch  Channel
		tx  TxHalf
	)
	switch s := t.send.MustTake().(type) {
	case Idle:
		buf, ch, tx = s.Buf, s.Ch, s.Tx
	case Running:
		buf, ch, tx = t.retire(&s.T)
	}

	*buf = p
	t.send.Put(Running{T: WriteAll(tx, buf, ch)})
	t.stats.dbgTxStart()
}

// OnTxComplete handles a TX channel completion. A completion that arrives
// after Echo already retired the transfer finds the state Idle and leaves it.
func (t *Transmitter) OnTxComplete() {
	switch s := t.send.MustTake().(type) {
	case Idle:
		t.stats.dbgTxStale()
		t.log.Debug().Msg("tx completion already retired")
		t.send.Put(s)
	case Running:
		buf, ch, tx := t.retire(&s.T)
		t.send.Put(Idle{Buf: buf, Ch: ch, Tx: tx})
	}
}

// Kind reports the current state without changing it. Call it only from the
// level the Transmitter runs on.
func (t *Transmitter) Kind() StateKind {
	if !t.send.Occupied() {
		return StateEmpty
	}
	s := t.send.MustTake()
	t.send.Put(s)
	return s.Kind()
}

func (t *Transmitter) retire(tr *Transfer[TxHalf]) (*Buffer, Channel, TxHalf) {
	blocking := !tr.Done()
	buf, ch, tx := tr.Wait()
	t.stats.dbgTxRetire(blocking)
	logSent(t.log, buf)
	return buf, ch, tx
}
