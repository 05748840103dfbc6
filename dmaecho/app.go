package dmaecho

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jangala-dev/tinygo-dmaecho/sched"
)

// Resources are the peripherals and buffers produced by hardware bring-up.
type Resources struct {
	Tx   TxHalf
	Rx   RxHalf
	TxCh Channel
	RxCh Channel

	TxBuf *Buffer
	RxBuf *Buffer
}

func (r Resources) validate() error {
	switch {
	case r.Tx == nil || r.Rx == nil:
		return errors.New("dmaecho: missing serial half")
	case r.TxCh == nil || r.RxCh == nil:
		return errors.New("dmaecho: missing DMA channel")
	case r.TxBuf == nil || r.RxBuf == nil:
		return errors.New("dmaecho: missing buffer")
	case r.TxBuf == r.RxBuf:
		return errors.New("dmaecho: TX and RX share a buffer")
	case r.TxCh.ID() == r.RxCh.ID():
		return errors.New("dmaecho: TX and RX share a DMA channel")
	}
	return nil
}

type options struct {
	log    zerolog.Logger
	locked bool
}

// Option configures an App.
type Option func(*options)

// WithLogger sets the logger for diagnostic records.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithLockedState holds the transmit state in a LockedCell instead of the
// lock-free Cell. Use it only where the echo task and TX completion can
// preempt each other.
func WithLockedState() Option {
	return func(o *options) { o.locked = true }
}

// App wires the receive pipeline, the echo queue and the TX state machine
// onto two priority levels: receive on the higher, echo and TX completion
// sharing the lower.
type App struct {
	high *sched.Level
	low  *sched.Level

	echo   *sched.Task[Payload]
	probe  *sched.Task[chan<- StateKind]
	rxDone *sched.Binding
	txDone *sched.Binding

	recv *Receiver
	send *Transmitter

	log   zerolog.Logger
	stats *counters
}

// New builds the App and starts the first RX transfer. Bind RxIRQ and TxIRQ
// to the channel completion interrupts, then call Run.
func New(res Resources, opts ...Option) (*App, error) {
	if err := res.validate(); err != nil {
		return nil, err
	}
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}

	a := &App{
		high:  sched.NewLevel("rx", PriorityRx, 1),
		low:   sched.NewLevel("tx", PriorityTx, QueueCapacity+2),
		log:   o.log,
		stats: &counters{},
	}

	idle := Idle{Buf: res.TxBuf, Ch: res.TxCh, Tx: res.Tx}
	var send Governor[TxState] = newCell(idle)
	if o.locked {
		send = NewLockedCell[TxState](idle)
	}
	a.send = newTransmitter(send, a.log, a.stats)

	a.echo = sched.NewTask(a.low, "echo", QueueCapacity, a.send.Echo)
	a.txDone = sched.NewBinding(a.low, "tx-complete", a.send.OnTxComplete)
	a.probe = sched.NewTask(a.low, "probe", 1, func(reply chan<- StateKind) {
		reply <- a.send.Kind()
	})

	a.recv = newReceiver(res.Rx, res.RxBuf, res.RxCh, a.echo, a.log, a.stats)
	a.rxDone = sched.NewBinding(a.high, "rx-complete", a.recv.OnComplete)
	return a, nil
}

// RxIRQ returns the handler for the RX channel completion interrupt.
func (a *App) RxIRQ() func() {
	return func() { a.rxDone.Pend() }
}

// TxIRQ returns the handler for the TX channel completion interrupt.
func (a *App) TxIRQ() func() {
	return func() { a.txDone.Pend() }
}

// Run runs both levels until ctx is done.
func (a *App) Run(ctx context.Context) error {
	a.log.Info().
		Int("buf_size", BufSize).
		Int("queue", QueueCapacity).
		Uint8("rx_priority", a.high.Priority()).
		Uint8("tx_priority", a.low.Priority()).
		Msg("echo running")

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, l := range []*sched.Level{a.high, a.low} {
		i, l := i, l
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = l.Run(ctx)
		}()
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded) {
			return err
		}
	}
	return ctx.Err()
}

// State reports the transmit state as seen between handler invocations on
// the TX level. The level must be running.
func (a *App) State(ctx context.Context) (StateKind, error) {
	reply := make(chan StateKind, 1)
	for !a.probe.Spawn(reply) {
		select {
		case <-ctx.Done():
			return StateEmpty, ctx.Err()
		default:
			runtime.Gosched()
		}
	}
	select {
	case k := <-reply:
		return k, nil
	case <-ctx.Done():
		return StateEmpty, ctx.Err()
	}
}

// Backlog returns the number of payloads waiting for echo.
func (a *App) Backlog() int { return a.echo.Pending() }
