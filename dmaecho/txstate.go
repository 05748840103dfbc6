package dmaecho

// TxState is the transmit side's ownership state. It is always exactly one
// of Idle or Running; each variant owns all of the TX resources.
type TxState interface {
	txState()
	Kind() StateKind
}

// Idle holds the TX resources while no transfer is in flight.
type Idle struct {
	Buf *Buffer
	Ch  Channel
	Tx  TxHalf
}

// Running holds the in-flight TX transfer, which owns the resources.
type Running struct {
	T Transfer[TxHalf]
}

func (Idle) txState()    {}
func (Running) txState() {}

func (Idle) Kind() StateKind    { return StateIdle }
func (Running) Kind() StateKind { return StateRunning }

// StateKind names a TxState variant for observation.
type StateKind uint8

const (
	// StateEmpty means the cell was found without a state.
	StateEmpty StateKind = iota
	StateIdle
	StateRunning
)

func (k StateKind) String() string {
	switch k {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	default:
		return "empty"
	}
}
