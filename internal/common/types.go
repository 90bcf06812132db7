package common

type Side int

const (
	// NoSide is the zero value and never valid on a live order.
	NoSide Side = iota
	Buy
	Sell
)

func (s Side) String() string {
	switch s {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	}
	return "NONE"
}

// Expiry decides how long an order may rest in the book.
type Expiry int

const (
	NoExpiry Expiry = iota
	// Due orders carry an explicit due round and are dropped once the
	// current round is past it.
	Due
	// Persistent orders rest until they are fully executed.
	Persistent
	// Immediate orders get a single round to trade.
	Immediate
	// FullExecution orders get a single round and may only trade if their
	// whole remaining quantity can be filled within it.
	FullExecution
)

func (e Expiry) String() string {
	switch e {
	case Due:
		return "DUE"
	case Persistent:
		return "PERSISTENT"
	case Immediate:
		return "IMMEDIATE"
	case FullExecution:
		return "FULL_EXECUTION"
	}
	return "NONE"
}

// Unassigned marks round, priority and due round fields that have not been set.
const Unassigned = -1
