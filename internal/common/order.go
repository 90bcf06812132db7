package common

import (
	"errors"
	"fmt"
)

var (
	ErrBadOrder = errors.New("bad order")

	ErrNonPositivePrice    = fmt.Errorf("%w: price limit must be positive", ErrBadOrder)
	ErrNonPositiveQuantity = fmt.Errorf("%w: quantity must be positive", ErrBadOrder)
	ErrMissingExpiry       = fmt.Errorf("%w: expiry must be specified", ErrBadOrder)
	ErrMissingDueRound     = fmt.Errorf("%w: due round must be specified for due orders", ErrBadOrder)
	ErrMissingSide         = fmt.Errorf("%w: side must be specified", ErrBadOrder)
	ErrMissingStock        = fmt.Errorf("%w: stock must be specified", ErrBadOrder)
	ErrMissingOwner        = fmt.Errorf("%w: owner must be specified", ErrBadOrder)
	ErrInsufficientCash    = fmt.Errorf("%w: not enough cash to place the order", ErrBadOrder)
	ErrInsufficientStock   = fmt.Errorf("%w: not enough stock to place the order", ErrBadOrder)
)

// Holdings is the read-only part of an investor's wallet needed to check
// whether an order can be placed at all.
type Holdings interface {
	Cash() int64
	Stock(stockID string) int64
}

// OrderRequest is what a policy hands to the engine. It becomes an Order once
// validated.
type OrderRequest struct {
	Side       Side
	Expiry     Expiry
	DueRound   int // only read for Due orders, Unassigned otherwise
	Stock      string
	Quantity   int64
	LimitPrice int64
	Owner      int // investor id
}

type Order struct {
	ID            string // assigned on admission
	Side          Side   //
	Expiry        Expiry //
	DueRound      int    // last round a Due order may rest in the book
	Stock         string // instrument identifier
	Quantity      int64  // Remaining quantity
	TotalQuantity int64  // Total volume requested
	LimitPrice    int64  // Worst acceptable price
	Owner         int    // Investor id, resolved through the registry
	Round         int    // Round of admission
	Priority      int    // Admission index within the round
}

// NewOrder validates a request against the owner's current holdings. It
// reserves nothing, so the engine has to check solvency again when admitting
// and when crossing.
func NewOrder(req OrderRequest, owner Holdings) (*Order, error) {
	switch {
	case req.LimitPrice <= 0:
		return nil, ErrNonPositivePrice
	case req.Quantity <= 0:
		return nil, ErrNonPositiveQuantity
	case req.Expiry == NoExpiry:
		return nil, ErrMissingExpiry
	case req.Expiry == Due && req.DueRound < 0:
		return nil, ErrMissingDueRound
	case req.Side == NoSide:
		return nil, ErrMissingSide
	case req.Stock == "":
		return nil, ErrMissingStock
	case owner == nil:
		return nil, ErrMissingOwner
	case req.Side == Buy && owner.Cash() < req.LimitPrice*req.Quantity:
		return nil, ErrInsufficientCash
	case req.Side == Sell && owner.Stock(req.Stock) < req.Quantity:
		return nil, ErrInsufficientStock
	}

	dueRound := Unassigned
	if req.Expiry == Due {
		dueRound = req.DueRound
	}
	return &Order{
		Side:          req.Side,
		Expiry:        req.Expiry,
		DueRound:      dueRound,
		Stock:         req.Stock,
		Quantity:      req.Quantity,
		TotalQuantity: req.Quantity,
		LimitPrice:    req.LimitPrice,
		Owner:         req.Owner,
		Round:         Unassigned,
		Priority:      Unassigned,
	}, nil
}

func (order *Order) IsFullyExecuted() bool {
	return order.Quantity == 0
}

// IsOverdue reports whether the order has outlived its expiry policy at the
// given round. Orders that were never admitted are never overdue.
func (order *Order) IsOverdue(round int) bool {
	switch order.Expiry {
	case Due:
		return order.DueRound < round
	case Immediate, FullExecution:
		return order.Round != Unassigned && round > order.Round
	}
	return false
}

// Precedes reports whether the order reached the book before other. Earlier
// round wins, then the lower admission index within the same round.
func (order *Order) Precedes(other *Order) bool {
	if order.Round != other.Round {
		return order.Round < other.Round
	}
	return order.Priority < other.Priority
}

// PricesCross reports whether the two limits are compatible from this
// order's side of the book.
func (order *Order) PricesCross(counter *Order) bool {
	if order.Side == Buy {
		return order.LimitPrice >= counter.LimitPrice
	}
	return order.LimitPrice <= counter.LimitPrice
}

// ClosingPrice is the limit of whichever order has been waiting longer.
func (order *Order) ClosingPrice(counter *Order) int64 {
	if order.Precedes(counter) {
		return order.LimitPrice
	}
	return counter.LimitPrice
}

func (order Order) String() string {
	return fmt.Sprintf(
		`ID:         %s
Side:       %v
Expiry:     %v (due %d)
Stock:      %s
LimitPrice: %d
Quantity:   %d (Total: %d)
Owner:      %d
Round:      %d (priority %d)`,
		order.ID,
		order.Side,
		order.Expiry,
		order.DueRound,
		order.Stock,
		order.LimitPrice,
		order.Quantity,
		order.TotalQuantity,
		order.Owner,
		order.Round,
		order.Priority,
	)
}
