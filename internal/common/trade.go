package common

import (
	"fmt"
)

// Trade accounts for the two parties who matched.
type Trade struct {
	Bid      *Order
	Ask      *Order
	Stock    string
	Round    int
	MatchQty int64
	Price    int64
}

// Value is the cash that changed hands.
func (t Trade) Value() int64 {
	return t.MatchQty * t.Price
}

func (t Trade) String() string {
	return fmt.Sprintf(
		`Bid: [
%s]
Ask:   [
%s]
Stock:          %s
Round:          %d
MatchQty:       %d
Price:          %d`,
		t.Bid.String(),
		t.Ask.String(),
		t.Stock,
		t.Round,
		t.MatchQty,
		t.Price,
	)
}
