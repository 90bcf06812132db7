package engine

import (
	"bourse/internal/common"

	"github.com/tidwall/btree"
)

type Orders = btree.BTreeG[*common.Order]

// OrderBook holds the live orders of one stock. Both sides are kept in
// price-time priority: better price first, then earlier round, then lower
// admission index. Round and priority are unique per order, so the ordering
// is total.
type OrderBook struct {
	Stock string

	Bids *Orders
	Asks *Orders
}

// bidLess sorts greatest price first.
func bidLess(a, b *common.Order) bool {
	if a.LimitPrice != b.LimitPrice {
		return a.LimitPrice > b.LimitPrice
	}
	return a.Precedes(b)
}

// askLess sorts least price first.
func askLess(a, b *common.Order) bool {
	if a.LimitPrice != b.LimitPrice {
		return a.LimitPrice < b.LimitPrice
	}
	return a.Precedes(b)
}

func NewOrderBook(stock string) *OrderBook {
	return &OrderBook{
		Stock: stock,
		Bids:  btree.NewBTreeG(bidLess),
		Asks:  btree.NewBTreeG(askLess),
	}
}

// Add rests an admitted order on its side of the book. The order must already
// carry its round and priority since they are part of the key.
func (book *OrderBook) Add(order *common.Order) {
	switch order.Side {
	case common.Buy:
		book.Bids.Set(order)
	case common.Sell:
		book.Asks.Set(order)
	}
}

// Sorted returns both sides in priority order. Quantities may be mutated
// through the returned pointers, keys may not.
func (book *OrderBook) Sorted() (bids, asks []*common.Order) {
	return book.Bids.Items(), book.Asks.Items()
}

// RemoveStale drops fully executed orders and orders overdue at round.
// Returns the number of orders removed.
func (book *OrderBook) RemoveStale(round int) int {
	return removeStale(book.Bids, round) + removeStale(book.Asks, round)
}

func removeStale(orders *Orders, round int) int {
	var stale []*common.Order
	orders.Scan(func(order *common.Order) bool {
		if order.IsFullyExecuted() || order.IsOverdue(round) {
			stale = append(stale, order)
		}
		return true
	})
	for _, order := range stale {
		orders.Delete(order)
	}
	return len(stale)
}

func (book *OrderBook) Len() int {
	return book.Bids.Len() + book.Asks.Len()
}

// Liquidity sums the remaining quantity on each side.
func (book *OrderBook) Liquidity() (bidQty, askQty int64) {
	book.Bids.Scan(func(order *common.Order) bool {
		bidQty += order.Quantity
		return true
	})
	book.Asks.Scan(func(order *common.Order) bool {
		askQty += order.Quantity
		return true
	})
	return bidQty, askQty
}
