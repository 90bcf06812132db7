package engine

import (
	"testing"

	"bourse/internal/common"

	"github.com/stretchr/testify/assert"
)

func restingOrder(side common.Side, price int64, round, priority int) *common.Order {
	return &common.Order{
		Side:          side,
		Expiry:        common.Persistent,
		DueRound:      common.Unassigned,
		Stock:         "AAA",
		LimitPrice:    price,
		Quantity:      1,
		TotalQuantity: 1,
		Round:         round,
		Priority:      priority,
	}
}

func TestOrderBook_BidsPriceTimePriority(t *testing.T) {
	book := NewOrderBook("AAA")

	late := restingOrder(common.Buy, 100, 3, 0)
	earlyRoundLatePriority := restingOrder(common.Buy, 100, 2, 9)
	sameRoundLater := restingOrder(common.Buy, 100, 3, 1)
	best := restingOrder(common.Buy, 101, 5, 0)
	worst := restingOrder(common.Buy, 99, 0, 0)

	for _, order := range []*common.Order{late, worst, sameRoundLater, best, earlyRoundLatePriority} {
		book.Add(order)
	}

	bids, asks := book.Sorted()
	assert.Equal(t, []*common.Order{best, earlyRoundLatePriority, late, sameRoundLater, worst}, bids)
	assert.Empty(t, asks)
}

func TestOrderBook_AsksPriceTimePriority(t *testing.T) {
	book := NewOrderBook("AAA")

	a := restingOrder(common.Sell, 100, 1, 4)
	b := restingOrder(common.Sell, 100, 1, 2)
	c := restingOrder(common.Sell, 98, 4, 0)
	d := restingOrder(common.Sell, 103, 0, 0)

	for _, order := range []*common.Order{a, b, c, d} {
		book.Add(order)
	}

	_, asks := book.Sorted()
	assert.Equal(t, []*common.Order{c, b, a, d}, asks)
}

func TestOrderBook_RemoveStale(t *testing.T) {
	book := NewOrderBook("AAA")

	filled := restingOrder(common.Buy, 100, 0, 0)
	filled.Quantity = 0
	due := restingOrder(common.Sell, 100, 0, 1)
	due.Expiry, due.DueRound = common.Due, 1
	immediate := restingOrder(common.Sell, 101, 1, 0)
	immediate.Expiry = common.Immediate
	persistent := restingOrder(common.Buy, 99, 0, 2)

	for _, order := range []*common.Order{filled, due, immediate, persistent} {
		book.Add(order)
	}

	assert.Equal(t, 1, book.RemoveStale(1))
	assert.Equal(t, 3, book.Len())

	assert.Equal(t, 2, book.RemoveStale(2))
	bids, asks := book.Sorted()
	assert.Equal(t, []*common.Order{persistent}, bids)
	assert.Empty(t, asks)
}

func TestOrderBook_Liquidity(t *testing.T) {
	book := NewOrderBook("AAA")
	b := restingOrder(common.Buy, 100, 0, 0)
	b.Quantity = 7
	a := restingOrder(common.Sell, 101, 0, 1)
	a.Quantity = 3
	book.Add(b)
	book.Add(a)

	bidQty, askQty := book.Liquidity()
	assert.Equal(t, int64(7), bidQty)
	assert.Equal(t, int64(3), askQty)
}
