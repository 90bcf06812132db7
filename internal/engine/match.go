package engine

import (
	"fmt"

	"bourse/internal/common"
	"bourse/internal/investor"
)

// cross walks the bids of a book in priority order. Each bid that can be
// closed at all sweeps the asks in priority order until it is filled.
//
// Fully executed orders stay in the book until the next expiry pass but are
// never matched again, since every pairing needs quantity on both sides.
func (engine *Engine) cross(book *OrderBook) error {
	bids, asks := book.Sorted()
	live := liveLedger{engine.investors}

	for _, bid := range bids {
		if bid.IsFullyExecuted() || !canCloseAny(bid, asks, live) {
			continue
		}
		for _, ask := range asks {
			if bid.IsFullyExecuted() {
				break
			}
			if err := engine.closeDeal(bid, ask, live); err != nil {
				return err
			}
		}
	}
	return nil
}

// closeDeal settles order against counter if the pair is closeable right now.
func (engine *Engine) closeDeal(order, counter *common.Order, live liveLedger) error {
	qty, price, ok := pairTerms(order, counter, order.Quantity, counter.Quantity, live)
	if !ok {
		return nil
	}

	bid, ask := parties(order, counter)
	buyer, ok := engine.investors.Get(bid.Owner)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownInvestor, bid.Owner)
	}
	seller, ok := engine.investors.Get(ask.Owner)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownInvestor, ask.Owner)
	}

	value := qty * price
	if err := buyer.SettleBuy(order.Stock, qty, value); err != nil {
		return fmt.Errorf("settling buyer %d: %w", buyer.ID(), err)
	}
	if err := seller.SettleSell(order.Stock, qty, value); err != nil {
		return fmt.Errorf("settling seller %d: %w", seller.ID(), err)
	}

	order.Quantity -= qty
	counter.Quantity -= qty
	engine.prices[order.Stock] = price
	engine.transactions++

	engine.log.Trace().
		Int("round", engine.round).
		Str("stock", order.Stock).
		Int64("qty", qty).
		Int64("price", price).
		Int("buyer", buyer.ID()).
		Int("seller", seller.ID()).
		Msg("deal closed")

	engine.report(common.Trade{
		Bid:      bid,
		Ask:      ask,
		Stock:    order.Stock,
		Round:    engine.round,
		MatchQty: qty,
		Price:    price,
	})
	return nil
}

// ledger answers the solvency questions asked while pairing orders.
type ledger interface {
	Cash(investorID int) int64
	Stock(investorID int, stockID string) int64
}

type liveLedger struct {
	investors *investor.Registry
}

func (l liveLedger) Cash(investorID int) int64 {
	if inv, ok := l.investors.Get(investorID); ok {
		return inv.Wallet().Cash()
	}
	return 0
}

func (l liveLedger) Stock(investorID int, stockID string) int64 {
	if inv, ok := l.investors.Get(investorID); ok {
		return inv.Wallet().Stock(stockID)
	}
	return 0
}

// shadowLedger layers pending settlements over a base ledger without touching
// any wallet. All entries refer to a single stock.
type shadowLedger struct {
	base  ledger
	cash  map[int]int64
	stock map[int]int64
}

func newShadowLedger(base ledger) *shadowLedger {
	return &shadowLedger{
		base:  base,
		cash:  make(map[int]int64),
		stock: make(map[int]int64),
	}
}

func (l *shadowLedger) Cash(investorID int) int64 {
	return l.base.Cash(investorID) + l.cash[investorID]
}

func (l *shadowLedger) Stock(investorID int, stockID string) int64 {
	return l.base.Stock(investorID, stockID) + l.stock[investorID]
}

func (l *shadowLedger) settle(buyer, seller int, qty, price int64) {
	l.cash[buyer] -= qty * price
	l.cash[seller] += qty * price
	l.stock[seller] -= qty
	l.stock[buyer] += qty
}

// parties orders a pair as (bid, ask) regardless of which one is evaluated.
func parties(order, counter *common.Order) (bid, ask *common.Order) {
	if order.Side == common.Buy {
		return order, counter
	}
	return counter, order
}

// pairTerms decides whether order can be closed against counter given the
// quantities still open on each and the funds in l. It returns the quantity
// and price the close would settle at.
//
// A FullExecution counter is never closeable: such an order only trades as
// the evaluated side, where its whole quantity is checked up front.
func pairTerms(order, counter *common.Order, open, counterOpen int64, l ledger) (qty, price int64, ok bool) {
	qty = min(open, counterOpen)
	if qty <= 0 || !order.PricesCross(counter) {
		return 0, 0, false
	}
	if counter.Expiry == common.FullExecution {
		return 0, 0, false
	}

	price = order.ClosingPrice(counter)
	bid, ask := parties(order, counter)
	if l.Cash(bid.Owner) < qty*price || l.Stock(ask.Owner, order.Stock) < qty {
		return 0, 0, false
	}
	return qty, price, true
}

// canCloseAny is the gate in front of the sweep. Ordinary orders need one
// closeable counter order. A FullExecution order needs its whole remaining
// quantity covered by the same sweep the crossing loop is about to perform.
func canCloseAny(order *common.Order, counters []*common.Order, l ledger) bool {
	if order.Expiry != common.FullExecution {
		for _, counter := range counters {
			if _, _, ok := pairTerms(order, counter, order.Quantity, counter.Quantity, l); ok {
				return true
			}
		}
		return false
	}
	return fillsCompletely(order, counters, l)
}

// fillsCompletely dry-runs the sweep against a shadow ledger so that the
// funds each successive close needs are checked after the closes before it.
func fillsCompletely(order *common.Order, counters []*common.Order, l ledger) bool {
	shadow := newShadowLedger(l)
	open := order.Quantity
	for _, counter := range counters {
		if open == 0 {
			break
		}
		qty, price, ok := pairTerms(order, counter, open, counter.Quantity, shadow)
		if !ok {
			continue
		}
		bid, ask := parties(order, counter)
		shadow.settle(bid.Owner, ask.Owner, qty, price)
		open -= qty
	}
	return open == 0
}
