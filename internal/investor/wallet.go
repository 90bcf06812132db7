package investor

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	ErrInsufficientFunds    = errors.New("insufficient funds")
	ErrInsufficientHoldings = errors.New("insufficient holdings")
	ErrNegativeAmount       = errors.New("negative amount")
)

// Wallet holds an investor's cash and stock. It is only mutated through the
// settlement calls the engine issues while crossing orders.
type Wallet struct {
	cash   int64
	stocks map[string]int64 // zero entries are removed
}

func NewWallet(cash int64, stocks map[string]int64) *Wallet {
	w := &Wallet{
		cash:   cash,
		stocks: make(map[string]int64, len(stocks)),
	}
	for id, qty := range stocks {
		if qty > 0 {
			w.stocks[id] = qty
		}
	}
	return w
}

func (w *Wallet) Cash() int64 {
	return w.cash
}

func (w *Wallet) Stock(stockID string) int64 {
	return w.stocks[stockID]
}

// Stocks returns a copy of the non-zero holdings.
func (w *Wallet) Stocks() map[string]int64 {
	return maps.Clone(w.stocks)
}

// HeldStockIDs returns the held stock ids in sorted order.
func (w *Wallet) HeldStockIDs() []string {
	return slices.Sorted(maps.Keys(w.stocks))
}

func (w *Wallet) Credit(amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	w.cash += amount
	return nil
}

func (w *Wallet) Debit(amount int64) error {
	if amount < 0 {
		return ErrNegativeAmount
	}
	if w.cash < amount {
		return fmt.Errorf("%w: have %d, need %d", ErrInsufficientFunds, w.cash, amount)
	}
	w.cash -= amount
	return nil
}

func (w *Wallet) CreditStock(stockID string, qty int64) error {
	if qty < 0 {
		return ErrNegativeAmount
	}
	if qty > 0 {
		w.stocks[stockID] += qty
	}
	return nil
}

func (w *Wallet) DebitStock(stockID string, qty int64) error {
	if qty < 0 {
		return ErrNegativeAmount
	}
	held := w.stocks[stockID]
	if held < qty {
		return fmt.Errorf("%w: have %d %s, need %d", ErrInsufficientHoldings, held, stockID, qty)
	}
	if held == qty {
		delete(w.stocks, stockID)
	} else {
		w.stocks[stockID] = held - qty
	}
	return nil
}

// NetWorth is cash plus every holding valued at the given prices.
func (w *Wallet) NetWorth(price func(stockID string) int64) int64 {
	total := w.cash
	for id, qty := range w.stocks {
		total += qty * price(id)
	}
	return total
}

func (w *Wallet) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "cash=%d", w.cash)
	for _, id := range w.HeldStockIDs() {
		fmt.Fprintf(&sb, " %s:%d", id, w.stocks[id])
	}
	return sb.String()
}
