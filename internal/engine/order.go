package engine

import (
	"errors"

	"bourse/internal/common"
	"bourse/internal/investor"

	"github.com/google/uuid"
)

var (
	ErrUnknownStock    = errors.New("unknown stock")
	ErrUnknownInvestor = errors.New("unknown investor")
	ErrOutsideBand     = errors.New("limit price outside band")
	ErrCannotAfford    = errors.New("investor cannot afford the order")
	ErrNotEnoughStock  = errors.New("investor does not hold enough stock")
)

// admitOrders asks every investor, in a fresh random order, for at most one
// order and rests the valid ones in their books. Rejections are silent: the
// round goes on with one order fewer. Returns the number admitted.
func (engine *Engine) admitOrders() int {
	engine.priority = 0

	all := engine.investors.All()
	for _, idx := range engine.rand.Perm(len(all)) {
		inv := all[idx]
		req, ok := inv.ProduceOrder(engine)
		if !ok {
			continue
		}

		order, err := common.NewOrder(req, inv.Wallet())
		if err == nil {
			err = engine.validate(order, inv)
		}
		if err != nil {
			engine.log.Trace().
				Err(err).
				Int("round", engine.round).
				Int("investor", inv.ID()).
				Str("stock", req.Stock).
				Msg("order discarded")
			continue
		}

		engine.stamp(order)
		engine.Books[order.Stock].Add(order)
	}
	return engine.priority
}

// validate re-checks an order against the live market and wallet right before
// admission, since neither is reserved at construction.
func (engine *Engine) validate(order *common.Order, inv *investor.Investor) error {
	price, ok := engine.prices[order.Stock]
	if !ok {
		return ErrUnknownStock
	}
	if diff := price - order.LimitPrice; diff > engine.cfg.PriceBand || -diff > engine.cfg.PriceBand {
		return ErrOutsideBand
	}
	wallet := inv.Wallet()
	switch order.Side {
	case common.Buy:
		if order.Quantity*order.LimitPrice > wallet.Cash() {
			return ErrCannotAfford
		}
	case common.Sell:
		if order.Quantity > wallet.Stock(order.Stock) {
			return ErrNotEnoughStock
		}
	}
	return nil
}

// stamp assigns the id, round and admission index. These never change
// afterwards.
func (engine *Engine) stamp(order *common.Order) {
	order.ID = engine.nextOrderID()
	order.Round = engine.round
	order.Priority = engine.priority
	engine.priority++
}

// nextOrderID draws from the run's rng so ids repeat across runs with the
// same seed.
func (engine *Engine) nextOrderID() string {
	id, err := uuid.NewRandomFromReader(engine.rand)
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
