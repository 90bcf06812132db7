package investor

import (
	"math/rand"

	"bourse/internal/common"
)

const (
	orderChanceLower = 0.0001
	orderChanceUpper = 0.3
	buyChanceLower   = 0.3
	buyChanceUpper   = 0.7

	buyVariationLower  = 0
	buyVariationUpper  = 3
	sellVariationLower = -2
	sellVariationUpper = 5

	dueChance        = 0.8
	persistentChance = 0.001
	immediateChance  = 0.1

	minDueRounds = 1
	maxDueRounds = 50
)

// RandomPolicy places small random orders around the market price. Each
// investor draws its own order and buy propensities once.
type RandomPolicy struct {
	OrderChance float64
	BuyChance   float64
	rand        *rand.Rand
}

func NewRandomPolicy(rng *rand.Rand) *RandomPolicy {
	return &RandomPolicy{
		OrderChance: uniform(rng, orderChanceLower, orderChanceUpper),
		BuyChance:   uniform(rng, buyChanceLower, buyChanceUpper),
		rand:        rng,
	}
}

func (p *RandomPolicy) Decide(view MarketView, self *Investor) (common.OrderRequest, bool) {
	if p.rand.Float64() > p.OrderChance {
		return common.OrderRequest{}, false
	}

	req := common.OrderRequest{Side: common.Sell, DueRound: common.Unassigned}
	if p.rand.Float64() < p.BuyChance {
		req.Side = common.Buy
	}

	wallet := self.Wallet()
	stockID, ok := p.pickStock(view, wallet, req.Side)
	if !ok {
		return common.OrderRequest{}, false
	}
	req.Stock = stockID

	price, ok := p.pickPrice(view.Price(stockID), wallet.Cash(), req.Side)
	if !ok {
		return common.OrderRequest{}, false
	}
	req.LimitPrice = price

	var maxQty int64
	if req.Side == common.Buy {
		maxQty = wallet.Cash() / price
	} else {
		maxQty = wallet.Stock(stockID)
	}
	if maxQty <= 0 {
		return common.OrderRequest{}, false
	}
	req.Quantity = 1 + p.rand.Int63n(maxQty)

	p.pickExpiry(&req, view.Round())
	return req, true
}

// pickStock chooses a stock the investor can afford at least one unit of when
// buying, or one it holds when selling.
func (p *RandomPolicy) pickStock(view MarketView, wallet *Wallet, side common.Side) (string, bool) {
	var candidates []string
	if side == common.Buy {
		for _, id := range view.StockIDs() {
			if view.Price(id) <= wallet.Cash() {
				candidates = append(candidates, id)
			}
		}
	} else {
		candidates = wallet.HeldStockIDs()
	}
	if len(candidates) == 0 {
		return "", false
	}
	return candidates[p.rand.Intn(len(candidates))], true
}

func (p *RandomPolicy) pickPrice(market, cash int64, side common.Side) (int64, bool) {
	var variations []int64
	if side == common.Buy {
		for v := int64(buyVariationLower); v <= buyVariationUpper; v++ {
			if market+v <= cash && market+v > 0 {
				variations = append(variations, v)
			}
		}
	} else {
		for v := int64(sellVariationLower); v <= sellVariationUpper; v++ {
			if market+v > 0 {
				variations = append(variations, v)
			}
		}
	}
	if len(variations) == 0 {
		return 0, false
	}
	return market + variations[p.rand.Intn(len(variations))], true
}

func (p *RandomPolicy) pickExpiry(req *common.OrderRequest, round int) {
	r := p.rand.Float64()
	switch {
	case r < dueChance:
		req.Expiry = common.Due
		req.DueRound = round + minDueRounds + p.rand.Intn(maxDueRounds-minDueRounds+1)
	case r < dueChance+persistentChance:
		req.Expiry = common.Persistent
	case r < dueChance+persistentChance+immediateChance:
		req.Expiry = common.Immediate
	default:
		req.Expiry = common.FullExecution
	}
}

func uniform(rng *rand.Rand, lower, upper float64) float64 {
	return lower + rng.Float64()*(upper-lower)
}
