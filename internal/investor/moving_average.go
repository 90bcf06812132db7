package investor

import (
	"math"
	"math/rand"

	"bourse/internal/common"
)

const (
	aggressionLower = 0.5
	aggressionUpper = 2.0

	// maxVariation is how far from the market price the strongest signal
	// pushes the limit.
	maxVariation = 10
	// dueRounds matches the short moving average window.
	dueRounds = 5
)

// MovingAveragePolicy trades on moving-average crossovers. Signals are
// weighted by price and scaled against the strongest one seen so far.
type MovingAveragePolicy struct {
	Aggression float64

	strongestSignal float64
}

func NewMovingAveragePolicy(rng *rand.Rand) *MovingAveragePolicy {
	return &MovingAveragePolicy{
		Aggression: uniform(rng, aggressionLower, aggressionUpper),
	}
}

func (p *MovingAveragePolicy) Decide(view MarketView, self *Investor) (common.OrderRequest, bool) {
	wallet := self.Wallet()

	var (
		bestBuy, bestSell             string
		bestBuySignal, bestSellSignal float64
	)
	for _, id := range view.StockIDs() {
		signal := view.Signal(id) * float64(view.Price(id))
		if signal > bestBuySignal {
			bestBuy, bestBuySignal = id, signal
		}
		if signal < bestSellSignal {
			bestSell, bestSellSignal = id, signal
		}
	}
	p.strongestSignal = max(p.strongestSignal, bestBuySignal, -bestSellSignal)

	if bestBuy == "" && bestSell == "" {
		return common.OrderRequest{}, false
	}

	req := common.OrderRequest{Expiry: common.Due, DueRound: view.Round() + dueRounds}
	var signal float64
	switch {
	case bestSell == "" || wallet.Stock(bestSell) == 0:
		req.Side, req.Stock, signal = common.Buy, bestBuy, bestBuySignal
	case bestBuy == "" || view.Price(bestBuy) > wallet.Cash():
		req.Side, req.Stock, signal = common.Sell, bestSell, bestSellSignal
	case math.Abs(bestBuySignal) > math.Abs(bestSellSignal):
		req.Side, req.Stock, signal = common.Buy, bestBuy, bestBuySignal
	default:
		req.Side, req.Stock, signal = common.Sell, bestSell, bestSellSignal
	}
	if req.Stock == "" {
		return common.OrderRequest{}, false
	}

	// Stronger signals buy more and pay more to get filled quickly.
	scale := math.Min(math.Abs(signal)*p.Aggression/p.strongestSignal, 1)
	price := view.Price(req.Stock)

	var maxQty int64
	if req.Side == common.Buy {
		maxQty = wallet.Cash() / price
	} else {
		maxQty = wallet.Stock(req.Stock)
	}
	req.Quantity = int64(math.Ceil(scale * float64(maxQty)))

	variation := int64(math.Ceil(maxVariation * scale))
	if req.Side == common.Sell {
		variation = -variation
	}
	req.LimitPrice = price + variation
	return req, true
}
