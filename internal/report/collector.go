package report

import (
	"maps"

	"bourse/internal/common"
)

// StockActivity aggregates the crosses executed on one stock.
type StockActivity struct {
	Trades int
	Volume int64 // shares
	Value  int64 // cash
	Low    int64
	High   int64
}

// Collector tallies executed crosses per stock. It implements the engine's
// Reporter and is only used from the engine's goroutine.
type Collector struct {
	stocks map[string]*StockActivity
	total  int
}

func NewCollector() *Collector {
	return &Collector{stocks: make(map[string]*StockActivity)}
}

func (c *Collector) ReportTrade(trade common.Trade) error {
	activity, ok := c.stocks[trade.Stock]
	if !ok {
		activity = &StockActivity{Low: trade.Price, High: trade.Price}
		c.stocks[trade.Stock] = activity
	}
	activity.Trades++
	activity.Volume += trade.MatchQty
	activity.Value += trade.Value()
	activity.Low = min(activity.Low, trade.Price)
	activity.High = max(activity.High, trade.Price)
	c.total++
	return nil
}

func (c *Collector) Total() int {
	return c.total
}

// Activity returns a copy of the per-stock tallies.
func (c *Collector) Activity() map[string]StockActivity {
	out := make(map[string]StockActivity, len(c.stocks))
	for id, activity := range maps.All(c.stocks) {
		out[id] = *activity
	}
	return out
}
