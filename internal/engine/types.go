package engine

import "bourse/internal/common"

// DefaultPriceBand is how far a limit may sit from the live price and still be
// admitted.
const DefaultPriceBand = 10

type Config struct {
	Rounds    int   // number of rounds Run executes
	PriceBand int64 // max |market price - limit| for admission
}

func DefaultConfig() Config {
	return Config{Rounds: 1000, PriceBand: DefaultPriceBand}
}

// Reporter receives every executed cross.
type Reporter interface {
	ReportTrade(trade common.Trade) error
}

// SignalFeed is advanced once per round with each stock's closing price and
// read by policies through the market view.
type SignalFeed interface {
	Observe(stockID string, price int64)
	Strength(stockID string) float64
}
