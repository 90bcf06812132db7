package engine

import (
	"context"
	"fmt"
	"maps"
	"math/rand"
	"slices"

	"bourse/internal/common"
	"bourse/internal/investor"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// This is the main matching engine. It owns every book, the live prices and
// the per-run counters, and drives rounds one at a time.

type Engine struct {
	cfg Config

	Books         map[string]*OrderBook
	stockIDs      []string // sorted, fixes iteration order
	prices        map[string]int64
	initialPrices map[string]int64
	startWorth    map[int]int64 // net worth of each investor at opening prices

	investors *investor.Registry
	feed      SignalFeed
	reporter  Reporter
	rand      *rand.Rand
	log       zerolog.Logger

	// Counters scoped to this run.
	round        int
	priority     int
	transactions int
}

// New builds an engine over the given stocks and their opening prices. The
// rng drives the per-round investor permutation and order ids, so runs are
// reproducible for a fixed seed.
func New(cfg Config, prices map[string]int64, investors *investor.Registry, feed SignalFeed, rng *rand.Rand) *Engine {
	if cfg.PriceBand <= 0 {
		cfg.PriceBand = DefaultPriceBand
	}
	engine := &Engine{
		cfg:           cfg,
		Books:         make(map[string]*OrderBook, len(prices)),
		stockIDs:      slices.Sorted(maps.Keys(prices)),
		prices:        maps.Clone(prices),
		initialPrices: maps.Clone(prices),
		investors:     investors,
		feed:          feed,
		rand:          rng,
		log:           log.Logger,
	}
	for _, id := range engine.stockIDs {
		engine.Books[id] = NewOrderBook(id)
	}
	engine.startWorth = make(map[int]int64, investors.Len())
	for _, inv := range investors.All() {
		engine.startWorth[inv.ID()] = inv.Wallet().NetWorth(engine.InitialPrice)
	}
	return engine
}

func (engine *Engine) SetReporter(reporter Reporter) {
	engine.reporter = reporter
}

func (engine *Engine) SetLogger(logger zerolog.Logger) {
	engine.log = logger
}

// Run executes the remaining rounds. It stops early if ctx is cancelled
// between rounds; a round in progress always completes.
func (engine *Engine) Run(ctx context.Context) error {
	for engine.round < engine.cfg.Rounds {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		if err := engine.Step(); err != nil {
			return err
		}
	}
	engine.log.Info().
		Int("rounds", engine.round).
		Int("transactions", engine.transactions).
		Msg("simulation finished")
	return nil
}

// Step runs a single round: expire, admit, sort, cross, advance the signal
// feed. The round counter moves forward only once all of it is done.
func (engine *Engine) Step() error {
	expired := engine.expireStale()
	admitted := engine.admitOrders()

	// Both sides of every book are btree ordered by price-time priority, so
	// the books are sorted as soon as admission is done.
	before := engine.transactions
	for _, id := range engine.stockIDs {
		if err := engine.cross(engine.Books[id]); err != nil {
			return fmt.Errorf("round %d: crossing %s: %w", engine.round, id, err)
		}
	}
	engine.advanceFeed()

	engine.log.Debug().
		Int("round", engine.round).
		Int("expired", expired).
		Int("admitted", admitted).
		Int("crosses", engine.transactions-before).
		Msg("round complete")
	engine.round++
	return nil
}

func (engine *Engine) expireStale() int {
	removed := 0
	for _, id := range engine.stockIDs {
		removed += engine.Books[id].RemoveStale(engine.round)
	}
	return removed
}

func (engine *Engine) advanceFeed() {
	if engine.feed == nil {
		return
	}
	for _, id := range engine.stockIDs {
		engine.feed.Observe(id, engine.prices[id])
	}
}

// ---- Market view ----

func (engine *Engine) Round() int {
	return engine.round
}

func (engine *Engine) StockIDs() []string {
	return slices.Clone(engine.stockIDs)
}

func (engine *Engine) Price(stockID string) int64 {
	return engine.prices[stockID]
}

func (engine *Engine) Signal(stockID string) float64 {
	if engine.feed == nil {
		return 0
	}
	return engine.feed.Strength(stockID)
}

// ---- Reporting ----

func (engine *Engine) InitialPrice(stockID string) int64 {
	return engine.initialPrices[stockID]
}

func (engine *Engine) Prices() map[string]int64 {
	return maps.Clone(engine.prices)
}

func (engine *Engine) InitialPrices() map[string]int64 {
	return maps.Clone(engine.initialPrices)
}

func (engine *Engine) Transactions() int {
	return engine.transactions
}

func (engine *Engine) Investors() *investor.Registry {
	return engine.investors
}

// NetWorth values an investor's wallet at current prices.
func (engine *Engine) NetWorth(investorID int) (int64, bool) {
	inv, ok := engine.investors.Get(investorID)
	if !ok {
		return 0, false
	}
	return inv.Wallet().NetWorth(engine.Price), true
}

// StartNetWorth is the investor's net worth at opening prices, before any
// round ran.
func (engine *Engine) StartNetWorth(investorID int) int64 {
	return engine.startWorth[investorID]
}

// Book returns the live book of a stock.
func (engine *Engine) Book(stockID string) (*OrderBook, bool) {
	book, ok := engine.Books[stockID]
	return book, ok
}

var _ investor.MarketView = (*Engine)(nil)

func (engine *Engine) report(trade common.Trade) {
	if engine.reporter == nil {
		return
	}
	if err := engine.reporter.ReportTrade(trade); err != nil {
		engine.log.Error().Err(err).Str("stock", trade.Stock).Msg("unable to report trade")
	}
}
