// Package simulation assembles one independent run: investors, signal feed,
// engine and trade collector, all driven by a single seeded random source.
package simulation

import (
	"context"
	"fmt"
	"maps"
	"math/rand"
	"slices"

	"bourse/internal/engine"
	"bourse/internal/investor"
	"bourse/internal/report"
	"bourse/internal/scenario"
	"bourse/internal/signal"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

type Simulation struct {
	ID     string
	Seed   int64
	Engine *engine.Engine
	Trades *report.Collector
}

// New builds a run. An unknown investor kind aborts setup before any round
// runs.
func New(sc scenario.Scenario, cfg engine.Config, seed int64) (*Simulation, error) {
	rng := rand.New(rand.NewSource(seed))

	registry := investor.NewRegistry()
	for _, kind := range sc.Investors {
		if _, err := registry.Add(kind, investor.NewWallet(sc.Cash, sc.Holdings), rng); err != nil {
			return nil, fmt.Errorf("creating investors: %w", err)
		}
	}

	feed := signal.NewTracker(slices.Sorted(maps.Keys(sc.Prices))...)
	eng := engine.New(cfg, sc.Prices, registry, feed, rng)

	sim := &Simulation{
		ID:     uuid.NewString(),
		Seed:   seed,
		Engine: eng,
		Trades: report.NewCollector(),
	}
	eng.SetReporter(sim.Trades)
	eng.SetLogger(log.With().Str("run", sim.ID).Int64("seed", seed).Logger())
	return sim, nil
}

func (sim *Simulation) Run(ctx context.Context) error {
	return sim.Engine.Run(ctx)
}

func (sim *Simulation) Summary() report.Summary {
	return report.Summarize(sim.Engine, sim.Trades)
}
