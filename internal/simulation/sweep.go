package simulation

import (
	"context"
	"errors"
	"slices"
	"sync"

	"bourse/internal/engine"
	"bourse/internal/report"
	"bourse/internal/scenario"
	"bourse/internal/worker"

	"github.com/rs/zerolog/log"
	tomb "gopkg.in/tomb.v2"
)

var ErrImproperTask = errors.New("improper task type")

// Result is the outcome of one run of a sweep.
type Result struct {
	Seed    int64
	Summary report.Summary
}

// Sweep runs the scenario once per seed in [firstSeed, firstSeed+runs) on a
// pool of workers. Every run owns its engine and random source, so results
// are the same as running the seeds one after another. Results come back in
// seed order. The first failing run cancels the rest.
func Sweep(ctx context.Context, sc scenario.Scenario, cfg engine.Config, firstSeed int64, runs int, workers uint) ([]Result, error) {
	var (
		mu      sync.Mutex
		results = make([]Result, 0, runs)
	)

	t, ctx := tomb.WithContext(ctx)
	pool := worker.NewPool(workers)
	pool.Setup(t, func(t *tomb.Tomb, task any) error {
		seed, ok := task.(int64)
		if !ok {
			return ErrImproperTask
		}
		sim, err := New(sc, cfg, seed)
		if err != nil {
			return err
		}
		if err := sim.Run(ctx); err != nil {
			return err
		}

		mu.Lock()
		defer mu.Unlock()
		results = append(results, Result{Seed: seed, Summary: sim.Summary()})
		log.Debug().Int64("seed", seed).Str("run", sim.ID).Msg("run complete")
		return nil
	})

	for i := 0; i < runs; i++ {
		if !pool.AddTask(firstSeed + int64(i)) {
			break
		}
	}
	pool.Close()

	if err := t.Wait(); err != nil {
		return nil, err
	}
	slices.SortFunc(results, func(a, b Result) int {
		switch {
		case a.Seed < b.Seed:
			return -1
		case a.Seed > b.Seed:
			return 1
		}
		return 0
	})
	return results, nil
}
