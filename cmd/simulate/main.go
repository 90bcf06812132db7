package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"bourse/internal/config"
	"bourse/internal/investor"
	"bourse/internal/scenario"
	"bourse/internal/simulation"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

func main() {
	// 1. CLI Parameter Parsing
	scenarioPath := flag.String("scenario", "", "Path to the scenario file (compulsory)")
	envPath := flag.String("env", "", "Optional .env file with SIM_* settings")
	rounds := flag.Int("rounds", -1, "Number of rounds (overrides SIM_ROUNDS)")
	seed := flag.Int64("seed", 0, "Random seed (overrides SIM_SEED)")
	runs := flag.Int("runs", 0, "Number of seeds to sweep (overrides SIM_RUNS)")
	workers := flag.Uint("workers", 0, "Concurrent runs during a sweep (overrides SIM_WORKERS)")
	flag.Parse()

	cfg := config.LoadFromEnv(*envPath)
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "rounds":
			cfg.Simulation.Rounds = *rounds
		case "seed":
			cfg.Simulation.Seed = *seed
		case "runs":
			cfg.Sweep.Runs = *runs
		case "workers":
			cfg.Sweep.Workers = int(*workers)
		}
	})

	zerolog.SetGlobalLevel(cfg.LogLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	if *scenarioPath == "" {
		fmt.Fprintln(os.Stderr, "Error: -scenario is required")
		flag.Usage()
		os.Exit(2)
	}

	sc, err := scenario.Load(*scenarioPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *scenarioPath).Msg("unable to load scenario")
	}
	if cfg.Simulation.Rounds < 0 {
		log.Fatal().Int("rounds", cfg.Simulation.Rounds).Msg("round count must be non-negative")
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGTERM,
		syscall.SIGINT,
	)
	defer stop()

	log.Info().
		Str("scenario", *scenarioPath).
		Int("investors", len(sc.Investors)).
		Int("stocks", len(sc.Prices)).
		Int("rounds", cfg.Simulation.Rounds).
		Int64("seed", cfg.Simulation.Seed).
		Int("runs", cfg.Sweep.Runs).
		Msg("starting simulation")

	if cfg.Sweep.Runs <= 1 {
		runOnce(ctx, sc, cfg)
		return
	}
	runSweep(ctx, sc, cfg)
}

func runOnce(ctx context.Context, sc scenario.Scenario, cfg config.Config) {
	sim, err := simulation.New(sc, cfg.Engine(), cfg.Simulation.Seed)
	if err != nil {
		log.Fatal().Err(err).Msg("unable to set up simulation")
	}
	if err := sim.Run(ctx); err != nil {
		log.Fatal().Err(err).Msg("simulation aborted")
	}
	if err := sim.Summary().Print(os.Stdout); err != nil {
		log.Fatal().Err(err).Msg("unable to print report")
	}
}

func runSweep(ctx context.Context, sc scenario.Scenario, cfg config.Config) {
	results, err := simulation.Sweep(ctx, sc, cfg.Engine(), cfg.Simulation.Seed, cfg.Sweep.Runs, uint(cfg.Sweep.Workers))
	if err != nil {
		log.Fatal().Err(err).Msg("sweep aborted")
	}

	var (
		worth        decimal.Decimal
		transactions int
	)
	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SEED\tAVG NET WORTH\tAVG RANDOM\tAVG MOVING-AVG\tTRANSACTIONS")
	for _, res := range results {
		worth = worth.Add(res.Summary.AverageNetWorth)
		transactions += res.Summary.Transactions
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d\n",
			res.Seed,
			res.Summary.AverageNetWorth.StringFixed(2),
			kindAverage(res, investor.Random),
			kindAverage(res, investor.MovingAverage),
			res.Summary.Transactions,
		)
	}
	if n := len(results); n > 0 {
		fmt.Fprintf(tw, "MEAN\t%s\t\t\t%s\n",
			worth.Div(decimal.NewFromInt(int64(n))).StringFixed(2),
			decimal.NewFromInt(int64(transactions)).Div(decimal.NewFromInt(int64(n))).StringFixed(1),
		)
	}
	if err := tw.Flush(); err != nil {
		log.Fatal().Err(err).Msg("unable to print sweep")
	}
}

func kindAverage(res simulation.Result, kind investor.Kind) string {
	stats, ok := res.Summary.Stats(kind)
	if !ok {
		return "n/a"
	}
	return stats.AverageNetWorth.StringFixed(2)
}
