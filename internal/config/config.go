package config

import (
	"os"
	"strconv"

	"bourse/internal/engine"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Simulation struct {
	Seed      int64
	Rounds    int
	PriceBand int64
}

type Sweep struct {
	Runs    int // number of seeds, starting at Simulation.Seed
	Workers int
}

type Config struct {
	Simulation Simulation
	Sweep      Sweep
	LogLevel   zerolog.Level
}

func Default() Config {
	return Config{
		Simulation: Simulation{
			Seed:      1,
			Rounds:    1000,
			PriceBand: engine.DefaultPriceBand,
		},
		Sweep: Sweep{
			Runs:    1,
			Workers: 4,
		},
		LogLevel: zerolog.InfoLevel,
	}
}

// LoadFromEnv loads configuration from a .env file (if it exists) and the
// environment. Priority: ENV > .env file > defaults. Malformed values keep the
// default.
func LoadFromEnv(envPath string) Config {
	cfg := Default()

	if envPath != "" {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	if v, ok := lookupInt("SIM_SEED"); ok {
		cfg.Simulation.Seed = v
	}
	if v, ok := lookupInt("SIM_ROUNDS"); ok && v >= 0 {
		cfg.Simulation.Rounds = int(v)
	}
	if v, ok := lookupInt("SIM_PRICE_BAND"); ok && v > 0 {
		cfg.Simulation.PriceBand = v
	}
	if v, ok := lookupInt("SIM_RUNS"); ok && v > 0 {
		cfg.Sweep.Runs = int(v)
	}
	if v, ok := lookupInt("SIM_WORKERS"); ok && v > 0 {
		cfg.Sweep.Workers = int(v)
	}
	if lvl := os.Getenv("SIM_LOG_LEVEL"); lvl != "" {
		if parsed, err := zerolog.ParseLevel(lvl); err == nil {
			cfg.LogLevel = parsed
		}
	}
	return cfg
}

// Engine returns the engine settings.
func (c Config) Engine() engine.Config {
	return engine.Config{
		Rounds:    c.Simulation.Rounds,
		PriceBand: c.Simulation.PriceBand,
	}
}

func lookupInt(key string) (int64, bool) {
	raw := os.Getenv(key)
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
