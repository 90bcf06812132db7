package config

import (
	"os"
	"testing"

	"bourse/internal/engine"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"SIM_SEED", "SIM_ROUNDS", "SIM_PRICE_BAND", "SIM_RUNS", "SIM_WORKERS", "SIM_LOG_LEVEL"} {
		// Setenv registers the restore, the variable itself must be absent
		// for a .env file to fill it.
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadFromEnv_Defaults(t *testing.T) {
	clearEnv(t)
	cfg := LoadFromEnv("testdata/missing.env")
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, engine.Config{Rounds: 1000, PriceBand: engine.DefaultPriceBand}, cfg.Engine())
}

func TestLoadFromEnv_Environment(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIM_SEED", "-3")
	t.Setenv("SIM_ROUNDS", "20")
	t.Setenv("SIM_PRICE_BAND", "4")
	t.Setenv("SIM_RUNS", "12")
	t.Setenv("SIM_LOG_LEVEL", "warn")

	cfg := LoadFromEnv("testdata/missing.env")
	assert.Equal(t, int64(-3), cfg.Simulation.Seed)
	assert.Equal(t, 20, cfg.Simulation.Rounds)
	assert.Equal(t, int64(4), cfg.Simulation.PriceBand)
	assert.Equal(t, 12, cfg.Sweep.Runs)
	assert.Equal(t, zerolog.WarnLevel, cfg.LogLevel)
}

func TestLoadFromEnv_MalformedKeepsDefault(t *testing.T) {
	clearEnv(t)
	t.Setenv("SIM_ROUNDS", "many")
	t.Setenv("SIM_PRICE_BAND", "0")
	t.Setenv("SIM_WORKERS", "-2")
	t.Setenv("SIM_LOG_LEVEL", "loud")

	cfg := LoadFromEnv("testdata/missing.env")
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromEnv_DotEnvFile(t *testing.T) {
	clearEnv(t)
	// Set variables win over the file.
	t.Setenv("SIM_ROUNDS", "30")

	cfg := LoadFromEnv("testdata/sim.env")
	assert.Equal(t, int64(99), cfg.Simulation.Seed)
	assert.Equal(t, 30, cfg.Simulation.Rounds)
	assert.Equal(t, 8, cfg.Sweep.Workers)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
}
