package config

import (
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// dotenvOnce guards the one-time .env read. A missing .env file is not an
// error; explicit environment variables always win over file values.
var dotenvOnce sync.Once

// Runtime holds the framework's own configuration. Host applications embed
// or ignore it and define additional structs for their own settings.
type Runtime struct {
	// LogLevel selects the minimum slog level: debug, info, warn or error.
	LogLevel string `env:"GAMECORE_LOG_LEVEL" envDefault:"info"`

	// SaveDir is the directory for the save store's database.
	SaveDir string `env:"GAMECORE_SAVE_DIR" envDefault:"saves"`

	// PoolWarmUp enables eager warm-up of pre-sized pools at startup.
	PoolWarmUp bool `env:"GAMECORE_POOL_WARMUP" envDefault:"false"`
}

// Load fills v from the process environment based on `env` struct tags,
// loading the default .env file once per process beforehand.
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
	if err := env.Parse(v); err != nil {
		return fmt.Errorf("%w: %w", ErrParse, err)
	}
	return nil
}

// MustLoad works like Load but panics on failure. Intended for settings the
// process cannot start without.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("gamecore: loading configuration: %v", err))
	}
}
