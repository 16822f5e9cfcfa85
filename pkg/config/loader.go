package config

import (
	"errors"
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var defaultEnvLoaded sync.Once

// Load parses environment variables into the provided configuration struct
// based on its field tags. The default .env file is loaded once per process
// before the first parse; a missing .env file is not an error.
//
// Load is a pure parse: it holds no state between calls, so the caller owns
// the lifetime of its configuration and tests can parse the same type as
// often as they like.
//
// Example:
//
//	type FetcherConfig struct {
//		APIHost   string        `env:"FLAGKIT_API_HOST" envDefault:"https://cdn.flagkit.dev"`
//		ClientKey string        `env:"FLAGKIT_CLIENT_KEY,required"`
//		CacheTTL  time.Duration `env:"FLAGKIT_CACHE_TTL" envDefault:"60s"`
//	}
//
//	var cfg FetcherConfig
//	if err := config.Load(&cfg); err != nil {
//		// Handle error
//	}
func Load[T any](v *T) error {
	defaultEnvLoaded.Do(func() {
		// Ignore errors - the .env file might not exist and that's ok
		_ = godotenv.Load()
	})
	if v == nil {
		return ErrNilPointer
	}
	if err := env.Parse(v); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	return nil
}

// MustLoad works like Load but panics if configuration loading fails.
// This is useful for configurations that are required for the application to start.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("failed to load required configuration: %v", err))
	}
}
