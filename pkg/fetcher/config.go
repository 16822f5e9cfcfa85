package fetcher

import "time"

// Config is the configuration for the feature-definition fetcher. Fields
// can be populated from environment variables via github.com/caarlos0/env.
type Config struct {
	APIHost        string        `env:"FLAGKIT_API_HOST" envDefault:"https://cdn.flagkit.dev"` // APIHost is the base URL serving feature payloads.
	ClientKey      string        `env:"FLAGKIT_CLIENT_KEY,required"`                           // ClientKey selects the environment-specific payload.
	DecryptionKey  string        `env:"FLAGKIT_DECRYPTION_KEY"`                                // DecryptionKey decrypts encrypted payloads; empty disables decryption.
	CacheTTL       time.Duration `env:"FLAGKIT_CACHE_TTL" envDefault:"60s"`                    // CacheTTL is how long a fetched payload is served without refetching.
	RequestTimeout time.Duration `env:"FLAGKIT_REQUEST_TIMEOUT" envDefault:"10s"`              // RequestTimeout bounds a single fetch round trip.
}
