// Package config loads configuration structs from environment variables.
//
// It combines github.com/caarlos0/env for tag-driven parsing with
// github.com/joho/godotenv for local .env support. The .env file is read
// once per process; everything after that is plain environment parsing
// with no shared state, so configuration ownership stays with the caller
// and the loader stays trivially testable.
//
// # Usage
//
//	type StoreConfig struct {
//		RedisURL string        `env:"STICKY_BUCKET_REDIS_URL,required"`
//		TTL      time.Duration `env:"STICKY_BUCKET_REDIS_TTL" envDefault:"0"`
//	}
//
//	var cfg StoreConfig
//	if err := config.Load(&cfg); err != nil {
//		log.Fatal(err)
//	}
//
// MustLoad panics instead of returning an error, for configuration the
// process cannot start without.
package config
