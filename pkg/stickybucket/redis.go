package stickybucket

import (
	"context"
	"encoding/json"
	"errors"
	"maps"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig is the configuration for the Redis-backed store. Fields can
// be populated from environment variables via github.com/caarlos0/env.
type RedisConfig struct {
	ConnectionURL  string        `env:"STICKY_BUCKET_REDIS_URL,required" envDefault:"redis://localhost:6379/0"` // ConnectionURL should be in the format "redis://:password@localhost:6379/0"
	KeyPrefix      string        `env:"STICKY_BUCKET_REDIS_KEY_PREFIX" envDefault:"stickybucket:"`              // KeyPrefix namespaces assignment keys within a shared Redis.
	TTL            time.Duration `env:"STICKY_BUCKET_REDIS_TTL" envDefault:"0"`                                 // TTL expires assignments; 0 keeps them forever.
	RetryAttempts  int           `env:"STICKY_BUCKET_REDIS_RETRY_ATTEMPTS" envDefault:"3"`                      // RetryAttempts is the number of connection attempts.
	RetryInterval  time.Duration `env:"STICKY_BUCKET_REDIS_RETRY_INTERVAL" envDefault:"5s"`                     // RetryInterval is the wait between attempts.
	ConnectTimeout time.Duration `env:"STICKY_BUCKET_REDIS_CONNECT_TIMEOUT" envDefault:"30s"`                   // ConnectTimeout bounds the whole connection phase.
}

// RedisStore persists sticky-bucket assignments in Redis as JSON values, so
// identities keep their buckets across processes and deployments.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
	ttl       time.Duration
}

// NewRedisStore connects to Redis using the provided configuration and
// returns a ready store. Connection attempts are retried per the config.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	opt, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	for range cfg.RetryAttempts {
		client := redis.NewClient(opt)
		if err := client.Ping(ctx).Err(); err == nil {
			return &RedisStore{client: client, keyPrefix: cfg.KeyPrefix, ttl: cfg.TTL}, nil
		}
		_ = client.Close()

		select {
		case <-ctx.Done():
			return nil, errors.Join(ErrStoreUnavailable, ctx.Err())
		case <-time.After(cfg.RetryInterval):
		}
	}
	return nil, ErrStoreUnavailable
}

// NewRedisStoreWithClient wraps an already-connected client, e.g. one
// shared with the rest of the application.
func NewRedisStoreWithClient(client *redis.Client, keyPrefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, keyPrefix: keyPrefix, ttl: ttl}
}

// Get loads the assignment document for an identity.
func (s *RedisStore) Get(ctx context.Context, attributeName, attributeValue string) (*AssignmentDoc, error) {
	raw, err := s.client.Get(ctx, s.keyPrefix+Key(attributeName, attributeValue)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}

	var doc AssignmentDoc
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Save upserts an assignment document, merging its assignments with any
// already stored for the same identity.
func (s *RedisStore) Save(ctx context.Context, doc *AssignmentDoc) error {
	if doc == nil || doc.AttributeName == "" {
		return ErrInvalidDoc
	}

	stored := *doc
	if existing, err := s.Get(ctx, doc.AttributeName, doc.AttributeValue); err == nil && existing != nil {
		merged := make(map[string]string, len(existing.Assignments)+len(doc.Assignments))
		maps.Copy(merged, existing.Assignments)
		maps.Copy(merged, doc.Assignments)
		stored.Assignments = merged
	}

	raw, err := json.Marshal(stored)
	if err != nil {
		return err
	}
	if err := s.client.Set(ctx, s.keyPrefix+doc.Key(), raw, s.ttl).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// Close closes the underlying Redis client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
