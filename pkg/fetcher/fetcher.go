package fetcher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrymomot/flagkit/pkg/cache"
)

// Payload is a decoded feature-definition response.
type Payload struct {
	Features          map[string]json.RawMessage `json:"features"`
	EncryptedFeatures string                     `json:"encryptedFeatures,omitempty"`
	DateUpdated       time.Time                  `json:"dateUpdated,omitzero"`
}

// FeaturesJSON re-encodes the payload's feature map as a raw JSON object,
// ready to hand to the evaluation client.
func (p *Payload) FeaturesJSON() ([]byte, error) {
	return json.Marshal(p.Features)
}

// Fetcher retrieves feature-definition payloads over HTTP and caches them
// with a TTL. When a refresh fails, the last successfully fetched payload
// keeps being served so the evaluation engine never loses its feature set.
type Fetcher struct {
	cfg        Config
	httpClient *http.Client
	cache      *cache.TTLCache[string, *Payload]
	logger     *slog.Logger
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithHTTPClient replaces the default HTTP client, e.g. to add tracing or
// a proxy.
func WithHTTPClient(client *http.Client) Option {
	return func(f *Fetcher) {
		if client != nil {
			f.httpClient = client
		}
	}
}

// WithLogger sets the logger for fetch diagnostics. The default discards
// everything.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Fetcher) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// New creates a feature fetcher for the given configuration.
func New(cfg Config, opts ...Option) *Fetcher {
	f := &Fetcher{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		cache:      cache.NewTTLCache[string, *Payload](4, cfg.CacheTTL),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch returns the current feature payload, served from cache while fresh.
// On a failed refresh the previous payload is returned instead, so callers
// keep evaluating against the last known good feature set; the error is
// only surfaced when there is nothing to fall back on.
func (f *Fetcher) Fetch(ctx context.Context) (*Payload, error) {
	if payload, ok := f.cache.Get(f.cfg.ClientKey); ok {
		return payload, nil
	}

	payload, err := f.fetchRemote(ctx)
	if err != nil {
		if stale, ok, _ := f.cache.GetStale(f.cfg.ClientKey); ok {
			f.logger.Warn("serving stale feature payload after failed refresh", "error", err)
			return stale, nil
		}
		return nil, err
	}

	f.cache.Put(f.cfg.ClientKey, payload)
	return payload, nil
}

// Invalidate drops the cached payload so the next Fetch refetches.
func (f *Fetcher) Invalidate() {
	f.cache.Remove(f.cfg.ClientKey)
}

func (f *Fetcher) fetchRemote(ctx context.Context) (*Payload, error) {
	url := fmt.Sprintf("%s/api/features/%s", strings.TrimSuffix(f.cfg.APIHost, "/"), f.cfg.ClientKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, errors.Join(ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.Join(ErrFetchFailed, fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	var payload Payload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.Join(ErrInvalidPayload, err)
	}

	if payload.EncryptedFeatures != "" && f.cfg.DecryptionKey != "" {
		raw, err := DecryptFeatures(payload.EncryptedFeatures, f.cfg.DecryptionKey)
		if err != nil {
			return nil, err
		}
		if err := json.Unmarshal(raw, &payload.Features); err != nil {
			return nil, errors.Join(ErrInvalidPayload, err)
		}
		payload.EncryptedFeatures = ""
	}

	f.logger.Debug("fetched feature payload",
		"features", len(payload.Features), "updated", payload.DateUpdated)
	return &payload, nil
}
