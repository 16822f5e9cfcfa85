package flagkit

import (
	"encoding/json"
	"log/slog"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dmitrymomot/flagkit/pkg/stickybucket"
)

// Client is the host-facing entry point of the evaluation engine. It owns
// the currently loaded immutable feature set and the caller attributes, and
// exposes the public evaluation operations.
//
// A Client is safe for concurrent use: evaluation never mutates shared
// state, and replacing the feature set or the attributes is an atomic
// pointer swap, so an evaluation in progress sees either the old set in
// full or the new set in full.
type Client struct {
	instanceID string
	logger     *slog.Logger
	sticky     stickybucket.Store

	features  atomic.Pointer[FeatureMap]
	attrs     atomic.Pointer[Attributes]
	userAttrs atomic.Pointer[Attributes]
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for evaluation diagnostics, such as
// skipped invalid rules. The default discards everything.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStickyBucketStore configures sticky-bucket support. Its presence is
// what enables fallback-attribute resolution during rollout hashing.
func WithStickyBucketStore(store stickybucket.Store) Option {
	return func(c *Client) {
		c.sticky = store
	}
}

// WithAttributes sets the initial caller attributes.
func WithAttributes(attrs Attributes) Option {
	return func(c *Client) {
		normalized := normalizeAttributes(attrs)
		c.attrs.Store(&normalized)
	}
}

// WithFeatures sets the initial feature set.
func WithFeatures(features FeatureMap) Option {
	return func(c *Client) {
		c.features.Store(&features)
	}
}

// NewClient creates a new evaluation client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		instanceID: uuid.NewString(),
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("flagkit_instance", c.instanceID)
	return c
}

// SetFeatures atomically replaces the active feature set. Concurrent
// evaluations keep the snapshot they started with.
func (c *Client) SetFeatures(features FeatureMap) {
	c.features.Store(&features)
	c.logger.Debug("feature set replaced", "features", len(features))
}

// SetJSONFeatures decodes a raw JSON feature payload and swaps it in. On a
// decode error the previously loaded set stays active.
func (c *Client) SetJSONFeatures(raw []byte) error {
	features, err := ParseFeatures(raw)
	if err != nil {
		c.logger.Error("rejecting invalid feature payload", "error", err)
		return err
	}
	c.SetFeatures(features)
	return nil
}

// SetAttributes atomically replaces the caller attributes. Attributes are
// normalized through a JSON round-trip so that condition matching always
// sees canonical JSON shapes regardless of how the host built the map.
func (c *Client) SetAttributes(attrs Attributes) {
	normalized := normalizeAttributes(attrs)
	c.attrs.Store(&normalized)
}

// SetUserAttributes replaces the secondary user-context mapping consulted
// after the primary attributes during identity lookup.
func (c *Client) SetUserAttributes(attrs Attributes) {
	normalized := normalizeAttributes(attrs)
	c.userAttrs.Store(&normalized)
}

// EvalFeature evaluates one named feature against the current feature set
// and attributes. It is a pure function of that snapshot: evaluating the
// same feature twice with unchanged inputs yields identical results.
func (c *Client) EvalFeature(name string) *FeatureResult {
	return c.snapshot().eval(name)
}

// IsOn reports whether the feature's resolved value is truthy. An unknown
// feature yields (false, ErrFeatureNotFound).
func (c *Client) IsOn(name string) (bool, error) {
	result := c.EvalFeature(name)
	if result.Source == SourceUnknownFeature {
		return false, ErrFeatureNotFound
	}
	return result.On, nil
}

// IsOff is the complement of IsOn, with the same unknown-feature contract.
func (c *Client) IsOff(name string) (bool, error) {
	on, err := c.IsOn(name)
	if err != nil {
		return false, err
	}
	return !on, nil
}

// GetValue returns the feature's resolved value, or fallback when the
// feature is unknown or resolves to nothing.
func (c *Client) GetValue(name string, fallback FeatureValue) FeatureValue {
	result := c.EvalFeature(name)
	if result.Source == SourceUnknownFeature || result.Value == nil {
		return fallback
	}
	return result.Value
}

// snapshot captures the current feature set and attributes into a
// self-contained evaluator. The per-call cycle-detection state lives inside
// the evaluation itself, never on the Client.
func (c *Client) snapshot() *evaluator {
	e := &evaluator{
		features:      FeatureMap{},
		attrs:         map[string]any{},
		userAttrs:     map[string]any{},
		stickyEnabled: c.sticky != nil,
		logger:        c.logger,
	}
	if features := c.features.Load(); features != nil {
		e.features = *features
	}
	if attrs := c.attrs.Load(); attrs != nil {
		e.attrs = *attrs
	}
	if attrs := c.userAttrs.Load(); attrs != nil {
		e.userAttrs = *attrs
	}
	return e
}

// StickyBucketStore exposes the configured sticky-bucket store, if any, so
// hosts can persist and inspect assignments through the same handle.
func (c *Client) StickyBucketStore() stickybucket.Store {
	return c.sticky
}

// normalizeAttributes canonicalizes an attribute map through a JSON
// round-trip: nested structs, typed slices and integer numbers all come
// back as the map/slice/float64 shapes the condition language operates on.
func normalizeAttributes(attrs Attributes) Attributes {
	if attrs == nil {
		return Attributes{}
	}
	raw, err := json.Marshal(attrs)
	if err != nil {
		return attrs
	}
	var normalized Attributes
	if err := json.Unmarshal(raw, &normalized); err != nil {
		return attrs
	}
	return normalized
}
