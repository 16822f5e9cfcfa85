// Package flagkit is a fast, pure, server-free feature-flag evaluation
// engine. Application code hands it a feature-definition set (fetched and
// cached elsewhere, e.g. by pkg/fetcher) plus the caller's attributes, and
// gets a deterministic decision back, with no network or I/O involved.
//
// # Evaluation model
//
// A feature is a default value plus an ordered list of rules. Each rule can
// carry a targeting condition (see pkg/condition), prerequisite features,
// and a percentage-rollout gate driven by a deterministic hash of an
// identity attribute (see pkg/gbhash). The first rule whose prerequisites,
// condition and rollout gate all pass forces the feature's value; otherwise
// the default applies.
//
// Prerequisites recurse into other features, with cycle detection scoped to
// each top-level evaluation. A hard-gated prerequisite failure suppresses
// the whole feature; a soft one skips only its rule. None of these
// structural problems surface as errors; they are reported through
// FeatureResult.Source.
//
// # Usage
//
//	client := flagkit.NewClient(
//		flagkit.WithAttributes(flagkit.Attributes{
//			"id":      "user-123",
//			"country": "DE",
//		}),
//	)
//	if err := client.SetJSONFeatures(payload); err != nil {
//		// previous feature set stays active
//	}
//
//	result := client.EvalFeature("checkout-redesign")
//	if result.On {
//		// show the new checkout
//	}
//
//	timeout := client.GetValue("request-timeout-ms", 500.0)
//
// # Concurrency
//
// Evaluation is synchronous and read-only. Replacing the feature set or the
// attributes is an atomic pointer swap, so concurrent evaluations always
// see a complete snapshot. No locks are taken on the evaluation path.
//
// # Determinism
//
// Rollout bucketing uses a hash that is stable across processes and across
// the SDK family, so the same user lands in the same bucket everywhere,
// every time.
package flagkit
