package flagkit_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/flagkit"
	"github.com/dmitrymomot/flagkit/pkg/stickybucket"
)

// mustFeatures decodes a JSON feature payload, failing the test on error.
func mustFeatures(t *testing.T, raw string) flagkit.FeatureMap {
	t.Helper()
	features, err := flagkit.ParseFeatures([]byte(raw))
	require.NoError(t, err)
	return features
}

func newTestClient(t *testing.T, raw string, attrs flagkit.Attributes) *flagkit.Client {
	t.Helper()
	return flagkit.NewClient(
		flagkit.WithFeatures(mustFeatures(t, raw)),
		flagkit.WithAttributes(attrs),
	)
}

func TestEvalFeatureBasics(t *testing.T) {
	t.Parallel()

	t.Run("UnknownFeature", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{}`, nil)
		result := client.EvalFeature("nope")
		assert.Equal(t, flagkit.SourceUnknownFeature, result.Source)
		assert.Nil(t, result.Value)
		assert.False(t, result.On)
		assert.True(t, result.Off)
	})

	t.Run("DefaultWithoutRules", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{"banner": {"defaultValue": "hello"}}`, nil)
		result := client.EvalFeature("banner")
		assert.Equal(t, flagkit.SourceDefault, result.Source)
		assert.Equal(t, "hello", result.Value)
		assert.True(t, result.On)
	})

	t.Run("ForceOnConditionMatch", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{
			"dark-mode": {
				"defaultValue": false,
				"rules": [{"condition": {"country": "DE"}, "force": true}]
			}
		}`, flagkit.Attributes{"country": "DE"})
		result := client.EvalFeature("dark-mode")
		assert.Equal(t, flagkit.SourceForce, result.Source)
		assert.Equal(t, true, result.Value)
	})

	t.Run("DefaultOnConditionMiss", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{
			"dark-mode": {
				"defaultValue": false,
				"rules": [{"condition": {"country": "DE"}, "force": true}]
			}
		}`, flagkit.Attributes{"country": "FR"})
		result := client.EvalFeature("dark-mode")
		assert.Equal(t, flagkit.SourceDefault, result.Source)
		assert.Equal(t, false, result.Value)
	})

	t.Run("FirstPassingRuleWins", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{
			"plan-limit": {
				"defaultValue": 5,
				"rules": [
					{"condition": {"plan": "pro"}, "force": 100},
					{"force": 10}
				]
			}
		}`, flagkit.Attributes{"plan": "pro"})
		assert.Equal(t, 100.0, client.EvalFeature("plan-limit").Value)

		client.SetAttributes(flagkit.Attributes{"plan": "free"})
		assert.Equal(t, 10.0, client.EvalFeature("plan-limit").Value)
	})

	t.Run("ForcedFalseIsStillForce", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{
			"kill-switch": {
				"defaultValue": true,
				"rules": [{"force": false}]
			}
		}`, nil)
		result := client.EvalFeature("kill-switch")
		assert.Equal(t, flagkit.SourceForce, result.Source)
		assert.Equal(t, false, result.Value)
		assert.True(t, result.Off)
	})

	t.Run("ExperimentRuleSkipped", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{
			"checkout": {
				"defaultValue": "control",
				"rules": [{"variations": ["a", "b"], "force": "ignored"}]
			}
		}`, flagkit.Attributes{"id": "user-1"})
		result := client.EvalFeature("checkout")
		assert.Equal(t, flagkit.SourceDefault, result.Source)
		assert.Equal(t, "control", result.Value)
	})

	t.Run("ExperimentRuleSkipLogIdentifiesRule", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
		client := flagkit.NewClient(
			flagkit.WithLogger(log),
			flagkit.WithFeatures(mustFeatures(t, `{
				"checkout": {
					"defaultValue": "control",
					"rules": [
						{"condition": {"country": "FR"}, "force": "eu"},
						{"variations": ["a", "b"]}
					]
				}
			}`)),
		)
		client.EvalFeature("checkout")

		// Payload rules often carry no id; the index pins down which rule
		// was skipped.
		assert.Contains(t, buf.String(), `"rule_index":1`)
		assert.Contains(t, buf.String(), `"feature":"checkout"`)
	})

	t.Run("Deterministic", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{
			"rollout": {
				"defaultValue": false,
				"rules": [{"force": true, "coverage": 0.5}]
			}
		}`, flagkit.Attributes{"id": "user-42"})
		first := client.EvalFeature("rollout")
		for range 10 {
			assert.Equal(t, first, client.EvalFeature("rollout"))
		}
	})
}

func TestEvalFeaturePrerequisites(t *testing.T) {
	t.Parallel()

	t.Run("SoftPrerequisitePassAndFail", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{
			"parent": {"defaultValue": true},
			"child": {
				"defaultValue": "base",
				"rules": [{
					"parentConditions": [{"id": "parent", "condition": {"value": true}}],
					"force": "boosted"
				}]
			}
		}`, nil)
		assert.Equal(t, "boosted", client.EvalFeature("child").Value)

		client.SetFeatures(mustFeatures(t, `{
			"parent": {"defaultValue": false},
			"child": {
				"defaultValue": "base",
				"rules": [{
					"parentConditions": [{"id": "parent", "condition": {"value": true}}],
					"force": "boosted"
				}]
			}
		}`))
		result := client.EvalFeature("child")
		assert.Equal(t, flagkit.SourceDefault, result.Source)
		assert.Equal(t, "base", result.Value)
	})

	t.Run("GatePrerequisiteSuppressesFeature", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{
			"parent": {"defaultValue": false},
			"child": {
				"defaultValue": "base",
				"rules": [{
					"parentConditions": [{"id": "parent", "condition": {"value": true}, "gate": true}],
					"force": "boosted"
				}]
			}
		}`, nil)
		result := client.EvalFeature("child")
		assert.Equal(t, flagkit.SourcePrerequisite, result.Source)
		assert.Nil(t, result.Value)
		assert.True(t, result.Off)
	})

	t.Run("CycleDetected", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{
			"a": {
				"defaultValue": true,
				"rules": [{
					"parentConditions": [{"id": "b", "condition": {"value": true}}],
					"force": false
				}]
			},
			"b": {
				"defaultValue": true,
				"rules": [{
					"parentConditions": [{"id": "a", "condition": {"value": true}}],
					"force": false
				}]
			}
		}`, nil)
		result := client.EvalFeature("a")
		assert.Equal(t, flagkit.SourceCyclicPrerequisite, result.Source)
		assert.Nil(t, result.Value)
	})

	t.Run("SelfCycleDetected", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{
			"a": {
				"defaultValue": true,
				"rules": [{
					"parentConditions": [{"id": "a", "condition": {"value": true}}],
					"force": false
				}]
			}
		}`, nil)
		assert.Equal(t, flagkit.SourceCyclicPrerequisite, client.EvalFeature("a").Source)
	})

	t.Run("RepeatedPrerequisiteReportsCycle", func(t *testing.T) {
		t.Parallel()
		// top depends on left and right, both of which depend on base. The
		// second path into base sees it already visited and reports a cycle,
		// matching how the shared wire contract resolves diamond graphs.
		client := newTestClient(t, `{
			"base": {"defaultValue": true},
			"left": {
				"defaultValue": false,
				"rules": [{
					"parentConditions": [{"id": "base", "condition": {"value": true}}],
					"force": true
				}]
			},
			"right": {
				"defaultValue": false,
				"rules": [{
					"parentConditions": [{"id": "base", "condition": {"value": true}}],
					"force": true
				}]
			},
			"top": {
				"defaultValue": "off",
				"rules": [{
					"parentConditions": [
						{"id": "left", "condition": {"value": true}},
						{"id": "right", "condition": {"value": true}}
					],
					"force": "on"
				}]
			}
		}`, nil)
		result := client.EvalFeature("top")
		assert.Equal(t, flagkit.SourceCyclicPrerequisite, result.Source)
		assert.Nil(t, result.Value)
	})

	t.Run("VisitedSetIsPerCall", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{
			"parent": {"defaultValue": true},
			"child": {
				"defaultValue": "base",
				"rules": [{
					"parentConditions": [{"id": "parent", "condition": {"value": true}}],
					"force": "boosted"
				}]
			}
		}`, nil)
		// Consecutive evaluations start with a fresh visited set.
		for range 3 {
			assert.Equal(t, "boosted", client.EvalFeature("child").Value)
			assert.Equal(t, flagkit.SourceDefault, client.EvalFeature("parent").Source)
		}
	})

	t.Run("UnknownPrerequisiteFailsRule", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{
			"child": {
				"defaultValue": "base",
				"rules": [{
					"parentConditions": [{"id": "ghost", "condition": {"value": true}}],
					"force": "boosted"
				}]
			}
		}`, nil)
		result := client.EvalFeature("child")
		assert.Equal(t, flagkit.SourceDefault, result.Source)
		assert.Equal(t, "base", result.Value)
	})
}

func TestEvalFeatureRollout(t *testing.T) {
	t.Parallel()

	t.Run("FullCoverageIncludesEveryone", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{
			"f": {"defaultValue": false, "rules": [{"force": true, "coverage": 1}]}
		}`, flagkit.Attributes{"id": "user-1"})
		assert.Equal(t, flagkit.SourceForce, client.EvalFeature("f").Source)
	})

	t.Run("ZeroCoverageExcludesEveryone", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{
			"f": {"defaultValue": false, "rules": [{"force": true, "coverage": 0}]}
		}`, flagkit.Attributes{"id": "user-1"})
		assert.Equal(t, flagkit.SourceDefault, client.EvalFeature("f").Source)
	})

	t.Run("FullRangeIncludesEveryone", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{
			"f": {"defaultValue": false, "rules": [{"force": true, "range": [0, 1]}]}
		}`, flagkit.Attributes{"id": "user-1"})
		assert.Equal(t, flagkit.SourceForce, client.EvalFeature("f").Source)
	})

	t.Run("EmptyRangeExcludesEveryone", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{
			"f": {"defaultValue": false, "rules": [{"force": true, "range": [0, 0]}]}
		}`, flagkit.Attributes{"id": "user-1"})
		assert.Equal(t, flagkit.SourceDefault, client.EvalFeature("f").Source)
	})

	t.Run("RangeWinsOverCoverage", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{
			"f": {"defaultValue": false, "rules": [{"force": true, "coverage": 1, "range": [0, 0]}]}
		}`, flagkit.Attributes{"id": "user-1"})
		assert.Equal(t, flagkit.SourceDefault, client.EvalFeature("f").Source)
	})

	t.Run("MissingHashAttributeSkipsRule", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{
			"f": {"defaultValue": false, "rules": [{"force": true, "coverage": 1}]}
		}`, flagkit.Attributes{"email": "a@example.com"})
		assert.Equal(t, flagkit.SourceDefault, client.EvalFeature("f").Source)
	})

	t.Run("CustomHashAttribute", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{
			"f": {
				"defaultValue": false,
				"rules": [{"force": true, "coverage": 1, "hashAttribute": "deviceId"}]
			}
		}`, flagkit.Attributes{"deviceId": "device-7"})
		assert.Equal(t, flagkit.SourceForce, client.EvalFeature("f").Source)
	})

	t.Run("UserAttributesConsultedAfterAttributes", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{
			"f": {"defaultValue": false, "rules": [{"force": true, "coverage": 1}]}
		}`, nil)
		client.SetUserAttributes(flagkit.Attributes{"id": "user-1"})
		assert.Equal(t, flagkit.SourceForce, client.EvalFeature("f").Source)
	})

	t.Run("FallbackAttributeRequiresStickyStore", func(t *testing.T) {
		t.Parallel()
		raw := `{
			"f": {
				"defaultValue": false,
				"rules": [{"force": true, "coverage": 1, "fallbackAttribute": "deviceId"}]
			}
		}`
		attrs := flagkit.Attributes{"deviceId": "device-7"}

		plain := newTestClient(t, raw, attrs)
		assert.Equal(t, flagkit.SourceDefault, plain.EvalFeature("f").Source)

		sticky := flagkit.NewClient(
			flagkit.WithFeatures(mustFeatures(t, raw)),
			flagkit.WithAttributes(attrs),
			flagkit.WithStickyBucketStore(stickybucket.NewMemoryStore()),
		)
		assert.Equal(t, flagkit.SourceForce, sticky.EvalFeature("f").Source)
	})

	t.Run("NumericIdentityIsHashable", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{
			"f": {"defaultValue": false, "rules": [{"force": true, "coverage": 1}]}
		}`, flagkit.Attributes{"id": 12345})
		assert.Equal(t, flagkit.SourceForce, client.EvalFeature("f").Source)
	})

	t.Run("CoverageSplitsPopulation", func(t *testing.T) {
		t.Parallel()
		client := newTestClient(t, `{
			"f": {"defaultValue": false, "rules": [{"force": true, "coverage": 0.5}]}
		}`, nil)
		included := 0
		for i := range 1000 {
			client.SetAttributes(flagkit.Attributes{"id": "user-" + string(rune('a'+i%26)) + string(rune('0'+i%10))})
			if client.EvalFeature("f").Source == flagkit.SourceForce {
				included++
			}
		}
		assert.Greater(t, included, 0)
		assert.Less(t, included, 1000)
	})
}
