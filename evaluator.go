package flagkit

import (
	"encoding/json"
	"log/slog"
	"strconv"

	"github.com/dmitrymomot/flagkit/pkg/gbhash"
)

// defaultHashAttribute identifies the user when a rule names no hash
// attribute of its own.
const defaultHashAttribute = "id"

// evaluator resolves features against one immutable snapshot of the loaded
// feature set and the caller's attributes. It holds no mutable state, so
// any number of evaluators may run concurrently over the same snapshot.
type evaluator struct {
	features      FeatureMap
	attrs         map[string]any
	userAttrs     map[string]any
	stickyEnabled bool
	logger        *slog.Logger
}

// prereqOutcome classifies the result of a rule's prerequisite walk.
type prereqOutcome int

const (
	prereqPass prereqOutcome = iota
	// prereqFail skips only the rule that carries the prerequisite.
	prereqFail
	// prereqGate suppresses the entire feature.
	prereqGate
	// prereqCyclic marks a prerequisite cycle.
	prereqCyclic
)

// eval evaluates one named feature. The visited set used for cycle
// detection is created here and lives for this call alone.
func (e *evaluator) eval(name string) *FeatureResult {
	return e.evalFeature(name, make(map[string]bool))
}

// evalFeature walks the feature's rules in declared order. The visiting set
// accumulates every feature id entered during one top-level eval and is
// threaded as an explicit parameter; reaching an id a second time, by any
// path, reports cyclicPrerequisite. This matches the shared wire contract,
// which treats a repeated prerequisite the same as a back edge.
func (e *evaluator) evalFeature(name string, visiting map[string]bool) *FeatureResult {
	feature, ok := e.features[name]
	if !ok {
		return newFeatureResult(name, nil, SourceUnknownFeature)
	}
	if visiting[name] {
		return newFeatureResult(name, nil, SourceCyclicPrerequisite)
	}
	visiting[name] = true

	for i, rule := range feature.Rules {
		if rule == nil {
			continue
		}
		if len(rule.ParentConditions) > 0 {
			switch e.evalPrerequisites(rule.ParentConditions, visiting) {
			case prereqCyclic:
				return newFeatureResult(name, nil, SourceCyclicPrerequisite)
			case prereqGate:
				return newFeatureResult(name, nil, SourcePrerequisite)
			case prereqFail:
				continue
			}
		}
		if len(rule.Condition) > 0 && !rule.Condition.Matches(e.attrs) {
			continue
		}
		if rule.Force != nil && !e.passesRollout(name, rule) {
			continue
		}
		if len(rule.Variations) > 0 {
			// Experiment-based assignment is not supported; the rule is
			// ignored rather than failing the whole feature.
			e.logger.Debug("skipping unsupported experiment rule",
				"feature", name, "rule", rule.ID, "rule_index", i)
			continue
		}
		if rule.Force != nil {
			return newFeatureResult(name, *rule.Force, SourceForce)
		}
	}
	return newFeatureResult(name, feature.DefaultValue, SourceDefault)
}

// evalPrerequisites evaluates a rule's parent conditions in order,
// recursing into evalFeature with the shared visiting set. The parent's
// resolved value is matched as {"value": <result>}.
func (e *evaluator) evalPrerequisites(refs []ParentCondition, visiting map[string]bool) prereqOutcome {
	for _, ref := range refs {
		parent := e.evalFeature(ref.ID, visiting)
		if parent.Source == SourceCyclicPrerequisite {
			return prereqCyclic
		}
		if !ref.Condition.Matches(map[string]any{"value": parent.Value}) {
			if ref.Gate {
				return prereqGate
			}
			return prereqFail
		}
	}
	return prereqPass
}

// passesRollout applies the rule's percentage-rollout gate. Rules without
// coverage or range apply to everyone; rules whose hash attribute resolves
// to nothing apply to no one.
func (e *evaluator) passesRollout(featureID string, rule *FeatureRule) bool {
	if rule.Coverage == nil && rule.Range == nil {
		return true
	}
	hashValue, ok := e.hashValue(rule)
	if !ok {
		return false
	}
	seed := rule.Seed
	if seed == "" {
		seed = featureID
	}
	version := rule.HashVersion
	if version == 0 {
		version = 1
	}
	n := gbhash.Hash(seed, hashValue, version)
	if n == nil {
		return false
	}
	return rolloutIncluded(*n, rule.Coverage, rule.Range)
}

// hashValue resolves the identity the rollout hash is computed over. The
// rule's hash attribute (default "id") is looked up first in the caller
// attributes, then in the secondary user-context mapping. The fallback
// attribute is consulted only when the primary lookup comes back empty and
// sticky-bucket support is configured.
func (e *evaluator) hashValue(rule *FeatureRule) (string, bool) {
	attr := rule.HashAttribute
	if attr == "" {
		attr = defaultHashAttribute
	}
	if s := e.lookupAttribute(attr); s != "" {
		return s, true
	}
	if rule.FallbackAttribute != "" && e.stickyEnabled {
		if s := e.lookupAttribute(rule.FallbackAttribute); s != "" {
			return s, true
		}
	}
	return "", false
}

func (e *evaluator) lookupAttribute(name string) string {
	if v, ok := e.attrs[name]; ok {
		return stringifyAttribute(v)
	}
	if v, ok := e.userAttrs[name]; ok {
		return stringifyAttribute(v)
	}
	return ""
}

// stringifyAttribute converts a resolved identity value into the string fed
// to the hash. Scalars use their canonical text form; composite values fall
// back to compact JSON.
func stringifyAttribute(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	default:
		raw, err := json.Marshal(v)
		if err != nil {
			return ""
		}
		return string(raw)
	}
}
