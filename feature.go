package flagkit

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrymomot/flagkit/pkg/condition"
)

// FeatureValue is any JSON value a feature can resolve to.
type FeatureValue = any

// Attributes is the caller-supplied attribute set conditions are evaluated
// against: an arbitrary JSON-like nested mapping with no enforced schema.
type Attributes map[string]any

// FeatureMap holds the loaded feature definitions keyed by feature id.
// Feature ids are unique within a set; the map is treated as immutable once
// loaded and is replaced wholesale on reload.
type FeatureMap map[string]*Feature

// Feature is a named flag with a default value and an ordered list of
// rules. Rule order is evaluation priority: the first fully-passing rule
// wins.
type Feature struct {
	DefaultValue FeatureValue   `json:"defaultValue"`
	Rules        []*FeatureRule `json:"rules,omitempty"`
}

// FeatureRule is a conditional override of a feature's value, gated by a
// condition, prerequisite features and/or a percentage rollout.
//
// Force is a pointer so that an explicit false, 0 or "" force value is
// distinguishable from a rule that forces nothing. Rules carrying
// Variations describe experiment-based assignment, which this engine does
// not support; such rules are skipped during evaluation.
type FeatureRule struct {
	ID                string              `json:"id,omitempty"`
	Condition         condition.Condition `json:"condition,omitempty"`
	ParentConditions  []ParentCondition   `json:"parentConditions,omitempty"`
	Force             *FeatureValue       `json:"force,omitempty"`
	Coverage          *float64            `json:"coverage,omitempty"`
	Range             *BucketRange        `json:"range,omitempty"`
	Seed              string              `json:"seed,omitempty"`
	HashAttribute     string              `json:"hashAttribute,omitempty"`
	FallbackAttribute string              `json:"fallbackAttribute,omitempty"`
	HashVersion       int                 `json:"hashVersion,omitempty"`
	Variations        []FeatureValue      `json:"variations,omitempty"`
}

// ParentCondition declares a prerequisite: the named feature's evaluated
// value must satisfy Condition (matched against {"value": <result>}). A
// gate prerequisite suppresses the whole feature on failure; a non-gate one
// only skips the rule that carries it.
type ParentCondition struct {
	ID        string              `json:"id"`
	Condition condition.Condition `json:"condition"`
	Gate      bool                `json:"gate,omitempty"`
}

// BucketRange is a half-open hash interval [Min, Max). On the wire it is a
// two-element array: "range": [0, 0.5].
type BucketRange struct {
	Min float64
	Max float64
}

// UnmarshalJSON decodes the wire form [low, high].
func (r *BucketRange) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("bucket range must have exactly 2 elements, got %d", len(pair))
	}
	r.Min, r.Max = pair[0], pair[1]
	return nil
}

// MarshalJSON encodes the wire form [low, high].
func (r BucketRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]float64{r.Min, r.Max})
}

// InRange reports whether a hash value falls inside the interval.
func (r BucketRange) InRange(n float64) bool {
	return n >= r.Min && n < r.Max
}

// ParseFeatures decodes a raw JSON object of feature definitions keyed by
// feature id.
func ParseFeatures(raw []byte) (FeatureMap, error) {
	var features FeatureMap
	if err := json.Unmarshal(raw, &features); err != nil {
		return nil, errors.Join(ErrInvalidFeaturesPayload, err)
	}
	return features, nil
}
