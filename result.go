package flagkit

// Source identifies which resolution path produced a FeatureResult.
type Source string

const (
	// SourceUnknownFeature means the feature id is not in the loaded set.
	SourceUnknownFeature Source = "unknownFeature"
	// SourceCyclicPrerequisite means the prerequisite graph contains a
	// cycle reachable from the evaluated feature.
	SourceCyclicPrerequisite Source = "cyclicPrerequisite"
	// SourcePrerequisite means a hard-gated prerequisite failed and the
	// feature is suppressed entirely.
	SourcePrerequisite Source = "prerequisite"
	// SourceForce means a rule's forced value won.
	SourceForce Source = "force"
	// SourceExperiment is reserved for experiment-based assignment, which
	// this engine does not perform.
	SourceExperiment Source = "experiment"
	// SourceDefault means evaluation fell through to the feature's default
	// value.
	SourceDefault Source = "default"
)

// FeatureResult is the outcome of evaluating one feature. Structural
// problems (unknown feature, cyclic or failed prerequisites) are reported
// through Source, never as errors.
type FeatureResult struct {
	ID     string       `json:"id"`
	Value  FeatureValue `json:"value"`
	Source Source       `json:"source"`
	On     bool         `json:"on"`
	Off    bool         `json:"off"`
}

func newFeatureResult(id string, value FeatureValue, source Source) *FeatureResult {
	on := isTruthy(value)
	return &FeatureResult{
		ID:     id,
		Value:  value,
		Source: source,
		On:     on,
		Off:    !on,
	}
}

// isTruthy mirrors the truthiness contract for On/Off: nil, false, "" and
// numeric zero are off, everything else is on.
func isTruthy(value FeatureValue) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	case float64:
		return v != 0
	case float32:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	default:
		return true
	}
}
