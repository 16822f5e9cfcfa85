package condition

// Condition is a decoded JSON condition tree. It is either a logical
// combinator object keyed by $or, $nor, $and or $not, or a plain mapping
// from dotted attribute paths to condition values.
//
// A Condition is kept as raw decoded JSON so that it round-trips through
// encoding/json unchanged. All matching is fail-closed: malformed
// combinators, operators and operands never match.
type Condition map[string]any

// Matches evaluates the condition against an attribute value, typically a
// map[string]any of caller attributes. It never returns an error; any
// unmatchable or malformed input yields false.
func (c Condition) Matches(attributes any) bool {
	return evalCondition(attributes, c)
}

// evalCondition dispatches on the combinator keys in precedence order and
// falls back to field-map matching. When a combinator key is present the
// remaining keys of the object are ignored.
func evalCondition(attrs any, cond map[string]any) bool {
	if or, ok := cond["$or"]; ok {
		children, ok := childConditions(or)
		return ok && evalOr(attrs, children)
	}
	if nor, ok := cond["$nor"]; ok {
		children, ok := childConditions(nor)
		return ok && !evalOr(attrs, children)
	}
	if and, ok := cond["$and"]; ok {
		children, ok := childConditions(and)
		return ok && evalAnd(attrs, children)
	}
	if not, ok := cond["$not"]; ok {
		sub, ok := not.(map[string]any)
		if !ok {
			return false
		}
		return !evalCondition(attrs, sub)
	}

	// Field map: every path/condition-value pair must hold (implicit AND).
	for path, condValue := range cond {
		value, present := Resolve(attrs, path)
		if !evalConditionValue(condValue, value, present) {
			return false
		}
	}
	return true
}

// childConditions decodes a combinator operand. The wire grammar defines
// combinator operands as sequences of conditions; any other shape is
// malformed and the combinator fails closed.
func childConditions(v any) ([]map[string]any, bool) {
	list, ok := v.([]any)
	if !ok {
		return nil, false
	}
	children := make([]map[string]any, len(list))
	for i, item := range list {
		child, _ := item.(map[string]any)
		children[i] = child
	}
	return children, true
}

// evalOr is true for an empty list, otherwise true iff at least one child
// matches. Short-circuits on the first match.
func evalOr(attrs any, children []map[string]any) bool {
	if len(children) == 0 {
		return true
	}
	for _, child := range children {
		if child != nil && evalCondition(attrs, child) {
			return true
		}
	}
	return false
}

// evalAnd is true iff every child matches. Short-circuits on the first
// failure.
func evalAnd(attrs any, children []map[string]any) bool {
	for _, child := range children {
		if child == nil || !evalCondition(attrs, child) {
			return false
		}
	}
	return true
}

// evalConditionValue matches a single condition value against a resolved
// attribute value. The present flag distinguishes an attribute that is
// missing from one that is explicitly null.
//
// Dispatch follows the shape of the condition value: operator object,
// sequence, structural mapping, or literal.
func evalConditionValue(condValue, attrValue any, present bool) bool {
	switch cv := condValue.(type) {
	case map[string]any:
		if isOperatorObject(cv) {
			// Implicit AND across all operators in the same object.
			for op, operand := range cv {
				if !evalOperatorCondition(op, attrValue, present, operand) {
					return false
				}
			}
			return true
		}
		// Structural match with exact arity: extra keys on either side fail.
		av, ok := attrValue.(map[string]any)
		if !ok || len(av) != len(cv) {
			return false
		}
		for key, sub := range cv {
			v, ok := av[key]
			if !ok || !evalConditionValue(sub, v, true) {
				return false
			}
		}
		return true
	case []any:
		av, ok := attrValue.([]any)
		if !ok || len(av) != len(cv) {
			return false
		}
		for i, sub := range cv {
			if !evalConditionValue(sub, av[i], true) {
				return false
			}
		}
		return true
	default:
		if !present {
			// A missing attribute only matches an explicit null literal.
			return condValue == nil
		}
		return looseEquals(condValue, attrValue)
	}
}

// isOperatorObject reports whether m is a non-empty mapping in which every
// key names a field operator (starts with '$').
func isOperatorObject(m map[string]any) bool {
	if len(m) == 0 {
		return false
	}
	for key := range m {
		if len(key) == 0 || key[0] != '$' {
			return false
		}
	}
	return true
}
