package condition

import "regexp"

// evalOperatorCondition evaluates one field operator against a resolved
// attribute value. Unknown operators and malformed operands fail the match
// rather than surfacing an error, so a broken rule denies instead of
// granting. The plain bool return keeps that contract visible.
func evalOperatorCondition(op string, value any, present bool, operand any) bool {
	switch op {
	case "$eq":
		cmp, ok := compareValues(value, present, operand)
		return ok && cmp == 0
	case "$ne":
		cmp, ok := compareValues(value, present, operand)
		return ok && cmp != 0
	case "$lt":
		cmp, ok := compareValues(value, present, operand)
		return ok && cmp < 0
	case "$lte":
		cmp, ok := compareValues(value, present, operand)
		return ok && cmp <= 0
	case "$gt":
		cmp, ok := compareValues(value, present, operand)
		return ok && cmp > 0
	case "$gte":
		cmp, ok := compareValues(value, present, operand)
		return ok && cmp >= 0
	case "$veq":
		return compareVersions(value, operand) == 0
	case "$vne":
		return compareVersions(value, operand) != 0
	case "$vlt":
		return compareVersions(value, operand) < 0
	case "$vlte":
		return compareVersions(value, operand) <= 0
	case "$vgt":
		return compareVersions(value, operand) > 0
	case "$vgte":
		return compareVersions(value, operand) >= 0
	case "$regex":
		return evalRegex(value, operand)
	case "$in":
		return evalIn(value, present, operand)
	case "$nin":
		list, ok := operand.([]any)
		if !ok {
			return false
		}
		return !evalIn(value, present, list)
	case "$elemMatch":
		return evalElemMatch(value, operand)
	case "$size":
		list, ok := value.([]any)
		if !ok {
			return false
		}
		return evalConditionValue(operand, float64(len(list)), true)
	case "$all":
		return evalAll(value, operand)
	case "$exists":
		if isTruthyOperand(operand) {
			return present
		}
		return !present
	case "$type":
		want, ok := operand.(string)
		return ok && typeTag(value, present) == want
	case "$not":
		return !evalConditionValue(operand, value, present)
	default:
		return false
	}
}

// evalRegex compiles the operand as a pattern and tests the attribute value.
// Compile failures and non-string inputs never match.
func evalRegex(value, operand any) bool {
	pattern, ok := operand.(string)
	if !ok {
		return false
	}
	str, ok := toString(value)
	if !ok {
		return false
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return false
	}
	return re.MatchString(str)
}

// evalIn performs a set membership test. When the attribute value is itself
// a sequence, any overlap with the operand list is a match.
func evalIn(value any, present bool, operand any) bool {
	list, ok := operand.([]any)
	if !ok {
		return false
	}
	values, multiple := value.([]any)
	if !multiple {
		if !present {
			value = nil
		}
		values = []any{value}
	}
	for _, v := range values {
		for _, item := range list {
			if looseEquals(v, item) {
				return true
			}
		}
	}
	return false
}

// evalElemMatch is true when any element of the attribute sequence satisfies
// the operand: applied as an operator object directly against the element
// when the operand is one, otherwise as a full condition with the element as
// the attribute set.
func evalElemMatch(value, operand any) bool {
	list, ok := value.([]any)
	if !ok {
		return false
	}
	cond, ok := operand.(map[string]any)
	if !ok {
		return false
	}
	for _, elem := range list {
		if isOperatorObject(cond) {
			if evalConditionValue(cond, elem, true) {
				return true
			}
			continue
		}
		if evalCondition(elem, cond) {
			return true
		}
	}
	return false
}

// evalAll requires every condition in the operand list to be satisfied by at
// least one element of the attribute sequence.
func evalAll(value, operand any) bool {
	list, ok := value.([]any)
	if !ok {
		return false
	}
	conds, ok := operand.([]any)
	if !ok {
		return false
	}
	for _, cond := range conds {
		satisfied := false
		for _, elem := range list {
			if evalConditionValue(cond, elem, true) {
				satisfied = true
				break
			}
		}
		if !satisfied {
			return false
		}
	}
	return true
}

// isTruthyOperand interprets the $exists operand: false, null, 0 and ""
// request absence, everything else requests presence.
func isTruthyOperand(operand any) bool {
	switch v := operand.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return v != ""
	default:
		if n, ok := toNumber(operand); ok {
			return n != 0
		}
		return true
	}
}

// typeTag computes the coarse runtime type tag used by the $type operator.
func typeTag(value any, present bool) string {
	if !present {
		return "unknown"
	}
	switch value.(type) {
	case nil:
		return "null"
	case bool:
		return "boolean"
	case string:
		return "string"
	case []any:
		return "array"
	case map[string]any:
		return "object"
	default:
		if _, ok := toNumber(value); ok {
			return "number"
		}
		return "unknown"
	}
}
