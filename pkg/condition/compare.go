package condition

import (
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
)

// toNumber coerces scalars that look numeric into a float64. Numeric-looking
// strings are included so that "25" compares equal to 25, matching the wire
// format where attribute sources disagree on number encoding.
func toNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		return f, err == nil
	default:
		return 0, false
	}
}

// toString coerces a scalar into a string for lexical comparison.
func toString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case float32:
		return strconv.FormatFloat(float64(s), 'f', -1, 32), true
	case int:
		return strconv.Itoa(s), true
	case int64:
		return strconv.FormatInt(s, 10), true
	case json.Number:
		return s.String(), true
	case bool:
		return strconv.FormatBool(s), true
	default:
		return "", false
	}
}

// compareValues orders an attribute value against an operator operand.
// Numeric comparison applies when both sides look numeric; a missing
// attribute defaults to 0 when the operand is numeric. Otherwise both sides
// must coerce to strings for lexical comparison. The ok result is false for
// non-comparable operands, which every caller treats as a failed match.
func compareValues(value any, present bool, operand any) (cmp int, ok bool) {
	vn, vok := toNumber(value)
	on, ook := toNumber(operand)
	if ook && (!present || value == nil) {
		vn, vok = 0, true
	}
	if vok && ook {
		switch {
		case vn < on:
			return -1, true
		case vn > on:
			return 1, true
		default:
			return 0, true
		}
	}

	vs, vsok := toString(value)
	os, osok := toString(operand)
	if vsok && osok {
		return strings.Compare(vs, os), true
	}
	return 0, false
}

// looseEquals compares two scalars by value: numerics (including numeric
// strings) compare numerically, everything else compares by deep equality.
func looseEquals(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if an, aok := toNumber(a); aok {
		if bn, bok := toNumber(b); bok {
			return an == bn
		}
	}
	if as, aok := a.(string); aok {
		if bs, bok := b.(string); bok {
			return as == bs
		}
	}
	if ab, aok := a.(bool); aok {
		if bb, bok := b.(bool); bok {
			return ab == bb
		}
	}
	return reflect.DeepEqual(a, b)
}
