// Package condition implements the structural condition-matching language
// used by feature-flag targeting rules.
//
// A condition is a JSON value: either a logical combinator object ($or,
// $nor, $and, $not) or a plain mapping from dotted attribute paths to
// condition values. Condition values are matched by shape (operator
// objects, sequences, structural mappings and literals each get their own
// dispatch arm), so the tree round-trips through encoding/json unchanged.
//
// # Usage
//
//	var cond condition.Condition
//	_ = json.Unmarshal([]byte(`{"age": {"$gte": 18}, "country": {"$in": ["DE", "NL"]}}`), &cond)
//
//	cond.Matches(map[string]any{"age": 25.0, "country": "DE"}) // true
//	cond.Matches(map[string]any{"age": 10.0, "country": "DE"}) // false
//
// Dotted paths resolve into nested maps:
//
//	cond.Matches(map[string]any{"company": map[string]any{"plan": "pro"}})
//	// with condition {"company.plan": "pro"}
//
// # Field operators
//
// Comparison ($eq, $ne, $lt, $lte, $gt, $gte) uses numeric ordering when
// both sides look numeric, lexical ordering otherwise. Version comparison
// ($veq, $vne, $vlt, $vlte, $vgt, $vgte) normalizes version strings with
// PaddedVersionString first. The remaining operators are $regex, $in, $nin,
// $elemMatch, $size, $all, $exists, $type and $not.
//
// # Fail-closed matching
//
// Matching never returns an error. Malformed regexes, non-comparable
// operands and unknown operators all evaluate to false, so a broken
// targeting rule denies a feature rather than granting it.
package condition
