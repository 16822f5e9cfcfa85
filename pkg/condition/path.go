package condition

import "strings"

// Resolve looks up a dotted attribute path in a nested attribute value.
// Every segment requires the current value to be a map containing the key;
// otherwise the lookup yields absent (present == false).
//
// Absent is distinct from an explicit null value: Resolve on a key that is
// set to nil returns (nil, true).
func Resolve(attributes any, path string) (value any, present bool) {
	current := attributes
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
