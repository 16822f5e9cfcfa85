package condition

import (
	"strconv"
	"strings"
)

// PaddedVersionString normalizes a version-like value into a form safe for
// lexical comparison. Numeric parts are left-padded to a fixed width so that
// "9" sorts before "10", and release versions gain a sentinel tag so they
// sort after any pre-release of the same numeric triple.
func PaddedVersionString(input any) string {
	version := ""
	switch v := input.(type) {
	case string:
		version = v
	case float64:
		version = strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		version = strconv.FormatFloat(float64(v), 'f', -1, 32)
	case int:
		version = strconv.Itoa(v)
	case int64:
		version = strconv.FormatInt(v, 10)
	}
	if version == "" {
		version = "0"
	}

	// Drop the leading "v" prefix and any build metadata after "+".
	version = strings.TrimPrefix(version, "v")
	if i := strings.IndexByte(version, '+'); i >= 0 {
		version = version[:i]
	}

	parts := strings.FieldsFunc(version, func(r rune) bool {
		return r == '.' || r == '-'
	})
	if len(parts) == 0 {
		parts = []string{"0"}
	}
	// A bare major.minor.patch has no pre-release tag; the "~" sentinel
	// sorts it after every pre-release of the same triple.
	if len(parts) == 3 {
		parts = append(parts, "~")
	}
	for i, part := range parts {
		if isDigits(part) && len(part) < 5 {
			parts[i] = strings.Repeat(" ", 5-len(part)) + part
		}
	}
	return strings.Join(parts, "-")
}

// compareVersions orders two version-like values after normalization.
func compareVersions(a, b any) int {
	return strings.Compare(PaddedVersionString(a), PaddedVersionString(b))
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
