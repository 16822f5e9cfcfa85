package logger

import "log/slog"

// Attribute constructors keeping field naming consistent across the codebase.

// Error creates an attribute for a single error under the key "error".
// If err is nil, it returns an empty Attr.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Feature records a feature id under the key "feature".
func Feature(id string) slog.Attr {
	return slog.String("feature", id)
}

// Rule records a rule id under the key "rule".
func Rule(id string) slog.Attr {
	return slog.String("rule", id)
}

// Source records a resolution source under the key "source".
func Source(source any) slog.Attr {
	return slog.Any("source", source)
}

// Component records a component name under the key "component".
func Component(name string) slog.Attr {
	return slog.String("component", name)
}
