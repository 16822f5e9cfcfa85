// Package logger provides a thin factory around Go's slog package with
// functional options and helper attribute constructors.
//
// The single factory, New, creates a *slog.Logger configured by Option
// functions: output format (text or json), minimum level, destination and
// static attributes. NewFromConfig builds the same logger from an
// env-loadable Config, so services pick their log level with LOG_LEVEL and
// LOG_FORMAT.
//
//	log := logger.New(
//		logger.WithLevel(slog.LevelDebug),
//		logger.WithFormat(logger.FormatText),
//	)
//	logger.SetAsDefault(log)
//
//	log.Debug("rule skipped", logger.Feature("checkout-redesign"))
//
// Helper constructors in attr.go (Error, Feature, Rule, Source, Component)
// keep attribute naming consistent across the codebase.
package logger
