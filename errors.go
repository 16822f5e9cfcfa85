package flagkit

import "errors"

// Predefined errors for the flagkit package.
var (
	// ErrFeatureNotFound indicates the requested feature id is not present
	// in the loaded feature set.
	ErrFeatureNotFound = errors.New("feature not found")

	// ErrInvalidFeaturesPayload indicates a raw feature payload could not
	// be decoded; the previously loaded set stays active.
	ErrInvalidFeaturesPayload = errors.New("invalid features payload")
)
