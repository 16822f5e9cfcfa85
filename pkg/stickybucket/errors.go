package stickybucket

import "errors"

// Predefined errors for the stickybucket package.
var (
	// ErrInvalidDoc indicates an assignment document without an identity.
	ErrInvalidDoc = errors.New("sticky bucket document is missing its identity attribute")

	// ErrStoreUnavailable indicates the backing store could not be reached.
	ErrStoreUnavailable = errors.New("sticky bucket store unavailable")
)
