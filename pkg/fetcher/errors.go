package fetcher

import "errors"

// Predefined errors for the fetcher package.
var (
	// ErrFetchFailed indicates the feature payload could not be retrieved
	// and no previously fetched payload was available to fall back on.
	ErrFetchFailed = errors.New("failed to fetch feature payload")

	// ErrInvalidPayload indicates the response body could not be decoded.
	ErrInvalidPayload = errors.New("invalid feature payload")

	// ErrDecryptionFailed indicates an encrypted payload could not be
	// decrypted with the configured key.
	ErrDecryptionFailed = errors.New("failed to decrypt feature payload")

	// ErrUnsupportedFile indicates a feature file with an unknown extension.
	ErrUnsupportedFile = errors.New("unsupported feature file format")
)
