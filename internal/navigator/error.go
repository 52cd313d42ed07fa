package navigator

import "errors"

var (
	// ErrStale is returned by a transition whose result arrived after a newer
	// transition started. The result is discarded and state is untouched.
	ErrStale = errors.New("navigation superseded by a newer request")

	ErrNotInitialized  = errors.New("navigator not initialized")
	ErrUnknownNode     = errors.New("category is not in the displayed list")
	ErrInvalidIndex    = errors.New("breadcrumb index out of range")
	ErrNothingToRetry  = errors.New("no failed navigation to retry")
	ErrSessionNotFound = errors.New("navigation session not found")
)
