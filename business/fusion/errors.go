package fusion

import (
	"errors"
	"fmt"
)

var (
	// ErrModelUnavailable reports that an emotion model failed to load or
	// could not be reached at startup. No classification can proceed.
	ErrModelUnavailable = errors.New("emotion model unavailable")

	// ErrUnknownSession reports an operation on a session id that was never
	// started or has already ended.
	ErrUnknownSession = errors.New("unknown session")
)

// InferenceError reports a failed classification call on one channel. The
// adapter does not retry; the caller decides whether to retry or skip the
// frame.
type InferenceError struct {
	Source Source
	Err    error
}

func (e *InferenceError) Error() string {
	return fmt.Sprintf("inference failed on %s channel: %s", e.Source, e.Err)
}

func (e *InferenceError) Unwrap() error {
	return e.Err
}
