package agent

import "fmt"

// InitError wraps failures raised while constructing a manager. Bad model
// identifiers are excluded: those surface as model.ErrNotFound unchanged so
// callers can tell a typo apart from a broken environment.
type InitError struct {
	Err error
}

func (e *InitError) Error() string {
	return fmt.Sprintf("agent initialization failed: %v", e.Err)
}

func (e *InitError) Unwrap() error { return e.Err }

// StreamError wraps failures raised while iterating an executor stream. The
// stream has already started when these occur, so transports surface them
// in-band.
type StreamError struct {
	Err error
}

func (e *StreamError) Error() string {
	return fmt.Sprintf("unexpected streaming error: %v", e.Err)
}

func (e *StreamError) Unwrap() error { return e.Err }
