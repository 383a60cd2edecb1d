package runstore

import (
	"errors"
	"fmt"
)

// ErrRunNotFound indicates no record exists for the requested run ID.
var ErrRunNotFound = errors.New("runstore: run not found")

// SerializationError wraps JSON marshaling/unmarshaling errors with context.
type SerializationError struct {
	RunID string
	Err   error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("runstore: serialization error for run %q: %v", e.RunID, e.Err)
}

func (e *SerializationError) Unwrap() error {
	return e.Err
}
