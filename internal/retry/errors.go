package retry

import "errors"

// transientError marks an error as safe to retry.
type transientError struct {
	err error
}

func (e *transientError) Error() string { return e.err.Error() }

func (e *transientError) Unwrap() error { return e.err }

// Transient wraps err so IsTransient reports true for it.
// Returns nil when err is nil.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsTransient determines if an error is transient and should be retried.
// Only errors wrapped with Transient anywhere in their chain qualify.
func IsTransient(err error) bool {
	var te *transientError
	return errors.As(err, &te)
}
