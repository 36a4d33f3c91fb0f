package asset

import "errors"

// ErrNotFound is returned when an operation addresses an asset id that does
// not exist.
var ErrNotFound = errors.New("asset not found")

// ValidationError reports the first rule a payload or filter violates. The
// message is meant to be shown to the user as is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(msg string) error {
	return &ValidationError{Message: msg}
}

// IsValidationError reports whether err is, or wraps, a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
