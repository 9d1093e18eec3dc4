package domain

import "errors"

// ErrNotFound reports that a referenced entity does not exist.
var ErrNotFound = errors.New("not found")

// ValidationError reports malformed or missing input. The message is shown
// to the user as-is.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
