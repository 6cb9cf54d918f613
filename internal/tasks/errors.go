package tasks

import "errors"

// ValidationError is returned for input the store refuses to accept. No state
// changes when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Field + " " + e.Reason
}

// ErrEmptyText is returned by Add when the text is empty after trimming.
var ErrEmptyText error = &ValidationError{Field: "task", Reason: "cannot be empty"}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
