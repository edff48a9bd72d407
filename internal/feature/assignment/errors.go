package assignment

import "errors"

// ErrNotFound is returned whenever (id, userId) matches nothing —
// including ids that belong to another user.
var ErrNotFound = errors.New("assignment not found")

// ValidationError names the first offending field of a bad payload.
type ValidationError struct {
	Field string
}

func (e *ValidationError) Error() string {
	return "assignment: missing or empty field " + e.Field
}
