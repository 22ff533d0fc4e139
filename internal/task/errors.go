package task

import (
	"errors"
	"strings"
)

// ErrEmptyUpdate is returned when an update payload supplies zero
// recognized fields. It is deliberately distinct from field-level
// validation failures so callers can report it as its own condition.
var ErrEmptyUpdate = errors.New("no update data provided")

// ValidationError carries the ordered list of field-level messages
// produced while validating a create or update payload.
//
// Messages appear in field order (title, description, status) so a
// caller can render them individually.
type ValidationError struct {
	Messages []string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// AsValidationError unwraps err into a *ValidationError if possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
