package engine

import (
	"errors"
	"fmt"
)

// InputError marks a failure caused by missing or malformed caller input.
// The HTTP boundary maps it to a 400; anything else is a 500.
type InputError struct {
	Field   string
	Message string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func NewInputError(field, message string) *InputError {
	return &InputError{Field: field, Message: message}
}

func inputErrorf(field, format string, args ...any) *InputError {
	return &InputError{Field: field, Message: fmt.Sprintf(format, args...)}
}

// IsInputError reports whether err (or anything it wraps) is an InputError.
func IsInputError(err error) bool {
	var ie *InputError
	return errors.As(err, &ie)
}
