package rules

import "errors"

var (
	// ErrUnknownRule is returned when a caller references a rule id that is not registered.
	ErrUnknownRule = errors.New("unknown validation rule")
	// ErrInvalidRule is returned by NewRegistry for malformed rule definitions.
	ErrInvalidRule = errors.New("invalid validation rule")
)
