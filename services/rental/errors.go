package rental

import (
	"errors"
	"fmt"
)

// Error codes returned to callers. Every rejection carries machine-checkable
// details so a UI can explain why, not just that, a request failed.
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeTimeConflict      = "TIME_CONFLICT"
	CodeLimitExceeded     = "LIMIT_EXCEEDED"
	CodeInvalidTransition = "INVALID_STATUS_TRANSITION"
	CodeNotFound          = "NOT_FOUND"
	CodeDerivation        = "DERIVATION_ERROR"
)

// Error is the engine's structured domain error.
type Error struct {
	Code    string
	Message string
	Details map[string]any
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError reports malformed or rule-violating input.
func NewValidationError(msg string, details map[string]any) error {
	return &Error{Code: CodeValidation, Message: msg, Details: details}
}

// NewConflictError reports an overlapping reservation or template binding.
func NewConflictError(msg string, details map[string]any) error {
	return &Error{Code: CodeTimeConflict, Message: msg, Details: details}
}

// NewLimitExceededError reports a rental cap violation.
func NewLimitExceededError(msg string, details map[string]any) error {
	return &Error{Code: CodeLimitExceeded, Message: msg, Details: details}
}

// NewInvalidTransitionError reports an illegal lifecycle step.
func NewInvalidTransitionError(from, to string) error {
	return &Error{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition reservation from %s to %s", from, to),
		Details: map[string]any{"from": from, "to": to},
	}
}

// NewNotFoundError reports a missing template, schedule, device or reservation.
func NewNotFoundError(kind, id string) error {
	return &Error{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s not found: %s", kind, id),
		Details: map[string]any{"kind": kind, "id": id},
	}
}

// NewDerivationError wraps an internal schedule-derivation failure. It is
// logged and swallowed, never surfaced to the approval caller.
func NewDerivationError(msg string, cause error) error {
	e := &Error{Code: CodeDerivation, Message: msg}
	if cause != nil {
		e.Details = map[string]any{"cause": cause.Error()}
	}
	return e
}

// CodeOf extracts the engine error code, or "" for foreign errors.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// IsCode reports whether err carries the given engine code.
func IsCode(err error, code string) bool {
	return CodeOf(err) == code
}
