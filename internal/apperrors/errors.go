package apperrors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrOverlapConflict indicates that an address interval collides with an existing one.
var ErrOverlapConflict = errors.New("address interval overlaps an existing address")

// ErrInvalidState indicates an illegal workflow transition.
var ErrInvalidState = errors.New("invalid state transition")

// ErrInternal is returned when an infrastructure failure should not leak details to callers.
var ErrInternal = errors.New("internal error")

// AppError wraps an infrastructure error with an HTTP-ish status code and a safe message.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates a new AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error { return e.Err }

// FieldIssue is a single field-tagged validation failure.
type FieldIssue struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError carries every blocking issue found by the validation pipeline.
type ValidationError struct {
	Issues []FieldIssue
}

// NewValidationError builds a ValidationError from the given issues.
func NewValidationError(issues ...FieldIssue) *ValidationError {
	return &ValidationError{Issues: issues}
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, issue.Field+": "+issue.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Messages returns the human readable reasons, one per issue.
func (e *ValidationError) Messages() []string {
	msgs := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		msgs = append(msgs, issue.Message)
	}
	return msgs
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

// OverlapConflictError reports an interval collision for a company address type.
// Callers should reload state and retry; the core never retries on its own.
type OverlapConflictError struct {
	CompanyID     string
	AddressType   string
	From          time.Time
	To            *time.Time
	ConflictingID string
	Err           error
}

func (e *OverlapConflictError) Error() string {
	to := "open-ended"
	if e.To != nil {
		to = e.To.Format(time.DateOnly)
	}
	msg := fmt.Sprintf("%s address for company %s from %s to %s overlaps an existing address",
		e.AddressType, e.CompanyID, e.From.Format(time.DateOnly), to)
	if e.ConflictingID != "" {
		msg += " (" + e.ConflictingID + ")"
	}
	return msg
}

func (e *OverlapConflictError) Is(target error) bool { return target == ErrOverlapConflict }

func (e *OverlapConflictError) Unwrap() error { return e.Err }

// StateError reports an attempt to apply an action the workflow's current status does not allow.
type StateError struct {
	WorkflowID string
	Status     string
	Action     string
	Reason     string
}

func (e *StateError) Error() string {
	msg := fmt.Sprintf("cannot %s workflow %s in status %s", e.Action, e.WorkflowID, e.Status)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *StateError) Is(target error) bool { return target == ErrInvalidState }
