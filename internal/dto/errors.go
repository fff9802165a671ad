package dto

import "github.com/SscSPs/company_register_app/internal/apperrors"

// ErrorResponse is the body of every error reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// ValidationErrorResponse lists every blocking validation issue.
type ValidationErrorResponse struct {
	Error  string                 `json:"error"`
	Issues []apperrors.FieldIssue `json:"issues"`
}

// ConflictResponse is returned when a write collides with an existing address.
// Callers should reload the timeline and retry.
type ConflictResponse struct {
	Error                string `json:"error"`
	ConflictingAddressID string `json:"conflictingAddressID,omitempty"`
}
