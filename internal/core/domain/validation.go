package domain

import "slices"

// WarningCode tags a non-blocking validation finding so callers can react to it without parsing prose.
type WarningCode string

const (
	WarningCountryChange       WarningCode = "COUNTRY_CHANGE"
	WarningRegionChange        WarningCode = "REGION_CHANGE"
	WarningFutureEffective     WarningCode = "FUTURE_EFFECTIVE"
	WarningPostcodeMissing     WarningCode = "POSTCODE_MISSING"
	WarningRegionMissing       WarningCode = "REGION_MISSING"
	WarningRegionUnknown       WarningCode = "REGION_UNKNOWN"
	WarningContactMissing      WarningCode = "CONTACT_MISSING"
	WarningPersonalEmail       WarningCode = "PERSONAL_EMAIL"
	WarningPhoneCountry        WarningCode = "PHONE_COUNTRY_MISMATCH"
	WarningIdenticalAddress    WarningCode = "IDENTICAL_ADDRESS"
	WarningPostalLookupFailed  WarningCode = "POSTAL_LOOKUP_FAILED"
	WarningPostalLookupUnknown WarningCode = "POSTAL_LOOKUP_UNMATCHED"
)

// significantWarnings require a human to sign off on the change.
var significantWarnings = []WarningCode{WarningCountryChange, WarningRegionChange}

// IsSignificant reports whether a warning with this code blocks auto-approval.
func (c WarningCode) IsSignificant() bool {
	return slices.Contains(significantWarnings, c)
}

// Issue is a blocking, field-tagged validation failure.
type Issue struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// Warning is a non-blocking validation finding.
type Warning struct {
	Code    WarningCode `json:"code"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
}

// ValidationResult accumulates the outcome of every validation stage.
type ValidationResult struct {
	Errors      []Issue   `json:"errors"`
	Warnings    []Warning `json:"warnings"`
	Suggestions []string  `json:"suggestions"`
}

// NewValidationResult returns an empty result with non-nil slices.
func NewValidationResult() ValidationResult {
	return ValidationResult{Errors: []Issue{}, Warnings: []Warning{}, Suggestions: []string{}}
}

// IsValid reports whether no blocking issue was found.
func (r ValidationResult) IsValid() bool {
	return len(r.Errors) == 0
}

func (r *ValidationResult) AddError(field, rule, message string) {
	r.Errors = append(r.Errors, Issue{Field: field, Rule: rule, Message: message})
}

func (r *ValidationResult) AddWarning(code WarningCode, field, message string) {
	r.Warnings = append(r.Warnings, Warning{Code: code, Field: field, Message: message})
}

func (r *ValidationResult) AddSuggestion(s string) {
	if !slices.Contains(r.Suggestions, s) {
		r.Suggestions = append(r.Suggestions, s)
	}
}

// HasWarning reports whether a warning with the given code was raised.
func (r ValidationResult) HasWarning(code WarningCode) bool {
	return slices.ContainsFunc(r.Warnings, func(w Warning) bool { return w.Code == code })
}

// HasSignificantWarning reports whether any warning requires manual approval.
func (r ValidationResult) HasSignificantWarning() bool {
	return slices.ContainsFunc(r.Warnings, func(w Warning) bool { return w.Code.IsSignificant() })
}

// ErrorMessages returns the message of every blocking issue.
func (r ValidationResult) ErrorMessages() []string {
	msgs := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		msgs = append(msgs, e.Message)
	}
	return msgs
}
