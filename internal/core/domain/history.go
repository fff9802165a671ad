package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AddressSnapshot is the set of addresses a company had in force on one day.
type AddressSnapshot struct {
	CompanyID string                  `json:"companyID"`
	Date      time.Time               `json:"date"`
	Addresses map[AddressType]Address `json:"addresses"`
	Complete  bool                    `json:"complete"` // a REGISTERED address was in force
}

// ChangeType classifies a transition between consecutive slices of the same address type.
type ChangeType string

const (
	InitialRegistration  ChangeType = "INITIAL_REGISTRATION"
	AddressChange        ChangeType = "ADDRESS_CHANGE"
	AdministrativeUpdate ChangeType = "ADMINISTRATIVE_UPDATE"
)

// AddressChangeEvent is one classified transition in a company's address timeline.
type AddressChangeEvent struct {
	AddressType   AddressType `json:"addressType"`
	ChangeType    ChangeType  `json:"changeType"`
	EffectiveDate time.Time   `json:"effectiveDate"`
	Previous      *Address    `json:"previous"`
	Address       Address     `json:"address"`
}

// HistoryValidation lists integrity problems found in a company's stored timeline.
type HistoryValidation struct {
	CompanyID string   `json:"companyID"`
	Errors    []string `json:"errors"`
	Warnings  []string `json:"warnings"`
}

// IsValid reports whether the timeline has no errors. Gaps alone do not invalidate it.
func (v HistoryValidation) IsValid() bool {
	return len(v.Errors) == 0
}

// HistoryReport bundles the analysis of a company's address timeline.
type HistoryReport struct {
	CompanyID      string               `json:"companyID"`
	GeneratedAt    time.Time            `json:"generatedAt"`
	Changes        []AddressChangeEvent `json:"changes"`
	TotalChanges   int                  `json:"totalChanges"`
	Validation     HistoryValidation    `json:"validation"`
	StabilityScore decimal.Decimal      `json:"stabilityScore"`
}
