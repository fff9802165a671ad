package models

import "time"

// AddressChangeWorkflow is a row of the address_change_workflows table.
// The address snapshots and the validation result are kept as JSONB documents.
type AddressChangeWorkflow struct {
	WorkflowID       string     `db:"workflow_id"`
	CompanyID        string     `db:"company_id"`
	AddressType      string     `db:"address_type"`
	CurrentAddress   []byte     `db:"current_address"`
	ProposedAddress  []byte     `db:"proposed_address"`
	EffectiveDate    time.Time  `db:"effective_date"`
	Status           string     `db:"status"`
	ValidationResult []byte     `db:"validation_result"`
	RequestedBy      string     `db:"requested_by"`
	RequestedAt      time.Time  `db:"requested_at"`
	ApprovedAt       *time.Time `db:"approved_at"`
	ApprovedBy       string     `db:"approved_by"`
	RejectedAt       *time.Time `db:"rejected_at"`
	RejectedBy       string     `db:"rejected_by"`
	RejectionReason  string     `db:"rejection_reason"`
	ExecutedAddress  []byte     `db:"executed_address"`
}
