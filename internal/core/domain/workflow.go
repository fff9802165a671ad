package domain

import (
	"time"

	"github.com/SscSPs/company_register_app/internal/apperrors"
)

// WorkflowStatus is the state of an address change proposal.
type WorkflowStatus string

const (
	StatusValidationFailed WorkflowStatus = "VALIDATION_FAILED"
	StatusPendingApproval  WorkflowStatus = "PENDING_APPROVAL"
	StatusApproved         WorkflowStatus = "APPROVED"
	StatusRejected         WorkflowStatus = "REJECTED"
)

// IsTerminal reports whether no further transition is possible.
func (s WorkflowStatus) IsTerminal() bool {
	return s != StatusPendingApproval
}

// DefaultAutoApproveHorizonMonths bounds how far ahead a change may take effect and still be approved automatically.
const DefaultAutoApproveHorizonMonths = 6

// AddressChangeWorkflow is a proposal to replace one company's address of one type.
// Transitions never mutate the receiver; they return the next value.
type AddressChangeWorkflow struct {
	WorkflowID       string           `json:"workflowID"`
	CompanyID        string           `json:"companyID"`
	AddressType      AddressType      `json:"addressType"`
	CurrentAddress   *Address         `json:"currentAddress"`
	ProposedAddress  Address          `json:"proposedAddress"`
	EffectiveDate    time.Time        `json:"effectiveDate"`
	Status           WorkflowStatus   `json:"status"`
	ValidationResult ValidationResult `json:"validationResult"`
	RequestedBy      string           `json:"requestedBy"`
	RequestedAt      time.Time        `json:"requestedAt"`
	ApprovedAt       *time.Time       `json:"approvedAt"`
	ApprovedBy       string           `json:"approvedBy"`
	RejectedAt       *time.Time       `json:"rejectedAt"`
	RejectedBy       string           `json:"rejectedBy"`
	RejectionReason  string           `json:"rejectionReason"`
	ExecutedAddress  *Address         `json:"executedAddress"`
}

// InitiateRequest carries the inputs of a single address change proposal.
type InitiateRequest struct {
	CompanyID     string
	AddressType   AddressType
	Address       Address
	EffectiveDate time.Time
	RequestedBy   string
}

// NewAddressChangeWorkflow builds a proposal whose status follows from the validation result.
func NewAddressChangeWorkflow(id string, req InitiateRequest, current *Address, result ValidationResult, requestedAt time.Time) AddressChangeWorkflow {
	status := StatusPendingApproval
	if !result.IsValid() {
		status = StatusValidationFailed
	}
	return AddressChangeWorkflow{
		WorkflowID:       id,
		CompanyID:        req.CompanyID,
		AddressType:      req.AddressType,
		CurrentAddress:   current,
		ProposedAddress:  req.Address,
		EffectiveDate:    DateOf(req.EffectiveDate),
		Status:           status,
		ValidationResult: result,
		RequestedBy:      req.RequestedBy,
		RequestedAt:      requestedAt,
	}
}

// CheckApprovable returns a StateError unless the workflow may be executed.
func (w AddressChangeWorkflow) CheckApprovable() error {
	if w.Status != StatusPendingApproval {
		return &apperrors.StateError{WorkflowID: w.WorkflowID, Status: string(w.Status), Action: "approve"}
	}
	if !w.ValidationResult.IsValid() {
		return &apperrors.StateError{WorkflowID: w.WorkflowID, Status: string(w.Status), Action: "approve", Reason: "validation did not pass"}
	}
	return nil
}

// Approved returns the workflow moved to APPROVED with the executed address recorded.
func (w AddressChangeWorkflow) Approved(executed Address, approver string, at time.Time) (AddressChangeWorkflow, error) {
	if err := w.CheckApprovable(); err != nil {
		return w, err
	}
	next := w
	next.Status = StatusApproved
	next.ApprovedAt = &at
	next.ApprovedBy = approver
	next.ExecutedAddress = &executed
	return next, nil
}

// Rejected returns the workflow moved to REJECTED.
func (w AddressChangeWorkflow) Rejected(reason, actor string, at time.Time) (AddressChangeWorkflow, error) {
	if w.Status != StatusPendingApproval {
		return w, &apperrors.StateError{WorkflowID: w.WorkflowID, Status: string(w.Status), Action: "reject"}
	}
	if reason == "" {
		return w, apperrors.NewValidationError(apperrors.FieldIssue{Field: "reason", Rule: "required", Message: "a rejection reason is required"})
	}
	next := w
	next.Status = StatusRejected
	next.RejectedAt = &at
	next.RejectedBy = actor
	next.RejectionReason = reason
	return next, nil
}

// TransitionIntent is what should happen to a freshly validated proposal.
type TransitionIntent int

const (
	IntentReject TransitionIntent = iota
	IntentAutoApprove
	IntentHoldForApproval
)

func (i TransitionIntent) String() string {
	switch i {
	case IntentReject:
		return "reject"
	case IntentAutoApprove:
		return "auto_approve"
	case IntentHoldForApproval:
		return "hold_for_approval"
	}
	return "unknown"
}

// Decide is a pure function of its arguments: invalid results are rejected, clean near-term changes are
// approved automatically and everything else waits for a human.
func Decide(result ValidationResult, effectiveDate, today time.Time, horizonMonths int) TransitionIntent {
	if !result.IsValid() {
		return IntentReject
	}
	if CanAutoApprove(result, effectiveDate, today, horizonMonths) {
		return IntentAutoApprove
	}
	return IntentHoldForApproval
}

// CanAutoApprove reports whether a change may execute without manual sign-off.
func CanAutoApprove(result ValidationResult, effectiveDate, today time.Time, horizonMonths int) bool {
	if !result.IsValid() || result.HasSignificantWarning() {
		return false
	}
	limit := DateOf(today).AddDate(0, horizonMonths, 0)
	return !DateOf(effectiveDate).After(limit)
}

// BulkItem is one address of a bulk change request.
type BulkItem struct {
	AddressType AddressType
	Address     Address
}

// BulkUpdateRequest proposes several address changes for one company, all taking effect on the same day.
type BulkUpdateRequest struct {
	CompanyID     string
	Items         []BulkItem
	EffectiveDate time.Time
	RequestedBy   string
}

// BulkStatus summarises a bulk update.
type BulkStatus string

const (
	BulkValidationFailed BulkStatus = "VALIDATION_FAILED"
	BulkCompleted        BulkStatus = "COMPLETED"
	BulkPendingApproval  BulkStatus = "PENDING_APPROVAL"
	BulkPartiallyFailed  BulkStatus = "PARTIALLY_FAILED"
)

// BulkItemError describes why one item of a batch failed. Item is 1-based.
type BulkItemError struct {
	Item        int         `json:"item"`
	AddressType AddressType `json:"addressType"`
	Messages    []string    `json:"messages"`
}

// BulkUpdateResult reports what happened to every item of a batch.
type BulkUpdateResult struct {
	Status    BulkStatus              `json:"status"`
	Workflows []AddressChangeWorkflow `json:"workflows"`
	Approved  int                     `json:"approved"`
	Pending   int                     `json:"pending"`
	Errors    []BulkItemError         `json:"errors"`
}
