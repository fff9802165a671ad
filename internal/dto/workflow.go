package dto

import (
	"time"

	"github.com/SscSPs/company_register_app/internal/core/domain"
)

// InitiateChangeRequest proposes replacing the address of one type.
type InitiateChangeRequest struct {
	AddressType   string        `json:"addressType" binding:"required"`
	Address       AddressFields `json:"address"`
	EffectiveDate string        `json:"effectiveDate" binding:"required" example:"2024-07-01"`
}

// BulkChangeItem is one address of a bulk change.
type BulkChangeItem struct {
	AddressType string        `json:"addressType" binding:"required"`
	Address     AddressFields `json:"address"`
}

// BulkChangeRequest proposes several address changes taking effect on the same day.
type BulkChangeRequest struct {
	Items         []BulkChangeItem `json:"items" binding:"required,min=1,dive"`
	EffectiveDate string           `json:"effectiveDate" binding:"required" example:"2024-07-01"`
}

// RejectWorkflowRequest carries the reason a change was turned down.
type RejectWorkflowRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// ListPendingWorkflowsParams defines query parameters for the approval queue.
type ListPendingWorkflowsParams struct {
	CompanyID string  `form:"companyID"`
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// WorkflowResponse defines the data returned for an address change workflow.
type WorkflowResponse struct {
	WorkflowID       string                  `json:"workflowID"`
	CompanyID        string                  `json:"companyID"`
	AddressType      string                  `json:"addressType"`
	Status           string                  `json:"status"`
	EffectiveDate    string                  `json:"effectiveDate"`
	CurrentAddress   *AddressResponse        `json:"currentAddress"`
	ProposedAddress  AddressResponse         `json:"proposedAddress"`
	ExecutedAddress  *AddressResponse        `json:"executedAddress"`
	ValidationResult domain.ValidationResult `json:"validationResult"`
	RequestedBy      string                  `json:"requestedBy"`
	RequestedAt      time.Time               `json:"requestedAt"`
	ApprovedBy       string                  `json:"approvedBy,omitempty"`
	ApprovedAt       *time.Time              `json:"approvedAt,omitempty"`
	RejectedBy       string                  `json:"rejectedBy,omitempty"`
	RejectedAt       *time.Time              `json:"rejectedAt,omitempty"`
	RejectionReason  string                  `json:"rejectionReason,omitempty"`
}

// ListWorkflowsResponse is one page of the approval queue.
type ListWorkflowsResponse struct {
	Workflows []WorkflowResponse `json:"workflows"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// BulkChangeResponse reports the outcome of a bulk change.
type BulkChangeResponse struct {
	Status    string                 `json:"status"`
	Approved  int                    `json:"approved"`
	Pending   int                    `json:"pending"`
	Workflows []WorkflowResponse     `json:"workflows"`
	Errors    []domain.BulkItemError `json:"errors"`
}

// ToWorkflowResponse converts a domain.AddressChangeWorkflow to WorkflowResponse DTO.
func ToWorkflowResponse(wf *domain.AddressChangeWorkflow) WorkflowResponse {
	res := WorkflowResponse{
		WorkflowID:       wf.WorkflowID,
		CompanyID:        wf.CompanyID,
		AddressType:      string(wf.AddressType),
		Status:           string(wf.Status),
		EffectiveDate:    formatDate(wf.EffectiveDate),
		ProposedAddress:  ToAddressResponse(&wf.ProposedAddress),
		ValidationResult: wf.ValidationResult,
		RequestedBy:      wf.RequestedBy,
		RequestedAt:      wf.RequestedAt,
		ApprovedBy:       wf.ApprovedBy,
		ApprovedAt:       wf.ApprovedAt,
		RejectedBy:       wf.RejectedBy,
		RejectedAt:       wf.RejectedAt,
		RejectionReason:  wf.RejectionReason,
	}
	if wf.CurrentAddress != nil {
		current := ToAddressResponse(wf.CurrentAddress)
		res.CurrentAddress = &current
	}
	if wf.ExecutedAddress != nil {
		executed := ToAddressResponse(wf.ExecutedAddress)
		res.ExecutedAddress = &executed
	}
	return res
}

// ToWorkflowResponses converts a slice of workflows.
func ToWorkflowResponses(workflows []domain.AddressChangeWorkflow) []WorkflowResponse {
	res := make([]WorkflowResponse, len(workflows))
	for i := range workflows {
		res[i] = ToWorkflowResponse(&workflows[i])
	}
	return res
}

// ToBulkChangeResponse converts a domain.BulkUpdateResult.
func ToBulkChangeResponse(r *domain.BulkUpdateResult) BulkChangeResponse {
	errs := r.Errors
	if errs == nil {
		errs = []domain.BulkItemError{}
	}
	return BulkChangeResponse{
		Status:    string(r.Status),
		Approved:  r.Approved,
		Pending:   r.Pending,
		Workflows: ToWorkflowResponses(r.Workflows),
		Errors:    errs,
	}
}
