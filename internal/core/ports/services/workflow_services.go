package services

import (
	"context"

	"github.com/SscSPs/company_register_app/internal/core/domain"
)

// WorkflowReaderSvc defines read operations for address change workflows
type WorkflowReaderSvc interface {
	GetWorkflow(ctx context.Context, workflowID string) (*domain.AddressChangeWorkflow, error)

	// ListPendingWorkflows returns the approval queue, oldest first. An empty companyID lists every company.
	ListPendingWorkflows(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.AddressChangeWorkflow, *string, error)
}

// WorkflowWriterSvc defines the transitions of address change workflows
type WorkflowWriterSvc interface {
	// Initiate validates a proposal and either executes it, holds it for approval or records the validation failure.
	Initiate(ctx context.Context, req domain.InitiateRequest) (*domain.AddressChangeWorkflow, error)

	// Approve executes a pending workflow.
	Approve(ctx context.Context, workflowID, approver string) (*domain.AddressChangeWorkflow, error)

	// Reject discards a pending workflow without touching any address.
	Reject(ctx context.Context, workflowID, reason, actor string) (*domain.AddressChangeWorkflow, error)

	// BulkUpdate proposes several changes for one company. Validation is all-or-nothing, execution is best-effort.
	BulkUpdate(ctx context.Context, req domain.BulkUpdateRequest) (*domain.BulkUpdateResult, error)
}

// WorkflowSvcFacade combines all workflow-related service interfaces
type WorkflowSvcFacade interface {
	WorkflowReaderSvc
	WorkflowWriterSvc
}
