package repositories

import (
	"context"

	"github.com/SscSPs/company_register_app/internal/core/domain"
)

// WorkflowReader defines read operations for address change workflows.
type WorkflowReader interface {
	// FindWorkflowByID retrieves a specific workflow by its ID.
	FindWorkflowByID(ctx context.Context, workflowID string) (*domain.AddressChangeWorkflow, error)

	// ListPendingWorkflows retrieves PENDING_APPROVAL workflows oldest first using token-based pagination.
	// An empty companyID lists every company. It returns the page, a token for the next page (if any), and an error.
	ListPendingWorkflows(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.AddressChangeWorkflow, *string, error)
}

// WorkflowWriter defines write operations for address change workflows.
type WorkflowWriter interface {
	// SaveWorkflow inserts a new workflow.
	SaveWorkflow(ctx context.Context, workflow domain.AddressChangeWorkflow) error

	// UpdateWorkflow persists a transition of an existing workflow.
	UpdateWorkflow(ctx context.Context, workflow domain.AddressChangeWorkflow) error
}

// WorkflowRepositoryFacade combines all workflow-related repository interfaces
type WorkflowRepositoryFacade interface {
	WorkflowReader
	WorkflowWriter
}
