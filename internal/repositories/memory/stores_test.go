package memory

import (
	"context"
	"testing"
	"time"

	"github.com/SscSPs/company_register_app/internal/apperrors"
	"github.com/SscSPs/company_register_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListPendingWorkflowsPaginates(t *testing.T) {
	ctx := context.Background()
	store := NewWorkflowStore()
	base := time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC)

	for i, id := range []string{"wf-a", "wf-b", "wf-c", "wf-d", "wf-e"} {
		status := domain.StatusPendingApproval
		if id == "wf-c" {
			status = domain.StatusApproved
		}
		require.NoError(t, store.SaveWorkflow(ctx, domain.AddressChangeWorkflow{
			WorkflowID:  id,
			CompanyID:   "c1",
			Status:      status,
			RequestedAt: base.Add(time.Duration(i) * time.Minute),
		}))
	}

	page, next, err := store.ListPendingWorkflows(ctx, "c1", 2, nil)
	require.NoError(t, err)
	require.NotNil(t, next)
	assert.Equal(t, []string{"wf-a", "wf-b"}, ids(page))

	page, next, err = store.ListPendingWorkflows(ctx, "c1", 2, next)
	require.NoError(t, err)
	assert.Equal(t, []string{"wf-d", "wf-e"}, ids(page))
	assert.Nil(t, next)

	page, _, err = store.ListPendingWorkflows(ctx, "other", 10, nil)
	require.NoError(t, err)
	assert.Empty(t, page)

	bad := "not-a-token!"
	_, _, err = store.ListPendingWorkflows(ctx, "", 10, &bad)
	assert.Error(t, err)
}

func TestWorkflowStoreUpdateRequiresExisting(t *testing.T) {
	store := NewWorkflowStore()
	err := store.UpdateWorkflow(context.Background(), domain.AddressChangeWorkflow{WorkflowID: "missing"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCompanyStoreRejectsDuplicateRegistrationNumber(t *testing.T) {
	ctx := context.Background()
	store := NewCompanyStore()
	require.NoError(t, store.SaveCompany(ctx, domain.Company{CompanyID: "c1", RegistrationNumber: "123"}))
	assert.ErrorIs(t, store.SaveCompany(ctx, domain.Company{CompanyID: "c2", RegistrationNumber: "123"}), apperrors.ErrDuplicate)

	_, err := store.FindCompanyByID(ctx, "c2")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func ids(workflows []domain.AddressChangeWorkflow) []string {
	out := make([]string, len(workflows))
	for i, wf := range workflows {
		out[i] = wf.WorkflowID
	}
	return out
}
