package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/company_register_app/internal/apperrors"
	"github.com/SscSPs/company_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/company_register_app/internal/core/ports/repositories"
	"github.com/SscSPs/company_register_app/internal/models"
	"github.com/SscSPs/company_register_app/internal/utils/mapping"
	"github.com/SscSPs/company_register_app/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const workflowColumns = `
	workflow_id, company_id, address_type, current_address, proposed_address, effective_date, status,
	validation_result, requested_by, requested_at, approved_at, approved_by, rejected_at, rejected_by,
	rejection_reason, executed_address`

type PgxWorkflowRepository struct {
	BaseRepository
}

func newPgxWorkflowRepository(pool *pgxpool.Pool) portsrepo.WorkflowRepositoryFacade {
	return &PgxWorkflowRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.WorkflowRepositoryFacade = (*PgxWorkflowRepository)(nil)

func (r *PgxWorkflowRepository) SaveWorkflow(ctx context.Context, workflow domain.AddressChangeWorkflow) error {
	m, err := mapping.ToModelWorkflow(workflow)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode workflow", err)
	}
	query := `
		INSERT INTO address_change_workflows (` + workflowColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`
	_, err = r.Pool.Exec(ctx, query,
		m.WorkflowID, m.CompanyID, m.AddressType, m.CurrentAddress, m.ProposedAddress, m.EffectiveDate, m.Status,
		m.ValidationResult, m.RequestedBy, m.RequestedAt, m.ApprovedAt, m.ApprovedBy, m.RejectedAt, m.RejectedBy,
		m.RejectionReason, m.ExecutedAddress,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicate
		}
		return apperrors.NewAppError(500, "failed to insert workflow "+m.WorkflowID, err)
	}
	return nil
}

// UpdateWorkflow persists a status transition. Only the fields a transition can change are written.
func (r *PgxWorkflowRepository) UpdateWorkflow(ctx context.Context, workflow domain.AddressChangeWorkflow) error {
	m, err := mapping.ToModelWorkflow(workflow)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode workflow", err)
	}
	query := `
		UPDATE address_change_workflows
		SET status = $2, approved_at = $3, approved_by = $4, rejected_at = $5, rejected_by = $6,
		    rejection_reason = $7, executed_address = $8
		WHERE workflow_id = $1;
	`
	tag, err := r.Pool.Exec(ctx, query,
		m.WorkflowID, m.Status, m.ApprovedAt, m.ApprovedBy, m.RejectedAt, m.RejectedBy, m.RejectionReason, m.ExecutedAddress,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to update workflow "+m.WorkflowID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxWorkflowRepository) FindWorkflowByID(ctx context.Context, workflowID string) (*domain.AddressChangeWorkflow, error) {
	query := `SELECT ` + workflowColumns + ` FROM address_change_workflows WHERE workflow_id = $1;`
	m, err := scanWorkflow(r.Pool.QueryRow(ctx, query, workflowID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to query workflow "+workflowID, err)
	}
	wf, err := mapping.ToDomainWorkflow(m)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to decode workflow "+workflowID, err)
	}
	return &wf, nil
}

// ListPendingWorkflows pages through the approval queue, oldest request first.
// An empty companyID lists every company.
func (r *PgxWorkflowRepository) ListPendingWorkflows(ctx context.Context, companyID string, limit int, nextToken *string) ([]domain.AddressChangeWorkflow, *string, error) {
	if limit <= 0 {
		limit = pagination.DefaultLimit
	}
	fetchLimit := limit + 1

	query := `SELECT ` + workflowColumns + `
		FROM address_change_workflows
		WHERE status = 'PENDING_APPROVAL' AND ($1 = '' OR company_id = $1)`
	args := []any{companyID}

	if nextToken != nil && *nextToken != "" {
		lastRequestedAt, lastID, decodeErr := pagination.DecodeToken(*nextToken)
		if decodeErr != nil {
			return nil, nil, apperrors.NewAppError(400, "invalid nextToken", decodeErr)
		}
		query += ` AND (requested_at, workflow_id) > ($2, $3)
		ORDER BY requested_at, workflow_id
		LIMIT $4;`
		args = append(args, lastRequestedAt, lastID, fetchLimit)
	} else {
		query += `
		ORDER BY requested_at, workflow_id
		LIMIT $2;`
		args = append(args, fetchLimit)
	}

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query pending workflows", err)
	}
	defer rows.Close()

	workflows := make([]domain.AddressChangeWorkflow, 0, fetchLimit)
	for rows.Next() {
		m, err := scanWorkflow(rows)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to scan workflow", err)
		}
		wf, err := mapping.ToDomainWorkflow(m)
		if err != nil {
			return nil, nil, apperrors.NewAppError(500, "failed to decode workflow "+m.WorkflowID, err)
		}
		workflows = append(workflows, wf)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to iterate pending workflows", err)
	}

	var nextTokenVal *string
	if len(workflows) > limit {
		last := workflows[limit-1]
		token := pagination.EncodeToken(last.RequestedAt, last.WorkflowID)
		nextTokenVal = &token
		workflows = workflows[:limit]
	}
	return workflows, nextTokenVal, nil
}

func scanWorkflow(row pgx.Row) (models.AddressChangeWorkflow, error) {
	var m models.AddressChangeWorkflow
	err := row.Scan(
		&m.WorkflowID, &m.CompanyID, &m.AddressType, &m.CurrentAddress, &m.ProposedAddress, &m.EffectiveDate, &m.Status,
		&m.ValidationResult, &m.RequestedBy, &m.RequestedAt, &m.ApprovedAt, &m.ApprovedBy, &m.RejectedAt, &m.RejectedBy,
		&m.RejectionReason, &m.ExecutedAddress,
	)
	return m, err
}
