package pgsql

import (
	"context"

	"github.com/SscSPs/company_register_app/internal/apperrors"
	"github.com/SscSPs/company_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/company_register_app/internal/core/ports/repositories"
	"github.com/SscSPs/company_register_app/internal/models"
	"github.com/SscSPs/company_register_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxAuditLogRepository struct {
	BaseRepository
}

func newPgxAuditLogRepository(pool *pgxpool.Pool) portsrepo.AuditLogRepositoryFacade {
	return &PgxAuditLogRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.AuditLogRepositoryFacade = (*PgxAuditLogRepository)(nil)

func (r *PgxAuditLogRepository) SaveAuditEvent(ctx context.Context, event domain.AuditEvent) error {
	m, err := mapping.ToModelAuditEvent(event)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode audit event", err)
	}
	query := `
		INSERT INTO audit_log (event_id, action, resource_type, resource_id, actor, details, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	if _, err := r.Pool.Exec(ctx, query, m.EventID, m.Action, m.ResourceType, m.ResourceID, m.Actor, m.Details, m.RecordedAt); err != nil {
		return apperrors.NewAppError(500, "failed to insert audit event "+m.EventID, err)
	}
	return nil
}

func (r *PgxAuditLogRepository) ListAuditEvents(ctx context.Context, resourceType domain.AuditResourceType, resourceID string) ([]domain.AuditEvent, error) {
	query := `
		SELECT event_id, action, resource_type, resource_id, actor, details, recorded_at
		FROM audit_log
		WHERE resource_type = $1 AND resource_id = $2
		ORDER BY recorded_at, event_id;
	`
	rows, err := r.Pool.Query(ctx, query, string(resourceType), resourceID)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query audit log", err)
	}
	defer rows.Close()

	events := []domain.AuditEvent{}
	for rows.Next() {
		var m models.AuditEvent
		if err := rows.Scan(&m.EventID, &m.Action, &m.ResourceType, &m.ResourceID, &m.Actor, &m.Details, &m.RecordedAt); err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan audit event", err)
		}
		e, err := mapping.ToDomainAuditEvent(m)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to decode audit event "+m.EventID, err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "failed to iterate audit log", err)
	}
	return events, nil
}
