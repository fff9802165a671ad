package repositories

import (
	"context"

	"github.com/SscSPs/company_register_app/internal/core/domain"
)

// AuditLogWriter appends audit events to durable storage.
type AuditLogWriter interface {
	SaveAuditEvent(ctx context.Context, event domain.AuditEvent) error
}

// AuditLogReader lists the audit trail of one resource, oldest first.
type AuditLogReader interface {
	ListAuditEvents(ctx context.Context, resourceType domain.AuditResourceType, resourceID string) ([]domain.AuditEvent, error)
}

// AuditLogRepositoryFacade combines audit log reads and writes.
type AuditLogRepositoryFacade interface {
	AuditLogReader
	AuditLogWriter
}
