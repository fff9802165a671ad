package services

import (
	"context"

	"github.com/SscSPs/company_register_app/internal/core/domain"
)

// AuditSink accepts structured audit events. Implementations log their own failures;
// callers never see them.
type AuditSink interface {
	Record(ctx context.Context, event domain.AuditEvent)
}

// NotificationDispatcher delivers a notification to each of its recipients.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, notification domain.Notification) (domain.DeliveryReport, error)
}

// PostalReferenceLookup checks an address against postal reference data. Its answers are advisory.
type PostalReferenceLookup interface {
	Validate(ctx context.Context, line1, line2, city, postcode string) (domain.PostalLookupResult, error)
}
