// Package audit routes audit events to durable storage and analytics.
package audit

import (
	"context"
	"log/slog"
	"strings"

	"github.com/SscSPs/company_register_app/internal/core/domain"
	portsrepo "github.com/SscSPs/company_register_app/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/company_register_app/internal/core/ports/services"
	"github.com/SscSPs/company_register_app/internal/middleware"
	"github.com/google/uuid"
)

// RepositorySink appends events to the audit log store.
type RepositorySink struct {
	repo portsrepo.AuditLogWriter
}

func NewRepositorySink(repo portsrepo.AuditLogWriter) *RepositorySink {
	return &RepositorySink{repo: repo}
}

func (s *RepositorySink) Record(ctx context.Context, event domain.AuditEvent) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	if err := s.repo.SaveAuditEvent(ctx, event); err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to persist audit event",
			slog.String("error", err.Error()),
			slog.String("resource_type", string(event.ResourceType)),
			slog.String("resource_id", event.ResourceID),
			slog.String("action", string(event.Action)),
		)
	}
}

// eventEnqueuer is satisfied by utils.PosthogClientWrapper.
type eventEnqueuer interface {
	Enqueue(distinctID string, event string, properties map[string]any)
}

// PosthogSink mirrors audit events into PostHog, keyed by actor.
type PosthogSink struct {
	client eventEnqueuer
}

func NewPosthogSink(client eventEnqueuer) *PosthogSink {
	return &PosthogSink{client: client}
}

func (s *PosthogSink) Record(_ context.Context, event domain.AuditEvent) {
	props := make(map[string]any, len(event.Details)+3)
	for k, v := range event.Details {
		props[k] = v
	}
	props["resource_type"] = string(event.ResourceType)
	props["resource_id"] = event.ResourceID
	props["recorded_at"] = event.RecordedAt

	s.client.Enqueue(event.Actor, EventName(event), props)
}

// EventName builds the analytics event name, e.g. "audit_address_change_workflow_update".
func EventName(event domain.AuditEvent) string {
	return strings.ToLower("audit_" + string(event.ResourceType) + "_" + string(event.Action))
}

// FanOut hands every event to each sink in order.
type FanOut []portssvc.AuditSink

func NewFanOut(sinks ...portssvc.AuditSink) FanOut {
	out := make(FanOut, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (f FanOut) Record(ctx context.Context, event domain.AuditEvent) {
	if event.EventID == "" {
		event.EventID = uuid.NewString()
	}
	for _, s := range f {
		s.Record(ctx, event)
	}
}

var (
	_ portssvc.AuditSink = (*RepositorySink)(nil)
	_ portssvc.AuditSink = (*PosthogSink)(nil)
	_ portssvc.AuditSink = FanOut(nil)
)
