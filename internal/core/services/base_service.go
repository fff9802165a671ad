package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/SscSPs/company_register_app/internal/core/domain"
	portssvc "github.com/SscSPs/company_register_app/internal/core/ports/services"
	"github.com/SscSPs/company_register_app/internal/middleware"
	"github.com/SscSPs/company_register_app/internal/platform/metrics"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Audit   portssvc.AuditSink
	Metrics *metrics.Metrics
	Clock   func() time.Time
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	return middleware.GetLoggerFromCtx(ctx)
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Now returns the current instant in UTC.
func (s *BaseService) Now() time.Time {
	if s.Clock != nil {
		return s.Clock().UTC()
	}
	return time.Now().UTC()
}

// Today returns the current calendar day.
func (s *BaseService) Today() time.Time {
	return domain.DateOf(s.Now())
}

// RecordAudit hands an event to the audit sink, if one is configured.
func (s *BaseService) RecordAudit(ctx context.Context, action domain.AuditAction, resourceType domain.AuditResourceType, resourceID, actor string, details map[string]any) {
	if s.Audit == nil {
		return
	}
	s.Audit.Record(ctx, domain.AuditEvent{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Actor:        actor,
		Details:      details,
		RecordedAt:   s.Now(),
	})
}

// Option configures the shared parts of a service.
type Option func(*BaseService)

// WithClock replaces the wall clock, mainly for tests.
func WithClock(clock func() time.Time) Option {
	return func(s *BaseService) {
		s.Clock = clock
	}
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *BaseService) {
		s.Metrics = m
	}
}

// WithAuditSink attaches the audit sink events are recorded to.
func WithAuditSink(sink portssvc.AuditSink) Option {
	return func(s *BaseService) {
		s.Audit = sink
	}
}

func newBaseService(opts []Option) BaseService {
	var b BaseService
	for _, opt := range opts {
		opt(&b)
	}
	return b
}
