package mapping

import (
	"encoding/json"
	"fmt"

	"github.com/SscSPs/company_register_app/internal/core/domain"
	"github.com/SscSPs/company_register_app/internal/models"
)

// ToModelAuditEvent converts a domain AuditEvent to a model AuditEvent
func ToModelAuditEvent(d domain.AuditEvent) (models.AuditEvent, error) {
	details := d.Details
	if details == nil {
		details = map[string]any{}
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return models.AuditEvent{}, fmt.Errorf("encode audit details: %w", err)
	}
	return models.AuditEvent{
		EventID:      d.EventID,
		Action:       string(d.Action),
		ResourceType: string(d.ResourceType),
		ResourceID:   d.ResourceID,
		Actor:        d.Actor,
		Details:      raw,
		RecordedAt:   d.RecordedAt,
	}, nil
}

// ToDomainAuditEvent converts a model AuditEvent to a domain AuditEvent
func ToDomainAuditEvent(m models.AuditEvent) (domain.AuditEvent, error) {
	d := domain.AuditEvent{
		EventID:      m.EventID,
		Action:       domain.AuditAction(m.Action),
		ResourceType: domain.AuditResourceType(m.ResourceType),
		ResourceID:   m.ResourceID,
		Actor:        m.Actor,
		RecordedAt:   m.RecordedAt,
	}
	if len(m.Details) > 0 {
		if err := json.Unmarshal(m.Details, &d.Details); err != nil {
			return d, fmt.Errorf("decode audit details: %w", err)
		}
	}
	return d, nil
}
