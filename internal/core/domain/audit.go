package domain

import "time"

type AuditAction string

const (
	AuditCreate AuditAction = "CREATE"
	AuditUpdate AuditAction = "UPDATE"
)

type AuditResourceType string

const (
	ResourceAddress       AuditResourceType = "ADDRESS"
	ResourceAddressChange AuditResourceType = "ADDRESS_CHANGE_WORKFLOW"
)

// AuditEvent is a structured record of a state change.
type AuditEvent struct {
	EventID      string            `json:"eventID"`
	Action       AuditAction       `json:"action"`
	ResourceType AuditResourceType `json:"resourceType"`
	ResourceID   string            `json:"resourceID"`
	Actor        string            `json:"actor"`
	Details      map[string]any    `json:"details"`
	RecordedAt   time.Time         `json:"recordedAt"`
}
