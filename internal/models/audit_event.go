package models

import "time"

// AuditEvent is a row of the audit_log table.
type AuditEvent struct {
	EventID      string    `db:"event_id"`
	Action       string    `db:"action"`
	ResourceType string    `db:"resource_type"`
	ResourceID   string    `db:"resource_id"`
	Actor        string    `db:"actor"`
	Details      []byte    `db:"details"`
	RecordedAt   time.Time `db:"recorded_at"`
}
