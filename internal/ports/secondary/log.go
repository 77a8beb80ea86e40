package secondary

import "context"

// Audit levels accepted by the audit store.
const (
	AuditLevelDebug    = "DEBUG"
	AuditLevelInfo     = "INFO"
	AuditLevelWarning  = "WARNING"
	AuditLevelError    = "ERROR"
	AuditLevelCritical = "CRITICAL"
)

// AuditEvent is a single entry handed to an AuditLogger.
type AuditEvent struct {
	Level    string
	Message  string
	UserID   string // Falls back to the actor in context when empty
	Action   string
	Metadata map[string]any
}

// AuditLogger defines the interface for recording audit events.
// Callers treat it as fire-and-forget: a returned error is logged, never propagated.
type AuditLogger interface {
	Record(ctx context.Context, event AuditEvent) error
}
