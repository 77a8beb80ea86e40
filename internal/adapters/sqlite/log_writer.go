package sqlite

import (
	"context"

	"github.com/example/whisper/internal/ctxutil"
	"github.com/example/whisper/internal/ports/secondary"
)

// AuditLogWriter implements secondary.AuditLogger on top of AuditLogRepository.
type AuditLogWriter struct {
	repo secondary.AuditLogRepository
}

// NewAuditLogWriter creates a new AuditLogWriter.
func NewAuditLogWriter(repo secondary.AuditLogRepository) *AuditLogWriter {
	return &AuditLogWriter{repo: repo}
}

// Record writes an audit entry. When the event names no user, the actor
// carried by the context is recorded instead.
func (w *AuditLogWriter) Record(ctx context.Context, event secondary.AuditEvent) error {
	userID := event.UserID
	if userID == "" {
		userID = ctxutil.ActorFromContext(ctx)
	}

	level := event.Level
	if level == "" {
		level = secondary.AuditLevelInfo
	}

	return w.repo.Create(ctx, &secondary.AuditLogRecord{
		Level:    level,
		Message:  event.Message,
		UserID:   userID,
		Action:   event.Action,
		Metadata: event.Metadata,
	})
}

// Ensure AuditLogWriter implements the interface
var _ secondary.AuditLogger = (*AuditLogWriter)(nil)
