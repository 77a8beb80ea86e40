package primary

import (
	"context"
	"time"
)

// AuditService defines the primary port for audit log operations.
type AuditService interface {
	// ListEntries retrieves audit entries matching the given filters, newest first.
	ListEntries(ctx context.Context, filters AuditFilters) ([]*AuditEntry, error)

	// PruneEntries deletes entries older than the specified number of days.
	PruneEntries(ctx context.Context, olderThanDays int) (int, error)
}

// AuditEntry represents an audit log entry at the port boundary.
type AuditEntry struct {
	ID        string
	Level     string
	Message   string
	UserID    string
	Action    string
	Metadata  map[string]any
	CreatedAt time.Time
}

// AuditFilters contains filter options for querying audit entries.
type AuditFilters struct {
	UserID string
	Action string
	Level  string
	Limit  int
}
