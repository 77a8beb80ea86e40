package app

import (
	"context"
	"fmt"

	"github.com/example/whisper/internal/ports/primary"
	"github.com/example/whisper/internal/ports/secondary"
)

// AuditServiceImpl implements the AuditService interface.
type AuditServiceImpl struct {
	auditRepo secondary.AuditLogRepository
}

// NewAuditService creates a new AuditService with injected dependencies.
func NewAuditService(auditRepo secondary.AuditLogRepository) *AuditServiceImpl {
	return &AuditServiceImpl{
		auditRepo: auditRepo,
	}
}

// ListEntries retrieves audit entries matching the given filters.
func (s *AuditServiceImpl) ListEntries(ctx context.Context, filters primary.AuditFilters) ([]*primary.AuditEntry, error) {
	records, err := s.auditRepo.List(ctx, secondary.AuditLogFilters{
		UserID: filters.UserID,
		Action: filters.Action,
		Level:  filters.Level,
		Limit:  filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list audit entries: %w", err)
	}

	entries := make([]*primary.AuditEntry, len(records))
	for i, r := range records {
		entries[i] = s.recordToAuditEntry(r)
	}
	return entries, nil
}

// PruneEntries deletes entries older than the specified number of days.
func (s *AuditServiceImpl) PruneEntries(ctx context.Context, olderThanDays int) (int, error) {
	if olderThanDays <= 0 {
		return 0, fmt.Errorf("days must be positive, got %d", olderThanDays)
	}
	return s.auditRepo.PruneOlderThan(ctx, olderThanDays)
}

// Helper methods

func (s *AuditServiceImpl) recordToAuditEntry(r *secondary.AuditLogRecord) *primary.AuditEntry {
	return &primary.AuditEntry{
		ID:        r.ID,
		Level:     r.Level,
		Message:   r.Message,
		UserID:    r.UserID,
		Action:    r.Action,
		Metadata:  r.Metadata,
		CreatedAt: r.CreatedAt,
	}
}

// Ensure AuditServiceImpl implements the interface
var _ primary.AuditService = (*AuditServiceImpl)(nil)
