// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned (wrapped) by repositories when a point lookup misses.
var ErrNotFound = errors.New("not found")

// MessageRepository defines the secondary port for private message persistence.
// Records reference users by id only; hydration happens in the service layer.
type MessageRepository interface {
	// Create persists a new message, assigning its ID and CreatedAt.
	Create(ctx context.Context, text, senderID, receiverID string) (*MessageRecord, error)

	// GetByID retrieves a message by its ID.
	GetByID(ctx context.Context, id string) (*MessageRecord, error)

	// MessagesForUser returns every message the user sent or received,
	// most recent first. A limit of 0 means unbounded.
	MessagesForUser(ctx context.Context, userID string, limit int) ([]*MessageRecord, error)

	// LatestPerCounterpart returns the most recent message exchanged with each
	// counterpart of the user, most recent first.
	LatestPerCounterpart(ctx context.Context, userID string) ([]*MessageRecord, error)

	// Thread returns one page of the messages between two users, oldest first,
	// plus the total number of messages between them.
	Thread(ctx context.Context, userA, userB string, limit, offset int) ([]*MessageRecord, int, error)

	// MarkRead sets ReadAt if the message exists and receiverID is its receiver.
	// Already-read messages are left untouched and still report true.
	MarkRead(ctx context.Context, id, receiverID string) (bool, error)

	// MarkAllReadFromSender marks every unread message from sender to receiver as read.
	// Returns the number of messages updated.
	MarkAllReadFromSender(ctx context.Context, senderID, receiverID string) (int64, error)

	// CountUnread counts unread messages from sender to receiver.
	CountUnread(ctx context.Context, senderID, receiverID string) (int, error)

	// CountUnreadTotal counts every unread message addressed to the receiver.
	CountUnreadTotal(ctx context.Context, receiverID string) (int, error)

	// Delete permanently removes a message if senderID is its sender.
	Delete(ctx context.Context, id, senderID string) (bool, error)
}

// MessageRecord represents a private message as stored in persistence.
type MessageRecord struct {
	ID         string
	Text       string
	SenderID   string
	ReceiverID string
	CreatedAt  time.Time
	ReadAt     *time.Time // nil means unread
}

// UserRepository defines the secondary port for user profile persistence.
// It doubles as the User Resolver consumed by the messaging service.
type UserRepository interface {
	// Create persists a new user.
	Create(ctx context.Context, user *UserRecord) error

	// GetByID resolves a user id. Missing users return a wrapped ErrNotFound.
	GetByID(ctx context.Context, id string) (*UserRecord, error)

	// GetByNickname resolves a nickname.
	GetByNickname(ctx context.Context, nickname string) (*UserRecord, error)

	// List retrieves users ordered by nickname.
	List(ctx context.Context, limit int) ([]*UserRecord, error)

	// NicknameExists checks whether a nickname is already taken.
	NicknameExists(ctx context.Context, nickname string) (bool, error)
}

// UserRecord represents a user profile as stored in persistence.
type UserRecord struct {
	ID        string
	Nickname  string
	Name      string
	Surname   string
	AvatarURL string
	Bio       string
	CreatedAt time.Time
}

// AuditLogRepository defines the secondary port for audit log persistence.
// Entries are immutable - no Update operations, but old entries can be pruned.
type AuditLogRepository interface {
	// Create persists a new audit entry. ID and CreatedAt are assigned when empty.
	Create(ctx context.Context, entry *AuditLogRecord) error

	// List retrieves entries matching the given filters, newest first.
	List(ctx context.Context, filters AuditLogFilters) ([]*AuditLogRecord, error)

	// PruneOlderThan deletes entries older than the given number of days.
	// Returns the number of deleted entries.
	PruneOlderThan(ctx context.Context, days int) (int, error)
}

// AuditLogRecord represents an audit entry as stored in persistence.
type AuditLogRecord struct {
	ID        string
	Level     string
	Message   string
	UserID    string // Empty string means null
	Action    string
	Metadata  map[string]any
	CreatedAt time.Time
}

// AuditLogFilters contains filter options for querying audit entries.
type AuditLogFilters struct {
	UserID string
	Action string
	Level  string
	Limit  int
}
