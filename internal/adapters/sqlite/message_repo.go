// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/whisper/internal/ports/secondary"
)

const messageColumns = "id, text, sender_id, receiver_id, created_at, read_at"

// pairPredicate matches the messages between two users in either direction.
const pairPredicate = "((sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?))"

// MessageRepository implements secondary.MessageRepository with SQLite.
//
// Ordering is by created_at with rowid as the tie-breaker, so messages that
// share a timestamp keep their insertion order.
type MessageRepository struct {
	db  *sql.DB
	now func() time.Time
}

// MessageRepositoryOption configures a MessageRepository.
type MessageRepositoryOption func(*MessageRepository)

// WithClock overrides the time source used for created_at and read_at.
func WithClock(now func() time.Time) MessageRepositoryOption {
	return func(r *MessageRepository) {
		r.now = now
	}
}

// NewMessageRepository creates a new SQLite message repository.
func NewMessageRepository(db *sql.DB, opts ...MessageRepositoryOption) *MessageRepository {
	r := &MessageRepository{db: db, now: time.Now}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create persists a new message.
func (r *MessageRepository) Create(ctx context.Context, text, senderID, receiverID string) (*secondary.MessageRecord, error) {
	record := &secondary.MessageRecord{
		ID:         uuid.NewString(),
		Text:       text,
		SenderID:   senderID,
		ReceiverID: receiverID,
		CreatedAt:  r.now().UTC(),
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO private_messages (id, text, sender_id, receiver_id, created_at) VALUES (?, ?, ?, ?, ?)",
		record.ID, record.Text, record.SenderID, record.ReceiverID, formatTime(record.CreatedAt),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}

	return record, nil
}

// GetByID retrieves a message by its ID.
func (r *MessageRepository) GetByID(ctx context.Context, id string) (*secondary.MessageRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+messageColumns+" FROM private_messages WHERE id = ?",
		id,
	)

	record, err := scanMessage(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("message %s: %w", id, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	return record, nil
}

// MessagesForUser returns every message the user sent or received, most recent first.
func (r *MessageRepository) MessagesForUser(ctx context.Context, userID string, limit int) ([]*secondary.MessageRecord, error) {
	query := "SELECT " + messageColumns + " FROM private_messages WHERE sender_id = ? OR receiver_id = ? ORDER BY created_at DESC, rowid DESC"
	args := []any{userID, userID}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages for user: %w", err)
	}
	return collectMessages(rows)
}

// LatestPerCounterpart returns the newest message with each counterpart, newest first.
func (r *MessageRepository) LatestPerCounterpart(ctx context.Context, userID string) ([]*secondary.MessageRecord, error) {
	query := `
		SELECT ` + messageColumns + `
		FROM (
			SELECT ` + messageColumns + `, rowid AS seq,
				ROW_NUMBER() OVER (
					PARTITION BY CASE WHEN sender_id = ? THEN receiver_id ELSE sender_id END
					ORDER BY created_at DESC, rowid DESC
				) AS rn
			FROM private_messages
			WHERE sender_id = ? OR receiver_id = ?
		)
		WHERE rn = 1
		ORDER BY created_at DESC, seq DESC`

	rows, err := r.db.QueryContext(ctx, query, userID, userID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list latest messages: %w", err)
	}
	return collectMessages(rows)
}

// Thread returns one page of the conversation between two users, oldest first.
func (r *MessageRepository) Thread(ctx context.Context, userA, userB string, limit, offset int) ([]*secondary.MessageRecord, int, error) {
	pair := []any{userA, userB, userB, userA}

	var total int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM private_messages WHERE "+pairPredicate,
		pair...,
	).Scan(&total)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count thread: %w", err)
	}

	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.QueryContext(ctx,
		"SELECT "+messageColumns+" FROM private_messages WHERE "+pairPredicate+" ORDER BY created_at ASC, rowid ASC LIMIT ? OFFSET ?",
		append(pair, limit, offset)...,
	)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to get thread: %w", err)
	}

	messages, err := collectMessages(rows)
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// MarkRead sets read_at once. A message that is already read reports true
// without being touched again.
func (r *MessageRepository) MarkRead(ctx context.Context, id, receiverID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE private_messages SET read_at = ? WHERE id = ? AND receiver_id = ? AND read_at IS NULL",
		formatTime(r.now()), id, receiverID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to mark message as read: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected > 0 {
		return true, nil
	}

	// Nothing changed: already read, wrong receiver, or no such message
	var count int
	err = r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM private_messages WHERE id = ? AND receiver_id = ?",
		id, receiverID,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check message receiver: %w", err)
	}

	return count > 0, nil
}

// MarkAllReadFromSender marks every unread message from sender to receiver as read.
func (r *MessageRepository) MarkAllReadFromSender(ctx context.Context, senderID, receiverID string) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		"UPDATE private_messages SET read_at = ? WHERE sender_id = ? AND receiver_id = ? AND read_at IS NULL",
		formatTime(r.now()), senderID, receiverID,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to mark messages as read: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected, nil
}

// CountUnread counts unread messages from sender to receiver.
func (r *MessageRepository) CountUnread(ctx context.Context, senderID, receiverID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM private_messages WHERE sender_id = ? AND receiver_id = ? AND read_at IS NULL",
		senderID, receiverID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}

// CountUnreadTotal counts every unread message addressed to the receiver.
func (r *MessageRepository) CountUnreadTotal(ctx context.Context, receiverID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM private_messages WHERE receiver_id = ? AND read_at IS NULL",
		receiverID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count unread messages: %w", err)
	}
	return count, nil
}

// Delete removes a message if senderID sent it.
func (r *MessageRepository) Delete(ctx context.Context, id, senderID string) (bool, error) {
	result, err := r.db.ExecContext(ctx,
		"DELETE FROM private_messages WHERE id = ? AND sender_id = ?",
		id, senderID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to delete message: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	return rowsAffected > 0, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanMessage(row rowScanner) (*secondary.MessageRecord, error) {
	var (
		createdAt sqlTime
		readAt    sqlTime
	)

	record := &secondary.MessageRecord{}
	if err := row.Scan(&record.ID, &record.Text, &record.SenderID, &record.ReceiverID, &createdAt, &readAt); err != nil {
		return nil, err
	}

	record.CreatedAt = createdAt.Time
	record.ReadAt = readAt.ptr()
	return record, nil
}

func collectMessages(rows *sql.Rows) ([]*secondary.MessageRecord, error) {
	defer rows.Close()

	messages := []*secondary.MessageRecord{}
	for rows.Next() {
		record, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}

	return messages, nil
}

// Ensure MessageRepository implements the interface
var _ secondary.MessageRepository = (*MessageRepository)(nil)
