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

const userColumns = "id, nickname, name, surname, avatar_url, bio, created_at"

// UserRepository implements secondary.UserRepository with SQLite.
type UserRepository struct {
	db *sql.DB
}

// NewUserRepository creates a new SQLite user repository.
func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create persists a new user. ID and CreatedAt are filled in when empty.
func (r *UserRepository) Create(ctx context.Context, user *secondary.UserRecord) error {
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO users ("+userColumns+") VALUES (?, ?, ?, ?, ?, ?, ?)",
		user.ID, user.Nickname, user.Name, user.Surname, user.AvatarURL, user.Bio, formatTime(user.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetByID retrieves a user by ID.
func (r *UserRepository) GetByID(ctx context.Context, id string) (*secondary.UserRecord, error) {
	return r.getOne(ctx, "id", id)
}

// GetByNickname retrieves a user by nickname.
func (r *UserRepository) GetByNickname(ctx context.Context, nickname string) (*secondary.UserRecord, error) {
	return r.getOne(ctx, "nickname", nickname)
}

func (r *UserRepository) getOne(ctx context.Context, column, value string) (*secondary.UserRecord, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE "+column+" = ?",
		value,
	)

	record, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("user %s: %w", value, secondary.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return record, nil
}

// List retrieves users ordered by nickname.
func (r *UserRepository) List(ctx context.Context, limit int) ([]*secondary.UserRecord, error) {
	query := "SELECT " + userColumns + " FROM users ORDER BY nickname ASC"
	args := []any{}

	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*secondary.UserRecord{}
	for rows.Next() {
		record, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, record)
	}

	return users, rows.Err()
}

// NicknameExists checks whether a nickname is already taken.
func (r *UserRepository) NicknameExists(ctx context.Context, nickname string) (bool, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users WHERE nickname = ?", nickname).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check nickname: %w", err)
	}
	return count > 0, nil
}

func scanUser(row rowScanner) (*secondary.UserRecord, error) {
	var createdAt sqlTime

	record := &secondary.UserRecord{}
	err := row.Scan(&record.ID, &record.Nickname, &record.Name, &record.Surname, &record.AvatarURL, &record.Bio, &createdAt)
	if err != nil {
		return nil, err
	}

	record.CreatedAt = createdAt.Time
	return record, nil
}

// Ensure UserRepository implements the interface
var _ secondary.UserRepository = (*UserRepository)(nil)
