package app

import (
	"context"
	"fmt"
	"strings"

	coreuser "github.com/example/whisper/internal/core/user"
	"github.com/example/whisper/internal/ports/primary"
	"github.com/example/whisper/internal/ports/secondary"
)

// ActionCreateUser is the audit action recorded when a user is registered.
const ActionCreateUser = "create_user"

// UserServiceImpl implements the UserService interface.
type UserServiceImpl struct {
	userRepo secondary.UserRepository
	audit    secondary.AuditLogger
}

// NewUserService creates a new UserService with injected dependencies.
func NewUserService(userRepo secondary.UserRepository, audit secondary.AuditLogger) *UserServiceImpl {
	return &UserServiceImpl{
		userRepo: userRepo,
		audit:    audit,
	}
}

// CreateUser registers a new user.
func (s *UserServiceImpl) CreateUser(ctx context.Context, req primary.CreateUserRequest) (*primary.UserProfile, error) {
	nickname := strings.TrimSpace(req.Nickname)

	taken, err := s.userRepo.NicknameExists(ctx, nickname)
	if err != nil {
		return nil, fmt.Errorf("failed to check nickname: %w", err)
	}

	guardCtx := coreuser.CreateUserContext{
		Nickname:      nickname,
		NicknameTaken: taken,
	}
	if result := coreuser.CanCreateUser(guardCtx); !result.Allowed {
		return nil, result.Error()
	}

	record := &secondary.UserRecord{
		Nickname:  nickname,
		Name:      strings.TrimSpace(req.Name),
		Surname:   strings.TrimSpace(req.Surname),
		AvatarURL: strings.TrimSpace(req.AvatarURL),
		Bio:       strings.TrimSpace(req.Bio),
	}
	if err := s.userRepo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.audit != nil {
		// Best effort, the user exists either way
		_ = s.audit.Record(ctx, secondary.AuditEvent{
			Message:  "User registered",
			UserID:   record.ID,
			Action:   ActionCreateUser,
			Metadata: map[string]any{"nickname": record.Nickname},
		})
	}

	return recordToProfile(record), nil
}

// GetUser retrieves a user by ID.
func (s *UserServiceImpl) GetUser(ctx context.Context, userID string) (*primary.UserProfile, error) {
	record, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return recordToProfile(record), nil
}

// GetUserByNickname retrieves a user by nickname.
func (s *UserServiceImpl) GetUserByNickname(ctx context.Context, nickname string) (*primary.UserProfile, error) {
	record, err := s.userRepo.GetByNickname(ctx, nickname)
	if err != nil {
		return nil, err
	}
	return recordToProfile(record), nil
}

// ListUsers lists users ordered by nickname.
func (s *UserServiceImpl) ListUsers(ctx context.Context, limit int) ([]*primary.UserProfile, error) {
	records, err := s.userRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}

	profiles := make([]*primary.UserProfile, len(records))
	for i, r := range records {
		profiles[i] = recordToProfile(r)
	}
	return profiles, nil
}

func recordToProfile(r *secondary.UserRecord) *primary.UserProfile {
	return &primary.UserProfile{
		ID:        r.ID,
		Nickname:  r.Nickname,
		Name:      r.Name,
		Surname:   r.Surname,
		AvatarURL: r.AvatarURL,
		Bio:       r.Bio,
		CreatedAt: r.CreatedAt,
	}
}

// Ensure UserServiceImpl implements the interface
var _ primary.UserService = (*UserServiceImpl)(nil)
