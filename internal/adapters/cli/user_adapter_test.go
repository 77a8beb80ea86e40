package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/example/whisper/internal/ports/primary"
)

// mockUserService implements primary.UserService for testing
type mockUserService struct {
	createFn func(ctx context.Context, req primary.CreateUserRequest) (*primary.UserProfile, error)
	users    []*primary.UserProfile
	listErr  error

	lastNickname string
	lastID       string
}

func (m *mockUserService) CreateUser(ctx context.Context, req primary.CreateUserRequest) (*primary.UserProfile, error) {
	if m.createFn != nil {
		return m.createFn(ctx, req)
	}
	return &primary.UserProfile{ID: "U-1", Nickname: req.Nickname, Name: req.Name}, nil
}

func (m *mockUserService) GetUser(ctx context.Context, userID string) (*primary.UserProfile, error) {
	m.lastID = userID
	for _, u := range m.users {
		if u.ID == userID {
			return u, nil
		}
	}
	return nil, errors.New("user not found")
}

func (m *mockUserService) GetUserByNickname(ctx context.Context, nickname string) (*primary.UserProfile, error) {
	m.lastNickname = nickname
	for _, u := range m.users {
		if u.Nickname == nickname {
			return u, nil
		}
	}
	return nil, errors.New("user not found")
}

func (m *mockUserService) ListUsers(ctx context.Context, limit int) ([]*primary.UserProfile, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.users, nil
}

func TestUserAdapter_Add(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewUserAdapter(&mockUserService{}, &buf)

	err := adapter.Add(context.Background(), primary.CreateUserRequest{Nickname: "ana", Name: "Ana"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "Created user U-1: @ana") {
		t.Errorf("expected confirmation, got: %s", buf.String())
	}
}

func TestUserAdapter_Add_Error(t *testing.T) {
	mock := &mockUserService{
		createFn: func(ctx context.Context, req primary.CreateUserRequest) (*primary.UserProfile, error) {
			return nil, errors.New("nickname ana is already taken")
		},
	}
	var buf bytes.Buffer
	adapter := NewUserAdapter(mock, &buf)

	err := adapter.Add(context.Background(), primary.CreateUserRequest{Nickname: "ana"})
	if err == nil || !strings.Contains(err.Error(), "already taken") {
		t.Errorf("expected guard error, got: %v", err)
	}
}

func TestUserAdapter_List(t *testing.T) {
	tests := []struct {
		name    string
		users   []*primary.UserProfile
		listErr error
		want    []string
		wantErr bool
	}{
		{
			name: "lists users",
			users: []*primary.UserProfile{
				{ID: "U-1", Nickname: "ana", Name: "Ana", Surname: "Ruiz"},
				{ID: "U-2", Nickname: "bruno", Surname: "Costa"},
			},
			want: []string{"U-1", "Ana Ruiz", "bruno", "Costa"},
		},
		{
			name:  "empty",
			users: nil,
			want:  []string{"No users found"},
		},
		{
			name:    "store error",
			listErr: errors.New("database is locked"),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			adapter := NewUserAdapter(&mockUserService{users: tt.users, listErr: tt.listErr}, &buf)

			err := adapter.List(context.Background(), 50)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(buf.String(), w) {
					t.Errorf("expected %q in output, got: %s", w, buf.String())
				}
			}
		})
	}
}

func TestUserAdapter_Show(t *testing.T) {
	mock := &mockUserService{
		users: []*primary.UserProfile{
			{ID: "U-1", Nickname: "ana", Name: "Ana", Bio: "hola"},
		},
	}
	var buf bytes.Buffer
	adapter := NewUserAdapter(mock, &buf)

	if err := adapter.Show(context.Background(), "@ana"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.lastNickname != "ana" {
		t.Errorf("expected nickname lookup, got %q", mock.lastNickname)
	}
	if !strings.Contains(buf.String(), "Bio:      hola") {
		t.Errorf("expected bio, got: %s", buf.String())
	}

	buf.Reset()
	if err := adapter.Show(context.Background(), "U-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mock.lastID != "U-1" {
		t.Errorf("expected id lookup, got %q", mock.lastID)
	}

	if err := adapter.Show(context.Background(), "U-9"); err == nil {
		t.Error("expected error for unknown user")
	}
}
