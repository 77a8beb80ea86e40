package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/whisper/internal/ports/primary"
)

// UserAdapter translates user commands to UserService calls.
type UserAdapter struct {
	service primary.UserService
	out     io.Writer
}

// NewUserAdapter creates a new UserAdapter with the given service.
func NewUserAdapter(service primary.UserService, out io.Writer) *UserAdapter {
	return &UserAdapter{
		service: service,
		out:     out,
	}
}

// Add registers a new user.
func (a *UserAdapter) Add(ctx context.Context, req primary.CreateUserRequest) error {
	user, err := a.service.CreateUser(ctx, req)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "✓ Created user %s: %s\n", user.ID, displayName(user))
	return nil
}

// List lists users ordered by nickname.
func (a *UserAdapter) List(ctx context.Context, limit int) error {
	users, err := a.service.ListUsers(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	if len(users) == 0 {
		fmt.Fprintln(a.out, "No users found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-38s %-20s %s\n", "ID", "NICKNAME", "NAME")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, u := range users {
		fmt.Fprintf(a.out, "%-38s %-20s %s\n", u.ID, u.Nickname, fullName(u))
	}
	fmt.Fprintln(a.out)

	return nil
}

// Show displays a user looked up by id, or by nickname when ref starts with '@'.
func (a *UserAdapter) Show(ctx context.Context, ref string) error {
	var (
		user *primary.UserProfile
		err  error
	)
	if len(ref) > 1 && ref[0] == '@' {
		user, err = a.service.GetUserByNickname(ctx, ref[1:])
	} else {
		user, err = a.service.GetUser(ctx, ref)
	}
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	fmt.Fprintf(a.out, "\nUser:     %s\n", user.ID)
	fmt.Fprintf(a.out, "Nickname: %s\n", user.Nickname)
	if name := fullName(user); name != "" {
		fmt.Fprintf(a.out, "Name:     %s\n", name)
	}
	if user.AvatarURL != "" {
		fmt.Fprintf(a.out, "Avatar:   %s\n", user.AvatarURL)
	}
	if user.Bio != "" {
		fmt.Fprintf(a.out, "Bio:      %s\n", user.Bio)
	}
	fmt.Fprintf(a.out, "Joined:   %s\n\n", user.CreatedAt.Local().Format(timeFormat))

	return nil
}

func fullName(u *primary.UserProfile) string {
	switch {
	case u.Name != "" && u.Surname != "":
		return u.Name + " " + u.Surname
	case u.Name != "":
		return u.Name
	default:
		return u.Surname
	}
}
