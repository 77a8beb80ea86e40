// Package user contains the pure business logic for user profiles.
package user

import (
	"fmt"
	"regexp"
)

var nicknamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{3,50}$`)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return fmt.Errorf("%s", r.Reason)
}

// CreateUserContext provides context for user creation guards.
type CreateUserContext struct {
	Nickname      string
	NicknameTaken bool
}

// CanCreateUser evaluates whether a user can be created.
// Rules:
// - Nickname is 3-50 letters, digits or underscores
// - Nickname is not already taken
func CanCreateUser(ctx CreateUserContext) GuardResult {
	if !nicknamePattern.MatchString(ctx.Nickname) {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("invalid nickname %q: use 3-50 letters, digits or underscores", ctx.Nickname),
		}
	}

	if ctx.NicknameTaken {
		return GuardResult{
			Allowed: false,
			Reason:  fmt.Sprintf("nickname %s is already taken", ctx.Nickname),
		}
	}

	return GuardResult{Allowed: true}
}
