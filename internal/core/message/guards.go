// Package message contains the pure business logic for private messaging.
// Guards are pure functions that evaluate preconditions without side effects.
package message

import (
	"errors"
	"strings"
	"unicode/utf8"
)

// MaxTextLength is the longest message text accepted, in characters.
const MaxTextLength = 1000

// Validation failures. Each GuardResult that denies a send carries one of these.
var (
	ErrMissingParticipant = errors.New("sender and receiver are required")
	ErrEmptyText          = errors.New("message text cannot be empty")
	ErrTextTooLong        = errors.New("message text cannot exceed 1000 characters")
	ErrSelfMessage        = errors.New("cannot send a private message to yourself")
	ErrUnknownParticipant = errors.New("sender or receiver does not exist")
)

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
	Err     error
}

// Error converts the guard result to an error if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	if r.Err != nil {
		return r.Err
	}
	return errors.New(r.Reason)
}

func deny(err error) GuardResult {
	return GuardResult{Allowed: false, Reason: err.Error(), Err: err}
}

// SendContext provides context for message send guards.
// Text is expected to be normalised already (see NormalizeText).
type SendContext struct {
	SenderID       string
	ReceiverID     string
	Text           string
	SenderExists   bool
	ReceiverExists bool
}

// NormalizeText strips surrounding whitespace from message text.
func NormalizeText(text string) string {
	return strings.TrimSpace(text)
}

// ValidateMessage evaluates the rules that need no lookups.
// Rules:
// - Sender and receiver must be given
// - Text must be non-empty and at most MaxTextLength characters
// - Sender and receiver must differ
func ValidateMessage(ctx SendContext) GuardResult {
	if ctx.SenderID == "" || ctx.ReceiverID == "" {
		return deny(ErrMissingParticipant)
	}
	if ctx.Text == "" {
		return deny(ErrEmptyText)
	}
	if utf8.RuneCountInString(ctx.Text) > MaxTextLength {
		return deny(ErrTextTooLong)
	}
	if ctx.SenderID == ctx.ReceiverID {
		return deny(ErrSelfMessage)
	}
	return GuardResult{Allowed: true}
}

// CanSendMessage evaluates whether a message can be created.
// Rules:
// - Everything ValidateMessage checks
// - Both participants must resolve to existing users
func CanSendMessage(ctx SendContext) GuardResult {
	if result := ValidateMessage(ctx); !result.Allowed {
		return result
	}
	if !ctx.SenderExists || !ctx.ReceiverExists {
		return deny(ErrUnknownParticipant)
	}
	return GuardResult{Allowed: true}
}

// CanViewMessage reports whether the caller took part in the message.
func CanViewMessage(callerID, senderID, receiverID string) bool {
	return callerID != "" && (callerID == senderID || callerID == receiverID)
}
