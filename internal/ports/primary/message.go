package primary

import (
	"context"
	"errors"
	"time"
)

// Errors returned by MessageService.SendMessage. Validation failures wrap
// ErrInvalidMessage together with the specific rule that failed.
var (
	ErrInvalidMessage   = errors.New("invalid message")
	ErrUnknownUser      = errors.New("unknown user")
	ErrStoreUnavailable = errors.New("message store unavailable")
)

// MessageService defines the primary port for private messaging.
//
// Apart from SendMessage, operations never return errors: not-found and
// authorization outcomes are false/empty results, and store failures degrade
// to the same empty results after being logged and counted.
type MessageService interface {
	// SendMessage validates and stores a message, returning its hydrated view.
	// No record is written when an error is returned.
	SendMessage(ctx context.Context, req SendMessageRequest) (*MessageView, error)

	// GetThread returns one page of the conversation between two users, oldest
	// first. Viewing the thread marks the counterpart's messages to the user as read.
	GetThread(ctx context.Context, req ThreadRequest) *ThreadView

	// ListConversations returns one summary per counterpart, most recently active first.
	ListConversations(ctx context.Context, userID string) []*ConversationSummary

	// ListMessages returns every message the user sent or received, newest first.
	// A limit of 0 means unbounded. The bool reports whether any message exists.
	ListMessages(ctx context.Context, userID string, limit int) ([]*Message, bool)

	// GetMessage returns a message visible to the caller (its sender or receiver).
	GetMessage(ctx context.Context, messageID, callerID string) (*MessageView, bool)

	// MarkMessageRead marks a message read on behalf of its receiver.
	MarkMessageRead(ctx context.Context, messageID, userID string) bool

	// CountUnreadForUser counts unread messages addressed to the user.
	CountUnreadForUser(ctx context.Context, userID string) int

	// DeleteMessage permanently removes a message on behalf of its sender.
	DeleteMessage(ctx context.Context, messageID, userID string) bool

	// StoreFailures reports how many store failures have been absorbed so far.
	StoreFailures() int64
}

// SendMessageRequest contains parameters for sending a message.
type SendMessageRequest struct {
	SenderID   string
	ReceiverID string
	Text       string
}

// ThreadRequest contains parameters for reading a thread.
// Limit <= 0 selects the default page size.
type ThreadRequest struct {
	UserID        string
	CounterpartID string
	Limit         int
	Offset        int
}

// Message represents a private message at the port boundary, referencing users by id.
type Message struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	SenderID   string     `json:"senderId"`
	ReceiverID string     `json:"receiverId"`
	CreatedAt  time.Time  `json:"createdAt"`
	ReadAt     *time.Time `json:"readAt"`
}

// Read reports whether the message has been read.
func (m *Message) Read() bool {
	return m.ReadAt != nil
}

// MessageView is a message with sender and receiver resolved to profile snapshots.
type MessageView struct {
	ID        string       `json:"id"`
	Text      string       `json:"text"`
	Sender    *UserProfile `json:"sender"`
	Receiver  *UserProfile `json:"receiver"`
	CreatedAt time.Time    `json:"createdAt"`
	ReadAt    *time.Time   `json:"readAt"`
}

// ThreadView is one page of a conversation.
type ThreadView struct {
	Messages []*MessageView `json:"messages"`
	Total    int            `json:"total"`
	Limit    int            `json:"limit"`
	Offset   int            `json:"offset"`
	HasMore  bool           `json:"hasMore"`
}

// ConversationSummary is one row of a user's inbox.
type ConversationSummary struct {
	Counterpart *UserProfile `json:"user"`
	LastMessage *Message     `json:"lastMessage"`
	UnreadCount int          `json:"unreadCount"`
}
