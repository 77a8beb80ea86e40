// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// business logic to services.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/example/whisper/internal/ports/primary"
)

const timeFormat = "2006-01-02 15:04"

var (
	unreadMarker = color.New(color.FgHiMagenta).Sprint("●")
	readMarker   = color.New(color.FgHiBlack).Sprint("○")
	nickColor    = color.New(color.FgCyan)
)

// MessageAdapter translates dm commands to MessageService calls.
type MessageAdapter struct {
	service primary.MessageService
	out     io.Writer
}

// NewMessageAdapter creates a new MessageAdapter with the given service.
func NewMessageAdapter(service primary.MessageService, out io.Writer) *MessageAdapter {
	return &MessageAdapter{
		service: service,
		out:     out,
	}
}

// Send sends a message from senderID to receiverID.
func (a *MessageAdapter) Send(ctx context.Context, senderID, receiverID, text string) error {
	view, err := a.service.SendMessage(ctx, primary.SendMessageRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Text:       text,
	})
	if err != nil {
		if errors.Is(err, primary.ErrStoreUnavailable) {
			return fmt.Errorf("failed to send message: %w", err)
		}
		return err
	}

	fmt.Fprintf(a.out, "✓ Sent %s to %s\n", view.ID, displayName(view.Receiver))
	return nil
}

// Thread prints one page of the conversation between userID and counterpartID.
func (a *MessageAdapter) Thread(ctx context.Context, userID, counterpartID string, limit, offset int) error {
	thread := a.service.GetThread(ctx, primary.ThreadRequest{
		UserID:        userID,
		CounterpartID: counterpartID,
		Limit:         limit,
		Offset:        offset,
	})

	if len(thread.Messages) == 0 {
		fmt.Fprintln(a.out, "No messages in this conversation")
		return nil
	}

	fmt.Fprintln(a.out)
	for _, m := range thread.Messages {
		marker := readMarker
		if m.ReadAt == nil {
			marker = unreadMarker
		}
		fmt.Fprintf(a.out, "%s %s %s: %s\n",
			marker,
			m.CreatedAt.Local().Format(timeFormat),
			displayName(m.Sender),
			m.Text,
		)
	}

	last := thread.Offset + len(thread.Messages)
	fmt.Fprintf(a.out, "\nShowing %d-%d of %d", thread.Offset+1, last, thread.Total)
	if thread.HasMore {
		fmt.Fprintf(a.out, " (next: --offset %d)", last)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Inbox prints the user's conversations, most recently active first.
func (a *MessageAdapter) Inbox(ctx context.Context, userID string) error {
	summaries := a.service.ListConversations(ctx, userID)
	if len(summaries) == 0 {
		fmt.Fprintln(a.out, "No conversations")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-3s %-24s %-17s %-7s %s\n", "", "USER", "LAST", "UNREAD", "MESSAGE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, s := range summaries {
		marker := " "
		if s.UnreadCount > 0 {
			marker = unreadMarker
		}

		preview := s.LastMessage.Text
		if s.LastMessage.SenderID == userID {
			preview = "you: " + preview
		}

		fmt.Fprintf(a.out, "%-3s %-24s %-17s %-7d %s\n",
			marker,
			displayName(s.Counterpart),
			s.LastMessage.CreatedAt.Local().Format(timeFormat),
			s.UnreadCount,
			truncate(preview, 40),
		)
	}
	fmt.Fprintln(a.out)

	return nil
}

// List prints every message the user sent or received, newest first.
func (a *MessageAdapter) List(ctx context.Context, userID string, limit int) error {
	messages, found := a.service.ListMessages(ctx, userID, limit)
	if !found {
		fmt.Fprintln(a.out, "No messages")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-3s %-38s %-17s %-38s %s\n", "", "ID", "SENT", "WITH", "TEXT")
	for _, m := range messages {
		marker := readMarker
		if !m.Read() {
			marker = unreadMarker
		}

		with := "← " + m.SenderID
		if m.SenderID == userID {
			with = "→ " + m.ReceiverID
		}

		fmt.Fprintf(a.out, "%-3s %-38s %-17s %-38s %s\n",
			marker,
			m.ID,
			m.CreatedAt.Local().Format(timeFormat),
			with,
			truncate(m.Text, 40),
		)
	}
	fmt.Fprintln(a.out)

	return nil
}

// Show prints a single message visible to callerID.
func (a *MessageAdapter) Show(ctx context.Context, messageID, callerID string) error {
	view, ok := a.service.GetMessage(ctx, messageID, callerID)
	if !ok {
		return fmt.Errorf("message %s not found", messageID)
	}

	fmt.Fprintf(a.out, "\nMessage: %s\n", view.ID)
	fmt.Fprintf(a.out, "From:    %s\n", displayName(view.Sender))
	fmt.Fprintf(a.out, "To:      %s\n", displayName(view.Receiver))
	fmt.Fprintf(a.out, "Sent:    %s\n", view.CreatedAt.Local().Format(time.RFC1123))
	if view.ReadAt != nil {
		fmt.Fprintf(a.out, "Read:    %s\n", view.ReadAt.Local().Format(time.RFC1123))
	} else {
		fmt.Fprintf(a.out, "Read:    %s unread\n", unreadMarker)
	}
	fmt.Fprintf(a.out, "\n%s\n\n", view.Text)

	return nil
}

// MarkRead marks a message read on behalf of its receiver.
func (a *MessageAdapter) MarkRead(ctx context.Context, messageID, userID string) error {
	if !a.service.MarkMessageRead(ctx, messageID, userID) {
		return fmt.Errorf("message %s not found or not addressed to %s", messageID, userID)
	}

	fmt.Fprintf(a.out, "✓ Marked %s as read\n", messageID)
	return nil
}

// Unread prints how many unread messages the user has.
func (a *MessageAdapter) Unread(ctx context.Context, userID string) error {
	count := a.service.CountUnreadForUser(ctx, userID)
	if count == 0 {
		fmt.Fprintln(a.out, "No unread messages")
		return nil
	}

	fmt.Fprintf(a.out, "%s %d unread\n", unreadMarker, count)
	return nil
}

// Delete removes a message on behalf of its sender.
func (a *MessageAdapter) Delete(ctx context.Context, messageID, userID string) error {
	if !a.service.DeleteMessage(ctx, messageID, userID) {
		return fmt.Errorf("message %s not found or not sent by %s", messageID, userID)
	}

	fmt.Fprintf(a.out, "✓ Deleted %s\n", messageID)
	return nil
}

func displayName(p *primary.UserProfile) string {
	if p == nil {
		return "-"
	}
	if p.Nickname == "" {
		return p.ID
	}
	return nickColor.Sprint("@" + p.Nickname)
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}
