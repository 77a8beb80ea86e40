package app

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"unicode/utf8"

	"github.com/example/whisper/internal/core/message"
	"github.com/example/whisper/internal/ctxutil"
	"github.com/example/whisper/internal/logger"
	"github.com/example/whisper/internal/ports/primary"
	"github.com/example/whisper/internal/ports/secondary"
)

// Audit actions recorded by the messaging service.
const (
	ActionSendMessage   = "send_private_message"
	ActionReadMessage   = "read_private_message"
	ActionDeleteMessage = "delete_private_message"
)

// MessageServiceImpl implements the MessageService interface.
//
// Store failures never reach callers: each one is logged, counted, and turned
// into the empty result of the operation (see StoreFailures).
type MessageServiceImpl struct {
	messageRepo   secondary.MessageRepository
	userRepo      secondary.UserRepository
	audit         secondary.AuditLogger
	limits        message.PageLimits
	storeFailures atomic.Int64
}

// NewMessageService creates a new MessageService with injected dependencies.
// audit may be nil, in which case no audit entries are written.
func NewMessageService(messageRepo secondary.MessageRepository, userRepo secondary.UserRepository, audit secondary.AuditLogger, limits message.PageLimits) *MessageServiceImpl {
	return &MessageServiceImpl{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		audit:       audit,
		limits:      limits,
	}
}

// SendMessage validates and stores a message.
func (s *MessageServiceImpl) SendMessage(ctx context.Context, req primary.SendMessageRequest) (*primary.MessageView, error) {
	text := message.NormalizeText(req.Text)
	guardCtx := message.SendContext{
		SenderID:   req.SenderID,
		ReceiverID: req.ReceiverID,
		Text:       text,
	}

	if result := message.ValidateMessage(guardCtx); !result.Allowed {
		return nil, fmt.Errorf("%w: %w", primary.ErrInvalidMessage, result.Error())
	}

	sender, found, err := s.resolveUser(ctx, req.SenderID)
	if err != nil {
		s.storeFailed(ctx, "send_message", err)
		return nil, fmt.Errorf("%w: %w", primary.ErrStoreUnavailable, err)
	}
	guardCtx.SenderExists = found

	receiver, found, err := s.resolveUser(ctx, req.ReceiverID)
	if err != nil {
		s.storeFailed(ctx, "send_message", err)
		return nil, fmt.Errorf("%w: %w", primary.ErrStoreUnavailable, err)
	}
	guardCtx.ReceiverExists = found

	if result := message.CanSendMessage(guardCtx); !result.Allowed {
		return nil, fmt.Errorf("%w: %w", primary.ErrUnknownUser, result.Error())
	}

	record, err := s.messageRepo.Create(ctx, text, req.SenderID, req.ReceiverID)
	if err != nil {
		s.storeFailed(ctx, "send_message", err)
		return nil, fmt.Errorf("%w: %w", primary.ErrStoreUnavailable, err)
	}

	// Content is never audited, only its length
	s.recordAudit(ctx, secondary.AuditEvent{
		Message: "Private message sent",
		UserID:  req.SenderID,
		Action:  ActionSendMessage,
		Metadata: map[string]any{
			"message_id":  record.ID,
			"receiver_id": req.ReceiverID,
			"text_length": utf8.RuneCountInString(text),
		},
	})

	return withProfiles(record, recordToProfile(sender), recordToProfile(receiver)), nil
}

// GetThread returns one page of the conversation and marks the counterpart's
// messages to the user as read.
func (s *MessageServiceImpl) GetThread(ctx context.Context, req primary.ThreadRequest) *primary.ThreadView {
	limit, offset := message.NormalizePage(req.Limit, req.Offset, s.limits)
	empty := &primary.ThreadView{
		Messages: []*primary.MessageView{},
		Limit:    limit,
		Offset:   offset,
	}

	user, found, err := s.resolveUser(ctx, req.UserID)
	if err != nil {
		s.storeFailed(ctx, "get_thread", err)
		return empty
	}
	if !found {
		return empty
	}

	counterpart, found, err := s.resolveUser(ctx, req.CounterpartID)
	if err != nil {
		s.storeFailed(ctx, "get_thread", err)
		return empty
	}
	if !found {
		return empty
	}

	records, total, err := s.messageRepo.Thread(ctx, req.UserID, req.CounterpartID, limit, offset)
	if err != nil {
		s.storeFailed(ctx, "get_thread", err)
		return empty
	}

	profiles := map[string]*primary.UserProfile{
		user.ID:        recordToProfile(user),
		counterpart.ID: recordToProfile(counterpart),
	}
	views := make([]*primary.MessageView, len(records))
	for i, r := range records {
		views[i] = withProfiles(r, profiles[r.SenderID], profiles[r.ReceiverID])
	}

	// Viewing a thread clears its unread state. The page is built before the
	// sweep, so it still shows which messages were unread when opened.
	if _, err := s.messageRepo.MarkAllReadFromSender(ctx, req.CounterpartID, req.UserID); err != nil {
		s.storeFailed(ctx, "mark_thread_read", err)
	}

	return &primary.ThreadView{
		Messages: views,
		Total:    total,
		Limit:    limit,
		Offset:   offset,
		HasMore:  message.HasMore(offset, limit, total),
	}
}

// ListConversations returns one summary per counterpart, most recently active first.
func (s *MessageServiceImpl) ListConversations(ctx context.Context, userID string) []*primary.ConversationSummary {
	empty := []*primary.ConversationSummary{}

	_, found, err := s.resolveUser(ctx, userID)
	if err != nil {
		s.storeFailed(ctx, "list_conversations", err)
		return empty
	}
	if !found {
		return empty
	}

	latest, err := s.messageRepo.LatestPerCounterpart(ctx, userID)
	if err != nil {
		s.storeFailed(ctx, "list_conversations", err)
		return empty
	}
	latest = message.FirstPerCounterpart(userID, latest, participants)

	summaries := make([]*primary.ConversationSummary, 0, len(latest))
	for _, record := range latest {
		counterpartID := message.Counterpart(userID, record.SenderID, record.ReceiverID)

		counterpart, found, err := s.resolveUser(ctx, counterpartID)
		if err != nil {
			s.storeFailed(ctx, "list_conversations", err)
			return empty
		}
		if !found {
			continue
		}

		unread, err := s.messageRepo.CountUnread(ctx, counterpartID, userID)
		if err != nil {
			s.storeFailed(ctx, "list_conversations", err)
			return empty
		}

		summaries = append(summaries, &primary.ConversationSummary{
			Counterpart: recordToProfile(counterpart),
			LastMessage: recordToMessage(record),
			UnreadCount: unread,
		})
	}

	return summaries
}

// ListMessages returns every message the user sent or received, newest first.
func (s *MessageServiceImpl) ListMessages(ctx context.Context, userID string, limit int) ([]*primary.Message, bool) {
	records, err := s.messageRepo.MessagesForUser(ctx, userID, limit)
	if err != nil {
		s.storeFailed(ctx, "list_messages", err)
		return []*primary.Message{}, false
	}

	messages := make([]*primary.Message, len(records))
	for i, r := range records {
		messages[i] = recordToMessage(r)
	}
	return messages, len(messages) > 0
}

// GetMessage returns a message if the caller sent or received it.
func (s *MessageServiceImpl) GetMessage(ctx context.Context, messageID, callerID string) (*primary.MessageView, bool) {
	record, err := s.messageRepo.GetByID(ctx, messageID)
	if errors.Is(err, secondary.ErrNotFound) {
		return nil, false
	}
	if err != nil {
		s.storeFailed(ctx, "get_message", err)
		return nil, false
	}

	if !message.CanViewMessage(callerID, record.SenderID, record.ReceiverID) {
		return nil, false
	}

	sender, err := s.profileOrStub(ctx, record.SenderID)
	if err != nil {
		s.storeFailed(ctx, "get_message", err)
		return nil, false
	}
	receiver, err := s.profileOrStub(ctx, record.ReceiverID)
	if err != nil {
		s.storeFailed(ctx, "get_message", err)
		return nil, false
	}

	return withProfiles(record, sender, receiver), true
}

// MarkMessageRead marks a message read on behalf of its receiver.
func (s *MessageServiceImpl) MarkMessageRead(ctx context.Context, messageID, userID string) bool {
	ok, err := s.messageRepo.MarkRead(ctx, messageID, userID)
	if err != nil {
		s.storeFailed(ctx, "mark_read", err)
		return false
	}

	if ok {
		s.recordAudit(ctx, secondary.AuditEvent{
			Message:  "Private message marked as read",
			UserID:   userID,
			Action:   ActionReadMessage,
			Metadata: map[string]any{"message_id": messageID},
		})
	}
	return ok
}

// CountUnreadForUser counts unread messages addressed to the user.
func (s *MessageServiceImpl) CountUnreadForUser(ctx context.Context, userID string) int {
	count, err := s.messageRepo.CountUnreadTotal(ctx, userID)
	if err != nil {
		s.storeFailed(ctx, "count_unread", err)
		return 0
	}
	return count
}

// DeleteMessage permanently removes a message on behalf of its sender.
func (s *MessageServiceImpl) DeleteMessage(ctx context.Context, messageID, userID string) bool {
	ok, err := s.messageRepo.Delete(ctx, messageID, userID)
	if err != nil {
		s.storeFailed(ctx, "delete_message", err)
		return false
	}

	if ok {
		s.recordAudit(ctx, secondary.AuditEvent{
			Message:  "Private message deleted",
			UserID:   userID,
			Action:   ActionDeleteMessage,
			Metadata: map[string]any{"message_id": messageID},
		})
	}
	return ok
}

// StoreFailures reports how many store failures have been absorbed.
func (s *MessageServiceImpl) StoreFailures() int64 {
	return s.storeFailures.Load()
}

// Helper methods

// resolveUser looks a user up. A missing user is (nil, false, nil); only
// store failures return an error.
func (s *MessageServiceImpl) resolveUser(ctx context.Context, userID string) (*secondary.UserRecord, bool, error) {
	record, err := s.userRepo.GetByID(ctx, userID)
	if errors.Is(err, secondary.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return record, true, nil
}

// profileOrStub resolves a profile, falling back to an id-only snapshot.
func (s *MessageServiceImpl) profileOrStub(ctx context.Context, userID string) (*primary.UserProfile, error) {
	record, found, err := s.resolveUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !found {
		return &primary.UserProfile{ID: userID}, nil
	}
	return recordToProfile(record), nil
}

func (s *MessageServiceImpl) storeFailed(ctx context.Context, op string, err error) {
	s.storeFailures.Add(1)
	logger.Error().
		Err(err).
		Str("op", op).
		Str("actor", ctxutil.ActorFromContext(ctx)).
		Str("outcome", "store_unavailable").
		Msg("message store failure")
}

func (s *MessageServiceImpl) recordAudit(ctx context.Context, event secondary.AuditEvent) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Record(ctx, event); err != nil {
		logger.Warn().
			Err(err).
			Str("action", event.Action).
			Msg("failed to write audit entry")
	}
}

func participants(r *secondary.MessageRecord) (string, string) {
	return r.SenderID, r.ReceiverID
}

func recordToMessage(r *secondary.MessageRecord) *primary.Message {
	return &primary.Message{
		ID:         r.ID,
		Text:       r.Text,
		SenderID:   r.SenderID,
		ReceiverID: r.ReceiverID,
		CreatedAt:  r.CreatedAt,
		ReadAt:     r.ReadAt,
	}
}

// withProfiles is the only place a stored message meets user profiles.
func withProfiles(r *secondary.MessageRecord, sender, receiver *primary.UserProfile) *primary.MessageView {
	return &primary.MessageView{
		ID:        r.ID,
		Text:      r.Text,
		Sender:    sender,
		Receiver:  receiver,
		CreatedAt: r.CreatedAt,
		ReadAt:    r.ReadAt,
	}
}

// Ensure MessageServiceImpl implements the interface
var _ primary.MessageService = (*MessageServiceImpl)(nil)
