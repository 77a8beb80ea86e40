package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/example/whisper/internal/ports/primary"
)

// MessageHandler serves the private message routes.
type MessageHandler struct {
	messages primary.MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(messages primary.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

type sendMessageBody struct {
	ReceiverID string `json:"receiverId" binding:"required"`
	Text       string `json:"text" binding:"required"`
}

// Send handles POST /api/private-messages.
func (h *MessageHandler) Send(c *gin.Context) {
	var body sendMessageBody
	if err := c.ShouldBindJSON(&body); err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, "receiverId and text are required")
		return
	}

	view, err := h.messages.SendMessage(c.Request.Context(), primary.SendMessageRequest{
		SenderID:   c.GetString(userIDKey),
		ReceiverID: body.ReceiverID,
		Text:       body.Text,
	})
	switch {
	case errors.Is(err, primary.ErrInvalidMessage):
		fail(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	case errors.Is(err, primary.ErrUnknownUser):
		fail(c, http.StatusNotFound, CodeUserNotFound, "user not found")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, CodeInternal, "could not send message")
		return
	}

	respond(c, http.StatusCreated, view)
}

// Thread handles GET /api/private-messages/conversation/:userId.
func (h *MessageHandler) Thread(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}
	offset, ok := queryInt(c, "offset")
	if !ok {
		return
	}

	view := h.messages.GetThread(c.Request.Context(), primary.ThreadRequest{
		UserID:        c.GetString(userIDKey),
		CounterpartID: c.Param("userId"),
		Limit:         limit,
		Offset:        offset,
	})
	respond(c, http.StatusOK, view)
}

// Conversations handles GET /api/private-messages/conversations.
func (h *MessageHandler) Conversations(c *gin.Context) {
	summaries := h.messages.ListConversations(c.Request.Context(), c.GetString(userIDKey))
	respond(c, http.StatusOK, summaries)
}

// List handles GET /api/private-messages.
func (h *MessageHandler) List(c *gin.Context) {
	limit, ok := queryInt(c, "limit")
	if !ok {
		return
	}

	messages, hasMessages := h.messages.ListMessages(c.Request.Context(), c.GetString(userIDKey), limit)
	respond(c, http.StatusOK, gin.H{
		"messages":    messages,
		"hasMessages": hasMessages,
	})
}

// Unread handles GET /api/private-messages/unread.
func (h *MessageHandler) Unread(c *gin.Context) {
	count := h.messages.CountUnreadForUser(c.Request.Context(), c.GetString(userIDKey))
	respond(c, http.StatusOK, gin.H{"unread": count})
}

// Get handles GET /api/private-messages/:id.
func (h *MessageHandler) Get(c *gin.Context) {
	view, ok := h.messages.GetMessage(c.Request.Context(), c.Param("id"), c.GetString(userIDKey))
	if !ok {
		fail(c, http.StatusNotFound, CodeMessageNotFound, "message not found")
		return
	}
	respond(c, http.StatusOK, view)
}

// MarkRead handles PUT /api/private-messages/:id/read.
// Messages the caller did not receive are reported as not found.
func (h *MessageHandler) MarkRead(c *gin.Context) {
	id := c.Param("id")
	if !h.messages.MarkMessageRead(c.Request.Context(), id, c.GetString(userIDKey)) {
		fail(c, http.StatusNotFound, CodeMessageNotFound, "message not found")
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id, "read": true})
}

// Delete handles DELETE /api/private-messages/:id.
// Messages the caller did not send are reported as not found.
func (h *MessageHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if !h.messages.DeleteMessage(c.Request.Context(), id, c.GetString(userIDKey)) {
		fail(c, http.StatusNotFound, CodeMessageNotFound, "message not found")
		return
	}
	respond(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

// queryInt reads an optional integer query parameter. It writes a 400 and
// returns false when the value is malformed.
func queryInt(c *gin.Context, name string) (int, bool) {
	raw := c.Query(name)
	if raw == "" {
		return 0, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		fail(c, http.StatusBadRequest, CodeValidation, name+" must be an integer")
		return 0, false
	}
	return v, true
}
