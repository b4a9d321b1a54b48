package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kart-io/ragchat/internal/pkg/httputils"
	"github.com/kart-io/ragchat/internal/ragchat/biz"
	"github.com/kart-io/ragchat/pkg/utils/errors"
)

// chatTimeout bounds one conversation turn, generation included.
const chatTimeout = 60 * time.Second

// ChatHandler handles conversation requests.
type ChatHandler struct {
	service biz.Service
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(service biz.Service) *ChatHandler {
	return &ChatHandler{service: service}
}

// MessageRequest is a chat turn request.
type MessageRequest struct {
	SessionID string `json:"session_id" binding:"required"`
	Message   string `json:"message" binding:"required"`
}

// MessageResponse is a chat turn response.
type MessageResponse struct {
	SessionID       string      `json:"session_id"`
	Reply           string      `json:"reply"`
	BookingDetected bool        `json:"booking_detected"`
	Sources         interface{} `json:"sources,omitempty"`
}

// Message runs one conversation turn.
func (h *ChatHandler) Message(c *gin.Context) {
	var req MessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputils.WriteResponse(c, errors.ErrChatInvalidRequest.WithCause(err), nil)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), chatTimeout)
	defer cancel()

	answer, err := h.service.Chat(ctx, req.SessionID, req.Message)
	if err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			httputils.WriteResponse(c, errors.ErrTimeout.WithMessage("the chat turn took too long, please try again"), nil)
			return
		}
		httputils.WriteResponse(c, errors.ErrChatAnswerFailed.WithCause(err), nil)
		return
	}

	httputils.WriteResponse(c, nil, MessageResponse{
		SessionID:       req.SessionID,
		Reply:           answer.Answer,
		BookingDetected: answer.Booking != nil,
		Sources:         answer.Sources,
	})
}

// History returns the conversation history for a session.
func (h *ChatHandler) History(c *gin.Context) {
	sessionID := c.Param("session_id")

	history, err := h.service.History(c.Request.Context(), sessionID)
	if err != nil {
		httputils.WriteResponse(c, errors.ErrChatMemoryFailed.WithCause(err), nil)
		return
	}

	httputils.WriteResponse(c, nil, gin.H{
		"session_id": sessionID,
		"history":    history,
	})
}

// ClearHistory removes the conversation history for a session.
func (h *ChatHandler) ClearHistory(c *gin.Context) {
	sessionID := c.Param("session_id")

	if err := h.service.ClearHistory(c.Request.Context(), sessionID); err != nil {
		httputils.WriteResponse(c, errors.ErrChatMemoryFailed.WithCause(err), nil)
		return
	}

	httputils.WriteResponse(c, nil, gin.H{"session_id": sessionID, "cleared": true})
}
