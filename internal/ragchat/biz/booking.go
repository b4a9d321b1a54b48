package biz

import (
	"context"
	"fmt"
	"strings"

	"github.com/kart-io/logger"

	"github.com/kart-io/ragchat/internal/model"
	"github.com/kart-io/ragchat/internal/ragchat/store"
	"github.com/kart-io/ragchat/pkg/llm"
	"github.com/kart-io/ragchat/pkg/utils/json"
)

const bookingExtractionPrompt = `Extract interview booking info from this message if present.
Message: %q

If booking info is present respond ONLY with JSON:
{"name": "John", "email": "john@example.com", "date": "2025-03-15", "time": "10:00"}

If not a booking request respond ONLY with:
{"booking": false}

JSON only, no extra text.`

// BookingExtractor inspects user messages for booking requests and
// persists complete ones. Extraction is best effort: model failures and
// unparseable output yield no booking, never an error for the caller's
// chat turn.
type BookingExtractor struct {
	chat  llm.ChatProvider
	store store.BookingStore
}

// NewBookingExtractor creates a booking extractor.
func NewBookingExtractor(chat llm.ChatProvider, store store.BookingStore) *BookingExtractor {
	return &BookingExtractor{
		chat:  chat,
		store: store,
	}
}

type bookingPayload struct {
	Booking *bool  `json:"booking"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Date    string `json:"date"`
	Time    string `json:"time"`
}

// Detect asks the model whether message contains booking details. A
// booking is saved and returned only when all four fields are present.
// Partial data is dropped, never partially saved.
func (e *BookingExtractor) Detect(ctx context.Context, sessionID, message string) (*model.Booking, error) {
	reply, err := e.chat.Generate(ctx, fmt.Sprintf(bookingExtractionPrompt, message), "")
	if err != nil {
		logger.Warnw("booking extraction call failed", "error", err.Error(), "session_id", sessionID)
		return nil, nil
	}

	payload, ok := parseBookingReply(reply)
	if !ok {
		return nil, nil
	}

	booking := &model.Booking{
		SessionID: sessionID,
		Name:      payload.Name,
		Email:     payload.Email,
		Date:      payload.Date,
		Time:      payload.Time,
	}
	if err := e.store.Create(ctx, booking); err != nil {
		logger.Warnw("failed to save booking", "error", err.Error(), "session_id", sessionID)
		return nil, err
	}

	logger.Infow("booking detected", "session_id", sessionID, "date", payload.Date, "time", payload.Time)
	return booking, nil
}

// parseBookingReply parses the model's JSON reply. Models sometimes wrap
// the JSON in markdown code fences despite the prompt, so those are
// stripped first.
func parseBookingReply(reply string) (*bookingPayload, bool) {
	raw := strings.TrimSpace(reply)
	raw = strings.ReplaceAll(raw, "```json", "")
	raw = strings.ReplaceAll(raw, "```", "")
	raw = strings.TrimSpace(raw)

	var payload bookingPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		logger.Debugw("booking reply is not valid JSON", "reply", raw)
		return nil, false
	}

	if payload.Booking != nil && !*payload.Booking {
		return nil, false
	}
	if payload.Name == "" || payload.Email == "" || payload.Date == "" || payload.Time == "" {
		return nil, false
	}

	return &payload, true
}
