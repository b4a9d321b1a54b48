package biz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/ragchat/internal/model"
	"github.com/kart-io/ragchat/pkg/llm"
)

type scriptedChat struct {
	reply string
	err   error
	calls int
}

func (s *scriptedChat) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	s.calls++
	return s.reply, s.err
}

func (s *scriptedChat) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	s.calls++
	return s.reply, s.err
}

func (s *scriptedChat) Name() string { return "scripted" }

type fakeBookingStore struct {
	created []*model.Booking
}

func (f *fakeBookingStore) Create(ctx context.Context, booking *model.Booking) error {
	f.created = append(f.created, booking)
	return nil
}

func (f *fakeBookingStore) ListBySession(ctx context.Context, sessionID string) ([]*model.Booking, error) {
	var out []*model.Booking
	for _, b := range f.created {
		if b.SessionID == sessionID {
			out = append(out, b)
		}
	}
	return out, nil
}

func TestBookingDetectComplete(t *testing.T) {
	chat := &scriptedChat{reply: `{"name": "John", "email": "john@example.com", "date": "2025-03-15", "time": "10:00"}`}
	bookings := &fakeBookingStore{}
	extractor := NewBookingExtractor(chat, bookings)

	booking, err := extractor.Detect(context.Background(), "sess-1", "Book me for 2025-03-15 at 10:00, I'm John, john@example.com")
	require.NoError(t, err)
	require.NotNil(t, booking)
	assert.Equal(t, "sess-1", booking.SessionID)
	assert.Equal(t, "John", booking.Name)
	assert.Equal(t, "john@example.com", booking.Email)
	assert.Equal(t, "2025-03-15", booking.Date)
	assert.Equal(t, "10:00", booking.Time)
	require.Len(t, bookings.created, 1)
}

func TestBookingDetectCodeFencedReply(t *testing.T) {
	chat := &scriptedChat{reply: "```json\n{\"name\": \"Ana\", \"email\": \"ana@example.com\", \"date\": \"2025-04-01\", \"time\": \"09:30\"}\n```"}
	bookings := &fakeBookingStore{}
	extractor := NewBookingExtractor(chat, bookings)

	booking, err := extractor.Detect(context.Background(), "sess-1", "book Ana")
	require.NoError(t, err)
	require.NotNil(t, booking)
	assert.Equal(t, "Ana", booking.Name)
}

func TestBookingDetectAbsenceMarker(t *testing.T) {
	chat := &scriptedChat{reply: `{"booking": false}`}
	bookings := &fakeBookingStore{}
	extractor := NewBookingExtractor(chat, bookings)

	booking, err := extractor.Detect(context.Background(), "sess-1", "What's the weather?")
	require.NoError(t, err)
	assert.Nil(t, booking)
	assert.Empty(t, bookings.created)
}

func TestBookingDetectPartialFields(t *testing.T) {
	chat := &scriptedChat{reply: `{"name": "John", "date": "2025-03-15"}`}
	bookings := &fakeBookingStore{}
	extractor := NewBookingExtractor(chat, bookings)

	booking, err := extractor.Detect(context.Background(), "sess-1", "book John on the 15th")
	require.NoError(t, err)
	assert.Nil(t, booking)
	assert.Empty(t, bookings.created)
}

func TestBookingDetectInvalidJSON(t *testing.T) {
	chat := &scriptedChat{reply: "Sure, I'd be happy to help with that booking!"}
	bookings := &fakeBookingStore{}
	extractor := NewBookingExtractor(chat, bookings)

	booking, err := extractor.Detect(context.Background(), "sess-1", "book me in")
	require.NoError(t, err)
	assert.Nil(t, booking)
	assert.Empty(t, bookings.created)
}

func TestBookingDetectModelError(t *testing.T) {
	chat := &scriptedChat{err: assert.AnError}
	bookings := &fakeBookingStore{}
	extractor := NewBookingExtractor(chat, bookings)

	booking, err := extractor.Detect(context.Background(), "sess-1", "book me in")
	require.NoError(t, err)
	assert.Nil(t, booking)
}
