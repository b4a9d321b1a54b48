package biz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/ragchat/pkg/llm"
)

// sequenceChat returns queued replies in order.
type sequenceChat struct {
	replies []string
	calls   int
}

func (s *sequenceChat) next() (string, error) {
	if s.calls >= len(s.replies) {
		return "", assert.AnError
	}
	reply := s.replies[s.calls]
	s.calls++
	return reply, nil
}

func (s *sequenceChat) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	return s.next()
}

func (s *sequenceChat) Generate(ctx context.Context, prompt, systemPrompt string) (string, error) {
	return s.next()
}

func (s *sequenceChat) Name() string { return "sequence" }

func setupService(t *testing.T, chat llm.ChatProvider) (Service, *fakeBookingStore) {
	t.Helper()

	vectors := newMemoryVectorStore()
	embedder := &fakeEmbedder{dim: 8}
	docs := setupDocumentStore(t)
	bookings := &fakeBookingStore{}
	memory := newFakeMemory()

	chunker, err := NewChunker(&ChunkerConfig{ChunkSize: 100, ChunkOverlap: 10, MaxSentences: 3})
	require.NoError(t, err)

	ingestor, err := NewIngestor(context.Background(), &IngestorConfig{
		Collection:   "test_chunks",
		EmbeddingDim: 8,
	}, chunker, embedder, vectors, docs)
	require.NoError(t, err)

	engine := NewEngine(&EngineConfig{
		Collection:   "test_chunks",
		TopK:         3,
		SystemPrompt: "You are a helpful AI assistant.",
	}, embedder, chat, vectors, memory)

	extractor := NewBookingExtractor(chat, bookings)

	return NewService("test_chunks", ingestor, engine, extractor, memory, vectors), bookings
}

func TestServiceChatWithBooking(t *testing.T) {
	chat := &sequenceChat{replies: []string{
		"Sure, I've noted your interview details.",
		`{"name": "John", "email": "john@example.com", "date": "2025-03-15", "time": "10:00"}`,
	}}
	svc, bookings := setupService(t, chat)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "kb.txt", "Interviews run weekdays between 9am and 5pm.", StrategyFixed)
	require.NoError(t, err)

	answer, err := svc.Chat(ctx, "sess-1", "Book me for 2025-03-15 at 10:00, I'm John, john@example.com")
	require.NoError(t, err)
	assert.Equal(t, "Sure, I've noted your interview details.", answer.Answer)
	require.NotNil(t, answer.Booking)
	assert.Equal(t, "John", answer.Booking.Name)
	require.Len(t, bookings.created, 1)

	// The booking turn is part of the history like any other.
	history, err := svc.History(ctx, "sess-1")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestServiceChatWithoutBooking(t *testing.T) {
	chat := &sequenceChat{replies: []string{
		"We are open 9am to 5pm.",
		`{"booking": false}`,
	}}
	svc, bookings := setupService(t, chat)
	ctx := context.Background()

	_, err := svc.Ingest(ctx, "kb.txt", "We are open 9am to 5pm on weekdays.", StrategyFixed)
	require.NoError(t, err)

	answer, err := svc.Chat(ctx, "sess-1", "When are you open?")
	require.NoError(t, err)
	assert.Equal(t, "We are open 9am to 5pm.", answer.Answer)
	assert.Nil(t, answer.Booking)
	assert.Empty(t, bookings.created)
}

func TestServiceClearHistory(t *testing.T) {
	chat := &sequenceChat{replies: []string{"hi", `{"booking": false}`}}
	svc, _ := setupService(t, chat)
	ctx := context.Background()

	_, err := svc.Chat(ctx, "sess-1", "hello")
	require.NoError(t, err)

	require.NoError(t, svc.ClearHistory(ctx, "sess-1"))

	history, err := svc.History(ctx, "sess-1")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestServiceStats(t *testing.T) {
	chat := &sequenceChat{}
	svc, _ := setupService(t, chat)
	ctx := context.Background()

	result, err := svc.Ingest(ctx, "kb.txt", "Some knowledge base content.", StrategyFixed)
	require.NoError(t, err)

	stats, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, "test_chunks", stats["collection"])
	assert.EqualValues(t, result.ChunkNum, stats["vector_count"])
}
