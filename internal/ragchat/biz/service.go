package biz

import (
	"context"

	"github.com/kart-io/ragchat/internal/model"
	"github.com/kart-io/ragchat/internal/ragchat/store"
)

// Service is the chat service business interface.
type Service interface {
	// Ingest indexes an uploaded document.
	Ingest(ctx context.Context, filename, text string, strategy Strategy) (*IngestResult, error)

	// Documents lists ingested document versions.
	Documents(ctx context.Context, offset, limit int) ([]*model.Document, int64, error)

	// DeleteDocument removes a document version and its vectors.
	DeleteDocument(ctx context.Context, docID string) error

	// Chat runs one conversation turn, including booking detection.
	Chat(ctx context.Context, sessionID, message string) (*model.ChatAnswer, error)

	// History returns a session's conversation history.
	History(ctx context.Context, sessionID string) ([]model.ChatTurn, error)

	// ClearHistory removes a session's conversation history.
	ClearHistory(ctx context.Context, sessionID string) error

	// Stats reports knowledge base statistics.
	Stats(ctx context.Context) (map[string]interface{}, error)
}

type chatService struct {
	collection string
	ingestor   *Ingestor
	engine     *Engine
	extractor  *BookingExtractor
	memory     ConversationMemory
	vectors    store.VectorStore
}

// NewService assembles the business service from its components.
func NewService(
	collection string,
	ingestor *Ingestor,
	engine *Engine,
	extractor *BookingExtractor,
	memory ConversationMemory,
	vectors store.VectorStore,
) Service {
	return &chatService{
		collection: collection,
		ingestor:   ingestor,
		engine:     engine,
		extractor:  extractor,
		memory:     memory,
		vectors:    vectors,
	}
}

func (s *chatService) Ingest(ctx context.Context, filename, text string, strategy Strategy) (*IngestResult, error) {
	return s.ingestor.Ingest(ctx, filename, text, strategy)
}

func (s *chatService) Documents(ctx context.Context, offset, limit int) ([]*model.Document, int64, error) {
	return s.ingestor.Documents(ctx, offset, limit)
}

func (s *chatService) DeleteDocument(ctx context.Context, docID string) error {
	return s.ingestor.Delete(ctx, docID)
}

// Chat answers the message and then checks it for booking intent. The
// booking outcome never fails an already-answered turn.
func (s *chatService) Chat(ctx context.Context, sessionID, message string) (*model.ChatAnswer, error) {
	answer, err := s.engine.Answer(ctx, sessionID, message)
	if err != nil {
		return nil, err
	}

	if booking, err := s.extractor.Detect(ctx, sessionID, message); err == nil && booking != nil {
		answer.Booking = booking
	}

	return answer, nil
}

func (s *chatService) History(ctx context.Context, sessionID string) ([]model.ChatTurn, error) {
	return s.memory.History(ctx, sessionID)
}

func (s *chatService) ClearHistory(ctx context.Context, sessionID string) error {
	return s.memory.Clear(ctx, sessionID)
}

func (s *chatService) Stats(ctx context.Context) (map[string]interface{}, error) {
	count, err := s.vectors.Stats(ctx, s.collection)
	if err != nil {
		return nil, err
	}

	return map[string]interface{}{
		"collection":   s.collection,
		"vector_count": count,
	}, nil
}
