package biz

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/ragchat/internal/model"
	"github.com/kart-io/ragchat/internal/ragchat/store"
	"github.com/kart-io/ragchat/pkg/utils/id"
)

type fakeMemory struct {
	turns      map[string][]model.ChatTurn
	historyErr error
	appendErr  error
}

func newFakeMemory() *fakeMemory {
	return &fakeMemory{turns: make(map[string][]model.ChatTurn)}
}

func (f *fakeMemory) History(ctx context.Context, sessionID string) ([]model.ChatTurn, error) {
	if f.historyErr != nil {
		return nil, f.historyErr
	}
	return f.turns[sessionID], nil
}

func (f *fakeMemory) Append(ctx context.Context, sessionID string, turns ...model.ChatTurn) error {
	if f.appendErr != nil {
		return f.appendErr
	}
	f.turns[sessionID] = append(f.turns[sessionID], turns...)
	return nil
}

func (f *fakeMemory) Clear(ctx context.Context, sessionID string) error {
	delete(f.turns, sessionID)
	return nil
}

func setupEngine(t *testing.T, chat *scriptedChat, memory ConversationMemory) (*Engine, *memoryVectorStore) {
	t.Helper()

	vectors := newMemoryVectorStore()
	engine := NewEngine(&EngineConfig{
		Collection:   "test_chunks",
		TopK:         3,
		SystemPrompt: "You are a helpful AI assistant.",
	}, &fakeEmbedder{dim: 8}, chat, vectors, memory)

	return engine, vectors
}

func seedChunks(t *testing.T, vectors *memoryVectorStore, texts ...string) {
	t.Helper()

	embedder := &fakeEmbedder{dim: 8}
	ctx := context.Background()
	embeddings, err := embedder.Embed(ctx, texts)
	require.NoError(t, err)

	chunks := make([]*store.Vector, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, &store.Vector{
			ID:         id.ChunkID("doc-1", i),
			DocID:      "doc-1",
			Filename:   "kb.txt",
			ChunkIndex: i,
			Text:       text,
			Strategy:   "fixed",
			Embedding:  embeddings[i],
		})
	}
	require.NoError(t, vectors.Upsert(ctx, "test_chunks", chunks))
}

func TestEngineAnswer(t *testing.T) {
	chat := &scriptedChat{reply: "The office opens at 9am."}
	memory := newFakeMemory()
	engine, vectors := setupEngine(t, chat, memory)
	seedChunks(t, vectors, "Office hours are 9am to 5pm.", "Parking is free on weekends.")

	answer, err := engine.Answer(context.Background(), "sess-1", "When does the office open?")
	require.NoError(t, err)
	assert.Equal(t, "The office opens at 9am.", answer.Answer)
	require.Len(t, answer.Sources, 2)

	// Both turns saved in order.
	turns := memory.turns["sess-1"]
	require.Len(t, turns, 2)
	assert.Equal(t, "user", turns[0].Role)
	assert.Equal(t, "When does the office open?", turns[0].Content)
	assert.Equal(t, "assistant", turns[1].Role)
}

func TestEnginePromptLayout(t *testing.T) {
	chat := &scriptedChat{reply: "ok"}
	memory := newFakeMemory()
	memory.turns["sess-1"] = []model.ChatTurn{
		{Role: "user", Content: "earlier question"},
		{Role: "assistant", Content: "earlier answer"},
	}
	engine, vectors := setupEngine(t, chat, memory)
	seedChunks(t, vectors, "chunk alpha", "chunk beta")

	prompt := engine.buildPrompt("current question", mustSearch(t, vectors, 3), memory.turns["sess-1"])

	system := strings.Index(prompt, "You are a helpful AI assistant.")
	ctxStart := strings.Index(prompt, "Context:")
	histStart := strings.Index(prompt, "Conversation so far:")
	userLine := strings.Index(prompt, "User: earlier question")
	current := strings.Index(prompt, "User: current question")

	assert.Equal(t, 0, system)
	assert.True(t, ctxStart < histStart, "context precedes history")
	assert.True(t, histStart < userLine, "history follows its header")
	assert.True(t, userLine < current, "history precedes the current message")
	assert.True(t, strings.HasSuffix(prompt, "Assistant:"))
	assert.Contains(t, prompt, "chunk alpha")
	assert.Contains(t, prompt, "chunk beta")
	assert.Contains(t, prompt, "Assistant: earlier answer")
}

func TestEngineGenerationFailureSkipsHistory(t *testing.T) {
	chat := &scriptedChat{err: assert.AnError}
	memory := newFakeMemory()
	engine, vectors := setupEngine(t, chat, memory)
	seedChunks(t, vectors, "some chunk")

	_, err := engine.Answer(context.Background(), "sess-1", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate answer")
	assert.Empty(t, memory.turns["sess-1"])
}

func TestEngineEmbedFailure(t *testing.T) {
	chat := &scriptedChat{reply: "ok"}
	memory := newFakeMemory()
	vectors := newMemoryVectorStore()
	engine := NewEngine(&EngineConfig{Collection: "test_chunks", TopK: 3, SystemPrompt: "sys"},
		&fakeEmbedder{dim: 8, err: assert.AnError}, chat, vectors, memory)

	_, err := engine.Answer(context.Background(), "sess-1", "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed query")
	assert.Empty(t, memory.turns["sess-1"])
}

func TestEngineAppendFailureStillAnswers(t *testing.T) {
	chat := &scriptedChat{reply: "the reply"}
	memory := newFakeMemory()
	memory.appendErr = assert.AnError
	engine, vectors := setupEngine(t, chat, memory)
	seedChunks(t, vectors, "some chunk")

	answer, err := engine.Answer(context.Background(), "sess-1", "hello")
	require.NoError(t, err)
	assert.Equal(t, "the reply", answer.Answer)
}

func mustSearch(t *testing.T, vectors *memoryVectorStore, topK int) []*store.VectorResult {
	t.Helper()

	embedder := &fakeEmbedder{dim: 8}
	embedding, err := embedder.EmbedQuery(context.Background(), "query")
	require.NoError(t, err)

	results, err := vectors.Search(context.Background(), "test_chunks", embedding, topK)
	require.NoError(t, err)
	return results
}
