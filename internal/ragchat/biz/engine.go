package biz

import (
	"context"
	"fmt"
	"strings"

	"github.com/kart-io/logger"

	"github.com/kart-io/ragchat/internal/model"
	"github.com/kart-io/ragchat/internal/pkg/textutil"
	"github.com/kart-io/ragchat/internal/ragchat/store"
	"github.com/kart-io/ragchat/pkg/llm"
)

// EngineConfig configures the answer pipeline.
type EngineConfig struct {
	// Collection is the vector collection queried for context.
	Collection string
	// TopK is the number of chunks retrieved per question.
	TopK int
	// SystemPrompt is the fixed instruction prepended to every prompt.
	SystemPrompt string
}

// Engine answers chat messages with retrieval-augmented generation.
//
// Each turn embeds the question, retrieves the most similar chunks,
// folds in the session history and generates a reply. History is
// written only after a successful generation.
type Engine struct {
	config   *EngineConfig
	embedder llm.EmbeddingProvider
	chat     llm.ChatProvider
	vectors  store.VectorStore
	memory   ConversationMemory
}

// NewEngine creates an answer engine.
func NewEngine(
	config *EngineConfig,
	embedder llm.EmbeddingProvider,
	chat llm.ChatProvider,
	vectors store.VectorStore,
	memory ConversationMemory,
) *Engine {
	return &Engine{
		config:   config,
		embedder: embedder,
		chat:     chat,
		vectors:  vectors,
		memory:   memory,
	}
}

// Answer runs one chat turn and returns the assistant reply with the
// retrieved sources.
func (e *Engine) Answer(ctx context.Context, sessionID, message string) (*model.ChatAnswer, error) {
	queryEmbedding, err := e.embedder.EmbedQuery(ctx, message)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	results, err := e.vectors.Search(ctx, e.config.Collection, queryEmbedding, e.config.TopK)
	if err != nil {
		return nil, fmt.Errorf("search context: %w", err)
	}

	history, err := e.memory.History(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("load history: %w", err)
	}

	prompt := e.buildPrompt(message, results, history)
	logger.Debugw("assembled generation prompt",
		"session_id", sessionID,
		"chunks", len(results),
		"history_turns", len(history),
		"prompt_preview", textutil.TruncateString(prompt, 200),
	)

	reply, err := e.chat.Chat(ctx, []llm.Message{{Role: llm.RoleUser, Content: prompt}})
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	// The reply is already produced, so a failed history write is
	// logged rather than surfaced.
	if err := e.memory.Append(ctx, sessionID,
		model.ChatTurn{Role: string(llm.RoleUser), Content: message},
		model.ChatTurn{Role: string(llm.RoleAssistant), Content: reply},
	); err != nil {
		logger.Warnw("failed to save conversation turn", "error", err.Error(), "session_id", sessionID)
	}

	sources := make([]model.ChunkSource, 0, len(results))
	for _, r := range results {
		sources = append(sources, model.ChunkSource{
			DocumentID: r.DocID,
			Filename:   r.Filename,
			ChunkIndex: r.ChunkIndex,
			Content:    r.Text,
			Score:      r.Score,
		})
	}

	return &model.ChatAnswer{
		Answer:  reply,
		Sources: sources,
	}, nil
}

// buildPrompt assembles the generation prompt: system instruction,
// retrieved chunks joined with blank lines, history as User:/Assistant:
// lines, then the current message.
func (e *Engine) buildPrompt(message string, results []*store.VectorResult, history []model.ChatTurn) string {
	texts := make([]string, 0, len(results))
	for _, r := range results {
		texts = append(texts, r.Text)
	}

	var historyText strings.Builder
	for _, turn := range history {
		role := "User"
		if turn.Role == string(llm.RoleAssistant) {
			role = "Assistant"
		}
		historyText.WriteString(role)
		historyText.WriteString(": ")
		historyText.WriteString(turn.Content)
		historyText.WriteString("\n")
	}

	return fmt.Sprintf(`%s

Context:
%s

Conversation so far:
%s
User: %s
Assistant:`, e.config.SystemPrompt, strings.Join(texts, "\n\n"), historyText.String(), message)
}
