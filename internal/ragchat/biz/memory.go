package biz

import (
	"context"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kart-io/ragchat/internal/model"
	"github.com/kart-io/ragchat/pkg/utils/json"
)

// MemoryConfig configures per-session conversation history.
type MemoryConfig struct {
	// MaxTurns is the number of messages kept per session. Older
	// messages are discarded once the limit is exceeded.
	MaxTurns int
	// TTL is the session lifetime, refreshed on every write.
	TTL time.Duration
	// KeyPrefix prefixes the Redis key for each session.
	KeyPrefix string
}

// ConversationMemory stores per-session chat history.
type ConversationMemory interface {
	History(ctx context.Context, sessionID string) ([]model.ChatTurn, error)
	Append(ctx context.Context, sessionID string, turns ...model.ChatTurn) error
	Clear(ctx context.Context, sessionID string) error
}

// Memory stores conversation history in Redis, one list entry per
// message. Sessions expire after TTL of inactivity.
type Memory struct {
	redis  *goredis.Client
	config *MemoryConfig
}

// NewMemory creates a conversation memory store.
func NewMemory(redis *goredis.Client, config *MemoryConfig) *Memory {
	if config == nil {
		config = &MemoryConfig{
			MaxTurns:  20,
			TTL:       1 * time.Hour,
			KeyPrefix: "chat:",
		}
	}
	return &Memory{
		redis:  redis,
		config: config,
	}
}

func (m *Memory) sessionKey(sessionID string) string {
	return m.config.KeyPrefix + sessionID
}

// History returns the session's messages, oldest first. A missing
// session yields an empty history, not an error.
func (m *Memory) History(ctx context.Context, sessionID string) ([]model.ChatTurn, error) {
	key := m.sessionKey(sessionID)

	entries, err := m.redis.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		if err == goredis.Nil {
			return nil, nil
		}
		logger.Warnw("failed to load conversation history", "error", err.Error(), "key", key)
		return nil, err
	}

	turns := make([]model.ChatTurn, 0, len(entries))
	for _, entry := range entries {
		var turn model.ChatTurn
		if err := json.Unmarshal([]byte(entry), &turn); err != nil {
			logger.Warnw("skipping corrupt history entry", "error", err.Error(), "key", key)
			continue
		}
		turns = append(turns, turn)
	}

	return turns, nil
}

// Append stores messages at the end of the session history, trims it to
// the last MaxTurns messages and refreshes the session TTL.
func (m *Memory) Append(ctx context.Context, sessionID string, turns ...model.ChatTurn) error {
	if len(turns) == 0 {
		return nil
	}

	key := m.sessionKey(sessionID)

	values := make([]interface{}, 0, len(turns))
	for _, turn := range turns {
		data, err := json.Marshal(turn)
		if err != nil {
			logger.Warnw("failed to marshal chat turn", "error", err.Error())
			return err
		}
		values = append(values, data)
	}

	pipe := m.redis.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, int64(-m.config.MaxTurns), -1)
	pipe.Expire(ctx, key, m.config.TTL)
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Warnw("failed to append conversation history", "error", err.Error(), "key", key)
		return err
	}

	logger.Debugw("appended conversation history", "key", key, "messages", len(turns))
	return nil
}

// Clear removes the session history.
func (m *Memory) Clear(ctx context.Context, sessionID string) error {
	key := m.sessionKey(sessionID)
	if err := m.redis.Del(ctx, key).Err(); err != nil {
		logger.Warnw("failed to clear session", "error", err.Error(), "key", key)
		return err
	}
	return nil
}
