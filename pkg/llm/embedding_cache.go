package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kart-io/ragchat/pkg/utils/json"
)

// EmbeddingCacheConfig configures the embedding cache.
type EmbeddingCacheConfig struct {
	// Enabled toggles caching.
	Enabled bool
	// TTL is the cache entry lifetime.
	TTL time.Duration
	// KeyPrefix namespaces cache keys in Redis.
	KeyPrefix string
}

// DefaultEmbeddingCacheConfig returns the default cache configuration.
func DefaultEmbeddingCacheConfig() *EmbeddingCacheConfig {
	return &EmbeddingCacheConfig{
		Enabled: true,
		// Embeddings for a given model are stable, cache generously.
		TTL:       24 * time.Hour,
		KeyPrefix: "emb:",
	}
}

// CachedEmbeddingProvider wraps an EmbeddingProvider with a Redis cache.
// Cache failures degrade to calling the underlying provider.
type CachedEmbeddingProvider struct {
	provider EmbeddingProvider
	redis    *goredis.Client
	config   *EmbeddingCacheConfig
}

// NewCachedEmbeddingProvider creates a caching wrapper around provider.
func NewCachedEmbeddingProvider(
	provider EmbeddingProvider,
	redis *goredis.Client,
	config *EmbeddingCacheConfig,
) *CachedEmbeddingProvider {
	if config == nil {
		config = DefaultEmbeddingCacheConfig()
	}
	return &CachedEmbeddingProvider{
		provider: provider,
		redis:    redis,
		config:   config,
	}
}

// cacheKey hashes the text with SHA256. Document and query embeddings
// are keyed separately because some vendors embed them differently.
func (c *CachedEmbeddingProvider) cacheKey(task, text string) string {
	hash := sha256.Sum256([]byte(text))
	return c.config.KeyPrefix + c.provider.Name() + ":" + task + ":" + hex.EncodeToString(hash[:])
}

func (c *CachedEmbeddingProvider) get(ctx context.Context, key string) ([]float32, bool) {
	data, err := c.redis.Get(ctx, key).Bytes()
	if err != nil {
		return nil, false
	}

	var embedding []float32
	if err := json.Unmarshal(data, &embedding); err != nil {
		logger.Warnw("Failed to decode cached embedding", "key", key, "error", err)
		return nil, false
	}
	return embedding, true
}

func (c *CachedEmbeddingProvider) put(ctx context.Context, key string, embedding []float32) {
	data, err := json.Marshal(embedding)
	if err != nil {
		return
	}
	if err := c.redis.Set(ctx, key, data, c.config.TTL).Err(); err != nil {
		logger.Warnw("Failed to cache embedding", "key", key, "error", err)
	}
}

// Embed generates embeddings for document texts, serving cached entries
// where possible and embedding only the misses.
func (c *CachedEmbeddingProvider) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if !c.config.Enabled || c.redis == nil {
		return c.provider.Embed(ctx, texts)
	}

	results := make([][]float32, len(texts))
	var missTexts []string
	var missIndexes []int

	for i, text := range texts {
		if embedding, ok := c.get(ctx, c.cacheKey("d", text)); ok {
			results[i] = embedding
			continue
		}
		missTexts = append(missTexts, text)
		missIndexes = append(missIndexes, i)
	}

	if len(missTexts) == 0 {
		return results, nil
	}

	embeddings, err := c.provider.Embed(ctx, missTexts)
	if err != nil {
		return nil, err
	}

	for j, embedding := range embeddings {
		i := missIndexes[j]
		results[i] = embedding
		c.put(ctx, c.cacheKey("d", texts[i]), embedding)
	}

	logger.Debugw("Embedding cache lookup",
		"total", len(texts),
		"hits", len(texts)-len(missTexts),
		"misses", len(missTexts))

	return results, nil
}

// EmbedQuery generates an embedding for a search query.
func (c *CachedEmbeddingProvider) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	if !c.config.Enabled || c.redis == nil {
		return c.provider.EmbedQuery(ctx, text)
	}

	key := c.cacheKey("q", text)
	if embedding, ok := c.get(ctx, key); ok {
		return embedding, nil
	}

	embedding, err := c.provider.EmbedQuery(ctx, text)
	if err != nil {
		return nil, err
	}
	c.put(ctx, key, embedding)

	return embedding, nil
}

// Name returns the underlying provider name.
func (c *CachedEmbeddingProvider) Name() string {
	return c.provider.Name()
}
