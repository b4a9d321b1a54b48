// Package biz implements the business logic of the chat service:
// document ingestion, conversation memory, booking extraction and the
// answer pipeline.
package biz

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kart-io/ragchat/internal/pkg/textutil"
)

// Chunking errors.
var (
	// ErrEmptyText is returned when the input has no content to chunk.
	ErrEmptyText = errors.New("text is empty")

	// ErrInvalidStrategy is returned for an unknown chunking strategy.
	ErrInvalidStrategy = errors.New("invalid chunking strategy")

	// ErrInvalidChunkParams is returned for non-positive sizes or an
	// overlap that is not smaller than the chunk size.
	ErrInvalidChunkParams = errors.New("invalid chunk parameters")
)

// Strategy selects how a document is split into chunks.
type Strategy string

const (
	// StrategyFixed splits into fixed-size character windows with overlap.
	StrategyFixed Strategy = "fixed"

	// StrategySentence groups whole sentences into chunks.
	StrategySentence Strategy = "sentence"
)

// ParseStrategy parses a strategy name. The empty string defaults to
// fixed chunking.
func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case StrategyFixed, "":
		return StrategyFixed, nil
	case StrategySentence:
		return StrategySentence, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidStrategy, s)
	}
}

// ChunkerConfig configures the chunker.
type ChunkerConfig struct {
	// ChunkSize is the fixed-strategy window size in characters.
	ChunkSize int
	// ChunkOverlap is the shared tail between consecutive windows.
	ChunkOverlap int
	// MaxSentences is the sentence-strategy group size.
	MaxSentences int
}

// Chunker splits document text into chunks for embedding.
type Chunker struct {
	config *ChunkerConfig
}

// NewChunker creates a chunker. Returns ErrInvalidChunkParams when the
// configuration cannot produce progress (zero sizes, overlap >= size).
func NewChunker(config *ChunkerConfig) (*Chunker, error) {
	if config.ChunkSize <= 0 {
		return nil, fmt.Errorf("%w: chunk size %d", ErrInvalidChunkParams, config.ChunkSize)
	}
	if config.ChunkOverlap < 0 || config.ChunkOverlap >= config.ChunkSize {
		return nil, fmt.Errorf("%w: overlap %d for chunk size %d", ErrInvalidChunkParams, config.ChunkOverlap, config.ChunkSize)
	}
	if config.MaxSentences <= 0 {
		return nil, fmt.Errorf("%w: max sentences %d", ErrInvalidChunkParams, config.MaxSentences)
	}
	return &Chunker{config: config}, nil
}

// Chunk splits text using the given strategy. Whitespace-only input is
// rejected with ErrEmptyText.
func (c *Chunker) Chunk(text string, strategy Strategy) ([]string, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}

	switch strategy {
	case StrategyFixed:
		return textutil.SplitIntoChunks(text, c.config.ChunkSize, c.config.ChunkOverlap), nil
	case StrategySentence:
		sentences := textutil.SplitSentences(text)
		if len(sentences) == 0 {
			return nil, ErrEmptyText
		}
		return textutil.GroupSentences(sentences, c.config.MaxSentences), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidStrategy, strategy)
	}
}
