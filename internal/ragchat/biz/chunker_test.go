package biz

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestChunker(t *testing.T) *Chunker {
	t.Helper()

	c, err := NewChunker(&ChunkerConfig{
		ChunkSize:    20,
		ChunkOverlap: 5,
		MaxSentences: 2,
	})
	require.NoError(t, err)

	return c
}

func TestParseStrategy(t *testing.T) {
	tests := []struct {
		input   string
		want    Strategy
		wantErr bool
	}{
		{"fixed", StrategyFixed, false},
		{"sentence", StrategySentence, false},
		{"Sentence", StrategySentence, false},
		{"  fixed  ", StrategyFixed, false},
		{"", StrategyFixed, false},
		{"semantic", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStrategy(tt.input)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrInvalidStrategy, "input %q", tt.input)
			continue
		}
		require.NoError(t, err, "input %q", tt.input)
		assert.Equal(t, tt.want, got)
	}
}

func TestNewChunkerValidation(t *testing.T) {
	tests := []struct {
		name   string
		config ChunkerConfig
	}{
		{"zero chunk size", ChunkerConfig{ChunkSize: 0, ChunkOverlap: 0, MaxSentences: 2}},
		{"negative overlap", ChunkerConfig{ChunkSize: 10, ChunkOverlap: -1, MaxSentences: 2}},
		{"overlap equals size", ChunkerConfig{ChunkSize: 10, ChunkOverlap: 10, MaxSentences: 2}},
		{"zero max sentences", ChunkerConfig{ChunkSize: 10, ChunkOverlap: 2, MaxSentences: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewChunker(&tt.config)
			assert.ErrorIs(t, err, ErrInvalidChunkParams)
		})
	}
}

func TestChunkFixed(t *testing.T) {
	c := newTestChunker(t)

	text := strings.Repeat("abcde", 10) // 50 chars
	chunks, err := c.Chunk(text, StrategyFixed)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 20, "chunk %d", i)
	}

	// Consecutive chunks share the configured overlap.
	for i := 1; i < len(chunks); i++ {
		prev := chunks[i-1]
		tail := prev[len(prev)-5:]
		assert.True(t, strings.HasPrefix(chunks[i], tail), "chunk %d should start with previous tail", i)
	}
}

func TestChunkFixedShortText(t *testing.T) {
	c := newTestChunker(t)

	chunks, err := c.Chunk("short", StrategyFixed)
	require.NoError(t, err)
	assert.Equal(t, []string{"short"}, chunks)
}

func TestChunkFixedTrailingWindows(t *testing.T) {
	c, err := NewChunker(&ChunkerConfig{ChunkSize: 5, ChunkOverlap: 2, MaxSentences: 2})
	require.NoError(t, err)

	chunks, err := c.Chunk("abcdefghij", StrategyFixed)
	require.NoError(t, err)
	assert.Equal(t, []string{"abcde", "defgh", "ghij", "j"}, chunks)

	// A text shorter than the chunk size but longer than the window step
	// still gets its tail window.
	wide, err := NewChunker(&ChunkerConfig{ChunkSize: 500, ChunkOverlap: 50, MaxSentences: 5})
	require.NoError(t, err)

	chunks, err = wide.Chunk(strings.Repeat("a", 480), StrategyFixed)
	require.NoError(t, err)
	assert.Len(t, chunks, 2)
	assert.Equal(t, strings.Repeat("a", 30), chunks[1])
}

func TestChunkSentence(t *testing.T) {
	c := newTestChunker(t)

	text := "First sentence. Second one! Third here? Fourth ends."
	chunks, err := c.Chunk(text, StrategySentence)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	assert.Equal(t, "First sentence. Second one!", chunks[0])
	assert.Equal(t, "Third here? Fourth ends.", chunks[1])
}

func TestChunkSentenceNoTerminator(t *testing.T) {
	c := newTestChunker(t)

	chunks, err := c.Chunk("no terminator at all", StrategySentence)
	require.NoError(t, err)
	assert.Equal(t, []string{"no terminator at all"}, chunks)
}

func TestChunkEmptyText(t *testing.T) {
	c := newTestChunker(t)

	for _, text := range []string{"", "   ", "\n\t"} {
		_, err := c.Chunk(text, StrategyFixed)
		assert.ErrorIs(t, err, ErrEmptyText, "input %q", text)
	}
}

func TestChunkUnknownStrategy(t *testing.T) {
	c := newTestChunker(t)

	_, err := c.Chunk("some text", Strategy("semantic"))
	assert.ErrorIs(t, err, ErrInvalidStrategy)
}
