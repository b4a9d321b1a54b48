package rag_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kart-io/ragchat/pkg/options/rag"
)

func TestDefaultsAreValid(t *testing.T) {
	opts := rag.NewOptions()
	assert.Empty(t, opts.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*rag.Options)
		want   string
	}{
		{
			name:   "zero chunk size",
			mutate: func(o *rag.Options) { o.ChunkSize = 0 },
			want:   "rag.chunk-size must be positive",
		},
		{
			name:   "negative overlap",
			mutate: func(o *rag.Options) { o.ChunkOverlap = -1 },
			want:   "rag.chunk-overlap cannot be negative",
		},
		{
			name:   "overlap not smaller than size",
			mutate: func(o *rag.Options) { o.ChunkOverlap = o.ChunkSize },
			want:   "rag.chunk-overlap must be smaller than rag.chunk-size",
		},
		{
			name:   "zero top-k",
			mutate: func(o *rag.Options) { o.TopK = 0 },
			want:   "rag.top-k must be positive",
		},
		{
			name:   "empty collection",
			mutate: func(o *rag.Options) { o.Collection = "" },
			want:   "rag.collection cannot be empty",
		},
		{
			name:   "zero embedding dim",
			mutate: func(o *rag.Options) { o.EmbeddingDim = 0 },
			want:   "rag.embedding-dim must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := rag.NewOptions()
			tt.mutate(opts)

			errs := opts.Validate()
			assert.NotEmpty(t, errs)

			found := false
			for _, err := range errs {
				if err.Error() == tt.want {
					found = true
				}
			}
			assert.True(t, found, "expected error %q in %v", tt.want, errs)
		})
	}
}

func TestCompleteFillsSystemPrompt(t *testing.T) {
	opts := rag.NewOptions()
	opts.SystemPrompt = ""

	assert.NoError(t, opts.Complete())
	assert.Equal(t, rag.DefaultSystemPrompt, opts.SystemPrompt)
}
