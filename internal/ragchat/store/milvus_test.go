package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kart-io/ragchat/internal/ragchat/store"
	"github.com/kart-io/ragchat/pkg/component/milvus"
	milvusopts "github.com/kart-io/ragchat/pkg/options/milvus"
)

func setupTestMilvus(t *testing.T) *milvus.Client {
	t.Helper()

	opts := milvusopts.NewOptions()
	opts.Timeout = 5 * time.Second

	client, err := milvus.New(opts)
	if err != nil {
		t.Skip("Milvus not available, skipping test")
	}

	return client
}

func TestMilvusUpsertReplacesByID(t *testing.T) {
	client := setupTestMilvus(t)
	ctx := context.Background()
	defer func() { _ = client.Close(ctx) }()

	s := store.NewMilvusStore(client)
	collection := fmt.Sprintf("ragchat_test_%d", time.Now().UnixNano())
	require.NoError(t, s.EnsureCollection(ctx, &store.CollectionConfig{
		Name:        collection,
		Description: "upsert replace test",
		Dimension:   4,
	}))
	defer func() { _ = client.DropCollection(ctx, collection) }()

	embedding := []float32{0.1, 0.2, 0.3, 0.4}
	first := &store.Vector{
		ID:         "doc-1-chunk-0",
		DocID:      "doc-1",
		Filename:   "notes.txt",
		ChunkIndex: 0,
		Text:       "original text",
		Strategy:   "fixed",
		Embedding:  embedding,
	}
	require.NoError(t, s.Upsert(ctx, collection, []*store.Vector{first}))

	// Writing the same ID again must replace the entry, not add a second
	// one.
	updated := *first
	updated.Text = "updated text"
	updated.Filename = "notes-v2.txt"
	require.NoError(t, s.Upsert(ctx, collection, []*store.Vector{&updated}))

	results, err := s.Search(ctx, collection, embedding, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "doc-1-chunk-0", results[0].ID)
	assert.Equal(t, "updated text", results[0].Text)
	assert.Equal(t, "notes-v2.txt", results[0].Filename)
	assert.Equal(t, "doc-1", results[0].DocID)
}
