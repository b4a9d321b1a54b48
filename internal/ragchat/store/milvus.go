package store

import (
	"context"
	"fmt"

	"github.com/milvus-io/milvus/client/v2/entity"

	"github.com/kart-io/ragchat/pkg/component/milvus"
)

// MilvusStore implements VectorStore backed by Milvus.
type MilvusStore struct {
	client *milvus.Client
}

var _ VectorStore = (*MilvusStore)(nil)

// NewMilvusStore creates a Milvus-backed vector store.
func NewMilvusStore(client *milvus.Client) *MilvusStore {
	return &MilvusStore{client: client}
}

// EnsureCollection creates the chunk collection if missing.
func (s *MilvusStore) EnsureCollection(ctx context.Context, config *CollectionConfig) error {
	schema := &milvus.CollectionSchema{
		Name:        config.Name,
		Description: config.Description,
		Dimension:   config.Dimension,
		MetaFields: []milvus.MetaField{
			{Name: "doc_id", DataType: entity.FieldTypeVarChar, MaxLen: 64},
			{Name: "filename", DataType: entity.FieldTypeVarChar, MaxLen: 255},
			{Name: "chunk_index", DataType: entity.FieldTypeInt64},
			{Name: "text", DataType: entity.FieldTypeVarChar, MaxLen: 65535},
			{Name: "strategy", DataType: entity.FieldTypeVarChar, MaxLen: 32},
		},
	}
	return s.client.EnsureCollection(ctx, schema)
}

// Upsert writes chunk vectors into Milvus.
func (s *MilvusStore) Upsert(ctx context.Context, collection string, vectors []*Vector) error {
	if len(vectors) == 0 {
		return nil
	}

	ids := make([]string, len(vectors))
	embeddings := make([][]float32, len(vectors))
	metadata := map[string][]any{
		"doc_id":      make([]any, len(vectors)),
		"filename":    make([]any, len(vectors)),
		"chunk_index": make([]any, len(vectors)),
		"text":        make([]any, len(vectors)),
		"strategy":    make([]any, len(vectors)),
	}

	for i, v := range vectors {
		ids[i] = v.ID
		embeddings[i] = v.Embedding
		metadata["doc_id"][i] = v.DocID
		metadata["filename"][i] = v.Filename
		metadata["chunk_index"][i] = int64(v.ChunkIndex)
		metadata["text"][i] = v.Text
		metadata["strategy"][i] = v.Strategy
	}

	data := &milvus.UpsertData{
		IDs:        ids,
		Embeddings: embeddings,
		Metadata:   metadata,
	}

	if err := s.client.Upsert(ctx, collection, data); err != nil {
		return fmt.Errorf("failed to upsert into milvus: %w", err)
	}
	return nil
}

var chunkOutputFields = []string{"doc_id", "filename", "chunk_index", "text", "strategy"}

// Search performs a vector similarity search over stored chunks.
func (s *MilvusStore) Search(ctx context.Context, collection string, embedding []float32, topK int) ([]*VectorResult, error) {
	results, err := s.client.Search(ctx, collection, embedding, topK, "", chunkOutputFields)
	if err != nil {
		return nil, fmt.Errorf("failed to search milvus: %w", err)
	}

	vectorResults := make([]*VectorResult, len(results))
	for i, r := range results {
		vr := &VectorResult{
			ID:    r.ID,
			Score: r.Score,
		}
		if v, ok := r.Metadata["doc_id"].(string); ok {
			vr.DocID = v
		}
		if v, ok := r.Metadata["filename"].(string); ok {
			vr.Filename = v
		}
		if v, ok := r.Metadata["chunk_index"].(int64); ok {
			vr.ChunkIndex = int(v)
		}
		if v, ok := r.Metadata["text"].(string); ok {
			vr.Text = v
		}
		if v, ok := r.Metadata["strategy"].(string); ok {
			vr.Strategy = v
		}
		vectorResults[i] = vr
	}

	return vectorResults, nil
}

// DeleteDocument removes all chunks of a document version.
func (s *MilvusStore) DeleteDocument(ctx context.Context, collection string, docID string) error {
	filter := fmt.Sprintf("doc_id == %q", docID)
	if err := s.client.DeleteByFilter(ctx, collection, filter); err != nil {
		return fmt.Errorf("failed to delete document chunks: %w", err)
	}
	return nil
}

// Stats returns the number of stored vectors.
func (s *MilvusStore) Stats(ctx context.Context, collection string) (int64, error) {
	return s.client.GetCollectionStats(ctx, collection)
}

// Close releases the Milvus connection.
func (s *MilvusStore) Close(ctx context.Context) error {
	return s.client.Close(ctx)
}
