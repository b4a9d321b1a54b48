package store

import (
	"context"
)

// Vector is a document chunk with its embedding, ready for storage.
// The ID follows the {doc_id}-chunk-{index} scheme so re-ingesting a
// document version overwrites its own chunks.
type Vector struct {
	// ID is the vector store primary key.
	ID string
	// DocID is the document version this chunk belongs to.
	DocID string
	// Filename is the original upload name.
	Filename string
	// ChunkIndex is the position of this chunk within the document.
	ChunkIndex int
	// Text is the raw chunk text.
	Text string
	// Strategy is the chunking strategy that produced this chunk.
	Strategy string
	// Embedding is the chunk's embedding vector.
	Embedding []float32
}

// VectorResult is a retrieved chunk with its similarity score.
type VectorResult struct {
	ID         string
	DocID      string
	Filename   string
	ChunkIndex int
	Text       string
	Strategy   string
	Score      float32
}

// CollectionConfig describes a vector collection.
type CollectionConfig struct {
	// Name is the collection name.
	Name string
	// Description is a human-readable description.
	Description string
	// Dimension is the embedding dimension.
	Dimension int
}

// VectorStore is the vector index abstraction.
type VectorStore interface {
	// EnsureCollection creates the collection if missing.
	EnsureCollection(ctx context.Context, config *CollectionConfig) error

	// Upsert writes chunk vectors, overwriting entries with equal IDs.
	Upsert(ctx context.Context, collection string, vectors []*Vector) error

	// Search returns the topK most similar chunks to the embedding.
	Search(ctx context.Context, collection string, embedding []float32, topK int) ([]*VectorResult, error)

	// DeleteDocument removes all chunks belonging to a document version.
	DeleteDocument(ctx context.Context, collection string, docID string) error

	// Stats returns the number of stored vectors.
	Stats(ctx context.Context, collection string) (int64, error)

	// Close releases the connection.
	Close(ctx context.Context) error
}
