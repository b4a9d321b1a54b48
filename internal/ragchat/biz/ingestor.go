package biz

import (
	"context"
	"fmt"

	"github.com/kart-io/logger"

	"github.com/kart-io/ragchat/internal/model"
	"github.com/kart-io/ragchat/internal/pkg/textutil"
	"github.com/kart-io/ragchat/internal/ragchat/store"
	"github.com/kart-io/ragchat/pkg/llm"
	"github.com/kart-io/ragchat/pkg/utils/id"
)

// IngestorConfig configures document ingestion.
type IngestorConfig struct {
	// Collection is the vector collection chunks are written to.
	Collection string
	// EmbeddingDim is the embedding dimension of the collection.
	EmbeddingDim int
}

// IngestResult summarizes a completed ingestion.
type IngestResult struct {
	DocID     string   `json:"doc_id"`
	Filename  string   `json:"filename"`
	ChunkNum  int      `json:"chunks_created"`
	Strategy  Strategy `json:"strategy_used"`
	VectorIDs []string `json:"-"`
}

// Ingestor turns uploaded documents into indexed chunk vectors.
//
// Every upload gets a fresh document ID, so re-uploading a file indexes
// a new version alongside the old one rather than replacing it. Writes
// are ordered so nothing partial survives a failure: vectors are
// upserted only after every chunk embedded, and the document record is
// saved only after the upsert succeeded.
type Ingestor struct {
	config    *IngestorConfig
	chunker   *Chunker
	embedder  llm.EmbeddingProvider
	vectors   store.VectorStore
	documents store.DocumentStore
}

// NewIngestor creates an ingestor and ensures the chunk collection
// exists.
func NewIngestor(
	ctx context.Context,
	config *IngestorConfig,
	chunker *Chunker,
	embedder llm.EmbeddingProvider,
	vectors store.VectorStore,
	documents store.DocumentStore,
) (*Ingestor, error) {
	if err := vectors.EnsureCollection(ctx, &store.CollectionConfig{
		Name:        config.Collection,
		Description: "document chunks with embeddings",
		Dimension:   config.EmbeddingDim,
	}); err != nil {
		return nil, fmt.Errorf("ensure collection %s: %w", config.Collection, err)
	}

	return &Ingestor{
		config:    config,
		chunker:   chunker,
		embedder:  embedder,
		vectors:   vectors,
		documents: documents,
	}, nil
}

// Ingest chunks text, embeds the chunks and indexes them under a fresh
// document ID. Errors name the failed stage so ingestion failures are
// attributable.
func (ing *Ingestor) Ingest(ctx context.Context, filename, text string, strategy Strategy) (*IngestResult, error) {
	chunks, err := ing.chunker.Chunk(text, strategy)
	if err != nil {
		return nil, fmt.Errorf("chunking failed: %w", err)
	}

	docID := id.NewUUID()
	logger.Infow("ingesting document",
		"filename", filename,
		"doc_id", docID,
		"chunks", len(chunks),
		"strategy", strategy,
		"content_hash", textutil.HashString(text),
	)

	embeddings, err := ing.embedder.Embed(ctx, chunks)
	if err != nil {
		return nil, fmt.Errorf("embedding failed for %d chunks: %w", len(chunks), err)
	}
	if len(embeddings) != len(chunks) {
		return nil, fmt.Errorf("embedding failed: %d chunks but %d embeddings", len(chunks), len(embeddings))
	}

	vectors := make([]*store.Vector, 0, len(chunks))
	vectorIDs := make([]string, 0, len(chunks))
	for i, chunk := range chunks {
		chunkID := id.ChunkID(docID, i)
		vectorIDs = append(vectorIDs, chunkID)
		vectors = append(vectors, &store.Vector{
			ID:         chunkID,
			DocID:      docID,
			Filename:   filename,
			ChunkIndex: i,
			Text:       chunk,
			Strategy:   string(strategy),
			Embedding:  embeddings[i],
		})
	}

	if err := ing.vectors.Upsert(ctx, ing.config.Collection, vectors); err != nil {
		return nil, fmt.Errorf("vector storage failed for %d vectors: %w", len(vectors), err)
	}

	doc := &model.Document{
		ID:       docID,
		Filename: filename,
		Strategy: string(strategy),
		ChunkNum: len(chunks),
		Size:     int64(len(text)),
	}
	if err := ing.documents.Create(ctx, doc); err != nil {
		return nil, fmt.Errorf("metadata storage failed: %w", err)
	}

	logger.Infof("Document %s indexed: %d chunks", docID, len(chunks))
	return &IngestResult{
		DocID:     docID,
		Filename:  filename,
		ChunkNum:  len(chunks),
		Strategy:  strategy,
		VectorIDs: vectorIDs,
	}, nil
}

// Documents lists ingested document versions, newest first.
func (ing *Ingestor) Documents(ctx context.Context, offset, limit int) ([]*model.Document, int64, error) {
	return ing.documents.List(ctx, offset, limit)
}

// Delete removes a document version, its chunk vectors first and the
// metadata record after.
func (ing *Ingestor) Delete(ctx context.Context, docID string) error {
	if _, err := ing.documents.Get(ctx, docID); err != nil {
		return err
	}
	if err := ing.vectors.DeleteDocument(ctx, ing.config.Collection, docID); err != nil {
		return err
	}
	if err := ing.documents.Delete(ctx, docID); err != nil {
		return err
	}
	logger.Infof("Document %s deleted", docID)
	return nil
}
