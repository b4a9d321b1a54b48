// Package rag provides retrieval pipeline configuration options.
package rag

import (
	"fmt"

	"github.com/kart-io/ragchat/pkg/options"
	"github.com/spf13/pflag"
)

var _ options.IOptions = (*Options)(nil)

// Options contains retrieval pipeline configuration.
type Options struct {
	// ChunkSize is the size of fixed text chunks in characters.
	ChunkSize int `json:"chunk-size" mapstructure:"chunk-size"`

	// ChunkOverlap is the overlap between consecutive fixed chunks.
	ChunkOverlap int `json:"chunk-overlap" mapstructure:"chunk-overlap"`

	// MaxSentences is how many sentences the sentence strategy groups per chunk.
	MaxSentences int `json:"max-sentences" mapstructure:"max-sentences"`

	// TopK is the number of results to return from similarity search.
	TopK int `json:"top-k" mapstructure:"top-k"`

	// Collection is the name of the Milvus collection.
	Collection string `json:"collection" mapstructure:"collection"`

	// EmbeddingDim is the dimension of embedding vectors.
	EmbeddingDim int `json:"embedding-dim" mapstructure:"embedding-dim"`

	// SystemPrompt is the system instruction prepended to every generation prompt.
	SystemPrompt string `json:"system-prompt" mapstructure:"system-prompt"`
}

// DefaultSystemPrompt is the default system instruction for answer generation.
const DefaultSystemPrompt = `You are a helpful AI assistant. Answer using the context below.
If the user wants to book an interview, collect name, email, date and time.`

// NewOptions creates new Options with defaults.
func NewOptions() *Options {
	return &Options{
		ChunkSize:    500,
		ChunkOverlap: 50,
		MaxSentences: 5,
		TopK:         5,
		Collection:   "ragchat_chunks",
		EmbeddingDim: 3072, // gemini-embedding-001 dimension
		SystemPrompt: DefaultSystemPrompt,
	}
}

// AddFlags adds flags for retrieval options to the specified FlagSet.
func (o *Options) AddFlags(fs *pflag.FlagSet, prefixes ...string) {
	fs.IntVar(&o.ChunkSize, options.Join(prefixes...)+"rag.chunk-size", o.ChunkSize, "Size of fixed text chunks in characters.")
	fs.IntVar(&o.ChunkOverlap, options.Join(prefixes...)+"rag.chunk-overlap", o.ChunkOverlap, "Overlap between consecutive chunks.")
	fs.IntVar(&o.MaxSentences, options.Join(prefixes...)+"rag.max-sentences", o.MaxSentences, "Sentences per chunk for the sentence strategy.")
	fs.IntVar(&o.TopK, options.Join(prefixes...)+"rag.top-k", o.TopK, "Number of results from similarity search.")
	fs.StringVar(&o.Collection, options.Join(prefixes...)+"rag.collection", o.Collection, "Milvus collection name.")
	fs.IntVar(&o.EmbeddingDim, options.Join(prefixes...)+"rag.embedding-dim", o.EmbeddingDim, "Embedding vector dimension.")
	fs.StringVar(&o.SystemPrompt, options.Join(prefixes...)+"rag.system-prompt", o.SystemPrompt, "System instruction for answer generation.")
}

// Validate validates the retrieval options.
func (o *Options) Validate() []error {
	if o == nil {
		return nil
	}

	var errs []error

	if o.ChunkSize <= 0 {
		errs = append(errs, fmt.Errorf("rag.chunk-size must be positive"))
	}
	if o.ChunkOverlap < 0 {
		errs = append(errs, fmt.Errorf("rag.chunk-overlap cannot be negative"))
	}
	if o.ChunkOverlap >= o.ChunkSize {
		errs = append(errs, fmt.Errorf("rag.chunk-overlap must be smaller than rag.chunk-size"))
	}
	if o.MaxSentences <= 0 {
		errs = append(errs, fmt.Errorf("rag.max-sentences must be positive"))
	}
	if o.TopK <= 0 {
		errs = append(errs, fmt.Errorf("rag.top-k must be positive"))
	}
	if o.Collection == "" {
		errs = append(errs, fmt.Errorf("rag.collection cannot be empty"))
	}
	if o.EmbeddingDim <= 0 {
		errs = append(errs, fmt.Errorf("rag.embedding-dim must be positive"))
	}

	return errs
}

// Complete completes the retrieval options with defaults.
func (o *Options) Complete() error {
	if o.SystemPrompt == "" {
		o.SystemPrompt = DefaultSystemPrompt
	}
	return nil
}
