// Package ragchat provides the conversational RAG server implementation.
package ragchat

import (
	"time"

	"github.com/spf13/pflag"
	utilerrors "k8s.io/apimachinery/pkg/util/errors"

	dbopts "github.com/kart-io/ragchat/pkg/options/database"
	httpopts "github.com/kart-io/ragchat/pkg/options/http"
	llmopts "github.com/kart-io/ragchat/pkg/options/llm"
	logopts "github.com/kart-io/ragchat/pkg/options/logger"
	memopts "github.com/kart-io/ragchat/pkg/options/memory"
	milvusopts "github.com/kart-io/ragchat/pkg/options/milvus"
	ragopts "github.com/kart-io/ragchat/pkg/options/rag"
	redisopts "github.com/kart-io/ragchat/pkg/options/redis"
)

// Options contains all server configuration options.
type Options struct {
	// HTTP contains HTTP server configuration.
	HTTP *httpopts.Options `json:"http" mapstructure:"http"`

	// Log contains logger configuration.
	Log *logopts.Options `json:"log" mapstructure:"log"`

	// Database contains relational database configuration.
	Database *dbopts.Options `json:"database" mapstructure:"database"`

	// Redis contains Redis configuration for sessions and caching.
	Redis *redisopts.Options `json:"redis" mapstructure:"redis"`

	// Milvus contains vector database configuration.
	Milvus *milvusopts.Options `json:"milvus" mapstructure:"milvus"`

	// Embedding contains embedding provider configuration.
	Embedding *llmopts.ProviderOptions `json:"embedding" mapstructure:"embedding"`

	// Chat contains chat provider configuration.
	Chat *llmopts.ProviderOptions `json:"chat" mapstructure:"chat"`

	// RAG contains chunking and retrieval configuration.
	RAG *ragopts.Options `json:"rag" mapstructure:"rag"`

	// Memory contains conversation memory configuration.
	Memory *memopts.Options `json:"memory" mapstructure:"memory"`

	// ShutdownTimeout is the timeout for graceful shutdown.
	ShutdownTimeout time.Duration `json:"shutdown-timeout" mapstructure:"shutdown-timeout"`
}

// NewOptions creates an Options instance with default values.
func NewOptions() *Options {
	return &Options{
		HTTP:            httpopts.NewOptions(),
		Log:             logopts.NewOptions(),
		Database:        dbopts.NewOptions(),
		Redis:           redisopts.NewOptions(),
		Milvus:          milvusopts.NewOptions(),
		Embedding:       llmopts.NewEmbeddingOptions(),
		Chat:            llmopts.NewChatOptions(),
		RAG:             ragopts.NewOptions(),
		Memory:          memopts.NewOptions(),
		ShutdownTimeout: 30 * time.Second,
	}
}

// AddFlags adds all server flags to the flagset.
func (o *Options) AddFlags(fs *pflag.FlagSet) {
	o.HTTP.AddFlags(fs)
	o.Log.AddFlags(fs)
	o.Database.AddFlags(fs)
	o.Redis.AddFlags(fs)
	o.Milvus.AddFlags(fs)
	o.Embedding.AddFlags(fs, "embedding")
	o.Chat.AddFlags(fs, "chat")
	o.RAG.AddFlags(fs)
	o.Memory.AddFlags(fs)

	fs.DurationVar(&o.ShutdownTimeout, "shutdown-timeout", o.ShutdownTimeout, "Graceful shutdown timeout.")
}

// Complete completes the options with computed defaults.
func (o *Options) Complete() error {
	if err := o.HTTP.Complete(); err != nil {
		return err
	}
	if err := o.RAG.Complete(); err != nil {
		return err
	}
	if err := o.Memory.Complete(); err != nil {
		return err
	}
	return o.Log.Complete()
}

// Validate checks all option groups.
func (o *Options) Validate() error {
	var errs []error

	errs = append(errs, o.HTTP.Validate()...)
	errs = append(errs, o.Log.Validate())
	errs = append(errs, o.Database.Validate())
	errs = append(errs, o.Redis.Validate())
	errs = append(errs, o.Milvus.Validate()...)
	errs = append(errs, o.Embedding.Validate()...)
	errs = append(errs, o.Chat.Validate()...)
	errs = append(errs, o.RAG.Validate()...)
	errs = append(errs, o.Memory.Validate()...)

	return utilerrors.NewAggregate(errs)
}
