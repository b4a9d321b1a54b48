package ragchat

import (
	"context"
	"fmt"
	"net/http"

	"github.com/kart-io/logger"
	goredis "github.com/redis/go-redis/v9"

	"github.com/kart-io/ragchat/internal/ragchat/biz"
	"github.com/kart-io/ragchat/internal/ragchat/handler"
	"github.com/kart-io/ragchat/internal/ragchat/router"
	"github.com/kart-io/ragchat/internal/ragchat/store"
	"github.com/kart-io/ragchat/pkg/app"
	"github.com/kart-io/ragchat/pkg/component/database"
	"github.com/kart-io/ragchat/pkg/component/milvus"
	"github.com/kart-io/ragchat/pkg/llm"

	// LLM providers register themselves on import.
	_ "github.com/kart-io/ragchat/pkg/llm/gemini"
	_ "github.com/kart-io/ragchat/pkg/llm/ollama"
	_ "github.com/kart-io/ragchat/pkg/llm/openai"
)

// Name is the name of the application.
const Name = "ragchat"

// Server is the assembled chat service.
type Server struct {
	opts       *Options
	httpServer *http.Server
	milvus     *milvus.Client
	redis      *goredis.Client
	factory    store.Factory
}

// NewServer wires the full service from the options: storage clients,
// LLM providers, the business layer and the HTTP surface.
func (o *Options) NewServer(ctx context.Context) (*Server, error) {
	o.Log.AddInitialField("service.name", Name)
	o.Log.AddInitialField("service.version", app.GetVersion())
	if err := o.Log.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("Starting ragchat service...")

	db, err := database.NewWithContext(ctx, o.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	factory := store.NewFactory(db)
	if err := factory.AutoMigrate(); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	logger.Info("Database initialized")

	redisClient := goredis.NewClient(&goredis.Options{
		Addr:         o.Redis.Addr(),
		Password:     o.Redis.Password,
		DB:           o.Redis.Database,
		MaxRetries:   o.Redis.MaxRetries,
		PoolSize:     o.Redis.PoolSize,
		MinIdleConns: o.Redis.MinIdleConns,
	})
	// Sessions live in Redis, so unlike a cache this connection is
	// required.
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	logger.Info("Redis client initialized")

	milvusClient, err := milvus.New(o.Milvus)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize milvus: %w", err)
	}
	vectorStore := store.NewMilvusStore(milvusClient)
	logger.Info("Milvus client initialized")

	embedder, err := llm.NewEmbeddingProvider(o.Embedding.Provider, o.Embedding.ToConfigMap())
	if err != nil {
		return nil, fmt.Errorf("failed to create embedding provider: %w", err)
	}
	cachedEmbedder := llm.NewCachedEmbeddingProvider(embedder, redisClient, nil)
	logger.Infof("Embedding provider initialized: %s (%s)", o.Embedding.Provider, o.Embedding.Model)

	chatProvider, err := llm.NewChatProvider(o.Chat.Provider, o.Chat.ToConfigMap())
	if err != nil {
		return nil, fmt.Errorf("failed to create chat provider: %w", err)
	}
	logger.Infof("Chat provider initialized: %s (%s)", o.Chat.Provider, o.Chat.Model)

	chunker, err := biz.NewChunker(&biz.ChunkerConfig{
		ChunkSize:    o.RAG.ChunkSize,
		ChunkOverlap: o.RAG.ChunkOverlap,
		MaxSentences: o.RAG.MaxSentences,
	})
	if err != nil {
		return nil, fmt.Errorf("invalid chunker configuration: %w", err)
	}

	ingestor, err := biz.NewIngestor(ctx, &biz.IngestorConfig{
		Collection:   o.RAG.Collection,
		EmbeddingDim: o.RAG.EmbeddingDim,
	}, chunker, cachedEmbedder, vectorStore, factory.Documents())
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ingestor: %w", err)
	}

	memory := biz.NewMemory(redisClient, &biz.MemoryConfig{
		MaxTurns:  o.Memory.MaxTurns,
		TTL:       o.Memory.TTL,
		KeyPrefix: o.Memory.KeyPrefix,
	})

	engine := biz.NewEngine(&biz.EngineConfig{
		Collection:   o.RAG.Collection,
		TopK:         o.RAG.TopK,
		SystemPrompt: o.RAG.SystemPrompt,
	}, cachedEmbedder, chatProvider, vectorStore, memory)

	extractor := biz.NewBookingExtractor(chatProvider, factory.Bookings())

	service := biz.NewService(o.RAG.Collection, ingestor, engine, extractor, memory, vectorStore)
	logger.Info("Business layer initialized")

	ginEngine := router.New(
		handler.NewIngestHandler(service, o.HTTP.MaxUploadSize),
		handler.NewChatHandler(service),
	)

	return &Server{
		opts: o,
		httpServer: &http.Server{
			Addr:         o.HTTP.Addr,
			Handler:      ginEngine,
			ReadTimeout:  o.HTTP.ReadTimeout,
			WriteTimeout: o.HTTP.WriteTimeout,
			IdleTimeout:  o.HTTP.IdleTimeout,
		},
		milvus:  milvusClient,
		redis:   redisClient,
		factory: factory,
	}, nil
}

// Run starts the HTTP server and blocks until ctx is cancelled, then
// shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP server listening on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server failed: %w", err)
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.opts.ShutdownTimeout)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Warnw("HTTP server shutdown failed", "error", err.Error())
	}

	if err := s.milvus.Close(shutdownCtx); err != nil {
		logger.Warnw("failed to close milvus client", "error", err.Error())
	}
	if err := s.redis.Close(); err != nil {
		logger.Warnw("failed to close redis client", "error", err.Error())
	}
	if err := s.factory.Close(); err != nil {
		logger.Warnw("failed to close database", "error", err.Error())
	}

	logger.Info("Shutdown complete")
	return nil
}
