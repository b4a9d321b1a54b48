// Package app provides the ragchat server application.
package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	ragchat "github.com/kart-io/ragchat/internal/ragchat"
	"github.com/kart-io/ragchat/pkg/app"
)

const (
	// Name is the name of the application.
	Name = "ragchat"

	// commandDesc is the description of the command.
	commandDesc = `Conversational RAG backend

The service answers questions over an uploaded knowledge base:

  - Plain-text document ingestion with fixed or sentence chunking
  - Vector retrieval over Milvus with cached embeddings
  - Session-scoped conversation memory in Redis
  - Opportunistic interview booking extraction`
)

// NewApp creates and returns a new App object with default parameters.
func NewApp() *app.App {
	opts := ragchat.NewOptions()
	application := app.NewApp(
		app.WithName(Name),
		app.WithDescription(commandDesc),
		app.WithOptions(opts),
		app.WithRunFunc(run(opts)),
	)

	return application
}

// run contains the main logic for initializing and running the server.
func run(opts *ragchat.Options) app.RunFunc {
	return func() error {
		ctx := setupSignalContext()

		server, err := opts.NewServer(ctx)
		if err != nil {
			return fmt.Errorf("failed to create server: %w", err)
		}

		return server.Run(ctx)
	}
}

// setupSignalContext returns a context that is cancelled on SIGINT or SIGTERM.
func setupSignalContext() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 2)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		cancel()
		<-c
		os.Exit(1)
	}()
	return ctx
}
