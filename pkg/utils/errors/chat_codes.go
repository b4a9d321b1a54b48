package errors

import "net/http"

// Conversational RAG service errors (service code 20).
var (
	// Request errors (category 01)
	ErrChatInvalidRequest  = Register(New(MakeCode(ServiceChat, CategoryRequest, 1), http.StatusBadRequest, "Invalid request parameters"))
	ErrChatUnsupportedFile = Register(New(MakeCode(ServiceChat, CategoryRequest, 2), http.StatusBadRequest, "Unsupported file type, only .txt is accepted"))
	ErrChatEmptyDocument   = Register(New(MakeCode(ServiceChat, CategoryRequest, 3), http.StatusBadRequest, "Document contains no text"))
	ErrChatInvalidStrategy = Register(New(MakeCode(ServiceChat, CategoryRequest, 4), http.StatusBadRequest, "Unknown chunking strategy"))

	// Internal errors (category 07)
	ErrChatIngestFailed = Register(New(MakeCode(ServiceChat, CategoryInternal, 1), http.StatusInternalServerError, "Document ingestion failed"))
	ErrChatAnswerFailed = Register(New(MakeCode(ServiceChat, CategoryInternal, 2), http.StatusInternalServerError, "Failed to answer message"))

	// Dependency errors
	ErrChatMemoryFailed = Register(New(MakeCode(ServiceChat, CategoryCache, 1), http.StatusInternalServerError, "Conversation memory unavailable"))
	ErrChatVectorStore  = Register(New(MakeCode(ServiceChat, CategoryNetwork, 1), http.StatusServiceUnavailable, "Vector store unavailable"))
	ErrChatLLMFailed    = Register(New(MakeCode(ServiceChat, CategoryNetwork, 2), http.StatusBadGateway, "LLM provider request failed"))
)
