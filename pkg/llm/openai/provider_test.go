package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kart-io/ragchat/pkg/llm"
)

const testAPIKey = "test-key"

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.BaseURL != "https://api.openai.com/v1" {
		t.Errorf("expected BaseURL https://api.openai.com/v1, got %s", cfg.BaseURL)
	}
	if cfg.ChatModel != "gpt-4o-mini" {
		t.Errorf("expected ChatModel gpt-4o-mini, got %s", cfg.ChatModel)
	}
	if cfg.Timeout != 120*time.Second {
		t.Errorf("expected Timeout 120s, got %v", cfg.Timeout)
	}
	if cfg.MaxRetries != 3 {
		t.Errorf("expected MaxRetries 3, got %d", cfg.MaxRetries)
	}
}

func TestNewProvider(t *testing.T) {
	tests := []struct {
		name      string
		config    map[string]any
		wantError bool
	}{
		{
			name: "valid config",
			config: map[string]any{
				"api_key": testAPIKey,
			},
			wantError: false,
		},
		{
			name: "groq config",
			config: map[string]any{
				"api_key":  testAPIKey,
				"base_url": "https://api.groq.com/openai/v1",
				"model":    "llama-3.1-8b-instant",
			},
			wantError: false,
		},
		{
			name:      "missing api_key",
			config:    map[string]any{},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewProvider(tt.config)
			if tt.wantError {
				if err == nil {
					t.Error("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if provider.Name() != ProviderName {
				t.Errorf("expected name %s, got %s", ProviderName, provider.Name())
			}
		})
	}
}

func TestProviderChat(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer "+testAPIKey {
			t.Errorf("unexpected Authorization header: %s", got)
		}

		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if req.Model != "llama-3.1-8b-instant" {
			t.Errorf("unexpected model: %s", req.Model)
		}
		if len(req.Messages) != 2 {
			t.Errorf("expected 2 messages, got %d", len(req.Messages))
		}

		resp := chatResponse{}
		resp.Choices = []struct {
			Index        int         `json:"index"`
			Message      chatMessage `json:"message"`
			FinishReason string      `json:"finish_reason"`
		}{
			{Message: chatMessage{Role: "assistant", Content: "We open at 9am."}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider := NewProviderWithConfig(&Config{
		BaseURL:   server.URL,
		APIKey:    testAPIKey,
		ChatModel: "llama-3.1-8b-instant",
		Timeout:   5 * time.Second,
	})

	answer, err := provider.Chat(context.Background(), []llm.Message{
		{Role: llm.RoleSystem, Content: "You are a helpful assistant."},
		{Role: llm.RoleUser, Content: "When do you open?"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "We open at 9am." {
		t.Errorf("unexpected answer: %s", answer)
	}
}

func TestProviderGenerate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode request: %v", err)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" {
			t.Errorf("expected system + user messages, got %+v", req.Messages)
		}

		resp := chatResponse{}
		resp.Choices = []struct {
			Index        int         `json:"index"`
			Message      chatMessage `json:"message"`
			FinishReason string      `json:"finish_reason"`
		}{
			{Message: chatMessage{Role: "assistant", Content: `{"booking": false}`}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider := NewProviderWithConfig(&Config{
		BaseURL:   server.URL,
		APIKey:    testAPIKey,
		ChatModel: "llama-3.1-8b-instant",
		Timeout:   5 * time.Second,
	})

	out, err := provider.Generate(context.Background(), "extract booking", "You extract bookings.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out != `{"booking": false}` {
		t.Errorf("unexpected output: %s", out)
	}
}

func TestProviderChatEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(chatResponse{})
	}))
	defer server.Close()

	provider := NewProviderWithConfig(&Config{
		BaseURL:   server.URL,
		APIKey:    testAPIKey,
		ChatModel: "gpt-4o-mini",
		Timeout:   5 * time.Second,
	})

	if _, err := provider.Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}}); err == nil {
		t.Error("expected error for empty choices")
	}
}

func TestProviderRetryOn5xx(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		resp := chatResponse{}
		resp.Choices = []struct {
			Index        int         `json:"index"`
			Message      chatMessage `json:"message"`
			FinishReason string      `json:"finish_reason"`
		}{
			{Message: chatMessage{Role: "assistant", Content: "ok"}},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	provider := NewProviderWithConfig(&Config{
		BaseURL:    server.URL,
		APIKey:     testAPIKey,
		ChatModel:  "gpt-4o-mini",
		Timeout:    5 * time.Second,
		MaxRetries: 2,
	})

	answer, err := provider.Chat(context.Background(), []llm.Message{{Role: llm.RoleUser, Content: "hi"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "ok" {
		t.Errorf("unexpected answer: %s", answer)
	}
	if calls != 2 {
		t.Errorf("expected 2 calls, got %d", calls)
	}
}
