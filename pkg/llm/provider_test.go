package llm

import (
	"context"
	"testing"
)

// mockProvider implements both provider interfaces for registry tests.
type mockProvider struct {
	name string
}

func (m *mockProvider) Embed(_ context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i := range texts {
		embeddings[i] = []float32{0.1, 0.2, 0.3}
	}
	return embeddings, nil
}

func (m *mockProvider) EmbedQuery(_ context.Context, _ string) ([]float32, error) {
	return []float32{0.1, 0.2, 0.3}, nil
}

func (m *mockProvider) Chat(_ context.Context, messages []Message) (string, error) {
	return "mock response to " + messages[len(messages)-1].Content, nil
}

func (m *mockProvider) Generate(_ context.Context, prompt string, _ string) (string, error) {
	return "mock response to " + prompt, nil
}

func (m *mockProvider) Name() string {
	return m.name
}

func TestRegisterAndNewEmbeddingProvider(t *testing.T) {
	RegisterEmbeddingProvider("mock-embed", func(_ map[string]any) (EmbeddingProvider, error) {
		return &mockProvider{name: "mock-embed"}, nil
	})

	provider, err := NewEmbeddingProvider("mock-embed", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Name() != "mock-embed" {
		t.Errorf("expected name mock-embed, got %s", provider.Name())
	}
}

func TestRegisterAndNewChatProvider(t *testing.T) {
	RegisterChatProvider("mock-chat", func(_ map[string]any) (ChatProvider, error) {
		return &mockProvider{name: "mock-chat"}, nil
	})

	provider, err := NewChatProvider("mock-chat", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if provider.Name() != "mock-chat" {
		t.Errorf("expected name mock-chat, got %s", provider.Name())
	}
}

func TestNewProviderUnknown(t *testing.T) {
	if _, err := NewEmbeddingProvider("nonexistent", nil); err == nil {
		t.Error("expected error for unknown embedding provider")
	}
	if _, err := NewChatProvider("nonexistent", nil); err == nil {
		t.Error("expected error for unknown chat provider")
	}
}

func TestListProviders(t *testing.T) {
	RegisterEmbeddingProvider("mock-list", func(_ map[string]any) (EmbeddingProvider, error) {
		return &mockProvider{name: "mock-list"}, nil
	})

	names := ListProviders()
	found := false
	for _, name := range names {
		if name == "mock-list" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected mock-list in %v", names)
	}
}

func TestMessageRole(t *testing.T) {
	msg := Message{Role: RoleUser, Content: "hello"}
	if msg.Role != "user" {
		t.Errorf("expected role user, got %s", msg.Role)
	}
	if RoleSystem != "system" || RoleAssistant != "assistant" {
		t.Error("unexpected role constants")
	}
}

func TestMockProviderEmbed(t *testing.T) {
	p := &mockProvider{name: "mock"}

	embeddings, err := p.Embed(context.Background(), []string{"a", "b"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(embeddings) != 2 {
		t.Errorf("expected 2 embeddings, got %d", len(embeddings))
	}
}
