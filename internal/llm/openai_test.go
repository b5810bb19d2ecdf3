package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	openai "github.com/sashabaranov/go-openai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOpenAIProvider(t *testing.T, handler http.HandlerFunc) *OpenAIProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	config := openai.DefaultConfig("test-key")
	config.BaseURL = server.URL + "/v1"
	return &OpenAIProvider{client: openai.NewClientWithConfig(config), model: "gpt-4o-mini"}
}

func chatCompletion(content, finish string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-test",
			"object":  "chat.completion",
			"created": 1234567890,
			"model":   "gpt-4o-mini-2024-07-18",
			"choices": []map[string]any{{
				"index":         0,
				"message":       map[string]any{"role": "assistant", "content": content},
				"finish_reason": finish,
			}},
			"usage": map[string]any{"prompt_tokens": 40, "completion_tokens": 25, "total_tokens": 65},
		})
	}
}

func openAIError(status int, code string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{
			"error": map[string]any{"type": code, "message": code, "code": code},
		})
	}
}

func TestOpenAIProviderText(t *testing.T) {
	var got openai.ChatCompletionRequest
	p := newTestOpenAIProvider(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		chatCompletion(`{"1": {"Question": "Which organelle hosts photosynthesis?"}}`, "stop")(w, r)
	})

	resp, err := p.Generate(context.Background(), quizRequest)
	require.NoError(t, err)
	assert.Contains(t, resp.Text(), "Which organelle")
	assert.Equal(t, Usage{InputTokens: 40, OutputTokens: 25, TotalTokens: 65}, resp.Usage)
	assert.Equal(t, "gpt-4o-mini-2024-07-18", resp.Model)

	require.Len(t, got.Messages, 2)
	assert.Equal(t, openai.ChatMessageRoleSystem, got.Messages[0].Role)
	assert.Equal(t, quizRequest.Messages[0].Content, got.Messages[1].Content)
	assert.Nil(t, got.ResponseFormat)
}

func TestOpenAIProviderErrors(t *testing.T) {
	tests := []struct {
		name    string
		handler http.HandlerFunc
		target  any
	}{
		{"rate limited", openAIError(http.StatusTooManyRequests, "rate_limit_exceeded"), new(*ErrRateLimit)},
		{"server error", openAIError(http.StatusInternalServerError, "server_error"), new(*ErrProviderUnavailable)},
		{"unknown model", openAIError(http.StatusNotFound, "model_not_found"), new(*ErrRejected)},
		{"truncated", chatCompletion(`[{"1": {"Quest`, "length"), new(*ErrMaxTokensExceeded)},
		{"empty", chatCompletion("", "stop"), new(*ErrInvalidResponse)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newTestOpenAIProvider(t, tt.handler)
			_, err := p.Generate(context.Background(), quizRequest)
			assert.ErrorAs(t, err, tt.target)
		})
	}
}

func TestNewOpenAIProvider(t *testing.T) {
	_, err := NewOpenAIProvider(OpenAIConfig{Model: "gpt"})
	assert.Error(t, err)

	p, err := NewOpenAIProvider(OpenAIConfig{APIKey: "k", Model: "gpt-turbo", BaseURL: "https://llm.internal.example/v1"})
	require.NoError(t, err)
	assert.Equal(t, "gpt-3.5-turbo", p.ModelID())
}

func TestNewOpenRouterProvider(t *testing.T) {
	_, err := NewOpenRouterProvider(OpenRouterConfig{Model: "openai/gpt-4o-mini"})
	assert.Error(t, err)

	// Vendor-prefixed names skip the friendly-name table.
	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "anthropic/claude-3-haiku"})
	require.NoError(t, err)
	assert.Equal(t, "anthropic/claude-3-haiku", p.ModelID())
}

func TestOpenRouterUsesBaseURL(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		chatCompletion(`[]`, "stop")(w, r)
	}))
	t.Cleanup(server.Close)

	p, err := NewOpenRouterProvider(OpenRouterConfig{APIKey: "sk-or-test", Model: "openai/gpt-4o-mini", BaseURL: server.URL + "/api/v1"})
	require.NoError(t, err)
	_, err = p.Generate(context.Background(), quizRequest)
	require.NoError(t, err)
	assert.Equal(t, "/api/v1/chat/completions", path)
}
