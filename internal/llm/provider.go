package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// Provider is the core abstraction for completion services.
type Provider interface {
	// Generate sends a prompt to the model. When the request carries a
	// Schema the provider uses its structured output mechanism and the
	// response Content is validated JSON; otherwise Content holds the raw
	// completion text.
	Generate(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the model.
type Request struct {
	// System is the system prompt. Optional.
	System string

	// Messages is the conversation history. Quiz generation sends a single
	// user message.
	Messages []Message

	// Schema is the JSON Schema the response must conform to. Nil requests
	// free text.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Zero leaves the provider default.
	Temperature float64
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the model.
type Schema struct {
	// Name identifies this schema (tool name for Anthropic, schema name for
	// OpenAI, cache key for validation). Kebab-case, e.g. "quiz-payload".
	Name string

	// Description is a human-readable description of what this schema
	// represents.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the model output.
type Response struct {
	// Content is the generated output: validated JSON for schema requests,
	// the raw completion text otherwise.
	Content json.RawMessage

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Text returns Content as a trimmed string.
func (r *Response) Text() string {
	if r == nil {
		return ""
	}
	return strings.TrimSpace(string(r.Content))
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}

// PromptText flattens the user messages of a request, for providers and
// logs that need a single prompt string.
func (r Request) PromptText() string {
	var parts []string
	for _, m := range r.Messages {
		if m.Role == RoleUser {
			parts = append(parts, m.Content)
		}
	}
	return strings.Join(parts, "\n\n")
}
