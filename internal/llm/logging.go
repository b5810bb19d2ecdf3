package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/abhisek/studydesk/internal/logger"
	"github.com/abhisek/studydesk/internal/store"
)

// LoggingProvider is a decorator that records every completion call as an
// LLMRequestEvent and a structured log line.
type LoggingProvider struct {
	inner     Provider
	provider  string
	eventRepo store.EventRepo
	log       *logger.Logger
}

// WithLogging wraps a Provider with event logging. A nil repo skips
// persistence; a nil logger discards log lines.
func WithLogging(p Provider, providerName string, repo store.EventRepo, log *logger.Logger) Provider {
	if log == nil {
		log = logger.Nop()
	}
	return &LoggingProvider{
		inner:     p,
		provider:  providerName,
		eventRepo: repo,
		log:       log.With("component", "llm", "provider", providerName),
	}
}

func (l *LoggingProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	purpose := PurposeFrom(ctx)

	resp, err := l.inner.Generate(ctx, req)

	latencyMs := time.Since(start).Milliseconds()

	data := store.LLMRequestEventData{
		Provider:       l.provider,
		Model:          l.inner.ModelID(),
		Purpose:        purpose,
		ConversationID: ConversationFrom(ctx),
		LatencyMs:      latencyMs,
		Success:        err == nil,
		RequestBody:    serializeRequest(req),
	}

	if resp != nil {
		data.InputTokens = resp.Usage.InputTokens
		data.OutputTokens = resp.Usage.OutputTokens
		if resp.Model != "" {
			data.Model = resp.Model
		}
		data.ResponseBody = string(resp.Content)
	}

	if err != nil {
		data.ErrorMessage = err.Error()
		l.log.Warn("completion failed",
			"purpose", purpose,
			"conversation_id", data.ConversationID,
			"model", data.Model,
			"latency_ms", latencyMs,
			"error", err,
		)
	} else {
		l.log.Debug("completion",
			"purpose", purpose,
			"conversation_id", data.ConversationID,
			"model", data.Model,
			"prompt_chars", len(req.PromptText()),
			"input_tokens", data.InputTokens,
			"output_tokens", data.OutputTokens,
			"latency_ms", latencyMs,
		)
	}

	// Log the event but don't fail the request if logging fails.
	if l.eventRepo != nil {
		if logErr := l.eventRepo.AppendLLMRequest(ctx, data); logErr != nil {
			l.log.Warn("failed to record LLM request event", "error", logErr)
		}
	}

	return resp, err
}

func (l *LoggingProvider) ModelID() string {
	return l.inner.ModelID()
}

// serializeRequest builds a readable representation of the request.
func serializeRequest(req Request) string {
	var b strings.Builder

	if req.System != "" {
		b.WriteString("[system]\n")
		b.WriteString(req.System)
		b.WriteString("\n\n")
	}

	for _, m := range req.Messages {
		b.WriteString(fmt.Sprintf("[%s]\n", m.Role))
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}

	if req.Schema != nil {
		schemaDef, err := json.Marshal(req.Schema.Definition)
		if err == nil {
			b.WriteString(fmt.Sprintf("[schema: %s]\n", req.Schema.Name))
			b.WriteString(string(schemaDef))
			b.WriteString("\n")
		}
	}

	return b.String()
}
