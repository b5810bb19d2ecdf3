package llm

import (
	"encoding/json"
	"errors"
)

// Normalized stop reasons.
const (
	StopEnd       = "end"
	StopMaxTokens = "max_tokens"
)

// finish applies the checks every provider shares to a completion: the text
// must be non-empty, must not be truncated, and must satisfy the request
// schema when there is one.
func finish(req Request, text string, stop string, usage Usage, model string) (*Response, error) {
	content := json.RawMessage(text)
	if len(content) == 0 {
		return nil, &ErrInvalidResponse{Err: errors.New("empty completion")}
	}
	if stop == StopMaxTokens {
		return nil, &ErrMaxTokensExceeded{Content: content}
	}
	if req.Schema != nil {
		if err := ValidateJSON(req.Schema, content); err != nil {
			return nil, err
		}
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.InputTokens + usage.OutputTokens
	}
	return &Response{Content: content, Usage: usage, Model: model, StopReason: stop}, nil
}

// resolveModel maps a friendly model name to a provider model ID. Unknown
// names are used as given.
func resolveModel(name string, models map[string]string) string {
	if id, ok := models[name]; ok {
		return id
	}
	return name
}
