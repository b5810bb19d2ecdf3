package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// ErrRateLimit is a 429 from the completion service.
type ErrRateLimit struct {
	RetryAfter time.Duration
	Err        error
}

func (e *ErrRateLimit) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("rate limited, retry after %s: %v", e.RetryAfter, e.Err)
	}
	return fmt.Sprintf("rate limited: %v", e.Err)
}

func (e *ErrRateLimit) Unwrap() error { return e.Err }

// ErrInvalidResponse means the service answered but the answer is unusable:
// no text at all, or JSON that fails the requested schema.
type ErrInvalidResponse struct {
	Content json.RawMessage
	Err     error
}

func (e *ErrInvalidResponse) Error() string {
	return fmt.Sprintf("invalid completion: %v", e.Err)
}

func (e *ErrInvalidResponse) Unwrap() error { return e.Err }

// ErrProviderUnavailable covers network failures and 5xx answers.
type ErrProviderUnavailable struct {
	Err error
}

func (e *ErrProviderUnavailable) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("completion service unavailable: %v", e.Err)
	}
	return "completion service unavailable"
}

func (e *ErrProviderUnavailable) Unwrap() error { return e.Err }

// ErrRejected is a 4xx other than 429: a bad API key, an unknown model or a
// malformed request. Repeating the call cannot help.
type ErrRejected struct {
	Status int
	Err    error
}

func (e *ErrRejected) Error() string {
	return fmt.Sprintf("completion rejected (HTTP %d): %v", e.Status, e.Err)
}

func (e *ErrRejected) Unwrap() error { return e.Err }

// ErrMaxTokensExceeded means the completion was cut off at MaxTokens.
// Content holds the partial text.
type ErrMaxTokensExceeded struct {
	Content json.RawMessage
}

func (e *ErrMaxTokensExceeded) Error() string {
	return fmt.Sprintf("completion truncated at max tokens after %d bytes", len(e.Content))
}

// classifyStatus turns an SDK error carrying an HTTP status into one of the
// typed errors above. Context errors pass through untouched.
func classifyStatus(status int, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	switch {
	case status == http.StatusTooManyRequests:
		return &ErrRateLimit{Err: err}
	case status >= 400 && status < 500:
		return &ErrRejected{Status: status, Err: err}
	default:
		return &ErrProviderUnavailable{Err: err}
	}
}

// Retryable reports whether repeating the same request may succeed.
// ErrInvalidResponse is retryable here; RetryProvider limits it to one
// extra attempt.
func Retryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var (
		rejected *ErrRejected
		maxTok   *ErrMaxTokensExceeded
	)
	if errors.As(err, &rejected) || errors.As(err, &maxTok) {
		return false
	}
	return true
}
