package quizgen

import "fmt"

// TransportError indicates the completion call failed or returned no text.
// Err carries the provider's typed error, if any.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil {
		return "completion returned no text"
	}
	return fmt.Sprintf("completion failed: %v", e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// ParseError indicates the completion text could not be repaired into the
// expected JSON payload.
type ParseError struct {
	// Raw is the text as received.
	Raw string

	// Repaired is the text after all repairs were applied.
	Repaired string

	Err error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("normalize completion: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ValidationError describes why an extracted record was skipped.
type ValidationError struct {
	Validator string // Name of the validator that failed
	Message   string // Human-readable description of the failure
	Key       string // Record key, e.g. "3"
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("record %s: validator %q: %s", e.Key, e.Validator, e.Message)
}
