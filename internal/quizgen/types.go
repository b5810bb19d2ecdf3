package quizgen

// Option is one lettered answer choice of a question.
type Option struct {
	Letter  string
	Text    string
	Reason  string
	Correct bool
}

// Reason pairs an option letter with its explanation.
type Reason struct {
	Letter string
	Reason string
}

// Candidate is a validated question extracted from one completion.
// It always carries exactly five options with non-empty text, reason and
// correctness, and its text is never in the exclusion set it was
// extracted against.
type Candidate struct {
	ConversationID uint

	// Text is the question prompt.
	Text string

	// Options are ordered by letter.
	Options []Option

	// CorrectAnswer concatenates the letters of the correct options in
	// option order, e.g. "AC".
	CorrectAnswer string

	// MultipleChoice is true when more than one option is correct.
	MultipleChoice bool

	// Reasons are the per-option explanations in option order.
	Reasons []Reason

	// RawResponse is the text the candidate came from: the full completion
	// when generated, the normalized payload when extracted directly.
	RawResponse string
}

// GenerateInput holds everything needed for one generation cycle.
type GenerateInput struct {
	ConversationID uint

	// Topic is the study conversation name sent to the model.
	Topic string

	// Exclusion holds the question texts already stored for the
	// conversation. May be nil.
	Exclusion *ExclusionSet
}

// Result is the outcome of one generation cycle.
type Result struct {
	Questions []Candidate

	// Skipped counts the records dropped by validation.
	Skipped int

	// Prompt is the text sent to the completion service.
	Prompt string

	// Raw is the completion text before normalization.
	Raw string

	// Normalized is the repaired JSON payload.
	Normalized string
}
