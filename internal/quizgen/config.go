package quizgen

// Config controls the behavior of the Generator.
type Config struct {
	// Validators is the ordered chain run on every decoded record. The
	// first failure drops the record.
	Validators []Validator

	// Questions is the number of questions requested per cycle.
	Questions int

	// MaxTokens is the token budget for the completion.
	MaxTokens int

	// Temperature controls completion randomness.
	Temperature float64

	// Prompt is the request template.
	Prompt Prompt

	// Verbose logs every normalization step at debug level.
	Verbose bool
}

// DefaultConfig returns a Config with the standard validator chain and
// the embedded prompt.
func DefaultConfig() Config {
	return Config{
		Validators:  DefaultValidators(),
		Questions:   5,
		MaxTokens:   2048,
		Temperature: 0.1,
		Prompt:      DefaultPrompt(),
	}
}
