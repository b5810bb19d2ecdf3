package quizgen

import (
	"fmt"
	"strings"
)

// RequiredOptions is the number of options every emitted question carries.
const RequiredOptions = 5

// Record is one decoded question entry before validation.
type Record struct {
	// Key is the question index the model used, e.g. "3".
	Key     string
	Text    string
	Options []RecordOption
}

// RecordOption is an option exactly as decoded; Correct is the string form
// of whatever the model sent.
type RecordOption struct {
	Letter  string
	Text    string
	Reason  string
	Correct string
}

// Validator checks a decoded record before it becomes a Candidate.
// Implementations should be stateless and safe for concurrent use.
type Validator interface {
	// Name returns a short identifier used in logs, e.g. "option-count".
	Name() string

	// Validate returns nil if the record passes. seen holds the excluded
	// texts plus those already accepted from the same payload.
	Validate(r *Record, seen *ExclusionSet) *ValidationError
}

// DefaultValidators returns the standard chain in the order it runs.
func DefaultValidators() []Validator {
	return []Validator{
		&QuestionTextValidator{},
		&ExclusionValidator{},
		&OptionFieldsValidator{},
		&OptionCountValidator{Want: RequiredOptions},
		&OptionLettersValidator{Letters: optionLetters},
	}
}

// QuestionTextValidator rejects records without question text.
type QuestionTextValidator struct{}

func (v *QuestionTextValidator) Name() string { return "question-text" }

func (v *QuestionTextValidator) Validate(r *Record, _ *ExclusionSet) *ValidationError {
	if r.Text == "" {
		return &ValidationError{Validator: v.Name(), Key: r.Key, Message: "question text is empty"}
	}
	return nil
}

// ExclusionValidator rejects questions that were already asked.
type ExclusionValidator struct{}

func (v *ExclusionValidator) Name() string { return "exclusion" }

func (v *ExclusionValidator) Validate(r *Record, seen *ExclusionSet) *ValidationError {
	if seen.Contains(r.Text) {
		return &ValidationError{Validator: v.Name(), Key: r.Key, Message: "question already asked"}
	}
	return nil
}

// OptionFieldsValidator rejects records with any option missing its text,
// reason or correctness.
type OptionFieldsValidator struct{}

func (v *OptionFieldsValidator) Name() string { return "option-fields" }

func (v *OptionFieldsValidator) Validate(r *Record, _ *ExclusionSet) *ValidationError {
	for _, o := range r.Options {
		var missing []string
		if o.Text == "" {
			missing = append(missing, "Text")
		}
		if o.Reason == "" {
			missing = append(missing, "Reason")
		}
		if o.Correct == "" {
			missing = append(missing, "Correct")
		}
		if len(missing) > 0 {
			return &ValidationError{
				Validator: v.Name(),
				Key:       r.Key,
				Message:   fmt.Sprintf("option %s is missing %s", o.Letter, strings.Join(missing, ", ")),
			}
		}
	}
	return nil
}

// OptionCountValidator requires exactly Want options.
type OptionCountValidator struct {
	Want int
}

func (v *OptionCountValidator) Name() string { return "option-count" }

func (v *OptionCountValidator) Validate(r *Record, _ *ExclusionSet) *ValidationError {
	if len(r.Options) != v.Want {
		return &ValidationError{
			Validator: v.Name(),
			Key:       r.Key,
			Message:   fmt.Sprintf("expected %d options, got %d", v.Want, len(r.Options)),
		}
	}
	return nil
}

// OptionLettersValidator requires each of Letters exactly once and no other
// option letter.
type OptionLettersValidator struct {
	Letters string
}

func (v *OptionLettersValidator) Name() string { return "option-letters" }

func (v *OptionLettersValidator) Validate(r *Record, _ *ExclusionSet) *ValidationError {
	seen := make(map[string]bool, len(r.Options))
	for _, o := range r.Options {
		if len(o.Letter) != 1 || !strings.Contains(v.Letters, o.Letter) || seen[o.Letter] {
			return &ValidationError{
				Validator: v.Name(),
				Key:       r.Key,
				Message:   fmt.Sprintf("option letter %q is not one of %s or repeats", o.Letter, v.Letters),
			}
		}
		seen[o.Letter] = true
	}
	if len(seen) != len(v.Letters) {
		return &ValidationError{
			Validator: v.Name(),
			Key:       r.Key,
			Message:   fmt.Sprintf("expected options %s, got %d", v.Letters, len(seen)),
		}
	}
	return nil
}
