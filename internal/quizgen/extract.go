package quizgen

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/abhisek/studydesk/internal/logger"
)

const optionLetters = "ABCDE"

// questionOutput is one question as the model writes it.
type questionOutput struct {
	Question string                  `json:"Question"`
	Options  map[string]optionOutput `json:"Options"`
}

type optionOutput struct {
	Text    string     `json:"Text"`
	Reason  string     `json:"Reason"`
	Correct flexString `json:"Correct"`
}

// flexString accepts a JSON string, boolean or number. Models send
// "Correct" as "True", true and occasionally 1.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch t := v.(type) {
	case nil:
		*f = ""
	case string:
		*f = flexString(t)
	case bool:
		*f = flexString(strconv.FormatBool(t))
	case float64:
		*f = flexString(strconv.FormatFloat(t, 'f', -1, 64))
	default:
		return fmt.Errorf("unsupported value %s", b)
	}
	return nil
}

// Extractor turns a normalized payload into validated candidates.
type Extractor struct {
	validators []Validator
	log        *logger.Logger
}

// NewExtractor returns an Extractor running validators, or
// DefaultValidators when none are given.
func NewExtractor(log *logger.Logger, validators ...Validator) *Extractor {
	if log == nil {
		log = logger.Nop()
	}
	if len(validators) == 0 {
		validators = DefaultValidators()
	}
	return &Extractor{validators: validators, log: log}
}

// Extract runs the default Extractor.
func Extract(payload string, conversationID uint, exclusion *ExclusionSet) ([]Candidate, int, error) {
	return NewExtractor(nil).Extract(payload, conversationID, exclusion)
}

// Extract decodes payload and returns the records that pass every
// validator, along with the number skipped. Invalid records are dropped
// silently; an error is returned only when payload is not an array of
// objects.
func (e *Extractor) Extract(payload string, conversationID uint, exclusion *ExclusionSet) ([]Candidate, int, error) {
	var entries []map[string]json.RawMessage
	if err := json.Unmarshal([]byte(payload), &entries); err != nil {
		return nil, 0, &ParseError{Raw: payload, Repaired: payload, Err: fmt.Errorf("decode payload: %w", err)}
	}

	seen := exclusion.Clone()
	var out []Candidate
	skipped := 0

	for _, entry := range entries {
		for _, key := range sortedKeys(entry) {
			rec, err := decodeRecord(key, entry[key])
			if err != nil {
				skipped++
				e.log.Debug("skip question", "key", key, "validator", "decode", "reason", err.Error())
				continue
			}
			if verr := e.Check(rec, seen); verr != nil {
				skipped++
				e.log.Debug("skip question", "key", key, "validator", verr.Validator, "reason", verr.Message)
				continue
			}
			seen.Add(rec.Text)
			out = append(out, rec.Candidate(conversationID, payload))
		}
	}
	return out, skipped, nil
}

// Check runs the validator chain on r and returns the first failure.
func (e *Extractor) Check(r *Record, seen *ExclusionSet) *ValidationError {
	for _, v := range e.validators {
		if verr := v.Validate(r, seen); verr != nil {
			return verr
		}
	}
	return nil
}

func decodeRecord(key string, raw json.RawMessage) (*Record, error) {
	var q questionOutput
	if err := json.Unmarshal(raw, &q); err != nil {
		return nil, err
	}

	rec := &Record{Key: key, Text: strings.TrimSpace(q.Question)}
	for letter, o := range q.Options {
		rec.Options = append(rec.Options, RecordOption{
			Letter:  strings.ToUpper(strings.TrimSpace(letter)),
			Text:    strings.TrimSpace(o.Text),
			Reason:  strings.TrimSpace(o.Reason),
			Correct: strings.TrimSpace(string(o.Correct)),
		})
	}
	sort.SliceStable(rec.Options, func(i, j int) bool {
		return letterLess(rec.Options[i].Letter, rec.Options[j].Letter)
	})
	return rec, nil
}

// Candidate derives the correct-answer letters and multiple-choice flag
// from the options. r should already have passed Check.
func (r *Record) Candidate(conversationID uint, raw string) Candidate {
	c := Candidate{
		ConversationID: conversationID,
		Text:           r.Text,
		RawResponse:    raw,
	}
	var correct strings.Builder
	hits := 0
	for _, o := range r.Options {
		ok := strings.EqualFold(o.Correct, "true")
		if ok {
			correct.WriteString(o.Letter)
			hits++
		}
		c.Options = append(c.Options, Option{Letter: o.Letter, Text: o.Text, Reason: o.Reason, Correct: ok})
		c.Reasons = append(c.Reasons, Reason{Letter: o.Letter, Reason: o.Reason})
	}
	c.CorrectAnswer = correct.String()
	c.MultipleChoice = hits > 1
	return c
}

// sortedKeys orders record keys numerically, then any non-numeric keys
// lexicographically.
func sortedKeys(entry map[string]json.RawMessage) []string {
	keys := make([]string, 0, len(entry))
	for k := range entry {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		ni, errI := strconv.Atoi(keys[i])
		nj, errJ := strconv.Atoi(keys[j])
		switch {
		case errI == nil && errJ == nil && ni != nj:
			return ni < nj
		case errI == nil && errJ != nil:
			return true
		case errI != nil && errJ == nil:
			return false
		}
		return keys[i] < keys[j]
	})
	return keys
}

// letterLess orders A through E first, then anything else lexicographically.
func letterLess(a, b string) bool {
	rank := func(s string) int {
		if len(s) == 1 {
			if i := strings.Index(optionLetters, s); i >= 0 {
				return i
			}
		}
		return len(optionLetters)
	}
	if ra, rb := rank(a), rank(b); ra != rb {
		return ra < rb
	}
	return a < b
}
