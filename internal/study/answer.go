package study

import (
	"context"
	"fmt"
	"strings"

	"github.com/abhisek/studydesk/internal/store"
)

// AnswerResult reports how a submitted answer scored.
type AnswerResult struct {
	QuestionID uint `json:"question_id"`

	// Correctness maps each submitted letter to whether it is correct.
	Correctness map[string]bool `json:"user_choices_correctness"`

	// Reasoning maps every option letter to its explanation.
	Reasoning map[string]string `json:"reasoning"`

	CorrectAnswer string `json:"correct_answer"`

	// TotalCorrect is the number of correct options of the question.
	TotalCorrect int `json:"total_correct"`

	// AllCorrect is true when the submitted letters are exactly the
	// correct ones.
	AllCorrect bool `json:"all_correct"`
}

// SubmitAnswer scores letters against a stored question. Letters are
// case-insensitive and duplicates are ignored.
func (s *Service) SubmitAnswer(ctx context.Context, questionID uint, letters []string) (*AnswerResult, error) {
	q, err := s.repo.Question(ctx, questionID)
	if err != nil {
		return nil, err
	}
	return Score(q, letters)
}

// Score checks letters against q without touching storage.
func Score(q *store.StudyQuestion, letters []string) (*AnswerResult, error) {
	// correct holds every option letter with whether it is a right answer.
	correct := make(map[string]bool, len(q.Choices))
	total := 0
	for _, c := range q.Choices {
		correct[c.Letter] = c.Correct
		if c.Correct {
			total++
		}
	}

	res := &AnswerResult{
		QuestionID:    q.ID,
		Correctness:   make(map[string]bool),
		Reasoning:     make(map[string]string, len(q.Reasons)),
		CorrectAnswer: q.CorrectAnswer,
		TotalCorrect:  total,
	}
	for _, l := range letters {
		l = strings.ToUpper(strings.TrimSpace(l))
		if l == "" {
			continue
		}
		ok, known := correct[l]
		if !known {
			return nil, fmt.Errorf("%w: question %d has no option %q", ErrInvalidInput, q.ID, l)
		}
		res.Correctness[l] = ok
	}
	if len(res.Correctness) == 0 {
		return nil, fmt.Errorf("%w: no option selected", ErrInvalidInput)
	}
	for _, r := range q.Reasons {
		res.Reasoning[r.Letter] = r.Reason
	}

	hits := 0
	for _, ok := range res.Correctness {
		if !ok {
			return res, nil
		}
		hits++
	}
	res.AllCorrect = hits == res.TotalCorrect
	return res, nil
}
