package study

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/studydesk/internal/quizgen"
	"github.com/abhisek/studydesk/internal/store"
)

const bankVersion = 1

// Bank is the YAML question bank format used by export and import.
type Bank struct {
	Version       int                `yaml:"version"`
	Conversations []BankConversation `yaml:"conversations"`
}

type BankConversation struct {
	Name      string         `yaml:"name"`
	Keywords  string         `yaml:"keywords,omitempty"`
	Questions []BankQuestion `yaml:"questions"`
}

type BankQuestion struct {
	Question       string       `yaml:"question"`
	MultipleChoice bool         `yaml:"multiple_choice"`
	CorrectAnswer  string       `yaml:"correct_answer"`
	Choices        []BankChoice `yaml:"choices"`
}

type BankChoice struct {
	Letter  string `yaml:"letter"`
	Text    string `yaml:"text"`
	Reason  string `yaml:"reason"`
	Correct bool   `yaml:"correct"`
}

// ImportStats summarizes an import.
type ImportStats struct {
	Conversations int `json:"conversations"`
	Questions     int `json:"questions"`
	Skipped       int `json:"skipped"`
}

// Export writes the named conversations, or all of them when names is
// empty, as a YAML question bank.
func (s *Service) Export(ctx context.Context, w io.Writer, names ...string) error {
	var convs []store.StudyConversation
	if len(names) == 0 {
		all, err := s.repo.ListConversations(ctx)
		if err != nil {
			return err
		}
		convs = all
	} else {
		for _, name := range names {
			conv, err := s.ResolveConversation(ctx, name)
			if err != nil {
				return err
			}
			convs = append(convs, *conv)
		}
	}

	bank := Bank{Version: bankVersion}
	for _, conv := range convs {
		qs, err := s.repo.ListQuestions(ctx, conv.ID)
		if err != nil {
			return err
		}
		bc := BankConversation{Name: conv.Name, Keywords: conv.Keywords}
		for _, q := range qs {
			bq := BankQuestion{
				Question:       q.Question,
				MultipleChoice: q.IsMultipleChoice,
				CorrectAnswer:  q.CorrectAnswer,
			}
			for _, c := range q.Choices {
				bq.Choices = append(bq.Choices, BankChoice(c))
			}
			bc.Questions = append(bc.Questions, bq)
		}
		bank.Conversations = append(bank.Conversations, bc)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(bank); err != nil {
		return fmt.Errorf("encode question bank: %w", err)
	}
	return enc.Close()
}

// Import reads a YAML question bank. Conversations are matched by name and
// created when missing. Every question goes through the same validation as
// generated ones, so malformed or already stored questions are skipped.
// The correct answer and multiple-choice flag are derived from the choices.
func (s *Service) Import(ctx context.Context, r io.Reader) (*ImportStats, error) {
	var bank Bank
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&bank); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: question bank is empty", ErrInvalidInput)
		}
		return nil, fmt.Errorf("%w: decode question bank: %v", ErrInvalidInput, err)
	}
	if bank.Version != bankVersion {
		return nil, fmt.Errorf("%w: unsupported question bank version %d", ErrInvalidInput, bank.Version)
	}

	stats := &ImportStats{}
	checker := quizgen.NewExtractor(s.log)
	for _, bc := range bank.Conversations {
		name, err := validateName(bc.Name)
		if err != nil {
			return stats, err
		}
		conv, _, err := s.repo.OpenConversation(ctx, name)
		if err != nil {
			return stats, err
		}

		texts, err := s.repo.QuestionTexts(ctx, conv.ID)
		if err != nil {
			return stats, err
		}
		seen := quizgen.NewExclusionSet(texts...)

		var rows []*store.StudyQuestion
		for i, bq := range bc.Questions {
			rec := toRecord(strconv.Itoa(i+1), bq)
			if verr := checker.Check(rec, seen); verr != nil {
				stats.Skipped++
				s.log.Debug("skip imported question", "conversation", name, "reason", verr.Error())
				continue
			}
			seen.Add(rec.Text)
			rows = append(rows, fromCandidate(rec.Candidate(conv.ID, "")))
			texts = append(texts, rec.Text)
		}

		if len(rows) > 0 {
			if err := s.repo.SaveCycle(ctx, conv.ID, rows, Keywords(texts)); err != nil {
				return stats, err
			}
		}
		stats.Conversations++
		stats.Questions += len(rows)
	}

	s.log.Info("question bank imported",
		"conversations", stats.Conversations,
		"questions", stats.Questions,
		"skipped", stats.Skipped,
	)
	return stats, nil
}

func toRecord(key string, bq BankQuestion) *quizgen.Record {
	rec := &quizgen.Record{Key: key, Text: strings.TrimSpace(bq.Question)}
	for _, c := range bq.Choices {
		rec.Options = append(rec.Options, quizgen.RecordOption{
			Letter:  strings.ToUpper(strings.TrimSpace(c.Letter)),
			Text:    strings.TrimSpace(c.Text),
			Reason:  strings.TrimSpace(c.Reason),
			Correct: strconv.FormatBool(c.Correct),
		})
	}
	return rec
}
