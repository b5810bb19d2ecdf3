package study

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/studydesk/internal/logger"
	"github.com/abhisek/studydesk/internal/quizgen"
	"github.com/abhisek/studydesk/internal/store"
)

// MaxNameLength bounds conversation names.
const MaxNameLength = 100

// ErrInvalidInput is returned for requests that fail validation. It is
// always wrapped with a description of the problem.
var ErrInvalidInput = errors.New("invalid input")

// Generator produces quiz questions for a topic.
type Generator interface {
	Generate(ctx context.Context, input quizgen.GenerateInput) (*quizgen.Result, error)
}

// Service manages study conversations and their questions.
type Service struct {
	repo store.StudyRepo
	gen  Generator
	log  *logger.Logger
}

// NewService creates a Service. gen may be nil for read-only use, in which
// case generation fails.
func NewService(repo store.StudyRepo, gen Generator, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{repo: repo, gen: gen, log: log}
}

// CycleResult is the outcome of one generation cycle for a conversation.
type CycleResult struct {
	Conversation *store.StudyConversation `json:"conversation"`

	// Questions holds the newly stored questions. It may be empty.
	Questions []store.StudyQuestion `json:"questions"`

	// Skipped counts the generated records that failed validation.
	Skipped int `json:"skipped"`
}

// CreateConversation opens the conversation called name, creating it if
// needed, and runs a generation cycle for it. The conversation is kept
// even when generation fails.
func (s *Service) CreateConversation(ctx context.Context, name string) (*CycleResult, error) {
	name, err := validateName(name)
	if err != nil {
		return nil, err
	}

	conv, created, err := s.repo.OpenConversation(ctx, name)
	if err != nil {
		return nil, err
	}
	if created {
		s.log.Info("conversation created", "conversation_id", conv.ID, "name", name)
	}

	return s.cycle(ctx, conv)
}

// AddQuestions runs a generation cycle for an existing conversation.
func (s *Service) AddQuestions(ctx context.Context, conversationID uint) (*CycleResult, error) {
	conv, err := s.repo.Conversation(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	return s.cycle(ctx, conv)
}

func (s *Service) cycle(ctx context.Context, conv *store.StudyConversation) (*CycleResult, error) {
	if s.gen == nil {
		return nil, errors.New("no question generator configured")
	}

	texts, err := s.repo.QuestionTexts(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	res, err := s.gen.Generate(ctx, quizgen.GenerateInput{
		ConversationID: conv.ID,
		Topic:          conv.Name,
		Exclusion:      quizgen.NewExclusionSet(texts...),
	})
	if err != nil {
		s.log.Warn("question generation failed", "conversation_id", conv.ID, "error", err)
		return nil, fmt.Errorf("generate questions for %q: %w", conv.Name, err)
	}

	if conv.SeedPrompt == "" {
		if err := s.repo.SetSeedPrompt(ctx, conv.ID, res.Prompt); err != nil {
			return nil, err
		}
		conv.SeedPrompt = res.Prompt
	}

	out := &CycleResult{Conversation: conv, Skipped: res.Skipped}
	if len(res.Questions) == 0 {
		s.log.Info("no questions generated", "conversation_id", conv.ID, "skipped", res.Skipped)
		return out, nil
	}

	rows := make([]*store.StudyQuestion, 0, len(res.Questions))
	for _, c := range res.Questions {
		rows = append(rows, fromCandidate(c))
		texts = append(texts, c.Text)
	}
	keywords := Keywords(texts)
	if err := s.repo.SaveCycle(ctx, conv.ID, rows, keywords); err != nil {
		return nil, err
	}
	conv.Keywords = keywords

	for _, r := range rows {
		out.Questions = append(out.Questions, *r)
	}
	s.log.Info("questions stored",
		"conversation_id", conv.ID,
		"added", len(rows),
		"skipped", res.Skipped,
	)
	return out, nil
}

func fromCandidate(c quizgen.Candidate) *store.StudyQuestion {
	q := &store.StudyQuestion{
		ConversationID:   c.ConversationID,
		Question:         c.Text,
		RawResponse:      c.RawResponse,
		IsMultipleChoice: c.MultipleChoice,
		CorrectAnswer:    c.CorrectAnswer,
	}
	for _, o := range c.Options {
		q.Choices = append(q.Choices, store.Choice{Letter: o.Letter, Text: o.Text, Reason: o.Reason, Correct: o.Correct})
	}
	for _, r := range c.Reasons {
		q.Reasons = append(q.Reasons, store.Reason{Letter: r.Letter, Reason: r.Reason})
	}
	return q
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: conversation name is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("%w: conversation name exceeds %d characters", ErrInvalidInput, MaxNameLength)
	}
	return name, nil
}

func (s *Service) Conversations(ctx context.Context) ([]store.StudyConversation, error) {
	return s.repo.ListConversations(ctx)
}

func (s *Service) Conversation(ctx context.Context, id uint) (*store.StudyConversation, error) {
	return s.repo.Conversation(ctx, id)
}

func (s *Service) LatestConversation(ctx context.Context) (*store.StudyConversation, error) {
	return s.repo.LatestConversation(ctx)
}

// ResolveConversation looks a conversation up by numeric id or by name.
func (s *Service) ResolveConversation(ctx context.Context, ref string) (*store.StudyConversation, error) {
	ref = strings.TrimSpace(ref)
	if id, err := strconv.ParseUint(ref, 10, 64); err == nil {
		conv, err := s.repo.Conversation(ctx, uint(id))
		if !errors.Is(err, store.ErrNotFound) {
			return conv, err
		}
	}
	return s.repo.ConversationByName(ctx, ref)
}

// Questions lists a conversation's questions in creation order.
func (s *Service) Questions(ctx context.Context, conversationID uint) ([]store.StudyQuestion, error) {
	if _, err := s.repo.Conversation(ctx, conversationID); err != nil {
		return nil, err
	}
	return s.repo.ListQuestions(ctx, conversationID)
}

func (s *Service) Question(ctx context.Context, id uint) (*store.StudyQuestion, error) {
	return s.repo.Question(ctx, id)
}

func (s *Service) LatestQuestion(ctx context.Context, conversationID uint) (*store.StudyQuestion, error) {
	return s.repo.LatestQuestion(ctx, conversationID)
}

// QuestionView is a question with the ids of its neighbors in the
// conversation.
type QuestionView struct {
	store.StudyQuestion
	PrevID uint `json:"prev_id"`
	NextID uint `json:"next_id"`
}

// Navigate returns the question with its previous and next question ids.
// At either end of the conversation the question's own id is used.
func (s *Service) Navigate(ctx context.Context, questionID uint) (*QuestionView, error) {
	q, err := s.repo.Question(ctx, questionID)
	if err != nil {
		return nil, err
	}
	prev, next, err := s.repo.Neighbors(ctx, q)
	if err != nil {
		return nil, err
	}
	if prev == 0 {
		prev = q.ID
	}
	if next == 0 {
		next = q.ID
	}
	return &QuestionView{StudyQuestion: *q, PrevID: prev, NextID: next}, nil
}
