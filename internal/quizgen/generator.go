package quizgen

import (
	"context"

	"github.com/abhisek/studydesk/internal/llm"
	"github.com/abhisek/studydesk/internal/logger"
)

// Purpose tags quiz completions in the LLM event log.
const Purpose = "quiz-gen"

// Generator runs one quiz generation cycle: a single completion call,
// normalization and extraction. It holds no per-cycle state and is safe
// for concurrent use.
type Generator struct {
	provider   llm.Provider
	config     Config
	normalizer *Normalizer
	extractor  *Extractor
	log        *logger.Logger
}

// New creates a Generator with the given provider and config.
func New(provider llm.Provider, cfg Config, log *logger.Logger) *Generator {
	if log == nil {
		log = logger.Nop()
	}
	if cfg.Questions <= 0 {
		cfg.Questions = 5
	}
	if cfg.Prompt.Template == "" {
		cfg.Prompt = DefaultPrompt()
	}
	return &Generator{
		provider:   provider,
		config:     cfg,
		normalizer: NewNormalizer(log, cfg.Verbose),
		extractor:  NewExtractor(log, cfg.Validators...),
		log:        log,
	}
}

// Generate asks the completion service for questions on input.Topic and
// returns the ones that survive validation. A failed or empty completion
// is a *TransportError; text that cannot be repaired is a *ParseError.
// Zero questions with a nil error is a legitimate outcome.
func (g *Generator) Generate(ctx context.Context, input GenerateInput) (*Result, error) {
	ctx = llm.WithPurpose(ctx, Purpose)
	if input.ConversationID != 0 {
		ctx = llm.WithConversation(ctx, input.ConversationID)
	}

	prompt := g.config.Prompt.Build(input.Topic, g.config.Questions, input.Exclusion)
	req := llm.Request{
		Messages: []llm.Message{
			{Role: llm.RoleUser, Content: prompt},
		},
		MaxTokens:   g.config.MaxTokens,
		Temperature: g.config.Temperature,
	}

	resp, err := g.provider.Generate(ctx, req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	raw := resp.Text()
	if raw == "" {
		return nil, &TransportError{}
	}

	normalized, err := g.normalizer.Normalize(raw)
	if err != nil {
		return nil, err
	}

	questions, skipped, err := g.extractor.Extract(normalized, input.ConversationID, input.Exclusion)
	if err != nil {
		return nil, err
	}
	for i := range questions {
		questions[i].RawResponse = raw
	}

	g.log.Debug("quiz cycle complete",
		"topic", input.Topic,
		"accepted", len(questions),
		"skipped", skipped,
	)
	return &Result{
		Questions:  questions,
		Skipped:    skipped,
		Prompt:     prompt,
		Raw:        raw,
		Normalized: normalized,
	}, nil
}
