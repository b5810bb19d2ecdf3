package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/studydesk/internal/config"
	"github.com/abhisek/studydesk/internal/llm"
	"github.com/abhisek/studydesk/internal/logger"
	"github.com/abhisek/studydesk/internal/quizgen"
	"github.com/abhisek/studydesk/internal/store"
	"github.com/abhisek/studydesk/internal/study"
)

// env bundles what most commands need. Close releases it.
type env struct {
	cfg   config.Config
	store *store.Store
	log   *logger.Logger
}

func (e *env) Close() {
	e.log.Sync()
	e.store.Close()
}

// openEnv loads configuration, builds the logger and opens the database.
// logMode overrides the configured log mode when not empty; "off"
// discards all logs, which the terminal UI needs.
func openEnv(cmd *cobra.Command, logMode string) (*env, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if logMode == "" {
		logMode = cfg.Log.Mode
	}
	log := logger.Nop()
	if logMode != "off" {
		if log, err = logger.New(logMode); err != nil {
			return nil, err
		}
	}

	dsn, err := resolveDSN(cmd, cfg)
	if err != nil {
		return nil, fmt.Errorf("resolve database path: %w", err)
	}
	st, err := store.Open(dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return &env{cfg: cfg, store: st, log: log}, nil
}

// resolveDSN returns the database using the --db flag (highest priority),
// then the config file or STUDYDESK_DSN, then STUDYDESK_DB or the default
// XDG path.
func resolveDSN(cmd *cobra.Command, cfg config.Config) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if cfg.Database.DSN != "" {
		return cfg.Database.DSN, store.EnsureDir(cfg.Database.DSN)
	}
	return store.DefaultDBPath()
}

// studyService builds the study service. Without a configured LLM
// provider it still serves stored questions, and generation fails with
// the provider error. A broken quiz configuration is returned as is.
func (e *env) studyService(ctx context.Context) (*study.Service, error) {
	qc, err := quizConfig(e.cfg)
	if err != nil {
		return nil, err
	}
	provider, err := llm.NewProviderFromEnv(ctx, e.store.EventRepo(), e.log)
	if err != nil {
		e.log.Warn("LLM provider not configured; question generation is unavailable", "error", err)
		return study.NewService(e.store.StudyRepo(), unavailable{err}, e.log), nil
	}
	return study.NewService(e.store.StudyRepo(), quizgen.New(provider, qc, e.log), e.log), nil
}

// quizConfig applies the quiz section of cfg, including its prompt file,
// over the generator defaults.
func quizConfig(cfg config.Config) (quizgen.Config, error) {
	qc := quizgen.DefaultConfig()
	qc.Questions = cfg.Quiz.Questions
	qc.MaxTokens = cfg.Quiz.MaxTokens
	qc.Temperature = cfg.Quiz.Temperature
	qc.Verbose = cfg.Quiz.Verbose
	if cfg.Quiz.PromptFile != "" {
		p, err := quizgen.LoadPrompt(cfg.Quiz.PromptFile)
		if err != nil {
			return qc, fmt.Errorf("quiz prompt file: %w", err)
		}
		qc.Prompt = p
	}
	return qc, nil
}

// unavailable is the generator used when no provider could be built.
type unavailable struct{ err error }

func (u unavailable) Generate(context.Context, quizgen.GenerateInput) (*quizgen.Result, error) {
	return nil, &quizgen.TransportError{Err: &llm.ErrProviderUnavailable{Err: u.err}}
}
