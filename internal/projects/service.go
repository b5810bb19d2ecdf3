// Package projects implements user accounts, projects and tasks with a
// per-attribute task history.
package projects

import (
	"errors"
	"time"

	"github.com/abhisek/studydesk/internal/logger"
	"github.com/abhisek/studydesk/internal/store"
)

var (
	ErrNotFound        = store.ErrNotFound
	ErrForbidden       = errors.New("forbidden")
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("invalid credentials")
)

// DefaultTokenTTL is how long a login token stays valid.
const DefaultTokenTTL = 7 * 24 * time.Hour

// Service is the project-management API over a ProjectRepo.
type Service struct {
	repo   store.ProjectRepo
	tokens *TokenIssuer
	log    *logger.Logger
	now    func() time.Time
}

type Option func(*Service)

// WithClock overrides the time source used for tokens and timelines.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService creates a Service signing tokens with secret.
func NewService(repo store.ProjectRepo, secret string, log *logger.Logger, opts ...Option) *Service {
	if log == nil {
		log = logger.Nop()
	}
	s := &Service{repo: repo, log: log.With("component", "projects"), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	s.tokens = NewTokenIssuer(secret, DefaultTokenTTL, s.now)
	return s
}
