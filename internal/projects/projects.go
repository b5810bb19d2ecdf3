package projects

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/abhisek/studydesk/internal/store"
)

const MaxProjectNameLength = 100

type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

func (s *Service) CreateProject(ctx context.Context, ownerID uint, in ProjectInput) (*store.Project, error) {
	name, err := validateTitle("project name", in.Name, MaxProjectNameLength)
	if err != nil {
		return nil, err
	}
	p := &store.Project{OwnerID: ownerID, Name: name, Description: strings.TrimSpace(in.Description)}
	if err := s.repo.CreateProject(ctx, p); err != nil {
		return nil, err
	}
	s.log.Info("project created", "project_id", p.ID, "owner_id", ownerID)
	return p, nil
}

// Project returns a project owned by actorID.
func (s *Service) Project(ctx context.Context, actorID, id uint) (*store.Project, error) {
	p, err := s.repo.Project(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.OwnerID != actorID {
		return nil, fmt.Errorf("project %d: %w", id, ErrForbidden)
	}
	return p, nil
}

func (s *Service) Projects(ctx context.Context, ownerID uint) ([]store.Project, error) {
	return s.repo.ListProjects(ctx, ownerID)
}

func (s *Service) UpdateProject(ctx context.Context, actorID, id uint, in ProjectInput) (*store.Project, error) {
	p, err := s.Project(ctx, actorID, id)
	if err != nil {
		return nil, err
	}
	name, err := validateTitle("project name", in.Name, MaxProjectNameLength)
	if err != nil {
		return nil, err
	}
	p.Name = name
	p.Description = strings.TrimSpace(in.Description)
	if err := s.repo.UpdateProject(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

// DeleteProject removes a project together with its tasks and their
// history.
func (s *Service) DeleteProject(ctx context.Context, actorID, id uint) error {
	if _, err := s.Project(ctx, actorID, id); err != nil {
		return err
	}
	if err := s.repo.DeleteProject(ctx, id); err != nil {
		return err
	}
	s.log.Info("project deleted", "project_id", id, "owner_id", actorID)
	return nil
}

func validateTitle(what, v string, max int) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", fmt.Errorf("%w: %s is required", ErrInvalidInput, what)
	}
	if utf8.RuneCountInString(v) > max {
		return "", fmt.Errorf("%w: %s exceeds %d characters", ErrInvalidInput, what, max)
	}
	return v, nil
}
