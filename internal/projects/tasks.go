package projects

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/abhisek/studydesk/internal/store"
)

const MaxTaskTitleLength = 100

// DeadlineLayout is how deadlines are written in task history.
const DeadlineLayout = "2006-01-02 15:04"

var deadlineLayouts = []string{
	DeadlineLayout,
	time.RFC3339,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006 15:04",
	"01/02/2006",
	"Jan 2 2006",
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
}

// ParseDeadline accepts the common date and date-time layouts. Values
// without a zone are read as UTC. An empty string means no deadline.
func ParseDeadline(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	for _, layout := range deadlineLayouts {
		if t, err := time.ParseInLocation(layout, v, time.UTC); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: unrecognized deadline %q", ErrInvalidInput, v)
}

func formatDeadline(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(DeadlineLayout)
}

type TaskInput struct {
	ProjectID   uint   `json:"project_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Deadline    string `json:"deadline"`
}

// TaskUpdate changes the fields that are set. Project names a project of
// the actor. An empty Deadline clears it.
type TaskUpdate struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Deadline    *string `json:"deadline"`
	Project     *string `json:"project"`
	Done        *bool   `json:"done"`
}

// CreateTask adds a task to a project of ownerID.
func (s *Service) CreateTask(ctx context.Context, ownerID uint, in TaskInput) (*store.Task, error) {
	if _, err := s.Project(ctx, ownerID, in.ProjectID); err != nil {
		return nil, err
	}
	title, err := validateTitle("task title", in.Title, MaxTaskTitleLength)
	if err != nil {
		return nil, err
	}
	deadline, err := ParseDeadline(in.Deadline)
	if err != nil {
		return nil, err
	}
	t := &store.Task{
		ProjectID:   in.ProjectID,
		OwnerID:     ownerID,
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Deadline:    deadline,
	}
	if err := s.repo.CreateTask(ctx, t); err != nil {
		return nil, err
	}
	s.log.Info("task created", "task_id", t.ID, "project_id", t.ProjectID)
	return t, nil
}

// Task returns a task owned by actorID.
func (s *Service) Task(ctx context.Context, actorID, id uint) (*store.Task, error) {
	t, err := s.repo.Task(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.OwnerID != actorID {
		return nil, fmt.Errorf("task %d: %w", id, ErrForbidden)
	}
	return t, nil
}

// Tasks lists the tasks of ownerID by deadline, undated last.
func (s *Service) Tasks(ctx context.Context, ownerID uint) ([]store.Task, error) {
	return s.repo.ListTasksByOwner(ctx, ownerID)
}

func (s *Service) ProjectTasks(ctx context.Context, actorID, projectID uint) ([]store.Task, error) {
	if _, err := s.Project(ctx, actorID, projectID); err != nil {
		return nil, err
	}
	return s.repo.ListTasksByProject(ctx, projectID)
}

func (s *Service) DeleteTask(ctx context.Context, actorID, id uint) error {
	if _, err := s.Task(ctx, actorID, id); err != nil {
		return err
	}
	return s.repo.DeleteTask(ctx, id)
}

func (s *Service) TaskHistory(ctx context.Context, actorID, id uint) ([]store.TaskHistory, error) {
	if _, err := s.Task(ctx, actorID, id); err != nil {
		return nil, err
	}
	return s.repo.TaskHistory(ctx, id)
}

// UpdateTask applies up and records one history row per changed
// attribute. The returned slice is empty when nothing changed.
func (s *Service) UpdateTask(ctx context.Context, actorID, id uint, up TaskUpdate) ([]store.TaskHistory, error) {
	t, err := s.Task(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	var changes []store.TaskHistory
	record := func(attr, from, to string) {
		changes = append(changes, store.TaskHistory{TaskID: t.ID, Attribute: attr, OldValue: from, NewValue: to})
	}

	if up.Title != nil {
		title, err := validateTitle("task title", *up.Title, MaxTaskTitleLength)
		if err != nil {
			return nil, err
		}
		if title != t.Title {
			record("Title", t.Title, title)
			t.Title = title
		}
	}
	if up.Description != nil {
		desc := strings.TrimSpace(*up.Description)
		if desc != t.Description {
			record("Description", t.Description, desc)
			t.Description = desc
		}
	}
	if up.Deadline != nil {
		deadline, err := ParseDeadline(*up.Deadline)
		if err != nil {
			return nil, err
		}
		if from, to := formatDeadline(t.Deadline), formatDeadline(deadline); from != to {
			record("Deadline", from, to)
			t.Deadline = deadline
		}
	}
	if up.Project != nil {
		if err := s.moveTask(ctx, t, strings.TrimSpace(*up.Project), record); err != nil {
			return nil, err
		}
	}
	if up.Done != nil && *up.Done != t.Done {
		record("Status", strconv.FormatBool(t.Done), strconv.FormatBool(*up.Done))
		t.Done = *up.Done
	}

	if len(changes) == 0 {
		return changes, nil
	}
	if err := s.repo.UpdateTask(ctx, t, changes); err != nil {
		return nil, err
	}
	s.log.Info("task updated", "task_id", t.ID, "changes", len(changes))
	return changes, nil
}

func (s *Service) moveTask(ctx context.Context, t *store.Task, name string, record func(attr, from, to string)) error {
	current, err := s.repo.Project(ctx, t.ProjectID)
	if err != nil {
		return err
	}
	if name == current.Name {
		return nil
	}
	target, err := s.repo.ProjectByName(ctx, t.OwnerID, name)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%w: no project named %q", ErrInvalidInput, name)
	}
	if err != nil {
		return err
	}
	record("Project", current.Name, target.Name)
	t.ProjectID = target.ID
	return nil
}
