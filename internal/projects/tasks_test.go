package projects

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/studydesk/internal/store"
)

func ptr[T any](v T) *T { return &v }

func TestProjectOwnership(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := register(t, svc, "owner1")
	other := register(t, svc, "other1")

	p, err := svc.CreateProject(ctx, owner.ID, ProjectInput{Name: " Compiler ", Description: "toy"})
	require.NoError(t, err)
	assert.Equal(t, "Compiler", p.Name)

	_, err = svc.Project(ctx, other.ID, p.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	_, err = svc.UpdateProject(ctx, other.ID, p.ID, ProjectInput{Name: "Mine"})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.DeleteProject(ctx, other.ID, p.ID), ErrForbidden)
	_, err = svc.CreateTask(ctx, other.ID, TaskInput{ProjectID: p.ID, Title: "sneak"})
	assert.ErrorIs(t, err, ErrForbidden)

	_, err = svc.CreateProject(ctx, owner.ID, ProjectInput{Name: "  "})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.Project(ctx, owner.ID, 999)
	assert.ErrorIs(t, err, ErrNotFound)

	updated, err := svc.UpdateProject(ctx, owner.ID, p.ID, ProjectInput{Name: "Compiler v2"})
	require.NoError(t, err)
	assert.Equal(t, "Compiler v2", updated.Name)

	list, err := svc.Projects(ctx, owner.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestDeleteProjectCascades(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := register(t, svc, "owner2")

	p, err := svc.CreateProject(ctx, owner.ID, ProjectInput{Name: "Garden"})
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, owner.ID, TaskInput{ProjectID: p.ID, Title: "Plant"})
	require.NoError(t, err)
	_, err = svc.UpdateTask(ctx, owner.ID, task.ID, TaskUpdate{Done: ptr(true)})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteProject(ctx, owner.ID, p.ID))

	_, err = svc.Task(ctx, owner.ID, task.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	tasks, err := svc.Tasks(ctx, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
}

func TestParseDeadline(t *testing.T) {
	want := time.Date(2030, 4, 2, 0, 0, 0, 0, time.UTC)
	for _, in := range []string{"2030-04-02", "04/02/2030", "Apr 2 2030", "April 2, 2030", "2030-04-02T00:00:00Z"} {
		got, err := ParseDeadline(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(*got), "%s parsed as %v", in, got)
	}

	got, err := ParseDeadline("2030-04-02 17:30")
	require.NoError(t, err)
	assert.Equal(t, "2030-04-02 17:30", formatDeadline(got))

	got, err = ParseDeadline("   ")
	require.NoError(t, err)
	assert.Nil(t, got)

	_, err = ParseDeadline("next tuesday")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdateTaskHistory(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := register(t, svc, "owner3")

	home, err := svc.CreateProject(ctx, owner.ID, ProjectInput{Name: "Home"})
	require.NoError(t, err)
	_, err = svc.CreateProject(ctx, owner.ID, ProjectInput{Name: "Work"})
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, owner.ID, TaskInput{ProjectID: home.ID, Title: "Paint", Deadline: "2030-04-02 09:00"})
	require.NoError(t, err)

	changes, err := svc.UpdateTask(ctx, owner.ID, task.ID, TaskUpdate{
		Title:       ptr("Paint"),
		Description: ptr(""),
		Deadline:    ptr("2030-04-02 09:00"),
		Project:     ptr("Home"),
		Done:        ptr(false),
	})
	require.NoError(t, err)
	assert.Empty(t, changes, "identical values are not changes")

	changes, err = svc.UpdateTask(ctx, owner.ID, task.ID, TaskUpdate{
		Title:    ptr("Paint fence"),
		Deadline: ptr(""),
		Project:  ptr("Work"),
		Done:     ptr(true),
	})
	require.NoError(t, err)
	var got []string
	for _, c := range changes {
		got = append(got, c.Attribute+": "+c.OldValue+" -> "+c.NewValue)
	}
	assert.Equal(t, []string{
		"Title: Paint -> Paint fence",
		"Deadline: 2030-04-02 09:00 -> ",
		"Project: Home -> Work",
		"Status: false -> true",
	}, got)

	history, err := svc.TaskHistory(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	assert.Len(t, history, 4)

	stored, err := svc.Task(ctx, owner.ID, task.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Deadline)
	assert.True(t, stored.Done)

	_, err = svc.UpdateTask(ctx, owner.ID, task.ID, TaskUpdate{Project: ptr("Nowhere")})
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = svc.UpdateTask(ctx, owner.ID, task.ID, TaskUpdate{Deadline: ptr("someday")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTaskOwnership(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	owner := register(t, svc, "owner4")
	other := register(t, svc, "other4")

	p, err := svc.CreateProject(ctx, owner.ID, ProjectInput{Name: "Books"})
	require.NoError(t, err)
	task, err := svc.CreateTask(ctx, owner.ID, TaskInput{ProjectID: p.ID, Title: "Read"})
	require.NoError(t, err)

	_, err = svc.UpdateTask(ctx, other.ID, task.ID, TaskUpdate{Done: ptr(true)})
	assert.ErrorIs(t, err, ErrForbidden)
	assert.ErrorIs(t, svc.DeleteTask(ctx, other.ID, task.ID), ErrForbidden)
	_, err = svc.TaskHistory(ctx, other.ID, task.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, svc.DeleteTask(ctx, owner.ID, task.ID))
	assert.ErrorIs(t, svc.DeleteTask(ctx, owner.ID, task.ID), store.ErrNotFound)
}
