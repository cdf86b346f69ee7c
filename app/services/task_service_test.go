package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/app/models"
)

type stepClock struct {
	t time.Time
}

func (c *stepClock) Now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func newTestService(seed []SeedTask) (*TaskService, *stepClock) {
	clock := &stepClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	return NewTaskService(WithSeed(seed), WithClock(clock.Now)), clock
}

func ptr[T any](v T) *T { return &v }

func TestNewTaskService_DefaultSeed(t *testing.T) {
	s := NewTaskService()
	ctx := context.Background()

	tasks, err := s.GetTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 3)

	assert.Equal(t, 1, tasks[0].ID)
	assert.Equal(t, "Learn React", tasks[0].Title)
	assert.False(t, tasks[0].Completed)
	assert.Nil(t, tasks[0].UpdatedAt)
	assert.Equal(t, 3, tasks[2].ID)
	assert.True(t, tasks[2].Completed)

	created, err := s.CreateTask(ctx, "next")
	require.NoError(t, err)
	assert.Equal(t, 4, created.ID)
}

func TestCreateTask(t *testing.T) {
	s, _ := newTestService(nil)
	ctx := context.Background()

	task, err := s.CreateTask(ctx, "  Buy milk  ")
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", task.Title)
	assert.False(t, task.Completed)
	assert.Positive(t, task.ID)
	assert.False(t, task.CreatedAt.IsZero())
	assert.Nil(t, task.UpdatedAt)

	tasks, err := s.GetTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	assert.Equal(t, task, tasks[0])

	got, err := s.GetTaskByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, task, got)
}

func TestCreateTask_BlankTitle(t *testing.T) {
	s, _ := newTestService(DefaultSeed)
	ctx := context.Background()

	for _, title := range []string{"", "  ", "\t\n"} {
		_, err := s.CreateTask(ctx, title)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}

	tasks, err := s.GetTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 3)
}

func TestGetTaskByID_NotFound(t *testing.T) {
	s, _ := newTestService(DefaultSeed)

	_, err := s.GetTaskByID(context.Background(), 42)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUpdateTask(t *testing.T) {
	s, _ := newTestService(DefaultSeed)
	ctx := context.Background()

	updated, err := s.UpdateTask(ctx, 1, models.TaskPatch{Title: ptr("  Learn Go ")})
	require.NoError(t, err)
	assert.Equal(t, "Learn Go", updated.Title)
	assert.False(t, updated.Completed)
	require.NotNil(t, updated.UpdatedAt)

	updated, err = s.UpdateTask(ctx, 1, models.TaskPatch{Completed: ptr(true)})
	require.NoError(t, err)
	assert.Equal(t, "Learn Go", updated.Title)
	assert.True(t, updated.Completed)

	// An empty patch still stamps updatedAt.
	before := *updated.UpdatedAt
	updated, err = s.UpdateTask(ctx, 1, models.TaskPatch{})
	require.NoError(t, err)
	assert.True(t, updated.UpdatedAt.After(before))
}

func TestUpdateTask_Errors(t *testing.T) {
	s, _ := newTestService(DefaultSeed)
	ctx := context.Background()

	_, err := s.UpdateTask(ctx, 99, models.TaskPatch{Title: ptr("x")})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = s.UpdateTask(ctx, 1, models.TaskPatch{Title: ptr("   ")})
	assert.ErrorIs(t, err, ErrInvalidInput)

	got, err := s.GetTaskByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Learn React", got.Title)
	assert.Nil(t, got.UpdatedAt)
}

func TestToggleTask_Twice(t *testing.T) {
	s, _ := newTestService(DefaultSeed)
	ctx := context.Background()

	first, err := s.ToggleTask(ctx, 1)
	require.NoError(t, err)
	assert.True(t, first.Completed)
	require.NotNil(t, first.UpdatedAt)

	second, err := s.ToggleTask(ctx, 1)
	require.NoError(t, err)
	assert.False(t, second.Completed)
	require.NotNil(t, second.UpdatedAt)
	assert.True(t, second.UpdatedAt.After(*first.UpdatedAt))
}

func TestToggleTask_NotFound(t *testing.T) {
	s, _ := newTestService(nil)

	_, err := s.ToggleTask(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTask(t *testing.T) {
	s, _ := newTestService(DefaultSeed)
	ctx := context.Background()

	removed, err := s.DeleteTask(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, "Build a Todo App", removed.Title)

	tasks, err := s.GetTasks(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 2)
	assert.Equal(t, 1, tasks[0].ID)
	assert.Equal(t, 3, tasks[1].ID)

	_, err = s.DeleteTask(ctx, 2)
	assert.ErrorIs(t, err, ErrNotFound)

	tasks, err = s.GetTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 2)
}

func TestIDsNeverReused(t *testing.T) {
	s, _ := newTestService(nil)
	ctx := context.Background()

	issued := map[int]bool{}
	for i := 0; i < 5; i++ {
		task, err := s.CreateTask(ctx, "task")
		require.NoError(t, err)
		issued[task.ID] = true
	}
	for id := range issued {
		_, err := s.DeleteTask(ctx, id)
		require.NoError(t, err)
	}
	_, err := s.ClearCompleted(ctx)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		task, err := s.CreateTask(ctx, "again")
		require.NoError(t, err)
		assert.False(t, issued[task.ID], "id %d reused", task.ID)
		issued[task.ID] = true
	}
}

func TestClearCompleted(t *testing.T) {
	s, _ := newTestService([]SeedTask{
		{Title: "a"},
		{Title: "b", Completed: true},
		{Title: "c"},
		{Title: "d", Completed: true},
	})
	ctx := context.Background()

	before, err := s.GetTasks(ctx)
	require.NoError(t, err)

	res, err := s.ClearCompleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, ClearResult{Removed: 2, Remaining: 2}, res)

	after, err := s.GetTasks(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Task{before[0], before[2]}, after)

	res, err = s.ClearCompleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, ClearResult{Removed: 0, Remaining: 2}, res)
}

func TestEndToEndScenario(t *testing.T) {
	s, _ := newTestService(DefaultSeed)
	ctx := context.Background()

	tasks, err := s.GetTasks(ctx)
	require.NoError(t, err)
	assert.Len(t, tasks, 3)

	toggled, err := s.ToggleTask(ctx, 1)
	require.NoError(t, err)
	assert.True(t, toggled.Completed)

	res, err := s.ClearCompleted(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Removed)
	assert.Equal(t, 1, res.Remaining)
}

func TestGetTasks_ReturnsCopy(t *testing.T) {
	s, _ := newTestService(DefaultSeed)
	ctx := context.Background()

	tasks, err := s.GetTasks(ctx)
	require.NoError(t, err)
	tasks[0].Title = "mutated"

	got, err := s.GetTaskByID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Learn React", got.Title)
}
