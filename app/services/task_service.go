package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"tasklist/app/models"
)

var (
	// ErrNotFound is returned when no task has the requested id.
	ErrNotFound = errors.New("task not found")
	// ErrInvalidInput is returned when a title is missing or blank.
	ErrInvalidInput = errors.New("title is required")
)

// SeedTask describes a task present when the service starts.
type SeedTask struct {
	Title     string `yaml:"title"`
	Completed bool   `yaml:"completed"`
}

// DefaultSeed is the collection a fresh service starts with.
var DefaultSeed = []SeedTask{
	{Title: "Learn React"},
	{Title: "Build a Todo App"},
	{Title: "Master Node.js", Completed: true},
}

// ClearResult reports the outcome of ClearCompleted.
type ClearResult struct {
	Removed   int
	Remaining int
}

// Option configures a TaskService.
type Option func(*TaskService)

// WithClock replaces the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *TaskService) {
		s.now = now
	}
}

// WithSeed replaces the initial collection.
func WithSeed(seed []SeedTask) Option {
	return func(s *TaskService) {
		s.seed = seed
	}
}

// TaskService holds the task collection in memory.
// All operations are serialized, so each one is atomic.
type TaskService struct {
	mu     sync.Mutex
	tasks  []models.Task
	nextID int
	now    func() time.Time
	seed   []SeedTask
}

// NewTaskService creates a new instance of TaskService populated with its seed.
func NewTaskService(opts ...Option) *TaskService {
	s := &TaskService{
		nextID: 1,
		now:    time.Now,
		seed:   DefaultSeed,
	}
	for _, opt := range opts {
		opt(s)
	}

	createdAt := s.now()
	s.tasks = make([]models.Task, 0, len(s.seed))
	for _, st := range s.seed {
		title := strings.TrimSpace(st.Title)
		if title == "" {
			continue
		}
		s.tasks = append(s.tasks, models.Task{
			ID:        s.allocateID(),
			Title:     title,
			Completed: st.Completed,
			CreatedAt: createdAt,
		})
	}
	return s
}

// allocateID must be called with mu held (or during construction).
func (s *TaskService) allocateID() int {
	id := s.nextID
	s.nextID++
	return id
}

func (s *TaskService) indexOf(id int) int {
	for i := range s.tasks {
		if s.tasks[i].ID == id {
			return i
		}
	}
	return -1
}

func (s *TaskService) stamp(t *models.Task) {
	now := s.now()
	t.UpdatedAt = &now
}

// GetTasks returns every task in insertion order.
func (s *TaskService) GetTasks(ctx context.Context) ([]models.Task, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.Task, len(s.tasks))
	copy(out, s.tasks)
	return out, nil
}

// GetTaskByID retrieves a single task by its ID.
func (s *TaskService) GetTaskByID(ctx context.Context, id int) (models.Task, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("get task %d: %w", id, ErrNotFound)
	}
	return s.tasks[i], nil
}

// CreateTask appends a new task with a freshly allocated id.
func (s *TaskService) CreateTask(ctx context.Context, title string) (models.Task, error) {
	_ = ctx

	title = strings.TrimSpace(title)
	if title == "" {
		return models.Task{}, ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	task := models.Task{
		ID:        s.allocateID(),
		Title:     title,
		CreatedAt: s.now(),
	}
	s.tasks = append(s.tasks, task)
	return task, nil
}

// UpdateTask applies the provided fields of patch and stamps updatedAt.
func (s *TaskService) UpdateTask(ctx context.Context, id int, patch models.TaskPatch) (models.Task, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("update task %d: %w", id, ErrNotFound)
	}

	t := &s.tasks[i]
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return models.Task{}, ErrInvalidInput
		}
		t.Title = title
	}
	if patch.Completed != nil {
		t.Completed = *patch.Completed
	}
	s.stamp(t)
	return *t, nil
}

// DeleteTask removes a task and returns the removed record.
func (s *TaskService) DeleteTask(ctx context.Context, id int) (models.Task, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("delete task %d: %w", id, ErrNotFound)
	}

	removed := s.tasks[i]
	s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	return removed, nil
}

// ToggleTask flips the completion flag of a task.
func (s *TaskService) ToggleTask(ctx context.Context, id int) (models.Task, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return models.Task{}, fmt.Errorf("toggle task %d: %w", id, ErrNotFound)
	}

	t := &s.tasks[i]
	t.Completed = !t.Completed
	s.stamp(t)
	return *t, nil
}

// ClearCompleted removes every completed task.
func (s *TaskService) ClearCompleted(ctx context.Context) (ClearResult, error) {
	_ = ctx

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := make([]models.Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	removed := len(s.tasks) - len(kept)
	s.tasks = kept

	return ClearResult{Removed: removed, Remaining: len(s.tasks)}, nil
}
