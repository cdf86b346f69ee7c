// Package frontend keeps a local mirror of the task list in step with the API
// and renders it as a terminal UI.
package frontend

import (
	"context"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"tasklist/app/client"
	"tasklist/app/models"
)

// Filter selects which tasks are visible.
type Filter string

const (
	FilterAll       Filter = "all"
	FilterActive    Filter = "active"
	FilterCompleted Filter = "completed"
)

// Banner messages shown when a call fails.
const (
	MsgLoadFailed   = "Failed to load todos. Make sure the backend server is running."
	MsgAddFailed    = "Failed to add todo"
	MsgUpdateFailed = "Failed to update todo"
	MsgDeleteFailed = "Failed to delete todo"
	MsgClearFailed  = "Failed to clear completed todos"
)

// TaskAPI is the subset of the API client the controller needs.
type TaskAPI interface {
	ListTasks(ctx context.Context) ([]models.Task, error)
	CreateTask(ctx context.Context, title string) (models.Task, error)
	UpdateTask(ctx context.Context, id int, patch models.TaskPatch) (models.Task, error)
	DeleteTask(ctx context.Context, id int) (models.Task, error)
	ToggleTask(ctx context.Context, id int) (models.Task, error)
	ClearCompleted(ctx context.Context) (client.ClearResult, error)
}

// Stats are the counts shown next to the filter buttons.
type Stats struct {
	Total     int
	Active    int
	Completed int
}

// EmptyState is the message shown when the visible list is empty.
type EmptyState struct {
	Title    string
	Subtitle string
}

// Controller mirrors server-confirmed state. Local state only changes after
// the server acknowledged a mutation.
type Controller struct {
	api    TaskAPI
	logger *log.Logger

	mu         sync.Mutex
	tasks      []models.Task
	loading    bool
	submitting bool
	errMsg     string
	filter     Filter
}

// NewController creates a controller in its initial loading state.
func NewController(api TaskAPI, logger *log.Logger) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		api:     api,
		logger:  logger,
		loading: true,
		filter:  FilterAll,
	}
}

// Load replaces the local mirror with the server's collection.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.loading = true
	c.errMsg = ""
	c.mu.Unlock()

	tasks, err := c.api.ListTasks(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.loading = false
	if err != nil {
		c.fail(MsgLoadFailed, err)
		return err
	}
	c.tasks = append([]models.Task(nil), tasks...)
	return nil
}

// Add creates a task. It reports whether the task was created so the input
// can be cleared. Blank input is ignored.
func (c *Controller) Add(ctx context.Context, title string) bool {
	title = strings.TrimSpace(title)
	if title == "" {
		return false
	}

	c.mu.Lock()
	if c.submitting {
		c.mu.Unlock()
		return false
	}
	c.submitting = true
	c.mu.Unlock()

	task, err := c.api.CreateTask(ctx, title)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.submitting = false
	if err != nil {
		c.fail(MsgAddFailed, err)
		return false
	}
	c.tasks = append(c.tasks, task)
	return true
}

// Toggle flips a task's completion flag.
func (c *Controller) Toggle(ctx context.Context, id int) {
	task, err := c.api.ToggleTask(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.fail(MsgUpdateFailed, err)
		return
	}
	c.replace(task)
}

// UpdateTitle renames a task. Blank text is ignored.
func (c *Controller) UpdateTitle(ctx context.Context, id int, title string) {
	title = strings.TrimSpace(title)
	if title == "" {
		return
	}
	task, err := c.api.UpdateTask(ctx, id, models.TaskPatch{Title: &title})

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.fail(MsgUpdateFailed, err)
		return
	}
	c.replace(task)
}

// Delete removes a task.
func (c *Controller) Delete(ctx context.Context, id int) {
	_, err := c.api.DeleteTask(ctx, id)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.fail(MsgDeleteFailed, err)
		return
	}
	kept := c.tasks[:0:0]
	for _, t := range c.tasks {
		if t.ID != id {
			kept = append(kept, t)
		}
	}
	c.tasks = kept
}

// ClearCompleted removes every completed task.
func (c *Controller) ClearCompleted(ctx context.Context) {
	_, err := c.api.ClearCompleted(ctx)

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		c.fail(MsgClearFailed, err)
		return
	}
	kept := c.tasks[:0:0]
	for _, t := range c.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	c.tasks = kept
}

// SetFilter changes the visible subset.
func (c *Controller) SetFilter(f Filter) {
	c.mu.Lock()
	defer c.mu.Unlock()
	switch f {
	case FilterActive, FilterCompleted:
		c.filter = f
	default:
		c.filter = FilterAll
	}
}

// DismissError clears the banner.
func (c *Controller) DismissError() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errMsg = ""
}

// Filter returns the active filter.
func (c *Controller) Filter() Filter {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.filter
}

// Error returns the banner message, or "".
func (c *Controller) Error() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.errMsg
}

// Loading reports whether the initial load is in flight.
func (c *Controller) Loading() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loading
}

// Submitting reports whether a create call is in flight.
func (c *Controller) Submitting() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.submitting
}

// Tasks returns a copy of the full local collection.
func (c *Controller) Tasks() []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.Task(nil), c.tasks...)
}

// Visible returns the tasks matching the active filter.
func (c *Controller) Visible() []models.Task {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]models.Task, 0, len(c.tasks))
	for _, t := range c.tasks {
		switch c.filter {
		case FilterActive:
			if t.Completed {
				continue
			}
		case FilterCompleted:
			if !t.Completed {
				continue
			}
		}
		out = append(out, t)
	}
	return out
}

// Stats counts the whole local collection.
func (c *Controller) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{Total: len(c.tasks)}
	for _, t := range c.tasks {
		if t.Completed {
			s.Completed++
		} else {
			s.Active++
		}
	}
	return s
}

// EmptyState returns the message for an empty visible list under the
// current filter. ok is false when nothing should be shown.
func (c *Controller) EmptyState() (state EmptyState, ok bool) {
	c.mu.Lock()
	filter, total := c.filter, len(c.tasks)
	c.mu.Unlock()

	switch {
	case filter == FilterAll && total == 0:
		return EmptyState{"No todos yet!", "Add your first task above"}, true
	case filter == FilterActive:
		return EmptyState{"All tasks completed!", "Great job staying on top of things"}, true
	case filter == FilterCompleted:
		return EmptyState{"No completed tasks", "Start checking off your todos!"}, true
	default:
		return EmptyState{}, false
	}
}

// replace must be called with mu held.
func (c *Controller) replace(task models.Task) {
	for i := range c.tasks {
		if c.tasks[i].ID == task.ID {
			c.tasks[i] = task
			return
		}
	}
}

// fail must be called with mu held.
func (c *Controller) fail(msg string, err error) {
	c.errMsg = msg
	c.logger.Error(msg, "err", err)
}
