package frontend

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasklist/app/client"
	"tasklist/app/logging"
	"tasklist/app/models"
)

var errBackend = errors.New("backend down")

// fakeAPI is an in-memory TaskAPI. Setting fail makes every call error.
type fakeAPI struct {
	tasks  []models.Task
	nextID int
	fail   bool
	calls  []string
}

func newFakeAPI() *fakeAPI {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &fakeAPI{
		tasks: []models.Task{
			{ID: 1, Title: "Learn React", CreatedAt: now},
			{ID: 2, Title: "Build a Todo App", CreatedAt: now},
			{ID: 3, Title: "Master Node.js", Completed: true, CreatedAt: now},
		},
		nextID: 4,
	}
}

func (f *fakeAPI) index(id int) int {
	for i, t := range f.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

func (f *fakeAPI) ListTasks(ctx context.Context) ([]models.Task, error) {
	f.calls = append(f.calls, "list")
	if f.fail {
		return nil, errBackend
	}
	return append([]models.Task(nil), f.tasks...), nil
}

func (f *fakeAPI) CreateTask(ctx context.Context, title string) (models.Task, error) {
	f.calls = append(f.calls, "create")
	if f.fail {
		return models.Task{}, errBackend
	}
	t := models.Task{ID: f.nextID, Title: title}
	f.nextID++
	f.tasks = append(f.tasks, t)
	return t, nil
}

func (f *fakeAPI) UpdateTask(ctx context.Context, id int, patch models.TaskPatch) (models.Task, error) {
	f.calls = append(f.calls, "update")
	i := f.index(id)
	if f.fail || i < 0 {
		return models.Task{}, errBackend
	}
	if patch.Title != nil {
		f.tasks[i].Title = *patch.Title
	}
	if patch.Completed != nil {
		f.tasks[i].Completed = *patch.Completed
	}
	return f.tasks[i], nil
}

func (f *fakeAPI) DeleteTask(ctx context.Context, id int) (models.Task, error) {
	f.calls = append(f.calls, "delete")
	i := f.index(id)
	if f.fail || i < 0 {
		return models.Task{}, errBackend
	}
	t := f.tasks[i]
	f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
	return t, nil
}

func (f *fakeAPI) ToggleTask(ctx context.Context, id int) (models.Task, error) {
	f.calls = append(f.calls, "toggle")
	i := f.index(id)
	if f.fail || i < 0 {
		return models.Task{}, errBackend
	}
	f.tasks[i].Completed = !f.tasks[i].Completed
	return f.tasks[i], nil
}

func (f *fakeAPI) ClearCompleted(ctx context.Context) (client.ClearResult, error) {
	f.calls = append(f.calls, "clear")
	if f.fail {
		return client.ClearResult{}, errBackend
	}
	kept := f.tasks[:0]
	for _, t := range f.tasks {
		if !t.Completed {
			kept = append(kept, t)
		}
	}
	f.tasks = kept
	return client.ClearResult{Remaining: len(kept)}, nil
}

func loadedController(t *testing.T) (*Controller, *fakeAPI) {
	t.Helper()
	api := newFakeAPI()
	c := NewController(api, logging.Discard())
	require.NoError(t, c.Load(context.Background()))
	return c, api
}

func TestController_Load(t *testing.T) {
	api := newFakeAPI()
	c := NewController(api, logging.Discard())
	assert.True(t, c.Loading())

	require.NoError(t, c.Load(context.Background()))
	assert.False(t, c.Loading())
	assert.Empty(t, c.Error())
	assert.Len(t, c.Tasks(), 3)
	assert.Equal(t, Stats{Total: 3, Active: 2, Completed: 1}, c.Stats())
}

func TestController_LoadFailure(t *testing.T) {
	api := newFakeAPI()
	api.fail = true
	c := NewController(api, logging.Discard())

	assert.Error(t, c.Load(context.Background()))
	assert.False(t, c.Loading())
	assert.Equal(t, MsgLoadFailed, c.Error())
	assert.Empty(t, c.Tasks())
}

func TestController_Add(t *testing.T) {
	c, api := loadedController(t)
	ctx := context.Background()

	assert.True(t, c.Add(ctx, "  Buy milk "))
	tasks := c.Tasks()
	require.Len(t, tasks, 4)
	assert.Equal(t, "Buy milk", tasks[3].Title)
	assert.False(t, c.Submitting())

	calls := len(api.calls)
	assert.False(t, c.Add(ctx, "   "))
	assert.Len(t, api.calls, calls, "blank input must not reach the API")
}

func TestController_AddFailureKeepsState(t *testing.T) {
	c, api := loadedController(t)
	api.fail = true

	assert.False(t, c.Add(context.Background(), "Buy milk"))
	assert.Equal(t, MsgAddFailed, c.Error())
	assert.Len(t, c.Tasks(), 3)
	assert.False(t, c.Submitting())
}

func TestController_Toggle(t *testing.T) {
	c, api := loadedController(t)
	ctx := context.Background()

	c.Toggle(ctx, 1)
	assert.True(t, c.Tasks()[0].Completed)
	assert.Equal(t, Stats{Total: 3, Active: 1, Completed: 2}, c.Stats())

	api.fail = true
	c.Toggle(ctx, 1)
	assert.True(t, c.Tasks()[0].Completed)
	assert.Equal(t, MsgUpdateFailed, c.Error())
}

func TestController_UpdateTitle(t *testing.T) {
	c, api := loadedController(t)
	ctx := context.Background()

	c.UpdateTitle(ctx, 2, " Ship it ")
	assert.Equal(t, "Ship it", c.Tasks()[1].Title)

	calls := len(api.calls)
	c.UpdateTitle(ctx, 2, "  ")
	assert.Len(t, api.calls, calls)

	c.UpdateTitle(ctx, 42, "nope")
	assert.Equal(t, MsgUpdateFailed, c.Error())
	assert.Equal(t, "Ship it", c.Tasks()[1].Title)
}

func TestController_Delete(t *testing.T) {
	c, api := loadedController(t)
	ctx := context.Background()

	c.Delete(ctx, 2)
	tasks := c.Tasks()
	require.Len(t, tasks, 2)
	assert.Equal(t, []int{1, 3}, []int{tasks[0].ID, tasks[1].ID})

	api.fail = true
	c.Delete(ctx, 1)
	assert.Equal(t, MsgDeleteFailed, c.Error())
	assert.Len(t, c.Tasks(), 2)
}

func TestController_ClearCompleted(t *testing.T) {
	c, api := loadedController(t)
	ctx := context.Background()

	c.Toggle(ctx, 1)
	c.ClearCompleted(ctx)
	tasks := c.Tasks()
	require.Len(t, tasks, 1)
	assert.Equal(t, 2, tasks[0].ID)

	c.Toggle(ctx, 2)
	require.True(t, c.Tasks()[0].Completed)

	api.fail = true
	c.ClearCompleted(ctx)
	assert.Equal(t, MsgClearFailed, c.Error())
	assert.Len(t, c.Tasks(), 1)
}

func TestController_FiltersAndEmptyStates(t *testing.T) {
	c, _ := loadedController(t)
	ctx := context.Background()

	assert.Len(t, c.Visible(), 3)
	_, ok := c.EmptyState()
	assert.False(t, ok)

	c.SetFilter(FilterActive)
	assert.Equal(t, FilterActive, c.Filter())
	visible := c.Visible()
	require.Len(t, visible, 2)
	for _, task := range visible {
		assert.False(t, task.Completed)
	}

	c.SetFilter(FilterCompleted)
	visible = c.Visible()
	require.Len(t, visible, 1)
	assert.Equal(t, 3, visible[0].ID)

	c.SetFilter("bogus")
	assert.Equal(t, FilterAll, c.Filter())

	for _, id := range []int{1, 2, 3} {
		c.Delete(ctx, id)
	}
	empty, ok := c.EmptyState()
	require.True(t, ok)
	assert.Equal(t, "No todos yet!", empty.Title)

	c.SetFilter(FilterActive)
	empty, ok = c.EmptyState()
	require.True(t, ok)
	assert.Equal(t, "All tasks completed!", empty.Title)

	c.SetFilter(FilterCompleted)
	empty, ok = c.EmptyState()
	require.True(t, ok)
	assert.Equal(t, "No completed tasks", empty.Title)
}

func TestController_DismissError(t *testing.T) {
	api := newFakeAPI()
	api.fail = true
	c := NewController(api, logging.Discard())
	_ = c.Load(context.Background())
	require.NotEmpty(t, c.Error())

	c.DismissError()
	assert.Empty(t, c.Error())
}
