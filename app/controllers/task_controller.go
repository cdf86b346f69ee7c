package controllers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/gorilla/mux"

	"tasklist/app/middleware"
	"tasklist/app/models"
	"tasklist/app/services"
)

const maxBodyBytes = 100 << 10

var errBadPayload = errors.New("invalid request payload")

// TaskController handles HTTP requests for tasks.
type TaskController struct {
	Service *services.TaskService
	Logger  *log.Logger
}

// NewTaskController creates a new TaskController.
func NewTaskController(service *services.TaskService, logger *log.Logger) *TaskController {
	if logger == nil {
		logger = log.Default()
	}
	return &TaskController{Service: service, Logger: logger}
}

// GetTasks handles GET /api/todos.
func (c *TaskController) GetTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := c.Service.GetTasks(r.Context())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.TaskListResponse{
		Success: true,
		Data:    tasks,
		Count:   len(tasks),
	})
}

// GetTaskByID handles GET /api/todos/{id}.
func (c *TaskController) GetTaskByID(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Todo not found")
		return
	}
	task, err := c.Service.GetTaskByID(r.Context(), id)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.TaskResponse{Success: true, Data: task})
}

// CreateTask handles POST /api/todos.
func (c *TaskController) CreateTask(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Title *string `json:"title"`
	}
	if err := decodeBody(w, r, &body, func(form map[string][]string) error {
		if v, ok := form["title"]; ok && len(v) > 0 {
			body.Title = &v[0]
		}
		return nil
	}); err != nil {
		c.Logger.Debug("decode create body", "request_id", middleware.RequestIDFromContext(r.Context()), "err", err)
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if body.Title == nil {
		writeError(w, http.StatusBadRequest, "Title is required")
		return
	}

	task, err := c.Service.CreateTask(r.Context(), *body.Title)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	c.Logger.Debug("task created", "id", task.ID)
	writeJSON(w, http.StatusCreated, models.TaskResponse{Success: true, Data: task})
}

// UpdateTask handles PUT /api/todos/{id}.
func (c *TaskController) UpdateTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Todo not found")
		return
	}

	var patch models.TaskPatch
	if err := decodeBody(w, r, &patch, func(form map[string][]string) error {
		if v, ok := form["title"]; ok && len(v) > 0 {
			patch.Title = &v[0]
		}
		if v, ok := form["completed"]; ok && len(v) > 0 {
			completed, err := strconv.ParseBool(v[0])
			if err != nil {
				return fmt.Errorf("completed: %w", err)
			}
			patch.Completed = &completed
		}
		return nil
	}); err != nil {
		c.Logger.Debug("decode update body", "request_id", middleware.RequestIDFromContext(r.Context()), "err", err)
		writeError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	task, err := c.Service.UpdateTask(r.Context(), id, patch)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.TaskResponse{Success: true, Data: task})
}

// DeleteTask handles DELETE /api/todos/{id}.
func (c *TaskController) DeleteTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Todo not found")
		return
	}
	task, err := c.Service.DeleteTask(r.Context(), id)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.TaskResponse{Success: true, Data: task})
}

// ToggleTask handles PATCH /api/todos/{id}/toggle.
func (c *TaskController) ToggleTask(w http.ResponseWriter, r *http.Request) {
	id, ok := taskID(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Todo not found")
		return
	}
	task, err := c.Service.ToggleTask(r.Context(), id)
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.TaskResponse{Success: true, Data: task})
}

// ClearCompleted handles DELETE /api/todos/completed/clear.
func (c *TaskController) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	res, err := c.Service.ClearCompleted(r.Context())
	if err != nil {
		c.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.ClearResponse{
		Success:   true,
		Message:   fmt.Sprintf("Cleared %d completed todo(s)", res.Removed),
		Remaining: res.Remaining,
	})
}

func (c *TaskController) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		writeError(w, http.StatusNotFound, "Todo not found")
	case errors.Is(err, services.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "Title is required")
	default:
		c.Logger.Error("request failed",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
			"err", err,
		)
		writeError(w, http.StatusInternalServerError, "Something went wrong!")
	}
}

// taskID parses the {id} route variable. Anything that is not an
// integer cannot name a task.
func taskID(r *http.Request) (int, bool) {
	id, err := strconv.Atoi(mux.Vars(r)["id"])
	if err != nil {
		return 0, false
	}
	return id, true
}

// decodeBody reads a JSON or urlencoded body. An empty body leaves dst untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, fromForm func(map[string][]string) error) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/x-www-form-urlencoded" {
		if err := r.ParseForm(); err != nil {
			return fmt.Errorf("%w: %v", errBadPayload, err)
		}
		if err := fromForm(r.PostForm); err != nil {
			return fmt.Errorf("%w: %v", errBadPayload, err)
		}
		return nil
	}

	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("%w: %v", errBadPayload, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, models.ErrorResponse{Success: false, Error: msg})
}
