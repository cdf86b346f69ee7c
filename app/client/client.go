// Package client is a typed HTTP client for the task list API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"tasklist/app/models"
)

// APIError is returned for every non-2xx response.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

// ClearResult is the outcome of ClearCompleted.
type ClearResult struct {
	Message   string
	Remaining int
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// WithLogger sets the logger used for request diagnostics.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// Client talks to the API rooted at baseURL (for example http://localhost:5001/api).
type Client struct {
	baseURL string
	http    *http.Client
	logger  *log.Logger
}

// New creates a Client.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 10 * time.Second},
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health calls GET /health.
func (c *Client) Health(ctx context.Context) (models.HealthResponse, error) {
	var out models.HealthResponse
	err := c.do(ctx, http.MethodGet, "/health", nil, &out)
	return out, err
}

// ListTasks returns the whole collection.
func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var out models.TaskListResponse
	if err := c.do(ctx, http.MethodGet, "/todos", nil, &out); err != nil {
		return nil, err
	}
	if out.Data == nil {
		out.Data = []models.Task{}
	}
	return out.Data, nil
}

// GetTask returns one task.
func (c *Client) GetTask(ctx context.Context, id int) (models.Task, error) {
	var out models.TaskResponse
	err := c.do(ctx, http.MethodGet, taskPath(id), nil, &out)
	return out.Data, err
}

// CreateTask creates a task with the given title.
func (c *Client) CreateTask(ctx context.Context, title string) (models.Task, error) {
	var out models.TaskResponse
	err := c.do(ctx, http.MethodPost, "/todos", map[string]string{"title": title}, &out)
	return out.Data, err
}

// UpdateTask applies a partial update.
func (c *Client) UpdateTask(ctx context.Context, id int, patch models.TaskPatch) (models.Task, error) {
	var out models.TaskResponse
	err := c.do(ctx, http.MethodPut, taskPath(id), patch, &out)
	return out.Data, err
}

// DeleteTask removes a task and returns the removed record.
func (c *Client) DeleteTask(ctx context.Context, id int) (models.Task, error) {
	var out models.TaskResponse
	err := c.do(ctx, http.MethodDelete, taskPath(id), nil, &out)
	return out.Data, err
}

// ToggleTask flips a task's completion flag.
func (c *Client) ToggleTask(ctx context.Context, id int) (models.Task, error) {
	var out models.TaskResponse
	err := c.do(ctx, http.MethodPatch, taskPath(id)+"/toggle", nil, &out)
	return out.Data, err
}

// ClearCompleted removes every completed task on the server.
func (c *Client) ClearCompleted(ctx context.Context) (ClearResult, error) {
	var out models.ClearResponse
	if err := c.do(ctx, http.MethodDelete, "/todos/completed/clear", nil, &out); err != nil {
		return ClearResult{}, err
	}
	return ClearResult{Message: out.Message, Remaining: out.Remaining}, nil
}

func taskPath(id int) string {
	return "/todos/" + strconv.Itoa(id)
}

func (c *Client) do(ctx context.Context, method, endpoint string, in, out any) error {
	err := c.request(ctx, method, endpoint, in, out)
	if err != nil {
		c.logger.Error("API Error", "method", method, "endpoint", endpoint, "err", err)
	}
	return err
}

func (c *Client) request(ctx context.Context, method, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: "Something went wrong"}
		var envelope models.ErrorResponse
		if json.Unmarshal(raw, &envelope) == nil && envelope.Error != "" {
			apiErr.Message = envelope.Error
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
