package models

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// TaskListResponse wraps the full collection.
type TaskListResponse struct {
	Success bool   `json:"success"`
	Data    []Task `json:"data"`
	Count   int    `json:"count"`
}

// TaskResponse wraps a single task.
type TaskResponse struct {
	Success bool `json:"success"`
	Data    Task `json:"data"`
}

// ClearResponse is returned by the bulk clear of completed tasks.
type ClearResponse struct {
	Success   bool   `json:"success"`
	Message   string `json:"message"`
	Remaining int    `json:"remaining"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}
