package controllers

import (
	"net/http"

	"tasklist/app/models"
)

// Health handles GET /api/health.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, models.HealthResponse{
		Status:  "OK",
		Message: "Server is running",
	})
}

// RouteNotFound answers every request no route matched, including a known
// path requested with an unsupported method.
func RouteNotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "Route not found")
}
