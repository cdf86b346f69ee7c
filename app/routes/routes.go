package routes

import (
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"tasklist/app/controllers"
	"tasklist/app/middleware"
)

// RegisterRoutes sets up all routes for the application under /api.
func RegisterRoutes(router *mux.Router, taskController *controllers.TaskController) {
	api := router.PathPrefix("/api").Subrouter()

	api.HandleFunc("/health", controllers.Health).Methods(http.MethodGet)

	api.HandleFunc("/todos", taskController.GetTasks).Methods(http.MethodGet)
	api.HandleFunc("/todos", taskController.CreateTask).Methods(http.MethodPost)
	api.HandleFunc("/todos/completed/clear", taskController.ClearCompleted).Methods(http.MethodDelete)
	api.HandleFunc("/todos/{id}", taskController.GetTaskByID).Methods(http.MethodGet)
	api.HandleFunc("/todos/{id}", taskController.UpdateTask).Methods(http.MethodPut)
	api.HandleFunc("/todos/{id}", taskController.DeleteTask).Methods(http.MethodDelete)
	api.HandleFunc("/todos/{id}/toggle", taskController.ToggleTask).Methods(http.MethodPatch)

	router.NotFoundHandler = http.HandlerFunc(controllers.RouteNotFound)
	router.MethodNotAllowedHandler = http.HandlerFunc(controllers.RouteNotFound)
}

// NewHandler builds the router and wraps it with the middleware stack.
func NewHandler(taskController *controllers.TaskController, logger *log.Logger) http.Handler {
	router := mux.NewRouter()
	RegisterRoutes(router, taskController)

	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{
			http.MethodGet, http.MethodHead, http.MethodPost,
			http.MethodPut, http.MethodPatch, http.MethodDelete,
		}),
		handlers.AllowedHeaders([]string{"Content-Type", middleware.RequestIDHeader}),
		handlers.ExposedHeaders([]string{middleware.RequestIDHeader}),
	)

	return middleware.Chain(
		router,
		middleware.WithRequestID,
		middleware.WithAccessLog(logger),
		middleware.WithRecover(logger),
		cors,
	)
}
