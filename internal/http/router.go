// Package http exposes the task store and habit tracker as a local JSON API
// for a browser UI.
package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/rezkam/taskmaster/internal/http/handler"
	mw "github.com/rezkam/taskmaster/internal/http/middleware"
	"github.com/rezkam/taskmaster/internal/http/response"
)

// NewRouter creates and configures the Chi router with all middleware and routes.
func NewRouter(server *handler.Server, maxBodyBytes int64) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.RequestLogger(slog.Default()))
	r.Use(middleware.Recoverer)
	r.Use(mw.MaxBodyBytes(maxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "route")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		response.MethodNotAllowed(w)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte(`{"status":"ok"}`)); err != nil {
			slog.ErrorContext(r.Context(), "failed to write health check response", "error", err)
		}
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/tasks", func(r chi.Router) {
			r.Get("/", server.ListTasks)
			r.Post("/", server.CreateTask)
			r.Post("/clear-completed", server.ClearCompleted)
			r.Get("/{id}", server.GetTask)
			r.Patch("/{id}", server.UpdateTask)
			r.Delete("/{id}", server.DeleteTask)
			r.Post("/{id}/toggle", server.ToggleTask)
		})

		r.Get("/stats", server.GetStats)
		r.Get("/filter", server.GetFilter)
		r.Put("/filter", server.SetFilter)

		r.Get("/categories", server.ListCategories)
		r.Post("/categories", server.CreateCategory)
		r.Get("/settings", server.GetSettings)
		r.Put("/settings", server.UpdateSettings)

		r.Route("/habits", func(r chi.Router) {
			r.Get("/", server.ListHabits)
			r.Post("/", server.CreateHabit)
			r.Delete("/{id}", server.DeleteHabit)
			r.Post("/{id}/toggle", server.ToggleHabit)
		})

		r.Get("/calendar", server.GetCalendar)
		r.Get("/export", server.Export)
	})

	return r
}
