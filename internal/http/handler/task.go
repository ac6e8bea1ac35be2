package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/taskmaster/internal/http/response"
	"github.com/rezkam/taskmaster/internal/taskstore"
)

// ListTasks handles GET /api/v1/tasks.
//
// Without query parameters the store's active filter applies. Any of
// category, priority, completed or q switches to an ad-hoc filter that
// leaves the active one untouched. view=all returns every task in
// insertion order.
func (s *Server) ListTasks(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get("view") == "all" {
		response.OK(w, taskListResponse{
			Tasks:  s.tasks.Tasks(),
			Filter: s.tasks.Filter(),
			Stats:  s.tasks.Stats(),
		})
		return
	}

	filter, adHoc, err := parseFilterQuery(q)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	if !adHoc {
		response.OK(w, taskListResponse{
			Tasks:  s.tasks.FilteredTasks(),
			Filter: s.tasks.Filter(),
			Stats:  s.tasks.Stats(),
		})
		return
	}

	tasks := taskstore.ApplyFilter(s.tasks.Tasks(), filter)
	taskstore.SortTasks(tasks)
	response.OK(w, taskListResponse{
		Tasks:  tasks,
		Filter: filter,
		Stats:  s.tasks.Stats(),
	})
}

// CreateTask handles POST /api/v1/tasks.
func (s *Server) CreateTask(w http.ResponseWriter, r *http.Request) {
	var req createTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	data, err := toNewTask(req, s.tasks.HasCategory)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	response.Created(w, taskResponse{Task: s.tasks.AddTask(data)})
}

// GetTask handles GET /api/v1/tasks/{id}.
func (s *Server) GetTask(w http.ResponseWriter, r *http.Request) {
	task, ok := s.tasks.Task(chi.URLParam(r, "id"))
	if !ok {
		response.NotFound(w, "task")
		return
	}
	response.OK(w, taskResponse{Task: task})
}

// UpdateTask handles PATCH /api/v1/tasks/{id}.
// The body names only the fields to change; null clears optional fields.
func (s *Server) UpdateTask(w http.ResponseWriter, r *http.Request) {
	var body map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	patch, err := toTaskPatch(body, s.tasks.HasCategory)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	// The patch is already valid, so false can only mean an unknown id.
	task, ok := s.tasks.UpdateTask(chi.URLParam(r, "id"), patch)
	if !ok {
		response.NotFound(w, "task")
		return
	}
	response.OK(w, taskResponse{Task: task})
}

// DeleteTask handles DELETE /api/v1/tasks/{id}.
func (s *Server) DeleteTask(w http.ResponseWriter, r *http.Request) {
	if !s.tasks.DeleteTask(chi.URLParam(r, "id")) {
		response.NotFound(w, "task")
		return
	}
	response.NoContent(w)
}

// ToggleTask handles POST /api/v1/tasks/{id}/toggle.
func (s *Server) ToggleTask(w http.ResponseWriter, r *http.Request) {
	task, ok := s.tasks.ToggleTask(chi.URLParam(r, "id"))
	if !ok {
		response.NotFound(w, "task")
		return
	}
	response.OK(w, taskResponse{Task: task})
}

// ClearCompleted handles POST /api/v1/tasks/clear-completed.
func (s *Server) ClearCompleted(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, clearCompletedResponse{Removed: s.tasks.ClearCompleted()})
}

// GetStats handles GET /api/v1/stats.
func (s *Server) GetStats(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, s.tasks.Stats())
}

// GetFilter handles GET /api/v1/filter.
func (s *Server) GetFilter(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, s.tasks.Filter())
}

// SetFilter handles PUT /api/v1/filter. The body replaces the whole filter.
func (s *Server) SetFilter(w http.ResponseWriter, r *http.Request) {
	var req filterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	filter, err := toFilter(req)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	s.tasks.SetFilter(filter)
	response.OK(w, s.tasks.Filter())
}
