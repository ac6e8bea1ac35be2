package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/rezkam/taskmaster/internal/domain"
	"github.com/rezkam/taskmaster/internal/http/response"
)

var errCategoryNameRequired = errors.New("name is required")

// ListCategories handles GET /api/v1/categories.
func (s *Server) ListCategories(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, categoriesResponse{Categories: s.tasks.Categories()})
}

// CreateCategory handles POST /api/v1/categories.
// Names are unique; adding an existing name is a conflict.
func (s *Server) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req categoryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		response.FromDomainError(w, r, response.Invalid("name", errCategoryNameRequired))
		return
	}

	if !s.tasks.AddCategory(name, req.Color) {
		response.Conflict(w, "category "+name+" already exists")
		return
	}

	for _, c := range s.tasks.Categories() {
		if c.Name == name {
			response.Created(w, struct {
				Category domain.Category `json:"category"`
			}{Category: c})
			return
		}
	}
	response.InternalError(w, r, errors.New("category missing after add"))
}

// GetSettings handles GET /api/v1/settings.
func (s *Server) GetSettings(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, s.settings())
}

// UpdateSettings handles PUT /api/v1/settings. Categories are changed through
// /api/v1/categories; only darkMode is writable here.
func (s *Server) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	if req.DarkMode != nil {
		s.tasks.SetDarkMode(*req.DarkMode)
	}
	response.OK(w, s.settings())
}

func (s *Server) settings() settingsResponse {
	return settingsResponse{
		DarkMode:   s.tasks.DarkMode(),
		Categories: s.tasks.Categories(),
	}
}
