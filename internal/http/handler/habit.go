package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rezkam/taskmaster/internal/domain"
	"github.com/rezkam/taskmaster/internal/habit"
	"github.com/rezkam/taskmaster/internal/http/response"
)

var errUnknownSuggestion = errors.New("unknown suggestion")

// ListHabits handles GET /api/v1/habits.
func (s *Server) ListHabits(w http.ResponseWriter, _ *http.Request) {
	today := s.today()
	response.OK(w, habitListResponse{
		Habits:      mapHabits(s.habits.List(), today),
		Stats:       s.habits.Stats(today),
		Suggestions: habit.Suggestions(),
	})
}

// CreateHabit handles POST /api/v1/habits.
// A body with suggestionId adopts a built-in suggestion; otherwise a title
// is required.
func (s *Server) CreateHabit(w http.ResponseWriter, r *http.Request) {
	var req createHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "invalid JSON")
		return
	}

	if req.SuggestionID != "" {
		h, ok := s.habits.AddSuggested(req.SuggestionID)
		if !ok {
			response.FromDomainError(w, r, response.Invalid("suggestionId", errUnknownSuggestion))
			return
		}
		response.Created(w, habitResponse{Habit: mapHabit(h, s.today())})
		return
	}

	title, err := domain.NewTitle(req.Title)
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}
	freq, err := habit.ParseFrequency(string(req.Frequency))
	if err != nil {
		response.FromDomainError(w, r, err)
		return
	}

	data := req.NewHabit
	data.Title = title.String()
	data.Frequency = freq
	response.Created(w, habitResponse{Habit: mapHabit(s.habits.Add(data), s.today())})
}

// ToggleHabit handles POST /api/v1/habits/{id}/toggle.
// The optional body {"date":"YYYY-MM-DD"} picks the day; default is today.
func (s *Server) ToggleHabit(w http.ResponseWriter, r *http.Request) {
	var req toggleHabitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(w, "invalid JSON")
		return
	}

	day := s.today()
	if req.Date != "" {
		d, err := domain.ParseDate(req.Date)
		if err != nil {
			response.FromDomainError(w, r, response.Invalid("date", err))
			return
		}
		day = d
	}

	h, ok := s.habits.Toggle(chi.URLParam(r, "id"), day)
	if !ok {
		response.NotFound(w, "habit")
		return
	}
	response.OK(w, habitResponse{Habit: mapHabit(h, s.today())})
}

// DeleteHabit handles DELETE /api/v1/habits/{id}.
func (s *Server) DeleteHabit(w http.ResponseWriter, r *http.Request) {
	if !s.habits.Delete(chi.URLParam(r, "id")) {
		response.NotFound(w, "habit")
		return
	}
	response.NoContent(w)
}
