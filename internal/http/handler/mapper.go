package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"maps"
	"slices"

	"github.com/rezkam/taskmaster/internal/domain"
	"github.com/rezkam/taskmaster/internal/habit"
	"github.com/rezkam/taskmaster/internal/http/response"
)

var (
	errNotString = errors.New("must be a string")
	errNotBool   = errors.New("must be a boolean")
)

// Request bodies

type createTaskRequest struct {
	Title           string  `json:"title"`
	Description     string  `json:"description"`
	DueDate         *string `json:"dueDate"`
	DueTime         *string `json:"dueTime"`
	Priority        string  `json:"priority"`
	Category        string  `json:"category"`
	ReminderEnabled bool    `json:"reminderEnabled"`
	ReminderTime    *string `json:"reminderTime"`
}

type filterRequest struct {
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
	Completed   *bool   `json:"completed"`
	SearchQuery string  `json:"searchQuery"`
}

type categoryRequest struct {
	Name  string `json:"name"`
	Color string `json:"color"`
}

type settingsRequest struct {
	DarkMode *bool `json:"darkMode"`
}

type createHabitRequest struct {
	habit.NewHabit
	SuggestionID string `json:"suggestionId"`
}

type toggleHabitRequest struct {
	Date string `json:"date"`
}

// Response bodies

type taskResponse struct {
	Task domain.Task `json:"task"`
}

type taskListResponse struct {
	Tasks  []domain.Task `json:"tasks"`
	Filter domain.Filter `json:"filter"`
	Stats  domain.Stats  `json:"stats"`
}

type clearCompletedResponse struct {
	Removed int `json:"removed"`
}

type categoriesResponse struct {
	Categories []domain.Category `json:"categories"`
}

type settingsResponse struct {
	DarkMode   bool              `json:"darkMode"`
	Categories []domain.Category `json:"categories"`
}

type habitView struct {
	habit.Habit
	Streak         int     `json:"streak"`
	CompletedToday bool    `json:"completedToday"`
	CompletionRate float64 `json:"completionRate"`
}

type habitResponse struct {
	Habit habitView `json:"habit"`
}

type habitListResponse struct {
	Habits      []habitView        `json:"habits"`
	Stats       habit.Stats        `json:"stats"`
	Suggestions []habit.Suggestion `json:"suggestions"`
}

type dayResponse struct {
	Date  domain.Date   `json:"date"`
	Tasks []domain.Task `json:"tasks"`
}

func mapHabit(h habit.Habit, today domain.Date) habitView {
	return habitView{
		Habit:          h,
		Streak:         habit.Streak(h, today),
		CompletedToday: h.CompletedOn(today),
		CompletionRate: habit.CompletionRate(h, today),
	}
}

func mapHabits(habits []habit.Habit, today domain.Date) []habitView {
	out := make([]habitView, 0, len(habits))
	for _, h := range habits {
		out = append(out, mapHabit(h, today))
	}
	return out
}

// Request → domain

// toNewTask validates a create request. An empty category falls back to
// the default one; any other category must already exist.
func toNewTask(req createTaskRequest, hasCategory func(string) bool) (domain.NewTask, error) {
	title, err := domain.NewTitle(req.Title)
	if err != nil {
		return domain.NewTask{}, response.Invalid("title", err)
	}
	priority, err := domain.NewPriority(req.Priority)
	if err != nil {
		return domain.NewTask{}, response.Invalid("priority", err)
	}
	category := req.Category
	if category == "" {
		category = domain.DefaultTaskCategory
	}
	if !hasCategory(category) {
		return domain.NewTask{}, response.Invalid("category", domain.ErrUnknownCategory)
	}

	data := domain.NewTask{
		Title:           title.String(),
		Description:     req.Description,
		Priority:        priority,
		Category:        category,
		ReminderEnabled: req.ReminderEnabled,
	}
	if data.DueDate, err = optionalDate("dueDate", req.DueDate); err != nil {
		return domain.NewTask{}, err
	}
	if data.DueTime, err = optionalClock("dueTime", req.DueTime); err != nil {
		return domain.NewTask{}, err
	}
	if data.ReminderTime, err = optionalClock("reminderTime", req.ReminderTime); err != nil {
		return domain.NewTask{}, err
	}
	return data, nil
}

// toTaskPatch turns a JSON merge-style body into a TaskPatch. Every key
// present becomes part of the update mask; null clears optional fields.
func toTaskPatch(body map[string]json.RawMessage, hasCategory func(string) bool) (domain.TaskPatch, error) {
	var p domain.TaskPatch
	if len(body) == 0 {
		return p, response.Invalid("update", domain.ErrEmptyUpdateMask)
	}

	for _, key := range slices.Sorted(maps.Keys(body)) {
		raw := body[key]
		switch key {
		case "title":
			s, err := requiredString(key, raw)
			if err != nil {
				return p, err
			}
			title, err := domain.NewTitle(s)
			if err != nil {
				return p, response.Invalid(key, err)
			}
			v := title.String()
			p.Title = &v
			p.UpdateMask = append(p.UpdateMask, domain.FieldTitle)
		case "description":
			s, err := nullableString(key, raw)
			if err != nil {
				return p, err
			}
			p.Description = s
			p.UpdateMask = append(p.UpdateMask, domain.FieldDescription)
		case "dueDate":
			s, err := nullableString(key, raw)
			if err != nil {
				return p, err
			}
			if p.DueDate, err = optionalDate(key, s); err != nil {
				return p, err
			}
			p.UpdateMask = append(p.UpdateMask, domain.FieldDueDate)
		case "dueTime":
			s, err := nullableString(key, raw)
			if err != nil {
				return p, err
			}
			if p.DueTime, err = optionalClock(key, s); err != nil {
				return p, err
			}
			p.UpdateMask = append(p.UpdateMask, domain.FieldDueTime)
		case "priority":
			s, err := requiredString(key, raw)
			if err != nil {
				return p, err
			}
			priority, err := domain.NewPriority(s)
			if err != nil {
				return p, response.Invalid(key, err)
			}
			p.Priority = &priority
			p.UpdateMask = append(p.UpdateMask, domain.FieldPriority)
		case "category":
			s, err := requiredString(key, raw)
			if err != nil {
				return p, err
			}
			if !hasCategory(s) {
				return p, response.Invalid(key, domain.ErrUnknownCategory)
			}
			p.Category = &s
			p.UpdateMask = append(p.UpdateMask, domain.FieldCategory)
		case "completed":
			b, err := requiredBool(key, raw)
			if err != nil {
				return p, err
			}
			p.Completed = &b
			p.UpdateMask = append(p.UpdateMask, domain.FieldCompleted)
		case "reminderEnabled":
			b, err := requiredBool(key, raw)
			if err != nil {
				return p, err
			}
			p.ReminderEnabled = &b
			p.UpdateMask = append(p.UpdateMask, domain.FieldReminderEnabled)
		case "reminderTime":
			s, err := nullableString(key, raw)
			if err != nil {
				return p, err
			}
			if p.ReminderTime, err = optionalClock(key, s); err != nil {
				return p, err
			}
			p.UpdateMask = append(p.UpdateMask, domain.FieldReminderTime)
		default:
			return p, response.Invalid(key, domain.ErrUnknownField)
		}
	}
	return p, nil
}

func toFilter(req filterRequest) (domain.Filter, error) {
	f := domain.Filter{
		Completed:   req.Completed,
		SearchQuery: req.SearchQuery,
	}
	if req.Category != nil && *req.Category != "" {
		category := *req.Category
		f.Category = &category
	}
	if req.Priority != nil && *req.Priority != "" {
		priority, err := domain.NewPriority(*req.Priority)
		if err != nil {
			return domain.Filter{}, response.Invalid("priority", err)
		}
		f.Priority = &priority
	}
	return f, nil
}

// JSON helpers

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func requiredString(key string, raw json.RawMessage) (string, error) {
	if isNull(raw) {
		return "", response.Invalid(key, domain.ErrFieldRequired)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", response.Invalid(key, errNotString)
	}
	return s, nil
}

func nullableString(key string, raw json.RawMessage) (*string, error) {
	if isNull(raw) {
		return nil, nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, response.Invalid(key, errNotString)
	}
	return &s, nil
}

func requiredBool(key string, raw json.RawMessage) (bool, error) {
	if isNull(raw) {
		return false, response.Invalid(key, domain.ErrFieldRequired)
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err != nil {
		return false, response.Invalid(key, errNotBool)
	}
	return b, nil
}

// optionalDate parses s when it is set and non-empty.
func optionalDate(field string, s *string) (*domain.Date, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	d, err := domain.ParseDate(*s)
	if err != nil {
		return nil, response.Invalid(field, err)
	}
	return &d, nil
}

// optionalClock parses s when it is set and non-empty.
func optionalClock(field string, s *string) (*string, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	c, err := domain.ParseClock(*s)
	if err != nil {
		return nil, response.Invalid(field, err)
	}
	return &c, nil
}
