package taskstore

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/rezkam/taskmaster/internal/domain"
)

// Keys under which state is persisted.
const (
	TasksKey    = "taskmaster-tasks"
	SettingsKey = "taskmaster-settings"
)

// Settings is the persisted user preference record.
type Settings struct {
	DarkMode   bool              `json:"darkMode"`
	Categories []domain.Category `json:"categories"`
}

// DefaultSettings returns the settings used on first run.
func DefaultSettings() Settings {
	return Settings{Categories: domain.DefaultCategories()}
}

// EncodeTasks serializes tasks for the tasks key.
func EncodeTasks(tasks []domain.Task) (string, error) {
	if tasks == nil {
		tasks = []domain.Task{}
	}
	b, err := json.Marshal(tasks)
	if err != nil {
		return "", fmt.Errorf("failed to encode tasks: %w", err)
	}
	return string(b), nil
}

// DecodeTasks parses a value written by EncodeTasks, or by the browser app
// that used the same key layout.
func DecodeTasks(s string) ([]domain.Task, error) {
	var tasks []domain.Task
	if err := json.Unmarshal([]byte(s), &tasks); err != nil {
		return nil, fmt.Errorf("failed to decode tasks: %w", err)
	}
	return tasks, nil
}

// EncodeSettings serializes settings for the settings key.
func EncodeSettings(s Settings) (string, error) {
	if s.Categories == nil {
		s.Categories = []domain.Category{}
	}
	b, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode settings: %w", err)
	}
	return string(b), nil
}

// DecodeSettings parses a settings value. A record without categories gets
// the defaults.
func DecodeSettings(s string) (Settings, error) {
	var settings Settings
	if err := json.Unmarshal([]byte(s), &settings); err != nil {
		return Settings{}, fmt.Errorf("failed to decode settings: %w", err)
	}
	if len(settings.Categories) == 0 {
		settings.Categories = domain.DefaultCategories()
	}
	return settings, nil
}

// normalizeTasks repairs loaded data so the store's invariants hold:
// ids are present and unique (first occurrence wins), CompletedAt is set
// exactly when Completed is, and priority is one of the known levels.
// It returns the number of tasks it dropped or modified.
func normalizeTasks(tasks []domain.Task, newID func() string) ([]domain.Task, int) {
	seen := make(map[string]bool, len(tasks))
	out := make([]domain.Task, 0, len(tasks))
	repaired := 0

	for _, t := range tasks {
		changed := false

		if t.ID == "" {
			t.ID = newID()
			changed = true
		}
		if seen[t.ID] {
			repaired++
			continue
		}
		seen[t.ID] = true

		if t.UpdatedAt.IsZero() {
			t.UpdatedAt = t.CreatedAt
		}
		switch {
		case t.Completed && t.CompletedAt == nil:
			at := completionFallback(t)
			t.CompletedAt = &at
			changed = true
		case !t.Completed && t.CompletedAt != nil:
			t.CompletedAt = nil
			changed = true
		}
		if t.Priority.Rank() == 0 {
			p, err := domain.NewPriority(string(t.Priority))
			if err != nil {
				p = domain.PriorityMedium
			}
			t.Priority = p
			changed = true
		}

		if changed {
			repaired++
		}
		out = append(out, t)
	}
	return out, repaired
}

func completionFallback(t domain.Task) time.Time {
	if !t.UpdatedAt.IsZero() {
		return t.UpdatedAt
	}
	return t.CreatedAt
}
