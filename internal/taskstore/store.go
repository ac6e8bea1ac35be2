// Package taskstore holds the in-memory task list, categories, active filter
// and dark-mode preference, and mirrors them to a key-value persistence
// service after every mutation.
package taskstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/rezkam/taskmaster/internal/domain"
	"github.com/rezkam/taskmaster/internal/kv"
)

const instrumentationName = "github.com/rezkam/taskmaster/internal/taskstore"

// maxIDAttempts bounds regeneration when the id generator collides.
const maxIDAttempts = 8

// Store is the single source of truth for tasks, categories and the active filter.
// All methods are safe for concurrent use. Returned tasks are copies.
type Store struct {
	source kv.Source
	sink   kv.Sink
	now    func() time.Time
	newID  func() string
	logger *slog.Logger

	mu       sync.RWMutex
	tasks    []domain.Task
	settings Settings
	filter   domain.Filter

	mutations metric.Int64Counter
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// WithIDGenerator overrides task id generation.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// New creates an empty store with default categories. Call Load to
// rehydrate persisted state before use.
func New(source kv.Source, sink kv.Sink, opts ...Option) *Store {
	s := &Store{
		source:   source,
		sink:     sink,
		now:      time.Now,
		newID:    domain.NewID,
		logger:   slog.Default(),
		tasks:    []domain.Task{},
		settings: DefaultSettings(),
	}
	for _, opt := range opts {
		opt(s)
	}

	var err error
	s.mutations, err = otel.Meter(instrumentationName).Int64Counter("taskmaster.task.mutations",
		metric.WithDescription("Committed task store mutations"),
		metric.WithUnit("{mutation}"))
	if err != nil {
		s.logger.Warn("failed to create task mutation counter", "error", err)
	}

	return s
}

// Load replaces the in-memory state with what the persistence service holds.
// Missing or corrupt values fall back to defaults; only a backend failure
// is returned.
func (s *Store) Load(ctx context.Context) error {
	tasks, err := s.loadTasks(ctx)
	if err != nil {
		return err
	}
	settings, err := s.loadSettings(ctx)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = tasks
	s.settings = settings
	s.filter = domain.Filter{}

	s.logger.DebugContext(ctx, "task store loaded",
		"tasks", len(tasks), "categories", len(settings.Categories))
	return nil
}

func (s *Store) loadTasks(ctx context.Context) ([]domain.Task, error) {
	raw, err := s.source.Get(ctx, TasksKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return []domain.Task{}, nil
		}
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}

	tasks, err := DecodeTasks(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "discarding corrupt saved tasks", "key", TasksKey, "error", err)
		return []domain.Task{}, nil
	}

	tasks, repaired := normalizeTasks(tasks, s.newID)
	if repaired > 0 {
		s.logger.WarnContext(ctx, "repaired inconsistent saved tasks", "count", repaired)
	}
	return tasks, nil
}

func (s *Store) loadSettings(ctx context.Context) (Settings, error) {
	raw, err := s.source.Get(ctx, SettingsKey)
	if err != nil {
		if errors.Is(err, kv.ErrNotFound) {
			return DefaultSettings(), nil
		}
		return Settings{}, fmt.Errorf("failed to load settings: %w", err)
	}

	settings, err := DecodeSettings(raw)
	if err != nil {
		s.logger.WarnContext(ctx, "discarding corrupt saved settings", "key", SettingsKey, "error", err)
		return DefaultSettings(), nil
	}
	return settings, nil
}

// AddTask appends a new incomplete task built from data and returns it.
// The caller is responsible for validating title and category.
func (s *Store) AddTask(data domain.NewTask) domain.Task {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	t := domain.Task{
		ID:              s.uniqueID(),
		Title:           data.Title,
		Description:     data.Description,
		DueDate:         data.DueDate,
		DueTime:         data.DueTime,
		Priority:        data.Priority,
		Category:        data.Category,
		CreatedAt:       now,
		UpdatedAt:       now,
		ReminderEnabled: data.ReminderEnabled,
		ReminderTime:    data.ReminderTime,
	}
	// Detach from caller-owned pointers.
	t = t.Clone()

	s.tasks = append(s.tasks, t)
	s.persistTasks("add")
	return t.Clone()
}

func (s *Store) uniqueID() string {
	for range maxIDAttempts {
		if id := s.newID(); id != "" && !domain.ContainsID(s.tasks, id) {
			return id
		}
	}
	s.logger.Warn("id generator kept colliding, falling back to a fresh uuid")
	return domain.NewID()
}

// UpdateTask applies patch to the task with the given id.
// It reports false, changing nothing, when the id is unknown or the patch
// is invalid.
func (s *Store) UpdateTask(id string, patch domain.TaskPatch) (domain.Task, bool) {
	if err := patch.Validate(); err != nil {
		s.logger.Debug("rejected task patch", "id", id, "error", err)
		return domain.Task{}, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Task{}, false
	}
	patch.Apply(&s.tasks[i], s.now())
	s.persistTasks("update")
	return s.tasks[i].Clone(), true
}

// DeleteTask removes the task with the given id and reports whether it existed.
func (s *Store) DeleteTask(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return false
	}
	s.tasks = slices.Delete(s.tasks, i, i+1)
	s.persistTasks("delete")
	return true
}

// ToggleTask flips the completion state of a task, stamping or clearing
// CompletedAt.
func (s *Store) ToggleTask(id string) (domain.Task, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Task{}, false
	}
	now := s.now()
	t := &s.tasks[i]
	t.SetCompleted(!t.Completed, now)
	t.UpdatedAt = now
	s.persistTasks("toggle")
	return t.Clone(), true
}

// ClearCompleted removes every completed task and returns how many were removed.
func (s *Store) ClearCompleted() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := len(s.tasks)
	s.tasks = slices.DeleteFunc(s.tasks, func(t domain.Task) bool { return t.Completed })
	removed := before - len(s.tasks)
	if removed > 0 {
		s.persistTasks("clear_completed")
	}
	return removed
}

// AddCategory appends a category unless one with exactly the same name
// exists. An empty color gets the default. It reports whether it was added.
func (s *Store) AddCategory(name, color string) bool {
	if name == "" {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.hasCategory(name) {
		return false
	}
	s.settings.Categories = append(s.settings.Categories, domain.NewCategory(name, color))
	s.persistSettings("add_category")
	return true
}

// SetFilter replaces the active filter.
func (s *Store) SetFilter(f domain.Filter) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filter = cloneFilter(f)
}

// Filter returns the active filter.
func (s *Store) Filter() domain.Filter {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneFilter(s.filter)
}

// FilteredTasks returns the tasks matching the active filter in presentation order.
func (s *Store) FilteredTasks() []domain.Task {
	s.mu.RLock()
	out := ApplyFilter(s.tasks, s.filter)
	s.mu.RUnlock()

	out = domain.CloneTasks(out)
	SortTasks(out)
	return out
}

// Stats counts the unfiltered task list.
func (s *Store) Stats() domain.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ComputeStats(s.tasks)
}

// Tasks returns every task in insertion order.
func (s *Store) Tasks() []domain.Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return domain.CloneTasks(s.tasks)
}

// Task returns the task with the given id.
func (s *Store) Task(id string) (domain.Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return domain.Task{}, false
	}
	return s.tasks[i].Clone(), true
}

// Categories returns the known categories in creation order.
func (s *Store) Categories() []domain.Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.settings.Categories)
}

// HasCategory reports whether a category with exactly this name exists.
func (s *Store) HasCategory(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.hasCategory(name)
}

// DarkMode returns the dark-mode preference.
func (s *Store) DarkMode() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.settings.DarkMode
}

// SetDarkMode stores the dark-mode preference.
func (s *Store) SetDarkMode(on bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings.DarkMode == on {
		return
	}
	s.settings.DarkMode = on
	s.persistSettings("dark_mode")
}

// ToggleDarkMode flips the dark-mode preference and returns the new value.
func (s *Store) ToggleDarkMode() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings.DarkMode = !s.settings.DarkMode
	s.persistSettings("dark_mode")
	return s.settings.DarkMode
}

// Seed appends the sample tasks and returns them.
func (s *Store) Seed(now time.Time) []domain.Task {
	samples := SampleTasks(now)
	added := make([]domain.Task, 0, len(samples))
	for _, data := range samples {
		added = append(added, s.AddTask(data))
	}
	return added
}

func (s *Store) indexOf(id string) int {
	return slices.IndexFunc(s.tasks, func(t domain.Task) bool { return t.ID == id })
}

func (s *Store) hasCategory(name string) bool {
	return slices.ContainsFunc(s.settings.Categories, func(c domain.Category) bool { return c.Name == name })
}

// persistTasks hands the task list to the sink. Callers hold s.mu so
// writes reach the sink in commit order.
func (s *Store) persistTasks(op string) {
	value, err := EncodeTasks(s.tasks)
	if err != nil {
		s.logger.Error("failed to encode tasks", "error", err)
		return
	}
	s.sink.Set(TasksKey, value)
	s.recordMutation(op)
}

func (s *Store) persistSettings(op string) {
	value, err := EncodeSettings(s.settings)
	if err != nil {
		s.logger.Error("failed to encode settings", "error", err)
		return
	}
	s.sink.Set(SettingsKey, value)
	s.recordMutation(op)
}

func (s *Store) recordMutation(op string) {
	if s.mutations == nil {
		return
	}
	s.mutations.Add(context.Background(), 1, metric.WithAttributes(attribute.String("op", op)))
}

func cloneFilter(f domain.Filter) domain.Filter {
	c := domain.Filter{SearchQuery: f.SearchQuery}
	if f.Category != nil {
		v := *f.Category
		c.Category = &v
	}
	if f.Priority != nil {
		v := *f.Priority
		c.Priority = &v
	}
	if f.Completed != nil {
		v := *f.Completed
		c.Completed = &v
	}
	return c
}
