package habit

import (
	"context"
	"encoding/json"
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

// StorageKey is the key habits are persisted under.
const StorageKey = "taskmaster-habits"

const instrumentationName = "github.com/rezkam/taskmaster/internal/habit"

// Tracker owns the habit list and persists it after every change.
// It is safe for concurrent use.
type Tracker struct {
	source kv.Source
	sink   kv.Sink
	now    func() time.Time
	newID  func() string
	logger *slog.Logger
	meters metric.MeterProvider

	mu     sync.RWMutex
	habits []Habit

	mutations metric.Int64Counter
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		if now != nil {
			t.now = now
		}
	}
}

// WithIDGenerator overrides habit id generation.
func WithIDGenerator(gen func() string) Option {
	return func(t *Tracker) {
		if gen != nil {
			t.newID = gen
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) {
		if l != nil {
			t.logger = l
		}
	}
}

// WithMeterProvider records metrics on mp instead of the global provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(t *Tracker) {
		if mp != nil {
			t.meters = mp
		}
	}
}

// NewTracker creates an empty tracker. Call Load to rehydrate.
func NewTracker(source kv.Source, sink kv.Sink, opts ...Option) *Tracker {
	t := &Tracker{
		source: source,
		sink:   sink,
		now:    time.Now,
		newID:  domain.NewID,
		logger: slog.Default(),
		meters: otel.GetMeterProvider(),
		habits: []Habit{},
	}
	for _, opt := range opts {
		opt(t)
	}

	var err error
	t.mutations, err = t.meters.Meter(instrumentationName).Int64Counter("taskmaster.habit.mutations",
		metric.WithDescription("Committed habit tracker mutations"),
		metric.WithUnit("{mutation}"))
	if err != nil {
		t.logger.Warn("failed to create habit mutation counter", "error", err)
	}
	return t
}

// Load replaces the habit list with the persisted one. Missing or corrupt
// data yields an empty list; only backend failures are returned.
func (t *Tracker) Load(ctx context.Context) error {
	raw, err := t.source.Get(ctx, StorageKey)
	if err != nil && !errors.Is(err, kv.ErrNotFound) {
		return fmt.Errorf("failed to load habits: %w", err)
	}

	habits := []Habit{}
	if err == nil {
		if decoded, decodeErr := decodeHabits(raw); decodeErr != nil {
			t.logger.WarnContext(ctx, "discarding corrupt saved habits", "key", StorageKey, "error", decodeErr)
		} else {
			habits = normalize(decoded)
		}
	}

	t.mu.Lock()
	t.habits = habits
	t.mu.Unlock()
	return nil
}

func decodeHabits(raw string) ([]Habit, error) {
	var habits []Habit
	if err := json.Unmarshal([]byte(raw), &habits); err != nil {
		return nil, fmt.Errorf("failed to decode habits: %w", err)
	}
	return habits, nil
}

// normalize drops duplicate ids and duplicate dates and sorts each
// habit's completion dates.
func normalize(habits []Habit) []Habit {
	seen := make(map[string]bool, len(habits))
	out := make([]Habit, 0, len(habits))
	for _, h := range habits {
		if h.ID == "" || seen[h.ID] {
			continue
		}
		seen[h.ID] = true
		if h.Frequency != Weekly {
			h.Frequency = Daily
		}
		slices.SortFunc(h.CompletedDates, domain.Date.Compare)
		h.CompletedDates = slices.Compact(h.CompletedDates)
		if h.CompletedDates == nil {
			h.CompletedDates = []domain.Date{}
		}
		out = append(out, h)
	}
	return out
}

// Add creates a habit. Blank presentation fields get defaults.
func (t *Tracker) Add(data NewHabit) Habit {
	if data.Frequency != Weekly {
		data.Frequency = Daily
	}
	if data.Category == "" {
		data.Category = DefaultCategory
	}
	if data.Icon == "" {
		data.Icon = DefaultIcon
	}
	if data.Color == "" {
		data.Color = DefaultColor
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	h := Habit{
		ID:             t.newID(),
		Title:          data.Title,
		Description:    data.Description,
		Category:       data.Category,
		Frequency:      data.Frequency,
		CompletedDates: []domain.Date{},
		Icon:           data.Icon,
		Color:          data.Color,
		CreatedAt:      t.now(),
	}
	t.habits = append(t.habits, h)
	t.persist("add")
	return h.Clone()
}

// AddSuggested adopts the built-in suggestion with the given id.
func (t *Tracker) AddSuggested(id string) (Habit, bool) {
	s, ok := suggestion(id)
	if !ok {
		return Habit{}, false
	}
	return t.Add(s.NewHabit), true
}

// Delete removes a habit and reports whether it existed.
func (t *Tracker) Delete(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return false
	}
	t.habits = slices.Delete(t.habits, i, i+1)
	t.persist("delete")
	return true
}

// List returns every habit in creation order.
func (t *Tracker) List() []Habit {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]Habit, len(t.habits))
	for i, h := range t.habits {
		out[i] = h.Clone()
	}
	return out
}

// Habit returns the habit with the given id.
func (t *Tracker) Habit(id string) (Habit, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	i := t.indexOf(id)
	if i < 0 {
		return Habit{}, false
	}
	return t.habits[i].Clone(), true
}

// Toggle marks the habit done on day, or undoes it when already done.
func (t *Tracker) Toggle(id string, day domain.Date) (Habit, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	i := t.indexOf(id)
	if i < 0 {
		return Habit{}, false
	}
	h := &t.habits[i]
	if j := slices.Index(h.CompletedDates, day); j >= 0 {
		h.CompletedDates = slices.Delete(h.CompletedDates, j, j+1)
	} else {
		h.CompletedDates = append(h.CompletedDates, day)
		slices.SortFunc(h.CompletedDates, domain.Date.Compare)
	}
	t.persist("toggle")
	return h.Clone(), true
}

// Stats summarizes all habits for today.
func (t *Tracker) Stats(today domain.Date) Stats {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return ComputeStats(t.habits, today)
}

func (t *Tracker) indexOf(id string) int {
	return slices.IndexFunc(t.habits, func(h Habit) bool { return h.ID == id })
}

// persist hands the habit list to the sink and counts the mutation.
// Callers hold t.mu.
func (t *Tracker) persist(op string) {
	b, err := json.Marshal(t.habits)
	if err != nil {
		t.logger.Error("failed to encode habits", "error", err)
		return
	}
	t.sink.Set(StorageKey, string(b))
	if t.mutations != nil {
		t.mutations.Add(context.Background(), 1, metric.WithAttributes(attribute.String("op", op)))
	}
}
