package taskstore

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/taskmaster/internal/domain"
	"github.com/rezkam/taskmaster/internal/kv"
	"github.com/rezkam/taskmaster/internal/ptr"
)

// recordingSink captures writes and mirrors them into a memory store so a
// second store can load what the first one wrote.
type recordingSink struct {
	mu     sync.Mutex
	mem    *kv.Memory
	writes []string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{mem: kv.NewMemory()}
}

func (r *recordingSink) Set(key, value string) {
	r.mu.Lock()
	r.writes = append(r.writes, key)
	r.mu.Unlock()
	_ = r.mem.Set(context.Background(), key, value)
}

func (r *recordingSink) count(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, k := range r.writes {
		if k == key {
			n++
		}
	}
	return n
}

// stepClock advances one second per call so creation times are distinct.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

func sequentialIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("task-%d", n)
	}
}

func newTestStore(t *testing.T) (*Store, *recordingSink) {
	t.Helper()
	sink := newRecordingSink()
	clock := &stepClock{t: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	s := New(sink.mem, sink, WithClock(clock.Now), WithIDGenerator(sequentialIDs()))
	require.NoError(t, s.Load(context.Background()))
	return s, sink
}

func titles(tasks []domain.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Title
	}
	return out
}

func TestStore_AddTask(t *testing.T) {
	s, sink := newTestStore(t)

	due := domain.NewDate(2025, time.March, 12)
	got := s.AddTask(domain.NewTask{
		Title:           "Write report",
		Description:     "Q1 numbers",
		DueDate:         &due,
		DueTime:         ptr.To("14:00"),
		Priority:        domain.PriorityHigh,
		Category:        "Work",
		ReminderEnabled: true,
		ReminderTime:    ptr.To("13:00"),
	})

	assert.Equal(t, "task-1", got.ID)
	assert.Equal(t, "Write report", got.Title)
	assert.Equal(t, "Q1 numbers", got.Description)
	assert.Equal(t, due, *got.DueDate)
	assert.Equal(t, "14:00", *got.DueTime)
	assert.False(t, got.Completed)
	assert.Nil(t, got.CompletedAt)
	assert.False(t, got.CreatedAt.IsZero())
	assert.Equal(t, got.CreatedAt, got.UpdatedAt)
	assert.Equal(t, 1, sink.count(TasksKey))

	// Mutating the caller's input afterwards must not reach the store.
	due.Day = 1
	stored, ok := s.Task(got.ID)
	require.True(t, ok)
	assert.Equal(t, 12, stored.DueDate.Day)
}

func TestStore_AddTaskIDsAreUniqueAndIncomplete(t *testing.T) {
	s, _ := newTestStore(t)

	seen := map[string]bool{}
	for i := range 50 {
		task := s.AddTask(domain.NewTask{Title: fmt.Sprintf("t%d", i), Priority: domain.PriorityLow, Category: "Work"})
		assert.False(t, seen[task.ID], "duplicate id %s", task.ID)
		assert.False(t, task.Completed)
		seen[task.ID] = true
	}
}

func TestStore_AddTaskRegeneratesCollidingIDs(t *testing.T) {
	sink := newRecordingSink()
	s := New(sink.mem, sink, WithIDGenerator(func() string { return "same" }))

	a := s.AddTask(domain.NewTask{Title: "A", Priority: domain.PriorityLow})
	b := s.AddTask(domain.NewTask{Title: "B", Priority: domain.PriorityLow})

	assert.Equal(t, "same", a.ID)
	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEmpty(t, b.ID)
}

func TestStore_UpdateTask(t *testing.T) {
	s, sink := newTestStore(t)
	task := s.AddTask(domain.NewTask{Title: "Old", Description: "desc", Priority: domain.PriorityLow, Category: "Work"})

	got, ok := s.UpdateTask(task.ID, domain.TaskPatch{
		UpdateMask:  []string{domain.FieldTitle, domain.FieldDescription, domain.FieldPriority},
		Title:       ptr.To("New"),
		Description: nil,
		Priority:    ptr.To(domain.PriorityHigh),
	})

	require.True(t, ok)
	assert.Equal(t, "New", got.Title)
	assert.Empty(t, got.Description)
	assert.Equal(t, domain.PriorityHigh, got.Priority)
	assert.Equal(t, "Work", got.Category)
	assert.Equal(t, task.CreatedAt, got.CreatedAt)
	assert.True(t, got.UpdatedAt.After(task.UpdatedAt))
	assert.Equal(t, 2, sink.count(TasksKey))
}

func TestStore_UpdateTaskCompletedKeepsInvariant(t *testing.T) {
	s, _ := newTestStore(t)
	task := s.AddTask(domain.NewTask{Title: "A", Priority: domain.PriorityLow})

	got, ok := s.UpdateTask(task.ID, domain.TaskPatch{
		UpdateMask: []string{domain.FieldCompleted},
		Completed:  ptr.To(true),
	})
	require.True(t, ok)
	assert.True(t, got.Completed)
	assert.NotNil(t, got.CompletedAt)

	got, ok = s.UpdateTask(task.ID, domain.TaskPatch{
		UpdateMask: []string{domain.FieldCompleted},
		Completed:  ptr.To(false),
	})
	require.True(t, ok)
	assert.False(t, got.Completed)
	assert.Nil(t, got.CompletedAt)
}

func TestStore_UpdateTaskNoOps(t *testing.T) {
	s, sink := newTestStore(t)
	task := s.AddTask(domain.NewTask{Title: "A", Priority: domain.PriorityLow})
	writes := sink.count(TasksKey)

	tests := []struct {
		name  string
		id    string
		patch domain.TaskPatch
	}{
		{
			name:  "unknown id",
			id:    "missing",
			patch: domain.TaskPatch{UpdateMask: []string{domain.FieldTitle}, Title: ptr.To("x")},
		},
		{
			name:  "empty mask",
			id:    task.ID,
			patch: domain.TaskPatch{Title: ptr.To("x")},
		},
		{
			name:  "unknown field",
			id:    task.ID,
			patch: domain.TaskPatch{UpdateMask: []string{"id"}},
		},
		{
			name:  "required field cleared",
			id:    task.ID,
			patch: domain.TaskPatch{UpdateMask: []string{domain.FieldTitle}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := s.UpdateTask(tt.id, tt.patch)
			assert.False(t, ok)
		})
	}

	stored, ok := s.Task(task.ID)
	require.True(t, ok)
	assert.Equal(t, task, stored)
	assert.Equal(t, writes, sink.count(TasksKey))
}

func TestStore_ToggleTwiceRestoresState(t *testing.T) {
	s, _ := newTestStore(t)
	task := s.AddTask(domain.NewTask{Title: "A", Priority: domain.PriorityLow})

	done, ok := s.ToggleTask(task.ID)
	require.True(t, ok)
	assert.True(t, done.Completed)
	require.NotNil(t, done.CompletedAt)

	undone, ok := s.ToggleTask(task.ID)
	require.True(t, ok)
	assert.Equal(t, task.Completed, undone.Completed)
	assert.Equal(t, task.CompletedAt, undone.CompletedAt)
}

func TestStore_DeletedIDIsNoOpEverywhere(t *testing.T) {
	s, sink := newTestStore(t)
	task := s.AddTask(domain.NewTask{Title: "A", Priority: domain.PriorityLow})

	require.True(t, s.DeleteTask(task.ID))
	writes := sink.count(TasksKey)

	assert.False(t, s.DeleteTask(task.ID))
	_, ok := s.ToggleTask(task.ID)
	assert.False(t, ok)
	_, ok = s.UpdateTask(task.ID, domain.TaskPatch{UpdateMask: []string{domain.FieldTitle}, Title: ptr.To("x")})
	assert.False(t, ok)
	_, ok = s.Task(task.ID)
	assert.False(t, ok)

	assert.Empty(t, s.Tasks())
	assert.Equal(t, writes, sink.count(TasksKey))
}

func TestStore_ClearCompleted(t *testing.T) {
	s, sink := newTestStore(t)
	a := s.AddTask(domain.NewTask{Title: "A", Priority: domain.PriorityLow})
	s.AddTask(domain.NewTask{Title: "B", Priority: domain.PriorityLow})
	c := s.AddTask(domain.NewTask{Title: "C", Priority: domain.PriorityLow})
	s.ToggleTask(a.ID)
	s.ToggleTask(c.ID)

	assert.Equal(t, 2, s.ClearCompleted())
	assert.Equal(t, []string{"B"}, titles(s.Tasks()))

	writes := sink.count(TasksKey)
	assert.Equal(t, 0, s.ClearCompleted())
	assert.Equal(t, writes, sink.count(TasksKey))
}

func TestStore_AddCategory(t *testing.T) {
	s, sink := newTestStore(t)

	assert.True(t, s.AddCategory("Errands", ""))
	assert.False(t, s.AddCategory("Errands", "#000000"))
	assert.True(t, s.AddCategory("errands", "#000000"), "names are case-sensitive")
	assert.False(t, s.AddCategory("Work", ""))
	assert.False(t, s.AddCategory("", ""))

	cats := s.Categories()
	require.Len(t, cats, 5)
	assert.Equal(t, "Errands", cats[3].Name)
	assert.Equal(t, domain.DefaultCategoryColor, cats[3].Color)
	assert.Equal(t, "#000000", cats[4].Color)
	assert.True(t, s.HasCategory("Errands"))
	assert.False(t, s.HasCategory("ERRANDS"))
	assert.Equal(t, 2, sink.count(SettingsKey))
}

func TestStore_SetFilterReplacesWholesale(t *testing.T) {
	s, _ := newTestStore(t)

	s.SetFilter(domain.Filter{Category: ptr.To("Work"), SearchQuery: "x"})
	s.SetFilter(domain.Filter{Completed: ptr.To(true)})

	f := s.Filter()
	assert.Nil(t, f.Category)
	assert.Empty(t, f.SearchQuery)
	require.NotNil(t, f.Completed)
	assert.True(t, *f.Completed)
}

func TestStore_FilterDoesNotAliasCaller(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddTask(domain.NewTask{Title: "A", Priority: domain.PriorityLow, Category: "Work"})
	s.AddTask(domain.NewTask{Title: "B", Priority: domain.PriorityLow, Category: "Home"})

	cat := "Work"
	s.SetFilter(domain.Filter{Category: &cat})
	cat = "Home"

	assert.Equal(t, []string{"A"}, titles(s.FilteredTasks()))
}

func TestStore_ScenarioPriorityThenCompletion(t *testing.T) {
	s, _ := newTestStore(t)

	a := s.AddTask(domain.NewTask{Title: "A", Priority: domain.PriorityHigh, Category: "Work"})
	s.AddTask(domain.NewTask{Title: "B", Priority: domain.PriorityLow, Category: "Work"})
	assert.Equal(t, []string{"A", "B"}, titles(s.FilteredTasks()))

	s.ToggleTask(a.ID)
	assert.Equal(t, []string{"B", "A"}, titles(s.FilteredTasks()))

	s.SetFilter(domain.Filter{Completed: ptr.To(false)})
	assert.Equal(t, []string{"B"}, titles(s.FilteredTasks()))
}

func TestStore_ScenarioSearch(t *testing.T) {
	s, _ := newTestStore(t)
	s.AddTask(domain.NewTask{Title: "Apple", Priority: domain.PriorityMedium})
	s.AddTask(domain.NewTask{Title: "Banana", Priority: domain.PriorityMedium})

	s.SetFilter(domain.Filter{SearchQuery: "a"})
	assert.ElementsMatch(t, []string{"Apple", "Banana"}, titles(s.FilteredTasks()))

	s.SetFilter(domain.Filter{SearchQuery: "ap"})
	assert.Equal(t, []string{"Apple"}, titles(s.FilteredTasks()))

	s.SetFilter(domain.Filter{SearchQuery: "AP"})
	assert.Equal(t, []string{"Apple"}, titles(s.FilteredTasks()))
}

func TestStore_FilteredTasksIsPureAndIdempotent(t *testing.T) {
	s, sink := newTestStore(t)
	s.Seed(time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC))
	before := s.Tasks()
	writes := len(sink.writes)

	first := s.FilteredTasks()
	second := s.FilteredTasks()

	assert.Equal(t, first, second)
	assert.Len(t, first, len(before))
	assert.Equal(t, before, s.Tasks(), "insertion order is untouched")
	assert.Equal(t, writes, len(sink.writes))

	// Editing the returned slice does not leak into the store.
	first[0].Title = "mutated"
	assert.NotEqual(t, "mutated", s.FilteredTasks()[0].Title)
}

func TestStore_StatsOverUnfilteredList(t *testing.T) {
	s, _ := newTestStore(t)
	a := s.AddTask(domain.NewTask{Title: "A", Priority: domain.PriorityLow, Category: "Work"})
	s.AddTask(domain.NewTask{Title: "B", Priority: domain.PriorityLow, Category: "Home"})
	s.AddTask(domain.NewTask{Title: "C", Priority: domain.PriorityLow, Category: "Home"})
	s.ToggleTask(a.ID)
	s.SetFilter(domain.Filter{Category: ptr.To("Home")})

	stats := s.Stats()
	assert.Equal(t, domain.Stats{Total: 3, Completed: 1, Pending: 2}, stats)
	assert.Equal(t, stats.Total, stats.Completed+stats.Pending)
}

func TestStore_DarkMode(t *testing.T) {
	s, sink := newTestStore(t)
	assert.False(t, s.DarkMode())

	assert.True(t, s.ToggleDarkMode())
	assert.True(t, s.DarkMode())

	s.SetDarkMode(true)
	assert.Equal(t, 1, sink.count(SettingsKey), "unchanged preference is not rewritten")

	s.SetDarkMode(false)
	assert.False(t, s.DarkMode())
	assert.Equal(t, 2, sink.count(SettingsKey))
}

func TestStore_RoundTripThroughPersistence(t *testing.T) {
	s, sink := newTestStore(t)
	s.Seed(time.Date(2025, 3, 10, 9, 0, 0, 0, time.Local))
	tasks := s.Tasks()
	s.ToggleTask(tasks[1].ID)
	s.AddCategory("Errands", "#ff0000")
	s.SetDarkMode(true)

	reloaded := New(sink.mem, newRecordingSink())
	require.NoError(t, reloaded.Load(context.Background()))

	want := s.Tasks()
	got := reloaded.Tasks()
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].ID, got[i].ID)
		assert.Equal(t, want[i].DueDate, got[i].DueDate)
		assert.Equal(t, want[i].DueTime, got[i].DueTime)
		assert.True(t, want[i].CreatedAt.Equal(got[i].CreatedAt))
		assert.Equal(t, want[i].Completed, got[i].Completed)
		if want[i].CompletedAt != nil {
			require.NotNil(t, got[i].CompletedAt)
			assert.True(t, want[i].CompletedAt.Equal(*got[i].CompletedAt))
		}
	}
	assert.Equal(t, s.Categories(), reloaded.Categories())
	assert.True(t, reloaded.DarkMode())
}

func TestStore_LoadFallsBackOnCorruptData(t *testing.T) {
	mem := kv.NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, TasksKey, "{not json"))
	require.NoError(t, mem.Set(ctx, SettingsKey, "[]"))

	s := New(mem, newRecordingSink())
	require.NoError(t, s.Load(ctx))

	assert.Empty(t, s.Tasks())
	assert.Equal(t, domain.DefaultCategories(), s.Categories())
	assert.False(t, s.DarkMode())
}

func TestStore_LoadMissingKeysGivesDefaults(t *testing.T) {
	s := New(kv.NewMemory(), newRecordingSink())
	require.NoError(t, s.Load(context.Background()))

	assert.Empty(t, s.Tasks())
	assert.Equal(t, domain.DefaultCategories(), s.Categories())
}

type failingSource struct{ err error }

func (f failingSource) Get(context.Context, string) (string, error) { return "", f.err }

func TestStore_LoadReturnsBackendErrors(t *testing.T) {
	backendErr := errors.New("connection refused")
	s := New(failingSource{err: backendErr}, newRecordingSink())

	err := s.Load(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, backendErr)
}

func TestStore_LoadReadsBrowserFormat(t *testing.T) {
	mem := kv.NewMemory()
	ctx := context.Background()
	require.NoError(t, mem.Set(ctx, TasksKey, `[
		{"id":"1","title":"Old","dueDate":"2024-05-01T00:00:00.000Z","priority":"High","category":"Work",
		 "completed":true,"createdAt":"2024-04-01T10:00:00.000Z","reminderEnabled":false},
		{"id":"1","title":"Duplicate","priority":"Low","category":"Work","completed":false,
		 "createdAt":"2024-04-02T10:00:00.000Z","reminderEnabled":false},
		{"id":"2","title":"Stale","priority":"low","category":"Home","completed":false,
		 "completedAt":"2024-04-03T10:00:00.000Z","createdAt":"2024-04-02T10:00:00.000Z","reminderEnabled":false}
	]`))
	require.NoError(t, mem.Set(ctx, SettingsKey, `{"darkMode":true,"categories":["Work","Home"]}`))

	s := New(mem, newRecordingSink())
	require.NoError(t, s.Load(ctx))

	tasks := s.Tasks()
	require.Len(t, tasks, 2)

	assert.Equal(t, "Old", tasks[0].Title)
	require.NotNil(t, tasks[0].DueDate)
	assert.Equal(t, 2024, tasks[0].DueDate.Year)
	assert.True(t, tasks[0].Completed)
	assert.NotNil(t, tasks[0].CompletedAt, "completed task gets a completion time")

	assert.Equal(t, "Stale", tasks[1].Title)
	assert.Nil(t, tasks[1].CompletedAt, "incomplete task loses its completion time")
	assert.Equal(t, domain.PriorityLow, tasks[1].Priority)

	cats := s.Categories()
	require.Len(t, cats, 2)
	assert.Equal(t, "Home", cats[1].Name)
	assert.True(t, s.DarkMode())
}

func TestStore_WritesThroughBatchWriter(t *testing.T) {
	mem := kv.NewMemory()
	writer := kv.NewBatchWriter(mem, kv.WithFlushInterval(time.Hour))
	s := New(mem, writer)
	require.NoError(t, s.Load(context.Background()))

	for i := range 10 {
		s.AddTask(domain.NewTask{Title: fmt.Sprintf("t%d", i), Priority: domain.PriorityLow})
	}
	assert.Equal(t, 1, writer.Pending())

	_, err := mem.Get(context.Background(), TasksKey)
	assert.ErrorIs(t, err, kv.ErrNotFound, "nothing written before flush")

	require.NoError(t, writer.Close(context.Background()))
	raw, err := mem.Get(context.Background(), TasksKey)
	require.NoError(t, err)
	tasks, err := DecodeTasks(raw)
	require.NoError(t, err)
	assert.Len(t, tasks, 10)
}

func TestStore_ConcurrentMutations(t *testing.T) {
	s, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := range 20 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			task := s.AddTask(domain.NewTask{Title: fmt.Sprintf("t%d", i), Priority: domain.PriorityMedium})
			s.ToggleTask(task.ID)
			_ = s.FilteredTasks()
			_ = s.Stats()
		}()
	}
	wg.Wait()

	stats := s.Stats()
	assert.Equal(t, 20, stats.Total)
	assert.Equal(t, 20, stats.Completed)
}
