package taskstore

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/taskmaster/internal/domain"
	"github.com/rezkam/taskmaster/internal/ptr"
)

func TestSortTasks(t *testing.T) {
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	day := func(d int) *domain.Date {
		v := domain.NewDate(2025, time.February, d)
		return &v
	}
	task := func(title string, p domain.Priority, due *domain.Date, createdOffset time.Duration, done bool) domain.Task {
		return domain.Task{
			ID:        title,
			Title:     title,
			Priority:  p,
			DueDate:   due,
			CreatedAt: base.Add(createdOffset),
			Completed: done,
		}
	}

	tests := []struct {
		name  string
		tasks []domain.Task
		want  []string
	}{
		{
			name: "incomplete before completed",
			tasks: []domain.Task{
				task("done", domain.PriorityHigh, nil, 0, true),
				task("open", domain.PriorityLow, nil, 0, false),
			},
			want: []string{"open", "done"},
		},
		{
			name: "higher priority first",
			tasks: []domain.Task{
				task("low", domain.PriorityLow, nil, 0, false),
				task("high", domain.PriorityHigh, nil, 0, false),
				task("medium", domain.PriorityMedium, nil, 0, false),
			},
			want: []string{"high", "medium", "low"},
		},
		{
			name: "dated before undated",
			tasks: []domain.Task{
				task("undated", domain.PriorityMedium, nil, time.Hour, false),
				task("dated", domain.PriorityMedium, day(20), 0, false),
			},
			want: []string{"dated", "undated"},
		},
		{
			name: "earlier due date first",
			tasks: []domain.Task{
				task("later", domain.PriorityMedium, day(20), 0, false),
				task("earlier", domain.PriorityMedium, day(3), 0, false),
			},
			want: []string{"earlier", "later"},
		},
		{
			name: "undated newest first",
			tasks: []domain.Task{
				task("older", domain.PriorityMedium, nil, 0, false),
				task("newer", domain.PriorityMedium, nil, time.Minute, false),
			},
			want: []string{"newer", "older"},
		},
		{
			name: "equal keys keep insertion order",
			tasks: []domain.Task{
				task("first", domain.PriorityMedium, day(5), 0, false),
				task("second", domain.PriorityMedium, day(5), time.Hour, false),
				task("third", domain.PriorityMedium, day(5), 0, false),
			},
			want: []string{"first", "second", "third"},
		},
		{
			name: "completed tasks use the same chain",
			tasks: []domain.Task{
				task("done-low", domain.PriorityLow, nil, 0, true),
				task("done-high", domain.PriorityHigh, nil, 0, true),
				task("open-low", domain.PriorityLow, day(1), 0, false),
			},
			want: []string{"open-low", "done-high", "done-low"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			SortTasks(tt.tasks)
			assert.Equal(t, tt.want, titles(tt.tasks))
		})
	}
}

func TestApplyFilter(t *testing.T) {
	tasks := []domain.Task{
		{ID: "1", Title: "Pay rent", Category: "Home", Priority: domain.PriorityHigh},
		{ID: "2", Title: "Deploy", Description: "roll out the api", Category: "Work", Priority: domain.PriorityHigh, Completed: true},
		{ID: "3", Title: "Read", Category: "Study", Priority: domain.PriorityLow},
	}

	tests := []struct {
		name   string
		filter domain.Filter
		want   []string
	}{
		{name: "empty filter keeps everything", filter: domain.Filter{}, want: []string{"Pay rent", "Deploy", "Read"}},
		{name: "category", filter: domain.Filter{Category: ptr.To("Work")}, want: []string{"Deploy"}},
		{name: "category is case-sensitive", filter: domain.Filter{Category: ptr.To("work")}, want: []string{}},
		{name: "priority", filter: domain.Filter{Priority: ptr.To(domain.PriorityHigh)}, want: []string{"Pay rent", "Deploy"}},
		{name: "completed", filter: domain.Filter{Completed: ptr.To(false)}, want: []string{"Pay rent", "Read"}},
		{name: "search matches description", filter: domain.Filter{SearchQuery: "API"}, want: []string{"Deploy"}},
		{
			name:   "constraints combine",
			filter: domain.Filter{Priority: ptr.To(domain.PriorityHigh), Completed: ptr.To(false)},
			want:   []string{"Pay rent"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyFilter(tasks, tt.filter)
			assert.Equal(t, tt.want, titles(got))
		})
	}

	assert.Len(t, tasks, 3, "input is not modified")
}

func TestApplyFilter_EmptyFilterReturnsCopy(t *testing.T) {
	tasks := []domain.Task{{ID: "1", Title: "Pay rent"}, {ID: "2", Title: "Read"}}

	got := ApplyFilter(tasks, domain.Filter{})
	require.Equal(t, tasks, got)

	got[0].Title = "changed"
	assert.Equal(t, "Pay rent", tasks[0].Title)

	none := ApplyFilter(nil, domain.Filter{})
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestComputeStats(t *testing.T) {
	assert.Equal(t, domain.Stats{}, ComputeStats(nil))

	stats := ComputeStats([]domain.Task{{Completed: true}, {}, {}, {Completed: true}, {}})
	assert.Equal(t, domain.Stats{Total: 5, Completed: 2, Pending: 3}, stats)
}
