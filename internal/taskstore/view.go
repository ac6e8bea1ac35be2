package taskstore

import (
	"cmp"
	"slices"

	"github.com/rezkam/taskmaster/internal/domain"
)

// ApplyFilter returns the tasks matching every constraint of f, in input order.
// The input slice is not modified.
func ApplyFilter(tasks []domain.Task, f domain.Filter) []domain.Task {
	out := make([]domain.Task, 0, len(tasks))
	if f.IsEmpty() {
		return append(out, tasks...)
	}
	for _, t := range tasks {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	return out
}

// SortTasks orders tasks in place for presentation:
// incomplete before completed, higher priority first, dated before undated,
// earlier due date first, and newer tasks first among undated ones.
// The sort is stable so tasks with equal keys keep insertion order.
func SortTasks(tasks []domain.Task) {
	slices.SortStableFunc(tasks, compareTasks)
}

func compareTasks(a, b domain.Task) int {
	if a.Completed != b.Completed {
		if a.Completed {
			return 1
		}
		return -1
	}

	if c := cmp.Compare(b.Priority.Rank(), a.Priority.Rank()); c != 0 {
		return c
	}

	switch {
	case a.DueDate != nil && b.DueDate == nil:
		return -1
	case a.DueDate == nil && b.DueDate != nil:
		return 1
	case a.DueDate != nil && b.DueDate != nil:
		return a.DueDate.Compare(*b.DueDate)
	}

	return b.CreatedAt.Compare(a.CreatedAt)
}

// ComputeStats counts tasks by completion state.
func ComputeStats(tasks []domain.Task) domain.Stats {
	var s domain.Stats
	for _, t := range tasks {
		if t.Completed {
			s.Completed++
		}
	}
	s.Total = len(tasks)
	s.Pending = s.Total - s.Completed
	return s
}
