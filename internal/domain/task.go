package domain

import (
	"slices"
	"time"
)

// Task is a single user-tracked to-do item.
//
// CompletedAt is non-nil if and only if Completed is true. The task store
// maintains that invariant; callers never set either field directly.
type Task struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	DueDate     *Date    `json:"dueDate,omitempty" yaml:"dueDate,omitempty"`
	DueTime     *string  `json:"dueTime,omitempty" yaml:"dueTime,omitempty"`
	Priority    Priority `json:"priority" yaml:"priority"`
	Category    string   `json:"category" yaml:"category"`
	Completed   bool     `json:"completed" yaml:"completed"`

	CreatedAt   time.Time  `json:"createdAt" yaml:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt" yaml:"updatedAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty" yaml:"completedAt,omitempty"`

	// Reminder metadata is informational; nothing schedules notifications.
	ReminderEnabled bool    `json:"reminderEnabled" yaml:"reminderEnabled"`
	ReminderTime    *string `json:"reminderTime,omitempty" yaml:"reminderTime,omitempty"`
}

// Clone returns a deep copy so callers cannot alias store-owned pointers.
func (t Task) Clone() Task {
	c := t
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.DueTime != nil {
		s := *t.DueTime
		c.DueTime = &s
	}
	if t.CompletedAt != nil {
		ts := *t.CompletedAt
		c.CompletedAt = &ts
	}
	if t.ReminderTime != nil {
		s := *t.ReminderTime
		c.ReminderTime = &s
	}
	return c
}

// CloneTasks deep-copies a slice of tasks.
func CloneTasks(tasks []Task) []Task {
	out := make([]Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// SetCompleted moves the task to the given completion state, stamping or
// clearing CompletedAt. It reports whether the state changed.
func (t *Task) SetCompleted(completed bool, now time.Time) bool {
	if t.Completed == completed {
		return false
	}
	t.Completed = completed
	if completed {
		t.CompletedAt = &now
	} else {
		t.CompletedAt = nil
	}
	return true
}

// NewTask carries the caller-supplied fields of a task being created.
// The store assigns ID, timestamps and the completion state.
type NewTask struct {
	Title           string
	Description     string
	DueDate         *Date
	DueTime         *string
	Priority        Priority
	Category        string
	ReminderEnabled bool
	ReminderTime    *string
}

// Stats aggregates counts over the unfiltered task list.
// Total always equals Completed + Pending.
type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

// ContainsID reports whether any task in tasks has the given id.
func ContainsID(tasks []Task, id string) bool {
	return slices.ContainsFunc(tasks, func(t Task) bool { return t.ID == id })
}
