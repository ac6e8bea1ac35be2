package domain

import (
	"fmt"
	"time"
)

// Field names accepted in TaskPatch.UpdateMask.
const (
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldDueDate         = "due_date"
	FieldDueTime         = "due_time"
	FieldPriority        = "priority"
	FieldCategory        = "category"
	FieldCompleted       = "completed"
	FieldReminderEnabled = "reminder_enabled"
	FieldReminderTime    = "reminder_time"
)

// Valid fields for TaskPatch. The value reports whether the field is
// required, i.e. cannot be cleared by a nil value.
var taskPatchFields = map[string]bool{
	FieldTitle:           true,
	FieldDescription:     false,
	FieldDueDate:         false,
	FieldDueTime:         false,
	FieldPriority:        true,
	FieldCategory:        true,
	FieldCompleted:       true,
	FieldReminderEnabled: true,
	FieldReminderTime:    false,
}

// TaskPatch is a partial update of a task.
// Only fields named in UpdateMask are touched. Optional fields named in the
// mask with a nil value are cleared.
type TaskPatch struct {
	UpdateMask []string

	Title           *string
	Description     *string
	DueDate         *Date
	DueTime         *string
	Priority        *Priority
	Category        *string
	Completed       *bool
	ReminderEnabled *bool
	ReminderTime    *string
}

// Validate checks that UpdateMask contains only known fields and that
// required fields have non-nil values when included in the mask.
func (p TaskPatch) Validate() error {
	if len(p.UpdateMask) == 0 {
		return ErrEmptyUpdateMask
	}

	for _, field := range p.UpdateMask {
		required, ok := taskPatchFields[field]
		if !ok {
			return fmt.Errorf("%w: %s", ErrUnknownField, field)
		}
		if required && p.isNil(field) {
			return fmt.Errorf("%w: %s", ErrFieldRequired, field)
		}
	}

	return nil
}

// Has reports whether field is named in the mask.
func (p TaskPatch) Has(field string) bool {
	for _, f := range p.UpdateMask {
		if f == field {
			return true
		}
	}
	return false
}

func (p TaskPatch) isNil(field string) bool {
	switch field {
	case FieldTitle:
		return p.Title == nil
	case FieldPriority:
		return p.Priority == nil
	case FieldCategory:
		return p.Category == nil
	case FieldCompleted:
		return p.Completed == nil
	case FieldReminderEnabled:
		return p.ReminderEnabled == nil
	}
	return false
}

// Apply copies the masked fields onto t. The patch must be valid.
// Completion changes go through SetCompleted so CompletedAt stays consistent.
func (p TaskPatch) Apply(t *Task, now time.Time) {
	for _, field := range p.UpdateMask {
		switch field {
		case FieldTitle:
			t.Title = *p.Title
		case FieldDescription:
			if p.Description == nil {
				t.Description = ""
			} else {
				t.Description = *p.Description
			}
		case FieldDueDate:
			t.DueDate = copyPtr(p.DueDate)
		case FieldDueTime:
			t.DueTime = copyPtr(p.DueTime)
		case FieldPriority:
			t.Priority = *p.Priority
		case FieldCategory:
			t.Category = *p.Category
		case FieldCompleted:
			t.SetCompleted(*p.Completed, now)
		case FieldReminderEnabled:
			t.ReminderEnabled = *p.ReminderEnabled
		case FieldReminderTime:
			t.ReminderTime = copyPtr(p.ReminderTime)
		}
	}
	t.UpdatedAt = now
}

func copyPtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
