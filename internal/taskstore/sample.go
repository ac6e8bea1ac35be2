package taskstore

import (
	"time"

	"github.com/rezkam/taskmaster/internal/domain"
	"github.com/rezkam/taskmaster/internal/ptr"
)

// SampleTasks returns a demo task list with due dates relative to now.
func SampleTasks(now time.Time) []domain.NewTask {
	today := domain.DateOf(now)
	day := func(offset int) *domain.Date {
		d := today.AddDays(offset)
		return &d
	}

	return []domain.NewTask{
		{
			Title:           "Complete quarterly report",
			Description:     "Finalize Q4 financial analysis and prepare presentation for board meeting",
			DueDate:         day(1),
			DueTime:         ptr.To("14:00"),
			Priority:        domain.PriorityHigh,
			Category:        "Work",
			ReminderEnabled: true,
			ReminderTime:    ptr.To("13:00"),
		},
		{
			Title:           "Buy groceries",
			Description:     "Milk, bread, eggs, vegetables for the week",
			DueDate:         day(0),
			DueTime:         ptr.To("18:00"),
			Priority:        domain.PriorityMedium,
			Category:        "Personal",
			ReminderEnabled: true,
			ReminderTime:    ptr.To("17:30"),
		},
		{
			Title:       "Review Go release notes",
			Description: "Read up on the iterator and range-over-func changes",
			DueDate:     day(3),
			Priority:    domain.PriorityMedium,
			Category:    "Study",
		},
		{
			Title:           "Morning workout",
			Description:     "30 minutes cardio and strength training",
			DueDate:         day(0),
			DueTime:         ptr.To("07:00"),
			Priority:        domain.PriorityLow,
			Category:        "Personal",
			ReminderEnabled: true,
			ReminderTime:    ptr.To("06:45"),
		},
		{
			Title:           "Team standup meeting",
			Description:     "Daily scrum with development team",
			DueDate:         day(0),
			DueTime:         ptr.To("10:00"),
			Priority:        domain.PriorityHigh,
			Category:        "Work",
			ReminderEnabled: true,
			ReminderTime:    ptr.To("09:55"),
		},
		{
			Title:       "Read the Go memory model",
			Description: "Happens-before rules and the sync/atomic guarantees",
			DueDate:     day(7),
			Priority:    domain.PriorityLow,
			Category:    "Study",
		},
		{
			Title:       "Call dentist appointment",
			Description: "Schedule routine cleaning for next month",
			Priority:    domain.PriorityMedium,
			Category:    "Personal",
		},
		{
			Title:           "Code review for new feature",
			Description:     "Review authentication system implementation by team member",
			DueDate:         day(-1),
			DueTime:         ptr.To("16:00"),
			Priority:        domain.PriorityHigh,
			Category:        "Work",
			ReminderEnabled: true,
			ReminderTime:    ptr.To("15:30"),
		},
	}
}
