// Package calendar lays tasks out by due date: the tasks of a single day,
// a month grid, and an iCalendar feed.
package calendar

import (
	"time"

	"github.com/rezkam/taskmaster/internal/domain"
)

// Day is one cell of a month grid.
type Day struct {
	Date    domain.Date   `json:"date"`
	InMonth bool          `json:"inMonth"`
	IsToday bool          `json:"isToday"`
	Tasks   []domain.Task `json:"tasks"`
}

// Week is seven consecutive days starting on Sunday.
type Week [7]Day

// MonthView is the grid for one month, padded to whole weeks.
type MonthView struct {
	Year  int        `json:"year"`
	Month time.Month `json:"month"`
	Weeks []Week     `json:"weeks"`
}

// TasksForDate returns the tasks due on day, in input order.
func TasksForDate(tasks []domain.Task, day domain.Date) []domain.Task {
	out := []domain.Task{}
	for _, t := range tasks {
		if t.DueDate != nil && *t.DueDate == day {
			out = append(out, t.Clone())
		}
	}
	return out
}

// Month builds the grid for the given month. Leading and trailing days of
// neighbouring months fill the first and last weeks and are marked as
// outside the month.
func Month(tasks []domain.Task, year int, month time.Month, today domain.Date) MonthView {
	first := domain.NewDate(year, month, 1)
	last := domain.NewDate(year, month+1, 0)

	start := first.AddDays(-int(first.Weekday()))
	end := last.AddDays(int(time.Saturday - last.Weekday()))

	byDate := make(map[domain.Date][]domain.Task)
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		d := *t.DueDate
		if d.Before(start) || end.Before(d) {
			continue
		}
		byDate[d] = append(byDate[d], t.Clone())
	}

	view := MonthView{Year: first.Year, Month: first.Month}
	for weekStart := start; !end.Before(weekStart); weekStart = weekStart.AddDays(7) {
		var w Week
		for i := range w {
			d := weekStart.AddDays(i)
			dayTasks := byDate[d]
			if dayTasks == nil {
				dayTasks = []domain.Task{}
			}
			w[i] = Day{
				Date:    d,
				InMonth: d.Month == first.Month && d.Year == first.Year,
				IsToday: d == today,
				Tasks:   dayTasks,
			}
		}
		view.Weeks = append(view.Weeks, w)
	}
	return view
}
