// Package habit tracks recurring habits and derives streaks and completion
// rates from the days on which they were done.
package habit

import (
	"errors"
	"math"
	"slices"
	"time"

	"github.com/rezkam/taskmaster/internal/domain"
)

// ErrInvalidFrequency indicates a frequency other than daily or weekly.
var ErrInvalidFrequency = errors.New("frequency must be daily or weekly")

// Frequency is how often a habit is meant to be done.
type Frequency string

const (
	Daily  Frequency = "daily"
	Weekly Frequency = "weekly"
)

// ParseFrequency accepts "daily" or "weekly"; empty means daily.
func ParseFrequency(s string) (Frequency, error) {
	switch Frequency(s) {
	case "", Daily:
		return Daily, nil
	case Weekly:
		return Weekly, nil
	default:
		return "", ErrInvalidFrequency
	}
}

// Defaults applied to habits created without presentation metadata.
const (
	DefaultCategory = "Productivity"
	DefaultIcon     = "🎯"
	DefaultColor    = "bg-gray-500"
)

// rateWindowDays is the window CompletionRate looks back over, today included.
const rateWindowDays = 7

// Habit is a recurring activity. Completion is recorded per calendar day;
// streaks are always derived from CompletedDates.
type Habit struct {
	ID             string        `json:"id" yaml:"id"`
	Title          string        `json:"title" yaml:"title"`
	Description    string        `json:"description" yaml:"description"`
	Category       string        `json:"category" yaml:"category"`
	Frequency      Frequency     `json:"frequency" yaml:"frequency"`
	CompletedDates []domain.Date `json:"completedDates" yaml:"completedDates"`
	Icon           string        `json:"icon" yaml:"icon"`
	Color          string        `json:"color" yaml:"color"`
	CreatedAt      time.Time     `json:"createdAt" yaml:"createdAt"`
}

// Clone returns a copy that shares no slices with h.
func (h Habit) Clone() Habit {
	h.CompletedDates = slices.Clone(h.CompletedDates)
	return h
}

// CompletedOn reports whether the habit was done on day.
func (h Habit) CompletedOn(day domain.Date) bool {
	return slices.Contains(h.CompletedDates, day)
}

// NewHabit carries the caller-supplied fields of a habit being created.
type NewHabit struct {
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category,omitempty"`
	Frequency   Frequency `json:"frequency,omitempty"`
	Icon        string    `json:"icon,omitempty"`
	Color       string    `json:"color,omitempty"`
}

// Stats summarizes all habits for a given day.
type Stats struct {
	Total          int `json:"total"`
	CompletedToday int `json:"completedToday"`
	AverageStreak  int `json:"averageStreak"`
}

// Streak returns the current run of completions ending at today.
//
// Daily habits count consecutive completed days ending today, or ending
// yesterday when today is not done yet. Weekly habits count consecutive
// ISO weeks with at least one completion, with the same grace for the
// current week.
func Streak(h Habit, today domain.Date) int {
	if h.Frequency == Weekly {
		return weeklyStreak(h, today)
	}
	return dailyStreak(h, today)
}

func dailyStreak(h Habit, today domain.Date) int {
	done := make(map[domain.Date]bool, len(h.CompletedDates))
	for _, d := range h.CompletedDates {
		done[d] = true
	}

	day := today
	if !done[day] {
		day = day.AddDays(-1)
	}
	n := 0
	for done[day] {
		n++
		day = day.AddDays(-1)
	}
	return n
}

type isoWeek struct{ year, week int }

func weekOf(d domain.Date) isoWeek {
	y, w := d.In(time.UTC).ISOWeek()
	return isoWeek{y, w}
}

func weeklyStreak(h Habit, today domain.Date) int {
	done := make(map[isoWeek]bool, len(h.CompletedDates))
	for _, d := range h.CompletedDates {
		done[weekOf(d)] = true
	}

	day := today
	if !done[weekOf(day)] {
		day = day.AddDays(-7)
	}
	n := 0
	for done[weekOf(day)] {
		n++
		day = day.AddDays(-7)
	}
	return n
}

// CompletionRate returns the percentage of the last seven days, today
// included, on which the habit was done.
func CompletionRate(h Habit, today domain.Date) float64 {
	n := 0
	for i := range rateWindowDays {
		if h.CompletedOn(today.AddDays(-i)) {
			n++
		}
	}
	return float64(n) / rateWindowDays * 100
}

// ComputeStats summarizes habits for today.
func ComputeStats(habits []Habit, today domain.Date) Stats {
	s := Stats{Total: len(habits)}
	if len(habits) == 0 {
		return s
	}

	sum := 0
	for _, h := range habits {
		if h.CompletedOn(today) {
			s.CompletedToday++
		}
		sum += Streak(h, today)
	}
	s.AverageStreak = int(math.Round(float64(sum) / float64(len(habits))))
	return s
}
