// Package render formats tasks, stats, habits and the calendar for the terminal.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rezkam/taskmaster/internal/calendar"
	"github.com/rezkam/taskmaster/internal/domain"
	"github.com/rezkam/taskmaster/internal/habit"
)

type palette struct {
	text, muted, accent, border string
	high, medium, low           string
	done                        string
}

var (
	lightPalette = palette{
		text: "#1F2937", muted: "#6B7280", accent: "#4F46E5", border: "#D1D5DB",
		high: "#DC2626", medium: "#D97706", low: "#059669", done: "#9CA3AF",
	}
	darkPalette = palette{
		text: "#F3F4F6", muted: "#9CA3AF", accent: "#818CF8", border: "#374151",
		high: "#F87171", medium: "#FBBF24", low: "#34D399", done: "#6B7280",
	}
)

// Renderer holds the styles for one color scheme.
type Renderer struct {
	p          palette
	categories map[string]string

	title   lipgloss.Style
	text    lipgloss.Style
	muted   lipgloss.Style
	done    lipgloss.Style
	heading lipgloss.Style
	box     lipgloss.Style
}

// New creates a renderer for the dark or light scheme. Category colors are
// used for category badges.
func New(dark bool, categories []domain.Category) *Renderer {
	p := lightPalette
	if dark {
		p = darkPalette
	}

	colors := make(map[string]string, len(categories))
	for _, c := range categories {
		colors[c.Name] = c.Color
	}

	return &Renderer{
		p:          p,
		categories: colors,
		title:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.accent)),
		text:       lipgloss.NewStyle().Foreground(lipgloss.Color(p.text)),
		muted:      lipgloss.NewStyle().Foreground(lipgloss.Color(p.muted)),
		done:       lipgloss.NewStyle().Strikethrough(true).Foreground(lipgloss.Color(p.done)),
		heading:    lipgloss.NewStyle().Bold(true).Underline(true).Foreground(lipgloss.Color(p.text)),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(p.border)).
			Padding(0, 1),
	}
}

func (r *Renderer) priority(p domain.Priority) string {
	color := r.p.medium
	switch p {
	case domain.PriorityHigh:
		color = r.p.high
	case domain.PriorityLow:
		color = r.p.low
	}
	return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Render(fmt.Sprintf("%-6s", p))
}

func (r *Renderer) category(name string) string {
	color, ok := r.categories[name]
	if !ok {
		color = domain.DefaultCategoryColor
	}
	return lipgloss.NewStyle().Foreground(lipgloss.Color(color)).Render("#" + name)
}

// TaskLine renders one task on a single line.
func (r *Renderer) TaskLine(t domain.Task, today domain.Date) string {
	mark := "[ ]"
	title := r.text.Render(t.Title)
	if t.Completed {
		mark = "[x]"
		title = r.done.Render(t.Title)
	}

	parts := []string{r.muted.Render(mark), r.priority(t.Priority), title, r.category(t.Category)}
	if t.DueDate != nil {
		due := "due " + t.DueDate.String()
		if t.DueTime != nil {
			due += " " + *t.DueTime
		}
		style := r.muted
		if !t.Completed && t.DueDate.Before(today) {
			due += " (overdue)"
			style = lipgloss.NewStyle().Foreground(lipgloss.Color(r.p.high))
		}
		parts = append(parts, style.Render(due))
	}
	if t.ReminderEnabled && t.ReminderTime != nil {
		parts = append(parts, r.muted.Render("⏰ "+*t.ReminderTime))
	}
	parts = append(parts, r.muted.Render(shortID(t.ID)))
	return strings.Join(parts, " ")
}

// TaskList renders tasks in the given order, one per line.
func (r *Renderer) TaskList(tasks []domain.Task, today domain.Date) string {
	if len(tasks) == 0 {
		return r.muted.Render("No tasks found.")
	}
	lines := make([]string, len(tasks))
	for i, t := range tasks {
		lines[i] = r.TaskLine(t, today)
	}
	return strings.Join(lines, "\n")
}

// TaskDetail renders every field of a task in a box.
func (r *Renderer) TaskDetail(t domain.Task) string {
	rows := [][2]string{
		{"ID", t.ID},
		{"Priority", string(t.Priority)},
		{"Category", t.Category},
		{"Completed", fmt.Sprint(t.Completed)},
		{"Created", t.CreatedAt.Format("2006-01-02 15:04")},
	}
	if t.Description != "" {
		rows = append(rows, [2]string{"Description", t.Description})
	}
	if t.DueDate != nil {
		rows = append(rows, [2]string{"Due date", t.DueDate.String()})
	}
	if t.DueTime != nil {
		rows = append(rows, [2]string{"Due time", *t.DueTime})
	}
	if t.CompletedAt != nil {
		rows = append(rows, [2]string{"Completed at", t.CompletedAt.Format("2006-01-02 15:04")})
	}
	if t.ReminderEnabled && t.ReminderTime != nil {
		rows = append(rows, [2]string{"Reminder", *t.ReminderTime})
	}

	lines := []string{r.title.Render(t.Title)}
	for _, row := range rows {
		lines = append(lines, r.muted.Render(fmt.Sprintf("%-13s", row[0]))+r.text.Render(row[1]))
	}
	return r.box.Render(strings.Join(lines, "\n"))
}

// Stats renders the task counters.
func (r *Renderer) Stats(s domain.Stats) string {
	return r.box.Render(lipgloss.JoinHorizontal(lipgloss.Top,
		r.stat("Total", s.Total), "   ",
		r.stat("Completed", s.Completed), "   ",
		r.stat("Pending", s.Pending)))
}

func (r *Renderer) stat(label string, n int) string {
	return lipgloss.JoinVertical(lipgloss.Left, r.muted.Render(label), r.title.Render(fmt.Sprint(n)))
}

// Categories renders the known categories.
func (r *Renderer) Categories(categories []domain.Category) string {
	lines := make([]string, len(categories))
	for i, c := range categories {
		line := r.category(c.Name) + " " + r.muted.Render(c.Color)
		if c.IsDefault {
			line += r.muted.Render(" (default)")
		}
		lines[i] = line
	}
	return strings.Join(lines, "\n")
}

// Habits renders habits with their streak and 7-day completion rate.
func (r *Renderer) Habits(habits []habit.Habit, today domain.Date) string {
	if len(habits) == 0 {
		return r.muted.Render("No habits yet.")
	}

	lines := make([]string, 0, len(habits)+2)
	for _, h := range habits {
		mark := "[ ]"
		if h.CompletedOn(today) {
			mark = "[x]"
		}
		unit := "day"
		if h.Frequency == habit.Weekly {
			unit = "week"
		}
		lines = append(lines, strings.Join([]string{
			r.muted.Render(mark),
			h.Icon,
			r.text.Render(h.Title),
			r.muted.Render(fmt.Sprintf("%d %s streak", habit.Streak(h, today), unit)),
			r.muted.Render(fmt.Sprintf("%.0f%% this week", habit.CompletionRate(h, today))),
			r.muted.Render(shortID(h.ID)),
		}, " "))
	}

	s := habit.ComputeStats(habits, today)
	lines = append(lines, "", r.muted.Render(fmt.Sprintf(
		"%d habits, %d done today, average streak %d", s.Total, s.CompletedToday, s.AverageStreak)))
	return strings.Join(lines, "\n")
}

// Month renders a month grid with the number of tasks due each day.
func (r *Renderer) Month(view calendar.MonthView) string {
	var b strings.Builder
	b.WriteString(r.heading.Render(fmt.Sprintf("%s %d", view.Month, view.Year)))
	b.WriteString("\n")
	b.WriteString(r.muted.Render(" Su   Mo   Tu   We   Th   Fr   Sa"))

	for _, w := range view.Weeks {
		b.WriteString("\n")
		cells := make([]string, len(w))
		for i, d := range w {
			cell := fmt.Sprintf("%3d", d.Date.Day)
			if n := len(d.Tasks); n > 0 {
				cell += fmt.Sprintf("%-2s", fmt.Sprintf("·%d", n))
			} else {
				cell += "  "
			}
			style := r.text
			switch {
			case d.IsToday:
				style = r.title.Reverse(true)
			case !d.InMonth:
				style = r.muted
			}
			cells[i] = style.Render(cell)
		}
		b.WriteString(strings.Join(cells, ""))
	}
	return b.String()
}

// shortID abbreviates ids for display. UUIDv7 ids share their leading
// timestamp bits, so the tail is shown; the CLI accepts unique suffixes.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[len(id)-8:]
}
