package calendar

import (
	"fmt"
	"strings"
	"time"

	"github.com/rezkam/taskmaster/internal/domain"
)

const (
	icsDateLayout      = "20060102"
	icsLocalTimeLayout = "20060102T150405"
	icsUTCLayout       = "20060102T150405Z"

	// timedEventLength is the duration given to tasks that have a due time.
	timedEventLength = time.Hour

	icsMaxLineOctets = 75
)

// BuildICS renders one VEVENT per task with a due date. Tasks without a due
// time become all-day events; tasks with a reminder get a display alarm.
// Times are interpreted in loc.
func BuildICS(tasks []domain.Task, now time.Time, loc *time.Location) string {
	lines := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//TaskMaster//Task Export//EN",
		"CALSCALE:GREGORIAN",
		"METHOD:PUBLISH",
	}

	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		lines = append(lines, eventLines(t, now, loc)...)
	}

	lines = append(lines, "END:VCALENDAR")

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(foldLine(l))
		b.WriteString("\r\n")
	}
	return b.String()
}

func eventLines(t domain.Task, now time.Time, loc *time.Location) []string {
	day := *t.DueDate
	start, timed := atClock(day, t.DueTime, loc)

	lines := []string{
		"BEGIN:VEVENT",
		"UID:" + escapeText(fmt.Sprintf("task-%s@taskmaster", t.ID)),
		"DTSTAMP:" + now.UTC().Format(icsUTCLayout),
		"SUMMARY:" + escapeText(t.Title),
	}
	if timed {
		lines = append(lines,
			"DTSTART:"+start.Format(icsLocalTimeLayout),
			"DTEND:"+start.Add(timedEventLength).Format(icsLocalTimeLayout))
	} else {
		lines = append(lines,
			"DTSTART;VALUE=DATE:"+day.In(loc).Format(icsDateLayout),
			"DTEND;VALUE=DATE:"+day.AddDays(1).In(loc).Format(icsDateLayout))
	}
	if desc := strings.TrimSpace(t.Description); desc != "" {
		lines = append(lines, "DESCRIPTION:"+escapeText(desc))
	}
	if t.Category != "" {
		lines = append(lines, "CATEGORIES:"+escapeText(t.Category))
	}
	lines = append(lines, fmt.Sprintf("PRIORITY:%d", icsPriority(t.Priority)))

	if alarm, ok := reminderAt(t, day, loc); ok {
		lines = append(lines,
			"BEGIN:VALARM",
			"ACTION:DISPLAY",
			"DESCRIPTION:"+escapeText(t.Title),
			"TRIGGER;VALUE=DATE-TIME:"+alarm.UTC().Format(icsUTCLayout),
			"END:VALARM")
	}

	return append(lines, "END:VEVENT")
}

func reminderAt(t domain.Task, day domain.Date, loc *time.Location) (time.Time, bool) {
	if !t.ReminderEnabled {
		return time.Time{}, false
	}
	return atClock(day, t.ReminderTime, loc)
}

// atClock combines a date with an optional "HH:MM". It reports false, and
// returns midnight, when the clock is absent or malformed.
func atClock(day domain.Date, clock *string, loc *time.Location) (time.Time, bool) {
	if clock == nil {
		return day.In(loc), false
	}
	c, err := time.Parse("15:04", *clock)
	if err != nil {
		return day.In(loc), false
	}
	return time.Date(day.Year, day.Month, day.Day, c.Hour(), c.Minute(), 0, 0, loc), true
}

// icsPriority maps to the RFC 5545 scale where 1 is highest.
func icsPriority(p domain.Priority) int {
	switch p {
	case domain.PriorityHigh:
		return 1
	case domain.PriorityLow:
		return 9
	default:
		return 5
	}
}

func escapeText(s string) string {
	repl := strings.NewReplacer(
		"\\", "\\\\",
		";", "\\;",
		",", "\\,",
		"\r\n", "\\n",
		"\n", "\\n",
		"\r", "\\n",
	)
	return repl.Replace(s)
}

// foldLine splits content lines longer than 75 octets, continuing with a
// leading space. Splits never land inside a UTF-8 sequence.
func foldLine(line string) string {
	if len(line) <= icsMaxLineOctets {
		return line
	}

	var b strings.Builder
	limit := icsMaxLineOctets
	n := 0
	for _, r := range line {
		size := len(string(r))
		if n+size > limit {
			b.WriteString("\r\n ")
			n = 0
			// Continuation lines lose one octet to the leading space.
			limit = icsMaxLineOctets - 1
		}
		b.WriteRune(r)
		n += size
	}
	return b.String()
}
