package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rezkam/taskmaster/internal/calendar"
	"github.com/rezkam/taskmaster/internal/domain"
	"github.com/rezkam/taskmaster/internal/export"
	"github.com/rezkam/taskmaster/internal/habit"
	"github.com/rezkam/taskmaster/internal/ptr"
)

var (
	errUnknownCommand = errors.New("unknown command")
	errNothingToDo    = errors.New("no fields to update, pass at least one flag")
	errBadStatus      = errors.New(`status must be "all", "pending" or "completed"`)
	errBadDarkMode    = errors.New(`dark-mode takes "on", "off" or "toggle"`)
	errCategoryExists = errors.New("category already exists")
	errNameRequired   = errors.New("a name is required")
)

type command struct {
	name    string
	usage   string
	summary string
	run     func(ctx context.Context, a *app, args []string) error
}

var commands = []command{
	{"add", "add [flags] <title>", "create a task", cmdAdd},
	{"list", "list [-category c] [-priority p] [-status s] [-q text] [-all]", "list tasks", cmdList},
	{"show", "show <id>", "show one task", cmdShow},
	{"update", "update <id> [flags]", "change fields of a task", cmdUpdate},
	{"toggle", "toggle <id>", "flip a task between pending and completed", cmdToggle},
	{"delete", "delete <id>", "delete a task", cmdDelete},
	{"clear-completed", "clear-completed", "delete every completed task", cmdClearCompleted},
	{"stats", "stats", "show task counters", cmdStats},
	{"categories", "categories", "list categories", cmdCategories},
	{"category-add", "category-add [-color #hex] <name>", "add a category", cmdCategoryAdd},
	{"dark-mode", "dark-mode [on|off|toggle]", "show or change the dark-mode preference", cmdDarkMode},
	{"habit-add", "habit-add [flags] <title> | habit-add -suggest <id>", "create a habit", cmdHabitAdd},
	{"habit-toggle", "habit-toggle <id> [-date YYYY-MM-DD]", "mark a habit done or undone for a day", cmdHabitToggle},
	{"habit-delete", "habit-delete <id>", "delete a habit", cmdHabitDelete},
	{"habits", "habits [-suggestions]", "list habits with streaks", cmdHabits},
	{"calendar", "calendar [YYYY-MM] [-year y] [-month m] [-date YYYY-MM-DD]", "show a month grid or one day", cmdCalendar},
	{"export", "export [-format json|yaml|csv|ics|pdf] [-o file]", "export all tasks", cmdExport},
	{"seed", "seed", "add sample tasks", cmdSeed},
	{"serve", "serve [-host h] [-port p]", "serve the local JSON API", cmdServe},
}

func lookup(name string) (command, bool) {
	for _, c := range commands {
		if c.name == name {
			return c, true
		}
	}
	return command{}, false
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: taskmaster <command> [arguments]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, c := range commands {
		fmt.Fprintf(w, "  %s\n        %s\n", c.usage, c.summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'taskmaster <command> -h' for the flags of a command.")
}

func newFlagSet(c string, out io.Writer) *flag.FlagSet {
	fs := flag.NewFlagSet(c, flag.ContinueOnError)
	fs.SetOutput(out)
	return fs
}

// parseArgs lets flags and positional arguments appear in any order,
// so "update 1a2b -title x" and "update -title x 1a2b" both work.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// optionalDate parses a date flag; an empty value means no date.
func optionalDate(s string) (*domain.Date, error) {
	v := ptr.NonEmpty(strings.TrimSpace(s))
	if v == nil {
		return nil, nil
	}
	d, err := domain.ParseDate(*v)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// optionalClock parses an HH:MM flag; an empty value means no time.
func optionalClock(s string) (*string, error) {
	v := ptr.NonEmpty(strings.TrimSpace(s))
	if v == nil {
		return nil, nil
	}
	c, err := domain.ParseClock(*v)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (a *app) checkCategory(name string) error {
	if !a.tasks.HasCategory(name) {
		return fmt.Errorf("%w: %q", domain.ErrUnknownCategory, name)
	}
	return nil
}

// Tasks

func cmdAdd(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("add", a.out)
	desc := fs.String("desc", "", "description")
	due := fs.String("due", "", "due date, YYYY-MM-DD")
	at := fs.String("time", "", "due time, HH:MM")
	priority := fs.String("priority", "", "low, medium or high (default medium)")
	category := fs.String("category", domain.DefaultTaskCategory, "category name")
	remind := fs.String("remind", "", "reminder time, HH:MM; enables the reminder")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}

	title, err := domain.NewTitle(strings.Join(rest, " "))
	if err != nil {
		return err
	}
	p, err := domain.NewPriority(*priority)
	if err != nil {
		return err
	}
	if err := a.checkCategory(*category); err != nil {
		return err
	}

	data := domain.NewTask{
		Title:       title.String(),
		Description: *desc,
		Priority:    p,
		Category:    *category,
	}
	if data.DueDate, err = optionalDate(*due); err != nil {
		return err
	}
	if data.DueTime, err = optionalClock(*at); err != nil {
		return err
	}
	if data.ReminderTime, err = optionalClock(*remind); err != nil {
		return err
	}
	data.ReminderEnabled = data.ReminderTime != nil

	t := a.tasks.AddTask(data)
	a.println(a.renderer().TaskLine(t, a.today()))
	return nil
}

func cmdList(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("list", a.out)
	category := fs.String("category", "", "only this category")
	priority := fs.String("priority", "", "only this priority")
	status := fs.String("status", "all", "all, pending or completed")
	query := fs.String("q", "", "search title and description")
	all := fs.Bool("all", false, "every task in creation order, ignoring filters")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	r := a.renderer()
	if *all {
		a.println(r.TaskList(a.tasks.Tasks(), a.today()))
		return nil
	}

	f := domain.Filter{SearchQuery: *query}
	if *category != "" {
		f.Category = category
	}
	if *priority != "" {
		p, err := domain.NewPriority(*priority)
		if err != nil {
			return err
		}
		f.Priority = &p
	}
	switch *status {
	case "all", "":
	case "pending":
		done := false
		f.Completed = &done
	case "completed":
		done := true
		f.Completed = &done
	default:
		return errBadStatus
	}

	a.tasks.SetFilter(f)
	a.println(r.TaskList(a.tasks.FilteredTasks(), a.today()))
	a.println(r.Stats(a.tasks.Stats()))
	return nil
}

func cmdShow(_ context.Context, a *app, args []string) error {
	id, err := a.resolveTask(args)
	if err != nil {
		return err
	}
	t, err := a.mustTask(id)
	if err != nil {
		return err
	}
	a.println(a.renderer().TaskDetail(t))
	return nil
}

func cmdUpdate(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("update", a.out)
	title := fs.String("title", "", "new title")
	desc := fs.String("desc", "", "new description; empty clears it")
	due := fs.String("due", "", "due date, YYYY-MM-DD; empty clears it")
	at := fs.String("time", "", "due time, HH:MM; empty clears it")
	priority := fs.String("priority", "", "low, medium or high")
	category := fs.String("category", "", "category name")
	done := fs.Bool("done", false, "completion state")
	remind := fs.String("remind", "", "reminder time, HH:MM; empty turns the reminder off")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	id, err := a.resolveTask(rest)
	if err != nil {
		return err
	}

	var patch domain.TaskPatch
	var visitErr error
	fs.Visit(func(f *flag.Flag) {
		if visitErr != nil {
			return
		}
		switch f.Name {
		case "title":
			t, err := domain.NewTitle(*title)
			if err != nil {
				visitErr = err
				return
			}
			v := t.String()
			patch.Title = &v
			patch.UpdateMask = append(patch.UpdateMask, domain.FieldTitle)
		case "desc":
			patch.Description = desc
			patch.UpdateMask = append(patch.UpdateMask, domain.FieldDescription)
		case "due":
			patch.DueDate, visitErr = optionalDate(*due)
			patch.UpdateMask = append(patch.UpdateMask, domain.FieldDueDate)
		case "time":
			patch.DueTime, visitErr = optionalClock(*at)
			patch.UpdateMask = append(patch.UpdateMask, domain.FieldDueTime)
		case "priority":
			p, err := domain.NewPriority(*priority)
			if err != nil {
				visitErr = err
				return
			}
			patch.Priority = &p
			patch.UpdateMask = append(patch.UpdateMask, domain.FieldPriority)
		case "category":
			if visitErr = a.checkCategory(*category); visitErr != nil {
				return
			}
			patch.Category = category
			patch.UpdateMask = append(patch.UpdateMask, domain.FieldCategory)
		case "done":
			patch.Completed = done
			patch.UpdateMask = append(patch.UpdateMask, domain.FieldCompleted)
		case "remind":
			patch.ReminderTime, visitErr = optionalClock(*remind)
			enabled := patch.ReminderTime != nil
			patch.ReminderEnabled = &enabled
			patch.UpdateMask = append(patch.UpdateMask, domain.FieldReminderTime, domain.FieldReminderEnabled)
		}
	})
	if visitErr != nil {
		return visitErr
	}
	if len(patch.UpdateMask) == 0 {
		return errNothingToDo
	}
	if err := patch.Validate(); err != nil {
		return err
	}

	t, ok := a.tasks.UpdateTask(id, patch)
	if !ok {
		return fmt.Errorf("task %s: %w", id, errNoMatch)
	}
	a.println(a.renderer().TaskLine(t, a.today()))
	return nil
}

func cmdToggle(_ context.Context, a *app, args []string) error {
	id, err := a.resolveTask(args)
	if err != nil {
		return err
	}
	t, ok := a.tasks.ToggleTask(id)
	if !ok {
		return fmt.Errorf("task %s: %w", id, errNoMatch)
	}
	a.println(a.renderer().TaskLine(t, a.today()))
	return nil
}

func cmdDelete(_ context.Context, a *app, args []string) error {
	id, err := a.resolveTask(args)
	if err != nil {
		return err
	}
	t, err := a.mustTask(id)
	if err != nil {
		return err
	}
	if !a.tasks.DeleteTask(id) {
		return fmt.Errorf("task %s: %w", id, errNoMatch)
	}
	a.printf("deleted %q\n", t.Title)
	return nil
}

func cmdClearCompleted(_ context.Context, a *app, _ []string) error {
	a.printf("removed %d completed task(s)\n", a.tasks.ClearCompleted())
	return nil
}

func cmdStats(_ context.Context, a *app, _ []string) error {
	a.println(a.renderer().Stats(a.tasks.Stats()))
	return nil
}

func cmdSeed(_ context.Context, a *app, _ []string) error {
	added := a.tasks.Seed(a.now())
	a.printf("added %d sample task(s)\n", len(added))
	return nil
}

// Settings

func cmdCategories(_ context.Context, a *app, _ []string) error {
	a.println(a.renderer().Categories(a.tasks.Categories()))
	return nil
}

func cmdCategoryAdd(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("category-add", a.out)
	color := fs.String("color", "", "display color, e.g. #ef4444")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	name := strings.TrimSpace(strings.Join(rest, " "))
	if name == "" {
		return errNameRequired
	}
	if !a.tasks.AddCategory(name, *color) {
		return fmt.Errorf("%w: %q", errCategoryExists, name)
	}
	a.printf("added category %q\n", name)
	return nil
}

func cmdDarkMode(_ context.Context, a *app, args []string) error {
	var on bool
	switch {
	case len(args) == 0:
		on = a.tasks.DarkMode()
	case args[0] == "on":
		a.tasks.SetDarkMode(true)
		on = true
	case args[0] == "off":
		a.tasks.SetDarkMode(false)
	case args[0] == "toggle":
		on = a.tasks.ToggleDarkMode()
	default:
		return errBadDarkMode
	}

	state := "off"
	if on {
		state = "on"
	}
	a.printf("dark mode %s\n", state)
	return nil
}

// Habits

func cmdHabitAdd(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("habit-add", a.out)
	suggest := fs.String("suggest", "", "adopt a suggested habit by id (see habits -suggestions)")
	desc := fs.String("desc", "", "description")
	category := fs.String("category", "", "free-form category")
	frequency := fs.String("frequency", string(habit.Daily), "daily or weekly")
	icon := fs.String("icon", "", "emoji shown next to the habit")
	color := fs.String("color", "", "display color class")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}

	var h habit.Habit
	if *suggest != "" {
		var ok bool
		if h, ok = a.habits.AddSuggested(*suggest); !ok {
			return fmt.Errorf("suggestion %q: %w", *suggest, errNoMatch)
		}
	} else {
		title, err := domain.NewTitle(strings.Join(rest, " "))
		if err != nil {
			return err
		}
		freq, err := habit.ParseFrequency(*frequency)
		if err != nil {
			return err
		}
		h = a.habits.Add(habit.NewHabit{
			Title:       title.String(),
			Description: *desc,
			Category:    *category,
			Frequency:   freq,
			Icon:        *icon,
			Color:       *color,
		})
	}

	a.println(a.renderer().Habits([]habit.Habit{h}, a.today()))
	return nil
}

func cmdHabitToggle(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("habit-toggle", a.out)
	date := fs.String("date", "", "day to toggle, YYYY-MM-DD (default today)")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	id, err := a.resolveHabit(rest)
	if err != nil {
		return err
	}

	day := a.today()
	if *date != "" {
		if day, err = domain.ParseDate(*date); err != nil {
			return err
		}
	}

	h, ok := a.habits.Toggle(id, day)
	if !ok {
		return fmt.Errorf("habit %s: %w", id, errNoMatch)
	}
	a.println(a.renderer().Habits([]habit.Habit{h}, a.today()))
	return nil
}

func cmdHabitDelete(_ context.Context, a *app, args []string) error {
	id, err := a.resolveHabit(args)
	if err != nil {
		return err
	}
	h, err := a.mustHabit(id)
	if err != nil {
		return err
	}
	if !a.habits.Delete(id) {
		return fmt.Errorf("habit %s: %w", id, errNoMatch)
	}
	a.printf("deleted habit %q\n", h.Title)
	return nil
}

func cmdHabits(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("habits", a.out)
	suggestions := fs.Bool("suggestions", false, "list suggested habits instead")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	if *suggestions {
		for _, s := range habit.Suggestions() {
			a.printf("%-16s %s %s (%s)\n", s.ID, s.Icon, s.Title, s.Frequency)
		}
		return nil
	}
	a.println(a.renderer().Habits(a.habits.List(), a.today()))
	return nil
}

// Calendar and export

func cmdCalendar(_ context.Context, a *app, args []string) error {
	today := a.today()
	fs := newFlagSet("calendar", a.out)
	year := fs.Int("year", today.Year, "year")
	month := fs.Int("month", int(today.Month), "month, 1-12")
	date := fs.String("date", "", "list the tasks due on one day instead")
	rest, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(rest) > 0 {
		y, m, err := monthArg(rest[0])
		if err != nil {
			return err
		}
		*year, *month = y, int(m)
	}

	r := a.renderer()
	if *date != "" {
		day, err := domain.ParseDate(*date)
		if err != nil {
			return err
		}
		a.println(r.TaskList(calendar.TasksForDate(a.tasks.Tasks(), day), today))
		return nil
	}

	if *month < 1 || *month > 12 {
		return fmt.Errorf("invalid month %d", *month)
	}
	a.println(r.Month(calendar.Month(a.tasks.Tasks(), *year, time.Month(*month), today)))
	return nil
}

func cmdExport(_ context.Context, a *app, args []string) error {
	fs := newFlagSet("export", a.out)
	name := fs.String("format", string(export.FormatJSON), "json, yaml, csv, ics or pdf")
	path := fs.String("o", "", "output file (default stdout)")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	format, err := export.ParseFormat(*name)
	if err != nil {
		return err
	}

	if *path == "" {
		return export.Write(a.out, format, a.tasks.Tasks(), a.now())
	}

	f, err := os.Create(*path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", *path, err)
	}
	if err := export.Write(f, format, a.tasks.Tasks(), a.now()); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", *path, err)
	}

	a.printf("exported %d task(s) to %s\n", len(a.tasks.Tasks()), *path)
	return nil
}

// monthArg parses the optional YYYY-MM argument of calendar.
func monthArg(s string) (int, time.Month, error) {
	y, m, ok := strings.Cut(s, "-")
	if !ok {
		return 0, 0, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	year, err := strconv.Atoi(y)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	month, err := strconv.Atoi(m)
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month %q, expected YYYY-MM", s)
	}
	return year, time.Month(month), nil
}
