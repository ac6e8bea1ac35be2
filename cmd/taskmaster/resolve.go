package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rezkam/taskmaster/internal/domain"
	"github.com/rezkam/taskmaster/internal/habit"
)

var (
	errNoMatch   = errors.New("no match")
	errAmbiguous = errors.New("ambiguous id")
	errMissingID = errors.New("an id is required")
)

// resolveID returns the id in ids equal to ref, or the only one ending in
// ref. The list view prints short suffixes, so those are accepted too.
func resolveID(ids []string, ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errMissingID
	}

	var matches []string
	for _, id := range ids {
		if id == ref {
			return id, nil
		}
		if strings.HasSuffix(id, ref) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("%w for %q", errNoMatch, ref)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("%w %q matches %d items", errAmbiguous, ref, len(matches))
	}
}

func (a *app) resolveTask(args []string) (string, error) {
	if len(args) == 0 {
		return "", errMissingID
	}
	tasks := a.tasks.Tasks()
	ids := make([]string, len(tasks))
	for i, t := range tasks {
		ids[i] = t.ID
	}
	id, err := resolveID(ids, args[0])
	if err != nil {
		return "", fmt.Errorf("task: %w", err)
	}
	return id, nil
}

func (a *app) resolveHabit(args []string) (string, error) {
	if len(args) == 0 {
		return "", errMissingID
	}
	habits := a.habits.List()
	ids := make([]string, len(habits))
	for i, h := range habits {
		ids[i] = h.ID
	}
	id, err := resolveID(ids, args[0])
	if err != nil {
		return "", fmt.Errorf("habit: %w", err)
	}
	return id, nil
}

// mustTask fetches a resolved task. The id came from the store, so a miss
// means it was removed concurrently.
func (a *app) mustTask(id string) (domain.Task, error) {
	t, ok := a.tasks.Task(id)
	if !ok {
		return domain.Task{}, fmt.Errorf("task %s: %w", id, errNoMatch)
	}
	return t, nil
}

func (a *app) mustHabit(id string) (habit.Habit, error) {
	h, ok := a.habits.Habit(id)
	if !ok {
		return habit.Habit{}, fmt.Errorf("habit %s: %w", id, errNoMatch)
	}
	return h, nil
}
