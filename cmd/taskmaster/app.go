package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/rezkam/taskmaster/internal/config"
	"github.com/rezkam/taskmaster/internal/domain"
	"github.com/rezkam/taskmaster/internal/habit"
	"github.com/rezkam/taskmaster/internal/kv"
	"github.com/rezkam/taskmaster/internal/render"
	"github.com/rezkam/taskmaster/internal/storage"
	"github.com/rezkam/taskmaster/internal/taskstore"
)

// app is the state every command runs against.
type app struct {
	cfg    *config.Config
	tasks  *taskstore.Store
	habits *habit.Tracker
	out    io.Writer
	now    func() time.Time

	// closers run in order on shutdown; the writer flushes before the
	// backend it writes to is closed.
	closers []func(context.Context) error
}

// openApp connects the configured backend, puts a batch writer in front of
// it and loads tasks, settings and habits.
func openApp(ctx context.Context, cfg *config.Config, out io.Writer) (*app, error) {
	backend, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, err
	}

	writer := kv.NewBatchWriter(backend,
		kv.WithFlushInterval(cfg.Persistence.FlushInterval),
		kv.WithWriteTimeout(cfg.Persistence.WriteTimeout),
		kv.WithLogger(slog.Default()),
	)

	a := newApp(backend, writer, out, time.Now)
	a.cfg = cfg
	a.closers = []func(context.Context) error{
		writer.Close,
		func(context.Context) error { return backend.Close() },
	}

	if err := a.load(ctx); err != nil {
		_ = a.close(ctx)
		return nil, err
	}

	slog.DebugContext(ctx, "taskmaster ready", "storage", cfg.Storage.Type)
	return a, nil
}

// newApp builds an app over an already open source and sink.
func newApp(source kv.Source, sink kv.Sink, out io.Writer, now func() time.Time) *app {
	return &app{
		cfg:    &config.Config{},
		tasks:  taskstore.New(source, sink, taskstore.WithClock(now)),
		habits: habit.NewTracker(source, sink, habit.WithClock(now)),
		out:    out,
		now:    now,
	}
}

func (a *app) load(ctx context.Context) error {
	if err := a.tasks.Load(ctx); err != nil {
		return fmt.Errorf("failed to load tasks: %w", err)
	}
	if err := a.habits.Load(ctx); err != nil {
		return fmt.Errorf("failed to load habits: %w", err)
	}
	return nil
}

// close flushes pending writes and closes the backend.
func (a *app) close(ctx context.Context) error {
	var errs []error
	for _, c := range a.closers {
		if err := c(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (a *app) today() domain.Date {
	return domain.DateOf(a.now())
}

func (a *app) renderer() *render.Renderer {
	return render.New(a.tasks.DarkMode(), a.tasks.Categories())
}

func (a *app) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *app) println(s string) {
	fmt.Fprintln(a.out, s)
}
