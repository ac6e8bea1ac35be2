package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	taskhttp "github.com/rezkam/taskmaster/internal/http"
	"github.com/rezkam/taskmaster/internal/http/handler"
)

const defaultShutdownTimeout = 10 * time.Second

// cmdServe runs the local JSON API until the context is cancelled
// (SIGINT/SIGTERM in main).
func cmdServe(ctx context.Context, a *app, args []string) error {
	cfg := a.cfg.HTTP
	fs := newFlagSet("serve", a.out)
	fs.StringVar(&cfg.Host, "host", cfg.Host, "listen host")
	fs.StringVar(&cfg.Port, "port", cfg.Port, "listen port")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}

	srv := taskhttp.NewAPIServer(handler.NewServer(a.tasks, a.habits, handler.WithClock(a.now)), cfg)

	errResult := make(chan error, 1)
	go func() {
		errResult <- srv.Start()
	}()
	a.printf("serving on http://%s\n", srv.Addr())

	select {
	case <-ctx.Done():
		timeout := cfg.ShutdownTimeout
		if timeout <= 0 {
			timeout = defaultShutdownTimeout
		}
		// Fresh context: ctx is already cancelled.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
		slog.InfoContext(shutdownCtx, "HTTP server shutdown complete")
		return nil
	case err := <-errResult:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("failed to serve: %w", err)
	}
}
