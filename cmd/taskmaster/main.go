// Command taskmaster manages tasks, habits and settings from the terminal
// and can serve them to a browser UI over a local JSON API.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rezkam/taskmaster/internal/config"
	"github.com/rezkam/taskmaster/internal/observability"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "taskmaster: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) (err error) {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage(out)
		return nil
	}
	cmd, ok := lookup(args[0])
	if !ok {
		printUsage(os.Stderr)
		return fmt.Errorf("%w: %s", errUnknownCommand, args[0])
	}

	// A .env file is optional; real environment variables win over it.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read .env: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	providers, err := observability.Init(ctx, observability.Config{
		ServiceName: cfg.Observability.ServiceName,
		Enabled:     cfg.Observability.OTelEnabled,
		Level:       cfg.Observability.SlogLevel(),
	})
	if err != nil {
		return fmt.Errorf("failed to init observability: %w", err)
	}
	defer func() {
		// Bounded so an unreachable collector cannot hang exit.
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "failed to shutdown telemetry", "error", err)
		}
	}()
	slog.SetDefault(providers.Logger)

	a, err := openApp(ctx, cfg, out)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), cfg.Persistence.WriteTimeout+time.Second)
		defer cancel()
		if closeErr := a.close(closeCtx); closeErr != nil {
			err = errors.Join(err, fmt.Errorf("failed to save: %w", closeErr))
		}
	}()

	err = cmd.run(ctx, a, args[1:])
	if errors.Is(err, flag.ErrHelp) {
		return nil
	}
	return err
}
