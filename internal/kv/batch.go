package kv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/rezkam/taskmaster/internal/kv"

// Default configuration values for BatchWriter.
const (
	DefaultFlushInterval = 250 * time.Millisecond
	DefaultWriteTimeout  = 5 * time.Second
)

// BatchWriter decouples state mutations from backend writes.
//
// Set records the latest value per key and schedules a flush at most
// interval after the first unflushed write, so a burst of mutations costs one
// backend write per key. Writes are fire-and-forget: failures are logged and
// counted, not retried.
type BatchWriter struct {
	store    Store
	interval time.Duration
	timeout  time.Duration
	logger   *slog.Logger

	mu      sync.Mutex
	pending map[string]string
	timer   *time.Timer
	closed  bool

	// writeMu serializes flushes so the newest value of a key lands last.
	writeMu sync.Mutex

	tracer   trace.Tracer
	writes   metric.Int64Counter
	duration metric.Float64Histogram
}

var _ Sink = (*BatchWriter)(nil)

// BatchOption configures a BatchWriter.
type BatchOption func(*BatchWriter)

// WithFlushInterval sets the batching window. Zero or negative writes synchronously.
func WithFlushInterval(d time.Duration) BatchOption {
	return func(w *BatchWriter) { w.interval = d }
}

// WithWriteTimeout bounds each timer-triggered or synchronous flush.
func WithWriteTimeout(d time.Duration) BatchOption {
	return func(w *BatchWriter) {
		if d > 0 {
			w.timeout = d
		}
	}
}

// WithLogger sets the logger used for write failures.
func WithLogger(l *slog.Logger) BatchOption {
	return func(w *BatchWriter) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewBatchWriter creates a writer in front of store.
func NewBatchWriter(store Store, opts ...BatchOption) *BatchWriter {
	w := &BatchWriter{
		store:    store,
		interval: DefaultFlushInterval,
		timeout:  DefaultWriteTimeout,
		logger:   slog.Default(),
		pending:  make(map[string]string),
		tracer:   otel.Tracer(instrumentationName),
	}
	for _, opt := range opts {
		opt(w)
	}

	meter := otel.Meter(instrumentationName)
	var err error
	w.writes, err = meter.Int64Counter("taskmaster.kv.writes",
		metric.WithDescription("Backend writes issued by the batch writer"),
		metric.WithUnit("{write}"))
	if err != nil {
		w.logger.Warn("failed to create kv write counter", "error", err)
	}
	w.duration, err = meter.Float64Histogram("taskmaster.kv.flush.duration",
		metric.WithDescription("Duration of a batch flush"),
		metric.WithUnit("s"))
	if err != nil {
		w.logger.Warn("failed to create kv flush histogram", "error", err)
	}

	return w
}

// Set queues value for key. It never blocks on the backend unless the
// writer is synchronous (flush interval <= 0).
func (w *BatchWriter) Set(key, value string) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		w.logger.Warn("dropping write to closed batch writer", "key", key)
		return
	}
	w.pending[key] = value

	if w.interval <= 0 {
		w.mu.Unlock()
		w.flushWithTimeout()
		return
	}

	if w.timer == nil {
		w.timer = time.AfterFunc(w.interval, w.flushWithTimeout)
	}
	w.mu.Unlock()
}

// Pending returns the number of keys waiting to be written.
func (w *BatchWriter) Pending() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.pending)
}

// Flush writes every pending key now, in key order.
// The joined write errors are returned; failed values are dropped.
func (w *BatchWriter) Flush(ctx context.Context) error {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	w.mu.Lock()
	batch := w.pending
	w.pending = make(map[string]string)
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
	w.mu.Unlock()

	if len(batch) == 0 {
		return nil
	}

	ctx, span := w.tracer.Start(ctx, "kv.flush",
		trace.WithAttributes(attribute.Int("kv.keys", len(batch))))
	defer span.End()
	start := time.Now()

	var errs []error
	for _, key := range slices.Sorted(maps.Keys(batch)) {
		result := "ok"
		if err := w.store.Set(ctx, key, batch[key]); err != nil {
			errs = append(errs, fmt.Errorf("failed to write %s: %w", key, err))
			result = "error"
		}
		if w.writes != nil {
			w.writes.Add(ctx, 1, metric.WithAttributes(attribute.String("result", result)))
		}
	}

	if w.duration != nil {
		w.duration.Record(ctx, time.Since(start).Seconds())
	}

	err := errors.Join(errs...)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "flush failed")
		w.logger.ErrorContext(ctx, "failed to persist state", "error", err)
	}
	return err
}

// Close flushes pending writes and rejects further Set calls.
// It does not close the underlying store.
func (w *BatchWriter) Close(ctx context.Context) error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	return w.Flush(ctx)
}

func (w *BatchWriter) flushWithTimeout() {
	ctx, cancel := context.WithTimeout(context.Background(), w.timeout)
	defer cancel()
	// Errors are already logged by Flush.
	_ = w.Flush(ctx)
}
