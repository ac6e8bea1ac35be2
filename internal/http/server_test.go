package http_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezkam/taskmaster/internal/config"
	"github.com/rezkam/taskmaster/internal/habit"
	taskhttp "github.com/rezkam/taskmaster/internal/http"
	"github.com/rezkam/taskmaster/internal/http/handler"
	"github.com/rezkam/taskmaster/internal/kv"
	"github.com/rezkam/taskmaster/internal/taskstore"
)

func newAPIServer(cfg config.HTTPConfig) *taskhttp.APIServer {
	mem := kv.NewMemory()
	srv := handler.NewServer(
		taskstore.New(mem, memorySink{mem}),
		habit.NewTracker(mem, memorySink{mem}),
	)
	return taskhttp.NewAPIServer(srv, cfg)
}

func TestAPIServer_InstrumentedHandler(t *testing.T) {
	s := newAPIServer(config.HTTPConfig{Host: "127.0.0.1", Port: "9999"})
	assert.Equal(t, "127.0.0.1:9999", s.Addr())

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/stats", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":0,"completed":0,"pending":0}`, w.Body.String())
}

func TestAPIServer_StartAndShutdown(t *testing.T) {
	s := newAPIServer(config.HTTPConfig{Host: "127.0.0.1", Port: "0"})

	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, s.Shutdown(ctx))

	select {
	case err := <-errCh:
		assert.True(t, errors.Is(err, http.ErrServerClosed), "unexpected error: %v", err)
	case <-ctx.Done():
		t.Fatal("server did not stop")
	}
}
