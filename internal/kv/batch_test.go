package kv

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingStore wraps Memory and records every Set call.
type countingStore struct {
	*Memory
	mu   sync.Mutex
	sets []string
	fail error
}

func newCountingStore() *countingStore {
	return &countingStore{Memory: NewMemory()}
}

func (s *countingStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	s.sets = append(s.sets, key)
	fail := s.fail
	s.mu.Unlock()
	if fail != nil {
		return fail
	}
	return s.Memory.Set(ctx, key, value)
}

func (s *countingStore) setCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sets)
}

func TestBatchWriter_SynchronousWhenIntervalZero(t *testing.T) {
	store := newCountingStore()
	w := NewBatchWriter(store, WithFlushInterval(0))

	w.Set("taskmaster-tasks", "[1]")

	got, err := store.Get(context.Background(), "taskmaster-tasks")
	require.NoError(t, err)
	assert.Equal(t, "[1]", got)
	assert.Equal(t, 0, w.Pending())
}

func TestBatchWriter_CoalescesBurstIntoOneWritePerKey(t *testing.T) {
	store := newCountingStore()
	w := NewBatchWriter(store, WithFlushInterval(20*time.Millisecond))

	w.Set("taskmaster-tasks", "[1]")
	w.Set("taskmaster-tasks", "[1,2]")
	w.Set("taskmaster-tasks", "[1,2,3]")
	w.Set("taskmaster-settings", "{}")

	require.Eventually(t, func() bool { return store.setCount() == 2 }, time.Second, 5*time.Millisecond)

	got, err := store.Get(context.Background(), "taskmaster-tasks")
	require.NoError(t, err)
	assert.Equal(t, "[1,2,3]", got)
	assert.Equal(t, 0, w.Pending())
}

func TestBatchWriter_FlushWritesInKeyOrder(t *testing.T) {
	store := newCountingStore()
	w := NewBatchWriter(store, WithFlushInterval(time.Hour))

	w.Set("c", "3")
	w.Set("a", "1")
	w.Set("b", "2")
	assert.Equal(t, 3, w.Pending())

	require.NoError(t, w.Flush(context.Background()))
	assert.Equal(t, []string{"a", "b", "c"}, store.sets)
}

func TestBatchWriter_CloseFlushesAndRejectsFurtherWrites(t *testing.T) {
	store := newCountingStore()
	w := NewBatchWriter(store, WithFlushInterval(time.Hour))

	w.Set("taskmaster-tasks", "[]")
	require.NoError(t, w.Close(context.Background()))

	_, err := store.Get(context.Background(), "taskmaster-tasks")
	require.NoError(t, err)

	w.Set("taskmaster-tasks", "[9]")
	assert.Equal(t, 0, w.Pending())
	assert.Equal(t, 1, store.setCount())
}

func TestBatchWriter_FailureIsReturnedFromFlushAndNotRetried(t *testing.T) {
	store := newCountingStore()
	store.fail = errors.New("quota exceeded")
	w := NewBatchWriter(store, WithFlushInterval(time.Hour))

	w.Set("taskmaster-tasks", "[]")
	err := w.Flush(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota exceeded")

	assert.Equal(t, 0, w.Pending(), "failed values are dropped")
	require.NoError(t, w.Flush(context.Background()))
	assert.Equal(t, 1, store.setCount())
}

func TestBatchWriter_FlushWithNothingPending(t *testing.T) {
	store := newCountingStore()
	w := NewBatchWriter(store)

	require.NoError(t, w.Flush(context.Background()))
	assert.Equal(t, 0, store.setCount())
}
