package compliance

import (
	"context"
	"strings"
	"testing"

	"github.com/rezkam/taskmaster/internal/kv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStoreComplianceTest runs a standard set of tests against a kv.Store implementation.
// setup is a function that returns a fresh (clean) Store instance for the test.
// cleanup is called after the test to clean up resources (if any).
func RunStoreComplianceTest(t *testing.T, setup func() (kv.Store, func())) {
	t.Run("GetMissingKey", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		_, err := store.Get(ctx, "taskmaster-tasks")
		assert.ErrorIs(t, err, kv.ErrNotFound)
	})

	t.Run("SetAndGet", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		value := `[{"id":"1","title":"Buy milk","completed":false}]`
		require.NoError(t, store.Set(ctx, "taskmaster-tasks", value))

		got, err := store.Get(ctx, "taskmaster-tasks")
		require.NoError(t, err)
		assert.Equal(t, value, got)
	})

	t.Run("OverwriteReplacesValue", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		require.NoError(t, store.Set(ctx, "taskmaster-settings", `{"darkMode":false}`))
		require.NoError(t, store.Set(ctx, "taskmaster-settings", `{"darkMode":true}`))

		got, err := store.Get(ctx, "taskmaster-settings")
		require.NoError(t, err)
		assert.Equal(t, `{"darkMode":true}`, got)
	})

	t.Run("KeysAreIsolated", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		require.NoError(t, store.Set(ctx, "taskmaster-tasks", "[]"))
		require.NoError(t, store.Set(ctx, "taskmaster-habits", `[{"id":"h"}]`))

		tasks, err := store.Get(ctx, "taskmaster-tasks")
		require.NoError(t, err)
		habits, err := store.Get(ctx, "taskmaster-habits")
		require.NoError(t, err)
		assert.Equal(t, "[]", tasks)
		assert.Equal(t, `[{"id":"h"}]`, habits)
	})

	t.Run("EmptyValue", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		require.NoError(t, store.Set(ctx, "empty", ""))
		got, err := store.Get(ctx, "empty")
		require.NoError(t, err)
		assert.Equal(t, "", got)
	})

	t.Run("LargeUnicodeValue", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		value := strings.Repeat("Überprüfen 📋 — ", 20000)
		require.NoError(t, store.Set(ctx, "big", value))

		got, err := store.Get(ctx, "big")
		require.NoError(t, err)
		assert.Equal(t, value, got)
	})

	t.Run("InvalidKeyRejected", func(t *testing.T) {
		store, teardown := setup()
		defer teardown()
		ctx := context.Background()

		for _, key := range []string{"", "../escape", "a/b", ".hidden"} {
			err := store.Set(ctx, key, "x")
			assert.ErrorIs(t, err, kv.ErrInvalidKey, "key %q", key)
			_, err = store.Get(ctx, key)
			assert.ErrorIs(t, err, kv.ErrInvalidKey, "key %q", key)
		}
	})
}
