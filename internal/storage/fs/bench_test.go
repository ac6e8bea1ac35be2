package fs_test

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/rezkam/taskmaster/internal/storage/fs"
)

// BenchmarkFS_SetTaskList measures a full rewrite of a 1000-task list,
// which is what a single flush of the task store costs.
func BenchmarkFS_SetTaskList(b *testing.B) {
	store, err := fs.NewStore(b.TempDir())
	if err != nil {
		b.Fatalf("failed to create store: %v", err)
	}

	var sb strings.Builder
	sb.WriteString("[")
	for i := 0; i < 1000; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `{"id":"task-%d","title":"Benchmark Task Payload","priority":"Medium","category":"Work","completed":%t}`, i, i%2 == 0)
	}
	sb.WriteString("]")
	payload := sb.String()

	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if err := store.Set(ctx, "taskmaster-tasks", payload); err != nil {
			b.Fatalf("set failed: %v", err)
		}
	}
}

func BenchmarkFS_Get(b *testing.B) {
	store, err := fs.NewStore(b.TempDir())
	if err != nil {
		b.Fatalf("failed to create store: %v", err)
	}
	ctx := context.Background()
	if err := store.Set(ctx, "taskmaster-tasks", strings.Repeat("x", 64<<10)); err != nil {
		b.Fatalf("set failed: %v", err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := store.Get(ctx, "taskmaster-tasks"); err != nil {
			b.Fatalf("get failed: %v", err)
		}
	}
}
