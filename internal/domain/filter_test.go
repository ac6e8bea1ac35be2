package domain

import (
	"testing"

	"github.com/rezkam/taskmaster/internal/ptr"
	"github.com/stretchr/testify/assert"
)

func TestFilter_Matches(t *testing.T) {
	task := Task{
		Title:       "Apple pie",
		Description: "Bake for the Family dinner",
		Priority:    PriorityHigh,
		Category:    "Personal",
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{name: "empty filter", filter: Filter{}, want: true},
		{name: "category match", filter: Filter{Category: ptr.To("Personal")}, want: true},
		{name: "category is case-sensitive", filter: Filter{Category: ptr.To("personal")}, want: false},
		{name: "priority mismatch", filter: Filter{Priority: ptr.To(PriorityLow)}, want: false},
		{name: "completed false matches pending", filter: Filter{Completed: ptr.To(false)}, want: true},
		{name: "completed true excludes pending", filter: Filter{Completed: ptr.To(true)}, want: false},
		{name: "search title case-insensitive", filter: Filter{SearchQuery: "APPLE"}, want: true},
		{name: "search description", filter: Filter{SearchQuery: "family"}, want: true},
		{name: "search miss", filter: Filter{SearchQuery: "banana"}, want: false},
		{
			name:   "all constraints must hold",
			filter: Filter{Category: ptr.To("Personal"), Priority: ptr.To(PriorityHigh), SearchQuery: "zzz"},
			want:   false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.filter.Matches(task))
		})
	}
}

func TestFilter_IsEmpty(t *testing.T) {
	assert.True(t, Filter{}.IsEmpty())
	assert.False(t, Filter{SearchQuery: "a"}.IsEmpty())
	assert.False(t, Filter{Completed: ptr.To(false)}.IsEmpty())
}
