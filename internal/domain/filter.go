package domain

import "strings"

// Filter narrows which tasks are presented.
// A nil pointer or empty SearchQuery means "no constraint on that field".
type Filter struct {
	Category    *string   `json:"category,omitempty"`
	Priority    *Priority `json:"priority,omitempty"`
	Completed   *bool     `json:"completed,omitempty"`
	SearchQuery string    `json:"searchQuery,omitempty"`
}

// IsEmpty reports whether the filter constrains nothing.
func (f Filter) IsEmpty() bool {
	return f.Category == nil && f.Priority == nil && f.Completed == nil && f.SearchQuery == ""
}

// Matches reports whether t satisfies every constraint of the filter.
// Category and priority match exactly; the search query is matched
// case-insensitively against title and description.
func (f Filter) Matches(t Task) bool {
	if f.Category != nil && t.Category != *f.Category {
		return false
	}
	if f.Priority != nil && t.Priority != *f.Priority {
		return false
	}
	if f.Completed != nil && t.Completed != *f.Completed {
		return false
	}
	if f.SearchQuery != "" {
		q := strings.ToLower(f.SearchQuery)
		if !strings.Contains(strings.ToLower(t.Title), q) &&
			!strings.Contains(strings.ToLower(t.Description), q) {
			return false
		}
	}
	return true
}
