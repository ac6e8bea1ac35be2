// Package ptr provides pointer helpers for optional task and filter fields.
package ptr

// To returns a pointer to the given value.
func To[T any](v T) *T {
	return &v
}

// ToString converts a pointer to a string-based type (e.g. domain.Priority)
// to its string value. Returns empty string if the pointer is nil.
func ToString[T ~string](p *T) string {
	if p == nil {
		return ""
	}
	return string(*p)
}

// NonEmpty returns a pointer to s, or nil when s is empty.
// Used where an empty flag or form value means "absent".
func NonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
