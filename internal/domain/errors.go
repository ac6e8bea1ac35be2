package domain

import "errors"

// Validation errors returned by value object constructors and patch validation.
// Callers (CLI, HTTP adapter) use them to reject input before it reaches the store.

var (
	// ErrTitleRequired indicates that the title is empty after trimming.
	ErrTitleRequired = errors.New("title is required")

	// ErrTitleTooLong indicates that the title exceeds MaxTitleLength characters.
	ErrTitleTooLong = errors.New("title must be at most 255 characters")

	// ErrInvalidPriority indicates an unrecognized priority value.
	ErrInvalidPriority = errors.New("invalid priority")

	// ErrInvalidDate indicates a malformed calendar date.
	ErrInvalidDate = errors.New("invalid date, expected YYYY-MM-DD")

	// ErrInvalidClock indicates a malformed time of day.
	ErrInvalidClock = errors.New("invalid time of day, expected HH:MM")

	// ErrUnknownCategory indicates a task references a category the store does not know.
	ErrUnknownCategory = errors.New("unknown category")

	// ErrEmptyUpdateMask indicates that a patch names no fields.
	ErrEmptyUpdateMask = errors.New("update mask must name at least one field")

	// ErrUnknownField indicates that a patch names a field that cannot be updated.
	ErrUnknownField = errors.New("unknown field in update mask")

	// ErrFieldRequired indicates that a required field is in the mask without a value.
	ErrFieldRequired = errors.New("field in update mask requires a value")
)
