// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrTitleRequired is returned when a task title is missing or blank
	// after trimming.
	ErrTitleRequired = errors.New("title is required")

	// ErrInvalidStatus is returned when a status value is outside the
	// allowed set (todo, done, archived).
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidDate is returned when a date-typed field is not a valid
	// YYYY-MM-DD calendar date.
	ErrInvalidDate = errors.New("invalid date")

	// ErrValidation is the catch-all for malformed input not covered by a
	// more specific error, such as an unparsable request body.
	ErrValidation = errors.New("validation failed")
)
