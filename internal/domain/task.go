package domain

import (
	"strings"
	"time"
)

// Status represents the lifecycle state of a task.
type Status string

// Allowed task statuses.
const (
	StatusTodo     Status = "todo"
	StatusDone     Status = "done"
	StatusArchived Status = "archived"
)

// Valid reports whether the status is one of the allowed values.
func (s Status) Valid() bool {
	switch s {
	case StatusTodo, StatusDone, StatusArchived:
		return true
	}
	return false
}

// Timestamp and date layouts used for storage and serialization.
// Timestamps are second-precision UTC with a 'Z' suffix so that
// lexicographic order over the stored TEXT matches chronological order.
const (
	TimestampLayout = "2006-01-02T15:04:05Z"
	DateLayout      = "2006-01-02"
)

// Task represents a single to-do item. Timestamps and the optional due
// date are kept in their stored TEXT form; Tags holds the normalized
// comma-joined tag list.
type Task struct {
	ID          int64   `json:"id" db:"id"`
	Title       string  `json:"title" db:"title"`
	Description string  `json:"description" db:"description"`
	Status      Status  `json:"status" db:"status"`
	Priority    int     `json:"priority" db:"priority"`
	Tags        string  `json:"tags" db:"tags"`
	DueDate     *string `json:"due_date" db:"due_date"`
	CreatedAt   string  `json:"created_at" db:"created_at"`
	UpdatedAt   string  `json:"updated_at" db:"updated_at"`
}

// NowUTC returns the current UTC time formatted with TimestampLayout.
func NowUTC() string {
	return time.Now().UTC().Format(TimestampLayout)
}

// ValidateDate checks that d is a syntactically valid YYYY-MM-DD calendar
// date. The empty string is accepted so callers can treat "no date" and
// "clear the date" uniformly. No semantic validation (such as
// not-in-the-past) is performed.
func ValidateDate(d string) error {
	if d == "" {
		return nil
	}
	if _, err := time.Parse(DateLayout, d); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// NormalizeTags canonicalizes a comma-separated tag string: each entry is
// trimmed and lowercased, empty entries are dropped, and duplicates are
// removed keeping first-seen order. The result is rejoined with commas.
// Normalization is idempotent.
func NormalizeTags(s string) string {
	parts := strings.Split(s, ",")
	seen := make(map[string]struct{}, len(parts))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.ToLower(strings.TrimSpace(p))
		if p == "" {
			continue
		}
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return strings.Join(out, ",")
}
