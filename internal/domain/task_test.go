package domain

import (
	"errors"
	"testing"
)

func TestNormalizeTags(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"single", "work", "work"},
		{"lowercases", "Work", "work"},
		{"trims", "  home , work ", "home,work"},
		{"drops empties", "a,,b, ,c", "a,b,c"},
		{"dedup keeps first-seen order", " A, b ,a,B ,c", "a,b,c"},
		{"only separators", ", , ,", ""},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got := NormalizeTags(tc.in)
			if got != tc.want {
				t.Errorf("NormalizeTags(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeTagsIdempotent(t *testing.T) {
	t.Parallel()

	inputs := []string{"", "a", " A, b ,a,B ,c", "x,,y", "tag with space, other"}
	for _, in := range inputs {
		once := NormalizeTags(in)
		twice := NormalizeTags(once)
		if once != twice {
			t.Errorf("NormalizeTags not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestStatusValid(t *testing.T) {
	t.Parallel()

	for _, s := range []Status{StatusTodo, StatusDone, StatusArchived} {
		if !s.Valid() {
			t.Errorf("expected %q to be valid", s)
		}
	}

	for _, s := range []Status{"", "pending", "TODO", "Done"} {
		if s.Valid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestValidateDate(t *testing.T) {
	t.Parallel()

	if err := ValidateDate(""); err != nil {
		t.Errorf("empty date should be accepted, got %v", err)
	}

	if err := ValidateDate("2024-01-01"); err != nil {
		t.Errorf("expected no error for valid date, got %v", err)
	}

	for _, d := range []string{"2024/01/01", "01-01-2024", "2024-13-01", "2024-02-30", "yesterday"} {
		err := ValidateDate(d)
		if !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ValidateDate(%q) = %v, want ErrInvalidDate", d, err)
		}
	}
}
