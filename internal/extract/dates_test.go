package extract

import (
	"testing"
	"time"
)

func TestParseISODate(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"2026-08-15", "2026-08-15", true},
		{"2026-08-15T10:30:00Z", "2026-08-15", true},
		{"15/08/2026", "", false},
		{"next week", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := parseISODate(tt.in)
			if ok != tt.ok {
				t.Fatalf("parseISODate(%q) ok = %v, want %v", tt.in, ok, tt.ok)
			}
			if ok && got.Format(isoDate) != tt.want {
				t.Errorf("parseISODate(%q) = %s, want %s", tt.in, got.Format(isoDate), tt.want)
			}
		})
	}
}

func TestParseRelativeDate(t *testing.T) {
	now := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"in N days", "need it in 7 days", "2026-08-08"},
		{"in 1 day singular", "deliver in 1 day", "2026-08-02"},
		{"in 30 days", "sometime in 30 days", "2026-08-31"},
		{"by month end", "by august end", "2026-08-31"},
		{"by short month end", "by september end please", "2026-09-30"},
		{"case insensitive", "In 3 Days", "2026-08-04"},
		{"no phrase", "deliver the gravel", ""},
		{"unknown month", "by smarch end", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseRelativeDate(tt.text, now)
			if tt.want == "" {
				if got != nil {
					t.Fatalf("ParseRelativeDate(%q) = %q, want nil", tt.text, *got)
				}
				return
			}
			if got == nil {
				t.Fatalf("ParseRelativeDate(%q) = nil, want %q", tt.text, tt.want)
			}
			if *got != tt.want {
				t.Errorf("ParseRelativeDate(%q) = %q, want %q", tt.text, *got, tt.want)
			}
		})
	}
}

func TestParseRelativeDate_DecemberEnd(t *testing.T) {
	// Month+1 wraps past December without rolling the year forward
	// incorrectly.
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	got := ParseRelativeDate("by december end", now)
	if got == nil || *got != "2026-12-31" {
		t.Fatalf("ParseRelativeDate() = %v, want 2026-12-31", got)
	}
}
