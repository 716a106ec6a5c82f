package utils

import "testing"

func TestPeriodDays(t *testing.T) {
	tests := []struct {
		period string
		want   int
	}{
		{"3d", 3},
		{"1d", 1},
		{"10d", 10},
		{"12h", 1},
		{"48h", 3}, // 48/24+1
		{"2h", 1},
		{"", 3},
		{"soon", 3},
		{"0d", 3},
	}
	for _, tt := range tests {
		if got := PeriodDays(tt.period); got != tt.want {
			t.Errorf("PeriodDays(%q) = %d, want %d", tt.period, got, tt.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 300); got != "short" {
		t.Fatalf("short strings must pass through unchanged, got %q", got)
	}
	long := make([]byte, 400)
	for i := range long {
		long[i] = 'x'
	}
	got := Truncate(string(long), 300)
	if len(got) != 303 || got[300:] != "..." {
		t.Fatalf("expected 300 chars plus ellipsis, got %d chars", len(got))
	}
}
