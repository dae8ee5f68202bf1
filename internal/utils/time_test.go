package utils

import "testing"

func TestParseDate(t *testing.T) {
	if _, err := ParseDate("2026-09-15"); err != nil {
		t.Fatalf("valid date rejected: %v", err)
	}
	for _, bad := range []string{"", "15/09/2026", "2026-13-01", "tomorrow"} {
		if _, err := ParseDate(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}

func TestParseClock(t *testing.T) {
	got, err := ParseClock("09:30:45")
	if err != nil {
		t.Fatalf("clock with seconds rejected: %v", err)
	}
	if got.Hour() != 9 || got.Minute() != 30 {
		t.Fatalf("unexpected time %v", got)
	}
	if _, err := ParseClock("25:00"); err == nil {
		t.Fatal("expected error for out-of-range hour")
	}
}
