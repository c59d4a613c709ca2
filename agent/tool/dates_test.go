package tool

import (
	"testing"
	"time"
)

func TestNormalizeDayRelativeTokens(t *testing.T) {
	t.Parallel()

	now := fixedClock(2024, time.June, 15)

	if got := NormalizeDay("today", now); got != "2024-06-15" {
		t.Fatalf("today = %q", got)
	}
	if got := NormalizeDay("tomorrow", now); got != "2024-06-16" {
		t.Fatalf("tomorrow = %q", got)
	}
	if got := NormalizeDay("yesterday", now); got != "2024-06-14" {
		t.Fatalf("yesterday = %q", got)
	}
}

func TestNormalizeDayMonthBoundary(t *testing.T) {
	t.Parallel()

	now := fixedClock(2024, time.June, 30)
	if got := NormalizeDay("tomorrow", now); got != "2024-07-01" {
		t.Fatalf("tomorrow across month = %q", got)
	}
}

func TestNormalizeDayIdentityForEverythingElse(t *testing.T) {
	t.Parallel()

	now := fixedClock(2024, time.June, 15)
	for _, in := range []string{"", "2024-01-01", "next friday", "Today"} {
		if got := NormalizeDay(in, now); got != in {
			t.Fatalf("NormalizeDay(%q) = %q, want identity", in, got)
		}
	}
}
