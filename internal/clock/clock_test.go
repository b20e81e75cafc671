package clock

import (
	"testing"
	"time"
)

func TestTodayTruncatesToUTCDate(t *testing.T) {
	fake := NewFakeClock(time.Date(2024, time.June, 15, 23, 59, 59, 0, time.FixedZone("JST", 9*3600)))

	got := Today(fake)
	want := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("Today() = %v, want %v", got, want)
	}
}

func TestFakeClockAdvance(t *testing.T) {
	start := time.Date(2024, time.June, 15, 12, 0, 0, 0, time.UTC)
	fake := NewFakeClock(start)

	fake.Advance(36 * time.Hour)
	if got := fake.Now(); !got.Equal(start.Add(36 * time.Hour)) {
		t.Fatalf("Now() = %v after advance", got)
	}

	jump := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.FixedZone("JST", 9*3600))
	fake.Set(jump)
	if got := fake.Now(); !got.Equal(jump) || got.Location() != time.UTC {
		t.Fatalf("Now() = %v after set, want %v in UTC", got, jump.UTC())
	}
}
