package models

import (
	"testing"
	"time"
)

func TestDayStartPinsToUTC(t *testing.T) {
	lagos := time.FixedZone("WAT", 1*60*60)

	// 00:30 WAT on the 2nd is still 23:30 UTC on the 1st
	asOf := time.Date(2024, 3, 2, 0, 30, 0, 0, lagos)
	start := DayStart(asOf)

	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !start.Equal(want) {
		t.Fatalf("got %v, want %v", start, want)
	}
	if start.Location() != time.UTC {
		t.Fatalf("day start not in UTC: %v", start.Location())
	}
}

func TestDayStartMidnightBoundary(t *testing.T) {
	midnight := time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)
	if got := DayStart(midnight); !got.Equal(midnight) {
		t.Fatalf("midnight should be its own day start, got %v", got)
	}

	justBefore := midnight.Add(-time.Nanosecond)
	prev := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if got := DayStart(justBefore); !got.Equal(prev) {
		t.Fatalf("instant before midnight belongs to previous day, got %v", got)
	}
}
