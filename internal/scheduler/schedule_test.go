package scheduler

import (
	"testing"
	"time"
)

func TestIntervalSchedule(t *testing.T) {
	s := Every(6 * time.Hour)
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	next := s.Next(now)
	if want := now.Add(6 * time.Hour); !next.Equal(want) {
		t.Errorf("Next = %v, want %v", next, want)
	}
}

func TestDailySchedule(t *testing.T) {
	s := Daily(4, 30)

	// Before today's slot: runs today.
	now := time.Date(2025, 6, 1, 2, 0, 0, 0, time.UTC)
	next := s.Next(now)
	if want := time.Date(2025, 6, 1, 4, 30, 0, 0, time.UTC); !next.Equal(want) {
		t.Errorf("Next = %v, want %v", next, want)
	}

	// After today's slot: runs tomorrow.
	now = time.Date(2025, 6, 1, 5, 0, 0, 0, time.UTC)
	next = s.Next(now)
	if want := time.Date(2025, 6, 2, 4, 30, 0, 0, time.UTC); !next.Equal(want) {
		t.Errorf("Next = %v, want %v", next, want)
	}
}

func TestCronParse(t *testing.T) {
	valid := []string{
		"0 * * * *",
		"*/15 * * * *",
		"0 4 * * *",
		"0 0 * * 0",
		"30 2 1,15 * *",
		"0 9-17 * * 1-5",
	}
	for _, expr := range valid {
		if _, err := Cron(expr); err != nil {
			t.Errorf("Cron(%q) failed: %v", expr, err)
		}
	}

	invalid := []string{
		"",
		"* * * *",
		"60 * * * *",
		"* 24 * * *",
		"* * 0 * *",
		"* * * * 7",
		"a * * * *",
		"*/0 * * * *",
	}
	for _, expr := range invalid {
		if _, err := Cron(expr); err == nil {
			t.Errorf("Cron(%q) should have failed", expr)
		}
	}
}

func TestCronNext(t *testing.T) {
	// Daily at 04:00.
	s, err := Cron("0 4 * * *")
	if err != nil {
		t.Fatal(err)
	}

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	next := s.Next(now)
	if want := time.Date(2025, 6, 2, 4, 0, 0, 0, time.UTC); !next.Equal(want) {
		t.Errorf("Next = %v, want %v", next, want)
	}

	// Every 15 minutes.
	s, err = Cron("*/15 * * * *")
	if err != nil {
		t.Fatal(err)
	}
	now = time.Date(2025, 6, 1, 12, 7, 0, 0, time.UTC)
	next = s.Next(now)
	if want := time.Date(2025, 6, 1, 12, 15, 0, 0, time.UTC); !next.Equal(want) {
		t.Errorf("Next = %v, want %v", next, want)
	}
}
