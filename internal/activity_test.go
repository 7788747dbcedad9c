package internal

import (
	"testing"
	"time"
)

func TestGetWeekStart(t *testing.T) {
	tests := []struct {
		name     string
		date     time.Time
		expected time.Time
	}{
		{
			name:     "Sunday",
			date:     time.Date(2026, 1, 11, 15, 30, 0, 0, time.UTC),
			expected: time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Monday",
			date:     time.Date(2026, 1, 12, 15, 30, 0, 0, time.UTC),
			expected: time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Saturday",
			date:     time.Date(2026, 1, 17, 15, 30, 0, 0, time.UTC),
			expected: time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "Across a month boundary",
			date:     time.Date(2026, 3, 3, 8, 0, 0, 0, time.UTC),
			expected: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := GetWeekStart(tt.date)
			if !result.Equal(tt.expected) {
				t.Errorf("GetWeekStart(%v) = %v, want %v", tt.date, result, tt.expected)
			}
		})
	}
}

func TestGetWeekPeriod(t *testing.T) {
	week := GetWeekPeriod(time.Date(2026, 1, 14, 15, 30, 0, 0, time.UTC))

	if want := time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC); !week.StartDate.Equal(want) {
		t.Errorf("StartDate = %v, want %v", week.StartDate, want)
	}
	if want := time.Date(2026, 1, 17, 0, 0, 0, 0, time.UTC); !week.EndDate.Equal(want) {
		t.Errorf("EndDate = %v, want %v", week.EndDate, want)
	}
	if got, want := week.String(), "2026-01-11 to 2026-01-17"; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}

func TestGetWeekPeriodsBackUsesEasternDay(t *testing.T) {
	// 03:00 UTC on Sunday is still Saturday evening in New York.
	now := time.Date(2026, 1, 18, 3, 0, 0, 0, time.UTC)
	weeks := GetWeekPeriodsBack(now, 3)

	if len(weeks) != 3 {
		t.Fatalf("expected 3 weeks, got %d", len(weeks))
	}
	expectedStarts := []time.Time{
		time.Date(2026, 1, 11, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 1, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 12, 28, 0, 0, 0, 0, time.UTC),
	}
	for i, want := range expectedStarts {
		if !weeks[i].StartDate.Equal(want) {
			t.Errorf("week %d starts %v, want %v", i, weeks[i].StartDate, want)
		}
	}
}

func TestGetWeekPeriodsBackNonPositive(t *testing.T) {
	now := time.Date(2026, 1, 21, 17, 0, 0, 0, time.UTC)
	for _, n := range []int{0, -1, -52} {
		if weeks := GetWeekPeriodsBack(now, n); len(weeks) != 0 {
			t.Errorf("GetWeekPeriodsBack(now, %d) returned %d weeks", n, len(weeks))
		}
	}

	a := CheckWeeklyActivity([]time.Time{now}, now.AddDate(0, -1, 0), now, -3)
	if len(a.Weeks) != 0 || a.ThisWeek() != 0 || a.HasInactiveWeek() {
		t.Errorf("expected empty activity for negative window, got %+v", a)
	}
}

func TestCheckWeeklyActivity(t *testing.T) {
	now := time.Date(2026, 1, 21, 17, 0, 0, 0, time.UTC) // Wednesday
	joined := time.Date(2025, 12, 30, 12, 0, 0, 0, time.UTC)
	completions := []time.Time{
		time.Date(2026, 1, 20, 14, 0, 0, 0, time.UTC), // this week
		time.Date(2026, 1, 18, 4, 0, 0, 0, time.UTC),  // Saturday 23:00 EST, last week
		time.Date(2026, 1, 12, 14, 0, 0, 0, time.UTC), // last week
		time.Date(2025, 12, 1, 14, 0, 0, 0, time.UTC), // before the window
	}

	a := CheckWeeklyActivity(completions, joined, now, 6)

	if len(a.Weeks) != 4 {
		t.Fatalf("expected 4 counted weeks since joining, got %d", len(a.Weeks))
	}
	expected := []int{1, 2, 0, 0}
	for i, want := range expected {
		if a.Completed[i] != want {
			t.Errorf("week %s: got %d completions, want %d", a.Weeks[i], a.Completed[i], want)
		}
	}
	if a.ThisWeek() != 1 {
		t.Errorf("ThisWeek() = %d, want 1", a.ThisWeek())
	}
	if a.ActiveWeeks != 2 {
		t.Errorf("ActiveWeeks = %d, want 2", a.ActiveWeeks)
	}
	if !a.HasInactiveWeek() {
		t.Error("expected an inactive week")
	}
}

func TestWeeklyActivityEmpty(t *testing.T) {
	var a WeeklyActivity
	if a.ThisWeek() != 0 {
		t.Errorf("ThisWeek() = %d, want 0", a.ThisWeek())
	}
	if a.HasInactiveWeek() {
		t.Error("empty activity should have no inactive week")
	}
}
