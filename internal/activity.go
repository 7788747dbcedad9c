package internal

import (
	"fmt"
	"time"

	"lockdin/internal/easterntime"
)

// WeekPeriod is an Eastern calendar week running Sunday to Saturday. The
// dates are calendar days carried at midnight UTC.
type WeekPeriod struct {
	StartDate time.Time
	EndDate   time.Time
}

// String returns a formatted string representation of the week
func (w WeekPeriod) String() string {
	return fmt.Sprintf("%s to %s", w.StartDate.Format("2006-01-02"), w.EndDate.Format("2006-01-02"))
}

func (w WeekPeriod) contains(day time.Time) bool {
	return !day.Before(w.StartDate) && !day.After(w.EndDate)
}

// easternDay returns the Eastern calendar day of an instant
func easternDay(t time.Time) time.Time {
	l := easterntime.UTCToLocal(t)
	return time.Date(l.Year, l.Month, l.Day, 0, 0, 0, 0, time.UTC)
}

// GetWeekStart returns the Sunday on or before the calendar day of date
func GetWeekStart(date time.Time) time.Time {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -int(day.Weekday()))
}

// GetWeekPeriod returns the week period for a given calendar day
func GetWeekPeriod(date time.Time) WeekPeriod {
	start := GetWeekStart(date)
	return WeekPeriod{StartDate: start, EndDate: start.AddDate(0, 0, 6)}
}

// GetWeekPeriodsBack returns the Eastern weeks going back from the week
// containing now, newest first. A negative weeksBack yields no weeks.
func GetWeekPeriodsBack(now time.Time, weeksBack int) []WeekPeriod {
	weeksBack = max(weeksBack, 0)
	weeks := make([]WeekPeriod, 0, weeksBack)
	today := easternDay(now)
	for i := 0; i < weeksBack; i++ {
		weeks = append(weeks, GetWeekPeriod(today.AddDate(0, 0, -7*i)))
	}
	return weeks
}

// WeeklyActivity counts completed tasks per Eastern week
type WeeklyActivity struct {
	Weeks       []WeekPeriod
	Completed   []int
	ActiveWeeks int
}

// ThisWeek returns the completions in the current week
func (a WeeklyActivity) ThisWeek() int {
	if len(a.Completed) == 0 {
		return 0
	}
	return a.Completed[0]
}

// HasInactiveWeek reports whether any counted week had no completions
func (a WeeklyActivity) HasInactiveWeek() bool {
	return a.ActiveWeeks < len(a.Weeks)
}

// CheckWeeklyActivity buckets completion instants into the last weeksBack
// Eastern weeks. Weeks that ended before joined are not counted.
func CheckWeeklyActivity(completions []time.Time, joined, now time.Time, weeksBack int) WeeklyActivity {
	joinedDay := easternDay(joined)

	var a WeeklyActivity
	for _, week := range GetWeekPeriodsBack(now, weeksBack) {
		if week.EndDate.Before(joinedDay) {
			break
		}

		n := 0
		for _, c := range completions {
			if week.contains(easternDay(c)) {
				n++
			}
		}

		a.Weeks = append(a.Weeks, week)
		a.Completed = append(a.Completed, n)
		if n > 0 {
			a.ActiveWeeks++
		}
	}
	return a
}
