package easterntime

import (
	"errors"
	"fmt"
	"time"
)

const (
	// StandardOffset is the UTC offset of Eastern Standard Time.
	StandardOffset = -5 * time.Hour
	// DaylightOffset is the UTC offset of Eastern Daylight Time.
	DaylightOffset = -4 * time.Hour

	transitionHour = 2
	// Readings start in year 0 so every instant from year 1 on has one.
	minYear        = 0
	maxYear        = 9999
	minInstantYear = 1
)

// ErrInvalidDate is matched by every *InvalidDateError.
var ErrInvalidDate = errors.New("invalid date")

// InvalidDateError reports a calendar field that is out of range or input
// that could not be parsed.
type InvalidDateError struct {
	Field string
	Value string
	Err   error
}

func (e *InvalidDateError) Error() string {
	msg := fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap lets errors.Is match both ErrInvalidDate and the underlying cause.
func (e *InvalidDateError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrInvalidDate}
	}
	return []error{ErrInvalidDate, e.Err}
}

// LocalDateTime is a wall-clock reading with no attached offset.
type LocalDateTime struct {
	Year   int
	Month  time.Month
	Day    int
	Hour   int
	Minute int
}

// NewLocalDateTime builds a validated reading. Out-of-range fields are
// rejected rather than normalized into a different date.
func NewLocalDateTime(year int, month time.Month, day, hour, minute int) (LocalDateTime, error) {
	l := LocalDateTime{Year: year, Month: month, Day: day, Hour: hour, Minute: minute}
	if err := l.Validate(); err != nil {
		return LocalDateTime{}, err
	}
	return l, nil
}

// Validate checks every field against its calendar range.
func (l LocalDateTime) Validate() error {
	switch {
	case l.Year < minYear || l.Year > maxYear:
		return &InvalidDateError{Field: "year", Value: fmt.Sprint(l.Year)}
	case l.Month < time.January || l.Month > time.December:
		return &InvalidDateError{Field: "month", Value: fmt.Sprint(int(l.Month))}
	case l.Day < 1 || l.Day > daysIn(l.Year, l.Month):
		return &InvalidDateError{Field: "day", Value: fmt.Sprint(l.Day),
			Err: fmt.Errorf("%s %d has %d days", l.Month, l.Year, daysIn(l.Year, l.Month))}
	case l.Hour < 0 || l.Hour > 23:
		return &InvalidDateError{Field: "hour", Value: fmt.Sprint(l.Hour)}
	case l.Minute < 0 || l.Minute > 59:
		return &InvalidDateError{Field: "minute", Value: fmt.Sprint(l.Minute)}
	}
	return nil
}

// Before reports whether l is earlier than o on the wall clock.
func (l LocalDateTime) Before(o LocalDateTime) bool {
	return l.wall().Before(o.wall())
}

// wall places the reading on a UTC time line purely so readings can be
// compared and shifted. The result is not the instant the reading denotes.
func (l LocalDateTime) wall() time.Time {
	return time.Date(l.Year, l.Month, l.Day, l.Hour, l.Minute, 0, 0, time.UTC)
}

func fromWall(t time.Time) LocalDateTime {
	return LocalDateTime{
		Year:   t.Year(),
		Month:  t.Month(),
		Day:    t.Day(),
		Hour:   t.Hour(),
		Minute: t.Minute(),
	}
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// firstSunday returns the day of month of the first Sunday in month.
func firstSunday(year int, month time.Month) int {
	wd := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).Weekday()
	return 1 + (7-int(wd))%7
}

// DSTBounds returns the wall-clock readings at which daylight saving time
// starts (second Sunday of March, 02:00) and ends (first Sunday of
// November, 02:00) in the given year.
func DSTBounds(year int) (start, end LocalDateTime) {
	start = LocalDateTime{Year: year, Month: time.March, Day: firstSunday(year, time.March) + 7, Hour: transitionHour}
	end = LocalDateTime{Year: year, Month: time.November, Day: firstSunday(year, time.November), Hour: transitionHour}
	return start, end
}

// IsEasternDaylightTime reports whether the Eastern wall-clock reading
// falls in [start, end) of its year's daylight saving period.
func IsEasternDaylightTime(l LocalDateTime) bool {
	start, end := DSTBounds(l.Year)
	return !l.Before(start) && l.Before(end)
}

// Abbreviation returns "EDT" or "EST" for the reading.
func Abbreviation(l LocalDateTime) string {
	if IsEasternDaylightTime(l) {
		return "EDT"
	}
	return "EST"
}

// OffsetOf returns the UTC offset in effect for the Eastern reading.
func OffsetOf(l LocalDateTime) time.Duration {
	if IsEasternDaylightTime(l) {
		return DaylightOffset
	}
	return StandardOffset
}

// LocalToUTC converts an Eastern wall-clock reading to the UTC instant it
// denotes: local + 4h during daylight saving time, local + 5h otherwise.
func LocalToUTC(l LocalDateTime) (time.Time, error) {
	if err := l.Validate(); err != nil {
		return time.Time{}, err
	}
	return l.wall().Add(-OffsetOf(l)), nil
}

// TransitionsUTC returns the instants at which daylight saving time starts
// (02:00 EST) and ends (02:00 EDT) in year.
func TransitionsUTC(year int) (start, end time.Time) {
	s, e := DSTBounds(year)
	return s.wall().Add(-StandardOffset), e.wall().Add(-DaylightOffset)
}

// UTCToLocal converts an instant to the Eastern wall-clock reading.
//
// The instant is compared against the year's transitions expressed in UTC
// (start at 02:00 EST, end at 02:00 EDT), so no local estimate is needed.
// Seconds and below are truncated.
func UTCToLocal(t time.Time) LocalDateTime {
	u := t.UTC().Truncate(time.Minute)
	startUTC, endUTC := TransitionsUTC(u.Year())

	offset := StandardOffset
	if !u.Before(startUTC) && u.Before(endUTC) {
		offset = DaylightOffset
	}
	return fromWall(u.Add(offset))
}

// RoundTrips reports whether converting l to UTC and back yields l. It only
// fails for readings inside the spring-forward gap, which have no instant.
func RoundTrips(l LocalDateTime) bool {
	u, err := LocalToUTC(l)
	if err != nil {
		return false
	}
	return UTCToLocal(u) == l
}
