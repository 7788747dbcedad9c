package easterntime

import (
	"fmt"
	"strings"
	"time"
)

// ISOLayout is the UTC wire format handed to persistence and clients.
const ISOLayout = "2006-01-02T15:04:05.000Z"

// localLayouts are accepted for user-entered Eastern readings.
var localLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02 15:04",
}

// FormatInstant renders t as YYYY-MM-DDTHH:mm:ss.sssZ in UTC.
func FormatInstant(t time.Time) string {
	return t.UTC().Format(ISOLayout)
}

// ParseInstant parses an RFC 3339 timestamp (including the ISOLayout form)
// and returns it in UTC.
func ParseInstant(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, &InvalidDateError{Field: "instant", Value: s, Err: err}
	}
	t = t.UTC()
	if t.Year() < minInstantYear {
		return time.Time{}, &InvalidDateError{Field: "instant", Value: s}
	}
	return t, nil
}

// ParseLocal parses an Eastern wall-clock reading in YYYY-MM-DDTHH:MM or
// YYYY-MM-DD HH:MM form.
func ParseLocal(s string) (LocalDateTime, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range localLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return NewLocalDateTime(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute())
		}
		lastErr = err
	}
	return LocalDateTime{}, &InvalidDateError{Field: "date", Value: s, Err: lastErr}
}

// String renders the reading as YYYY-MM-DD HH:MM.
func (l LocalDateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d", l.Year, int(l.Month), l.Day, l.Hour, l.Minute)
}

// Format renders the reading, optionally followed by EST or EDT.
func (l LocalDateTime) Format(withZone bool) string {
	if !withZone {
		return l.String()
	}
	return l.String() + " " + Abbreviation(l)
}
