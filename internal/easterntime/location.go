package easterntime

import "time"

// Location returns the America/New_York location, falling back to a fixed
// EST zone when tzdata is not available on the host.
func Location() *time.Location {
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		return time.FixedZone("EST", int(StandardOffset/time.Second))
	}
	return loc
}

// FromTime reads the Eastern wall clock of t as reported by loc. It is the
// tz database counterpart of UTCToLocal.
func FromTime(t time.Time, loc *time.Location) LocalDateTime {
	return fromWall(t.In(loc))
}
