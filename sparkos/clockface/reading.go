package clockface

import "time"

// maxOffset bounds a plausible UTC offset (seconds east of UTC).
const maxOffset = 18 * 60 * 60

// Reading is a local-time decomposition of one instant.
type Reading struct {
	Year    int
	Month   time.Month
	Day     int
	Hour    int
	Minute  int
	Weekday time.Weekday

	// Offset is the local zone's offset in seconds east of UTC.
	Offset int
}

// Epoch is the reading used for an unset or invalid clock.
func Epoch() Reading {
	return Reading{Year: 1970, Month: time.January, Day: 1, Weekday: time.Thursday}
}

// ReadingAt decomposes t in its own location. The zero time yields Epoch.
func ReadingAt(t time.Time) Reading {
	if t.IsZero() {
		return Epoch()
	}
	_, offset := t.Zone()
	r := Reading{
		Year:    t.Year(),
		Month:   t.Month(),
		Day:     t.Day(),
		Hour:    t.Hour(),
		Minute:  t.Minute(),
		Weekday: t.Weekday(),
		Offset:  offset,
	}
	if !r.Valid() {
		return Epoch()
	}
	return r
}

// Valid reports whether every field is in range and the weekday matches the date.
func (r Reading) Valid() bool {
	switch {
	case r.Year < 1 || r.Year > 9999:
		return false
	case r.Month < time.January || r.Month > time.December:
		return false
	case r.Day < 1 || r.Day > daysIn(r.Year, r.Month):
		return false
	case r.Hour < 0 || r.Hour > 23:
		return false
	case r.Minute < 0 || r.Minute > 59:
		return false
	case r.Offset < -maxOffset || r.Offset > maxOffset:
		return false
	}
	return r.Weekday == time.Date(r.Year, r.Month, r.Day, 0, 0, 0, 0, time.UTC).Weekday()
}

// Time returns the instant r describes, in a fixed zone at r.Offset.
func (r Reading) Time() time.Time {
	return time.Date(r.Year, r.Month, r.Day, r.Hour, r.Minute, 0, 0, time.FixedZone("", r.Offset))
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
