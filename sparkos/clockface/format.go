package clockface

import "fmt"

// Strings holds the four display texts.
type Strings struct {
	Date      string
	Weekday   string
	LocalTime string
	UTCStamp  string
}

// FormatDate renders YYYY-MM-DD.
func FormatDate(r Reading) string {
	return fmt.Sprintf("%04d-%02d-%02d", r.Year, int(r.Month), r.Day)
}

// FormatWeekday renders the full English weekday name.
func FormatWeekday(r Reading) string {
	return r.Weekday.String()
}

// FormatLocalTime renders HH:MM. The 12-hour form keeps the leading zero
// and carries no meridiem marker, so it always fills five characters.
func FormatLocalTime(r Reading, use24Hour bool) string {
	hour := r.Hour
	if !use24Hour {
		hour %= 12
		if hour == 0 {
			hour = 12
		}
	}
	return fmt.Sprintf("%02d:%02d", hour, r.Minute)
}

// FormatUTCStamp renders the instant in UTC as "MM-DD HH:MMZ".
func FormatUTCStamp(r Reading) string {
	u := r.Time().UTC()
	return fmt.Sprintf("%02d-%02d %02d:%02dZ", int(u.Month()), u.Day(), u.Hour(), u.Minute())
}
