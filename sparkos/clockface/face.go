// Package clockface turns clock readings into the watchface's display strings
// and decides which display regions need new text.
package clockface

// Region names one display slot.
type Region uint8

const (
	RegionDate Region = iota
	RegionWeekday
	RegionTime
	RegionUTC
)

func (r Region) String() string {
	switch r {
	case RegionDate:
		return "date"
	case RegionWeekday:
		return "weekday"
	case RegionTime:
		return "time"
	case RegionUTC:
		return "utc"
	default:
		return "unknown"
	}
}

// Presenter receives new text for a region.
type Presenter interface {
	SetText(region Region, text string)
}

// PresenterFunc adapts a function to Presenter.
type PresenterFunc func(region Region, text string)

func (f PresenterFunc) SetText(region Region, text string) { f(region, text) }

// Face holds the most recent display strings.
//
// The zero value is ready to use. Its first Format call always recomputes the
// date and weekday, since no previous day is known yet.
type Face struct {
	primed bool
	s      Strings
}

// Format recomputes the display strings for r.
//
// Date and Weekday change only when dayChanged is set (or on the first call);
// otherwise they keep the values from the last such call. An invalid reading
// is formatted as Epoch.
func (f *Face) Format(r Reading, dayChanged, use24Hour bool) Strings {
	f.format(r, dayChanged, use24Hour)
	return f.s
}

// Update formats r and pushes the recomputed strings to p.
func (f *Face) Update(r Reading, dayChanged, use24Hour bool, p Presenter) Strings {
	dayChanged = f.format(r, dayChanged, use24Hour)
	if p != nil {
		if dayChanged {
			p.SetText(RegionDate, f.s.Date)
			p.SetText(RegionWeekday, f.s.Weekday)
		}
		p.SetText(RegionTime, f.s.LocalTime)
		p.SetText(RegionUTC, f.s.UTCStamp)
	}
	return f.s
}

// Strings returns the current display strings without recomputing them.
func (f *Face) Strings() Strings { return f.s }

func (f *Face) format(r Reading, dayChanged, use24Hour bool) bool {
	if !r.Valid() {
		r = Epoch()
	}
	if !f.primed {
		f.primed = true
		dayChanged = true
	}
	if dayChanged {
		f.s.Date = FormatDate(r)
		f.s.Weekday = FormatWeekday(r)
	}
	f.s.LocalTime = FormatLocalTime(r, use24Hour)
	f.s.UTCStamp = FormatUTCStamp(r)
	return dayChanged
}
