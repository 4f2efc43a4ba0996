package reservation

import (
	"fmt"
	"time"
)

// DateFormat is the only accepted wire format for calendar dates.
const DateFormat = "2006-01-02"

// DateRange is an inclusive calendar-day interval. Both bounds are
// UTC-midnight times; Start == End is a one-day range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// ParseDate parses a YYYY-MM-DD string into a UTC-midnight time.
func ParseDate(raw string) (time.Time, error) {
	t, err := time.ParseInLocation(DateFormat, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrMalformedDate, raw)
	}
	return t, nil
}

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Overlaps reports whether the two inclusive ranges share at least one
// calendar day: s1 <= e2 && s2 <= e1.
func (r DateRange) Overlaps(other DateRange) bool {
	return !r.Start.After(other.End) && !other.Start.After(r.End)
}

// Days returns the inclusive day count, so a one-day range reports 1.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func (r DateRange) String() string {
	return r.Start.Format(DateFormat) + ".." + r.End.Format(DateFormat)
}
