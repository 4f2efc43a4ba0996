package reservation

import (
	"errors"
	"time"
)

var (
	ErrMissingField  = errors.New("reservation: date is required")
	ErrMalformedDate = errors.New("reservation: date must use YYYY-MM-DD format")
	ErrPastDate      = errors.New("reservation: date must not be in the past")
	ErrInvertedRange = errors.New("reservation: start date must not be after end date")
)

// ValidationError annotates a range validation failure with the field that
// caused it. errors.Is still matches the wrapped sentinel.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// Clock supplies the current time. Production wiring passes time.Now;
// tests pin it.
type Clock func() time.Time

// ParseRange validates a raw (start, end) pair and returns the parsed range.
// Checks run in a fixed order so the reported error is deterministic:
// presence, format, past-date, ordering. Format is checked before any date
// comparison so malformed input never reaches date arithmetic. "Today" is the
// UTC calendar day of now; booking for today is allowed.
func ParseRange(startRaw, endRaw string, now time.Time) (DateRange, error) {
	if startRaw == "" {
		return DateRange{}, &ValidationError{Field: "start_date", Err: ErrMissingField}
	}
	if endRaw == "" {
		return DateRange{}, &ValidationError{Field: "end_date", Err: ErrMissingField}
	}

	start, err := ParseDate(startRaw)
	if err != nil {
		return DateRange{}, &ValidationError{Field: "start_date", Err: err}
	}
	end, err := ParseDate(endRaw)
	if err != nil {
		return DateRange{}, &ValidationError{Field: "end_date", Err: err}
	}

	today := Day(now)
	if start.Before(today) {
		return DateRange{}, &ValidationError{Field: "start_date", Err: ErrPastDate}
	}
	if end.Before(today) {
		return DateRange{}, &ValidationError{Field: "end_date", Err: ErrPastDate}
	}

	if start.After(end) {
		return DateRange{}, &ValidationError{Field: "start_date", Err: ErrInvertedRange}
	}
	return DateRange{Start: start, End: end}, nil
}
