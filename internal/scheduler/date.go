package scheduler

import (
	"errors"
	"fmt"
	"iter"
	"time"
)

// ErrInvalidSpan is returned when a span ends before it starts.
var ErrInvalidSpan = errors.New("end date is before start date")

// Date is a calendar date with no time-of-day or location. Two Dates are
// equal exactly when they name the same day.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return Date{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", s)
	}
	return DateOf(t), nil
}

// DateOf returns the calendar date of t in t's own location.
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// In returns midnight of d in loc.
func (d Date) In(loc *time.Location) time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// AddDays returns d shifted by n calendar days.
func (d Date) AddDays(n int) Date {
	return DateOf(d.In(time.UTC).AddDate(0, 0, n))
}

// Compare returns -1, 0 or +1 as d is before, equal to or after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return cmpInt(d.Year, o.Year)
	case d.Month != o.Month:
		return cmpInt(int(d.Month), int(o.Month))
	default:
		return cmpInt(d.Day, o.Day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }

// DaysUntil returns the number of days from d to o, negative when o is earlier.
func (d Date) DaysUntil(o Date) int {
	return int(o.In(time.UTC).Sub(d.In(time.UTC)).Hours() / 24)
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseDate(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func cmpInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// Span is an inclusive range of calendar dates.
type Span struct {
	Start Date
	End   Date
}

// NewSpan returns the span [start, end] or ErrInvalidSpan when end < start.
func NewSpan(start, end Date) (Span, error) {
	if end.Before(start) {
		return Span{}, fmt.Errorf("%s..%s: %w", start, end, ErrInvalidSpan)
	}
	return Span{Start: start, End: end}, nil
}

// Contains reports whether d lies within the span, bounds included.
func (s Span) Contains(d Date) bool {
	return !d.Before(s.Start) && !d.After(s.End)
}

// Len returns the number of days in the span.
func (s Span) Len() int {
	return s.Start.DaysUntil(s.End) + 1
}

// Days yields every date of the span in ascending order. Each iteration starts
// from Start again.
func (s Span) Days() iter.Seq[Date] {
	return func(yield func(Date) bool) {
		for d := s.Start; !d.After(s.End); d = d.AddDays(1) {
			if !yield(d) {
				return
			}
		}
	}
}
