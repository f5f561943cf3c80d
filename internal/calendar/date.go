package calendar

import (
	"fmt"
	"time"

	"github.com/username/work-calendar/pkg/dateutil"
)

// ISODate is the default output layout
const ISODate = "2006-01-02"

// Date is a calendar day without time or zone.
// It is comparable and used as the key of every calendar map.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate normalizes out-of-range values the way time.Date does
func NewDate(year int, month time.Month, day int) Date {
	return DateOf(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// DateOf returns the calendar day of t in t's own location
func DateOf(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// ParseDateInput converts a caller supplied date into a Date.
// Accepted forms: a date string understood by dateutil.ParseDate,
// a Unix timestamp (int, int64) read in the local zone, a time.Time,
// or a Date.
func ParseDateInput(v interface{}) (Date, error) {
	switch x := v.(type) {
	case Date:
		if !x.valid() {
			return Date{}, fmt.Errorf("%w: %v", ErrInvalidDate, x)
		}
		return x, nil
	case time.Time:
		if x.IsZero() {
			return Date{}, fmt.Errorf("%w: zero time", ErrInvalidDate)
		}
		return DateOf(x), nil
	case *time.Time:
		if x == nil || x.IsZero() {
			return Date{}, fmt.Errorf("%w: zero time", ErrInvalidDate)
		}
		return DateOf(*x), nil
	case int64:
		return DateOf(time.Unix(x, 0).In(time.Local)), nil
	case int:
		return DateOf(time.Unix(int64(x), 0).In(time.Local)), nil
	case string:
		t, err := dateutil.ParseDate(x)
		if err != nil {
			return Date{}, fmt.Errorf("%w: %v", ErrInvalidDate, err)
		}
		return DateOf(t), nil
	default:
		return Date{}, fmt.Errorf("%w: unsupported type %T", ErrInvalidDate, v)
	}
}

func (d Date) valid() bool {
	return d.Year > 0 && NewDate(d.Year, d.Month, d.Day) == d
}

// Time returns midnight UTC of d
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// AddDays returns d shifted by n days
func (d Date) AddDays(n int) Date {
	return DateOf(d.Time().AddDate(0, 0, n))
}

func (d Date) Weekday() time.Weekday {
	return d.Time().Weekday()
}

// Format renders d with a Go time layout; an empty layout means ISODate
func (d Date) Format(layout string) string {
	if layout == "" {
		layout = ISODate
	}
	return d.Time().Format(layout)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// FormatDates renders every date with layout
func FormatDates(dates []Date, layout string) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(layout)
	}
	return out
}
