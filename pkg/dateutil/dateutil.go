package dateutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultWeekend is the Saturday/Sunday weekend used when callers pass none
var DefaultWeekend = []time.Weekday{time.Saturday, time.Sunday}

// StartOfDay returns the start of the day (00:00:00) for the given date
func StartOfDay(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
}

// ContainsWeekday reports whether w is in the weekday set
func ContainsWeekday(set []time.Weekday, w time.Weekday) bool {
	for _, day := range set {
		if day == w {
			return true
		}
	}
	return false
}

// dateFormats lists accepted input layouts, most specific last
var dateFormats = []string{
	"2006-01-02",
	"02.01.2006",
	"2006.01.02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05-0700",
}

// ParseDate parses date string in various formats.
// Dates without an explicit offset are read in the local timezone.
func ParseDate(dateStr string) (time.Time, error) {
	return ParseDateIn(dateStr, time.Local)
}

// ParseDateIn is ParseDate with an explicit location for zone-less input
func ParseDateIn(dateStr string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(dateStr)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date string")
	}

	for _, format := range dateFormats {
		if t, err := time.ParseInLocation(format, s, loc); err == nil {
			return t, nil
		}
	}

	return time.Time{}, fmt.Errorf("unrecognized date format: %q", dateStr)
}

var weekdayNames = map[string]time.Weekday{
	"sun": time.Sunday, "sunday": time.Sunday,
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
}

// ParseWeekdays parses a comma separated weekday list.
// Items are either numbers (0=Sunday ... 6=Saturday) or English names.
// An empty string, or one with only separators, yields an empty non-nil set
// (no weekday is a weekend).
func ParseWeekdays(s string) ([]time.Weekday, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return []time.Weekday{}, nil
	}

	days := []time.Weekday{}
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}

		if n, err := strconv.Atoi(part); err == nil {
			if n < 0 || n > 6 {
				return nil, fmt.Errorf("weekday number out of range 0-6: %d", n)
			}
			days = appendUnique(days, time.Weekday(n))
			continue
		}

		w, ok := weekdayNames[part]
		if !ok {
			return nil, fmt.Errorf("unknown weekday: %q", part)
		}
		days = appendUnique(days, w)
	}

	return days, nil
}

func appendUnique(days []time.Weekday, w time.Weekday) []time.Weekday {
	if ContainsWeekday(days, w) {
		return days
	}
	return append(days, w)
}

// Today returns today's date (start of day)
func Today() time.Time {
	return StartOfDay(time.Now())
}
