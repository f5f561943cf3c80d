package calendar

import "time"

// DayType is the day classification code used by the xmlcalendar feed
type DayType int

const (
	// Weekend is a non-working day: an ordinary or moved weekend, or a holiday
	Weekend DayType = iota + 1
	// ShortDay is a working day with reduced hours (pre-holiday)
	ShortDay
	// WorkingDay is a full working day that would otherwise be a weekend
	WorkingDay
)

func (t DayType) String() string {
	switch t {
	case Weekend:
		return "weekend"
	case ShortDay:
		return "short"
	case WorkingDay:
		return "working"
	default:
		return "unknown"
	}
}

// DayRecord is one published date of a year calendar
type DayRecord struct {
	Date        Date
	Type        DayType
	HolidayName string
	// MovedFrom is set when the weekend was moved to Date from this day,
	// which becomes a working day instead.
	MovedFrom *Date
}

// YearCalendar holds the published records of one (country, locale, year).
// It is not modified after Parse returns.
type YearCalendar struct {
	Year     int
	Days     map[Date]DayRecord
	Holidays map[string]string // holiday id -> title
	MovedTo  map[Date]Date     // moved-from date -> moved-to date
}

// Record returns the published record for d, if any
func (yc *YearCalendar) Record(d Date) (DayRecord, bool) {
	rec, ok := yc.Days[d]
	return rec, ok
}

// Kind is the derived classification of a day, published or not
type Kind int

const (
	KindWorkday Kind = iota + 1
	KindWeekend
	KindHoliday
	KindShortened
)

func (k Kind) String() string {
	switch k {
	case KindWorkday:
		return "workday"
	case KindWeekend:
		return "weekend"
	case KindHoliday:
		return "holiday"
	case KindShortened:
		return "shortened"
	default:
		return "unknown"
	}
}

const (
	fullDayHours  = 8
	shortDayHours = 7
)

// DayInfo represents information about a specific day
type DayInfo struct {
	Date         Date
	Kind         Kind
	WorkingHours int
	IsWorkday    bool
	Note         string // holiday name
	MovedFrom    *Date
	MovedTo      *Date
}

// MonthInfo represents calendar information for a month
type MonthInfo struct {
	Year         int
	Month        time.Month
	WorkingHours int // Total working hours in the month
	WorkDays     int // Full and short working days
	ShortDays    int
	Weekends     int
	Holidays     int
	Days         []DayInfo
}
