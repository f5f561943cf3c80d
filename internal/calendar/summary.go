package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/username/work-calendar/pkg/dateutil"
)

// DayInfo returns detailed info for a specific day
func (c *WorkCalendar) DayInfo(ctx context.Context, d Date, weekend ...time.Weekday) (*DayInfo, error) {
	rec, ok, err := c.record(ctx, d)
	if err != nil {
		return nil, err
	}

	info := &DayInfo{Date: d}

	switch {
	case ok && rec.Type == Weekend:
		info.Kind = KindWeekend
		if rec.HolidayName != "" {
			info.Kind = KindHoliday
		}
	case ok && rec.Type == ShortDay:
		info.Kind = KindShortened
		info.WorkingHours = shortDayHours
		info.IsWorkday = true
	case ok && rec.Type == WorkingDay:
		info.Kind = KindWorkday
		info.WorkingHours = fullDayHours
		info.IsWorkday = true
	case dateutil.ContainsWeekday(weekendSet(weekend), d.Weekday()):
		info.Kind = KindWeekend
	default:
		info.Kind = KindWorkday
		info.WorkingHours = fullDayHours
		info.IsWorkday = true
	}

	if ok {
		info.Note = rec.HolidayName
		info.MovedFrom = rec.MovedFrom
	}
	if to, moved := c.movedToOf(d); moved {
		info.MovedTo = &to
	}

	return info, nil
}

// MonthInfo returns calendar info for the entire month
func (c *WorkCalendar) MonthInfo(ctx context.Context, year int, month time.Month, weekend ...time.Weekday) (*MonthInfo, error) {
	if month < time.January || month > time.December {
		return nil, fmt.Errorf("%w: month %d", ErrInvalidDate, month)
	}

	daysInMonth := time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()

	monthInfo := &MonthInfo{
		Year:  year,
		Month: month,
		Days:  make([]DayInfo, 0, daysInMonth),
	}

	for day := 1; day <= daysInMonth; day++ {
		info, err := c.DayInfo(ctx, Date{Year: year, Month: month, Day: day}, weekend...)
		if err != nil {
			return nil, err
		}

		switch info.Kind {
		case KindWorkday:
			monthInfo.WorkDays++
		case KindShortened:
			monthInfo.WorkDays++
			monthInfo.ShortDays++
		case KindWeekend:
			monthInfo.Weekends++
		case KindHoliday:
			monthInfo.Holidays++
		}
		monthInfo.WorkingHours += info.WorkingHours
		monthInfo.Days = append(monthInfo.Days, *info)
	}

	return monthInfo, nil
}
