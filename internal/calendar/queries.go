package calendar

import (
	"context"
	"fmt"
	"time"

	"github.com/username/work-calendar/pkg/dateutil"
)

// weekendSet applies the Saturday/Sunday default when no weekdays are given.
// An explicit empty slice means no weekday is a weekend.
func weekendSet(weekend []time.Weekday) []time.Weekday {
	if weekend == nil {
		return dateutil.DefaultWeekend
	}
	return weekend
}

// IsHoliday reports whether d is a named public holiday
func (c *WorkCalendar) IsHoliday(ctx context.Context, d Date) (bool, error) {
	rec, ok, err := c.record(ctx, d)
	if err != nil {
		return false, err
	}
	return ok && rec.Type == Weekend && rec.HolidayName != "", nil
}

// HolidayName returns the holiday name of d, or "" when it has none
func (c *WorkCalendar) HolidayName(ctx context.Context, d Date) (string, error) {
	rec, ok, err := c.record(ctx, d)
	if err != nil || !ok {
		return "", err
	}
	return rec.HolidayName, nil
}

// IsWeekend reports whether d is a non-working day.
// Unpublished days fall back to the weekday set (default Saturday, Sunday).
func (c *WorkCalendar) IsWeekend(ctx context.Context, d Date, weekend ...time.Weekday) (bool, error) {
	rec, ok, err := c.record(ctx, d)
	if err != nil {
		return false, err
	}
	if ok {
		return rec.Type == Weekend, nil
	}
	return dateutil.ContainsWeekday(weekendSet(weekend), d.Weekday()), nil
}

// IsShortWorkingDay reports whether d is a published pre-holiday short day
func (c *WorkCalendar) IsShortWorkingDay(ctx context.Context, d Date) (bool, error) {
	rec, ok, err := c.record(ctx, d)
	if err != nil {
		return false, err
	}
	return ok && rec.Type == ShortDay, nil
}

// IsFullWorkingDay reports whether d is a full-length working day
func (c *WorkCalendar) IsFullWorkingDay(ctx context.Context, d Date, weekend ...time.Weekday) (bool, error) {
	rec, ok, err := c.record(ctx, d)
	if err != nil {
		return false, err
	}
	if ok {
		return rec.Type == WorkingDay, nil
	}
	return !dateutil.ContainsWeekday(weekendSet(weekend), d.Weekday()), nil
}

// IsWorkingDay reports whether d is a full or short working day
func (c *WorkCalendar) IsWorkingDay(ctx context.Context, d Date, weekend ...time.Weekday) (bool, error) {
	full, err := c.IsFullWorkingDay(ctx, d, weekend...)
	if err != nil || full {
		return full, err
	}
	return c.IsShortWorkingDay(ctx, d)
}

// NextWorkingDay returns the first working day strictly after d
func (c *WorkCalendar) NextWorkingDay(ctx context.Context, d Date, weekend ...time.Weekday) (Date, error) {
	for i := 1; i <= c.maxLookahead; i++ {
		next := d.AddDays(i)
		ok, err := c.IsWorkingDay(ctx, next, weekend...)
		if err != nil {
			return Date{}, err
		}
		if ok {
			return next, nil
		}
	}
	return Date{}, fmt.Errorf("%w: %d days after %s", ErrNoWorkingDayFound, c.maxLookahead, d)
}

// WeekendRun returns the consecutive non-working days around d.
// With includeBackward the run starts at its first day; otherwise it holds
// the days of the run after d. It is empty when d is a working day.
func (c *WorkCalendar) WeekendRun(ctx context.Context, d Date, includeBackward bool, weekend ...time.Weekday) ([]Date, error) {
	return c.run(d, includeBackward, func(day Date) (bool, error) {
		return c.IsWeekend(ctx, day, weekend...)
	})
}

// HolidayRun is WeekendRun for named holidays
func (c *WorkCalendar) HolidayRun(ctx context.Context, d Date, includeBackward bool) ([]Date, error) {
	return c.run(d, includeBackward, func(day Date) (bool, error) {
		return c.IsHoliday(ctx, day)
	})
}

func (c *WorkCalendar) run(d Date, includeBackward bool, in func(Date) (bool, error)) ([]Date, error) {
	ok, err := in(d)
	if err != nil {
		return nil, err
	}
	if !ok {
		return []Date{}, nil
	}

	start := d
	if includeBackward {
		for steps := 0; ; steps++ {
			if steps >= c.maxLookahead {
				return nil, fmt.Errorf("%w: more than %d days before %s", ErrRunUnbounded, c.maxLookahead, d)
			}
			prev := start.AddDays(-1)
			ok, err := in(prev)
			if err != nil {
				return nil, err
			}
			if !ok {
				break
			}
			start = prev
		}
	}

	days := []Date{}
	if includeBackward {
		days = append(days, start)
	}

	for cur := start; ; {
		if len(days) >= c.maxLookahead {
			return nil, fmt.Errorf("%w: more than %d days from %s", ErrRunUnbounded, c.maxLookahead, start)
		}
		next := cur.AddDays(1)
		ok, err := in(next)
		if err != nil {
			return nil, err
		}
		if !ok {
			break
		}
		days = append(days, next)
		cur = next
	}

	return days, nil
}

// WeekendMovedFrom returns the day the weekend on d was moved from.
// That day became a working day.
func (c *WorkCalendar) WeekendMovedFrom(ctx context.Context, d Date) (Date, bool, error) {
	rec, ok, err := c.record(ctx, d)
	if err != nil || !ok || rec.MovedFrom == nil {
		return Date{}, false, err
	}
	return *rec.MovedFrom, true, nil
}

// WeekendMovedTo returns the day the weekend on d was moved to.
// Only years loaded so far are indexed; d's own year is loaded first.
func (c *WorkCalendar) WeekendMovedTo(ctx context.Context, d Date) (Date, bool, error) {
	if _, err := c.Year(ctx, d.Year); err != nil {
		return Date{}, false, err
	}
	to, ok := c.movedToOf(d)
	return to, ok, nil
}
