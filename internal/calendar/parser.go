package calendar

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

const rootElement = "calendar"

// rawDay is a <day> element as published: d="MM.DD" t="1|2|3" h="id" f="MM.DD"
type rawDay struct {
	d, t, h, f string
}

// Parse turns one year's xmlcalendar document into a YearCalendar.
//
// Document shape:
//
//	<calendar year="2025" lang="ru" date="2024.09.10" country="ru">
//	  <holidays><holiday id="1" title="Новогодние каникулы"/></holidays>
//	  <days><day d="01.01" t="1" h="1"/><day d="11.03" t="1" f="11.01"/></days>
//	</calendar>
func Parse(content string, year int) (*YearCalendar, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: empty content", ErrFormat)
	}
	if year <= 0 {
		return nil, fmt.Errorf("%w: calendar year is not set", ErrFormat)
	}

	holidays, days, declaredYear, err := scanDocument(content)
	if err != nil {
		return nil, err
	}

	if declaredYear == "" {
		return nil, fmt.Errorf("%w: root element has no year attribute", ErrFormat)
	}
	docYear, err := strconv.Atoi(strings.TrimSpace(declaredYear))
	if err != nil {
		return nil, fmt.Errorf("%w: invalid year attribute %q", ErrFormat, declaredYear)
	}
	if docYear != year {
		return nil, fmt.Errorf("%w: document year %d does not match requested year %d", ErrFormat, docYear, year)
	}

	yc := &YearCalendar{
		Year:     year,
		Days:     make(map[Date]DayRecord, len(days)),
		Holidays: holidays,
		MovedTo:  make(map[Date]Date),
	}

	for _, raw := range days {
		date, err := fragmentDate(year, raw.d)
		if err != nil {
			return nil, err
		}

		dayType, err := parseDayType(raw.t)
		if err != nil {
			return nil, fmt.Errorf("%w: day %s: %v", ErrFormat, raw.d, err)
		}

		rec := DayRecord{
			Date: date,
			Type: dayType,
		}
		if raw.h != "" {
			rec.HolidayName = holidays[raw.h]
		}

		if raw.f != "" {
			from, err := fragmentDate(year, raw.f)
			if err != nil {
				return nil, err
			}
			rec.MovedFrom = &from
			yc.MovedTo[from] = date
		}

		// Duplicates: last write wins.
		yc.Days[date] = rec
	}

	if len(yc.Days) == 0 {
		return nil, fmt.Errorf("%w: calendar %d has no days", ErrFormat, year)
	}

	return yc, nil
}

// scanDocument walks the token stream once, validating the root and
// collecting holiday and day elements found anywhere under it.
func scanDocument(content string) (map[string]string, []rawDay, string, error) {
	dec := xml.NewDecoder(strings.NewReader(content))

	holidays := make(map[string]string)
	var days []rawDay
	var declaredYear string
	roots := 0
	calendars := 0
	depth := 0

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, "", fmt.Errorf("%w: %v", ErrFormat, err)
		}

		switch el := tok.(type) {
		case xml.StartElement:
			name := el.Name.Local
			if depth == 0 {
				roots++
				if name != rootElement {
					return nil, nil, "", fmt.Errorf("%w: unexpected root element <%s>", ErrFormat, name)
				}
			}
			depth++

			switch name {
			case rootElement:
				calendars++
				if calendars == 1 {
					declaredYear = attr(el, "year")
				}
			case "holiday":
				// a holiday without an id cannot be referenced by any day
				if id := attr(el, "id"); id != "" {
					holidays[id] = attr(el, "title")
				}
			case "day":
				days = append(days, rawDay{
					d: attr(el, "d"),
					t: attr(el, "t"),
					h: attr(el, "h"),
					f: attr(el, "f"),
				})
			}
		case xml.EndElement:
			depth--
		}
	}

	if roots == 0 {
		return nil, nil, "", fmt.Errorf("%w: no root element", ErrFormat)
	}
	if calendars != 1 || roots != 1 {
		return nil, nil, "", fmt.Errorf("%w: expected exactly one <%s> element, found %d", ErrFormat, rootElement, calendars)
	}

	return holidays, days, declaredYear, nil
}

func attr(el xml.StartElement, name string) string {
	for _, a := range el.Attr {
		if a.Name.Local == name {
			return a.Value
		}
	}
	return ""
}

// fragmentDate builds a full date from year and a "MM.DD" fragment
func fragmentDate(year int, fragment string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(fragment), ".")
	if len(parts) != 2 {
		return Date{}, fmt.Errorf("%w: invalid month-day fragment %q", ErrFormat, fragment)
	}

	month, err1 := strconv.Atoi(parts[0])
	day, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil {
		return Date{}, fmt.Errorf("%w: invalid month-day fragment %q", ErrFormat, fragment)
	}

	d := Date{Year: year, Month: time.Month(month), Day: day}
	if !d.valid() {
		return Date{}, fmt.Errorf("%w: no such date %d.%s", ErrFormat, year, fragment)
	}
	return d, nil
}

func parseDayType(code string) (DayType, error) {
	switch strings.TrimSpace(code) {
	case "1":
		return Weekend, nil
	case "2":
		return ShortDay, nil
	case "3":
		return WorkingDay, nil
	default:
		return 0, fmt.Errorf("unknown day type %q", code)
	}
}
