package calendar

import (
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestParse_Fixture2025(t *testing.T) {
	yc, err := Parse(readFixture(t, "testdata/ru/2025/calendar.xml"), 2025)
	require.NoError(t, err)

	assert.Equal(t, 2025, yc.Year)
	assert.Len(t, yc.Days, 22)
	assert.Len(t, yc.Holidays, 8)

	rec, ok := yc.Record(Date{Year: 2025, Month: time.March, Day: 8})
	require.True(t, ok)
	assert.Equal(t, Weekend, rec.Type)
	assert.Equal(t, "Международный женский день", rec.HolidayName)
	assert.Nil(t, rec.MovedFrom)

	rec, ok = yc.Record(Date{Year: 2025, Month: time.March, Day: 7})
	require.True(t, ok)
	assert.Equal(t, ShortDay, rec.Type)
	assert.Empty(t, rec.HolidayName)

	rec, ok = yc.Record(Date{Year: 2025, Month: time.November, Day: 3})
	require.True(t, ok)
	require.NotNil(t, rec.MovedFrom)
	assert.Equal(t, Date{Year: 2025, Month: time.November, Day: 1}, *rec.MovedFrom)

	assert.Equal(t, map[Date]Date{
		{Year: 2025, Month: time.January, Day: 4}:  {Year: 2025, Month: time.May, Day: 2},
		{Year: 2025, Month: time.November, Day: 1}: {Year: 2025, Month: time.November, Day: 3},
		{Year: 2025, Month: time.January, Day: 5}:  {Year: 2025, Month: time.December, Day: 31},
	}, yc.MovedTo)

	_, ok = yc.Record(Date{Year: 2025, Month: time.December, Day: 1})
	assert.False(t, ok)
}

func TestParse_RecordsBelongToRequestedYear(t *testing.T) {
	for _, year := range []int{2024, 2025, 2026} {
		content := readFixture(t, fmt.Sprintf("testdata/ru/%d/calendar.xml", year))
		yc, err := Parse(content, year)
		require.NoError(t, err)

		for date, rec := range yc.Days {
			assert.Equal(t, year, date.Year)
			assert.Equal(t, date, rec.Date)
		}
	}
}

func TestParse_Elements(t *testing.T) {
	tests := []struct {
		name    string
		content string
		check   func(t *testing.T, yc *YearCalendar)
	}{
		{
			name: "Holidays declared after days",
			content: `<calendar year="2025"><days><day d="01.01" t="1" h="1"/></days>
				<holidays><holiday id="1" title="New Year"/></holidays></calendar>`,
			check: func(t *testing.T, yc *YearCalendar) {
				assert.Equal(t, "New Year", yc.Days[Date{2025, time.January, 1}].HolidayName)
			},
		},
		{
			name:    "Unresolved holiday id yields empty name",
			content: `<calendar year="2025"><days><day d="01.01" t="1" h="9"/></days></calendar>`,
			check: func(t *testing.T, yc *YearCalendar) {
				assert.Empty(t, yc.Days[Date{2025, time.January, 1}].HolidayName)
			},
		},
		{
			name: "Holiday without id is not matched by days without h",
			content: `<calendar year="2025"><holidays><holiday title="Ghost"/></holidays>
				<days><day d="01.04" t="1"/><day d="01.05" t="1" h=""/></days></calendar>`,
			check: func(t *testing.T, yc *YearCalendar) {
				assert.Empty(t, yc.Days[Date{2025, time.January, 4}].HolidayName)
				assert.Empty(t, yc.Days[Date{2025, time.January, 5}].HolidayName)
				assert.Empty(t, yc.Holidays)
			},
		},
		{
			name: "Duplicate date keeps last record",
			content: `<calendar year="2025"><days>
				<day d="05.02" t="2"/><day d="05.02" t="1" f="01.04"/></days></calendar>`,
			check: func(t *testing.T, yc *YearCalendar) {
				require.Len(t, yc.Days, 1)
				rec := yc.Days[Date{2025, time.May, 2}]
				assert.Equal(t, Weekend, rec.Type)
				require.NotNil(t, rec.MovedFrom)
			},
		},
		{
			name:    "Elements without wrappers",
			content: `<calendar year="2025"><holiday id="1" title="X"/><day d="12.31" t="3"/></calendar>`,
			check: func(t *testing.T, yc *YearCalendar) {
				assert.Equal(t, WorkingDay, yc.Days[Date{2025, time.December, 31}].Type)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yc, err := Parse(tt.content, 2025)
			require.NoError(t, err)
			tt.check(t, yc)
		})
	}
}

func TestParse_FormatErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		year    int
	}{
		{"Empty content", "", 2025},
		{"Whitespace content", "  \n ", 2025},
		{"Malformed XML", `<calendar year="2025"><days><day d="01.01" t="1"></days></calendar>`, 2025},
		{"Unclosed root", `<calendar year="2025"><days>`, 2025},
		{"Not XML", "year=2025", 2025},
		{"Wrong root", `<holidays year="2025"><day d="01.01" t="1"/></holidays>`, 2025},
		{"Two roots", `<calendar year="2025"><day d="01.01" t="1"/></calendar><calendar year="2025"/>`, 2025},
		{"Nested calendar", `<calendar year="2025"><calendar year="2025"/><day d="01.01" t="1"/></calendar>`, 2025},
		{"Missing year attribute", `<calendar><day d="01.01" t="1"/></calendar>`, 2025},
		{"Unparseable year", `<calendar year="twenty"><day d="01.01" t="1"/></calendar>`, 2025},
		{"Year mismatch", `<calendar year="2024"><day d="01.01" t="1"/></calendar>`, 2025},
		{"Requested year unset", `<calendar year="2025"><day d="01.01" t="1"/></calendar>`, 0},
		{"No days", `<calendar year="2025"><holidays><holiday id="1" title="X"/></holidays></calendar>`, 2025},
		{"Bad day fragment", `<calendar year="2025"><day d="0101" t="1"/></calendar>`, 2025},
		{"Impossible day", `<calendar year="2025"><day d="02.30" t="1"/></calendar>`, 2025},
		{"Bad moved-from fragment", `<calendar year="2025"><day d="01.01" t="1" f="x"/></calendar>`, 2025},
		{"Unknown day type", `<calendar year="2025"><day d="01.01" t="7"/></calendar>`, 2025},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yc, err := Parse(tt.content, tt.year)
			require.Error(t, err)
			assert.Nil(t, yc)
			assert.True(t, errors.Is(err, ErrFormat), "got %v", err)
		})
	}
}
