package dateutil

import (
	"testing"
	"time"
)

func TestStartOfDay(t *testing.T) {
	input := time.Date(2025, 1, 15, 14, 30, 45, 123456789, time.UTC)
	expected := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	result := StartOfDay(input)

	if !result.Equal(expected) {
		t.Errorf("StartOfDay(%v) = %v, want %v", input, result, expected)
	}
}

func TestContainsWeekday(t *testing.T) {
	tests := []struct {
		name string
		set  []time.Weekday
		day  time.Weekday
		want bool
	}{
		{"Saturday in default weekend", DefaultWeekend, time.Saturday, true},
		{"Sunday in default weekend", DefaultWeekend, time.Sunday, true},
		{"Monday not in default weekend", DefaultWeekend, time.Monday, false},
		{"Empty set", nil, time.Sunday, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContainsWeekday(tt.set, tt.day); got != tt.want {
				t.Errorf("ContainsWeekday(%v, %v) = %v, want %v", tt.set, tt.day, got, tt.want)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    time.Time
		wantErr bool
	}{
		{
			"ISO format YYYY-MM-DD",
			"2025-01-15",
			time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			false,
		},
		{
			"Russian format DD.MM.YYYY",
			"15.01.2025",
			time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			false,
		},
		{
			"Dotted ISO YYYY.MM.DD",
			"2025.01.15",
			time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			false,
		},
		{
			"ISO with time",
			"2025-01-15T10:30:00",
			time.Date(2025, 1, 15, 10, 30, 0, 0, time.UTC),
			false,
		},
		{
			"Surrounding spaces",
			"  2025-01-15 ",
			time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC),
			false,
		},
		{"Empty string", "", time.Time{}, true},
		{"Garbage", "next tuesday", time.Time{}, true},
		{"Impossible date", "2025-02-30", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseDateIn(tt.input, time.UTC)

			if (err != nil) != tt.wantErr {
				t.Errorf("ParseDateIn(%v) error = %v, wantErr %v", tt.input, err, tt.wantErr)
				return
			}

			if !tt.wantErr && !result.Equal(tt.want) {
				t.Errorf("ParseDateIn(%v) = %v, want %v", tt.input, result, tt.want)
			}
		})
	}
}

func TestParseDateUsesLocalZone(t *testing.T) {
	result, err := ParseDate("2025-01-15")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if result.Location() != time.Local {
		t.Errorf("ParseDate() location = %v, want Local", result.Location())
	}
}

func TestParseWeekdays(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []time.Weekday
		wantErr bool
	}{
		{"Numbers", "6,0", []time.Weekday{time.Saturday, time.Sunday}, false},
		{"Names", "Sat, sun", []time.Weekday{time.Saturday, time.Sunday}, false},
		{"Full names", "thursday,friday", []time.Weekday{time.Thursday, time.Friday}, false},
		{"Duplicates collapsed", "0,sun,0", []time.Weekday{time.Sunday}, false},
		{"Empty means none", "", []time.Weekday{}, false},
		{"Only separators means none", ",", []time.Weekday{}, false},
		{"Blank items means none", " , ,", []time.Weekday{}, false},
		{"Out of range", "7", nil, true},
		{"Unknown name", "funday", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWeekdays(tt.input)

			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseWeekdays(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if got == nil {
				t.Fatalf("ParseWeekdays(%q) = nil, want a non-nil set", tt.input)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("ParseWeekdays(%q) = %v, want %v", tt.input, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("ParseWeekdays(%q)[%d] = %v, want %v", tt.input, i, got[i], tt.want[i])
				}
			}
		})
	}
}
