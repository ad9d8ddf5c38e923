package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		got, err := ParseDate("2025-01-15")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
		if !got.Equal(want) {
			t.Errorf("got %v, want %v", got, want)
		}
	})

	t.Run("empty defaults to today", func(t *testing.T) {
		got, err := ParseDate("")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		today := TruncateToDay(time.Now())
		if !got.Equal(today) {
			t.Errorf("got %v, want %v", got, today)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := ParseDate("01-15-2025")
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
		}
	})
}

func TestWeekRange(t *testing.T) {
	tests := []struct {
		name       string
		input      time.Time
		wantMonday time.Time
		wantSunday time.Time
	}{
		{
			name:       "Monday input returns same Monday",
			input:      time.Date(2025, 1, 6, 10, 30, 0, 0, time.UTC),
			wantMonday: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
			wantSunday: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "Sunday returns previous Monday and same Sunday",
			input:      time.Date(2025, 1, 12, 23, 59, 0, 0, time.UTC),
			wantMonday: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC),
			wantSunday: time.Date(2025, 1, 12, 0, 0, 0, 0, time.UTC),
		},
		{
			name:       "week spanning a month boundary",
			input:      time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC), // Saturday
			wantMonday: time.Date(2025, 2, 24, 0, 0, 0, 0, time.UTC),
			wantSunday: time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotMonday, gotSunday := WeekRange(tt.input)
			if !gotMonday.Equal(tt.wantMonday) {
				t.Errorf("monday: got %v, want %v", gotMonday, tt.wantMonday)
			}
			if !gotSunday.Equal(tt.wantSunday) {
				t.Errorf("sunday: got %v, want %v", gotSunday, tt.wantSunday)
			}
		})
	}
}

func TestWeekdayOffset(t *testing.T) {
	tests := []struct {
		name    string
		want    int
		wantErr bool
	}{
		{"monday", 0, false},
		{"Wednesday", 2, false},
		{" SUNDAY ", 6, false},
		{"someday", 0, true},
	}
	for _, tt := range tests {
		got, err := WeekdayOffset(tt.name)
		if tt.wantErr {
			if !errors.Is(err, ErrUnknownWeekday) {
				t.Errorf("WeekdayOffset(%q) error = %v, want ErrUnknownWeekday", tt.name, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("WeekdayOffset(%q) = %d, %v; want %d", tt.name, got, err, tt.want)
		}
	}

	for i, name := range Weekdays {
		date := time.Date(2025, 1, 6+i, 12, 0, 0, 0, time.UTC)
		if got := WeekdayName(date); got != name {
			t.Errorf("WeekdayName(%v) = %q, want %q", date, got, name)
		}
	}
}

func TestParseRelativeDate(t *testing.T) {
	// Reference date: Friday, January 10, 2025
	friday := time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		input string
		want  time.Time
	}{
		{"", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
		{"today", time.Date(2025, 1, 10, 0, 0, 0, 0, time.UTC)},
		{"Tomorrow", time.Date(2025, 1, 11, 0, 0, 0, 0, time.UTC)},
		{"yesterday", time.Date(2025, 1, 9, 0, 0, 0, 0, time.UTC)},
		{"next-week", time.Date(2025, 1, 17, 0, 0, 0, 0, time.UTC)},
		{"monday", time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)},
		{"next-tuesday", time.Date(2025, 1, 14, 0, 0, 0, 0, time.UTC)},
		{"2024-12-31", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRelativeDate(tt.input, friday)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	for _, bad := range []string{"next-someday", "15/01/2025", "soon"} {
		if _, err := ParseRelativeDate(bad, friday); !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("ParseRelativeDate(%q) error = %v, want ErrInvalidDateFormat", bad, err)
		}
	}
}

func TestClock(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"07:00", 420, false},
		{"20:30", 1230, false},
		{"00:00", 0, false},
		{"7:00", 0, true},
		{"25:00", 0, true},
		{"ab:cd", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseClock(tt.in)
		if tt.wantErr {
			if !errors.Is(err, ErrInvalidClockFormat) {
				t.Errorf("ParseClock(%q) error = %v, want ErrInvalidClockFormat", tt.in, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("ParseClock(%q) = %d, %v; want %d", tt.in, got, err, tt.want)
		}
		if back := FormatClock(got); back != tt.in {
			t.Errorf("FormatClock(%d) = %q, want %q", got, back, tt.in)
		}
	}

	if got := FormatClock(-5); got != "00:00" {
		t.Errorf("FormatClock(-5) = %q", got)
	}
	if got := FormatClock(24 * 60); got != "23:59" {
		t.Errorf("FormatClock(1440) = %q", got)
	}
}

func TestAt(t *testing.T) {
	date := time.Date(2025, 1, 31, 18, 45, 0, 0, time.UTC)
	got := At(date, 8*60+30)
	want := time.Date(2025, 1, 31, 8, 30, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("At() = %v, want %v", got, want)
	}
	if MinuteOfDay(got) != 510 {
		t.Errorf("MinuteOfDay() = %d, want 510", MinuteOfDay(got))
	}
}
