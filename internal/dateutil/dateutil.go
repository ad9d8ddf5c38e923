// Package dateutil provides date, weekday and wall-clock helpers shared by the
// timetable, the CLI and the board.
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrInvalidDateFormat  = errors.New("date must be in YYYY-MM-DD format")
	ErrInvalidClockFormat = errors.New("time must be in HH:MM format")
	ErrUnknownWeekday     = errors.New("unknown weekday")
)

// Weekdays lists the weekday keys of a timetable, Monday first.
var Weekdays = []string{
	"monday",
	"tuesday",
	"wednesday",
	"thursday",
	"friday",
	"saturday",
	"sunday",
}

// weekdayMap maps weekday names to time.Weekday values.
var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// WeekdayOffset returns the offset of a weekday from Monday (Monday=0, Sunday=6).
// Names are matched case-insensitively.
func WeekdayOffset(name string) (int, error) {
	wd, ok := weekdayMap[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownWeekday, name)
	}
	return (int(wd) + 6) % 7, nil
}

// WeekdayName returns the timetable key for t's weekday.
func WeekdayName(t time.Time) string {
	return Weekdays[(int(t.Weekday())+6)%7]
}

// ParseDate parses a date string in YYYY-MM-DD format.
// If the string is empty, returns today's date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return TruncateToDay(time.Now()), nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// FormatDate formats t as YYYY-MM-DD.
func FormatDate(t time.Time) string {
	return t.Format("2006-01-02")
}

// WeekRange returns the Monday and Sunday of the ISO week containing t.
func WeekRange(t time.Time) (monday, sunday time.Time) {
	t = TruncateToDay(t)
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday becomes day 7 in ISO week
	}
	monday = t.AddDate(0, 0, -(weekday - 1))
	sunday = monday.AddDate(0, 0, 6)
	return monday, sunday
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseRelativeDate parses a date string that can be:
//   - Empty string or "today": returns relativeTo date
//   - Absolute date: "2025-01-15" (YYYY-MM-DD)
//   - Keywords: "tomorrow", "yesterday", "next-week"
//   - Weekday names: "monday" through "sunday" (that day in relativeTo's week)
//   - Next prefixed: "next-monday" through "next-sunday"
//
// All inputs are case-insensitive. Past dates are allowed: timetables are
// edited for the displayed week, not only for the future.
func ParseRelativeDate(s string, relativeTo time.Time) (time.Time, error) {
	today := TruncateToDay(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return today, nil
	case "tomorrow":
		return today.AddDate(0, 0, 1), nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	case "next-week":
		return today.AddDate(0, 0, 7), nil
	}

	if name, ok := strings.CutPrefix(input, "next-"); ok {
		offset, err := WeekdayOffset(name)
		if err != nil {
			return time.Time{}, ErrInvalidDateFormat
		}
		monday, _ := WeekRange(today)
		return monday.AddDate(0, 0, 7+offset), nil
	}

	if offset, err := WeekdayOffset(input); err == nil {
		monday, _ := WeekRange(today)
		return monday.AddDate(0, 0, offset), nil
	}

	result, err := time.Parse("2006-01-02", input)
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return result, nil
}

// ParseClock converts "HH:MM" to minutes since midnight.
func ParseClock(s string) (int, error) {
	s = strings.TrimSpace(s)
	if len(s) != 5 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockFormat, s)
	}
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidClockFormat, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock converts minutes since midnight to "HH:MM".
// Values are clamped to a single day.
func FormatClock(m int) string {
	if m < 0 {
		m = 0
	}
	if m >= 24*60 {
		m = 24*60 - 1
	}
	return fmt.Sprintf("%02d:%02d", m/60, m%60)
}

// MinuteOfDay returns the minutes elapsed since midnight for t.
func MinuteOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}

// At returns the instant minutes after midnight on date's day.
func At(date time.Time, minutes int) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, minutes, 0, 0, date.Location())
}
