// Package timeline holds the weekly timetable: per-day sequences of course and
// placeholder blocks covering a fixed hour axis, and the reflow engine that keeps
// them gapless while blocks are dragged within and between days.
package timeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/javiermolinar/pupitre/internal/dateutil"
)

// Axis errors.
var (
	ErrInvalidAxis = errors.New("invalid hour axis")
	ErrOffAxis     = errors.New("block does not fit the hour axis")
)

// Default axis bounds.
const (
	DefaultDayStart    = "07:00"
	DefaultDayEnd      = "20:00"
	DefaultTickMinutes = 30
)

// Axis is the ordered set of "HH:MM" ticks a day is laid out on.
// The covered span runs from the first to the last tick.
type Axis struct {
	start int // minutes since midnight
	end   int
	tick  int
}

// NewAxis builds an axis from start to end (inclusive) every tick minutes.
func NewAxis(start, end string, tickMinutes int) (Axis, error) {
	s, err := dateutil.ParseClock(start)
	if err != nil {
		return Axis{}, fmt.Errorf("%w: start: %w", ErrInvalidAxis, err)
	}
	e, err := dateutil.ParseClock(end)
	if err != nil {
		return Axis{}, fmt.Errorf("%w: end: %w", ErrInvalidAxis, err)
	}
	if tickMinutes <= 0 {
		return Axis{}, fmt.Errorf("%w: tick must be positive", ErrInvalidAxis)
	}
	if e <= s {
		return Axis{}, fmt.Errorf("%w: %s is not after %s", ErrInvalidAxis, end, start)
	}
	if (e-s)%tickMinutes != 0 {
		return Axis{}, fmt.Errorf("%w: %s..%s is not a multiple of %d minutes", ErrInvalidAxis, start, end, tickMinutes)
	}
	return Axis{start: s, end: e, tick: tickMinutes}, nil
}

// DefaultAxis returns the 07:00..20:00 axis with 30-minute ticks.
func DefaultAxis() Axis {
	return Axis{start: 7 * 60, end: 20 * 60, tick: DefaultTickMinutes}
}

// Start returns the first tick in minutes since midnight.
func (a Axis) Start() int { return a.start }

// End returns the last tick in minutes since midnight.
func (a Axis) End() int { return a.end }

// Tick returns the tick width in minutes.
func (a Axis) Tick() int { return a.tick }

// TickDuration returns the tick width.
func (a Axis) TickDuration() time.Duration {
	return time.Duration(a.tick) * time.Minute
}

// Span returns the minutes between the first and last tick.
func (a Axis) Span() int { return a.end - a.start }

// Slots returns how many tick-wide slots fill the span.
func (a Axis) Slots() int {
	if a.tick == 0 {
		return 0
	}
	return a.Span() / a.tick
}

// Ticks returns every tick as "HH:MM", first and last included.
func (a Axis) Ticks() []string {
	ticks := make([]string, 0, a.Slots()+1)
	for m := a.start; m <= a.end; m += a.tick {
		ticks = append(ticks, dateutil.FormatClock(m))
	}
	return ticks
}

// SlotsFor returns how many ticks a duration occupies, rounding up.
func (a Axis) SlotsFor(d time.Duration) int {
	mins := int(d / time.Minute)
	if mins <= 0 {
		return 0
	}
	return (mins + a.tick - 1) / a.tick
}

// String returns the axis as "07:00-20:00/30m".
func (a Axis) String() string {
	return fmt.Sprintf("%s-%s/%dm", dateutil.FormatClock(a.start), dateutil.FormatClock(a.end), a.tick)
}

// Week identifies the displayed week by its Monday.
type Week struct {
	Monday time.Time
}

// WeekOf returns the week containing t.
func WeekOf(t time.Time) Week {
	monday, _ := dateutil.WeekRange(t)
	return Week{Monday: monday}
}

// Date returns the calendar date offset days after Monday, normalized across
// month and year boundaries.
func (w Week) Date(offset int) time.Time {
	return w.Monday.AddDate(0, 0, offset)
}

// DayDate returns the date of the named weekday in this week.
func (w Week) DayDate(day string) (time.Time, error) {
	offset, err := dateutil.WeekdayOffset(day)
	if err != nil {
		return time.Time{}, err
	}
	return w.Date(offset), nil
}

// Next returns the following week.
func (w Week) Next() Week { return Week{Monday: w.Monday.AddDate(0, 0, 7)} }

// Prev returns the preceding week.
func (w Week) Prev() Week { return Week{Monday: w.Monday.AddDate(0, 0, -7)} }

// Sunday returns the last day of the week.
func (w Week) Sunday() time.Time { return w.Monday.AddDate(0, 0, 6) }

// Contains reports whether t falls on a day of this week.
func (w Week) Contains(t time.Time) bool {
	d := dateutil.TruncateToDay(t)
	return !d.Before(w.Monday) && !d.After(w.Sunday())
}

// String formats the week as its Monday date.
func (w Week) String() string {
	return dateutil.FormatDate(w.Monday)
}

// Calendar pairs an axis with a week: together they turn sequence positions
// into concrete instants.
type Calendar struct {
	Axis Axis
	Week Week
}

// At returns the instant minutes after midnight on the named day.
func (c Calendar) At(day string, minutes int) (time.Time, error) {
	date, err := c.Week.DayDate(day)
	if err != nil {
		return time.Time{}, err
	}
	return dateutil.At(date, minutes), nil
}
