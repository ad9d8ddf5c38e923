package timeline

import (
	"errors"
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"

	"github.com/javiermolinar/pupitre/internal/dateutil"
)

// ErrCoverage is returned when a day sequence does not exactly cover the axis.
var ErrCoverage = errors.New("day does not cover the hour axis")

// Schedule maps weekday keys ("monday".."sunday") to ordered block sequences.
// Operations never mutate a schedule in place; they return a new one.
type Schedule map[string][]Block

// NewSchedule creates a schedule with an empty sequence for each day.
func NewSchedule(days []string) (Schedule, error) {
	s := make(Schedule, len(days))
	for _, d := range days {
		key := strings.ToLower(strings.TrimSpace(d))
		if _, err := dateutil.WeekdayOffset(key); err != nil {
			return nil, err
		}
		s[key] = nil
	}
	return s, nil
}

// Build lays courses out on the calendar: each course falling in the week on
// one of the schedule's days is placed on that day, and every day is filled
// with placeholders. Courses outside the week or on other days are ignored.
func Build(cal Calendar, days []string, courses []Block) (Schedule, error) {
	s, err := NewSchedule(days)
	if err != nil {
		return nil, err
	}
	for _, c := range courses {
		if c.IsPlaceholder() || !cal.Week.Contains(c.Start) {
			continue
		}
		day := c.Weekday()
		if _, ok := s[day]; !ok {
			continue
		}
		s[day] = append(s[day], c)
	}
	return FillPlaceholders(s, cal), nil
}

// Clone returns a copy that shares no sequences with s.
func (s Schedule) Clone() Schedule {
	out := make(Schedule, len(s))
	for day, seq := range s {
		out[day] = slices.Clone(seq)
	}
	return out
}

// Days returns the schedule's day keys ordered Monday first.
func (s Schedule) Days() []string {
	days := make([]string, 0, len(s))
	for d := range s {
		days = append(days, d)
	}
	return sortDays(days)
}

// sortDays orders day keys in place, Monday first.
func sortDays(days []string) []string {
	sort.Slice(days, func(i, j int) bool {
		oi, _ := dateutil.WeekdayOffset(days[i])
		oj, _ := dateutil.WeekdayOffset(days[j])
		return oi < oj
	})
	return days
}

// Courses returns the non-placeholder blocks, day by day in sequence order.
// This is what gets persisted.
func (s Schedule) Courses() []Block {
	var out []Block
	for _, day := range s.Days() {
		for _, b := range s[day] {
			if !b.IsPlaceholder() {
				out = append(out, b)
			}
		}
	}
	return out
}

// Find returns the day and index of the block with the given id.
func (s Schedule) Find(id string) (day string, idx int, found bool) {
	for d, seq := range s {
		for i, b := range seq {
			if b.ID == id {
				return d, i, true
			}
		}
	}
	return "", -1, false
}

// Block returns the block with the given id.
func (s Schedule) Block(id string) (Block, bool) {
	day, idx, found := s.Find(id)
	if !found {
		return Block{}, false
	}
	return s[day][idx], true
}

// container resolves the day an id belongs to. A day key is its own container,
// so drops onto an empty day region resolve too.
func (s Schedule) container(id string) (string, bool) {
	if _, ok := s[id]; ok {
		return id, true
	}
	day, _, found := s.Find(id)
	return day, found
}

// FillPlaceholders returns a schedule where each day holds its courses in time
// order with one placeholder per uncovered tick. Existing placeholders are
// discarded first, so applying it to its own output changes nothing.
func FillPlaceholders(s Schedule, cal Calendar) Schedule {
	out := make(Schedule, len(s))
	for day, seq := range s {
		out[day] = fillDay(day, seq, cal)
	}
	return out
}

func fillDay(day string, seq []Block, cal Calendar) []Block {
	axis := cal.Axis
	courses := make([]Block, 0, len(seq))
	for _, b := range seq {
		if !b.IsPlaceholder() {
			courses = append(courses, b)
		}
	}
	sort.SliceStable(courses, func(i, j int) bool {
		return courses[i].Start.Before(courses[j].Start)
	})

	out := make([]Block, 0, axis.Slots()+len(courses))
	cursor := axis.Start()
	for _, c := range courses {
		start := dateutil.MinuteOfDay(c.Start)
		for cursor+axis.Tick() <= start && cursor < axis.End() {
			out = append(out, newPlaceholder(cal, day, cursor))
			cursor += axis.Tick()
		}
		out = append(out, c)

		// Skip every tick the course touches.
		end := start + int(c.Duration()/time.Minute)
		if end > cursor {
			cursor = axis.Start() + axis.SlotsFor(time.Duration(end-axis.Start())*time.Minute)*axis.Tick()
		}
	}
	for cursor < axis.End() {
		out = append(out, newPlaceholder(cal, day, cursor))
		cursor += axis.Tick()
	}
	return out
}

// Renumber lays a day sequence back-to-back from the axis's first tick,
// preserving each block's duration. Placeholders are re-keyed by their new time.
func Renumber(day string, seq []Block, cal Calendar) []Block {
	date, _ := cal.Week.DayDate(day)
	out := make([]Block, len(seq))
	cursor := cal.Axis.Start()
	for i, b := range seq {
		dur := b.Duration()
		if b.IsPlaceholder() {
			dur = cal.Axis.TickDuration()
			b.ID = placeholderID(day, cursor)
		}
		b.Start = dateutil.At(date, cursor)
		b.End = b.Start.Add(dur)
		b.retag(date)
		out[i] = b
		cursor += int(dur / time.Minute)
	}
	return out
}

// CheckCoverage verifies that every day's blocks, walked in order from the
// first tick, meet end to start and finish exactly at the last tick.
func CheckCoverage(s Schedule, axis Axis) error {
	for _, day := range s.Days() {
		if err := checkDay(s[day], axis); err != nil {
			return fmt.Errorf("%s: %w", day, err)
		}
	}
	return nil
}

func checkDay(seq []Block, axis Axis) error {
	cursor := axis.Start()
	for _, b := range seq {
		start := dateutil.MinuteOfDay(b.Start)
		if start != cursor {
			return fmt.Errorf("%w: %s starts at %s, expected %s", ErrCoverage, b.ID, b.StartClock(), dateutil.FormatClock(cursor))
		}
		mins := int(b.Duration() / time.Minute)
		if mins <= 0 {
			return fmt.Errorf("%w: %s has no duration", ErrCoverage, b.ID)
		}
		if b.IsPlaceholder() && mins != axis.Tick() {
			return fmt.Errorf("%w: placeholder %s is %d minutes wide", ErrCoverage, b.ID, mins)
		}
		cursor += mins
	}
	if cursor != axis.End() {
		return fmt.Errorf("%w: sequence ends at %s, expected %s", ErrCoverage, dateutil.FormatClock(cursor), dateutil.FormatClock(axis.End()))
	}
	return nil
}
