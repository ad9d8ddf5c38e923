package timeline

import (
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/pupitre/internal/dateutil"
)

// testWeek is the week of Monday 2025-01-06.
var testWeek = Week{Monday: time.Date(2025, 1, 6, 0, 0, 0, 0, time.UTC)}

// smallCalendar is a 07:00..11:00 axis with 30-minute ticks: 8 slots a day.
func smallCalendar(t *testing.T) Calendar {
	t.Helper()
	axis, err := NewAxis("07:00", "11:00", 30)
	if err != nil {
		t.Fatalf("NewAxis: %v", err)
	}
	return Calendar{Axis: axis, Week: testWeek}
}

// course builds a course named name on day covering slots [from, from+slots).
func course(cal Calendar, day, name string, from, slots int) Block {
	date, _ := cal.Week.DayDate(day)
	start := cal.Axis.Start() + from*cal.Axis.Tick()
	b := Block{
		ID:    "course-" + name,
		Name:  name,
		Start: dateutil.At(date, start),
		End:   dateutil.At(date, start+slots*cal.Axis.Tick()),
		Type:  TypeLecture,
	}
	b.retag(date)
	return b
}

// scheduleFromString builds a filled schedule from day strings separated by
// "|", Monday first. Each character is one slot: '-' is free, a letter is a
// course named after it spanning its consecutive run.
//
// Example: "--AA----|BB------" puts a 1-hour course A on Monday at 08:00 and
// a 1-hour course B on Tuesday at 07:00.
func scheduleFromString(t *testing.T, cal Calendar, layout string) Schedule {
	t.Helper()
	parts := strings.Split(layout, "|")
	days := dateutil.Weekdays[:len(parts)]

	var courses []Block
	for d, line := range parts {
		if len(line) != cal.Axis.Slots() {
			t.Fatalf("day %d has %d slots, axis has %d", d, len(line), cal.Axis.Slots())
		}
		for i := 0; i < len(line); {
			ch := line[i]
			if ch == '-' {
				i++
				continue
			}
			j := i
			for j < len(line) && line[j] == ch {
				j++
			}
			courses = append(courses, course(cal, days[d], string(ch), i, j-i))
			i = j
		}
	}

	s, err := Build(cal, days, courses)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return s
}

// scheduleString renders a schedule back to fixture notation.
func scheduleString(cal Calendar, s Schedule) string {
	var days []string
	for _, day := range s.Days() {
		var sb strings.Builder
		for _, b := range s[day] {
			if b.IsPlaceholder() {
				sb.WriteByte('-')
				continue
			}
			sb.WriteString(strings.Repeat(b.Name, cal.Axis.SlotsFor(b.Duration())))
		}
		days = append(days, sb.String())
	}
	return strings.Join(days, "|")
}

// assertSchedule checks both the rendered layout and axis coverage.
func assertSchedule(t *testing.T, cal Calendar, s Schedule, want string) {
	t.Helper()
	if got := scheduleString(cal, s); got != want {
		t.Errorf("schedule:\n got %s\nwant %s", got, want)
	}
	if err := CheckCoverage(s, cal.Axis); err != nil {
		t.Errorf("coverage: %v", err)
	}
}

// idOf returns the id of the block at index idx of day.
func idOf(t *testing.T, s Schedule, day string, idx int) string {
	t.Helper()
	seq := s[day]
	if idx < 0 || idx >= len(seq) {
		t.Fatalf("%s has no block at %d", day, idx)
	}
	return seq[idx].ID
}
