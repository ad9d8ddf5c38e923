package timeline

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/javiermolinar/pupitre/internal/dateutil"
)

// Block errors.
var (
	ErrEmptyName       = errors.New("course name cannot be empty")
	ErrInvalidType     = errors.New("invalid course type")
	ErrEndBeforeStart  = errors.New("end time must be after start time")
	ErrBlockNotFound   = errors.New("block not found")
	ErrDayNotFound     = errors.New("day not found")
	ErrPlaceholderDrag = errors.New("placeholders cannot be dragged")
)

// BlockType is a course type, or PLACEHOLDER for synthetic gap blocks.
type BlockType string

const (
	TypeLecture     BlockType = "LECTURE"
	TypeLab         BlockType = "LAB"
	TypeSeminar     BlockType = "SEMINAR"
	TypeExam        BlockType = "EXAM"
	TypeTutoring    BlockType = "TUTORING"
	TypePlaceholder BlockType = "PLACEHOLDER"
)

// CourseTypes lists the types a real course may carry.
var CourseTypes = []BlockType{TypeLecture, TypeLab, TypeSeminar, TypeExam, TypeTutoring}

// ParseBlockType parses a course type name case-insensitively.
// PLACEHOLDER is not accepted: placeholders are never created by hand.
func ParseBlockType(s string) (BlockType, error) {
	upper := BlockType(strings.ToUpper(strings.TrimSpace(s)))
	for _, t := range CourseTypes {
		if t == upper {
			return t, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidType, s)
}

// Block is one entry of a day sequence: a course or a one-tick placeholder.
type Block struct {
	ID    string
	Name  string // empty for placeholders
	Room  string
	Start time.Time
	End   time.Time
	Day   int // day of month
	Month int
	Year  int
	Type  BlockType
}

// NewCourse creates a course with a fresh id on date between start and end ("HH:MM").
func NewCourse(name, room, courseType string, date time.Time, start, end string) (Block, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Block{}, ErrEmptyName
	}
	typ, err := ParseBlockType(courseType)
	if err != nil {
		return Block{}, err
	}
	s, err := dateutil.ParseClock(start)
	if err != nil {
		return Block{}, fmt.Errorf("start time: %w", err)
	}
	e, err := dateutil.ParseClock(end)
	if err != nil {
		return Block{}, fmt.Errorf("end time: %w", err)
	}
	if e <= s {
		return Block{}, ErrEndBeforeStart
	}

	b := Block{
		ID:    uuid.NewString(),
		Name:  name,
		Room:  strings.TrimSpace(room),
		Start: dateutil.At(date, s),
		End:   dateutil.At(date, e),
		Type:  typ,
	}
	b.retag(date)
	return b, nil
}

// IsPlaceholder returns true for synthetic gap blocks.
func (b Block) IsPlaceholder() bool {
	return b.Type == TypePlaceholder
}

// Duration returns end minus start.
func (b Block) Duration() time.Duration {
	return b.End.Sub(b.Start)
}

// Weekday returns the timetable key of the block's start date.
func (b Block) Weekday() string {
	return dateutil.WeekdayName(b.Start)
}

// Date returns the calendar date the block is tagged with.
func (b Block) Date() time.Time {
	return time.Date(b.Year, time.Month(b.Month), b.Day, 0, 0, 0, 0, b.Start.Location())
}

// StartClock returns the start as "HH:MM".
func (b Block) StartClock() string {
	return dateutil.FormatClock(dateutil.MinuteOfDay(b.Start))
}

// EndClock returns the end as "HH:MM".
func (b Block) EndClock() string {
	return dateutil.FormatClock(dateutil.MinuteOfDay(b.End))
}

// Label returns the course name, or "free" for placeholders.
func (b Block) Label() string {
	if b.IsPlaceholder() {
		return "free"
	}
	return b.Name
}

// FitsAxis reports an error when the block starts or ends off the axis
// or is not a whole number of ticks long.
func (b Block) FitsAxis(a Axis) error {
	s := dateutil.MinuteOfDay(b.Start)
	e := s + int(b.Duration()/time.Minute)
	if e <= s {
		return fmt.Errorf("%w: %s has no duration", ErrOffAxis, b.ID)
	}
	if s < a.Start() || e > a.End() {
		return fmt.Errorf("%w: %s %s-%s outside %s", ErrOffAxis, b.ID, b.StartClock(), b.EndClock(), a)
	}
	if (s-a.Start())%a.Tick() != 0 || (e-s)%a.Tick() != 0 {
		return fmt.Errorf("%w: %s %s-%s is not aligned to %d-minute ticks", ErrOffAxis, b.ID, b.StartClock(), b.EndClock(), a.Tick())
	}
	return nil
}

// retag sets the day, month and year fields from date.
func (b *Block) retag(date time.Time) {
	b.Day = date.Day()
	b.Month = int(date.Month())
	b.Year = date.Year()
}

// placeholderID names the placeholder covering the tick at minute on day.
func placeholderID(day string, minute int) string {
	return "placeholder-" + day + "-" + dateutil.FormatClock(minute)
}

// newPlaceholder returns a one-tick placeholder starting at minute on day.
func newPlaceholder(cal Calendar, day string, minute int) Block {
	date, _ := cal.Week.DayDate(day)
	b := Block{
		ID:    placeholderID(day, minute),
		Start: dateutil.At(date, minute),
		End:   dateutil.At(date, minute+cal.Axis.Tick()),
		Type:  TypePlaceholder,
	}
	b.retag(date)
	return b
}
