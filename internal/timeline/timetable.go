package timeline

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sort"
	"time"

	"github.com/javiermolinar/pupitre/internal/dateutil"
)

// Repository persists courses. Placeholders are never stored.
type Repository interface {
	// ListCourses returns the courses starting within [from, to).
	ListCourses(ctx context.Context, from, to time.Time) ([]Block, error)

	// SaveCourses replaces the stored courses of the given days of week with
	// courses, atomically.
	SaveCourses(ctx context.Context, week Week, days []string, courses []Block) error

	// CreateCourse stores a new course.
	CreateCourse(ctx context.Context, course Block) error
}

// Timetable errors.
var (
	ErrNoChanges = errors.New("no unsaved changes")
	ErrOverlap   = errors.New("course overlaps another course")
)

// Timetable keeps the saved and working schedules of the displayed week, the
// drag in progress and the days touched since the last save.
type Timetable struct {
	cal  Calendar
	days []string

	saved   Schedule
	working Schedule
	dirty   map[string]bool
	skipped []Block // stored courses left off the board, kept on save

	drag *DragSession
}

// NewTimetable creates an empty timetable for the given days.
func NewTimetable(cal Calendar, days []string) (*Timetable, error) {
	s, err := NewSchedule(days)
	if err != nil {
		return nil, err
	}
	s = FillPlaceholders(s, cal)
	return &Timetable{
		cal:     cal,
		days:    s.Days(),
		saved:   s,
		working: s,
		dirty:   make(map[string]bool),
		drag:    NewDragSession(cal),
	}, nil
}

// Calendar returns the axis and week in use.
func (tt *Timetable) Calendar() Calendar {
	return tt.cal
}

// Days returns the displayed day keys, Monday first.
func (tt *Timetable) Days() []string {
	return append([]string(nil), tt.days...)
}

// Schedule returns the schedule to render: the drag preview while dragging,
// the working copy otherwise.
func (tt *Timetable) Schedule() Schedule {
	if tt.IsDragging() {
		return tt.drag.Schedule()
	}
	return tt.working
}

// Load replaces both schedules with courses laid out for the current week.
// Courses that do not fit the axis or overlap an earlier course on the same
// day are skipped and reported in the returned error. Skipped courses stay off
// the board but are written back when their day is saved.
func (tt *Timetable) Load(courses []Block) error {
	sorted := slices.Clone(courses)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Start.Before(sorted[j].Start)
	})

	var fit, skipped []Block
	var errs []error
	lastEnd := make(map[string]time.Time)
	for _, c := range sorted {
		if err := c.FitsAxis(tt.cal.Axis); err != nil {
			errs = append(errs, err)
			skipped = append(skipped, c)
			continue
		}
		day := dateutil.FormatDate(c.Start)
		if c.Start.Before(lastEnd[day]) {
			errs = append(errs, fmt.Errorf("%w: %s at %s %s", ErrOverlap, c.Name, day, c.StartClock()))
			skipped = append(skipped, c)
			continue
		}
		lastEnd[day] = c.End
		fit = append(fit, c)
	}

	s, err := Build(tt.cal, tt.days, fit)
	if err != nil {
		return err
	}

	tt.saved = s
	tt.working = s
	tt.dirty = make(map[string]bool)
	tt.skipped = skipped
	tt.drag.Cancel()
	return errors.Join(errs...)
}

// Reload fetches the week's courses from repo and loads them.
func (tt *Timetable) Reload(ctx context.Context, repo Repository) error {
	courses, err := repo.ListCourses(ctx, tt.cal.Week.Monday, tt.cal.Week.Next().Monday)
	if err != nil {
		return fmt.Errorf("listing courses: %w", err)
	}
	return tt.Load(courses)
}

// SetWeek switches the displayed week. Unsaved changes are discarded.
func (tt *Timetable) SetWeek(w Week) {
	tt.cal.Week = w
	tt.drag = NewDragSession(tt.cal)
	empty := FillPlaceholders(mustSchedule(tt.days), tt.cal)
	tt.saved = empty
	tt.working = empty
	tt.dirty = make(map[string]bool)
	tt.skipped = nil
}

// Skipped returns the stored courses Load left off the board.
func (tt *Timetable) Skipped() []Block {
	return slices.Clone(tt.skipped)
}

// HasChanges returns true if there are unsaved modifications.
func (tt *Timetable) HasChanges() bool {
	return len(tt.dirty) > 0
}

// DirtyDays returns the modified days, Monday first.
func (tt *Timetable) DirtyDays() []string {
	days := make([]string, 0, len(tt.dirty))
	for d := range tt.dirty {
		days = append(days, d)
	}
	return sortDays(days)
}

// Discard reverts the working schedule to the saved one.
func (tt *Timetable) Discard() {
	tt.drag.Cancel()
	tt.working = tt.saved
	tt.dirty = make(map[string]bool)
}

// IsDragging returns true while a block is picked up.
func (tt *Timetable) IsDragging() bool {
	st := tt.drag.State()
	return st == DragDragging || st == DragOver
}

// DragState returns the drag session's phase.
func (tt *Timetable) DragState() DragState {
	return tt.drag.State()
}

// Dragged returns the id of the block being dragged.
func (tt *Timetable) Dragged() string {
	return tt.drag.ActiveID()
}

// Preview returns where the dragged block would land.
func (tt *Timetable) Preview() *Placement {
	return tt.drag.Preview()
}

// StartDrag picks up a course.
func (tt *Timetable) StartDrag(id string) error {
	return tt.drag.Start(tt.working, id)
}

// DragOver feeds a hover event to the drag in progress.
func (tt *Timetable) DragOver(ev DragEvent) (bool, error) {
	return tt.drag.Over(ev)
}

// EndDrag drops the dragged course and marks the days it touched as dirty.
func (tt *Timetable) EndDrag(ev DragEvent) (bool, error) {
	id := tt.drag.ActiveID()
	srcDay, _, _ := tt.working.Find(id)

	result, changed, err := tt.drag.End(ev)
	if err != nil {
		return false, err
	}
	if !changed {
		return false, nil
	}

	tt.working = result
	tt.dirty[srcDay] = true
	if dstDay, _, ok := result.Find(id); ok {
		tt.dirty[dstDay] = true
	}
	return true, nil
}

// CancelDrag abandons the drag, leaving the working schedule untouched.
func (tt *Timetable) CancelDrag() {
	tt.drag.Cancel()
}

// Move drags a course over target and drops it in one step, placing it after
// target when after is set.
func (tt *Timetable) Move(id, target string, after bool) (bool, error) {
	if err := tt.StartDrag(id); err != nil {
		return false, err
	}
	ev := Hover(id, target, after)
	if _, err := tt.DragOver(ev); err != nil {
		tt.CancelDrag()
		return false, err
	}
	return tt.EndDrag(ev)
}

// Save persists the courses of dirty days, including the ones skipped on load.
func (tt *Timetable) Save(ctx context.Context, repo Repository) error {
	if !tt.HasChanges() {
		return ErrNoChanges
	}
	days := tt.DirtyDays()

	var courses []Block
	for _, day := range days {
		for _, b := range tt.working[day] {
			if !b.IsPlaceholder() {
				courses = append(courses, b)
			}
		}
	}
	for _, c := range tt.skipped {
		if tt.dirty[c.Weekday()] {
			courses = append(courses, c)
		}
	}

	if err := repo.SaveCourses(ctx, tt.cal.Week, days, courses); err != nil {
		return fmt.Errorf("saving courses: %w", err)
	}
	tt.saved = tt.working
	tt.dirty = make(map[string]bool)
	return nil
}

func mustSchedule(days []string) Schedule {
	s, _ := NewSchedule(days)
	return s
}
