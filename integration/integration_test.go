package integration

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/javiermolinar/pupitre/internal/canvas"
	"github.com/javiermolinar/pupitre/internal/db"
	"github.com/javiermolinar/pupitre/internal/planner"
	"github.com/javiermolinar/pupitre/internal/timeline"
)

// openRepo creates a fresh repository for each test with automatic cleanup.
func openRepo(t *testing.T) *db.SQLite {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	repo, err := db.New(dbPath)
	if err != nil {
		t.Fatalf("failed to open repo: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

// mustParseDate parses a date string in local time or fails the test.
func mustParseDate(t *testing.T, s string) time.Time {
	t.Helper()
	date, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		t.Fatalf("failed to parse date %q: %v", s, err)
	}
	return date
}

// createCourse is a helper to create and insert a course.
func createCourse(t *testing.T, repo *db.SQLite, name, courseType, date, start, end string) timeline.Block {
	t.Helper()
	c, err := timeline.NewCourse(name, "", courseType, mustParseDate(t, date), start, end)
	if err != nil {
		t.Fatalf("failed to create course: %v", err)
	}
	if err := repo.CreateCourse(context.Background(), c); err != nil {
		t.Fatalf("failed to insert course: %v", err)
	}
	return c
}

func sequence() func() string {
	n := 0
	return func() string {
		n++
		return string(rune('a' + n - 1))
	}
}

func TestPlanRoundTrip(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()
	view := canvas.Transform{K: 2, X: 10, Y: 10}

	plan := planner.NewPlan("room-101", planner.WithIDSuffix(sequence()))

	row, ok, err := plan.AddFromPalette("Row-3", planner.DragEnd{
		ActiveID: "Row-3",
		OverID:   planner.CanvasID,
		Delta:    canvas.Point{X: 210, Y: 110},
	}, view)
	if err != nil || !ok {
		t.Fatalf("AddFromPalette(Row-3) = %v, %v", ok, err)
	}
	student, ok, err := plan.AddFromPalette("Student-Ana", planner.DragEnd{
		ActiveID: "Student-Ana",
		OverID:   planner.CanvasID,
		Delta:    canvas.Point{X: 50, Y: 50},
	}, view)
	if err != nil || !ok {
		t.Fatalf("AddFromPalette(Student-Ana) = %v, %v", ok, err)
	}

	// Drop Ana onto the row.
	over := canvas.Rect{Left: 210, Top: 110, Width: 100, Height: 80}
	session := plan.BeginDrag(student.ID, view)
	changed, err := session.End(planner.DragEnd{
		ActiveID:    student.ID,
		InitialRect: canvas.Rect{Left: 50, Top: 50, Width: 100, Height: 80},
		OverID:      row.ID,
		OverRect:    &over,
		Delta:       canvas.Point{X: 190, Y: 80},
	}, view)
	if err != nil || !changed {
		t.Fatalf("drag onto row = %v, %v", changed, err)
	}

	if err := repo.SavePlan(ctx, plan.Name, plan.Snapshot()); err != nil {
		t.Fatalf("SavePlan: %v", err)
	}

	snap, err := repo.LoadPlan(ctx, "room-101")
	if err != nil {
		t.Fatalf("LoadPlan: %v", err)
	}
	loaded, err := planner.FromSnapshot("room-101", *snap)
	if err != nil {
		t.Fatalf("FromSnapshot: %v", err)
	}

	if loaded.Len() != plan.Len() {
		t.Errorf("Len = %d, want %d", loaded.Len(), plan.Len())
	}
	card, rowID, found := loaded.Card(student.ID)
	if !found || rowID != row.ID {
		t.Fatalf("Ana in row %q (found %v), want %q", rowID, found, row.ID)
	}
	if card.Coordinates != (canvas.Point{X: 10, Y: 5}) {
		t.Errorf("Ana at %+v, want (10, 5) inside the row", card.Coordinates)
	}
	r, ok := loaded.Row(row.ID)
	if !ok || len(r.Cards) != 4 {
		t.Fatalf("row = %+v, want 3 seats and Ana", r)
	}
	if r.Name != "Row 1" {
		t.Errorf("row name = %q, want Row 1", r.Name)
	}

	names, err := repo.ListPlans(ctx)
	if err != nil || len(names) != 1 || names[0] != "room-101" {
		t.Errorf("ListPlans = %v, %v", names, err)
	}
}

func TestLoadPlan_Missing(t *testing.T) {
	repo := openRepo(t)
	_, err := repo.LoadPlan(context.Background(), "nope")
	if !errors.Is(err, planner.ErrPlanNotFound) {
		t.Fatalf("err = %v, want ErrPlanNotFound", err)
	}
}

func TestTimetableRoundTrip(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	createCourse(t, repo, "Algebra", "lecture", "2025-01-07", "08:00", "09:30")
	createCourse(t, repo, "Physics", "lab", "2025-01-07", "10:00", "11:00")
	createCourse(t, repo, "History", "seminar", "2025-01-09", "07:00", "08:00")
	// Next week, never shown.
	createCourse(t, repo, "Latin", "lecture", "2025-01-14", "08:00", "09:00")

	cal := timeline.Calendar{Axis: timeline.DefaultAxis(), Week: timeline.WeekOf(mustParseDate(t, "2025-01-08"))}
	tt, err := timeline.NewTimetable(cal, []string{"monday", "tuesday", "wednesday", "thursday", "friday"})
	if err != nil {
		t.Fatalf("NewTimetable: %v", err)
	}
	if err := tt.Reload(ctx, repo); err != nil {
		t.Fatalf("Reload: %v", err)
	}
	if got := len(tt.Schedule().Courses()); got != 3 {
		t.Fatalf("loaded %d courses, want 3", got)
	}

	// Physics moves to Thursday, in front of History.
	physics := findCourse(t, tt.Schedule(), "Physics")
	history := findCourse(t, tt.Schedule(), "History")
	changed, err := tt.Move(physics.ID, history.ID, false)
	if err != nil || !changed {
		t.Fatalf("Move = %v, %v", changed, err)
	}
	if err := tt.Save(ctx, repo); err != nil {
		t.Fatalf("Save: %v", err)
	}

	fresh, _ := timeline.NewTimetable(cal, tt.Days())
	if err := fresh.Reload(ctx, repo); err != nil {
		t.Fatalf("Reload after save: %v", err)
	}
	s := fresh.Schedule()

	tests := []struct {
		name       string
		day        string
		start, end string
	}{
		{"Algebra", "tuesday", "08:00", "09:30"},
		{"Physics", "thursday", "07:00", "08:00"},
		{"History", "thursday", "08:00", "09:00"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := findCourse(t, s, tc.name)
			if b.Weekday() != tc.day || b.StartClock() != tc.start || b.EndClock() != tc.end {
				t.Errorf("%s at %s %s-%s, want %s %s-%s", tc.name, b.Weekday(), b.StartClock(), b.EndClock(), tc.day, tc.start, tc.end)
			}
		})
	}
	if err := timeline.CheckCoverage(s, cal.Axis); err != nil {
		t.Errorf("reloaded schedule does not cover the axis: %v", err)
	}

	// Next week's course is untouched.
	next, err := repo.ListCourses(ctx, cal.Week.Next().Monday, cal.Week.Next().Next().Monday)
	if err != nil || len(next) != 1 || next[0].Name != "Latin" {
		t.Errorf("next week = %+v, %v", next, err)
	}
}

func TestCreateCourse_Overlap(t *testing.T) {
	repo := openRepo(t)
	createCourse(t, repo, "Algebra", "lecture", "2025-01-07", "08:00", "09:00")

	c, err := timeline.NewCourse("Physics", "", "lab", mustParseDate(t, "2025-01-07"), "08:30", "09:30")
	if err != nil {
		t.Fatalf("NewCourse: %v", err)
	}
	if err := repo.CreateCourse(context.Background(), c); !errors.Is(err, timeline.ErrOverlap) {
		t.Fatalf("err = %v, want ErrOverlap", err)
	}
}

func findCourse(t *testing.T, s timeline.Schedule, name string) timeline.Block {
	t.Helper()
	for _, b := range s.Courses() {
		if b.Name == name {
			return b
		}
	}
	t.Fatalf("course %q not in schedule", name)
	return timeline.Block{}
}

func TestTimetableSave_KeepsCoursesOffTheAxis(t *testing.T) {
	repo := openRepo(t)
	ctx := context.Background()

	createCourse(t, repo, "Early", "lecture", "2025-01-06", "07:00", "08:00")
	late := createCourse(t, repo, "Late", "lab", "2025-01-06", "10:00", "11:00")

	// day_start raised to 08:00 after Early was stored.
	axis, err := timeline.NewAxis("08:00", "20:00", 30)
	if err != nil {
		t.Fatalf("NewAxis: %v", err)
	}
	cal := timeline.Calendar{Axis: axis, Week: timeline.WeekOf(mustParseDate(t, "2025-01-06"))}
	tt, err := timeline.NewTimetable(cal, []string{"monday", "tuesday"})
	if err != nil {
		t.Fatalf("NewTimetable: %v", err)
	}
	if err := tt.Reload(ctx, repo); !errors.Is(err, timeline.ErrOffAxis) {
		t.Fatalf("Reload() = %v, want ErrOffAxis for Early", err)
	}

	if changed, err := tt.Move(late.ID, "tuesday", false); err != nil || !changed {
		t.Fatalf("Move = %v, %v", changed, err)
	}
	if err := tt.Save(ctx, repo); err != nil {
		t.Fatalf("Save: %v", err)
	}

	stored, err := repo.ListCourses(ctx, cal.Week.Monday, cal.Week.Next().Monday)
	if err != nil {
		t.Fatalf("ListCourses: %v", err)
	}
	if len(stored) != 2 {
		t.Fatalf("stored %d courses after save, want 2: %+v", len(stored), stored)
	}
	for _, c := range stored {
		switch c.Name {
		case "Early":
			if c.Weekday() != "monday" || c.StartClock() != "07:00" || c.EndClock() != "08:00" {
				t.Errorf("Early at %s %s-%s, want monday 07:00-08:00", c.Weekday(), c.StartClock(), c.EndClock())
			}
		case "Late":
			if c.Weekday() != "tuesday" {
				t.Errorf("Late on %s, want tuesday", c.Weekday())
			}
		default:
			t.Errorf("unexpected course %q", c.Name)
		}
	}
}
