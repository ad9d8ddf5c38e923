package timeline

import (
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/javiermolinar/pupitre/internal/canvas"
)

func TestDragEventAfter(t *testing.T) {
	over := canvas.Rect{Top: 100, Height: 40}
	tests := []struct {
		name    string
		initial float64
		deltaY  float64
		want    bool
	}{
		{"upper half", 90, 10, false},
		{"exact midpoint goes before", 90, 30, false},
		{"lower half", 90, 31, true},
		{"dragged upward into lower half", 200, -65, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := DragEvent{
				InitialRect: canvas.Rect{Top: tt.initial},
				OverRect:    over,
				Delta:       canvas.Point{Y: tt.deltaY},
			}
			if got := ev.After(); got != tt.want {
				t.Errorf("After() = %v, want %v", got, tt.want)
			}
		})
	}

	if Hover("a", "b", true).After() != true || Hover("a", "b", false).After() != false {
		t.Error("Hover does not encode the requested side")
	}
}

func TestMoveAcrossDays_CourseIntoThirdSlot(t *testing.T) {
	cal := Calendar{Axis: DefaultAxis(), Week: testWeek}
	free := strings.Repeat("-", 20)
	s := scheduleFromString(t, cal, "----MM"+free+"|--TT--"+free)

	mon, _ := s.Block("course-M")
	if mon.StartClock() != "09:00" || mon.EndClock() != "10:00" {
		t.Fatalf("fixture: M at %s-%s", mon.StartClock(), mon.EndClock())
	}

	// Hover Tuesday's third block (course T) in its upper half.
	ev := Hover("course-M", idOf(t, s, "tuesday", 2), false)
	got, placed, ok := MoveAcrossDays(s, cal, ev)
	if !ok {
		t.Fatal("expected cross-day move to apply")
	}

	assertSchedule(t, cal, got, strings.Repeat("-", 26)+"|--MMTT"+free)

	moved, _ := got.Block("course-M")
	if moved.StartClock() != "08:00" || moved.EndClock() != "09:00" {
		t.Errorf("M at %s-%s, want 08:00-09:00", moved.StartClock(), moved.EndClock())
	}
	if moved.Weekday() != "tuesday" || moved.Day != 7 || moved.Month != 1 || moved.Year != 2025 {
		t.Errorf("M tagged %s %d/%d/%d", moved.Weekday(), moved.Day, moved.Month, moved.Year)
	}
	if placed.Day != "tuesday" || placed.Index != 2 || !placed.Start.Equal(moved.Start) {
		t.Errorf("placement = %+v", placed)
	}

	pushed, _ := got.Block("course-T")
	if pushed.StartClock() != "09:00" {
		t.Errorf("T pushed to %s, want 09:00", pushed.StartClock())
	}

	// The source is untouched.
	assertSchedule(t, cal, s, "----MM"+free+"|--TT--"+free)
}

func TestMoveAcrossDays(t *testing.T) {
	tests := []struct {
		name   string
		grid   string
		active string
		// over is "day:index", a day key, or a raw id.
		over  string
		after bool
		want  string
		ok    bool
	}{
		{
			name:   "before hovered placeholder",
			grid:   "AA------|--------",
			active: "course-A",
			over:   "tuesday:3",
			want:   "--------|---AA---",
			ok:     true,
		},
		{
			name:   "after hovered placeholder",
			grid:   "AA------|--------",
			active: "course-A",
			over:   "tuesday:3",
			after:  true,
			want:   "--------|----AA--",
			ok:     true,
		},
		{
			name:   "after hovered course",
			grid:   "A-------|-BB-----",
			active: "course-A",
			over:   "tuesday:1",
			after:  true,
			want:   "--------|-BBA----",
			ok:     true,
		},
		{
			name:   "dropped on day region appends and clamps",
			grid:   "-AA-----|--------",
			active: "course-A",
			over:   "tuesday",
			want:   "--------|------AA",
			ok:     true,
		},
		{
			name:   "last placeholder pulls from before",
			grid:   "AAA-----|--BB----",
			active: "course-A",
			over:   "tuesday:6",
			after:  true,
			want:   "--------|--BB-AAA",
			ok:     true,
		},
		{
			name:   "no room in destination",
			grid:   "AA------|BBBBCCCC",
			active: "course-A",
			over:   "tuesday:0",
			ok:     false,
		},
		{
			name:   "same day is left to drag end",
			grid:   "AA--B---|--------",
			active: "course-A",
			over:   "monday:3",
			ok:     false,
		},
		{
			name:   "unknown target",
			grid:   "AA------|--------",
			active: "course-A",
			over:   "nowhere",
			ok:     false,
		},
		{
			name:   "unknown active",
			grid:   "AA------|--------",
			active: "course-Q",
			over:   "tuesday:0",
			ok:     false,
		},
		{
			name:   "placeholder cannot move",
			grid:   "AA------|--------",
			active: "placeholder-monday-10:00",
			over:   "tuesday:0",
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := smallCalendar(t)
			s := scheduleFromString(t, cal, tt.grid)
			before := scheduleString(cal, s)

			got, _, ok := MoveAcrossDays(s, cal, Hover(tt.active, resolveOver(t, s, tt.over), tt.after))
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				if scheduleString(cal, got) != before {
					t.Errorf("schedule changed on rejected move: %s", scheduleString(cal, got))
				}
				return
			}
			assertSchedule(t, cal, got, tt.want)
		})
	}
}

// resolveOver turns "day:index" into the id at that index.
func resolveOver(t *testing.T, s Schedule, over string) string {
	t.Helper()
	day, idx, ok := strings.Cut(over, ":")
	if !ok {
		return over
	}
	n := 0
	for _, ch := range idx {
		n = n*10 + int(ch-'0')
	}
	return idOf(t, s, day, n)
}

func TestReorder(t *testing.T) {
	tests := []struct {
		name   string
		grid   string
		active string
		over   string
		after  bool
		want   string
		ok     bool
	}{
		{
			name:   "move after later course",
			grid:   "AA--BB--",
			active: "course-A",
			over:   "course-B",
			after:  true,
			want:   "--BBAA--",
			ok:     true,
		},
		{
			name:   "move before earlier course",
			grid:   "AA--BB--",
			active: "course-B",
			over:   "course-A",
			want:   "BBAA----",
			ok:     true,
		},
		{
			name:   "move to the end via day region",
			grid:   "-AA-----",
			active: "course-A",
			over:   "monday",
			want:   "------AA",
			ok:     true,
		},
		{
			name:   "before the next block is the same place",
			grid:   "AA--BB--",
			active: "course-A",
			over:   "monday:1",
			ok:     false,
		},
		{
			name:   "over itself",
			grid:   "AA--BB--",
			active: "course-A",
			over:   "course-A",
			ok:     false,
		},
		{
			name:   "target in another day",
			grid:   "AA------|--------",
			active: "course-A",
			over:   "tuesday:0",
			ok:     false,
		},
		{
			name:   "released outside any target",
			grid:   "AA------",
			active: "course-A",
			over:   "",
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cal := smallCalendar(t)
			s := scheduleFromString(t, cal, tt.grid)
			got, _, ok := Reorder(s, cal, Hover(tt.active, resolveOver(t, s, tt.over), tt.after))
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if ok {
				assertSchedule(t, cal, got, tt.want)
			}
		})
	}
}

func TestPreview(t *testing.T) {
	cal := smallCalendar(t)
	s := scheduleFromString(t, cal, "AA--B---|--------")

	p, ok := Preview(s, cal, Hover("course-A", "course-B", true))
	if !ok {
		t.Fatal("expected preview")
	}
	// Without A the day reads "--B": A lands right after B at 08:30.
	if p.Day != "monday" || p.Start.Format("15:04") != "08:30" || p.End.Sub(p.Start) != time.Hour {
		t.Errorf("preview = %s %s-%s", p.Day, p.Start.Format("15:04"), p.End.Format("15:04"))
	}

	p, ok = Preview(s, cal, Hover("course-A", "tuesday", false))
	if !ok {
		t.Fatal("expected preview onto day region")
	}
	if p.Start.Format("15:04") != "10:00" || p.End.Format("15:04") != "11:00" {
		t.Errorf("clamped preview = %s-%s, want 10:00-11:00", p.Start.Format("15:04"), p.End.Format("15:04"))
	}

	if _, ok := Preview(s, cal, Hover("course-A", "", false)); ok {
		t.Error("expected no preview outside targets")
	}
}

// TestReflowInvariants drives random drags and checks coverage and duration
// preservation after every step.
func TestReflowInvariants(t *testing.T) {
	cal := smallCalendar(t)
	rng := rand.New(rand.NewSource(11))
	s := scheduleFromString(t, cal, "AA--B---|-CCC----|------DD")
	durations := map[string]time.Duration{}
	for _, c := range s.Courses() {
		durations[c.ID] = c.Duration()
	}
	ids := []string{"course-A", "course-B", "course-C", "course-D"}

	for step := 0; step < 300; step++ {
		active := ids[rng.Intn(len(ids))]
		day := s.Days()[rng.Intn(3)]
		var over string
		if rng.Intn(5) == 0 {
			over = day
		} else {
			over = s[day][rng.Intn(len(s[day]))].ID
		}
		ev := Hover(active, over, rng.Intn(2) == 0)

		if next, _, ok := MoveAcrossDays(s, cal, ev); ok {
			s = next
		}
		if next, _, ok := Reorder(s, cal, ev); ok {
			s = next
		}

		if err := CheckCoverage(s, cal.Axis); err != nil {
			t.Fatalf("step %d (%s over %s): %v\n%s", step, active, over, err, scheduleString(cal, s))
		}
		for _, c := range s.Courses() {
			if c.Duration() != durations[c.ID] {
				t.Fatalf("step %d: %s duration %v, want %v", step, c.ID, c.Duration(), durations[c.ID])
			}
			if c.Weekday() != mustDayOf(t, s, c.ID) {
				t.Fatalf("step %d: %s tagged %s but lives in %s", step, c.ID, c.Weekday(), mustDayOf(t, s, c.ID))
			}
		}
		if len(s.Courses()) != len(ids) {
			t.Fatalf("step %d: lost courses", step)
		}
	}
}

func mustDayOf(t *testing.T, s Schedule, id string) string {
	t.Helper()
	day, _, ok := s.Find(id)
	if !ok {
		t.Fatalf("%s not found", id)
	}
	return day
}

func TestDragSession(t *testing.T) {
	t.Run("cross-day hover then drop on the block itself", func(t *testing.T) {
		cal := smallCalendar(t)
		s := scheduleFromString(t, cal, "AA------|--------")
		d := NewDragSession(cal)

		if err := d.Start(s, "course-A"); err != nil {
			t.Fatalf("Start: %v", err)
		}
		if d.State() != DragDragging {
			t.Errorf("state = %s, want dragging", d.State())
		}
		changed, err := d.Over(Hover("", idOf(t, s, "tuesday", 2), false))
		if err != nil || !changed {
			t.Fatalf("Over() = %v, %v", changed, err)
		}
		if d.State() != DragOver || d.Preview() == nil || d.Preview().Day != "tuesday" {
			t.Errorf("after hover: state %s preview %+v", d.State(), d.Preview())
		}
		assertSchedule(t, cal, d.Schedule(), "--------|--AA----")

		result, changed, err := d.End(Hover("", "course-A", false))
		if err != nil || !changed {
			t.Fatalf("End() = %v, %v", changed, err)
		}
		assertSchedule(t, cal, result, "--------|--AA----")
		if d.State() != DragDropped {
			t.Errorf("state = %s, want dropped", d.State())
		}
	})

	t.Run("release outside restores the start schedule", func(t *testing.T) {
		cal := smallCalendar(t)
		s := scheduleFromString(t, cal, "AA------|--------")
		d := NewDragSession(cal)
		_ = d.Start(s, "course-A")
		_, _ = d.Over(Hover("", "tuesday", false))

		result, changed, err := d.End(DragEvent{})
		if err != nil || changed {
			t.Fatalf("End() = %v, %v", changed, err)
		}
		assertSchedule(t, cal, result, "AA------|--------")
		if d.State() != DragIdle {
			t.Errorf("state = %s, want idle", d.State())
		}
	})

	t.Run("same-day reorder is applied on drop only", func(t *testing.T) {
		cal := smallCalendar(t)
		s := scheduleFromString(t, cal, "AA--BB--")
		d := NewDragSession(cal)
		_ = d.Start(s, "course-A")
		ev := Hover("", "course-B", true)

		if changed, _ := d.Over(ev); changed {
			t.Error("same-day hover should not change the schedule")
		}
		if p := d.Preview(); p == nil || p.Start.Format("15:04") != "09:00" {
			t.Errorf("preview = %+v, want 09:00", p)
		}
		result, changed, _ := d.End(ev)
		if !changed {
			t.Fatal("expected reorder on drop")
		}
		assertSchedule(t, cal, result, "--BBAA--")
	})

	t.Run("cancel after cross-day hover", func(t *testing.T) {
		cal := smallCalendar(t)
		s := scheduleFromString(t, cal, "AA------|--------")
		d := NewDragSession(cal)
		_ = d.Start(s, "course-A")
		_, _ = d.Over(Hover("", "tuesday", false))
		assertSchedule(t, cal, d.Cancel(), "AA------|--------")
	})

	t.Run("hover away and back is not a change", func(t *testing.T) {
		cal := smallCalendar(t)
		s := scheduleFromString(t, cal, "AA------|--------")
		d := NewDragSession(cal)
		_ = d.Start(s, "course-A")

		if changed, _ := d.Over(Hover("", "tuesday", false)); !changed {
			t.Fatal("expected the hover to move A into tuesday")
		}
		back := idOf(t, d.Schedule(), "monday", 0)
		if changed, _ := d.Over(Hover("", back, false)); !changed {
			t.Fatal("expected the hover to move A back into monday")
		}
		assertSchedule(t, cal, d.Schedule(), "AA------|--------")

		result, changed, err := d.End(Hover("", "course-A", false))
		if err != nil || changed {
			t.Fatalf("End() = %v, %v, want unchanged", changed, err)
		}
		assertSchedule(t, cal, result, "AA------|--------")
	})

	t.Run("misuse", func(t *testing.T) {
		cal := smallCalendar(t)
		s := scheduleFromString(t, cal, "AA------")
		d := NewDragSession(cal)

		if _, err := d.Over(DragEvent{}); !errors.Is(err, ErrNotDragging) {
			t.Errorf("Over before Start: %v", err)
		}
		if _, _, err := d.End(DragEvent{}); !errors.Is(err, ErrNotDragging) {
			t.Errorf("End before Start: %v", err)
		}
		if err := d.Start(s, "placeholder-monday-08:00"); !errors.Is(err, ErrPlaceholderDrag) {
			t.Errorf("Start on placeholder: %v", err)
		}
		if err := d.Start(s, "course-Z"); !errors.Is(err, ErrBlockNotFound) {
			t.Errorf("Start on missing block: %v", err)
		}
		_ = d.Start(s, "course-A")
		if err := d.Start(s, "course-A"); !errors.Is(err, ErrAlreadyDragging) {
			t.Errorf("double Start: %v", err)
		}
	})
}
