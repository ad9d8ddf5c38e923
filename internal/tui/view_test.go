package tui

import (
	"os"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"github.com/javiermolinar/pupitre/internal/llm"
	"github.com/javiermolinar/pupitre/internal/tui/commands"
)

func TestMain(m *testing.M) {
	lipgloss.SetColorProfile(termenv.Ascii)
	os.Exit(m.Run())
}

func TestView_Board(t *testing.T) {
	m := newTestModel(t, tuesdayRepo(t))
	out := m.View()

	for _, want := range []string{
		"week of Mon Jan 6, 2025",
		"07:00-20:00/30m",
		"Mon 6", "Fri 10",
		"07:00", "08:00",
		"Algebra", "Physics",
		"Algebra 08:00-09:00 [LECTURE] @A1",
		"2 courses",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}

	lines := strings.Split(out, "\n")
	if len(lines) != 40 {
		t.Fatalf("view has %d lines, want 40", len(lines))
	}
	for i, line := range lines {
		if w := ansi.StringWidth(line); w != 100 {
			t.Fatalf("line %d is %d wide, want 100: %q", i, w, line)
		}
	}
}

func TestView_DirtyDaysInHeader(t *testing.T) {
	m := newTestModel(t, tuesdayRepo(t))
	m = press(t, m, keySpace, keyRight, keyEnter)

	header := strings.Split(m.View(), "\n")[0]
	if !strings.Contains(header, "* tuesday, wednesday") {
		t.Fatalf("header = %q, want dirty days", header)
	}
}

func TestView_DragStateInHeader(t *testing.T) {
	m := newTestModel(t, tuesdayRepo(t))
	m = press(t, m, keySpace)

	header := strings.Split(m.View(), "\n")[0]
	if !strings.Contains(header, "[dragging]") {
		t.Fatalf("header = %q, want the drag state", header)
	}
}

func TestView_ReviewModal(t *testing.T) {
	m := newTestModel(t, tuesdayRepo(t))
	m = update(t, m, commands.ReviewMsg{
		Week: m.tt.Calendar().Week,
		Review: &llm.Review{
			Summary:  "Balanced week.",
			Warnings: []string{"Tuesday is back to back"},
		},
	})
	if m.mode != ModeModal {
		t.Fatalf("mode = %s, want Modal", m.mode)
	}

	out := m.View()
	for _, want := range []string{"Week review", "Balanced week.", "Warnings", "Tuesday is back to back", "esc to close"} {
		if !strings.Contains(out, want) {
			t.Errorf("modal missing %q", want)
		}
	}
	if strings.Contains(out, "Suggestions") {
		t.Error("empty suggestions section rendered")
	}

	m = press(t, m, keyEsc)
	if m.mode != ModeNormal || m.review != nil {
		t.Fatalf("modal not closed: mode %s", m.mode)
	}
}

func TestView_TooSmall(t *testing.T) {
	m := newTestModel(t, tuesdayRepo(t))
	m = update(t, m, tea.WindowSizeMsg{Width: 20, Height: 10})
	if got := m.View(); got != "Terminal too small" {
		t.Fatalf("View() = %q", got)
	}
}

func TestView_Scrolls(t *testing.T) {
	m := newTestModel(t, tuesdayRepo(t))
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 16})

	visible := m.visibleSlots()
	if visible >= m.tt.Calendar().Axis.Slots() {
		t.Fatalf("visible = %d, expected fewer rows than slots", visible)
	}
	for range m.tt.Calendar().Axis.Slots() {
		m = press(t, m, keyDown)
	}
	if m.cursor.Slot != m.tt.Calendar().Axis.Slots()-1 {
		t.Fatalf("cursor slot = %d, want last", m.cursor.Slot)
	}
	if !strings.Contains(m.View(), "19:30") {
		t.Error("last slot not scrolled into view")
	}
	if strings.Contains(m.View(), "07:00 ") {
		t.Error("first slot still visible after scrolling")
	}
}

func TestWeekText(t *testing.T) {
	m := newTestModel(t, tuesdayRepo(t))
	text := weekText(m.tt)

	for _, want := range []string{
		"Week of 2025-01-06",
		"Monday 2025-01-06\n  (free)",
		"Tuesday 2025-01-07",
		"  08:00-09:00 Algebra [LECTURE] @A1\n",
		"  09:00-10:00 Physics [LAB]\n",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("week text missing %q:\n%s", want, text)
		}
	}
}

func TestFooterLines(t *testing.T) {
	m := newTestModel(t, tuesdayRepo(t))
	if got := m.footerLines(); got != 3 {
		t.Fatalf("footerLines() = %d, want 3", got)
	}
	m = press(t, m, runes("?"))
	if got := m.footerLines(); got != 7 {
		t.Fatalf("footerLines() with full help = %d, want 7", got)
	}
}
