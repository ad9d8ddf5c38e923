package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/javiermolinar/pupitre/internal/llm"
	"github.com/javiermolinar/pupitre/internal/timeline"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		minutes int
		want    string
	}{
		{0, "0m"},
		{45, "45m"},
		{60, "1h"},
		{90, "1h30m"},
		{660, "11h"},
	}
	for _, tt := range tests {
		if got := FormatDuration(tt.minutes); got != tt.want {
			t.Errorf("FormatDuration(%d) = %q, want %q", tt.minutes, got, tt.want)
		}
	}
}

func TestLoadBar(t *testing.T) {
	tests := []struct {
		name        string
		busy, total int
		wantFilled  int
		wantPercent string
	}{
		{"empty day", 0, 0, 0, "(0% booked)"},
		{"half", 300, 600, 10, "(50% booked)"},
		{"full", 600, 600, 20, "(100% booked)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := LoadBar(tt.busy, tt.total, 20)
			if n := strings.Count(got, "█"); n != tt.wantFilled {
				t.Errorf("LoadBar(%d, %d) filled = %d, want %d", tt.busy, tt.total, n, tt.wantFilled)
			}
			if !strings.Contains(got, tt.wantPercent) {
				t.Errorf("LoadBar(%d, %d) = %q, want %q", tt.busy, tt.total, got, tt.wantPercent)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("Linear Algebra", 10); got != "Linear ..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("Art", 10); got != "Art" {
		t.Errorf("truncate short = %q", got)
	}
}

func TestCalcMaxNameWidth(t *testing.T) {
	if got := (PrintOpts{MaxNameWidth: 12}).CalcMaxNameWidth(32); got != 12 {
		t.Errorf("explicit width = %d, want 12", got)
	}
	if got := (PrintOpts{}).CalcMaxNameWidth(32); got != 32 {
		t.Errorf("default width = %d, want 32", got)
	}
}

func TestPrintStats(t *testing.T) {
	days := []timeline.DayStats{
		{Day: "monday", Courses: 2, BusyMinutes: 120, FreeMinutes: 480,
			ByType: map[timeline.BlockType]int{timeline.TypeLecture: 60, timeline.TypeLab: 60}},
		{Day: "tuesday", Courses: 1, BusyMinutes: 180, FreeMinutes: 420,
			ByType: map[timeline.BlockType]int{timeline.TypeExam: 180}},
	}

	var buf bytes.Buffer
	PrintStats(&buf, days)
	out := buf.String()

	for _, want := range []string{
		"[L] 1h  |  [B] 1h  |  [E] 3h",
		"Courses: 3  |  Busy: 5h  |  Free: 15h",
		"Busiest day: tuesday (3h)",
		"(25% booked)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("PrintStats missing %q:\n%s", want, out)
		}
	}
}

func TestPrintReview(t *testing.T) {
	r := &llm.Review{
		Summary:     "A balanced week with one heavy day in the middle of it.",
		Warnings:    []string{"Wednesday runs five hours without a break"},
		Suggestions: []string{"Move the seminar to Friday"},
	}

	var buf bytes.Buffer
	PrintReview(&buf, r, 30)
	out := buf.String()

	for _, want := range []string{"WARNINGS", "    ! Wednesday", "SUGGESTIONS", "    • Move the"} {
		if !strings.Contains(out, want) {
			t.Errorf("PrintReview missing %q:\n%s", want, out)
		}
	}
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		if len([]rune(line)) > 30 {
			t.Errorf("line %q longer than 30 columns", line)
		}
	}
}

func TestWrapAndPrint_Empty(t *testing.T) {
	var buf bytes.Buffer
	wrapAndPrint(&buf, "   ", "  ", 20)
	if buf.Len() != 0 {
		t.Errorf("wrapAndPrint of blank text wrote %q", buf.String())
	}
}
