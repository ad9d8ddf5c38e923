package view

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestRenderGridIncludesHeaderAndCells(t *testing.T) {
	state := GridViewState{
		Width:        30,
		Headers:      []string{"", "Mon 6"},
		HeaderStyles: []lipgloss.Style{lipgloss.NewStyle(), lipgloss.NewStyle()},
		Rows:         [][]string{{"08:00", "Algebra"}},
		CellStyles:   [][]lipgloss.Style{{lipgloss.NewStyle(), lipgloss.NewStyle()}},
		BorderStyle:  lipgloss.NewStyle(),
	}

	out := RenderGrid(state)
	for _, want := range []string{"Mon 6", "08:00", "Algebra"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output: %q", want, out)
		}
	}
}

func TestRenderGridEmpty(t *testing.T) {
	if out := RenderGrid(GridViewState{Width: 0, Headers: []string{"x"}}); out != "" {
		t.Fatalf("expected empty output for zero width, got %q", out)
	}
}

func TestPadLines(t *testing.T) {
	out := PadLines("ab\nlonger line", 5, 3, lipgloss.Color(""))
	lines := strings.Split(out, "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != 5 {
			t.Errorf("line %d width = %d, want 5: %q", i, w, line)
		}
	}
}

func TestOverlayCentersBox(t *testing.T) {
	base := strings.Join([]string{".........", ".........", "........."}, "\n")
	out := Overlay(base, "XXX", 9, 3)
	lines := strings.Split(out, "\n")
	if !strings.HasPrefix(lines[1], "...XXX") {
		t.Fatalf("middle line = %q, want box at column 3", lines[1])
	}
	if lines[0] != "........." || lines[2] != "........." {
		t.Fatalf("lines outside the box changed: %q", out)
	}
}
