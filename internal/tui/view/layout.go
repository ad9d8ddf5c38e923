package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// PadLines pads or cuts content to exactly width columns and height lines,
// filling with bg.
func PadLines(content string, width, height int, bg lipgloss.Color) string {
	if width <= 0 || height <= 0 {
		return content
	}
	fill := lipgloss.NewStyle().Background(bg)
	lines := strings.Split(content, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	lines = lines[:height]
	for i, line := range lines {
		w := lipgloss.Width(line)
		switch {
		case w > width:
			lines[i] = ansi.Truncate(line, width, "")
		case w < width:
			lines[i] = line + fill.Render(strings.Repeat(" ", width-w))
		}
	}
	return strings.Join(lines, "\n")
}

// Overlay centers box over base, which is assumed to be width by height.
func Overlay(base, box string, width, height int) string {
	boxLines := strings.Split(box, "\n")
	boxW := lipgloss.Width(box)
	if boxW > width {
		boxW = width
	}
	top := max((height-len(boxLines))/2, 0)
	left := max((width-boxW)/2, 0)

	lines := strings.Split(base, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, boxLine := range boxLines {
		row := top + i
		if row >= len(lines) {
			break
		}
		baseLine := lines[row]
		lines[row] = ansi.Cut(baseLine, 0, left) +
			ansi.Truncate(boxLine, boxW, "") + ansi.ResetStyle +
			ansi.Cut(baseLine, left+boxW, width)
	}
	return strings.Join(lines, "\n")
}
