package ui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"

	"github.com/javiermolinar/pupitre/internal/timeline"
)

// Color definitions for consistent styling across the UI.
var (
	colorLecture  = color.New(color.FgBlue, color.Bold)
	colorLab      = color.New(color.FgGreen, color.Bold)
	colorSeminar  = color.New(color.FgCyan, color.Bold)
	colorExam     = color.New(color.FgRed, color.Bold)
	colorTutoring = color.New(color.FgYellow, color.Bold)

	// Insight/results: yellow to make it pop
	colorInsight = color.New(color.FgYellow)

	colorHeader = color.New(color.Bold)

	// Stats: green for positive metrics
	colorStats = color.New(color.FgGreen)

	// Muted: free slots, ids and secondary information
	colorMuted = color.New(color.FgWhite, color.Faint)

	colorWarn = color.New(color.FgRed)
)

// termWidth returns the terminal width, or a default if detection fails.
func termWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return 80
	}
	return width
}

// DisableColor disables all color output.
func DisableColor() {
	color.NoColor = true
}

// EnableColor enables color output (if terminal supports it).
func EnableColor() {
	color.NoColor = false
}

// formatCourseType renders a short colored tag for a course type.
func formatCourseType(t timeline.BlockType) string {
	tag := "[" + typeTag(t) + "]"
	switch t {
	case timeline.TypeLecture:
		return colorLecture.Sprint(tag)
	case timeline.TypeLab:
		return colorLab.Sprint(tag)
	case timeline.TypeSeminar:
		return colorSeminar.Sprint(tag)
	case timeline.TypeExam:
		return colorExam.Sprint(tag)
	case timeline.TypeTutoring:
		return colorTutoring.Sprint(tag)
	default:
		return colorMuted.Sprint(tag)
	}
}

// typeTag returns the one-letter tag of a course type.
func typeTag(t timeline.BlockType) string {
	switch t {
	case timeline.TypeLecture:
		return "L"
	case timeline.TypeLab:
		return "B"
	case timeline.TypeSeminar:
		return "S"
	case timeline.TypeExam:
		return "E"
	case timeline.TypeTutoring:
		return "T"
	default:
		return " "
	}
}

func formatInsight(s string) string {
	return colorInsight.Sprint(s)
}

func formatHeader(s string) string {
	return colorHeader.Sprint(s)
}

func formatStats(s string) string {
	return colorStats.Sprint(s)
}

func formatMuted(s string) string {
	return colorMuted.Sprint(s)
}

func formatWarn(s string) string {
	return colorWarn.Sprint(s)
}
