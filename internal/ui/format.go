package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/javiermolinar/pupitre/internal/llm"
	"github.com/javiermolinar/pupitre/internal/planner"
	"github.com/javiermolinar/pupitre/internal/timeline"
)

// PrintOpts configures timetable printing behavior.
type PrintOpts struct {
	ShowFree     bool // Print free runs between courses
	ShowIDs      bool // Print course ids, needed for `schedule move`
	Verbose      bool // Show full course names
	MaxNameWidth int  // Maximum name width (0 = auto)
}

// CalcMaxNameWidth calculates the maximum course name width based on options.
func (o PrintOpts) CalcMaxNameWidth(defaultWidth int) int {
	if o.MaxNameWidth > 0 {
		return o.MaxNameWidth
	}
	if !o.Verbose {
		return defaultWidth
	}
	// "    HH:MM-HH:MM  [L]  " plus the duration suffix
	available := termWidth() - 30
	if available > defaultWidth {
		return available
	}
	return defaultWidth
}

// PrintSchedule prints each day of the schedule with its courses.
func PrintSchedule(w io.Writer, cal timeline.Calendar, s timeline.Schedule, opts PrintOpts) {
	width := opts.CalcMaxNameWidth(32)
	for i, day := range s.Days() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		date, _ := cal.Week.DayDate(day)
		fmt.Fprintf(w, "  %s\n", formatHeader(date.Format("Mon Jan 2")))

		seq := s[day]
		for j := 0; j < len(seq); j++ {
			b := seq[j]
			if !b.IsPlaceholder() {
				printCourseRow(w, b, opts, width)
				continue
			}
			k := j
			for k+1 < len(seq) && seq[k+1].IsPlaceholder() {
				k++
			}
			if opts.ShowFree {
				mins := int(seq[k].End.Sub(b.Start).Minutes())
				fmt.Fprintf(w, "    %s\n", formatMuted(fmt.Sprintf("%s-%s  free  %s",
					b.StartClock(), seq[k].EndClock(), FormatDuration(mins))))
			}
			j = k
		}
	}
}

func printCourseRow(w io.Writer, b timeline.Block, opts PrintOpts, maxNameWidth int) {
	name := b.Name
	if b.Room != "" {
		name += " @" + b.Room
	}
	name = truncate(name, maxNameWidth)

	fmt.Fprintf(w, "    %s-%s  %s  %-*s  %s",
		b.StartClock(), b.EndClock(), formatCourseType(b.Type),
		maxNameWidth, name, formatMuted(FormatDuration(int(b.Duration().Minutes()))))
	if opts.ShowIDs {
		fmt.Fprintf(w, "  %s", formatMuted(b.ID))
	}
	fmt.Fprintln(w)
}

func truncate(s string, width int) string {
	r := []rune(s)
	if width <= 3 || len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}

// PrintStats prints per-type totals and the weekly load bar.
func PrintStats(w io.Writer, days []timeline.DayStats) {
	total := timeline.WeekTotals(days)

	parts := make([]string, 0, len(timeline.CourseTypes))
	for _, ct := range timeline.CourseTypes {
		if m := total.ByType[ct]; m > 0 {
			parts = append(parts, fmt.Sprintf("%s %s", formatCourseType(ct), FormatDuration(m)))
		}
	}
	if len(parts) > 0 {
		fmt.Fprintf(w, "  %s\n", strings.Join(parts, "  |  "))
	}
	fmt.Fprintf(w, "  Courses: %d  |  Busy: %s  |  Free: %s\n",
		total.Courses, FormatDuration(total.BusyMinutes), FormatDuration(total.FreeMinutes))

	busiest := -1
	for i, d := range days {
		if busiest == -1 || d.BusyMinutes > days[busiest].BusyMinutes {
			busiest = i
		}
	}
	if busiest >= 0 && days[busiest].BusyMinutes > 0 {
		fmt.Fprintf(w, "  Busiest day: %s (%s)\n",
			days[busiest].Day, formatStats(FormatDuration(days[busiest].BusyMinutes)))
	}
	fmt.Fprintf(w, "  Load: %s\n", LoadBar(total.BusyMinutes, total.BusyMinutes+total.FreeMinutes, 20))
}

// LoadBar creates an ASCII bar showing the share of time taken by courses.
func LoadBar(busyMinutes, totalMinutes, width int) string {
	if totalMinutes == 0 {
		return "[" + strings.Repeat("░", width) + "] (0% booked)"
	}

	pct := (busyMinutes * 100) / totalMinutes
	filled := (busyMinutes * width) / totalMinutes

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fmt.Sprintf("[%s] %s", formatStats(bar), formatStats(fmt.Sprintf("(%d%% booked)", pct)))
}

// FormatDuration formats minutes as a human-readable duration.
func FormatDuration(minutes int) string {
	if minutes == 0 {
		return "0m"
	}
	hours := minutes / 60
	mins := minutes % 60
	if hours == 0 {
		return fmt.Sprintf("%dm", mins)
	}
	if mins == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh%dm", hours, mins)
}

// PrintPlan prints the free cards of a plan, then each row with its children.
func PrintPlan(w io.Writer, p *planner.Plan) {
	fmt.Fprintf(w, "  %s\n", formatHeader("PLAN: "+p.Name))

	cards := p.Cards()
	if len(cards) == 0 {
		fmt.Fprintln(w, "  (empty)")
		return
	}

	for _, c := range cards {
		printCardLine(w, "  ", c)
		if !c.IsRow() {
			continue
		}
		row, _ := p.Row(c.ID)
		for i, child := range row.Cards {
			branch := "├─ "
			if i == len(row.Cards)-1 {
				branch = "└─ "
			}
			printCardLine(w, "    "+branch, child)
		}
	}
}

func printCardLine(w io.Writer, prefix string, c planner.Card) {
	fmt.Fprintf(w, "%s%-8s %-16s (%g, %g)  %s\n",
		prefix, c.Type, c.Text, c.Coordinates.X, c.Coordinates.Y, formatMuted(c.ID))
}

// PrintReview prints an LLM review wrapped to width.
func PrintReview(w io.Writer, r *llm.Review, width int) {
	wrapAndPrint(w, r.Summary, "  ", width-2)
	if len(r.Warnings) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", formatHeader("WARNINGS"))
		for _, line := range r.Warnings {
			wrapAndPrint(w, line, "    ! ", width-6)
		}
	}
	if len(r.Suggestions) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "  %s\n", formatHeader("SUGGESTIONS"))
		for _, line := range r.Suggestions {
			wrapAndPrint(w, line, "    • ", width-6)
		}
	}
}

// wrapAndPrint wraps text to width and prints with the given prefix.
func wrapAndPrint(w io.Writer, text, prefix string, width int) {
	words := strings.Fields(text)
	if len(words) == 0 {
		return
	}

	continuation := strings.Repeat(" ", len([]rune(prefix)))
	current := prefix
	line := ""
	for _, word := range words {
		switch {
		case line == "":
			line = word
		case len(line)+1+len(word) <= width:
			line += " " + word
		default:
			fmt.Fprintln(w, formatInsight(current+line))
			current = continuation
			line = word
		}
	}
	fmt.Fprintln(w, formatInsight(current+line))
}
