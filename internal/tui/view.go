package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/pupitre/internal/dateutil"
	"github.com/javiermolinar/pupitre/internal/timeline"
	"github.com/javiermolinar/pupitre/internal/tui/view"
)

// chromeLines is the header line plus the grid borders and day header.
const chromeLines = 5

const timeColumnWidth = 7

// footerLines returns the height of the footer for the current mode.
func (m *Model) footerLines() int {
	n := 2 // status and stats
	if m.help.ShowAll {
		longest := 0
		for _, group := range m.keys.FullHelp() {
			longest = max(longest, len(group))
		}
		n += longest
	} else {
		n++
	}
	if m.mode == ModePrompt {
		n++
	}
	return n
}

// View renders the board.
func (m Model) View() string {
	if m.width <= 0 || m.height <= 0 {
		return "Loading..."
	}
	if m.width < timeColumnWidth+len(m.tt.Days())*4 {
		return "Terminal too small"
	}

	content := lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		view.RenderGrid(m.gridState()),
		m.renderFooter(),
	)
	content = view.PadLines(content, m.width, m.height, m.styles.colorBg)

	if m.mode == ModeModal && m.review != nil {
		content = view.Overlay(content, m.renderReview(), m.width, m.height)
	}
	return content
}

func (m Model) renderHeader() string {
	cal := m.tt.Calendar()
	header := m.styles.TitleStyle.Render("pupitre") + " " +
		m.styles.HeaderStyle.Render(fmt.Sprintf("week of %s  %s", cal.Week.Monday.Format("Mon Jan 2, 2006"), cal.Axis))
	if m.loading {
		header += " " + m.styles.MutedStyle.Render("loading...")
	}
	if dirty := m.tt.DirtyDays(); len(dirty) > 0 {
		header += " " + m.styles.DirtyStyle.Render("* "+strings.Join(dirty, ", "))
	}
	if m.tt.IsDragging() {
		header += " " + m.styles.WarningStyle.Render("["+m.tt.DragState().String()+"]")
	}
	return ansi.Truncate(header, m.width, "…")
}

// gridState builds the visible window of the week grid.
func (m Model) gridState() view.GridViewState {
	days := m.tt.Days()
	s := m.tt.Schedule()
	cal := m.tt.Calendar()
	colW := max((m.width-timeColumnWidth-len(days)-2)/len(days)-2, 1)

	headers := make([]string, 0, len(days)+1)
	headerStyles := make([]lipgloss.Style, 0, len(days)+1)
	headers = append(headers, "")
	headerStyles = append(headerStyles, m.styles.TimeColumnStyle)
	for i, day := range days {
		label := day
		if date, err := cal.Week.DayDate(day); err == nil {
			label = date.Format("Mon 2")
		}
		headers = append(headers, ansi.Truncate(label, colW, ""))
		st := m.styles.DayHeaderStyle
		if i == m.cursor.Day {
			st = st.Foreground(m.styles.palette.Accent)
		}
		headerStyles = append(headerStyles, st)
	}

	visible := m.visibleSlots()
	rows := make([][]string, 0, visible)
	cellStyles := make([][]lipgloss.Style, 0, visible)
	for slot := m.scrollOffset; slot < m.scrollOffset+visible; slot++ {
		row := []string{dateutil.FormatClock(m.slotMinute(slot))}
		styles := []lipgloss.Style{m.styles.TimeColumnStyle}
		for d, day := range days {
			text, st := m.cell(s, day, d, slot, colW)
			row = append(row, text)
			styles = append(styles, st)
		}
		rows = append(rows, row)
		cellStyles = append(cellStyles, styles)
	}

	return view.GridViewState{
		Width:        m.width,
		Headers:      headers,
		HeaderStyles: headerStyles,
		Rows:         rows,
		CellStyles:   cellStyles,
		BorderStyle:  m.styles.BorderStyle,
	}
}

// cell renders one slot of one day. The block label sits on its first slot.
func (m Model) cell(s timeline.Schedule, day string, dayIdx, slot, width int) (string, lipgloss.Style) {
	minute := m.slotMinute(slot)
	seq := s[day]
	idx := -1
	for i, b := range seq {
		if dateutil.MinuteOfDay(b.Start) <= minute && minute < dateutil.MinuteOfDay(b.End) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", m.styles.FreeStyle
	}
	b := seq[idx]

	text := ""
	if dateutil.MinuteOfDay(b.Start) == minute {
		text = ansi.Truncate(b.Label(), width, "…")
	}

	switch {
	case m.cursor.Day == dayIdx && m.cursor.Slot == slot:
		if text == "" && b.IsPlaceholder() {
			text = "·"
		}
		return text, m.styles.CursorStyle
	case m.tt.IsDragging() && b.ID == m.tt.Dragged():
		return text, m.styles.DraggedStyle
	case m.inPreview(day, minute):
		return text, m.styles.PreviewStyle
	case b.IsPlaceholder():
		return text, m.styles.FreeStyle
	}
	alt := idx > 0 && !seq[idx-1].IsPlaceholder() && seq[idx-1].Type == b.Type
	return text, m.styles.Course(b.Type, alt)
}

// inPreview reports whether minute on day falls where the dragged block would
// land if dropped now.
func (m Model) inPreview(day string, minute int) bool {
	p := m.tt.Preview()
	if p == nil || p.Day != day {
		return false
	}
	return dateutil.MinuteOfDay(p.Start) <= minute && minute < dateutil.MinuteOfDay(p.End)
}

func (m Model) renderFooter() string {
	var lines []string

	if m.mode == ModePrompt {
		lines = append(lines, m.prompt.View())
	}

	status := m.statusMsg
	if status == "" {
		if b, _, ok := m.blockAt(m.cursor); ok {
			status = cursorSummary(b)
		}
	}
	statusStyle := m.styles.StatusStyle
	if m.err != nil && strings.HasPrefix(status, "Error") {
		statusStyle = m.styles.WarningStyle
	}
	lines = append(lines, ansi.Truncate(statusStyle.Render(status), m.width, "…"))

	total := timeline.WeekTotals(timeline.Stats(m.tt.Schedule()))
	stats := fmt.Sprintf("%d courses  %s busy  %s free", total.Courses,
		formatMinutes(total.BusyMinutes), formatMinutes(total.FreeMinutes))
	lines = append(lines, m.styles.MutedStyle.Render(stats))

	lines = append(lines, m.help.View(m.keys))
	return strings.Join(lines, "\n")
}

func cursorSummary(b timeline.Block) string {
	if b.IsPlaceholder() {
		return fmt.Sprintf("free %s-%s", b.StartClock(), b.EndClock())
	}
	summary := fmt.Sprintf("%s %s-%s [%s]", b.Name, b.StartClock(), b.EndClock(), b.Type)
	if b.Room != "" {
		summary += " @" + b.Room
	}
	return summary
}

func formatMinutes(minutes int) string {
	if minutes%60 == 0 {
		return fmt.Sprintf("%dh", minutes/60)
	}
	return fmt.Sprintf("%dh%02d", minutes/60, minutes%60)
}

// renderReview renders the LLM review modal.
func (m Model) renderReview() string {
	width := min(m.width-8, 70)
	textW := max(width-4, 10)
	wrap := lipgloss.NewStyle().Width(textW)

	parts := []string{
		m.styles.ModalTitleStyle.Render("Week review"),
		"",
		wrap.Render(m.review.Summary),
	}
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		parts = append(parts, "", m.styles.ModalTitleStyle.Render(title))
		for _, item := range items {
			parts = append(parts, wrap.Render("- "+item))
		}
	}
	section("Warnings", m.review.Warnings)
	section("Suggestions", m.review.Suggestions)
	parts = append(parts, "", m.styles.MutedStyle.Render("esc to close"))

	return m.styles.ModalStyle.Render(strings.Join(parts, "\n"))
}

// weekText renders the displayed week as plain text for the clipboard.
func weekText(tt *timeline.Timetable) string {
	var sb strings.Builder
	cal := tt.Calendar()
	s := tt.Schedule()
	fmt.Fprintf(&sb, "Week of %s\n", cal.Week)
	for _, day := range tt.Days() {
		date, err := cal.Week.DayDate(day)
		if err != nil {
			continue
		}
		fmt.Fprintf(&sb, "\n%s %s\n", date.Format("Monday"), dateutil.FormatDate(date))
		courses := 0
		for _, b := range s[day] {
			if b.IsPlaceholder() {
				continue
			}
			courses++
			fmt.Fprintf(&sb, "  %s-%s %s [%s]", b.StartClock(), b.EndClock(), b.Name, b.Type)
			if b.Room != "" {
				fmt.Fprintf(&sb, " @%s", b.Room)
			}
			sb.WriteString("\n")
		}
		if courses == 0 {
			sb.WriteString("  (free)\n")
		}
	}
	return sb.String()
}
