package tui

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/pupitre/internal/timeline"
)

// DebugLogger logs board state, keystrokes, and drag events to a file as
// JSON lines.
type DebugLogger struct {
	mu      sync.Mutex
	file    *os.File
	enabled bool
	seq     int
}

// Global debug logger instance
var debugLog *DebugLogger

// DebugLogPath is the fixed path for debug logs
const DebugLogPath = "pupitre-debug.log"

// InitDebugLogger initializes the debug logger if debug mode is enabled.
func InitDebugLogger(enabled bool) error {
	if !enabled {
		debugLog = &DebugLogger{enabled: false}
		return nil
	}
	return initDebugLoggerAt(DebugLogPath)
}

func initDebugLoggerAt(logPath string) error {
	f, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("creating debug log: %w", err)
	}

	debugLog = &DebugLogger{
		file:    f,
		enabled: true,
	}

	debugLog.log("DEBUG_START", map[string]any{
		"log_file": logPath,
		"time":     time.Now().Format(time.RFC3339),
	})
	return nil
}

// CloseDebugLogger closes the debug log file.
func CloseDebugLogger() {
	if debugLog != nil && debugLog.file != nil {
		debugLog.log("DEBUG_END", map[string]any{
			"time": time.Now().Format(time.RFC3339),
		})
		_ = debugLog.file.Close()
		debugLog.file = nil
	}
}

// log writes a structured log entry.
func (d *DebugLogger) log(event string, data map[string]any) {
	if d == nil || !d.enabled || d.file == nil {
		return
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.seq++
	entry := map[string]any{
		"seq":   d.seq,
		"ts":    time.Now().Format("15:04:05.000"),
		"event": event,
	}
	for k, v := range data {
		entry[k] = v
	}

	b, _ := json.Marshal(entry)
	_, _ = fmt.Fprintf(d.file, "%s\n", b)
}

func debugEnabled() bool {
	return debugLog != nil && debugLog.enabled
}

// LogKeyPress logs a key press event.
func LogKeyPress(msg tea.KeyMsg) {
	if !debugEnabled() {
		return
	}
	debugLog.log("KEY_PRESS", map[string]any{
		"key": msg.String(),
	})
}

// LogModeChange logs a mode change.
func LogModeChange(from, to Mode, reason string) {
	if !debugEnabled() || from == to {
		return
	}
	debugLog.log("MODE_CHANGE", map[string]any{
		"from":   from.String(),
		"to":     to.String(),
		"reason": reason,
	})
}

// LogCursorMove logs cursor movement.
func LogCursorMove(pos Position, reason string) {
	if !debugEnabled() {
		return
	}
	debugLog.log("CURSOR_MOVE", map[string]any{
		"day":    pos.Day,
		"slot":   pos.Slot,
		"reason": reason,
	})
}

// LogDrag logs a drag phase with the event that caused it and the resulting
// preview placement.
func LogDrag(phase string, tt *timeline.Timetable, ev timeline.DragEvent, changed bool) {
	if !debugEnabled() {
		return
	}
	data := map[string]any{
		"phase":   phase,
		"state":   tt.DragState().String(),
		"active":  ev.ActiveID,
		"over":    ev.OverID,
		"after":   ev.After(),
		"changed": changed,
	}
	if p := tt.Preview(); p != nil {
		data["preview"] = map[string]any{
			"day":   p.Day,
			"index": p.Index,
			"start": p.Start.Format("15:04"),
			"end":   p.End.Format("15:04"),
		}
	}
	debugLog.log("DRAG", data)
}

// LogSave logs a save attempt.
func LogSave(days []string, err error) {
	if !debugEnabled() {
		return
	}
	data := map[string]any{"days": days}
	if err != nil {
		data["error"] = err.Error()
	}
	debugLog.log("SAVE", data)
}

// LogWeekLoad logs a loaded week and the courses that had to be skipped.
func LogWeekLoad(week timeline.Week, courses int, err error) {
	if !debugEnabled() {
		return
	}
	data := map[string]any{
		"week":    week.String(),
		"courses": courses,
	}
	if err != nil {
		data["skipped"] = err.Error()
	}
	debugLog.log("WEEK_LOAD", data)
}

// LogSchedule logs the non-placeholder blocks of the displayed schedule.
func LogSchedule(tt *timeline.Timetable, action string) {
	if !debugEnabled() {
		return
	}
	var courses []map[string]any
	for _, b := range tt.Schedule().Courses() {
		courses = append(courses, map[string]any{
			"id":    b.ID,
			"name":  truncateStr(b.Name, 20),
			"day":   b.Weekday(),
			"start": b.StartClock(),
			"end":   b.EndClock(),
		})
	}
	debugLog.log("SCHEDULE", map[string]any{
		"action":  action,
		"dirty":   tt.DirtyDays(),
		"courses": courses,
	})
}

// LogError logs an error.
func LogError(context string, err error) {
	if !debugEnabled() {
		return
	}
	debugLog.log("ERROR", map[string]any{
		"context": context,
		"error":   err.Error(),
	})
}

// truncateStr truncates a string to max runes.
func truncateStr(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
