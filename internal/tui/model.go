// Package tui provides the timetable board of pupitre.
package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/pupitre/internal/config"
	"github.com/javiermolinar/pupitre/internal/dateutil"
	"github.com/javiermolinar/pupitre/internal/llm"
	"github.com/javiermolinar/pupitre/internal/timeline"
	"github.com/javiermolinar/pupitre/internal/tui/commands"
	"github.com/javiermolinar/pupitre/internal/tui/theme"
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNormal Mode = iota
	ModeDrag        // A course is picked up
	ModePrompt      // Typing a new course
	ModeModal       // Showing the LLM review
)

func (m Mode) String() string {
	switch m {
	case ModeNormal:
		return "Normal"
	case ModeDrag:
		return "Drag"
	case ModePrompt:
		return "Prompt"
	case ModeModal:
		return "Modal"
	default:
		return fmt.Sprintf("Unknown(%d)", int(m))
	}
}

// Position represents a cursor position on the board.
type Position struct {
	Day  int // index into the displayed days
	Slot int // tick index on the hour axis
}

// Model is the main TUI model.
type Model struct {
	// Dependencies
	repo   timeline.Repository
	config *config.Config

	// Theme and styles
	theme  *theme.Theme
	styles *Styles

	// Saved and working schedules, drag session and dirty days
	tt *timeline.Timetable

	cursor  Position
	mode    Mode
	loading bool

	// Components
	keys   keyMap
	help   help.Model
	prompt textinput.Model

	review *llm.Review

	// Terminal dimensions
	width        int
	height       int
	scrollOffset int

	// Messages
	statusMsg  string
	statusTime time.Time
	quitArmed  bool // q pressed once with unsaved changes

	nowFunc func() time.Time

	err error
}

// ModelOption configures optional model behavior.
type ModelOption func(*Model)

// WithNow overrides the clock used to pick the initial week and cursor.
func WithNow(now func() time.Time) ModelOption {
	return func(m *Model) {
		m.nowFunc = now
	}
}

// New creates a new TUI model showing the current week.
func New(repo timeline.Repository, cfg *config.Config, opts ...ModelOption) (*Model, error) {
	t, err := theme.Load(cfg.UI.Theme)
	if err != nil {
		// Fallback to mocha on error
		t, _ = theme.Load("mocha")
	}
	styles := NewStyles(t)

	axis, err := cfg.Axis()
	if err != nil {
		return nil, fmt.Errorf("building hour axis: %w", err)
	}

	prompt := textinput.New()
	prompt.Placeholder = "Algebra 90 lab @A1"
	prompt.CharLimit = 128
	prompt.Width = 40
	prompt.PromptStyle = styles.PromptStyle

	m := &Model{
		repo:    repo,
		config:  cfg,
		theme:   t,
		styles:  styles,
		mode:    ModeNormal,
		keys:    newKeyMap(),
		help:    help.New(),
		prompt:  prompt,
		nowFunc: time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}

	now := m.nowFunc()
	cal := timeline.Calendar{Axis: axis, Week: timeline.WeekOf(now)}
	tt, err := timeline.NewTimetable(cal, cfg.Days())
	if err != nil {
		return nil, err
	}
	m.tt = tt
	m.loading = repo != nil
	m.cursor = m.initialCursor(now)
	return m, nil
}

// initialCursor places the cursor on today at the current time, clamped to
// the board.
func (m *Model) initialCursor(now time.Time) Position {
	pos := Position{}
	today := dateutil.WeekdayName(now)
	for i, day := range m.tt.Days() {
		if day == today {
			pos.Day = i
		}
	}
	axis := m.tt.Calendar().Axis
	minute := now.Hour()*60 + now.Minute()
	if minute > axis.Start() {
		pos.Slot = (minute - axis.Start()) / axis.Tick()
	}
	if last := axis.Slots() - 1; pos.Slot > last {
		pos.Slot = last
	}
	return pos
}

// Init loads the displayed week.
func (m Model) Init() tea.Cmd {
	if m.repo == nil {
		return nil
	}
	return commands.LoadWeek(m.repo, m.tt.Calendar().Week)
}

// Run starts the TUI.
func Run(repo timeline.Repository, cfg *config.Config) error {
	return RunWithDebug(repo, cfg, false)
}

// RunWithDebug starts the TUI with optional debug logging.
func RunWithDebug(repo timeline.Repository, cfg *config.Config, debug bool) error {
	if err := InitDebugLogger(debug); err != nil {
		return err
	}
	defer CloseDebugLogger()

	model, err := New(repo, cfg)
	if err != nil {
		return err
	}
	p := tea.NewProgram(*model, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// setMode switches mode and logs the transition.
func (m *Model) setMode(mode Mode, reason string) {
	LogModeChange(m.mode, mode, reason)
	m.mode = mode
}

// setStatus shows msg in the footer for a few seconds.
func (m *Model) setStatus(msg string) tea.Cmd {
	m.statusMsg = msg
	m.statusTime = m.nowFunc().Add(3 * time.Second)
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg {
		return commands.ClearStatusMsg{}
	})
}
