package tui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/pupitre/internal/dateutil"
	"github.com/javiermolinar/pupitre/internal/timeline"
	"github.com/javiermolinar/pupitre/internal/tui/commands"
)

// keyMap holds the board key bindings.
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Pick     key.Binding
	Drop     key.Binding
	Cancel   key.Binding
	Save     key.Binding
	Discard  key.Binding
	PrevWeek key.Binding
	NextWeek key.Binding
	Add      key.Binding
	Review   key.Binding
	Copy     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev day")),
		Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next day")),
		Pick:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pick up")),
		Drop:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "drop")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Save:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "save")),
		Discard:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "discard")),
		PrevWeek: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev week")),
		NextWeek: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next week")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add course")),
		Review:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "review")),
		Copy:     key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy week")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pick, k.Drop, k.Cancel, k.Save, k.PrevWeek, k.NextWeek, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Pick, k.Drop, k.Cancel},
		{k.Save, k.Discard, k.PrevWeek, k.NextWeek},
		{k.Add, k.Review, k.Copy, k.Help, k.Quit},
	}
}

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	LogKeyPress(msg)

	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeModal:
		return m.handleModalKeys(msg)
	case ModeDrag:
		return m.handleDragKeys(msg)
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys when nothing is picked up.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if !key.Matches(msg, m.keys.Quit) {
		m.quitArmed = false
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		if m.tt.HasChanges() && !m.quitArmed {
			m.quitArmed = true
			return m, m.setStatus("Unsaved changes: press q again to quit, s to save")
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1, 0)

	case key.Matches(msg, m.keys.Pick):
		return m.pickUp()

	case key.Matches(msg, m.keys.Save):
		return m.save()

	case key.Matches(msg, m.keys.Discard):
		if !m.tt.HasChanges() {
			return m, nil
		}
		m.tt.Discard()
		LogSchedule(m.tt, "discard")
		return m, m.setStatus("Changes discarded")

	case key.Matches(msg, m.keys.PrevWeek):
		return m.changeWeek(m.tt.Calendar().Week.Prev())
	case key.Matches(msg, m.keys.NextWeek):
		return m.changeWeek(m.tt.Calendar().Week.Next())

	case key.Matches(msg, m.keys.Add):
		if m.tt.HasChanges() {
			return m, m.setStatus("Save or discard changes before adding a course")
		}
		if b, _, ok := m.blockAt(m.cursor); !ok || !b.IsPlaceholder() {
			return m, m.setStatus("Move the cursor to a free slot to add a course")
		}
		m.prompt.Reset()
		m.setMode(ModePrompt, "add course")
		cmd := m.prompt.Focus()
		return m, cmd

	case key.Matches(msg, m.keys.Review):
		if len(m.tt.Schedule().Courses()) == 0 {
			return m, m.setStatus("Nothing to review: the week has no courses")
		}
		m.statusMsg = "Reviewing week..."
		return m, commands.Review(m.config, m.tt.Calendar(), m.tt.Schedule().Clone())

	case key.Matches(msg, m.keys.Copy):
		if err := clipboard.WriteAll(weekText(m.tt)); err != nil {
			LogError("copy week", err)
			return m, m.setStatus(fmt.Sprintf("Copy failed: %v", err))
		}
		return m, m.setStatus("Week copied to clipboard")

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		m.ensureCursorVisible()
	}

	LogCursorMove(m.cursor, "key")
	return m, nil
}

// pickUp starts dragging the course under the cursor.
func (m Model) pickUp() (tea.Model, tea.Cmd) {
	b, _, ok := m.blockAt(m.cursor)
	if !ok || b.IsPlaceholder() {
		return m, m.setStatus("Nothing to pick up here")
	}
	if err := m.tt.StartDrag(b.ID); err != nil {
		LogError("start drag", err)
		return m, m.setStatus(fmt.Sprintf("Error: %v", err))
	}
	LogDrag("start", m.tt, timeline.DragEvent{ActiveID: b.ID}, false)
	m.setMode(ModeDrag, "pick up "+b.ID)
	return m, nil
}

// handleDragKeys handles keys while a course is picked up. Every cursor move
// is a hover over the block under the cursor.
func (m Model) handleDragKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		id := m.tt.Dragged()
		m.tt.CancelDrag()
		LogDrag("cancel", m.tt, timeline.DragEvent{ActiveID: id}, false)
		m.setMode(ModeNormal, "cancel drag")
		m.focusBlock(id)
		return m, nil

	case key.Matches(msg, m.keys.Drop):
		return m.drop()

	case key.Matches(msg, m.keys.Up):
		m.moveCursor(0, -1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(0, 1)
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1, 0)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1, 0)
	default:
		return m, nil
	}

	ev, ok := m.hoverEvent()
	if !ok {
		return m, nil
	}
	changed, err := m.tt.DragOver(ev)
	if err != nil {
		LogError("drag over", err)
		return m, nil
	}
	LogDrag("over", m.tt, ev, changed)
	return m, nil
}

// drop ends the drag over the block under the cursor.
func (m Model) drop() (tea.Model, tea.Cmd) {
	id := m.tt.Dragged()
	ev, ok := m.hoverEvent()
	if !ok {
		ev = timeline.DragEvent{ActiveID: id}
	}

	changed, err := m.tt.EndDrag(ev)
	m.setMode(ModeNormal, "drop")
	if err != nil {
		LogError("end drag", err)
		return m, m.setStatus(fmt.Sprintf("Error: %v", err))
	}
	LogDrag("end", m.tt, ev, changed)
	m.focusBlock(id)
	if !changed {
		return m, m.setStatus("No change")
	}
	LogSchedule(m.tt, "drop")

	b, _ := m.tt.Schedule().Block(id)
	return m, m.setStatus(fmt.Sprintf("Moved %s to %s %s-%s", b.Name, b.Weekday(), b.StartClock(), b.EndClock()))
}

// save persists the dirty days.
func (m Model) save() (tea.Model, tea.Cmd) {
	if m.repo == nil {
		return m, nil
	}
	days := m.tt.DirtyDays()
	err := m.tt.Save(context.Background(), m.repo)
	LogSave(days, err)
	switch {
	case errors.Is(err, timeline.ErrNoChanges):
		return m, m.setStatus("Nothing to save")
	case err != nil:
		m.err = err
		return m, m.setStatus(fmt.Sprintf("Error: %v", err))
	}
	return m, m.setStatus(fmt.Sprintf("Saved %s", strings.Join(days, ", ")))
}

// changeWeek switches to week and loads it. Unsaved changes block the switch.
func (m Model) changeWeek(week timeline.Week) (tea.Model, tea.Cmd) {
	if m.tt.HasChanges() {
		return m, m.setStatus("Unsaved changes: s to save, x to discard")
	}
	m.tt.SetWeek(week)
	if m.repo == nil {
		return m, nil
	}
	m.loading = true
	return m, commands.LoadWeek(m.repo, week)
}

// handleModalKeys closes the review modal.
func (m Model) handleModalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel), key.Matches(msg, m.keys.Drop), key.Matches(msg, m.keys.Quit):
		m.review = nil
		m.setMode(ModeNormal, "close review")
	}
	return m, nil
}

// handlePromptKeys handles the add-course prompt.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Cancel):
		m.prompt.Blur()
		m.setMode(ModeNormal, "cancel prompt")
		return m, nil

	case key.Matches(msg, m.keys.Drop):
		input := m.prompt.Value()
		m.prompt.Blur()
		m.setMode(ModeNormal, "submit prompt")
		return m.addCourse(input)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

// addCourse creates a course from prompt input at the cursor slot.
func (m Model) addCourse(input string) (tea.Model, tea.Cmd) {
	if m.repo == nil {
		return m, nil
	}
	day := m.tt.Days()[m.cursor.Day]
	date, err := m.tt.Calendar().Week.DayDate(day)
	if err != nil {
		return m, m.setStatus(fmt.Sprintf("Error: %v", err))
	}

	qa, err := parseQuickAdd(input, m.tt.Calendar().Axis.Tick()*2)
	if err != nil {
		return m, m.setStatus(fmt.Sprintf("Error: %v", err))
	}
	start := m.slotMinute(m.cursor.Slot)
	c, err := timeline.NewCourse(qa.name, qa.room, qa.courseType, date,
		dateutil.FormatClock(start), dateutil.FormatClock(start+qa.minutes))
	if err == nil {
		err = c.FitsAxis(m.tt.Calendar().Axis)
	}
	if err == nil {
		err = m.repo.CreateCourse(context.Background(), c)
	}
	if err != nil {
		LogError("add course", err)
		return m, m.setStatus(fmt.Sprintf("Error: %v", err))
	}

	m.loading = true
	return m, tea.Batch(
		m.setStatus(fmt.Sprintf("Added %s", c.Name)),
		commands.LoadWeek(m.repo, m.tt.Calendar().Week),
	)
}

// quickAdd is a parsed add-course prompt.
type quickAdd struct {
	name       string
	minutes    int
	courseType string
	room       string
}

// parseQuickAdd parses "<name> [minutes] [type] [@room]". Words that are
// neither a duration, a course type nor a room form the name.
func parseQuickAdd(input string, defaultMinutes int) (quickAdd, error) {
	q := quickAdd{minutes: defaultMinutes, courseType: string(timeline.TypeLecture)}
	var name []string
	for _, word := range strings.Fields(input) {
		if n, err := strconv.Atoi(word); err == nil && n > 0 {
			q.minutes = n
			continue
		}
		if t, err := timeline.ParseBlockType(word); err == nil {
			q.courseType = string(t)
			continue
		}
		if room, ok := strings.CutPrefix(word, "@"); ok && room != "" {
			q.room = room
			continue
		}
		name = append(name, word)
	}
	q.name = strings.Join(name, " ")
	if q.name == "" {
		return quickAdd{}, timeline.ErrEmptyName
	}
	return q, nil
}
