package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/pupitre/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ensureCursorVisible()
		return m, nil

	case commands.WeekLoadedMsg:
		// A load for a week we already left.
		if msg.Week != m.tt.Calendar().Week {
			return m, nil
		}
		m.loading = false
		err := m.tt.Load(msg.Courses)
		LogWeekLoad(msg.Week, len(msg.Courses), err)
		LogSchedule(m.tt, "load")
		if m.mode == ModeDrag {
			m.setMode(ModeNormal, "week reloaded")
		}
		if err != nil {
			return m, m.setStatus(fmt.Sprintf("Skipped courses: %v", err))
		}
		return m, nil

	case commands.ReviewMsg:
		if msg.Week != m.tt.Calendar().Week {
			return m, nil
		}
		m.review = msg.Review
		m.statusMsg = ""
		m.setMode(ModeModal, "review ready")
		return m, nil

	case commands.ErrMsg:
		m.loading = false
		m.err = msg.Err
		LogError("command", msg.Err)
		return m, m.setStatus(fmt.Sprintf("Error: %v", msg.Err))

	case commands.StatusMsgCmd:
		return m, m.setStatus(msg.Msg)

	case commands.ClearStatusMsg:
		if m.nowFunc().After(m.statusTime) {
			m.statusMsg = ""
		}
		return m, nil
	}

	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}
	return m, nil
}
