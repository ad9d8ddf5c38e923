// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/pupitre/internal/config"
	"github.com/javiermolinar/pupitre/internal/llm"
	"github.com/javiermolinar/pupitre/internal/timeline"
)

// WeekLoadedMsg is sent when the courses of a week are loaded.
type WeekLoadedMsg struct {
	Week    timeline.Week
	Courses []timeline.Block
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// ReviewMsg is sent when an LLM review completes.
type ReviewMsg struct {
	Week   timeline.Week
	Review *llm.Review
}

// LoadWeek loads the courses of week.
func LoadWeek(repo timeline.Repository, week timeline.Week) tea.Cmd {
	return func() tea.Msg {
		courses, err := repo.ListCourses(context.Background(), week.Monday, week.Next().Monday)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("loading week %s: %w", week, err)}
		}
		return WeekLoadedMsg{Week: week, Courses: courses}
	}
}

// Review asks the configured LLM to review a week. s must not be shared
// with the running model.
func Review(cfg *config.Config, cal timeline.Calendar, s timeline.Schedule) tea.Cmd {
	return func() tea.Msg {
		client, err := llm.NewClient(cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.BaseURL)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("creating LLM client: %w", err)}
		}

		review, err := llm.NewReviewer(client).ReviewWeek(context.Background(), cal, s)
		if errors.Is(err, llm.ErrEmptyTimetable) {
			return StatusMsgCmd{Msg: "Nothing to review: the week has no courses"}
		}
		if err != nil {
			return ErrMsg{Err: err}
		}
		return ReviewMsg{Week: cal.Week, Review: review}
	}
}
