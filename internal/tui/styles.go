package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/pupitre/internal/timeline"
	"github.com/javiermolinar/pupitre/internal/tui/theme"
)

// Styles holds all lipgloss styles for the board, derived from a theme.
type Styles struct {
	palette *theme.Palette

	colorBg lipgloss.Color

	TitleStyle      lipgloss.Style
	HeaderStyle     lipgloss.Style
	DayHeaderStyle  lipgloss.Style
	TimeColumnStyle lipgloss.Style
	BorderStyle     lipgloss.Style

	FreeStyle    lipgloss.Style
	CursorStyle  lipgloss.Style
	DraggedStyle lipgloss.Style
	PreviewStyle lipgloss.Style

	// Course block styles per type; Alt is used for a block that directly
	// follows one of the same type.
	courseStyles    map[timeline.BlockType]lipgloss.Style
	courseAltStyles map[timeline.BlockType]lipgloss.Style

	StatusStyle  lipgloss.Style
	WarningStyle lipgloss.Style
	MutedStyle   lipgloss.Style
	DirtyStyle   lipgloss.Style

	ModalStyle      lipgloss.Style
	ModalTitleStyle lipgloss.Style
	PromptStyle     lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	cell := lipgloss.NewStyle().Padding(0, 1)

	s := &Styles{
		palette: p,
		colorBg: p.Bg,

		TitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),
		HeaderStyle: lipgloss.NewStyle().
			Foreground(p.Fg),
		DayHeaderStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Fg).
			Padding(0, 1),
		TimeColumnStyle: lipgloss.NewStyle().
			Foreground(p.FgMuted).
			Padding(0, 1),
		BorderStyle: lipgloss.NewStyle().
			Foreground(p.BgSelection),

		FreeStyle: cell.
			Foreground(p.Free.Fg).
			Background(p.Free.Bg),
		CursorStyle: cell.
			Bold(true).
			Foreground(p.TextOnAccent).
			Background(p.Accent),
		DraggedStyle: cell.
			Bold(true).
			Foreground(p.TextOnDrag).
			Background(p.Drag),
		PreviewStyle: cell.
			Foreground(p.TextOnWarning).
			Background(p.Warning),

		courseStyles:    make(map[timeline.BlockType]lipgloss.Style, len(p.Courses)),
		courseAltStyles: make(map[timeline.BlockType]lipgloss.Style, len(p.Courses)),

		StatusStyle: lipgloss.NewStyle().
			Foreground(p.Fg),
		WarningStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Warning),
		MutedStyle: lipgloss.NewStyle().
			Foreground(p.FgMuted),
		DirtyStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Warning),

		ModalStyle: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Accent).
			Background(p.BgHighlight).
			Foreground(p.Fg).
			Padding(1, 2),
		ModalTitleStyle: lipgloss.NewStyle().
			Bold(true).
			Foreground(p.Accent),
		PromptStyle: lipgloss.NewStyle().
			Foreground(p.Accent),
	}

	for bt, c := range p.Courses {
		base := cell.Foreground(c.Fg)
		s.courseStyles[bt] = base.Background(c.Bg)
		s.courseAltStyles[bt] = base.Background(c.BgAlt)
	}
	return s
}

// Course returns the block style of a course type.
func (s *Styles) Course(bt timeline.BlockType, alt bool) lipgloss.Style {
	styles := s.courseStyles
	if alt {
		styles = s.courseAltStyles
	}
	if st, ok := styles[bt]; ok {
		return st
	}
	return s.FreeStyle
}
