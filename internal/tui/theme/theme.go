// Package theme provides color themes for the TUI.
package theme

import (
	"embed"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/pupitre/internal/timeline"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`           // Base background
	BgHighlight string `toml:"bg_highlight"` // Free slots, header band
	BgSelection string `toml:"bg_selection"` // Cursor
	Fg          string `toml:"fg"`
	FgMuted     string `toml:"fg_muted"` // Tick labels, free slots
	Accent      string `toml:"accent"`   // Title, borders

	Lecture  string `toml:"lecture"`
	Lab      string `toml:"lab"`
	Seminar  string `toml:"seminar"`
	Exam     string `toml:"exam"`
	Tutoring string `toml:"tutoring"`

	Drag    string `toml:"drag"`    // Course being dragged, drop preview
	Warning string `toml:"warning"` // Unsaved changes, errors
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// Load loads a theme by name from embedded files.
// Falls back to mocha if the theme is not found.
func Load(name string) (*Theme, error) {
	if name == "" {
		name = "mocha"
	}
	name = strings.ToLower(name)

	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		if name != "mocha" {
			return Load("mocha")
		}
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.applyDefaults()

	return &t, nil
}

// CourseColor returns the hex color for a course type.
// Placeholders and unknown types get the muted foreground.
func (t *Theme) CourseColor(bt timeline.BlockType) string {
	switch bt {
	case timeline.TypeLecture:
		return t.Lecture
	case timeline.TypeLab:
		return t.Lab
	case timeline.TypeSeminar:
		return t.Seminar
	case timeline.TypeExam:
		return t.Exam
	case timeline.TypeTutoring:
		return t.Tutoring
	default:
		return t.FgMuted
	}
}

func (t *Theme) applyDefaults() {
	if t.Warning == "" {
		t.Warning = coalesce(t.Exam, t.Accent)
	}
	if t.Drag == "" {
		t.Drag = coalesce(t.Warning, t.Accent)
	}
	for _, c := range []*string{&t.Lecture, &t.Lab, &t.Seminar, &t.Exam, &t.Tutoring} {
		if *c == "" {
			*c = t.Accent
		}
	}
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns a list of available theme names.
func Available() []string {
	return []string{"mocha", "macchiato", "frappe", "latte", "light"}
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	name = strings.ToLower(name)
	for _, themeName := range Available() {
		if themeName == name {
			return true
		}
	}
	return false
}
