package theme

import (
	"testing"

	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/pupitre/internal/timeline"
)

func isHex(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, r := range s[1:] {
		if !('0' <= r && r <= '9' || 'a' <= r && r <= 'f' || 'A' <= r && r <= 'F') {
			return false
		}
	}
	return true
}

func TestEmbeddedThemes_CourseColors(t *testing.T) {
	for _, name := range Available() {
		t.Run(name, func(t *testing.T) {
			th, err := Load(name)
			if err != nil {
				t.Fatalf("Load(%q): %v", name, err)
			}
			if th.Name != name {
				t.Fatalf("Name = %q, want %q", th.Name, name)
			}

			palette := NewPalette(th)
			seen := make(map[string]timeline.BlockType)
			for _, ct := range timeline.CourseTypes {
				hex := th.CourseColor(ct)
				if !isHex(hex) {
					t.Errorf("CourseColor(%s) = %q, want #rrggbb", ct, hex)
					continue
				}
				if hex == th.FgMuted {
					t.Errorf("CourseColor(%s) is the free-slot colour", ct)
				}
				if other, dup := seen[hex]; dup {
					t.Errorf("%s and %s share %s", ct, other, hex)
				}
				seen[hex] = ct

				cc := palette.Course(ct)
				if cc.Edge != lipgloss.Color(hex) {
					t.Errorf("%s Edge = %q, want %q", ct, cc.Edge, hex)
				}
				if cc.Bg == cc.BgAlt {
					t.Errorf("%s alternate shade equals base %q", ct, cc.Bg)
				}
			}
		})
	}
}

func TestCourseColor_PlaceholderIsMuted(t *testing.T) {
	th, err := Load("frappe")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := th.CourseColor(timeline.TypePlaceholder); got != th.FgMuted {
		t.Errorf("CourseColor(PLACEHOLDER) = %q, want %q", got, th.FgMuted)
	}
}

func TestApplyDefaults(t *testing.T) {
	th := &Theme{Accent: "#5b4bd6", Exam: "#c8323c", Lab: "#2e9a4a"}
	th.applyDefaults()

	if th.Lab != "#2e9a4a" {
		t.Errorf("Lab = %q, set colours must be kept", th.Lab)
	}
	for _, ct := range []timeline.BlockType{timeline.TypeLecture, timeline.TypeSeminar, timeline.TypeTutoring} {
		if got := th.CourseColor(ct); got != th.Accent {
			t.Errorf("CourseColor(%s) = %q, want accent", ct, got)
		}
	}
	if th.Warning != th.Exam || th.Drag != th.Warning {
		t.Errorf("Warning = %q, Drag = %q, want both %q", th.Warning, th.Drag, th.Exam)
	}
}

func TestLoad_Names(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "mocha"},
		{"LATTE", "latte"},
		{"nonexistent", "mocha"},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			th, err := Load(tc.in)
			if err != nil {
				t.Fatalf("Load(%q): %v", tc.in, err)
			}
			if th.Name != tc.want {
				t.Errorf("Load(%q).Name = %q, want %q", tc.in, th.Name, tc.want)
			}
		})
	}
	if !IsAvailable("LATTE") || IsAvailable("nonexistent") {
		t.Error("IsAvailable should match embedded names case-insensitively")
	}
}
