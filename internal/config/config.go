// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/javiermolinar/pupitre/internal/dateutil"
	"github.com/javiermolinar/pupitre/internal/planner"
	"github.com/javiermolinar/pupitre/internal/timeline"
)

// Config holds the application configuration.
type Config struct {
	Timeline TimelineConfig `toml:"timeline"`
	Planner  PlannerConfig  `toml:"planner"`
	LLM      LLMConfig      `toml:"llm"`
	Storage  StorageConfig  `toml:"storage"`
	UI       UIConfig       `toml:"ui"`
}

// TimelineConfig holds the hour axis and the days shown on the board.
type TimelineConfig struct {
	DayStart    string   `toml:"day_start"`    // e.g., "07:00"
	DayEnd      string   `toml:"day_end"`      // e.g., "20:00"
	TickMinutes int      `toml:"tick_minutes"` // 15, 30 or 60
	Days        []string `toml:"days"`         // e.g., ["monday", "tuesday", ...]
}

// PlannerConfig holds room planner settings.
type PlannerConfig struct {
	DefaultPlan string   `toml:"default_plan"`
	Palette     []string `toml:"palette"` // template ids, e.g. "Row-4"
}

// LLMConfig holds LLM provider settings.
type LLMConfig struct {
	Provider string `toml:"provider"` // "ollama" or "lmstudio"
	Model    string `toml:"model"`
	BaseURL  string `toml:"base_url"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme string `toml:"theme"` // "mocha", "macchiato", "frappe", "latte"
}

var validTicks = map[int]bool{15: true, 30: true, 60: true}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Timeline: TimelineConfig{
			DayStart:    timeline.DefaultDayStart,
			DayEnd:      timeline.DefaultDayEnd,
			TickMinutes: timeline.DefaultTickMinutes,
			Days:        []string{"monday", "tuesday", "wednesday", "thursday", "friday"},
		},
		Planner: PlannerConfig{
			DefaultPlan: "main",
			Palette:     []string{"Row-4", "Row-6", "Seat", "Student", "Desk"},
		},
		LLM: LLMConfig{
			Provider: "ollama",
			Model:    "llama3.2",
			BaseURL:  "http://localhost:11434",
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		UI: UIConfig{
			Theme: "frappe",
		},
	}
}

// defaultDBPath returns the default database path.
func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "pupitre.db"
	}
	return filepath.Join(home, ".local", "share", "pupitre", "pupitre.db")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "pupitre", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies PUPITRE_* environment variables on top of the file config.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("PUPITRE_DAY_START"); v != "" {
		cfg.Timeline.DayStart = v
	}
	if v := os.Getenv("PUPITRE_DAY_END"); v != "" {
		cfg.Timeline.DayEnd = v
	}
	if v := os.Getenv("PUPITRE_TICK_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("PUPITRE_TICK_MINUTES: %w", err)
		}
		cfg.Timeline.TickMinutes = n
	}
	if v := os.Getenv("PUPITRE_DAYS"); v != "" {
		cfg.Timeline.Days = splitList(v)
	}

	if v := os.Getenv("PUPITRE_DEFAULT_PLAN"); v != "" {
		cfg.Planner.DefaultPlan = v
	}
	if v := os.Getenv("PUPITRE_PALETTE"); v != "" {
		cfg.Planner.Palette = splitList(v)
	}

	if v := os.Getenv("PUPITRE_LLM_PROVIDER"); v != "" {
		cfg.LLM.Provider = v
	}
	if v := os.Getenv("PUPITRE_LLM_MODEL"); v != "" {
		cfg.LLM.Model = v
	}
	if v := os.Getenv("PUPITRE_LLM_BASE_URL"); v != "" {
		cfg.LLM.BaseURL = v
	}

	if v := os.Getenv("PUPITRE_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}

	if v := os.Getenv("PUPITRE_UI_THEME"); v != "" {
		cfg.UI.Theme = v
	}
	return nil
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := parts[:0]
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	start, err := validateTime(c.Timeline.DayStart, "day_start")
	if err != nil {
		return err
	}
	end, err := validateTime(c.Timeline.DayEnd, "day_end")
	if err != nil {
		return err
	}
	if start >= end {
		return errors.New("day_start must be before day_end")
	}
	if !validTicks[c.Timeline.TickMinutes] {
		return fmt.Errorf("tick_minutes must be 15, 30 or 60, got %d", c.Timeline.TickMinutes)
	}
	if (end-start)%c.Timeline.TickMinutes != 0 {
		return fmt.Errorf("day span %s-%s is not a multiple of %d minutes",
			c.Timeline.DayStart, c.Timeline.DayEnd, c.Timeline.TickMinutes)
	}

	if len(c.Timeline.Days) == 0 {
		return errors.New("at least one day must be configured")
	}
	for _, day := range c.Timeline.Days {
		if _, err := dateutil.WeekdayOffset(day); err != nil {
			return fmt.Errorf("invalid day: %s", day)
		}
	}

	for _, id := range c.Planner.Palette {
		if _, err := planner.ParseTemplate(id); err != nil {
			return fmt.Errorf("palette: %w", err)
		}
	}

	switch c.LLM.Provider {
	case "", "ollama", "lmstudio":
	default:
		return fmt.Errorf("unknown llm provider: %s", c.LLM.Provider)
	}

	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}
	return nil
}

// validateTime checks a time string is in HH:MM format and returns its minute of day.
func validateTime(t, field string) (int, error) {
	m, err := dateutil.ParseClock(t)
	if err != nil {
		return 0, fmt.Errorf("%s must be in HH:MM format, got %q", field, t)
	}
	return m, nil
}

// Axis builds the timeline hour axis described by the config.
func (c *Config) Axis() (timeline.Axis, error) {
	return timeline.NewAxis(c.Timeline.DayStart, c.Timeline.DayEnd, c.Timeline.TickMinutes)
}

// Days returns the configured board days, lowercased.
func (c *Config) Days() []string {
	days := make([]string, len(c.Timeline.Days))
	for i, d := range c.Timeline.Days {
		days[i] = strings.ToLower(d)
	}
	return days
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
