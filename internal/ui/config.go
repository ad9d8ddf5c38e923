package ui

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/pupitre/internal/config"
	"github.com/javiermolinar/pupitre/internal/llm"
	"github.com/javiermolinar/pupitre/internal/tui/theme"
)

func (a *App) configCmd() *cobra.Command {
	var (
		path string
		edit bool
	)

	cmd := &cobra.Command{
		Use:   "config",
		Short: "View or edit configuration",
		Long: `Interactive configuration management.

If no config file exists, creates one with default values.
Otherwise, displays current config and, with --edit, prompts for each value.

Example:
  pupitre config --edit`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if path == "" {
				path = config.DefaultConfigPath()
			}
			return runConfig(cmd.InOrStdin(), cmd.OutOrStdout(), path, edit)
		},
	}

	cmd.PersistentFlags().StringVar(&path, "path", "", "Config file path (default ~/.config/pupitre/config.toml)")
	cmd.Flags().BoolVarP(&edit, "edit", "e", false, "Prompt for new values")
	cmd.AddCommand(configInitCmd(&path))
	return cmd
}

func configInitCmd(path *string) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := *path
			if p == "" {
				p = config.DefaultConfigPath()
			}
			return initConfig(cmd.OutOrStdout(), p, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing config file")
	return cmd
}

func initConfig(out io.Writer, path string, force bool) error {
	if _, err := os.Stat(path); err == nil && !force {
		return fmt.Errorf("config file %s already exists (use --force to overwrite)", path)
	}
	if err := config.Default().SaveTo(path); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(out, "Wrote default config to %s\n", path)
	return nil
}

func runConfig(in io.Reader, out io.Writer, path string, edit bool) error {
	fmt.Fprintf(out, "Config file: %s\n\n", path)

	cfg, err := config.LoadFrom(path)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
		fmt.Fprintln(out, "No config file found. Creating with default values...")
		if err := cfg.SaveTo(path); err != nil {
			return fmt.Errorf("saving config: %w", err)
		}
		fmt.Fprintf(out, "Created %s\n\n", path)
	}

	printConfig(out, cfg)
	if !edit {
		return nil
	}

	fmt.Fprintln(out)
	reader := bufio.NewReader(in)
	p := prompter{r: reader, w: out}

	cfg.Timeline.DayStart = p.value("Day start", cfg.Timeline.DayStart)
	cfg.Timeline.DayEnd = p.value("Day end", cfg.Timeline.DayEnd)
	cfg.Timeline.TickMinutes = p.int("Tick minutes (15, 30, 60)", cfg.Timeline.TickMinutes)
	cfg.Timeline.Days = p.slice("Days (comma-separated)", cfg.Timeline.Days)
	cfg.Planner.DefaultPlan = p.value("Default plan", cfg.Planner.DefaultPlan)
	cfg.Planner.Palette = p.slice("Palette templates (comma-separated)", cfg.Planner.Palette)
	cfg.LLM.Provider = p.value("LLM provider ("+strings.Join(llm.Providers(), ", ")+")", cfg.LLM.Provider)
	cfg.LLM.Model = p.value("LLM model", cfg.LLM.Model)
	cfg.LLM.BaseURL = p.value("LLM base URL", cfg.LLM.BaseURL)
	cfg.Storage.DBPath = p.value("Database path", cfg.Storage.DBPath)
	cfg.UI.Theme = p.theme(cfg.UI.Theme)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if err := cfg.SaveTo(path); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Fprintln(out, "\nConfiguration saved!")
	return nil
}

func printConfig(w io.Writer, cfg *config.Config) {
	fmt.Fprintln(w, "Current configuration:")
	fmt.Fprintln(w, "──────────────────────")
	fmt.Fprintln(w, "[timeline]")
	fmt.Fprintf(w, "  day_start        = %s\n", cfg.Timeline.DayStart)
	fmt.Fprintf(w, "  day_end          = %s\n", cfg.Timeline.DayEnd)
	fmt.Fprintf(w, "  tick_minutes     = %d\n", cfg.Timeline.TickMinutes)
	fmt.Fprintf(w, "  days             = %s\n", strings.Join(cfg.Timeline.Days, ", "))
	fmt.Fprintln(w, "\n[planner]")
	fmt.Fprintf(w, "  default_plan     = %s\n", cfg.Planner.DefaultPlan)
	fmt.Fprintf(w, "  palette          = %s\n", strings.Join(cfg.Planner.Palette, ", "))
	fmt.Fprintln(w, "\n[llm]")
	fmt.Fprintf(w, "  provider         = %s\n", cfg.LLM.Provider)
	fmt.Fprintf(w, "  model            = %s\n", cfg.LLM.Model)
	fmt.Fprintf(w, "  base_url         = %s\n", cfg.LLM.BaseURL)
	fmt.Fprintln(w, "\n[storage]")
	fmt.Fprintf(w, "  db_path          = %s\n", cfg.Storage.DBPath)
	fmt.Fprintln(w, "\n[ui]")
	fmt.Fprintf(w, "  theme            = %s\n", cfg.UI.Theme)
}

// prompter reads one answer per line; an empty answer keeps the current value.
type prompter struct {
	r *bufio.Reader
	w io.Writer
}

func (p prompter) value(label, current string) string {
	if current == "" {
		fmt.Fprintf(p.w, "  %s: ", label)
	} else {
		fmt.Fprintf(p.w, "  %s [%s]: ", label, current)
	}
	input, _ := p.r.ReadString('\n')
	input = strings.TrimSpace(input)
	if input == "" {
		return current
	}
	return input
}

func (p prompter) int(label string, current int) int {
	for {
		v := p.value(label, fmt.Sprint(current))
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			return n
		}
		fmt.Fprintf(p.w, "  Invalid number %q\n", v)
	}
}

func (p prompter) slice(label string, current []string) []string {
	input := p.value(label, strings.Join(current, ", "))
	parts := strings.Split(input, ",")
	result := make([]string, 0, len(parts))
	for _, s := range parts {
		if s = strings.TrimSpace(s); s != "" {
			result = append(result, s)
		}
	}
	return result
}

func (p prompter) theme(current string) string {
	options := strings.Join(theme.Available(), ", ")
	label := fmt.Sprintf("UI theme (%s)", options)
	for {
		value := strings.ToLower(p.value(label, current))
		if theme.IsAvailable(value) {
			return value
		}
		fmt.Fprintf(p.w, "  Invalid theme %q. Available: %s\n", value, options)
	}
}
