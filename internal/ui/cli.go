// Package ui implements the pupitre command line.
package ui

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/pupitre/internal/config"
	"github.com/javiermolinar/pupitre/internal/db"
	"github.com/javiermolinar/pupitre/internal/tui"
)

var (
	// Version is set at build time
	Version = "dev"
	// Commit is set at build time
	Commit = "none"
)

// App holds the CLI application state.
type App struct {
	repo   *db.SQLite
	config *config.Config
	root   *cobra.Command
	debug  bool // Enable debug logging
}

// NewApp creates a new CLI application. The database is opened on first use.
func NewApp(cfg *config.Config) *App {
	a := &App{config: cfg}

	a.root = &cobra.Command{
		Use:   "pupitre",
		Short: "A classroom seating planner and weekly timetable",
		Long: `Pupitre arranges classroom seating plans and weekly course timetables.

Run without a subcommand to open the timetable board, where courses are
dragged between slots and days with the keyboard.`,
		SilenceUsage: true,
		RunE: func(_ *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			return tui.RunWithDebug(a.repo, a.config, a.debug)
		},
	}

	a.root.PersistentFlags().BoolVar(&a.debug, "debug", false, "Log board events to pupitre-debug.log")

	a.root.AddCommand(a.versionCmd())
	a.root.AddCommand(a.configCmd())
	a.root.AddCommand(a.planCmd())
	a.root.AddCommand(a.scheduleCmd())

	return a
}

func (a *App) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "pupitre %s (commit: %s)\n", Version, Commit)
		},
	}
}

// ensureRepo opens the configured database, creating its directory if needed.
func (a *App) ensureRepo() error {
	if a.repo != nil {
		return nil
	}
	path := a.config.Storage.DBPath
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}
	repo, err := db.New(path)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	a.repo = repo
	return nil
}

// Close releases the database, if it was opened.
func (a *App) Close() error {
	if a.repo == nil {
		return nil
	}
	err := a.repo.Close()
	a.repo = nil
	return err
}

// Execute runs the CLI application.
func (a *App) Execute() error {
	return a.root.Execute()
}
