package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/javiermolinar/pupitre/internal/dateutil"
	"github.com/javiermolinar/pupitre/internal/llm"
	"github.com/javiermolinar/pupitre/internal/timeline"
)

// now is replaced in tests.
var now = time.Now

func (a *App) scheduleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Show and edit the weekly course timetable",
	}
	cmd.AddCommand(a.scheduleShowCmd())
	cmd.AddCommand(a.scheduleAddCmd())
	cmd.AddCommand(a.scheduleMoveCmd())
	cmd.AddCommand(a.scheduleReviewCmd())
	return cmd
}

func (a *App) scheduleShowCmd() *cobra.Command {
	var (
		week      string
		showFree  bool
		showIDs   bool
		showStats bool
		verbose   bool
		noColor   bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the courses of a week",
		Long: `Print the courses of a week, one day at a time.

--week accepts any date in the week: "today", "next-week", "monday",
"next-friday" or "2025-01-15".

Example:
  pupitre schedule show --week next-week --free --stats`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			tt, err := a.loadTimetable(cmd.Context(), week)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			cal := tt.Calendar()
			fmt.Fprintf(out, "%s\n\n", formatHeader(fmt.Sprintf("WEEK OF %s (%s)",
				cal.Week.Monday.Format("Mon Jan 2, 2006"), cal.Axis)))

			s := tt.Schedule()
			PrintSchedule(out, cal, s, PrintOpts{ShowFree: showFree, ShowIDs: showIDs, Verbose: verbose})
			if showStats {
				fmt.Fprintln(out)
				PrintStats(out, timeline.Stats(s))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&week, "week", "w", "", "Any date in the week to show (default today)")
	cmd.Flags().BoolVar(&showFree, "free", false, "Show free time between courses")
	cmd.Flags().BoolVar(&showIDs, "ids", false, "Show course ids")
	cmd.Flags().BoolVar(&showStats, "stats", false, "Show weekly totals")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Show full course names")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func (a *App) scheduleAddCmd() *cobra.Command {
	var (
		date       string
		start, end string
		courseType string
		room       string
	)

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Add a course",
		Long: `Add a course to the timetable.

The course must sit on the hour axis and must not overlap another course
on the same day.

Example:
  pupitre schedule add Algebra --date monday --start 08:00 --end 09:30 --type lecture --room A1`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := parseDay(date)
			if err != nil {
				return err
			}
			axis, err := a.config.Axis()
			if err != nil {
				return err
			}
			c, err := timeline.NewCourse(args[0], room, courseType, d, start, end)
			if err != nil {
				return err
			}
			if err := c.FitsAxis(axis); err != nil {
				return err
			}

			if err := a.ensureRepo(); err != nil {
				return err
			}
			if err := a.repo.CreateCourse(cmd.Context(), c); err != nil {
				return fmt.Errorf("adding course: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s %s %s %s-%s  %s\n",
				formatCourseType(c.Type), c.Name, dateutil.FormatDate(d), c.StartClock(), c.EndClock(), formatMuted(c.ID))
			return nil
		},
	}

	cmd.Flags().StringVarP(&date, "date", "d", "", "Course date (default today)")
	cmd.Flags().StringVarP(&start, "start", "s", "", "Start time, HH:MM")
	cmd.Flags().StringVarP(&end, "end", "e", "", "End time, HH:MM")
	cmd.Flags().StringVarP(&courseType, "type", "t", string(timeline.TypeLecture), "lecture, lab, seminar, exam or tutoring")
	cmd.Flags().StringVarP(&room, "room", "r", "", "Room")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	return cmd
}

func (a *App) scheduleMoveCmd() *cobra.Command {
	var (
		week  string
		after bool
	)

	cmd := &cobra.Command{
		Use:   "move <course-id> <target>",
		Short: "Move a course next to another block or onto a day",
		Long: `Move a course as if dragged onto target and dropped.

target is a course id, a free-slot id as printed by 'schedule show --ids
--free', or a day name to append to that day. The course lands before
target, or after it with --after; following courses on the day shift to
make room.

Example:
  pupitre schedule move 3f2a... placeholder-tuesday-10:00`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			tt, err := a.loadTimetable(ctx, week)
			if err != nil {
				return err
			}

			changed, err := tt.Move(args[0], args[1], after)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !changed {
				fmt.Fprintln(out, "No change.")
				return nil
			}
			dirty := tt.DirtyDays()
			if err := tt.Save(ctx, a.repo); err != nil {
				return err
			}

			if b, ok := tt.Schedule().Block(args[0]); ok {
				fmt.Fprintf(out, "Moved %s to %s %s-%s\n", b.Name, b.Weekday(), b.StartClock(), b.EndClock())
			}
			fmt.Fprintf(out, "%s %v\n", formatMuted("updated:"), dirty)
			return nil
		},
	}

	cmd.Flags().StringVarP(&week, "week", "w", "", "Any date in the week (default today)")
	cmd.Flags().BoolVar(&after, "after", false, "Drop after target instead of before")
	return cmd
}

func (a *App) scheduleReviewCmd() *cobra.Command {
	var (
		week  string
		model string
	)

	cmd := &cobra.Command{
		Use:   "review",
		Short: "Ask the LLM to review the week",
		Long: `Send the week's timetable to the configured LLM and print its review:
a summary, warnings such as long days without a break, and suggestions.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			tt, err := a.loadTimetable(ctx, week)
			if err != nil {
				return err
			}

			if model == "" {
				model = a.config.LLM.Model
			}
			client, err := llm.NewClient(a.config.LLM.Provider, model, a.config.LLM.BaseURL)
			if err != nil {
				return fmt.Errorf("creating LLM client: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Reviewing week of %s with %s...\n\n", tt.Calendar().Week, model)
			review, err := llm.NewReviewer(client).ReviewWeek(ctx, tt.Calendar(), tt.Schedule())
			if err != nil {
				if errors.Is(err, llm.ErrEmptyTimetable) {
					fmt.Fprintln(out, "Nothing to review: the week has no courses.")
					return nil
				}
				return fmt.Errorf("reviewing week: %w", err)
			}
			PrintReview(out, review, termWidth())
			return nil
		},
	}

	cmd.Flags().StringVarP(&week, "week", "w", "", "Any date in the week (default today)")
	cmd.Flags().StringVarP(&model, "model", "m", "", "Model override (default from config)")
	return cmd
}

// loadTimetable opens the repository and loads the week containing the
// relative date weekArg. Courses that no longer fit the configured axis are
// reported on stderr and left out.
func (a *App) loadTimetable(ctx context.Context, weekArg string) (*timeline.Timetable, error) {
	d, err := parseDay(weekArg)
	if err != nil {
		return nil, err
	}
	axis, err := a.config.Axis()
	if err != nil {
		return nil, err
	}
	if err := a.ensureRepo(); err != nil {
		return nil, err
	}

	cal := timeline.Calendar{Axis: axis, Week: timeline.WeekOf(d)}
	tt, err := timeline.NewTimetable(cal, a.config.Days())
	if err != nil {
		return nil, err
	}
	if err := tt.Reload(ctx, a.repo); err != nil {
		if errors.Is(err, timeline.ErrOffAxis) || errors.Is(err, timeline.ErrOverlap) {
			fmt.Fprintf(a.root.ErrOrStderr(), "%s %v\n", formatWarn("skipped:"), err)
			return tt, nil
		}
		return nil, err
	}
	return tt, nil
}

// parseDay parses a relative date in the local time zone.
func parseDay(s string) (time.Time, error) {
	d, err := dateutil.ParseRelativeDate(s, now())
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", err, s)
	}
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.Local), nil
}
