package ui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/pupitre/internal/canvas"
	"github.com/javiermolinar/pupitre/internal/planner"
)

// Nominal on-screen card size at zoom 1, used to build drag rects.
const (
	cardWidth  = 50
	cardHeight = 40
)

func (a *App) planCmd() *cobra.Command {
	var planName string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Manage classroom seating plans",
		Long: `List seating plans, or manage one with a subcommand.

Plans hold free-floating cards (seats, students, desks) and rows that own
an ordered list of seats. Positions are canvas coordinates; the zoom and
pan flags describe the view the gesture was made in.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			names, err := a.repo.ListPlans(cmd.Context())
			if err != nil {
				return fmt.Errorf("listing plans: %w", err)
			}
			out := cmd.OutOrStdout()
			if len(names) == 0 {
				fmt.Fprintln(out, "No plans yet. Create one with 'pupitre plan new <name>'.")
				return nil
			}
			for _, n := range names {
				marker := " "
				if n == a.config.Planner.DefaultPlan {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %s\n", marker, n)
			}
			fmt.Fprintf(out, "\n%s %s\n", formatMuted("palette:"), strings.Join(a.config.Planner.Palette, ", "))
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&planName, "plan", "", "Plan name (default from config)")
	name := func() string {
		if planName != "" {
			return planName
		}
		return a.config.Planner.DefaultPlan
	}

	cmd.AddCommand(a.planNewCmd())
	cmd.AddCommand(a.planShowCmd(name))
	cmd.AddCommand(a.planPlaceCmd(name))
	cmd.AddCommand(a.planDragCmd(name))
	cmd.AddCommand(a.planRenameCmd(name))
	cmd.AddCommand(a.planDeleteCmd(name))
	cmd.AddCommand(a.planExportCmd(name))
	return cmd
}

func (a *App) planNewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "new <name>",
		Short: "Create an empty plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ensureRepo(); err != nil {
				return err
			}
			ctx := cmd.Context()
			name := strings.TrimSpace(args[0])
			if name == "" {
				return errors.New("plan name cannot be empty")
			}
			if _, err := a.repo.LoadPlan(ctx, name); err == nil {
				return fmt.Errorf("plan %q already exists", name)
			} else if !errors.Is(err, planner.ErrPlanNotFound) {
				return err
			}

			p := planner.NewPlan(name)
			if err := a.repo.SavePlan(ctx, p.Name, p.Snapshot()); err != nil {
				return fmt.Errorf("saving plan: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created plan %s\n", name)
			return nil
		},
	}
}

func (a *App) planShowCmd(name func() string) *cobra.Command {
	var noColor bool
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the cards and rows of a plan",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			p, err := a.loadPlan(cmd.Context(), name())
			if err != nil {
				return err
			}
			PrintPlan(cmd.OutOrStdout(), p)
			return nil
		},
	}
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable color output")
	return cmd
}

func (a *App) planPlaceCmd(name func() string) *cobra.Command {
	var (
		view   canvas.Transform
		at     canvas.Point
		overID string
	)

	cmd := &cobra.Command{
		Use:   "place <template>",
		Short: "Drop a palette template onto the canvas",
		Long: `Drop a new card built from a palette template.

The template decides the card: "Row-4" is a row with four seats, "Seat",
"Student-Ana" or any other name make a single card. --x and --y are the
screen position of the drop; the card lands at the matching canvas point
for the view given by --zoom, --pan-x and --pan-y.

Example:
  pupitre plan place Row-4 --x 100 --y 50`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if view.K <= 0 {
				return errors.New("zoom must be positive")
			}
			ctx := cmd.Context()
			p, err := a.loadPlan(ctx, name())
			if err != nil {
				return err
			}

			// Palette items start at the screen origin, so the drop position is the delta.
			drag := p.BeginPaletteDrag(args[0], view)
			added, err := drag.End(planner.DragEnd{OverID: overID, Delta: at}, view)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !added {
				fmt.Fprintf(out, "Drop on %q rejected: palette cards can only be placed on the canvas.\n", overID)
				return nil
			}
			if err := a.repo.SavePlan(ctx, p.Name, p.Snapshot()); err != nil {
				return fmt.Errorf("saving plan: %w", err)
			}
			c := drag.AddedCard
			fmt.Fprintf(out, "Placed %s %q at (%g, %g)\n", c.ID, c.Text, c.Coordinates.X, c.Coordinates.Y)
			return nil
		},
	}

	addViewFlags(cmd, &view)
	cmd.Flags().Float64Var(&at.X, "x", 0, "Drop position, screen x")
	cmd.Flags().Float64Var(&at.Y, "y", 0, "Drop position, screen y")
	cmd.Flags().StringVar(&overID, "over", planner.CanvasID, "Drop target id")
	return cmd
}

func (a *App) planDragCmd(name func() string) *cobra.Command {
	var (
		view   canvas.Transform
		delta  canvas.Point
		overID string
	)

	cmd := &cobra.Command{
		Use:   "drag <card-id>",
		Short: "Drag a card by a screen offset onto a target",
		Long: `Drag an existing card and release it over a target.

--over is the id of the drop target: "canvas" or a row card id. Dropping a
card on a row appends it to that row; dropping a row child on the canvas
frees it. --dx and --dy are the pointer movement in screen pixels.

Example:
  pupitre plan drag Seat-1a2b3c4d --over Row-4-9f8e7d6c --dx 30 --dy -10`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if view.K <= 0 {
				return errors.New("zoom must be positive")
			}
			ctx := cmd.Context()
			p, err := a.loadPlan(ctx, name())
			if err != nil {
				return err
			}

			initial, ok := screenRect(p, args[0], view)
			if !ok {
				return fmt.Errorf("%w: %s", planner.ErrCardNotFound, args[0])
			}
			ev := planner.DragEnd{
				InitialRect: initial,
				OverID:      overID,
				Delta:       delta,
			}
			if overID != planner.CanvasID {
				if r, ok := screenRect(p, overID, view); ok {
					ev.OverRect = &r
				}
			}

			changed, err := p.BeginDrag(args[0], view).End(ev, view)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !changed {
				fmt.Fprintln(out, "No change.")
				return nil
			}
			if err := a.repo.SavePlan(ctx, p.Name, p.Snapshot()); err != nil {
				return fmt.Errorf("saving plan: %w", err)
			}

			c, rowID, _ := p.Card(args[0])
			where := "canvas"
			if rowID != "" {
				where = rowID
			}
			fmt.Fprintf(out, "Moved %s to (%g, %g) on %s\n", c.ID, c.Coordinates.X, c.Coordinates.Y, where)
			return nil
		},
	}

	addViewFlags(cmd, &view)
	cmd.Flags().Float64Var(&delta.X, "dx", 0, "Pointer movement, screen x")
	cmd.Flags().Float64Var(&delta.Y, "dy", 0, "Pointer movement, screen y")
	cmd.Flags().StringVar(&overID, "over", planner.CanvasID, "Drop target id")
	return cmd
}

func (a *App) planRenameCmd(name func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "rename <card-id> <text>",
		Short: "Change the text of a card",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := a.loadPlan(ctx, name())
			if err != nil {
				return err
			}
			if err := p.Rename(args[0], args[1]); err != nil {
				return err
			}
			if err := a.repo.SavePlan(ctx, p.Name, p.Snapshot()); err != nil {
				return fmt.Errorf("saving plan: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Renamed %s to %q\n", args[0], strings.TrimSpace(args[1]))
			return nil
		},
	}
}

func (a *App) planDeleteCmd(name func() string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <card-id>",
		Short: "Remove a card; removing a row removes its seats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := a.loadPlan(ctx, name())
			if err != nil {
				return err
			}
			before := p.Len()
			if err := p.Delete(args[0]); err != nil {
				return err
			}
			if err := a.repo.SavePlan(ctx, p.Name, p.Snapshot()); err != nil {
				return fmt.Errorf("saving plan: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%d cards removed)\n", args[0], before-p.Len())
			return nil
		},
	}
}

func (a *App) planExportCmd(name func() string) *cobra.Command {
	var toClipboard bool
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the plan as JSON",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p, err := a.loadPlan(cmd.Context(), name())
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(p.Snapshot(), "", "  ")
			if err != nil {
				return fmt.Errorf("encoding plan: %w", err)
			}
			if toClipboard {
				if err := clipboard.WriteAll(string(data)); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Copied plan %s to clipboard\n", p.Name)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
	cmd.Flags().BoolVar(&toClipboard, "copy", false, "Copy the JSON to the clipboard instead of printing it")
	return cmd
}

func (a *App) loadPlan(ctx context.Context, name string) (*planner.Plan, error) {
	if err := a.ensureRepo(); err != nil {
		return nil, err
	}
	snap, err := a.repo.LoadPlan(ctx, name)
	if err != nil {
		return nil, err
	}
	p, err := planner.FromSnapshot(name, *snap)
	if err != nil {
		return nil, fmt.Errorf("loading plan %s: %w", name, err)
	}
	return p, nil
}

func addViewFlags(cmd *cobra.Command, view *canvas.Transform) {
	cmd.Flags().Float64Var(&view.K, "zoom", 1, "Canvas zoom factor")
	cmd.Flags().Float64Var(&view.X, "pan-x", 0, "Canvas pan, screen x")
	cmd.Flags().Float64Var(&view.Y, "pan-y", 0, "Canvas pan, screen y")
}

// screenRect returns the on-screen rect of a card in view. Row children are
// positioned relative to their row card.
func screenRect(p *planner.Plan, id string, view canvas.Transform) (canvas.Rect, bool) {
	c, rowID, found := p.Card(id)
	if !found {
		return canvas.Rect{}, false
	}
	pos := c.Coordinates
	if rowID != "" {
		row, _, _ := p.Card(rowID)
		pos = row.Coordinates.Add(pos)
	}
	origin := canvas.ToScreen(pos, view)
	return canvas.Rect{
		Left:   origin.X,
		Top:    origin.Y,
		Width:  cardWidth * view.K,
		Height: cardHeight * view.K,
	}, true
}
