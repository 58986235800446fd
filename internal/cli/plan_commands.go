package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"day-planner/internal/model"
)

func dayFlagOrToday(raw string) (model.Day, error) {
	if raw == "" {
		return model.Today(), nil
	}
	return model.ParseDay(raw)
}

func (c *CLI) planCmd() *cobra.Command {
	var dayFlag string
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show or adjust a day's meeting grid, work blocks and buffer",
	}
	cmd.PersistentFlags().StringVar(&dayFlag, "day", "", "Day to operate on (YYYY-MM-DD), defaults to today")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the day plan and its capacity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			day, err := dayFlagOrToday(dayFlag)
			if err != nil {
				return err
			}
			plan, err := c.planner.GetOrCreatePlan(ctx, day)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatPlan(plan))
			sum, err := c.planner.Summary(ctx, day)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatSummary(sum))
			return nil
		},
	}

	meeting := &cobra.Command{
		Use:   "meeting <slot>",
		Short: "Toggle a half-hour meeting slot (0-15)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := dayFlagOrToday(dayFlag)
			if err != nil {
				return err
			}
			slot, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("slot must be a number 0-%d", model.SlotCount-1)
			}
			plan, err := c.planner.ToggleMeeting(cmd.Context(), day, slot)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatPlan(plan))
			return nil
		},
	}

	block := &cobra.Command{
		Use:   "block <name> <count>",
		Short: "Set a recurring work block count (e.g. email 2)",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := dayFlagOrToday(dayFlag)
			if err != nil {
				return err
			}
			count, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("count must be a number")
			}
			plan, err := c.planner.SetWorkblock(cmd.Context(), day, args[0], count)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatPlan(plan))
			return nil
		},
	}

	buffer := &cobra.Command{
		Use:   "buffer <percent>",
		Short: "Set the overbooking safety margin (0-100)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := dayFlagOrToday(dayFlag)
			if err != nil {
				return err
			}
			pct, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("percent must be a number")
			}
			plan, err := c.planner.SetBuffer(cmd.Context(), day, pct)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Buffer for %s set to %d%%\n", plan.Day, plan.BufferPercent)
			return nil
		},
	}

	cmd.AddCommand(show, meeting, block, buffer)
	return cmd
}

func (c *CLI) closeDayCmd() *cobra.Command {
	var dayFlag string
	var drop bool
	cmd := &cobra.Command{
		Use:   "close-day",
		Short: "Close out a day: bump unfinished tasks and store its snapshot",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			day, err := dayFlagOrToday(dayFlag)
			if err != nil {
				return err
			}
			snap, err := c.planner.CloseDay(cmd.Context(), day, !drop)
			if err != nil {
				return err
			}
			if drop {
				fmt.Fprintf(cmd.OutOrStdout(), "Closed %s; unfinished tasks returned to backlog.\n", day)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Closed %s; unfinished tasks moved to %s.\n", day, day.Next())
			}
			fmt.Fprint(cmd.OutOrStdout(), formatSnapshot(*snap))
			return nil
		},
	}
	cmd.Flags().StringVar(&dayFlag, "day", "", "Day to close (YYYY-MM-DD), defaults to today")
	cmd.Flags().BoolVar(&drop, "drop", false, "Return unfinished tasks to the backlog instead of tomorrow")
	return cmd
}
