package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"day-planner/internal/model"
)

func (c *CLI) statsCmd() *cobra.Command {
	var dayFlag string
	var window int
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show daily statistics, live for today and stored for past days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ref := model.Today()
			if window > 1 {
				snaps, err := c.stats.RollingWindow(ctx, window, ref)
				if err != nil {
					return err
				}
				for _, snap := range snaps {
					fmt.Fprint(cmd.OutOrStdout(), formatSnapshot(snap))
				}
				return nil
			}
			day := ref
			if dayFlag != "" {
				var err error
				if day, err = model.ParseDay(dayFlag); err != nil {
					return err
				}
			}
			snap, err := c.stats.SnapshotFor(ctx, day, ref)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatSnapshot(*snap))
			return nil
		},
	}
	cmd.Flags().StringVar(&dayFlag, "day", "", "Day to report (YYYY-MM-DD), defaults to today")
	cmd.Flags().IntVar(&window, "window", 0, "Rolling window of N days ending today")
	return cmd
}

func (c *CLI) exportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export [file]",
		Short: "Write the full planner state as JSON (stdout by default)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := c.exporter.ExportJSON(cmd.Context())
			if err != nil {
				return err
			}
			if len(args) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil {
				return fmt.Errorf("write export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", args[0])
			return nil
		},
	}
}

func (c *CLI) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Replace the planner state from an exported JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read import: %w", err)
			}
			if err := c.exporter.Import(cmd.Context(), data); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported state from %s\n", args[0])
			return nil
		},
	}
}
