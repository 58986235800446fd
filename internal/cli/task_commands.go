package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"day-planner/internal/model"
	"day-planner/internal/service"
)

// resolveTaskID expands a task id prefix to the full id. Display shows the
// first 8 characters; any unambiguous prefix is accepted on input.
func (c *CLI) resolveTaskID(ctx context.Context, prefix string) (string, error) {
	tasks, err := c.tasks.ListAll(ctx)
	if err != nil {
		return "", err
	}
	var matches []string
	for _, t := range tasks {
		if t.ID == prefix {
			return t.ID, nil
		}
		if strings.HasPrefix(t.ID, prefix) {
			matches = append(matches, t.ID)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return "", service.NotFoundError{Kind: "task", ID: prefix}
	default:
		return "", fmt.Errorf("task id %q is ambiguous (%d matches)", prefix, len(matches))
	}
}

func parseDueFlag(raw string) (*model.Day, error) {
	if raw == "" {
		return nil, nil
	}
	day, err := model.ParseDay(raw)
	if err != nil {
		return nil, err
	}
	return &day, nil
}

func (c *CLI) addCmd() *cobra.Command {
	var due string
	var priority string
	var today bool
	cmd := &cobra.Command{
		Use:   "add <title ending with minutes>",
		Short: "Add a task from a quick-entry line, e.g. 'Write report 95'",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dueDay, err := parseDueFlag(due)
			if err != nil {
				return err
			}
			created, err := c.tasks.CreateFromLine(cmd.Context(), strings.Join(args, " "), dueDay, model.Priority(priority), today)
			if err != nil {
				return err
			}
			if len(created) > 1 {
				fmt.Fprintf(cmd.OutOrStdout(), "Split into %d parts:\n", len(created))
			}
			fmt.Fprint(cmd.OutOrStdout(), formatTaskList(created, model.Today(), ""))
			return nil
		},
	}
	cmd.Flags().StringVar(&due, "due", "", "Due date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "low", "Priority: urgent, high or low")
	cmd.Flags().BoolVar(&today, "today", false, "Assign to today immediately")
	return cmd
}

func (c *CLI) listCmd() *cobra.Command {
	var sortBy string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List backlog tasks",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ref := model.Today()
			tasks, err := c.tasks.ListBacklog(cmd.Context(), ref, service.BacklogSort(sortBy))
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatTaskList(tasks, ref, "Backlog empty."))
			return nil
		},
	}
	cmd.Flags().StringVar(&sortBy, "sort", "priority", "Order: priority, duration or due")
	return cmd
}

func (c *CLI) todayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "Show today's tasks and remaining capacity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			ref := model.Today()
			sum, err := c.planner.Summary(ctx, ref)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatSummary(sum))

			live, err := c.planner.LiveRemaining(ctx, now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Live: %dm left after commitments, %dm after today's tasks\n\n",
				live.AfterCommitments, live.AfterTasks)

			tasks, err := c.tasks.ListToday(ctx, ref)
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatTaskList(tasks, ref, "No tasks for today."))
			return nil
		},
	}
}

func (c *CLI) assignCmd() *cobra.Command {
	var day string
	cmd := &cobra.Command{
		Use:   "assign <task-id>",
		Short: "Put a task on a day (today by default)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := c.resolveTaskID(ctx, args[0])
			if err != nil {
				return err
			}
			target := model.Today()
			if day != "" {
				if target, err = model.ParseDay(day); err != nil {
					return err
				}
			}
			overbooked, err := c.planner.AssignDay(ctx, id, target)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Assigned %s to %s\n", shortID(id), target)
			if overbooked {
				fmt.Fprintln(cmd.OutOrStdout(), "Warning: urgent task added despite overbooking.")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&day, "day", "", "Target day (YYYY-MM-DD), defaults to today")
	return cmd
}

func (c *CLI) unassignCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "unassign <task-id>",
		Short: "Send a task back to the backlog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := c.resolveTaskID(ctx, args[0])
			if err != nil {
				return err
			}
			if err := c.planner.Unassign(ctx, id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unassigned %s\n", shortID(id))
			return nil
		},
	}
}

func (c *CLI) doneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task done without a focus session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := c.resolveTaskID(ctx, args[0])
			if err != nil {
				return err
			}
			task, err := c.tasks.MarkDone(ctx, id, now())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Done: %s\n", task.Title)
			return nil
		},
	}
}

func (c *CLI) editCmd() *cobra.Command {
	var title, due, priority string
	var minutes int
	cmd := &cobra.Command{
		Use:   "edit <task-id>",
		Short: "Edit a task; group edits propagate to sibling parts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := c.resolveTaskID(ctx, args[0])
			if err != nil {
				return err
			}
			dueDay, err := parseDueFlag(due)
			if err != nil {
				return err
			}
			affected, err := c.tasks.EditTask(ctx, id, service.EditInput{
				Title:    title,
				Minutes:  minutes,
				DueDate:  dueDay,
				Priority: model.Priority(priority),
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %d task(s)\n", len(affected))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().IntVar(&minutes, "minutes", 0, "New estimate in minutes")
	cmd.Flags().StringVar(&due, "due", "", "New due date (YYYY-MM-DD)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "New priority")
	return cmd
}

func (c *CLI) deleteCmd() *cobra.Command {
	var scope string
	cmd := &cobra.Command{
		Use:   "delete <task-id>",
		Short: "Delete a task; grouped tasks need --scope part|group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := c.resolveTaskID(ctx, args[0])
			if err != nil {
				return err
			}
			if err := c.tasks.DeleteTask(ctx, id, service.DeleteScope(scope)); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", shortID(id))
			return nil
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "", "For grouped tasks: part or group")
	return cmd
}
