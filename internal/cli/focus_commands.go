package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"day-planner/internal/model"
	"day-planner/internal/service"
)

// focusCmd runs an interactive focus session: a 1-second countdown tick and
// a periodic live-capacity refresh run in the background while commands are
// read from stdin. The session can only end through done or abandon; closing
// without a recorded reason is rejected.
func (c *CLI) focusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "focus <task-id>",
		Short: "Run a timed focus session against a task",
		Long: `Run a timed focus session against a task.

Commands while the session runs:
  extend <minutes> <reason>   add time (reason required)
  done [reason]               finish and mark the task done
  abandon <reason>            finish without completing (reason required)
  status                      show the countdown and live capacity
  quit                        close; treated as abandon with the last reason`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			id, err := c.resolveTaskID(ctx, args[0])
			if err != nil {
				return err
			}
			active, err := c.focus.Start(ctx, id, now())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Focusing on %q for %dm. Timer %s.\n",
				active.TaskTitle, active.PlannedMinutes, formatCountdown(active.TimerSeconds))

			tickID, err := c.scheduler.ScheduleInterval(time.Second, func() {
				if remaining, running := c.focus.Tick(); running && remaining == 0 {
					fmt.Fprintln(out, "Time is up. Finish with 'done' or 'abandon <reason>', or 'extend <minutes> <reason>'.")
				}
			})
			if err != nil {
				return err
			}
			refreshID, err := c.scheduler.ScheduleInterval(c.cfg.LiveRefreshInterval, func() {
				if live, err := c.planner.LiveRemaining(ctx, now()); err == nil {
					fmt.Fprintf(out, "Live: %dm left after commitments, %dm after today's tasks\n",
						live.AfterCommitments, live.AfterTasks)
				}
			})
			if err != nil {
				return err
			}
			c.scheduler.Start()
			defer func() {
				c.scheduler.Cancel(tickID)
				c.scheduler.Cancel(refreshID)
				c.scheduler.Stop()
			}()

			finished, err := c.focusLoop(cmd, bufio.NewScanner(cmd.InOrStdin()))
			if err != nil {
				return err
			}
			if finished != nil {
				fmt.Fprint(out, formatFinished(finished))
				return nil
			}

			// Input ended (EOF or interrupt) without an explicit finish:
			// close as abandon, which needs a previously recorded reason.
			session, err := c.focus.Cancel(ctx, now())
			if err != nil {
				var missing service.MissingReasonError
				if errors.As(err, &missing) {
					return fmt.Errorf("session still running: %w", err)
				}
				return err
			}
			fmt.Fprint(out, formatFinished(session))
			return nil
		},
	}
}

// focusLoop processes stdin commands until the session reaches a terminal
// state or input runs out. A nil session with nil error means EOF.
func (c *CLI) focusLoop(cmd *cobra.Command, scanner *bufio.Scanner) (*model.FocusSession, error) {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil && !errors.Is(err, io.EOF) {
				return nil, err
			}
			return nil, nil
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "extend":
			if len(fields) < 3 {
				fmt.Fprintln(out, "usage: extend <minutes> <reason>")
				continue
			}
			minutes, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Fprintln(out, "minutes must be a number")
				continue
			}
			active, err := c.focus.Extend(minutes, strings.Join(fields[2:], " "))
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			fmt.Fprintf(out, "Extended. Timer %s, extensions %d.\n",
				formatCountdown(active.TimerSeconds), active.ExtensionCount)
		case "done":
			session, err := c.focus.Finish(ctx, model.OutcomeDone, strings.Join(fields[1:], " "), now())
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			return session, nil
		case "abandon":
			session, err := c.focus.Finish(ctx, model.OutcomeAbandon, strings.Join(fields[1:], " "), now())
			if err != nil {
				fmt.Fprintln(out, err)
				continue
			}
			return session, nil
		case "status":
			if active := c.focus.Active(); active != nil {
				fmt.Fprintf(out, "Timer %s, planned %dm, extensions %d.\n",
					formatCountdown(active.TimerSeconds), active.PlannedMinutes, active.ExtensionCount)
			}
			if live, err := c.planner.LiveRemaining(ctx, now()); err == nil {
				fmt.Fprintf(out, "Live: %dm left after commitments, %dm after today's tasks\n",
					live.AfterCommitments, live.AfterTasks)
			}
		case "quit", "q":
			return nil, nil
		default:
			fmt.Fprintln(out, "commands: extend, done, abandon, status, quit")
		}
	}
}

func formatFinished(s *model.FocusSession) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Session %s: %s, planned %dm, actual %dm", shortID(s.ID), s.Outcome, s.PlannedMinutes, s.ActualMinutes)
	if s.ExtensionCount > 0 {
		fmt.Fprintf(&b, ", %d extension(s)", s.ExtensionCount)
	}
	if s.Reason != "" {
		fmt.Fprintf(&b, " (%s)", s.Reason)
	}
	b.WriteByte('\n')
	return b.String()
}
