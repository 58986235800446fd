package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"day-planner/internal/config"
	"day-planner/internal/service"
)

// CLI is the command surface over the planner services. It renders and
// collects input; every rule lives in the services it calls.
type CLI struct {
	cfg       config.Config
	tasks     *service.TaskService
	planner   *service.PlannerService
	focus     *service.FocusService
	stats     *service.StatsService
	exporter  *service.ExportService
	scheduler *service.SchedulerService
}

func New(cfg config.Config, tasks *service.TaskService, planner *service.PlannerService, focus *service.FocusService, stats *service.StatsService, exporter *service.ExportService, scheduler *service.SchedulerService) *CLI {
	return &CLI{
		cfg:       cfg,
		tasks:     tasks,
		planner:   planner,
		focus:     focus,
		stats:     stats,
		exporter:  exporter,
		scheduler: scheduler,
	}
}

// Root assembles the command tree.
func (c *CLI) Root() *cobra.Command {
	root := &cobra.Command{
		Use:           "dayplanner",
		Short:         "A personal daily task planner",
		Long:          "dayplanner - capture tasks, plan your day around meetings and work blocks, run focus sessions, review daily stats.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(
		c.addCmd(),
		c.listCmd(),
		c.todayCmd(),
		c.assignCmd(),
		c.unassignCmd(),
		c.doneCmd(),
		c.editCmd(),
		c.deleteCmd(),
		c.planCmd(),
		c.closeDayCmd(),
		c.focusCmd(),
		c.statsCmd(),
		c.exportCmd(),
		c.importCmd(),
	)
	return root
}

// Run executes the command tree under the given context.
func (c *CLI) Run(ctx context.Context) error {
	return c.Root().ExecuteContext(ctx)
}

func now() time.Time {
	return time.Now()
}
