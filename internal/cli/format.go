package cli

import (
	"fmt"
	"strings"

	"day-planner/internal/model"
	"day-planner/internal/service"
)

func formatTask(t model.Task, ref model.Day) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s  %-30s %4dm  %-7s", shortID(t.ID), truncate(t.Title, 30), t.Minutes, t.Priority)
	if t.GroupID != nil {
		fmt.Fprintf(&b, "  part %d/%d", t.PartIndex, t.PartTotal)
	}
	if t.DueDate != nil {
		fmt.Fprintf(&b, "  due %s", *t.DueDate)
		if t.IsOverdue(ref) {
			b.WriteString(" (overdue)")
		}
	}
	if t.BumpedCount > 0 {
		fmt.Fprintf(&b, "  bumped x%d", t.BumpedCount)
	}
	return b.String()
}

func formatTaskList(tasks []model.Task, ref model.Day, empty string) string {
	if len(tasks) == 0 {
		return empty + "\n"
	}
	var b strings.Builder
	for _, t := range tasks {
		b.WriteString(formatTask(t, ref))
		b.WriteByte('\n')
	}
	return b.String()
}

func formatSummary(sum *service.DayCapacity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: capacity %dm, planned %dm", sum.Day, sum.Capacity, sum.PlannedMinutes)
	if sum.AdjustedPlanned != sum.PlannedMinutes {
		fmt.Fprintf(&b, " (%dm with buffer)", sum.AdjustedPlanned)
	}
	fmt.Fprintf(&b, ", remaining %dm", sum.Remaining)
	if sum.Overbooked {
		b.WriteString("  [overbooked]")
	}
	return b.String()
}

func formatPlan(plan *model.DayPlan) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Plan for %s (buffer %d%%)\n", plan.Day, plan.BufferPercent)
	for i, busy := range plan.Meetings {
		startMin := model.WorkdayStartMin + i*model.SlotMinutes
		mark := " "
		if busy {
			mark = "x"
		}
		fmt.Fprintf(&b, "  [%s] %2d  %s-%s\n", mark, i, clock(startMin), clock(startMin+model.SlotMinutes))
	}
	for name, count := range plan.Workblocks {
		fmt.Fprintf(&b, "  %s: %d block(s)\n", name, count)
	}
	return b.String()
}

func formatSnapshot(s model.DailySnapshot) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  planned %dm/%d task(s), completed %dm, done %d, bumped %d",
		s.Day, s.PlannedMinutes, s.PlannedTasks, s.CompletedMinutes, s.DoneTasks, s.BumpedTasks)
	fmt.Fprintf(&b, ", ext rate %.2f, est error %dm\n", s.ExtensionRate, s.AvgEstimationError)
	return b.String()
}

func formatCountdown(seconds int) string {
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

func clock(totalMins int) string {
	return fmt.Sprintf("%02d:%02d", totalMins/60, totalMins%60)
}

func shortID(id string) string {
	return truncate(id, 8)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
