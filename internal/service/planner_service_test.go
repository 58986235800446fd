package service

import (
	"context"
	"testing"

	"day-planner/internal/model"
)

func TestGetOrCreatePlanIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	day := model.Day("2026-09-01")

	plan, err := env.planner.GetOrCreatePlan(ctx, day)
	if err != nil {
		t.Fatalf("GetOrCreatePlan: %v", err)
	}
	if len(plan.Meetings) != model.SlotCount {
		t.Fatalf("fresh plan has %d slots", len(plan.Meetings))
	}
	if plan.Workblocks[model.WorkblockEmail] != 0 || plan.Workblocks[model.WorkblockTeams] != 0 {
		t.Error("fresh plan should default work blocks to zero")
	}

	if _, err := env.planner.SetBuffer(ctx, day, 20); err != nil {
		t.Fatalf("SetBuffer: %v", err)
	}
	again, err := env.planner.GetOrCreatePlan(ctx, day)
	if err != nil {
		t.Fatalf("GetOrCreatePlan again: %v", err)
	}
	if again.BufferPercent != 20 {
		t.Error("existing plan must not be overwritten by get-or-create")
	}
}

func TestSummaryWithBufferAndOverbooking(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	day := model.Day("2026-09-01")

	// 4 meetings and one block each of email and teams: capacity 300.
	for slot := 0; slot < 4; slot++ {
		if _, err := env.planner.ToggleMeeting(ctx, day, slot); err != nil {
			t.Fatalf("ToggleMeeting: %v", err)
		}
	}
	for _, name := range []string{model.WorkblockEmail, model.WorkblockTeams} {
		if _, err := env.planner.SetWorkblock(ctx, day, name, 1); err != nil {
			t.Fatalf("SetWorkblock: %v", err)
		}
	}
	if _, err := env.planner.SetBuffer(ctx, day, 10); err != nil {
		t.Fatalf("SetBuffer: %v", err)
	}

	if _, err := env.tasks.CreateTask(ctx, TaskInput{Title: "Big push", Minutes: 280, Priority: model.PriorityLow, DayAssigned: dayPtr(day)}); err != nil {
		t.Fatalf("CreateTask: %v", err)
	}

	sum, err := env.planner.Summary(ctx, day)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if sum.Capacity != 300 {
		t.Errorf("capacity = %d, want 300", sum.Capacity)
	}
	if sum.PlannedMinutes != 280 {
		t.Errorf("planned = %d, want 280", sum.PlannedMinutes)
	}
	if sum.AdjustedPlanned != 308 {
		t.Errorf("adjusted = %d, want 308", sum.AdjustedPlanned)
	}
	if sum.Remaining != -8 || !sum.Overbooked {
		t.Errorf("remaining = %d overbooked=%v, want -8/true", sum.Remaining, sum.Overbooked)
	}
}

func TestAssignUrgentWarnsWhenOverbooked(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	day := model.Day("2026-09-01")

	// Shrink the day to 30 minutes of capacity.
	for slot := 0; slot < 15; slot++ {
		if _, err := env.planner.ToggleMeeting(ctx, day, slot); err != nil {
			t.Fatalf("ToggleMeeting: %v", err)
		}
	}

	normal, err := env.tasks.CreateTask(ctx, TaskInput{Title: "Filler", Minutes: 25, Priority: model.PriorityLow})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if warned, err := env.planner.AssignDay(ctx, normal[0].ID, day); err != nil || warned {
		t.Fatalf("non-urgent assign warned=%v err=%v", warned, err)
	}

	urgent, err := env.tasks.CreateTask(ctx, TaskInput{Title: "Incident", Minutes: 30, Priority: model.PriorityUrgent})
	if err != nil {
		t.Fatalf("CreateTask urgent: %v", err)
	}
	warned, err := env.planner.AssignDay(ctx, urgent[0].ID, day)
	if err != nil {
		t.Fatalf("AssignDay urgent: %v", err)
	}
	if !warned {
		t.Error("urgent task pushing the day negative should warn")
	}
}

func TestUnassignReturnsTaskToBacklog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	day := model.Day("2026-09-01")

	created, err := env.tasks.CreateTask(ctx, TaskInput{Title: "Chore", Minutes: 20, Priority: model.PriorityLow, DayAssigned: dayPtr(day)})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if err := env.planner.Unassign(ctx, created[0].ID); err != nil {
		t.Fatalf("Unassign: %v", err)
	}
	task, err := env.tasks.GetTask(ctx, created[0].ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if task.DayAssigned != nil {
		t.Error("task should be back in the backlog")
	}
}

func TestCloseDayMovesAndBumps(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	day := model.Day("2026-09-01")

	created, err := env.tasks.CreateTask(ctx, TaskInput{Title: "Linger", Minutes: 90, Priority: model.PriorityLow, DayAssigned: dayPtr(day)})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	done, err := env.tasks.CreateTask(ctx, TaskInput{Title: "Finished", Minutes: 20, Priority: model.PriorityLow, DayAssigned: dayPtr(day)})
	if err != nil {
		t.Fatalf("CreateTask done: %v", err)
	}
	if _, err := env.tasks.MarkDone(ctx, done[0].ID, day.Time()); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}

	if _, err := env.planner.CloseDay(ctx, day, true); err != nil {
		t.Fatalf("CloseDay: %v", err)
	}

	next := day.Next()
	for _, c := range created {
		task, err := env.tasks.GetTask(ctx, c.ID)
		if err != nil {
			t.Fatalf("GetTask: %v", err)
		}
		if task.DayAssigned == nil || *task.DayAssigned != next {
			t.Errorf("task %s not moved to %s", c.ID, next)
		}
		if task.BumpedCount != 1 {
			t.Errorf("task %s bumped %d times, want 1", c.ID, task.BumpedCount)
		}
	}

	// The completed task is untouched.
	finished, err := env.tasks.GetTask(ctx, done[0].ID)
	if err != nil {
		t.Fatalf("GetTask finished: %v", err)
	}
	if finished.BumpedCount != 0 {
		t.Error("done task must not be bumped")
	}

	// The snapshot for the closed day was stored.
	if _, err := env.snapshotRepo.Get(ctx, day); err != nil {
		t.Errorf("snapshot not stored: %v", err)
	}
}

func TestCloseDayDropReturnsToBacklog(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	day := model.Day("2026-09-01")

	created, err := env.tasks.CreateTask(ctx, TaskInput{Title: "Stale", Minutes: 15, Priority: model.PriorityLow, DayAssigned: dayPtr(day)})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := env.planner.CloseDay(ctx, day, false); err != nil {
		t.Fatalf("CloseDay: %v", err)
	}
	task, err := env.tasks.GetTask(ctx, created[0].ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if task.DayAssigned != nil {
		t.Error("task should be unassigned after a drop close")
	}
	if task.BumpedCount != 1 {
		t.Errorf("bumped count = %d, want 1", task.BumpedCount)
	}
}
