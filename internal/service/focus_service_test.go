package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"day-planner/internal/model"
)

func mustTask(t *testing.T, env *testEnv, title string, minutes int) model.Task {
	t.Helper()
	created, err := env.tasks.CreateTask(context.Background(), TaskInput{Title: title, Minutes: minutes, Priority: model.PriorityLow})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	return created[0]
}

func TestStartRejectsSecondSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	first := mustTask(t, env, "First", 25)
	second := mustTask(t, env, "Second", 25)
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local)

	active, err := env.focus.Start(ctx, first.ID, now)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if active.TimerSeconds != 25*60 {
		t.Errorf("timer = %ds, want %ds", active.TimerSeconds, 25*60)
	}

	_, err = env.focus.Start(ctx, second.ID, now)
	var activeErr SessionActiveError
	if !errors.As(err, &activeErr) {
		t.Fatalf("second start error = %v, want SessionActiveError", err)
	}
	if activeErr.TaskID != first.ID {
		t.Errorf("error names task %s, want %s", activeErr.TaskID, first.ID)
	}
}

func TestStartRejectsDoneTask(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	task := mustTask(t, env, "Already finished", 20)
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local)
	if _, err := env.tasks.MarkDone(ctx, task.ID, now); err != nil {
		t.Fatalf("MarkDone: %v", err)
	}

	_, err := env.focus.Start(ctx, task.ID, now)
	var notFound NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want NotFoundError", err)
	}
	if _, err := env.focus.Start(ctx, "no-such-id", now); !errors.As(err, &notFound) {
		t.Fatalf("missing task error = %v, want NotFoundError", err)
	}
}

func TestTickCountsDownAndFloorsAtZero(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	task := mustTask(t, env, "Tiny", 1)
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local)

	if _, running := env.focus.Tick(); running {
		t.Fatal("tick should report idle before a session starts")
	}
	if _, err := env.focus.Start(ctx, task.ID, now); err != nil {
		t.Fatalf("Start: %v", err)
	}
	for i := 0; i < 70; i++ {
		env.focus.Tick()
	}
	remaining, running := env.focus.Tick()
	if !running {
		t.Fatal("session should still be running after the timer expires")
	}
	if remaining != 0 {
		t.Errorf("remaining = %d, want 0", remaining)
	}
}

func TestExtendRequiresReason(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	task := mustTask(t, env, "Overrun", 25)
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local)
	if _, err := env.focus.Start(ctx, task.ID, now); err != nil {
		t.Fatalf("Start: %v", err)
	}

	_, err := env.focus.Extend(10, "")
	var missing MissingReasonError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want MissingReasonError", err)
	}
	if env.focus.Active() == nil {
		t.Fatal("rejected extend must leave the session running")
	}

	active, err := env.focus.Extend(10, "underestimated")
	if err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if active.TimerSeconds != 35*60 {
		t.Errorf("timer = %ds, want %ds", active.TimerSeconds, 35*60)
	}
	if active.ExtensionCount != 1 {
		t.Errorf("extensions = %d, want 1", active.ExtensionCount)
	}
}

func TestFinishDoneMarksTaskAndRecordsSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	day := model.Day("2026-09-01")
	created, err := env.tasks.CreateTask(ctx, TaskInput{Title: "Deep work", Minutes: 30, Priority: model.PriorityHigh, DayAssigned: dayPtr(day)})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	task := created[0]
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local)
	if _, err := env.focus.Start(ctx, task.ID, start); err != nil {
		t.Fatalf("Start: %v", err)
	}

	session, err := env.focus.Finish(ctx, model.OutcomeDone, "", start.Add(42*time.Minute+20*time.Second))
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if session.ActualMinutes != 42 {
		t.Errorf("actual = %d, want 42", session.ActualMinutes)
	}
	if session.PlannedMinutes != 30 {
		t.Errorf("planned = %d, want 30", session.PlannedMinutes)
	}
	if env.focus.Active() != nil {
		t.Error("engine should be idle after finish")
	}

	updated, err := env.tasks.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if updated.Status != model.StatusDone || updated.DayAssigned != nil {
		t.Errorf("task after finish: status=%s day=%v, want done/nil", updated.Status, updated.DayAssigned)
	}

	stored, err := env.sessionRepo.ListByDay(ctx, day)
	if err != nil {
		t.Fatalf("ListByDay: %v", err)
	}
	if len(stored) != 1 || stored[0].Outcome != model.OutcomeDone {
		t.Fatalf("stored sessions = %+v, want one done session", stored)
	}
}

func TestFinishClampsShortSessionsToOneMinute(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	task := mustTask(t, env, "Blink", 15)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local)
	if _, err := env.focus.Start(ctx, task.ID, start); err != nil {
		t.Fatalf("Start: %v", err)
	}
	session, err := env.focus.Finish(ctx, model.OutcomeDone, "", start.Add(12*time.Second))
	if err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if session.ActualMinutes != 1 {
		t.Errorf("actual = %d, want 1", session.ActualMinutes)
	}
}

func TestAbandonRequiresReasonUnlessExtended(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	task := mustTask(t, env, "Interrupted", 25)
	start := time.Date(2026, 9, 1, 10, 0, 0, 0, time.Local)
	if _, err := env.focus.Start(ctx, task.ID, start); err != nil {
		t.Fatalf("Start: %v", err)
	}

	_, err := env.focus.Finish(ctx, model.OutcomeAbandon, "", start.Add(5*time.Minute))
	var missing MissingReasonError
	if !errors.As(err, &missing) {
		t.Fatalf("error = %v, want MissingReasonError", err)
	}
	if env.focus.Active() == nil {
		t.Fatal("rejected abandon must leave the session running")
	}

	// An extension reason stands in for the abandon reason.
	if _, err := env.focus.Extend(5, "meeting ran over"); err != nil {
		t.Fatalf("Extend: %v", err)
	}
	session, err := env.focus.Cancel(ctx, start.Add(8*time.Minute))
	if err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	if session.Reason != "meeting ran over" {
		t.Errorf("reason = %q, want extension reason", session.Reason)
	}
	if session.Outcome != model.OutcomeAbandon {
		t.Errorf("outcome = %s, want abandon", session.Outcome)
	}

	// Abandoning leaves the task open.
	updated, err := env.tasks.GetTask(ctx, task.ID)
	if err != nil {
		t.Fatalf("GetTask: %v", err)
	}
	if !updated.IsOpen() {
		t.Error("abandoned task must stay open")
	}
}
