package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"day-planner/internal/model"
)

func TestExportImportRoundTrip(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	day := model.Day("2026-09-01")

	created, err := env.tasks.CreateFromLine(ctx, "Quarterly review 95", dayPtr(day.AddDays(3)), model.PriorityHigh, true)
	if err != nil {
		t.Fatalf("CreateFromLine: %v", err)
	}
	if _, err := env.planner.ToggleMeeting(ctx, day, 4); err != nil {
		t.Fatalf("ToggleMeeting: %v", err)
	}
	if _, err := env.planner.SetBuffer(ctx, day, 15); err != nil {
		t.Fatalf("SetBuffer: %v", err)
	}
	start := day.Time().Add(10 * time.Hour)
	runSession(t, env, created[0].ID, start, 5, model.OutcomeDone, 33*time.Minute)
	if _, err := env.stats.PersistSnapshot(ctx, day); err != nil {
		t.Fatalf("PersistSnapshot: %v", err)
	}

	data, err := env.exporter.ExportJSON(ctx)
	if err != nil {
		t.Fatalf("ExportJSON: %v", err)
	}

	// Import into a fresh database and compare the states.
	other := newTestEnv(t)
	if err := other.exporter.Import(ctx, data); err != nil {
		t.Fatalf("Import: %v", err)
	}

	got, err := other.exporter.Export(ctx)
	if err != nil {
		t.Fatalf("Export after import: %v", err)
	}
	if len(got.Tasks) != len(created) {
		t.Fatalf("imported %d tasks, want %d", len(got.Tasks), len(created))
	}
	byID := make(map[string]model.Task, len(got.Tasks))
	for _, task := range got.Tasks {
		byID[task.ID] = task
	}
	for _, want := range created {
		imported, ok := byID[want.ID]
		if !ok {
			t.Fatalf("task %s missing after import", want.ID)
		}
		if imported.Title != want.Title || imported.Minutes != want.Minutes || imported.PartIndex != want.PartIndex {
			t.Errorf("task %s changed across round trip: %+v", want.ID, imported)
		}
	}

	plan, ok := got.DayPlans[day]
	if !ok {
		t.Fatal("day plan missing after import")
	}
	if !plan.Meetings[4] || plan.BufferPercent != 15 {
		t.Errorf("plan changed across round trip: %+v", plan)
	}
	if len(plan.Meetings) != model.SlotCount {
		t.Errorf("meeting grid not normalized: %d slots", len(plan.Meetings))
	}

	if len(got.FocusSessions) != 1 {
		t.Fatalf("imported %d sessions, want 1", len(got.FocusSessions))
	}
	sess := got.FocusSessions[0]
	if sess.ActualMinutes != 33 || sess.ExtensionCount != 1 || sess.Outcome != model.OutcomeDone {
		t.Errorf("session changed across round trip: %+v", sess)
	}

	snap, ok := got.DailyStats[day]
	if !ok {
		t.Fatal("daily snapshot missing after import")
	}
	if snap.CompletedMinutes != 33 {
		t.Errorf("snapshot completed = %d, want 33", snap.CompletedMinutes)
	}
}

func TestImportReplacesExistingState(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	mustTask(t, env, "Doomed", 20)
	data := []byte(`{"tasks": [], "dayPlans": {}, "focusSessions": [], "dailyStats": {}}`)
	if err := env.exporter.Import(ctx, data); err != nil {
		t.Fatalf("Import: %v", err)
	}
	tasks, err := env.tasks.ListAll(ctx)
	if err != nil {
		t.Fatalf("ListAll: %v", err)
	}
	if len(tasks) != 0 {
		t.Errorf("import left %d old tasks behind", len(tasks))
	}
}

func TestImportRejectsInvalidPayloads(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	keep := mustTask(t, env, "Survivor", 20)

	cases := []struct {
		name string
		data string
	}{
		{"not json", "not even close"},
		{"missing tasks", `{"dayPlans": {}}`},
		{"missing day plans", `{"tasks": []}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := env.exporter.Import(ctx, []byte(tc.data))
			var invalid InvalidImportError
			if !errors.As(err, &invalid) {
				t.Fatalf("error = %v, want InvalidImportError", err)
			}
		})
	}

	// Rejected imports leave the current state intact.
	if _, err := env.tasks.GetTask(ctx, keep.ID); err != nil {
		t.Errorf("existing task lost after rejected import: %v", err)
	}
}
