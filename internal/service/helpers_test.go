package service

import (
	"path/filepath"
	"testing"

	"gorm.io/gorm"

	"day-planner/internal/model"
	"day-planner/internal/repository"
)

type testEnv struct {
	db           *gorm.DB
	taskRepo     *repository.TaskRepository
	planRepo     *repository.DayPlanRepository
	sessionRepo  *repository.SessionRepository
	snapshotRepo *repository.SnapshotRepository

	tasks    *TaskService
	stats    *StatsService
	planner  *PlannerService
	focus    *FocusService
	exporter *ExportService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "planner_test.db"))
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	env := &testEnv{
		db:           db,
		taskRepo:     repository.NewTaskRepository(db),
		planRepo:     repository.NewDayPlanRepository(db),
		sessionRepo:  repository.NewSessionRepository(db),
		snapshotRepo: repository.NewSnapshotRepository(db),
	}
	env.tasks = NewTaskService(env.taskRepo)
	env.stats = NewStatsService(env.taskRepo, env.sessionRepo, env.snapshotRepo)
	env.planner = NewPlannerService(env.taskRepo, env.planRepo, env.stats)
	env.focus = NewFocusService(env.taskRepo, env.sessionRepo)
	env.exporter = NewExportService(db, env.taskRepo, env.planRepo, env.sessionRepo, env.snapshotRepo)
	return env
}

func dayPtr(d model.Day) *model.Day {
	return &d
}
