package main

import (
	"context"
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"day-planner/internal/cli"
	"day-planner/internal/config"
	"day-planner/internal/repository"
	"day-planner/internal/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := repository.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	sqlDB, err := db.DB()
	if err == nil {
		defer sqlDB.Close()
	}

	taskRepo := repository.NewTaskRepository(db)
	planRepo := repository.NewDayPlanRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	snapshotRepo := repository.NewSnapshotRepository(db)

	taskSvc := service.NewTaskService(taskRepo)
	statsSvc := service.NewStatsService(taskRepo, sessionRepo, snapshotRepo)
	plannerSvc := service.NewPlannerService(taskRepo, planRepo, statsSvc)
	focusSvc := service.NewFocusService(taskRepo, sessionRepo)
	exportSvc := service.NewExportService(db, taskRepo, planRepo, sessionRepo, snapshotRepo)
	scheduler := service.NewSchedulerService(time.Local)

	app := cli.New(cfg, taskSvc, plannerSvc, focusSvc, statsSvc, exportSvc, scheduler)
	if err := app.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		os.Exit(1)
	}
}
