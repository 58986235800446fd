package service

import (
	"context"
	"errors"
	"math"

	"gorm.io/gorm"

	"day-planner/internal/model"
	"day-planner/internal/repository"
)

// StatsService derives daily snapshots from tasks and focus history, and
// serves rolling windows of them.
type StatsService struct {
	taskRepo     *repository.TaskRepository
	sessionRepo  *repository.SessionRepository
	snapshotRepo *repository.SnapshotRepository
}

func NewStatsService(taskRepo *repository.TaskRepository, sessionRepo *repository.SessionRepository, snapshotRepo *repository.SnapshotRepository) *StatsService {
	return &StatsService{taskRepo: taskRepo, sessionRepo: sessionRepo, snapshotRepo: snapshotRepo}
}

// Snapshot computes the day's statistics from live tasks and the focus
// sessions that started on that day. Planned minutes reflect current state,
// not a point-in-time capture.
func (s *StatsService) Snapshot(ctx context.Context, day model.Day) (*model.DailySnapshot, error) {
	sessions, err := s.sessionRepo.ListByDay(ctx, day)
	if err != nil {
		return nil, err
	}

	completedMinutes := 0
	extensions := 0
	errorSum := 0
	doneSessions := 0
	doneTaskIDs := make(map[string]struct{})
	for _, sess := range sessions {
		extensions += sess.ExtensionCount
		if sess.Outcome != model.OutcomeDone {
			continue
		}
		completedMinutes += sess.ActualMinutes
		errorSum += sess.EstimationError()
		doneSessions++
		doneTaskIDs[sess.TaskID] = struct{}{}
	}

	assigned, err := s.taskRepo.ListOpenByDay(ctx, day)
	if err != nil {
		return nil, err
	}
	plannedMinutes := 0
	for _, t := range assigned {
		plannedMinutes += t.Minutes
	}

	bumped, err := s.taskRepo.ListBumped(ctx)
	if err != nil {
		return nil, err
	}
	bumpedToday := 0
	for _, t := range bumped {
		if day.Contains(t.UpdatedAt) {
			bumpedToday++
		}
	}

	snap := &model.DailySnapshot{
		Day:              day,
		PlannedMinutes:   plannedMinutes,
		CompletedMinutes: completedMinutes,
		PlannedTasks:     len(assigned),
		DoneTasks:        len(doneTaskIDs),
		BumpedTasks:      bumpedToday,
	}
	if len(sessions) > 0 {
		snap.ExtensionRate = float64(extensions) / float64(len(sessions))
	}
	if doneSessions > 0 {
		snap.AvgEstimationError = int(math.Round(float64(errorSum) / float64(doneSessions)))
	}
	return snap, nil
}

// PersistSnapshot computes and stores the day's snapshot. Once stored, a
// past day's numbers are served from storage rather than recomputed.
func (s *StatsService) PersistSnapshot(ctx context.Context, day model.Day) (*model.DailySnapshot, error) {
	snap, err := s.Snapshot(ctx, day)
	if err != nil {
		return nil, err
	}
	if err := s.snapshotRepo.Upsert(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

// SnapshotFor serves the snapshot for a day relative to ref: the reference
// day itself is always recomputed live, past days prefer the stored value
// and fall back to computation.
func (s *StatsService) SnapshotFor(ctx context.Context, day, ref model.Day) (*model.DailySnapshot, error) {
	if day != ref {
		stored, err := s.snapshotRepo.Get(ctx, day)
		if err == nil {
			return stored, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
	}
	return s.Snapshot(ctx, day)
}

// RollingWindow returns one snapshot per day from ref back days-1 days,
// oldest first.
func (s *StatsService) RollingWindow(ctx context.Context, days int, ref model.Day) ([]model.DailySnapshot, error) {
	if days < 1 {
		return nil, nil
	}
	window := make([]model.DailySnapshot, 0, days)
	for offset := days - 1; offset >= 0; offset-- {
		snap, err := s.SnapshotFor(ctx, ref.AddDays(-offset), ref)
		if err != nil {
			return nil, err
		}
		window = append(window, *snap)
	}
	return window, nil
}
