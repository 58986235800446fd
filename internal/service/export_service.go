package service

import (
	"context"
	"encoding/json"
	"fmt"

	"gorm.io/gorm"

	"day-planner/internal/model"
	"day-planner/internal/repository"
)

// ExportService moves the whole planner state across the persistence
// boundary as one JSON document.
type ExportService struct {
	db           *gorm.DB
	taskRepo     *repository.TaskRepository
	planRepo     *repository.DayPlanRepository
	sessionRepo  *repository.SessionRepository
	snapshotRepo *repository.SnapshotRepository
}

func NewExportService(db *gorm.DB, taskRepo *repository.TaskRepository, planRepo *repository.DayPlanRepository, sessionRepo *repository.SessionRepository, snapshotRepo *repository.SnapshotRepository) *ExportService {
	return &ExportService{db: db, taskRepo: taskRepo, planRepo: planRepo, sessionRepo: sessionRepo, snapshotRepo: snapshotRepo}
}

// Export assembles the full state, unmodified.
func (s *ExportService) Export(ctx context.Context) (*model.State, error) {
	tasks, err := s.taskRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	plans, err := s.planRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := s.sessionRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	snaps, err := s.snapshotRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	state := &model.State{
		Tasks:         tasks,
		DayPlans:      make(map[model.Day]model.DayPlan, len(plans)),
		FocusSessions: sessions,
		DailyStats:    make(map[model.Day]model.DailySnapshot, len(snaps)),
	}
	for _, p := range plans {
		state.DayPlans[p.Day] = p
	}
	for _, sn := range snaps {
		state.DailyStats[sn.Day] = sn
	}
	return state, nil
}

// ExportJSON serializes the full state for the caller to hand out.
func (s *ExportService) ExportJSON(ctx context.Context) ([]byte, error) {
	state, err := s.Export(ctx)
	if err != nil {
		return nil, err
	}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return data, nil
}

// Import validates a serialized state and replaces the current one in a
// single transaction. Current state is left untouched when validation or
// the replacement fails.
func (s *ExportService) Import(ctx context.Context, data []byte) error {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(data, &probe); err != nil {
		return InvalidImportError{Reason: "not a JSON object"}
	}
	if _, ok := probe["tasks"]; !ok {
		return InvalidImportError{Reason: "missing tasks collection"}
	}
	if _, ok := probe["dayPlans"]; !ok {
		return InvalidImportError{Reason: "missing dayPlans collection"}
	}

	var state model.State
	if err := json.Unmarshal(data, &state); err != nil {
		return InvalidImportError{Reason: err.Error()}
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range []interface{}{&model.Task{}, &model.DayPlan{}, &model.FocusSession{}, &model.DailySnapshot{}} {
			if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
				return fmt.Errorf("clear state: %w", err)
			}
		}
		if len(state.Tasks) > 0 {
			if err := tx.Create(&state.Tasks).Error; err != nil {
				return fmt.Errorf("import tasks: %w", err)
			}
		}
		for day, plan := range state.DayPlans {
			plan.Day = day
			plan.Meetings = plan.Meetings.Normalize()
			if err := tx.Create(&plan).Error; err != nil {
				return fmt.Errorf("import day plan %s: %w", day, err)
			}
		}
		if len(state.FocusSessions) > 0 {
			if err := tx.Create(&state.FocusSessions).Error; err != nil {
				return fmt.Errorf("import focus sessions: %w", err)
			}
		}
		for day, snap := range state.DailyStats {
			snap.Day = day
			if err := tx.Create(&snap).Error; err != nil {
				return fmt.Errorf("import snapshot %s: %w", day, err)
			}
		}
		return nil
	})
}
