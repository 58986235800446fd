package service

import (
	"context"
	"math"
	"strconv"
	"time"

	"day-planner/internal/model"
	"day-planner/internal/repository"
)

// DayCapacity summarizes how loaded a day is.
type DayCapacity struct {
	Day             model.Day
	Capacity        int
	PlannedMinutes  int
	AdjustedPlanned int
	Remaining       int
	Overbooked      bool
}

// LiveStatus is the real-time view of what is left of the working day.
type LiveStatus struct {
	Now              time.Time
	AfterCommitments int
	AfterTasks       int
}

// PlannerService owns day plans and task-to-day scheduling: capacity
// arithmetic, assignment, and end-of-day close-out.
type PlannerService struct {
	taskRepo *repository.TaskRepository
	planRepo *repository.DayPlanRepository
	stats    *StatsService
}

func NewPlannerService(taskRepo *repository.TaskRepository, planRepo *repository.DayPlanRepository, stats *StatsService) *PlannerService {
	return &PlannerService{taskRepo: taskRepo, planRepo: planRepo, stats: stats}
}

// GetOrCreatePlan returns the day's plan, creating a fresh one on first use.
func (s *PlannerService) GetOrCreatePlan(ctx context.Context, day model.Day) (*model.DayPlan, error) {
	return s.planRepo.GetOrCreate(ctx, day)
}

// ToggleMeeting flips one half-hour slot between free and busy.
func (s *PlannerService) ToggleMeeting(ctx context.Context, day model.Day, slot int) (*model.DayPlan, error) {
	if slot < 0 || slot >= model.SlotCount {
		return nil, NotFoundError{Kind: "meeting slot", ID: strconv.Itoa(slot)}
	}
	plan, err := s.planRepo.GetOrCreate(ctx, day)
	if err != nil {
		return nil, err
	}
	plan.Meetings[slot] = !plan.Meetings[slot]
	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// SetWorkblock sets the half-hour block count of a recurring commitment,
// clamped to the slot count of the working day.
func (s *PlannerService) SetWorkblock(ctx context.Context, day model.Day, name string, count int) (*model.DayPlan, error) {
	plan, err := s.planRepo.GetOrCreate(ctx, day)
	if err != nil {
		return nil, err
	}
	plan.Workblocks[name] = clamp(count, 0, model.SlotCount)
	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// SetBuffer sets the overbooking safety margin, clamped to 0..100 percent.
func (s *PlannerService) SetBuffer(ctx context.Context, day model.Day, percent int) (*model.DayPlan, error) {
	plan, err := s.planRepo.GetOrCreate(ctx, day)
	if err != nil {
		return nil, err
	}
	plan.BufferPercent = clamp(percent, 0, 100)
	if err := s.planRepo.Save(ctx, plan); err != nil {
		return nil, err
	}
	return plan, nil
}

// PlannedMinutes sums estimates over open tasks assigned to the day.
func (s *PlannerService) PlannedMinutes(ctx context.Context, day model.Day) (int, error) {
	tasks, err := s.taskRepo.ListOpenByDay(ctx, day)
	if err != nil {
		return 0, err
	}
	total := 0
	for _, t := range tasks {
		total += t.Minutes
	}
	return total, nil
}

// Summary computes capacity, planned (buffer-adjusted) and remaining time
// for the day. Remaining may be negative; that only flags overbooking and
// never blocks scheduling.
func (s *PlannerService) Summary(ctx context.Context, day model.Day) (*DayCapacity, error) {
	plan, err := s.planRepo.GetOrCreate(ctx, day)
	if err != nil {
		return nil, err
	}
	planned, err := s.PlannedMinutes(ctx, day)
	if err != nil {
		return nil, err
	}
	adjusted := int(math.Round(float64(planned) * (1 + float64(plan.BufferPercent)/100)))
	remaining := plan.Capacity() - adjusted
	return &DayCapacity{
		Day:             day,
		Capacity:        plan.Capacity(),
		PlannedMinutes:  planned,
		AdjustedPlanned: adjusted,
		Remaining:       remaining,
		Overbooked:      remaining < 0,
	}, nil
}

// AssignDay puts a task on the given day. Overbooking is allowed; the
// returned flag warns when an urgent task lands on an already-negative day.
func (s *PlannerService) AssignDay(ctx context.Context, taskID string, day model.Day) (overbooked bool, err error) {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return false, NotFoundError{Kind: "task", ID: taskID}
	}
	task.DayAssigned = &day
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return false, err
	}
	if task.Priority != model.PriorityUrgent {
		return false, nil
	}
	sum, err := s.Summary(ctx, day)
	if err != nil {
		return false, err
	}
	return sum.Overbooked, nil
}

// AssignToday is AssignDay for the current day.
func (s *PlannerService) AssignToday(ctx context.Context, taskID string) (bool, error) {
	return s.AssignDay(ctx, taskID, model.Today())
}

// Unassign sends a task back to the backlog.
func (s *PlannerService) Unassign(ctx context.Context, taskID string) error {
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return NotFoundError{Kind: "task", ID: taskID}
	}
	task.DayAssigned = nil
	return s.taskRepo.Save(ctx, task)
}

// LiveRemaining narrows today's capacity to the window between now and the
// end of the working day, then further subtracts unfinished today-task
// minutes. Refreshed periodically by the caller, typically every 30 seconds.
func (s *PlannerService) LiveRemaining(ctx context.Context, now time.Time) (*LiveStatus, error) {
	day := model.DayOf(now)
	plan, err := s.planRepo.GetOrCreate(ctx, day)
	if err != nil {
		return nil, err
	}
	afterCommitments := plan.LiveRemaining(now)

	planned, err := s.PlannedMinutes(ctx, day)
	if err != nil {
		return nil, err
	}
	afterTasks := afterCommitments - planned
	if afterTasks < 0 {
		afterTasks = 0
	}
	return &LiveStatus{Now: now, AfterCommitments: afterCommitments, AfterTasks: afterTasks}, nil
}

// CloseDay defers every open task still assigned to the day: each gets its
// bump count incremented and moves to the next day, or back to the backlog
// when moveToNext is false. The day's snapshot is then persisted. Calling
// this twice for one day double-bumps whatever is still assigned; callers
// are expected to close a day once.
func (s *PlannerService) CloseDay(ctx context.Context, day model.Day, moveToNext bool) (*model.DailySnapshot, error) {
	tasks, err := s.taskRepo.ListOpenByDay(ctx, day)
	if err != nil {
		return nil, err
	}
	next := day.Next()
	for i := range tasks {
		t := &tasks[i]
		t.BumpedCount++
		if moveToNext {
			t.DayAssigned = &next
		} else {
			t.DayAssigned = nil
		}
		if err := s.taskRepo.Save(ctx, t); err != nil {
			return nil, err
		}
	}
	return s.stats.PersistSnapshot(ctx, day)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
