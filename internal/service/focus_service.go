package service

import (
	"context"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/google/uuid"

	"day-planner/internal/model"
	"day-planner/internal/repository"
)

// ActiveSession is the live, in-memory side of a running focus session.
// It becomes an immutable model.FocusSession only on finish.
type ActiveSession struct {
	SessionID      string
	TaskID         string
	TaskTitle      string
	PlannedMinutes int
	StartAt        time.Time
	TimerSeconds   int
	ExtensionCount int
	Reason         string
}

// FocusService runs timed work sessions against tasks. At most one session
// is active at a time; the countdown lives here, not in storage. The mutex
// covers the tick callback racing user-driven extend/finish calls.
type FocusService struct {
	taskRepo    *repository.TaskRepository
	sessionRepo *repository.SessionRepository

	mu     sync.Mutex
	active *ActiveSession
}

func NewFocusService(taskRepo *repository.TaskRepository, sessionRepo *repository.SessionRepository) *FocusService {
	return &FocusService{taskRepo: taskRepo, sessionRepo: sessionRepo}
}

// Active returns a copy of the running session, or nil when idle.
func (s *FocusService) Active() *ActiveSession {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

func (s *FocusService) snapshot() *ActiveSession {
	if s.active == nil {
		return nil
	}
	copied := *s.active
	return &copied
}

// Start begins a session against an open task, capturing its current
// estimate as the planned minutes. Starting while another session runs is
// rejected.
func (s *FocusService) Start(ctx context.Context, taskID string, startAt time.Time) (*ActiveSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active != nil {
		return nil, SessionActiveError{TaskID: s.active.TaskID}
	}
	task, err := s.taskRepo.FindByID(ctx, taskID)
	if err != nil {
		return nil, NotFoundError{Kind: "task", ID: taskID}
	}
	if !task.IsOpen() {
		return nil, NotFoundError{Kind: "open task", ID: taskID}
	}
	s.active = &ActiveSession{
		SessionID:      uuid.NewString(),
		TaskID:         task.ID,
		TaskTitle:      task.Title,
		PlannedMinutes: task.Minutes,
		StartAt:        startAt,
		TimerSeconds:   task.Minutes * 60,
	}
	return s.snapshot(), nil
}

// Tick advances the countdown by one second, flooring at zero. Hitting zero
// is only a cue; the session keeps running until finished explicitly.
func (s *FocusService) Tick() (remaining int, running bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return 0, false
	}
	if s.active.TimerSeconds > 0 {
		s.active.TimerSeconds--
	}
	return s.active.TimerSeconds, true
}

// Extend adds time to the countdown. A non-empty reason is mandatory; it
// classifies why the estimate did not hold.
func (s *FocusService) Extend(minutes int, reason string) (*ActiveSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil, NoActiveSessionError{}
	}
	if reason == "" {
		return nil, MissingReasonError{Action: "extend"}
	}
	if minutes < 1 {
		return nil, fmt.Errorf("extension minutes must be positive, got %d", minutes)
	}
	s.active.TimerSeconds += minutes * 60
	s.active.ExtensionCount++
	s.active.Reason = reason
	return s.snapshot(), nil
}

// Finish moves the session to its terminal state. Abandoning requires a
// reason, either passed here or already recorded by an extension; a plain
// completion may omit it. Completing marks the task done and takes it off
// its day. The finished session is appended to history and the engine
// returns to idle.
func (s *FocusService) Finish(ctx context.Context, outcome model.Outcome, reason string, endAt time.Time) (*model.FocusSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.active == nil {
		return nil, NoActiveSessionError{}
	}
	if reason == "" {
		reason = s.active.Reason
	}
	if outcome == model.OutcomeAbandon && reason == "" {
		return nil, MissingReasonError{Action: "abandon"}
	}
	if outcome != model.OutcomeDone && outcome != model.OutcomeAbandon {
		return nil, fmt.Errorf("unknown outcome %q", outcome)
	}

	actual := int(math.Round(endAt.Sub(s.active.StartAt).Minutes()))
	if actual < 1 {
		actual = 1
	}
	session := &model.FocusSession{
		ID:             s.active.SessionID,
		TaskID:         s.active.TaskID,
		PlannedMinutes: s.active.PlannedMinutes,
		StartAt:        s.active.StartAt,
		EndAt:          &endAt,
		Outcome:        outcome,
		ActualMinutes:  actual,
		ExtensionCount: s.active.ExtensionCount,
		Reason:         reason,
	}

	if outcome == model.OutcomeDone {
		task, err := s.taskRepo.FindByID(ctx, s.active.TaskID)
		if err == nil {
			task.Status = model.StatusDone
			task.DayAssigned = nil
			if err := s.taskRepo.Save(ctx, task); err != nil {
				return nil, err
			}
		}
	}

	if err := s.sessionRepo.Append(ctx, session); err != nil {
		return nil, err
	}
	s.active = nil
	return session, nil
}

// Cancel closes the running session without an explicit outcome choice. It
// is treated as abandon with whatever reason was already recorded, and
// rejected when none was, so a running session can never be silently lost.
func (s *FocusService) Cancel(ctx context.Context, endAt time.Time) (*model.FocusSession, error) {
	return s.Finish(ctx, model.OutcomeAbandon, "", endAt)
}
