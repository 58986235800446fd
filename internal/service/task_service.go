package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"day-planner/internal/model"
	"day-planner/internal/repository"
)

// TaskInput represents data required to create a task.
type TaskInput struct {
	Title       string
	Minutes     int
	DueDate     *model.Day
	Priority    model.Priority
	DayAssigned *model.Day
}

// EditInput carries the editable fields of a task.
type EditInput struct {
	Title    string
	Minutes  int
	DueDate  *model.Day
	Priority model.Priority
}

// DeleteScope picks what a delete of a grouped task covers.
type DeleteScope string

const (
	ScopePart  DeleteScope = "part"
	ScopeGroup DeleteScope = "group"
)

// BacklogSort selects the ordering of backlog views.
type BacklogSort string

const (
	SortPriority BacklogSort = "priority"
	SortDuration BacklogSort = "duration"
	SortDue      BacklogSort = "due"
)

// TaskService wraps task-related business logic: quick-entry parsing,
// estimate splitting, group-aware edit and delete.
type TaskService struct {
	taskRepo *repository.TaskRepository
}

func NewTaskService(taskRepo *repository.TaskRepository) *TaskService {
	return &TaskService{taskRepo: taskRepo}
}

// CreateFromLine parses a quick-entry "title minutes" line and creates the
// resulting task or task group.
func (s *TaskService) CreateFromLine(ctx context.Context, line string, dueDate *model.Day, priority model.Priority, assignToday bool) ([]model.Task, error) {
	title, minutes, ok := model.ParseTaskLine(line)
	if !ok {
		return nil, InvalidTaskLineError{Line: line}
	}
	input := TaskInput{Title: title, Minutes: minutes, DueDate: dueDate, Priority: priority}
	if assignToday {
		today := model.Today()
		input.DayAssigned = &today
	}
	return s.CreateTask(ctx, input)
}

// CreateTask splits the estimate and stores one task per chunk. Multi-chunk
// estimates share a fresh group id with 1-based part numbering. An urgent
// priority forces every chunk onto today regardless of the caller's choice.
func (s *TaskService) CreateTask(ctx context.Context, input TaskInput) ([]model.Task, error) {
	if input.Title == "" {
		return nil, InvalidTaskLineError{Line: input.Title}
	}
	if input.Minutes < 1 {
		return nil, InvalidTaskLineError{Line: fmt.Sprintf("%s %d", input.Title, input.Minutes)}
	}
	if input.Priority == "" {
		input.Priority = model.PriorityLow
	}
	if !model.IsValidPriority(input.Priority) {
		return nil, fmt.Errorf("unknown priority %q", input.Priority)
	}

	dayAssigned := input.DayAssigned
	if input.Priority == model.PriorityUrgent {
		today := model.Today()
		dayAssigned = &today
	}

	chunks := model.SplitDuration(input.Minutes)
	tasks := make([]model.Task, 0, len(chunks))
	var groupID *string
	if len(chunks) > 1 {
		g := uuid.NewString()
		groupID = &g
	}
	for i, minutes := range chunks {
		t := model.Task{
			ID:          uuid.NewString(),
			Title:       input.Title,
			Minutes:     minutes,
			DueDate:     input.DueDate,
			Priority:    input.Priority,
			Status:      model.StatusOpen,
			DayAssigned: dayAssigned,
			GroupID:     groupID,
		}
		if groupID != nil {
			t.PartIndex = i + 1
			t.PartTotal = len(chunks)
		}
		tasks = append(tasks, t)
	}

	if err := s.taskRepo.CreateBatch(ctx, tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *TaskService) GetTask(ctx context.Context, id string) (*model.Task, error) {
	task, err := s.taskRepo.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFoundError{Kind: "task", ID: id}
	}
	if err != nil {
		return nil, err
	}
	return task, nil
}

// EditTask updates a task. Title, due date and priority propagate to every
// sibling in the task's group; setting urgent pulls the edited tasks onto
// today. A minutes change that stays at or under the chunk limit is applied
// in place; crossing above it retires only this part and replaces it with a
// freshly split group, leaving siblings untouched.
func (s *TaskService) EditTask(ctx context.Context, id string, input EditInput) ([]model.Task, error) {
	target, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Priority != "" && !model.IsValidPriority(input.Priority) {
		return nil, fmt.Errorf("unknown priority %q", input.Priority)
	}

	siblings := []model.Task{*target}
	if target.GroupID != nil {
		siblings, err = s.taskRepo.ListByGroup(ctx, *target.GroupID)
		if err != nil {
			return nil, err
		}
	}

	var affected []model.Task
	for i := range siblings {
		t := &siblings[i]
		applyEdit(t, input)
		if err := s.taskRepo.Save(ctx, t); err != nil {
			return nil, err
		}
		affected = append(affected, *t)
	}

	if input.Minutes > 0 && input.Minutes != target.Minutes {
		if input.Minutes <= model.ChunkMinutes {
			fresh, err := s.GetTask(ctx, id)
			if err != nil {
				return nil, err
			}
			fresh.Minutes = input.Minutes
			if err := s.taskRepo.Save(ctx, fresh); err != nil {
				return nil, err
			}
		} else {
			replaced, err := s.resplitPart(ctx, id, input.Minutes)
			if err != nil {
				return nil, err
			}
			affected = append(affected, replaced...)
		}
	}
	return affected, nil
}

// resplitPart retires one task and recreates it as a fresh split group.
func (s *TaskService) resplitPart(ctx context.Context, id string, minutes int) ([]model.Task, error) {
	old, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.taskRepo.Delete(ctx, id); err != nil {
		return nil, err
	}
	return s.CreateTask(ctx, TaskInput{
		Title:       old.Title,
		Minutes:     minutes,
		DueDate:     old.DueDate,
		Priority:    old.Priority,
		DayAssigned: old.DayAssigned,
	})
}

func applyEdit(t *model.Task, input EditInput) {
	if input.Title != "" {
		t.Title = input.Title
	}
	if input.DueDate != nil {
		t.DueDate = input.DueDate
	}
	if input.Priority != "" {
		t.Priority = input.Priority
		if input.Priority == model.PriorityUrgent {
			today := model.Today()
			t.DayAssigned = &today
		}
	}
}

// DeleteTask removes a task. Grouped tasks need an explicit scope: 'part'
// removes only this chunk, 'group' removes every part sharing its group id.
func (s *TaskService) DeleteTask(ctx context.Context, id string, scope DeleteScope) error {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return err
	}
	if task.GroupID == nil {
		return s.taskRepo.Delete(ctx, id)
	}
	switch scope {
	case ScopePart:
		return s.taskRepo.Delete(ctx, id)
	case ScopeGroup:
		return s.taskRepo.DeleteGroup(ctx, *task.GroupID)
	default:
		return GroupScopeError{TaskID: id}
	}
}

// MarkDone completes a task directly, without a focus session, and takes it
// off its day.
func (s *TaskService) MarkDone(ctx context.Context, id string, doneAt time.Time) (*model.Task, error) {
	task, err := s.GetTask(ctx, id)
	if err != nil {
		return nil, err
	}
	task.Status = model.StatusDone
	task.DayAssigned = nil
	task.UpdatedAt = doneAt
	if err := s.taskRepo.Save(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// ListAll returns every task, oldest first.
func (s *TaskService) ListAll(ctx context.Context) ([]model.Task, error) {
	return s.taskRepo.ListAll(ctx)
}

// ListToday returns open tasks assigned to the given day in schedule order.
func (s *TaskService) ListToday(ctx context.Context, day model.Day) ([]model.Task, error) {
	tasks, err := s.taskRepo.ListOpenByDay(ctx, day)
	if err != nil {
		return nil, err
	}
	sortForSchedule(tasks, day)
	return tasks, nil
}

// ListBacklog returns open tasks not sitting on the reference day, in the
// requested order.
func (s *TaskService) ListBacklog(ctx context.Context, ref model.Day, by BacklogSort) ([]model.Task, error) {
	open, err := s.taskRepo.ListOpen(ctx)
	if err != nil {
		return nil, err
	}
	var backlog []model.Task
	for _, t := range open {
		if !t.AssignedTo(ref) {
			backlog = append(backlog, t)
		}
	}
	switch by {
	case SortDuration:
		sort.SliceStable(backlog, func(i, j int) bool {
			if backlog[i].Minutes != backlog[j].Minutes {
				return backlog[i].Minutes < backlog[j].Minutes
			}
			return dueLess(backlog[i], backlog[j])
		})
	case SortDue:
		sort.SliceStable(backlog, func(i, j int) bool {
			io, jo := backlog[i].IsOverdue(ref), backlog[j].IsOverdue(ref)
			if io != jo {
				return io
			}
			return dueLess(backlog[i], backlog[j])
		})
	default:
		sortForSchedule(backlog, ref)
	}
	return backlog, nil
}

func sortForSchedule(tasks []model.Task, ref model.Day) {
	sort.SliceStable(tasks, func(i, j int) bool {
		return model.CompareForSchedule(tasks[i], tasks[j], ref) < 0
	})
}

func dueLess(a, b model.Task) bool {
	switch {
	case a.DueDate == nil && b.DueDate == nil:
		return false
	case a.DueDate == nil:
		return false
	case b.DueDate == nil:
		return true
	default:
		return a.DueDate.Before(*b.DueDate)
	}
}
