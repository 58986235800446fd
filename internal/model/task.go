package model

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Priority ranks how soon a task should be tackled.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	// PriorityMedium survives in older persisted data; it is no longer
	// offered on input but still sorts between high and low.
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// PriorityOrder returns the sort rank for a priority (lower = sooner).
func PriorityOrder(p Priority) int {
	switch p {
	case PriorityUrgent:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	default:
		return 4
	}
}

// IsValidPriority checks if a priority value is accepted.
func IsValidPriority(p Priority) bool {
	return PriorityOrder(p) < 4
}

// Status represents the lifecycle state of a task.
type Status string

const (
	StatusOpen Status = "open"
	StatusDone Status = "done"
)

const (
	// ChunkMinutes is the largest size a single schedulable chunk may have.
	ChunkMinutes = 30
	// A split remainder below this is absorbed into the previous chunk
	// instead of standing alone.
	mergeThreshold = 10
)

// Task represents a single schedulable item. An estimate above ChunkMinutes
// is never stored as one task; the task service splits it into a group of
// parts sharing a GroupID.
type Task struct {
	ID          string `gorm:"primaryKey"`
	Title       string
	Minutes     int
	DueDate     *Day `gorm:"index"`
	Priority    Priority
	Status      Status  `gorm:"index;default:open"`
	DayAssigned *Day    `gorm:"index"`
	GroupID     *string `gorm:"index"`
	PartIndex   int
	PartTotal   int
	BumpedCount int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// IsOpen reports whether the task still needs work.
func (t Task) IsOpen() bool {
	return t.Status != StatusDone
}

// AssignedTo reports whether the task sits on the given day.
func (t Task) AssignedTo(day Day) bool {
	return t.DayAssigned != nil && *t.DayAssigned == day
}

// IsOverdue reports whether the task's due date has passed relative to ref.
func (t Task) IsOverdue(ref Day) bool {
	return t.DueDate != nil && t.DueDate.Before(ref)
}

// DueBucket classifies how pressing a due date is.
type DueBucket string

const (
	DueNone    DueBucket = "none"
	DueOverdue DueBucket = "overdue"
	DueToday   DueBucket = "today"
	DueWeek    DueBucket = "week"
	DueLater   DueBucket = "later"
)

// Bucket places the task's due date relative to ref.
func (t Task) Bucket(ref Day) DueBucket {
	switch {
	case t.DueDate == nil:
		return DueNone
	case t.DueDate.Before(ref):
		return DueOverdue
	case *t.DueDate == ref:
		return DueToday
	case !ref.AddDays(7).Before(*t.DueDate):
		return DueWeek
	default:
		return DueLater
	}
}

// CompareForSchedule orders tasks for every scheduling view: priority rank
// first, then overdue before everything else, then due date ascending with
// missing dates last, then shortest estimate first. Returns <0 when a sorts
// before b.
func CompareForSchedule(a, b Task, ref Day) int {
	if d := PriorityOrder(a.Priority) - PriorityOrder(b.Priority); d != 0 {
		return d
	}
	ao, bo := a.IsOverdue(ref), b.IsOverdue(ref)
	if ao != bo {
		if ao {
			return -1
		}
		return 1
	}
	switch {
	case a.DueDate == nil && b.DueDate != nil:
		return 1
	case a.DueDate != nil && b.DueDate == nil:
		return -1
	case a.DueDate != nil && b.DueDate != nil && *a.DueDate != *b.DueDate:
		if a.DueDate.Before(*b.DueDate) {
			return -1
		}
		return 1
	}
	return a.Minutes - b.Minutes
}

var taskLineRe = regexp.MustCompile(`^(.*\S)\s+(\d+)$`)

// ParseTaskLine splits a quick-entry line of the form "title minutes".
// The trailing integer is the estimate; everything before it is the title.
func ParseTaskLine(line string) (title string, minutes int, ok bool) {
	m := taskLineRe.FindStringSubmatch(strings.TrimSpace(line))
	if m == nil {
		return "", 0, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n < 1 {
		return "", 0, false
	}
	return strings.TrimSpace(m[1]), n, true
}

// SplitDuration breaks an estimate into chunk sizes. Estimates up to
// ChunkMinutes stay whole. Larger estimates become 30-minute chunks; a
// remainder under 10 minutes is merged into the final chunk so no tiny
// sliver dangles alone (95 -> [30 30 35], 100 -> [30 30 30 10]).
func SplitDuration(minutes int) []int {
	if minutes <= ChunkMinutes {
		return []int{minutes}
	}
	full := minutes / ChunkMinutes
	rem := minutes % ChunkMinutes
	var chunks []int
	switch {
	case rem == 0:
		for i := 0; i < full; i++ {
			chunks = append(chunks, ChunkMinutes)
		}
	case rem < mergeThreshold && full > 0:
		for i := 0; i < full-1; i++ {
			chunks = append(chunks, ChunkMinutes)
		}
		chunks = append(chunks, ChunkMinutes+rem)
	default:
		for i := 0; i < full; i++ {
			chunks = append(chunks, ChunkMinutes)
		}
		chunks = append(chunks, rem)
	}
	return chunks
}
