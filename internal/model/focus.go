package model

import "time"

// Outcome is recorded when a focus session reaches a terminal state.
type Outcome string

const (
	OutcomeDone    Outcome = "done"
	OutcomeAbandon Outcome = "abandon"
)

// FocusSession is one timed work interval against a single task. A session
// is persisted only once finished; after that it is never mutated again.
type FocusSession struct {
	ID             string `gorm:"primaryKey"`
	TaskID         string `gorm:"index"`
	PlannedMinutes int
	StartAt        time.Time `gorm:"index"`
	EndAt          *time.Time
	Outcome        Outcome
	ActualMinutes  int
	ExtensionCount int
	Reason         string
	CreatedAt      time.Time
}

// EstimationError is the absolute gap between actual and planned minutes.
func (s FocusSession) EstimationError() int {
	d := s.ActualMinutes - s.PlannedMinutes
	if d < 0 {
		return -d
	}
	return d
}
