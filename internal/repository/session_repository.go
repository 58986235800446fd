package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"day-planner/internal/model"
)

// SessionRepository stores the append-only focus session history.
type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Append persists a finished session. Sessions are immutable afterwards.
func (r *SessionRepository) Append(ctx context.Context, session *model.FocusSession) error {
	if err := r.db.WithContext(ctx).Create(session).Error; err != nil {
		return fmt.Errorf("append focus session: %w", err)
	}
	return nil
}

// ListByDay returns finished sessions whose start instant falls on the day.
func (r *SessionRepository) ListByDay(ctx context.Context, day model.Day) ([]model.FocusSession, error) {
	start := day.Time()
	end := day.Next().Time()
	var sessions []model.FocusSession
	if err := r.db.WithContext(ctx).
		Where("start_at >= ? AND start_at < ?", start, end).
		Order("start_at ASC").
		Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *SessionRepository) ListAll(ctx context.Context) ([]model.FocusSession, error) {
	var sessions []model.FocusSession
	if err := r.db.WithContext(ctx).Order("start_at ASC").Find(&sessions).Error; err != nil {
		return nil, err
	}
	return sessions, nil
}
