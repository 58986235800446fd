package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"day-planner/internal/model"
)

// SnapshotRepository stores daily statistics snapshots keyed by day.
type SnapshotRepository struct {
	db *gorm.DB
}

func NewSnapshotRepository(db *gorm.DB) *SnapshotRepository {
	return &SnapshotRepository{db: db}
}

// Upsert stores the snapshot for its day, replacing any previous one.
func (r *SnapshotRepository) Upsert(ctx context.Context, snap *model.DailySnapshot) error {
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(snap).Error; err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// Get returns the stored snapshot for the day, or gorm.ErrRecordNotFound.
func (r *SnapshotRepository) Get(ctx context.Context, day model.Day) (*model.DailySnapshot, error) {
	var snap model.DailySnapshot
	if err := r.db.WithContext(ctx).Where("day = ?", day).First(&snap).Error; err != nil {
		return nil, err
	}
	return &snap, nil
}

func (r *SnapshotRepository) ListAll(ctx context.Context) ([]model.DailySnapshot, error) {
	var snaps []model.DailySnapshot
	if err := r.db.WithContext(ctx).Order("day ASC").Find(&snaps).Error; err != nil {
		return nil, err
	}
	return snaps, nil
}
