package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"day-planner/internal/model"
)

// DayPlanRepository manages per-day plans.
type DayPlanRepository struct {
	db *gorm.DB
}

func NewDayPlanRepository(db *gorm.DB) *DayPlanRepository {
	return &DayPlanRepository{db: db}
}

// GetOrCreate returns the stored plan for the day, creating a fresh one if
// none exists. An existing plan is never overwritten.
func (r *DayPlanRepository) GetOrCreate(ctx context.Context, day model.Day) (*model.DayPlan, error) {
	var plan model.DayPlan
	db := r.db.WithContext(ctx)
	err := db.Where("day = ?", day).First(&plan).Error
	switch {
	case err == nil:
		plan.Meetings = plan.Meetings.Normalize()
		return &plan, nil
	case err == gorm.ErrRecordNotFound:
		plan = *model.NewDayPlan(day)
		if err := db.Create(&plan).Error; err != nil {
			return nil, fmt.Errorf("create day plan: %w", err)
		}
		return &plan, nil
	default:
		return nil, fmt.Errorf("find day plan: %w", err)
	}
}

func (r *DayPlanRepository) Save(ctx context.Context, plan *model.DayPlan) error {
	if err := r.db.WithContext(ctx).Save(plan).Error; err != nil {
		return fmt.Errorf("save day plan: %w", err)
	}
	return nil
}

func (r *DayPlanRepository) ListAll(ctx context.Context) ([]model.DayPlan, error) {
	var plans []model.DayPlan
	if err := r.db.WithContext(ctx).Order("day ASC").Find(&plans).Error; err != nil {
		return nil, err
	}
	for i := range plans {
		plans[i].Meetings = plans[i].Meetings.Normalize()
	}
	return plans, nil
}
