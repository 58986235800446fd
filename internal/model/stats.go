package model

import "time"

// DailySnapshot summarizes one day of planning and focus work. Snapshots
// for past days are stored at day close and preferred over recomputation.
type DailySnapshot struct {
	Day                Day `gorm:"primaryKey" json:"day"`
	PlannedMinutes     int `json:"plannedMinutes"`
	CompletedMinutes   int `json:"completedMinutes"`
	PlannedTasks       int `json:"plannedTasks"`
	DoneTasks          int `json:"doneTasks"`
	BumpedTasks        int `json:"bumpedTasks"`
	ExtensionRate      float64 `json:"extensionRate"`
	AvgEstimationError int     `json:"avgEstimationError"`
	CreatedAt          time.Time `json:"createdAt"`
}
