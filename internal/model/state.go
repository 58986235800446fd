package model

// State is the full serialized planner state, the unit of export and import.
type State struct {
	Tasks         []Task                `json:"tasks"`
	DayPlans      map[Day]DayPlan       `json:"dayPlans"`
	FocusSessions []FocusSession        `json:"focusSessions"`
	DailyStats    map[Day]DailySnapshot `json:"dailyStats"`
}
