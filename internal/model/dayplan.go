package model

import (
	"time"
)

// The working window is fixed: 09:00-17:00 local, 16 half-hour slots.
const (
	SlotCount       = 16
	SlotMinutes     = 30
	WorkdayStartMin = 9 * 60
	WorkdayEndMin   = 17 * 60
	WorkdayMinutes  = WorkdayEndMin - WorkdayStartMin
)

// Default recurring work blocks every fresh plan carries.
const (
	WorkblockEmail = "email"
	WorkblockTeams = "teams"
)

// MeetingGrid marks which half-hour slots of the working window are taken
// by meetings. true = unavailable.
type MeetingGrid []bool

// Normalize pads or truncates the grid to exactly SlotCount entries.
// Persisted data from older versions may carry the wrong length.
func (g MeetingGrid) Normalize() MeetingGrid {
	out := make(MeetingGrid, SlotCount)
	copy(out, g)
	return out
}

// BusyCount returns how many slots are marked as meetings.
func (g MeetingGrid) BusyCount() int {
	n := 0
	for _, busy := range g {
		if busy {
			n++
		}
	}
	return n
}

// Workblocks maps a recurring commitment name to its count of half-hour
// blocks, consumed regardless of meeting placement.
type Workblocks map[string]int

// TotalBlocks sums all configured block counts.
func (w Workblocks) TotalBlocks() int {
	n := 0
	for _, c := range w {
		n += c
	}
	return n
}

// DefaultWorkblocks returns the block set every fresh plan starts with.
func DefaultWorkblocks() Workblocks {
	return Workblocks{WorkblockEmail: 0, WorkblockTeams: 0}
}

// DayPlan holds the fixed commitments and safety margin for one day.
type DayPlan struct {
	Day           Day         `gorm:"primaryKey"`
	Meetings      MeetingGrid `gorm:"serializer:json"`
	Workblocks    Workblocks  `gorm:"serializer:json"`
	BufferPercent int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewDayPlan returns a fresh plan: all slots free, default work blocks,
// zero buffer.
func NewDayPlan(day Day) *DayPlan {
	return &DayPlan{
		Day:        day,
		Meetings:   make(MeetingGrid, SlotCount),
		Workblocks: DefaultWorkblocks(),
	}
}

// MeetingMinutes returns the minutes consumed by marked meeting slots.
func (p *DayPlan) MeetingMinutes() int {
	return p.Meetings.BusyCount() * SlotMinutes
}

// WorkblockMinutes returns the minutes consumed by recurring work blocks.
func (p *DayPlan) WorkblockMinutes() int {
	return p.Workblocks.TotalBlocks() * SlotMinutes
}

// Capacity is the working time left in the day after meetings and work
// blocks, never negative.
func (p *DayPlan) Capacity() int {
	c := WorkdayMinutes - p.MeetingMinutes() - p.WorkblockMinutes()
	if c < 0 {
		return 0
	}
	return c
}

// LiveRemaining narrows the capacity computation to the window between now
// and the end of the working day. Only the portion of each meeting slot that
// overlaps the narrowed window counts; work blocks are subtracted in full.
// Stage by stage the result is floored at zero.
func (p *DayPlan) LiveRemaining(now time.Time) int {
	nowMins := float64(now.Hour()*60+now.Minute()) + float64(now.Second())/60
	start := nowMins
	if start < WorkdayStartMin {
		start = WorkdayStartMin
	}
	remaining := float64(WorkdayEndMin) - start
	if remaining < 0 {
		remaining = 0
	}
	for i, busy := range p.Meetings {
		if !busy {
			continue
		}
		slotStart := float64(WorkdayStartMin + i*SlotMinutes)
		slotEnd := slotStart + SlotMinutes
		overlap := min(slotEnd, WorkdayEndMin) - max(slotStart, start)
		if overlap > 0 {
			remaining -= overlap
		}
	}
	if remaining < 0 {
		remaining = 0
	}
	remaining -= float64(p.WorkblockMinutes())
	if remaining < 0 {
		remaining = 0
	}
	return int(remaining + 0.5)
}
