package model

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// Day is a calendar date on the planner's local wall clock, stored as
// YYYY-MM-DD. ISO form means lexicographic order matches calendar order.
type Day string

// Today returns the current local calendar day.
func Today() Day {
	return DayOf(time.Now())
}

// DayOf truncates an instant to its local calendar day.
func DayOf(t time.Time) Day {
	return Day(t.Local().Format(dayLayout))
}

// ParseDay validates a YYYY-MM-DD string.
func ParseDay(s string) (Day, error) {
	t, err := time.ParseInLocation(dayLayout, s, time.Local)
	if err != nil {
		return "", fmt.Errorf("parse day %q: %w", s, err)
	}
	return DayOf(t), nil
}

// Time returns midnight local time at the start of the day.
func (d Day) Time() time.Time {
	t, err := time.ParseInLocation(dayLayout, string(d), time.Local)
	if err != nil {
		return time.Time{}
	}
	return t
}

// AddDays returns the day shifted by n calendar days.
func (d Day) AddDays(n int) Day {
	return DayOf(d.Time().AddDate(0, 0, n))
}

// Next returns the following calendar day.
func (d Day) Next() Day {
	return d.AddDays(1)
}

// Before reports whether d falls before other.
func (d Day) Before(other Day) bool {
	return string(d) < string(other)
}

// Contains reports whether the instant falls on this calendar day.
func (d Day) Contains(t time.Time) bool {
	return DayOf(t) == d
}

func (d Day) String() string {
	return string(d)
}
