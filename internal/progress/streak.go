package progress

import (
	"slices"
	"time"
)

type MonthStats struct {
	SuccessfulDays       int `json:"successful_days"`
	TotalTrackedDays     int `json:"total_tracked_days"`
	LongestStreakInMonth int `json:"longest_streak_in_month"`
}

// StreakDays walks backward from today and returns the unbroken run of
// tracked, goal-met days, newest first. An untracked day ends the run the
// same way a day over the goal does.
func StreakDays(m Map, calorieGoal float64, today time.Time) []time.Time {
	var days []time.Time
	for d := Day(today); ; d = previousDay(d) {
		agg, ok := m.Get(d)
		if !ok || !IsGoalMet(agg, calorieGoal) {
			return days
		}
		days = append(days, d)
	}
}

func CurrentStreak(m Map, calorieGoal float64, today time.Time) int {
	return len(StreakDays(m, calorieGoal, today))
}

// IsPartOfStreak reports whether day falls inside the run CurrentStreak
// measures.
func IsPartOfStreak(day time.Time, m Map, calorieGoal float64, today time.Time) bool {
	target := Day(day)
	for _, d := range StreakDays(m, calorieGoal, today) {
		if d.Equal(target) {
			return true
		}
	}
	return false
}

// MonthStatsFor scans the calendar month containing month from its first
// day through the earlier of its last day and today. The longest run is
// scoped to that month and does not carry in from the month before.
func MonthStatsFor(m Map, calorieGoal float64, month, today time.Time) MonthStats {
	first := FirstOfMonth(month)
	last := first.AddDate(0, 1, -1)
	if t := Day(today); t.Before(last) {
		last = t
	}

	var out MonthStats
	run := 0
	for d := first; !d.After(last); d = nextDay(d) {
		agg, ok := m.Get(d)
		if !ok {
			run = 0
			continue
		}
		out.TotalTrackedDays++
		if !IsGoalMet(agg, calorieGoal) {
			run = 0
			continue
		}
		out.SuccessfulDays++
		run++
		if run > out.LongestStreakInMonth {
			out.LongestStreakInMonth = run
		}
	}
	return out
}

func FirstOfMonth(t time.Time) time.Time {
	d := Day(t)
	return time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, time.Local)
}

func sortDays(days []time.Time) {
	slices.SortFunc(days, func(a, b time.Time) int {
		return a.Compare(b)
	})
}
