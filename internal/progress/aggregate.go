// Package progress turns the food log into per-day totals and evaluates
// calorie goals and streaks over them.
package progress

import (
	"time"

	"github.com/saadjs/kalki/internal/model"
)

const (
	DefaultRetentionDays = 30
	dayLayout            = "2006-01-02"
)

// Map holds one aggregate per tracked calendar day, keyed by Key(day).
// A day is present only if at least one food entry was logged on it.
type Map map[string]model.DailyAggregate

// Get returns the aggregate for the calendar day containing t.
func (m Map) Get(t time.Time) (model.DailyAggregate, bool) {
	agg, ok := m[Key(t)]
	return agg, ok
}

// Days returns the tracked days in ascending order.
func (m Map) Days() []time.Time {
	out := make([]time.Time, 0, len(m))
	for _, agg := range m {
		out = append(out, agg.Day)
	}
	sortDays(out)
	return out
}

// Day truncates t to local midnight.
func Day(t time.Time) time.Time {
	y, mo, d := t.In(time.Local).Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.Local)
}

func Key(t time.Time) string {
	return Day(t).Format(dayLayout)
}

func ParseDay(value string) (time.Time, error) {
	return time.ParseInLocation(dayLayout, value, time.Local)
}

func previousDay(d time.Time) time.Time {
	return Day(d.AddDate(0, 0, -1))
}

func nextDay(d time.Time) time.Time {
	return Day(d.AddDate(0, 0, 1))
}

// Aggregate groups entries by calendar day and sums calories and protein.
// A day is kept only if its start is no earlier than ref minus retentionDays,
// so the day exactly retentionDays back survives only when ref is midnight.
// retentionDays <= 0 means DefaultRetentionDays.
func Aggregate(entries []model.FoodEntry, ref time.Time, retentionDays int) Map {
	m, _ := aggregate(entries, ref, retentionDays, nil)
	return m
}

// aggregate stops early and reports false once stop returns true. stop is
// checked between days.
func aggregate(entries []model.FoodEntry, ref time.Time, retentionDays int, stop func() bool) (Map, bool) {
	if retentionDays <= 0 {
		retentionDays = DefaultRetentionDays
	}
	cutoff := ref.AddDate(0, 0, -retentionDays)

	buckets := make(map[string][]model.FoodEntry)
	for _, e := range entries {
		k := Key(e.Timestamp)
		buckets[k] = append(buckets[k], e)
	}

	out := make(Map, len(buckets))
	for k, foods := range buckets {
		if stop != nil && stop() {
			return nil, false
		}
		day := Day(foods[0].Timestamp)
		if day.Before(cutoff) {
			continue
		}
		agg := model.DailyAggregate{Day: day}
		for _, f := range foods {
			agg.TotalCalories += f.Calories
			agg.TotalProtein += f.Protein
		}
		out[k] = agg
	}
	return out, true
}

// IsGoalMet reports whether the day stayed within the calorie goal. Landing
// exactly on the goal counts.
func IsGoalMet(agg model.DailyAggregate, calorieGoal float64) bool {
	return agg.TotalCalories <= calorieGoal
}

// IsProteinGoalMet reports whether the day reached the protein goal.
func IsProteinGoalMet(agg model.DailyAggregate, proteinGoal float64) bool {
	return agg.TotalProtein >= proteinGoal
}
