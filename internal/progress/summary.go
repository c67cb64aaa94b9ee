package progress

import (
	"fmt"
	"time"

	"github.com/saadjs/kalki/internal/model"
)

type DaySummary struct {
	Date           string  `json:"date"`
	Calories       float64 `json:"calories"`
	Protein        float64 `json:"protein_g"`
	GoalMet        bool    `json:"goal_met"`
	ProteinGoalMet bool    `json:"protein_goal_met"`
	ActiveCalories float64 `json:"active_calories"`
	ActiveMinutes  int     `json:"active_minutes"`
}

// RangeSummary reports tracked days between From and To inclusive.
// Averages are taken over tracked days only.
type RangeSummary struct {
	FromDate              string       `json:"from_date"`
	ToDate                string       `json:"to_date"`
	CalorieGoal           float64      `json:"calorie_goal"`
	ProteinGoal           float64      `json:"protein_goal"`
	TrackedDays           int          `json:"tracked_days"`
	GoalMetDays           int          `json:"goal_met_days"`
	ProteinGoalMetDays    int          `json:"protein_goal_met_days"`
	TotalCalories         float64      `json:"total_calories"`
	TotalProtein          float64      `json:"total_protein_g"`
	AverageCaloriesPerDay float64      `json:"avg_calories_per_day"`
	AverageProteinPerDay  float64      `json:"avg_protein_per_day"`
	HighestDay            *DaySummary  `json:"highest_day,omitempty"`
	LowestDay             *DaySummary  `json:"lowest_day,omitempty"`
	Days                  []DaySummary `json:"days"`
}

func Summarize(m Map, from, to time.Time, goals model.Goals) (*RangeSummary, error) {
	from, to = Day(from), Day(to)
	if from.After(to) {
		return nil, fmt.Errorf("from date must be <= to date")
	}
	out := &RangeSummary{
		FromDate:    from.Format(dayLayout),
		ToDate:      to.Format(dayLayout),
		CalorieGoal: goals.Calories,
		ProteinGoal: goals.Protein,
		Days:        make([]DaySummary, 0),
	}
	for _, d := range m.Days() {
		if d.Before(from) || d.After(to) {
			continue
		}
		s := summarizeDay(m[Key(d)], goals)
		out.Days = append(out.Days, s)
		out.TrackedDays++
		out.TotalCalories += s.Calories
		out.TotalProtein += s.Protein
		if s.GoalMet {
			out.GoalMetDays++
		}
		if s.ProteinGoalMet {
			out.ProteinGoalMetDays++
		}
		if out.HighestDay == nil || s.Calories > out.HighestDay.Calories {
			high := s
			out.HighestDay = &high
		}
		if out.LowestDay == nil || s.Calories < out.LowestDay.Calories {
			low := s
			out.LowestDay = &low
		}
	}
	if out.TrackedDays > 0 {
		div := float64(out.TrackedDays)
		out.AverageCaloriesPerDay = out.TotalCalories / div
		out.AverageProteinPerDay = out.TotalProtein / div
	}
	return out, nil
}

func summarizeDay(agg model.DailyAggregate, goals model.Goals) DaySummary {
	return DaySummary{
		Date:           agg.Day.Format(dayLayout),
		Calories:       agg.TotalCalories,
		Protein:        agg.TotalProtein,
		GoalMet:        IsGoalMet(agg, goals.Calories),
		ProteinGoalMet: IsProteinGoalMet(agg, goals.Protein),
		ActiveCalories: agg.Exercise.ActiveCalories,
		ActiveMinutes:  agg.Exercise.ActiveMinutes,
	}
}

// WeekRange returns Monday through Sunday of the week containing t.
func WeekRange(t time.Time) (time.Time, time.Time) {
	d := Day(t)
	offset := (int(d.Weekday()) + 6) % 7
	start := Day(d.AddDate(0, 0, -offset))
	return start, Day(start.AddDate(0, 0, 6))
}

func MonthRange(t time.Time) (time.Time, time.Time) {
	first := FirstOfMonth(t)
	return first, first.AddDate(0, 1, -1)
}
