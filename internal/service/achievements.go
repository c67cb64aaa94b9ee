package service

import (
	"slices"

	"github.com/saadjs/kalki/internal/model"
)

var achievements = []model.Achievement{
	{ID: "iron_man", Title: "Iron Man", Description: "Burn 1000+ calories in a single day", Type: model.AchievementExercise, Requirement: 1000},
	{ID: "marathoner", Title: "Marathoner", Description: "Burn 1000+ calories for 7 consecutive days", Type: model.AchievementExercise, Requirement: 7},
	{ID: "perfect_week", Title: "Perfect Week", Description: "Stay under calorie limit for 7 days straight", Type: model.AchievementStreak, Requirement: 7},
	{ID: "perfect_month", Title: "Perfect Month", Description: "Stay under calorie limit for 30 days straight", Type: model.AchievementStreak, Requirement: 30},
	{ID: "balanced_diet", Title: "Balanced Diet", Description: "Hit protein goals for 5 days straight", Type: model.AchievementProtein, Requirement: 5},
	{ID: "protein_master", Title: "Protein Master", Description: "Hit protein goals for 14 days straight", Type: model.AchievementProtein, Requirement: 14},
	{ID: "early_bird", Title: "Early Bird", Description: "Log breakfast before 9 AM for a week", Type: model.AchievementTiming, Requirement: 7},
	{ID: "timekeeper", Title: "Timekeeper", Description: "Log all meals within regular hours for a week", Type: model.AchievementTiming, Requirement: 7},
	{ID: "habit_former", Title: "Habit Former", Description: "Log food every day for 21 days", Type: model.AchievementConsistency, Requirement: 21},
}

// Achievements lists the catalog, optionally limited to one type.
func Achievements(filter model.AchievementType) []model.Achievement {
	if filter == "" {
		return slices.Clone(achievements)
	}
	out := make([]model.Achievement, 0)
	for _, a := range achievements {
		if a.Type == filter {
			out = append(out, a)
		}
	}
	return out
}
