package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

const DefaultServingSize = "1 serving"

type MealCategory string

const (
	MealBreakfast MealCategory = "breakfast"
	MealLunch     MealCategory = "lunch"
	MealDinner    MealCategory = "dinner"
	MealSnacks    MealCategory = "snacks"
)

var MealCategories = []MealCategory{MealBreakfast, MealLunch, MealDinner, MealSnacks}

func ParseMealCategory(value string) (MealCategory, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	switch v {
	case "":
		return MealSnacks, nil
	case "snack":
		return MealSnacks, nil
	}
	for _, m := range MealCategories {
		if string(m) == v {
			return m, nil
		}
	}
	return "", fmt.Errorf("invalid meal %q (use breakfast, lunch, dinner or snacks)", value)
}

// FoodEntry is a logged food. Values never change after construction; an
// edit builds a new entry that keeps the same ID.
type FoodEntry struct {
	ID          uuid.UUID
	Name        string
	Calories    float64
	Protein     float64
	Carbs       float64
	Fats        float64
	ServingSize string
	Timestamp   time.Time
	Meal        MealCategory
}

type FoodInput struct {
	ID          uuid.UUID
	Name        string
	Calories    float64
	Protein     float64
	Carbs       float64
	Fats        float64
	ServingSize string
	Timestamp   time.Time
	Meal        MealCategory
}

// NewFoodEntry normalizes in: nutrients are clamped to >= 0, the name and
// serving size are trimmed, and missing ID, timestamp, meal and serving size
// get defaults.
func NewFoodEntry(in FoodInput) FoodEntry {
	id := in.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	serving := strings.TrimSpace(in.ServingSize)
	if serving == "" {
		serving = DefaultServingSize
	}
	ts := in.Timestamp
	if ts.IsZero() {
		ts = time.Now()
	}
	meal := in.Meal
	if meal == "" {
		meal = MealSnacks
	}
	return FoodEntry{
		ID:          id,
		Name:        strings.TrimSpace(in.Name),
		Calories:    clamp(in.Calories),
		Protein:     clamp(in.Protein),
		Carbs:       clamp(in.Carbs),
		Fats:        clamp(in.Fats),
		ServingSize: serving,
		Timestamp:   ts,
		Meal:        meal,
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

type WeightEntry struct {
	ID       uuid.UUID
	WeightKg float64
	Date     time.Time
	Note     string
}

type ExerciseSummary struct {
	ActiveCalories    float64
	ActiveCalorieGoal float64
	ActiveMinutes     int
	MinutesGoal       int
}

// DailyAggregate is derived from the food log and never persisted.
type DailyAggregate struct {
	Day           time.Time
	TotalCalories float64
	TotalProtein  float64
	Exercise      ExerciseSummary
}

const (
	DefaultCalorieGoal     = 2000
	DefaultProteinGoal     = 150
	DefaultExerciseGoal    = 500
	DefaultExerciseMinutes = 30
)

type Goals struct {
	Calories        float64
	Protein         float64
	Exercise        float64
	ExerciseMinutes int
}

func DefaultGoals() Goals {
	return Goals{
		Calories:        DefaultCalorieGoal,
		Protein:         DefaultProteinGoal,
		Exercise:        DefaultExerciseGoal,
		ExerciseMinutes: DefaultExerciseMinutes,
	}
}

type AchievementType string

const (
	AchievementExercise    AchievementType = "exercise"
	AchievementStreak      AchievementType = "streak"
	AchievementProtein     AchievementType = "protein"
	AchievementTiming      AchievementType = "timing"
	AchievementCalories    AchievementType = "calories"
	AchievementSpecial     AchievementType = "special"
	AchievementConsistency AchievementType = "consistency"
)

func (t AchievementType) DisplayName() string {
	switch t {
	case AchievementExercise:
		return "Exercise"
	case AchievementStreak:
		return "Streaks"
	case AchievementProtein:
		return "Nutrition"
	case AchievementTiming:
		return "Timing"
	case AchievementCalories:
		return "Calories"
	case AchievementSpecial:
		return "Special"
	case AchievementConsistency:
		return "Consistency"
	}
	return string(t)
}

type Achievement struct {
	ID          string
	Title       string
	Description string
	Type        AchievementType
	Requirement int
}
