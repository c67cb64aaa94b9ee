package service

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	poundToKg  = 0.453592
	inchToCm   = 2.54
	proteinPer = 1.8 // g per kg of body weight
	// share of TDEE suggested as the active calorie goal
	exerciseShare = 0.2
)

type Sex string

const (
	SexMale   Sex = "male"
	SexFemale Sex = "female"
)

var activityMultipliers = map[string]float64{
	"sedentary": 1.2,
	"light":     1.375,
	"moderate":  1.55,
	"heavy":     1.725,
	"athlete":   1.9,
}

var ActivityLevels = []string{"sedentary", "light", "moderate", "heavy", "athlete"}

type CalcInput struct {
	Weight   float64
	Height   float64
	Age      float64
	Sex      Sex
	Activity string
	// Imperial means Weight is in lb and Height in inches.
	Imperial bool
}

type Needs struct {
	WeightKg           float64 `json:"weight_kg"`
	HeightCm           float64 `json:"height_cm"`
	BMR                float64 `json:"bmr"`
	TDEE               float64 `json:"tdee"`
	RecommendedProtein float64 `json:"recommended_protein_g"`
	RecommendedActive  float64 `json:"recommended_active_calories"`
}

// CalculateNeeds estimates daily energy needs with the Mifflin-St Jeor
// equation.
func CalculateNeeds(in CalcInput) (Needs, error) {
	if in.Weight <= 0 || in.Height <= 0 || in.Age <= 0 {
		return Needs{}, fmt.Errorf("weight, height and age must be > 0")
	}
	multiplier, ok := activityMultipliers[normalizeName(in.Activity)]
	if !ok {
		return Needs{}, fmt.Errorf("invalid activity level %q (use %s)", in.Activity, strings.Join(ActivityLevels, ", "))
	}
	weightKg, heightCm := in.Weight, in.Height
	if in.Imperial {
		weightKg *= poundToKg
		heightCm *= inchToCm
	}

	bmr := 10*weightKg + 6.25*heightCm - 5*in.Age
	switch Sex(normalizeName(string(in.Sex))) {
	case SexMale:
		bmr += 5
	case SexFemale:
		bmr -= 161
	default:
		return Needs{}, fmt.Errorf("invalid sex %q (use male or female)", in.Sex)
	}
	tdee := bmr * multiplier
	return Needs{
		WeightKg:           weightKg,
		HeightCm:           heightCm,
		BMR:                bmr,
		TDEE:               tdee,
		RecommendedProtein: weightKg * proteinPer,
		RecommendedActive:  tdee * exerciseShare,
	}, nil
}

// ApplyNeeds saves the estimate as goals, truncated to whole numbers.
func ApplyNeeds(db *sql.DB, n Needs) error {
	values := map[string]float64{
		GoalCalories: n.TDEE,
		GoalProtein:  n.RecommendedProtein,
		GoalExercise: n.RecommendedActive,
	}
	for _, key := range []string{GoalCalories, GoalProtein, GoalExercise} {
		text := strconv.FormatFloat(math.Trunc(values[key]), 'f', 0, 64)
		if err := SetGoalValue(db, key, text); err != nil {
			return fmt.Errorf("apply needs: %w", err)
		}
	}
	return nil
}
