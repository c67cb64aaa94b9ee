package service

import (
	"database/sql"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/saadjs/kalki/internal/model"
)

const (
	GoalCalories        = "goal_calories"
	GoalProtein         = "goal_protein"
	GoalExercise        = "goal_exercise"
	GoalExerciseMinutes = "goal_exercise_minutes"
)

var GoalKeys = []string{GoalCalories, GoalProtein, GoalExercise, GoalExerciseMinutes}

// goalAliases lets the CLI accept short names.
var goalAliases = map[string]string{
	"calories": GoalCalories,
	"protein":  GoalProtein,
	"exercise": GoalExercise,
	"minutes":  GoalExerciseMinutes,
}

func ResolveGoalKey(name string) (string, error) {
	n := normalizeName(name)
	if key, ok := goalAliases[n]; ok {
		return key, nil
	}
	for _, key := range GoalKeys {
		if key == n {
			return key, nil
		}
	}
	return "", fmt.Errorf("unknown goal %q (use calories, protein, exercise or minutes)", name)
}

// SetGoalValue stores value as entered. Text that does not parse is kept and
// read back as the default.
func SetGoalValue(db *sql.DB, name, value string) error {
	key, err := ResolveGoalKey(name)
	if err != nil {
		return err
	}
	return SetConfig(db, key, value)
}

func LoadGoals(db *sql.DB) (model.Goals, error) {
	values, err := ListConfig(db)
	if err != nil {
		return model.Goals{}, fmt.Errorf("load goals: %w", err)
	}
	return model.Goals{
		Calories:        parseGoal(values[GoalCalories], model.DefaultCalorieGoal),
		Protein:         parseGoal(values[GoalProtein], model.DefaultProteinGoal),
		Exercise:        parseGoal(values[GoalExercise], model.DefaultExerciseGoal),
		ExerciseMinutes: int(parseGoal(values[GoalExerciseMinutes], model.DefaultExerciseMinutes)),
	}, nil
}

func parseGoal(raw string, fallback float64) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return fallback
	}
	return v
}

// GoalStore reads goals from app_config on every call so edits from other
// commands show up on the next refresh.
type GoalStore struct {
	DB *sql.DB
}

func (s GoalStore) Goals() (model.Goals, error) {
	return LoadGoals(s.DB)
}
