package service_test

import (
	"testing"

	"github.com/saadjs/kalki/internal/model"
	"github.com/saadjs/kalki/internal/service"
)

func TestLoadGoalsDefaults(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	goals, err := service.LoadGoals(db)
	if err != nil {
		t.Fatalf("load goals: %v", err)
	}
	if goals != model.DefaultGoals() {
		t.Fatalf("expected defaults, got %+v", goals)
	}
}

func TestLoadGoalsParsesAndFallsBack(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	for name, value := range map[string]string{
		"calories": "1850.5",
		"protein":  "lots",
		"exercise": "",
		"minutes":  "45",
	} {
		if err := service.SetGoalValue(db, name, value); err != nil {
			t.Fatalf("set goal %s: %v", name, err)
		}
	}
	stored, ok, err := service.GetConfig(db, service.GoalProtein)
	if err != nil || !ok || stored != "lots" {
		t.Fatalf("expected raw text to be stored, got %q ok=%v err=%v", stored, ok, err)
	}

	goals, err := service.LoadGoals(db)
	if err != nil {
		t.Fatalf("load goals: %v", err)
	}
	want := model.Goals{Calories: 1850.5, Protein: 150, Exercise: 500, ExerciseMinutes: 45}
	if goals != want {
		t.Fatalf("expected %+v, got %+v", want, goals)
	}
}

func TestLoadGoalsRejectsNonFinite(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	for name, value := range map[string]string{
		"calories": "NaN",
		"protein":  "+Inf",
		"exercise": "1e400",
	} {
		if err := service.SetGoalValue(db, name, value); err != nil {
			t.Fatalf("set goal %s: %v", name, err)
		}
	}

	goals, err := service.LoadGoals(db)
	if err != nil {
		t.Fatalf("load goals: %v", err)
	}
	if goals != model.DefaultGoals() {
		t.Fatalf("expected defaults for non-finite goals, got %+v", goals)
	}
}

func TestResolveGoalKey(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]string{
		"Calories":      service.GoalCalories,
		"goal_protein":  service.GoalProtein,
		" minutes ":     service.GoalExerciseMinutes,
		"goal_exercise": service.GoalExercise,
	} {
		got, err := service.ResolveGoalKey(in)
		if err != nil {
			t.Fatalf("resolve %q: %v", in, err)
		}
		if got != want {
			t.Fatalf("resolve %q: expected %s, got %s", in, want, got)
		}
	}
	if _, err := service.ResolveGoalKey("sleep"); err == nil {
		t.Fatalf("expected unknown goal to fail")
	}
}
