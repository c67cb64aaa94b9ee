package service

import (
	"context"
	"fmt"
	"hash/fnv"
	"strings"
	"time"

	"github.com/saadjs/kalki/internal/model"
)

// NutritionEstimate is what an analyzer returns for a description. Meal is
// empty when the analyzer has no opinion.
type NutritionEstimate struct {
	Name        string
	Calories    float64
	Protein     float64
	Carbs       float64
	Fats        float64
	ServingSize string
	Meal        model.MealCategory
}

type Analyzer interface {
	AnalyzeFood(ctx context.Context, name string) (NutritionEstimate, error)
	AnalyzeDetailedFood(ctx context.Context, description string) (NutritionEstimate, error)
}

// MockAnalyzer answers without any network access. Basic estimates are
// derived from the name so the same food always gets the same numbers.
type MockAnalyzer struct{}

func (MockAnalyzer) AnalyzeFood(ctx context.Context, name string) (NutritionEstimate, error) {
	if err := ctx.Err(); err != nil {
		return NutritionEstimate{}, err
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(normalizeName(name)))
	seed := h.Sum32()
	return NutritionEstimate{
		Name:     strings.TrimSpace(name),
		Calories: float64(100 + seed%401),
		Protein:  float64(5 + (seed>>8)%26),
		Carbs:    float64(10 + (seed>>16)%41),
		Fats:     float64(5 + (seed>>24)%16),
	}, nil
}

func (MockAnalyzer) AnalyzeDetailedFood(ctx context.Context, description string) (NutritionEstimate, error) {
	if err := ctx.Err(); err != nil {
		return NutritionEstimate{}, err
	}
	return NutritionEstimate{
		Name:        strings.TrimSpace(description),
		Calories:    250,
		Protein:     12,
		Carbs:       15,
		Fats:        3,
		ServingSize: model.DefaultServingSize,
		Meal:        model.MealSnacks,
	}, nil
}

type AnalyzeRequest struct {
	Description string
	Detailed    bool
	// Meal and Timestamp come from the user and override the estimate.
	Meal      model.MealCategory
	Timestamp time.Time
}

// AnalyzeAndLog asks a for an estimate and adds it to the log. Analyzer
// errors are returned wrapped and nothing is logged.
func AnalyzeAndLog(ctx context.Context, log *FoodLog, a Analyzer, req AnalyzeRequest) (model.FoodEntry, error) {
	description := strings.TrimSpace(req.Description)
	if description == "" {
		return model.FoodEntry{}, fmt.Errorf("food description is required")
	}
	var (
		est NutritionEstimate
		err error
	)
	if req.Detailed {
		est, err = a.AnalyzeDetailedFood(ctx, description)
	} else {
		est, err = a.AnalyzeFood(ctx, description)
	}
	if err != nil {
		return model.FoodEntry{}, fmt.Errorf("analyze %q: %w", description, err)
	}

	name := strings.TrimSpace(est.Name)
	if name == "" {
		name = description
	}
	meal := req.Meal
	if meal == "" {
		meal = est.Meal
	}
	return log.add(model.FoodInput{
		Name:        name,
		Calories:    est.Calories,
		Protein:     est.Protein,
		Carbs:       est.Carbs,
		Fats:        est.Fats,
		ServingSize: est.ServingSize,
		Timestamp:   req.Timestamp,
		Meal:        meal,
	}, SourceAnalyzed)
}
