package service

import (
	"context"
	"time"

	"github.com/saadjs/kalki/internal/model"
	"github.com/saadjs/kalki/internal/progress"
)

// PlaceholderExercise stands in for a fitness data source: nothing burned,
// measured against the configured goals.
type PlaceholderExercise struct{}

func (PlaceholderExercise) Summary(ctx context.Context, _ time.Time, goals model.Goals) (model.ExerciseSummary, error) {
	if err := ctx.Err(); err != nil {
		return model.ExerciseSummary{}, err
	}
	return progress.PlaceholderSummary(goals), nil
}
