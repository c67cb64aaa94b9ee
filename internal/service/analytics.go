package service

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/saadjs/kalki/internal/model"
	"github.com/saadjs/kalki/internal/progress"
)

type MealBreakdown struct {
	Meal     model.MealCategory `json:"meal"`
	Entries  int                `json:"entries"`
	Calories float64            `json:"calories"`
	Protein  float64            `json:"protein_g"`
	Carbs    float64            `json:"carbs_g"`
	Fat      float64            `json:"fat_g"`
}

type Report struct {
	*progress.RangeSummary
	ByMeal []MealBreakdown `json:"by_meal"`
}

// RangeReport summarizes [from, to] straight from the foods table, so it is
// not limited to the tracker's retention window.
func RangeReport(db *sql.DB, from, to time.Time, goals model.Goals) (*Report, error) {
	from, to = progress.Day(from), progress.Day(to)
	if from.After(to) {
		return nil, fmt.Errorf("from date must be <= to date")
	}
	start, end := formatTimestamp(from), formatTimestamp(to.AddDate(0, 0, 1))

	q := builder.Select(foodColumns...).From("foods").OrderBy("consumed_at ASC")
	foods, err := queryFoods(db, applyDateRange(q, "consumed_at", start, end))
	if err != nil {
		return nil, err
	}
	span := int(math.Round(to.Sub(from).Hours()/24)) + 1
	summary, err := progress.Summarize(progress.Aggregate(foods, to, span), from, to, goals)
	if err != nil {
		return nil, err
	}
	meals, err := loadMealBreakdown(db, start, end)
	if err != nil {
		return nil, err
	}
	return &Report{RangeSummary: summary, ByMeal: meals}, nil
}

// loadMealBreakdown returns one row per meal with entries, in meal order.
func loadMealBreakdown(db *sql.DB, start, end string) ([]MealBreakdown, error) {
	q := builder.Select("f.meal", "COUNT(*)", "SUM(f.calories)", "SUM(f.protein_g)", "SUM(f.carbs_g)", "SUM(f.fat_g)").
		From("foods f").
		Join("meals m ON m.name = f.meal").
		GroupBy("f.meal", "m.position").
		OrderBy("m.position ASC")
	query, args, err := applyDateRange(q, "f.consumed_at", start, end).ToSql()
	if err != nil {
		return nil, fmt.Errorf("build meal breakdown: %w", err)
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query meal breakdown: %w", err)
	}
	defer rows.Close()

	items := make([]MealBreakdown, 0)
	for rows.Next() {
		var (
			b    MealBreakdown
			meal string
		)
		if err := rows.Scan(&meal, &b.Entries, &b.Calories, &b.Protein, &b.Carbs, &b.Fat); err != nil {
			return nil, fmt.Errorf("scan meal breakdown: %w", err)
		}
		b.Meal = model.MealCategory(meal)
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate meal breakdown: %w", err)
	}
	return items, nil
}
