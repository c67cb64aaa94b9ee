package service

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/saadjs/kalki/internal/model"
)

const (
	SourceManual   = "manual"
	SourceAnalyzed = "analyzed"
)

var foodColumns = []string{"id", "name", "calories", "protein_g", "carbs_g", "fat_g", "serving_size", "meal", "consumed_at"}

type FoodFilter struct {
	Date     string
	FromDate string
	ToDate   string
	Meal     string
	Limit    int
}

func CreateFood(db *sql.DB, in model.FoodInput) (model.FoodEntry, error) {
	return createFood(db, in, SourceManual)
}

func createFood(db *sql.DB, in model.FoodInput, source string) (model.FoodEntry, error) {
	in, err := validateFoodInput(in)
	if err != nil {
		return model.FoodEntry{}, err
	}
	entry := model.NewFoodEntry(in)
	entry.Timestamp = entry.Timestamp.Truncate(time.Second)
	query, args, err := builder.Insert("foods").
		Columns(append(foodColumns, "source_type")...).
		Values(entry.ID.String(), entry.Name, entry.Calories, entry.Protein, entry.Carbs, entry.Fats,
			entry.ServingSize, string(entry.Meal), formatTimestamp(entry.Timestamp), source).
		ToSql()
	if err != nil {
		return model.FoodEntry{}, fmt.Errorf("build insert food: %w", err)
	}
	if _, err := db.Exec(query, args...); err != nil {
		return model.FoodEntry{}, fmt.Errorf("create food: %w", err)
	}
	return entry, nil
}

func FoodByID(db *sql.DB, id uuid.UUID) (model.FoodEntry, error) {
	query, args, err := builder.Select(foodColumns...).From("foods").Where(sq.Eq{"id": id.String()}).ToSql()
	if err != nil {
		return model.FoodEntry{}, fmt.Errorf("build food lookup: %w", err)
	}
	entry, err := scanFood(db.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.FoodEntry{}, fmt.Errorf("food %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return model.FoodEntry{}, fmt.Errorf("lookup food %s: %w", id, err)
	}
	return entry, nil
}

// ListFoods returns the newest entries first.
func ListFoods(db *sql.DB, f FoodFilter) ([]model.FoodEntry, error) {
	start, end, err := dateRange(f.Date, f.FromDate, f.ToDate)
	if err != nil {
		return nil, err
	}
	q := builder.Select(foodColumns...).From("foods")
	q = applyDateRange(q, "consumed_at", start, end)
	if strings.TrimSpace(f.Meal) != "" {
		meal, err := model.ParseMealCategory(f.Meal)
		if err != nil {
			return nil, err
		}
		q = q.Where(sq.Eq{"meal": string(meal)})
	}
	q = q.OrderBy("consumed_at DESC", "created_at DESC").Limit(resolveLimit(f.Limit))
	return queryFoods(db, q)
}

// AllFoods loads the whole log in chronological order.
func AllFoods(db *sql.DB) ([]model.FoodEntry, error) {
	return queryFoods(db, builder.Select(foodColumns...).From("foods").OrderBy("consumed_at ASC", "created_at ASC"))
}

// UpdateFood replaces every field of the entry with id. A zero timestamp or
// empty meal in keeps the stored value.
func UpdateFood(db *sql.DB, id uuid.UUID, in model.FoodInput) (model.FoodEntry, error) {
	in, err := validateFoodInput(in)
	if err != nil {
		return model.FoodEntry{}, err
	}
	current, err := FoodByID(db, id)
	if err != nil {
		return model.FoodEntry{}, err
	}
	in.ID = id
	if in.Timestamp.IsZero() {
		in.Timestamp = current.Timestamp
	}
	if in.Meal == "" {
		in.Meal = current.Meal
	}
	entry := model.NewFoodEntry(in)
	entry.Timestamp = entry.Timestamp.Truncate(time.Second)

	query, args, err := builder.Update("foods").
		Set("name", entry.Name).
		Set("calories", entry.Calories).
		Set("protein_g", entry.Protein).
		Set("carbs_g", entry.Carbs).
		Set("fat_g", entry.Fats).
		Set("serving_size", entry.ServingSize).
		Set("meal", string(entry.Meal)).
		Set("consumed_at", formatTimestamp(entry.Timestamp)).
		Set("updated_at", sq.Expr("CURRENT_TIMESTAMP")).
		Where(sq.Eq{"id": id.String()}).
		ToSql()
	if err != nil {
		return model.FoodEntry{}, fmt.Errorf("build update food: %w", err)
	}
	res, err := db.Exec(query, args...)
	if err != nil {
		return model.FoodEntry{}, fmt.Errorf("update food %s: %w", id, err)
	}
	if err := requireAffected(res, "food", id); err != nil {
		return model.FoodEntry{}, err
	}
	return entry, nil
}

func DeleteFood(db *sql.DB, id uuid.UUID) error {
	query, args, err := builder.Delete("foods").Where(sq.Eq{"id": id.String()}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete food: %w", err)
	}
	res, err := db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("delete food %s: %w", id, err)
	}
	return requireAffected(res, "food", id)
}

// validateFoodInput returns in with the meal in its stored form.
func validateFoodInput(in model.FoodInput) (model.FoodInput, error) {
	if strings.TrimSpace(in.Name) == "" {
		return in, fmt.Errorf("food name is required")
	}
	in.Meal = model.MealCategory(strings.TrimSpace(string(in.Meal)))
	if in.Meal != "" {
		meal, err := model.ParseMealCategory(string(in.Meal))
		if err != nil {
			return in, err
		}
		in.Meal = meal
	}
	return in, nil
}

func requireAffected(res sql.Result, kind string, id uuid.UUID) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("read rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%s %s: %w", kind, id, ErrNotFound)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanFood(row rowScanner) (model.FoodEntry, error) {
	var (
		idRaw, meal, consumedAt string
		in                      model.FoodInput
	)
	if err := row.Scan(&idRaw, &in.Name, &in.Calories, &in.Protein, &in.Carbs, &in.Fats, &in.ServingSize, &meal, &consumedAt); err != nil {
		return model.FoodEntry{}, err
	}
	id, err := uuid.Parse(idRaw)
	if err != nil {
		return model.FoodEntry{}, fmt.Errorf("parse food id %q: %w", idRaw, err)
	}
	ts, err := parseTimestamp(consumedAt)
	if err != nil {
		return model.FoodEntry{}, err
	}
	in.ID = id
	in.Timestamp = ts
	in.Meal = model.MealCategory(meal)
	return model.NewFoodEntry(in), nil
}

func queryFoods(db *sql.DB, q sq.SelectBuilder) ([]model.FoodEntry, error) {
	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build food query: %w", err)
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list foods: %w", err)
	}
	defer rows.Close()

	items := make([]model.FoodEntry, 0)
	for rows.Next() {
		entry, err := scanFood(rows)
		if err != nil {
			return nil, fmt.Errorf("scan food: %w", err)
		}
		items = append(items, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate foods: %w", err)
	}
	return items, nil
}
