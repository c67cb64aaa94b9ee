package service_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/saadjs/kalki/internal/model"
	"github.com/saadjs/kalki/internal/service"
)

func TestFoodCRUD(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	created, err := service.CreateFood(db, model.FoodInput{
		Name:      "  Oatmeal ",
		Calories:  320,
		Protein:   12,
		Carbs:     54,
		Fats:      -3,
		Meal:      model.MealBreakfast,
		Timestamp: localTime(2026, 2, 10, 8, 15),
	})
	if err != nil {
		t.Fatalf("create food: %v", err)
	}
	if created.Name != "Oatmeal" || created.Fats != 0 || created.ServingSize != model.DefaultServingSize {
		t.Fatalf("expected normalized entry, got %+v", created)
	}

	got, err := service.FoodByID(db, created.ID)
	if err != nil {
		t.Fatalf("food by id: %v", err)
	}
	if got.Name != "Oatmeal" || got.Calories != 320 || got.Meal != model.MealBreakfast {
		t.Fatalf("unexpected stored food: %+v", got)
	}
	if !got.Timestamp.Equal(created.Timestamp) {
		t.Fatalf("expected timestamp %v, got %v", created.Timestamp, got.Timestamp)
	}

	updated, err := service.UpdateFood(db, created.ID, model.FoodInput{Name: "Oatmeal with berries", Calories: 380, Protein: 13})
	if err != nil {
		t.Fatalf("update food: %v", err)
	}
	if updated.ID != created.ID {
		t.Fatalf("update must keep the id")
	}
	if !updated.Timestamp.Equal(created.Timestamp) || updated.Meal != model.MealBreakfast {
		t.Fatalf("update without timestamp/meal must keep stored values, got %+v", updated)
	}
	if updated.Carbs != 0 {
		t.Fatalf("update is a full replacement, expected carbs 0, got %.1f", updated.Carbs)
	}

	if err := service.DeleteFood(db, created.ID); err != nil {
		t.Fatalf("delete food: %v", err)
	}
	if _, err := service.FoodByID(db, created.ID); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := service.DeleteFood(db, created.ID); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound deleting twice, got %v", err)
	}
}

func TestFoodMealStoredCanonical(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	created, err := service.CreateFood(db, model.FoodInput{Name: "Soup", Calories: 200, Meal: "Lunch"})
	if err != nil {
		t.Fatalf("create food with mixed-case meal: %v", err)
	}
	if created.Meal != model.MealLunch {
		t.Fatalf("expected meal lunch, got %q", created.Meal)
	}

	updated, err := service.UpdateFood(db, created.ID, model.FoodInput{Name: "Soup", Calories: 200, Meal: " SNACK "})
	if err != nil {
		t.Fatalf("update food with upper-case meal: %v", err)
	}
	got, err := service.FoodByID(db, updated.ID)
	if err != nil {
		t.Fatalf("food by id: %v", err)
	}
	if got.Meal != model.MealSnacks {
		t.Fatalf("expected stored meal snacks, got %q", got.Meal)
	}
}

func TestCreateFoodValidation(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	if _, err := service.CreateFood(db, model.FoodInput{Name: "   ", Calories: 100}); err == nil {
		t.Fatalf("expected empty name to fail")
	}
	if _, err := service.CreateFood(db, model.FoodInput{Name: "Toast", Meal: "brunch"}); err == nil {
		t.Fatalf("expected invalid meal to fail")
	}
	if _, err := service.UpdateFood(db, uuid.New(), model.FoodInput{Name: "Toast"}); !errors.Is(err, service.ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating a missing food, got %v", err)
	}
}

func TestListFoodsFilters(t *testing.T) {
	t.Parallel()
	db := newTestDB(t)

	addFood(t, db, "Eggs", 200, 18, model.MealBreakfast, localTime(2026, 2, 10, 7, 30))
	addFood(t, db, "Salad", 350, 10, model.MealLunch, localTime(2026, 2, 10, 12, 30))
	addFood(t, db, "Late snack", 150, 2, model.MealSnacks, localTime(2026, 2, 10, 23, 59))
	addFood(t, db, "Pasta", 800, 25, model.MealDinner, localTime(2026, 2, 11, 19, 0))

	day, err := service.ListFoods(db, service.FoodFilter{Date: "2026-02-10"})
	if err != nil {
		t.Fatalf("list by date: %v", err)
	}
	if len(day) != 3 {
		t.Fatalf("expected 3 foods on 2026-02-10, got %d", len(day))
	}
	if day[0].Name != "Late snack" {
		t.Fatalf("expected newest first, got %s", day[0].Name)
	}

	lunch, err := service.ListFoods(db, service.FoodFilter{Meal: "Lunch"})
	if err != nil {
		t.Fatalf("list by meal: %v", err)
	}
	if len(lunch) != 1 || lunch[0].Name != "Salad" {
		t.Fatalf("expected only the salad, got %+v", lunch)
	}

	limited, err := service.ListFoods(db, service.FoodFilter{FromDate: "2026-02-10", ToDate: "2026-02-11", Limit: 2})
	if err != nil {
		t.Fatalf("list range: %v", err)
	}
	if len(limited) != 2 || limited[0].Name != "Pasta" {
		t.Fatalf("expected 2 newest foods, got %+v", limited)
	}

	if _, err := service.ListFoods(db, service.FoodFilter{Date: "2026-02-10", FromDate: "2026-02-01"}); err == nil {
		t.Fatalf("expected --date with --from to fail")
	}
	if _, err := service.ListFoods(db, service.FoodFilter{FromDate: "2026-02-12", ToDate: "2026-02-10"}); err == nil {
		t.Fatalf("expected inverted range to fail")
	}
	if _, err := service.ListFoods(db, service.FoodFilter{Date: "10/02/2026"}); err == nil {
		t.Fatalf("expected malformed date to fail")
	}

	all, err := service.AllFoods(db)
	if err != nil {
		t.Fatalf("all foods: %v", err)
	}
	if len(all) != 4 || all[0].Name != "Eggs" {
		t.Fatalf("expected chronological full log, got %+v", all)
	}
}
