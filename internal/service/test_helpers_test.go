package service_test

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/saadjs/kalki/internal/db"
	"github.com/saadjs/kalki/internal/model"
	"github.com/saadjs/kalki/internal/service"
)

func newTestDB(t *testing.T) *sql.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "kalki.db")
	sqldb, err := db.Open(path)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	t.Cleanup(func() { _ = sqldb.Close() })
	return sqldb
}

func addFood(t *testing.T, sqldb *sql.DB, name string, calories, protein float64, meal model.MealCategory, ts time.Time) model.FoodEntry {
	t.Helper()
	entry, err := service.CreateFood(sqldb, model.FoodInput{
		Name:      name,
		Calories:  calories,
		Protein:   protein,
		Meal:      meal,
		Timestamp: ts,
	})
	if err != nil {
		t.Fatalf("create food %s: %v", name, err)
	}
	return entry
}

func localTime(y int, m time.Month, d, hour, minute int) time.Time {
	return time.Date(y, m, d, hour, minute, 0, 0, time.Local)
}
