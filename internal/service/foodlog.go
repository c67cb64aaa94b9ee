package service

import (
	"database/sql"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/saadjs/kalki/internal/event"
	"github.com/saadjs/kalki/internal/model"
)

// FoodLog keeps the whole food log in memory on top of the foods table.
// Writes go to the database first; subscribers are signalled after the
// in-memory copy changed.
type FoodLog struct {
	db *sql.DB

	mu      sync.RWMutex
	entries []model.FoodEntry
	events  event.Broadcaster
}

func NewFoodLog(db *sql.DB) (*FoodLog, error) {
	l := &FoodLog{db: db}
	if _, err := l.Reload(); err != nil {
		return nil, err
	}
	return l, nil
}

// Foods returns a copy of the log in chronological order.
func (l *FoodLog) Foods() []model.FoodEntry {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return slices.Clone(l.entries)
}

func (l *FoodLog) Changes() (<-chan struct{}, func()) {
	return l.events.Subscribe()
}

// Reload re-reads the table, picking up writes made by other processes. It
// reports whether anything changed and only then notifies.
func (l *FoodLog) Reload() (bool, error) {
	entries, err := AllFoods(l.db)
	if err != nil {
		return false, fmt.Errorf("reload food log: %w", err)
	}
	l.mu.Lock()
	changed := !slices.EqualFunc(l.entries, entries, sameFood)
	l.entries = entries
	l.mu.Unlock()
	if changed {
		l.events.Publish()
	}
	return changed, nil
}

func (l *FoodLog) Add(in model.FoodInput) (model.FoodEntry, error) {
	return l.add(in, SourceManual)
}

func (l *FoodLog) add(in model.FoodInput, source string) (model.FoodEntry, error) {
	entry, err := createFood(l.db, in, source)
	if err != nil {
		return model.FoodEntry{}, err
	}
	l.mutate(func(entries []model.FoodEntry) []model.FoodEntry {
		return append(entries, entry)
	})
	return entry, nil
}

func (l *FoodLog) Update(id uuid.UUID, in model.FoodInput) (model.FoodEntry, error) {
	entry, err := UpdateFood(l.db, id, in)
	if err != nil {
		return model.FoodEntry{}, err
	}
	l.mutate(func(entries []model.FoodEntry) []model.FoodEntry {
		for i := range entries {
			if entries[i].ID == id {
				entries[i] = entry
				return entries
			}
		}
		return append(entries, entry)
	})
	return entry, nil
}

func (l *FoodLog) Delete(id uuid.UUID) error {
	if err := DeleteFood(l.db, id); err != nil {
		return err
	}
	l.mutate(func(entries []model.FoodEntry) []model.FoodEntry {
		return slices.DeleteFunc(entries, func(e model.FoodEntry) bool { return e.ID == id })
	})
	return nil
}

// mutate works on a private copy so slices handed out by Foods never change.
func (l *FoodLog) mutate(fn func([]model.FoodEntry) []model.FoodEntry) {
	l.mu.Lock()
	next := fn(slices.Clone(l.entries))
	slices.SortStableFunc(next, func(a, b model.FoodEntry) int {
		return a.Timestamp.Compare(b.Timestamp)
	})
	l.entries = next
	l.mu.Unlock()
	l.events.Publish()
}

func sameFood(a, b model.FoodEntry) bool {
	return a.ID == b.ID &&
		a.Name == b.Name &&
		a.Calories == b.Calories &&
		a.Protein == b.Protein &&
		a.Carbs == b.Carbs &&
		a.Fats == b.Fats &&
		a.ServingSize == b.ServingSize &&
		a.Meal == b.Meal &&
		a.Timestamp.Equal(b.Timestamp)
}
