package kalki

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/saadjs/kalki/internal/app"
	"github.com/saadjs/kalki/internal/db"
	"github.com/saadjs/kalki/internal/model"
	"github.com/saadjs/kalki/internal/progress"
)

const (
	dateTimeLayout = "2006-01-02 15:04"
	monthLayout    = "2006-01"
)

func withDB(run func(*sql.DB) error) error {
	path, err := resolveDBPath()
	if err != nil {
		return err
	}
	if err := app.EnsureDBDir(path); err != nil {
		return err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	if err := db.ApplyMigrations(sqldb); err != nil {
		return err
	}
	return run(sqldb)
}

func resolveDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if cfg != nil && cfg.Storage.DBPath != "" {
		return cfg.Storage.DBPath, nil
	}
	return app.DefaultDBPath()
}

func parseIDArg(name, value string) (uuid.UUID, error) {
	id, err := uuid.Parse(strings.TrimSpace(value))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid %s %q", name, value)
	}
	return id, nil
}

func parseDateTimeOrNow(date, timeStr string) (time.Time, error) {
	t, err := parseOptionalDateTime(date, timeStr)
	if err != nil {
		return time.Time{}, err
	}
	if t.IsZero() {
		return time.Now(), nil
	}
	return t, nil
}

// parseOptionalDateTime returns the zero time when neither flag is set.
// A date on its own means noon so the entry lands on that calendar day.
func parseOptionalDateTime(date, timeStr string) (time.Time, error) {
	date = strings.TrimSpace(date)
	timeStr = strings.TrimSpace(timeStr)
	if date == "" && timeStr == "" {
		return time.Time{}, nil
	}
	if date == "" {
		return time.Time{}, fmt.Errorf("--date is required when --time is set")
	}
	if timeStr == "" {
		t, err := progress.ParseDay(date)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --date %q (expected YYYY-MM-DD)", date)
		}
		return t.Add(12 * time.Hour), nil
	}
	t, err := time.ParseInLocation(dateTimeLayout, date+" "+timeStr, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date/--time (expected YYYY-MM-DD and HH:MM)")
	}
	return t, nil
}

func parseDateOrToday(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Now(), nil
	}
	t, err := progress.ParseDay(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected YYYY-MM-DD)", value)
	}
	return t, nil
}

func parseMonthOrCurrent(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		now := time.Now()
		return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.Local), nil
	}
	t, err := time.ParseInLocation(monthLayout, value, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q (expected YYYY-MM)", value)
	}
	return t, nil
}

func parseMealFlag(value string) (model.MealCategory, error) {
	if strings.TrimSpace(value) == "" {
		return "", nil
	}
	return model.ParseMealCategory(value)
}

func printJSON(w io.Writer, v any) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode json: %w", err)
	}
	fmt.Fprintln(w, string(b))
	return nil
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}

func normalizedKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}

func sortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}
