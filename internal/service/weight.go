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

type WeightInput struct {
	Weight float64
	Unit   string
	Date   time.Time
	Note   string
}

type WeightFilter struct {
	FromDate string
	ToDate   string
	Limit    int
}

var weightColumns = []string{"id", "weight_kg", "recorded_at", "IFNULL(note, '')"}

func AddWeight(db *sql.DB, in WeightInput) (model.WeightEntry, error) {
	if in.Weight <= 0 {
		return model.WeightEntry{}, fmt.Errorf("weight must be > 0")
	}
	kg, err := ToKg(in.Weight, in.Unit)
	if err != nil {
		return model.WeightEntry{}, err
	}
	if in.Date.IsZero() {
		in.Date = time.Now()
	}
	entry := model.WeightEntry{
		ID:       uuid.New(),
		WeightKg: kg,
		Date:     in.Date.Truncate(time.Second),
		Note:     strings.TrimSpace(in.Note),
	}
	query, args, err := builder.Insert("weight_entries").
		Columns("id", "weight_kg", "recorded_at", "note").
		Values(entry.ID.String(), entry.WeightKg, formatTimestamp(entry.Date), entry.Note).
		ToSql()
	if err != nil {
		return model.WeightEntry{}, fmt.Errorf("build insert weight: %w", err)
	}
	if _, err := db.Exec(query, args...); err != nil {
		return model.WeightEntry{}, fmt.Errorf("add weight: %w", err)
	}
	return entry, nil
}

// ListWeights returns entries newest first.
func ListWeights(db *sql.DB, f WeightFilter) ([]model.WeightEntry, error) {
	start, end, err := dateRange("", f.FromDate, f.ToDate)
	if err != nil {
		return nil, err
	}
	q := builder.Select(weightColumns...).From("weight_entries")
	q = applyDateRange(q, "recorded_at", start, end)
	q = q.OrderBy("recorded_at DESC", "created_at DESC").Limit(resolveLimit(f.Limit))

	query, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build weight query: %w", err)
	}
	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("list weights: %w", err)
	}
	defer rows.Close()

	items := make([]model.WeightEntry, 0)
	for rows.Next() {
		w, err := scanWeight(rows)
		if err != nil {
			return nil, fmt.Errorf("scan weight: %w", err)
		}
		items = append(items, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate weights: %w", err)
	}
	return items, nil
}

// LatestWeight reports false when nothing has been recorded yet.
func LatestWeight(db *sql.DB) (model.WeightEntry, bool, error) {
	query, args, err := builder.Select(weightColumns...).From("weight_entries").
		OrderBy("recorded_at DESC", "created_at DESC").Limit(1).ToSql()
	if err != nil {
		return model.WeightEntry{}, false, fmt.Errorf("build latest weight: %w", err)
	}
	w, err := scanWeight(db.QueryRow(query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return model.WeightEntry{}, false, nil
	}
	if err != nil {
		return model.WeightEntry{}, false, fmt.Errorf("latest weight: %w", err)
	}
	return w, true, nil
}

func DeleteWeight(db *sql.DB, id uuid.UUID) error {
	query, args, err := builder.Delete("weight_entries").Where(sq.Eq{"id": id.String()}).ToSql()
	if err != nil {
		return fmt.Errorf("build delete weight: %w", err)
	}
	res, err := db.Exec(query, args...)
	if err != nil {
		return fmt.Errorf("delete weight %s: %w", id, err)
	}
	return requireAffected(res, "weight entry", id)
}

func scanWeight(row rowScanner) (model.WeightEntry, error) {
	var (
		w                  model.WeightEntry
		idRaw, recordedRaw string
	)
	if err := row.Scan(&idRaw, &w.WeightKg, &recordedRaw, &w.Note); err != nil {
		return model.WeightEntry{}, err
	}
	id, err := uuid.Parse(idRaw)
	if err != nil {
		return model.WeightEntry{}, fmt.Errorf("parse weight id %q: %w", idRaw, err)
	}
	date, err := parseTimestamp(recordedRaw)
	if err != nil {
		return model.WeightEntry{}, err
	}
	w.ID = id
	w.Date = date
	return w, nil
}
