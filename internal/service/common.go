package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
)

const (
	dateLayout   = "2006-01-02"
	defaultLimit = 50
)

var ErrNotFound = errors.New("not found")

// SQLite uses ? placeholders.
var builder = sq.StatementBuilder.PlaceholderFormat(sq.Question)

func normalizeName(name string) string {
	return strings.TrimSpace(strings.ToLower(name))
}

// Timestamps are stored as UTC RFC3339 so string comparison orders them.
func formatTimestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func parseTimestamp(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", raw, err)
	}
	return t.Local(), nil
}

func parseDateStart(value string) (time.Time, error) {
	t, err := time.ParseInLocation(dateLayout, strings.TrimSpace(value), time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", value)
	}
	return t, nil
}

// dateRange turns the date/from/to filter fields into a half-open
// [start, end) pair of stored timestamps. Empty bounds stay empty.
func dateRange(date, from, to string) (string, string, error) {
	date, from, to = strings.TrimSpace(date), strings.TrimSpace(from), strings.TrimSpace(to)
	if date != "" && (from != "" || to != "") {
		return "", "", fmt.Errorf("--date cannot be combined with --from or --to")
	}
	if date != "" {
		from, to = date, date
	}
	var start, end string
	if from != "" {
		t, err := parseDateStart(from)
		if err != nil {
			return "", "", err
		}
		start = formatTimestamp(t)
	}
	if to != "" {
		t, err := parseDateStart(to)
		if err != nil {
			return "", "", err
		}
		end = formatTimestamp(t.AddDate(0, 0, 1))
	}
	if start != "" && end != "" && start >= end {
		return "", "", fmt.Errorf("from date must be <= to date")
	}
	return start, end, nil
}

func applyDateRange(q sq.SelectBuilder, column, start, end string) sq.SelectBuilder {
	if start != "" {
		q = q.Where(sq.GtOrEq{column: start})
	}
	if end != "" {
		q = q.Where(sq.Lt{column: end})
	}
	return q
}

func resolveLimit(limit int) uint64 {
	if limit <= 0 {
		return defaultLimit
	}
	return uint64(limit)
}
