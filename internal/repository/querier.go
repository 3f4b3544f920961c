package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DBTX is the query surface shared by *sql.DB and *sql.Tx. Repositories
// are constructed over it, so the same code runs standalone or inside an
// explicit transaction scope.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// DatePeriod selects a created_at window for listing queries
type DatePeriod string

const (
	PeriodAll       DatePeriod = "All"
	PeriodToday     DatePeriod = "today"
	PeriodSevenDays DatePeriod = "sevenDays"
	PeriodThisMonth DatePeriod = "thisMonth"
	PeriodThisYear  DatePeriod = "thisYear"
)

// ListFilter carries pagination and date filtering for order listings
type ListFilter struct {
	Page     int
	PageSize int
	Period   DatePeriod
}

func (f ListFilter) normalize() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 10
	}
	if f.Period == "" {
		f.Period = PeriodAll
	}
	return f
}

// dateBounds translates a period into created_at bounds. A nil bound
// means unbounded on that side.
func dateBounds(period DatePeriod, now time.Time) (from, to *time.Time) {
	switch period {
	case PeriodToday:
		start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		end := start.Add(24*time.Hour - time.Nanosecond)
		return &start, &end
	case PeriodSevenDays:
		start := now.AddDate(0, 0, -7)
		return &start, nil
	case PeriodThisMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return &start, nil
	case PeriodThisYear:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return &start, nil
	default:
		return nil, nil
	}
}

// encodeStrings marshals a string list for a jsonb column
func encodeStrings(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	data, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("failed to encode string list: %w", err)
	}
	return data, nil
}

// uuidArray renders ids as a Postgres array literal for use with ANY($n)
func uuidArray(ids []uuid.UUID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = id.String()
	}
	return "{" + strings.Join(parts, ",") + "}"
}

// decodeStrings unmarshals a jsonb column into a string list
func decodeStrings(data []byte) ([]string, error) {
	if len(data) == 0 {
		return []string{}, nil
	}
	var values []string
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("failed to decode string list: %w", err)
	}
	return values, nil
}
