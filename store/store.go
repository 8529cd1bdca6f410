package store

import (
	"context"
	"errors"

	"market-demand-api/models"
)

var (
	// ErrNotFound is returned by single-record lookups with no match.
	ErrNotFound = errors.New("record not found")
	// ErrUnavailable wraps backing-storage failures.
	ErrUnavailable = errors.New("record store unavailable")
)

// Filters narrows market-week queries. Zero values mean "any".
type Filters struct {
	Year   int
	Month  string
	Demand string
}

// RecordStore is the read contract over weekly market records. Rows are
// written only by the external refresh; everything here is a read.
type RecordStore interface {
	// Get returns the record for (year, week) or ErrNotFound.
	Get(ctx context.Context, year, week int) (models.MarketWeek, error)

	// Query returns matching records ascending by (year, week). limit <= 0
	// means no limit. No matches is an empty slice, not an error.
	Query(ctx context.Context, f Filters, limit int) ([]models.MarketWeek, error)

	// Count returns the number of matching records, ignoring any limit.
	Count(ctx context.Context, f Filters) (int64, error)

	// Latest returns the most recent record, or ErrNotFound on an empty store.
	Latest(ctx context.Context) (models.MarketWeek, error)

	// LatestUnconfirmed returns the most recent record whose actual demand
	// has not been recorded yet, or ErrNotFound.
	LatestUnconfirmed(ctx context.Context) (models.MarketWeek, error)

	// Recent returns the n most recent confirmed records in ascending
	// (year, week) order.
	Recent(ctx context.Context, n int) ([]models.MarketWeek, error)
}

// PredictionLog records served predictions.
type PredictionLog interface {
	LogPrediction(ctx context.Context, p *models.Prediction) error
}
