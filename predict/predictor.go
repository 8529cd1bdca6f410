package predict

import (
	"context"
	"errors"

	"market-demand-api/models"
)

// ErrUnavailable means the backing model artifact is missing or incompatible.
// Callers surface it as a degraded response; it is never substituted with a
// guessed class.
var ErrUnavailable = errors.New("prediction provider unavailable")

// Features is the input vector for one week's demand prediction.
type Features struct {
	RainfallMM     float64
	TemperatureC   float64
	MarketDay      bool
	SchoolOpen     bool
	DiseaseAlert   string
	LastWeekDemand string
	Week           int
	Month          string
}

// FeaturesFromRecord builds the feature vector from a stored week.
func FeaturesFromRecord(rec models.MarketWeek) Features {
	return Features{
		RainfallMM:     rec.RainfallMM,
		TemperatureC:   rec.TemperatureC,
		MarketDay:      rec.MarketDay,
		SchoolOpen:     rec.SchoolOpen,
		DiseaseAlert:   rec.DiseaseAlert,
		LastWeekDemand: rec.LastWeekDemand,
		Week:           rec.Week,
		Month:          rec.Month,
	}
}

// Result is a predicted demand class with its confidence in [0, 1].
type Result struct {
	Demand     string
	Confidence float64
}

// Provider is the demand-classifier capability. Implementations include the
// artifact-backed model and the test stub; any remote classifier satisfying
// this contract would slot in the same way.
type Provider interface {
	Predict(ctx context.Context, f Features) (Result, error)
}

// Stub is a fixed-answer Provider for tests.
type Stub struct {
	Demand     string
	Confidence float64
	Err        error
}

func (s Stub) Predict(ctx context.Context, f Features) (Result, error) {
	if s.Err != nil {
		return Result{}, s.Err
	}
	return Result{Demand: s.Demand, Confidence: s.Confidence}, nil
}
