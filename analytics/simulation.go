package analytics

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sync"
	"time"

	"market-demand-api/metrics"
	"market-demand-api/models"
	"market-demand-api/predict"
	"market-demand-api/store"
)

// ErrInvalidRange is returned for week/year bounds outside the simulatable
// range.
var ErrInvalidRange = errors.New("invalid simulation range")

const (
	minYear = 2000
	maxYear = 2100

	// Frame playback interval hint for the dashboard, in milliseconds.
	playSpeedMS = 500
)

// Frame is one simulated week's predicted-vs-actual comparison. A week with
// no backing record is a gap frame: both demands null, no confidence, no
// match.
type Frame struct {
	Week            int      `json:"week"`
	Month           string   `json:"month,omitempty"`
	PredictedDemand *string  `json:"predicted_demand"`
	ActualDemand    *string  `json:"actual_demand"`
	Confidence      *float64 `json:"confidence"`
	Match           bool     `json:"match"`
}

// RunResult is a full simulation run. Accuracy is null when no frame had a
// known actual outcome.
type RunResult struct {
	Frames      []Frame  `json:"frames"`
	TotalFrames int      `json:"total_frames"`
	Accuracy    *float64 `json:"accuracy"`
	PlaySpeed   int      `json:"play_speed"`
}

// Simulator replays recorded weeks through the demand classifier and scores
// the predictions against the recorded outcomes.
type Simulator struct {
	records  store.RecordStore
	provider predict.Provider
	counter  *metrics.Counter
	audit    store.PredictionLog
	now      func() time.Time

	mu           sync.RWMutex
	lastAccuracy float64
	hasAccuracy  bool
}

// NewSimulator wires a simulator. audit may be nil to skip prediction
// logging.
func NewSimulator(records store.RecordStore, provider predict.Provider, counter *metrics.Counter, audit store.PredictionLog) *Simulator {
	return &Simulator{
		records:  records,
		provider: provider,
		counter:  counter,
		audit:    audit,
		now:      time.Now,
	}
}

// Run simulates weeks [startWeek, endWeek] of year in ascending order.
//
// Missing weeks become gap frames rather than aborting the run, and weeks
// whose actual outcome is not yet recorded are flagged by a null
// actual_demand instead of counting as mismatches. Only weeks with a known
// actual enter the accuracy denominator.
func (s *Simulator) Run(ctx context.Context, year, startWeek, endWeek int) (RunResult, error) {
	if startWeek < 1 || endWeek > 52 || startWeek > endWeek {
		return RunResult{}, fmt.Errorf("%w: weeks must satisfy 1 <= start <= end <= 52, got start=%d end=%d", ErrInvalidRange, startWeek, endWeek)
	}
	if year < minYear || year > maxYear {
		return RunResult{}, fmt.Errorf("%w: year %d outside %d-%d", ErrInvalidRange, year, minYear, maxYear)
	}

	frames := make([]Frame, 0, endWeek-startWeek+1)
	matches := 0
	known := 0

	for wk := startWeek; wk <= endWeek; wk++ {
		rec, err := s.records.Get(ctx, year, wk)
		if errors.Is(err, store.ErrNotFound) {
			frames = append(frames, Frame{Week: wk})
			continue
		}
		if err != nil {
			return RunResult{}, err
		}

		res, err := s.provider.Predict(ctx, predict.FeaturesFromRecord(rec))
		if err != nil {
			return RunResult{}, err
		}
		s.counter.RecordPrediction(s.now())
		s.logPrediction(ctx, rec, res)

		conf := math.Round(res.Confidence*100) / 100
		frame := Frame{
			Week:            wk,
			Month:           rec.Month,
			PredictedDemand: &res.Demand,
			Confidence:      &conf,
		}
		if rec.Confirmed() {
			actual := rec.MarketDemand
			frame.ActualDemand = &actual
			frame.Match = res.Demand == actual
			known++
			if frame.Match {
				matches++
			}
		}
		frames = append(frames, frame)
	}

	result := RunResult{
		Frames:      frames,
		TotalFrames: len(frames),
		PlaySpeed:   playSpeedMS,
	}
	if known > 0 {
		acc := float64(matches) / float64(known)
		result.Accuracy = &acc

		s.mu.Lock()
		s.lastAccuracy = acc
		s.hasAccuracy = true
		s.mu.Unlock()
	}
	return result, nil
}

// LastAccuracy reports the accuracy of the most recent run that had at
// least one known actual.
func (s *Simulator) LastAccuracy() (float64, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastAccuracy, s.hasAccuracy
}

func (s *Simulator) logPrediction(ctx context.Context, rec models.MarketWeek, res predict.Result) {
	if s.audit == nil {
		return
	}
	rain, temp := rec.RainfallMM, rec.TemperatureC
	p := models.Prediction{
		Timestamp:       s.now(),
		Week:            rec.Week,
		Year:            rec.Year,
		PredictedDemand: res.Demand,
		ConfidenceScore: res.Confidence,
		RainfallMM:      &rain,
		TemperatureC:    &temp,
	}
	if err := s.audit.LogPrediction(ctx, &p); err != nil {
		log.Printf("prediction log write failed: %v", err)
	}
}
