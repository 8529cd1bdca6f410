package predict

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync/atomic"

	"market-demand-api/models"
)

// artifact is the on-disk model file produced by the external training run:
// a weighted linear scorer with per-month offsets and class cutoffs, plus
// training metadata.
type artifact struct {
	ModelVersion string             `json:"model_version"`
	Accuracy     float64            `json:"accuracy"`
	TrainedAt    string             `json:"trained_at"`
	Weights      weights            `json:"weights"`
	MonthOffsets map[string]float64 `json:"month_offsets"`
	Cutoffs      cutoffs            `json:"cutoffs"`
}

type weights struct {
	RainfallMM     float64 `json:"rainfall_mm"`
	TemperatureC   float64 `json:"temperature_c"`
	MarketDay      float64 `json:"market_day"`
	SchoolOpen     float64 `json:"school_open"`
	DiseaseAlert   float64 `json:"disease_alert"`
	LastWeekDemand float64 `json:"last_week_demand"`
	Intercept      float64 `json:"intercept"`
}

type cutoffs struct {
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

// ModelInfo is served by the model-info endpoint.
type ModelInfo struct {
	ModelVersion string  `json:"model_version"`
	Accuracy     float64 `json:"accuracy"`
	TrainedAt    string  `json:"trained_at"`
	Loaded       bool    `json:"loaded"`
}

// Model is an immutable, loaded classifier artifact.
type Model struct {
	art artifact
}

// LoadModel reads and validates a model artifact. A missing or malformed
// file is reported as ErrUnavailable.
func LoadModel(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: reading artifact %s: %v", ErrUnavailable, path, err)
	}

	var art artifact
	if err := json.Unmarshal(data, &art); err != nil {
		return nil, fmt.Errorf("%w: parsing artifact %s: %v", ErrUnavailable, path, err)
	}
	if art.ModelVersion == "" {
		return nil, fmt.Errorf("%w: artifact %s has no model_version", ErrUnavailable, path)
	}
	if art.Cutoffs.Medium >= art.Cutoffs.High {
		return nil, fmt.Errorf("%w: artifact %s has inverted class cutoffs", ErrUnavailable, path)
	}

	return &Model{art: art}, nil
}

func (m *Model) Predict(ctx context.Context, f Features) (Result, error) {
	w := m.art.Weights

	score := w.Intercept +
		w.RainfallMM*f.RainfallMM +
		w.TemperatureC*f.TemperatureC +
		w.LastWeekDemand*float64(models.DemandValue(f.LastWeekDemand))
	if f.MarketDay {
		score += w.MarketDay
	}
	if f.SchoolOpen {
		score += w.SchoolOpen
	}
	if f.DiseaseAlert == models.DiseasePresence {
		score += w.DiseaseAlert
	}
	score += m.art.MonthOffsets[f.Month]

	demand := models.DemandLow
	switch {
	case score >= m.art.Cutoffs.High:
		demand = models.DemandHigh
	case score >= m.art.Cutoffs.Medium:
		demand = models.DemandMedium
	}

	return Result{Demand: demand, Confidence: m.confidence(score)}, nil
}

// confidence grows with the score's distance from the nearest class cutoff,
// clamped to [0.5, 0.99].
func (m *Model) confidence(score float64) float64 {
	nearest := m.art.Cutoffs.Medium
	if d := score - m.art.Cutoffs.High; abs(d) < abs(score-nearest) {
		nearest = m.art.Cutoffs.High
	}
	span := m.art.Cutoffs.High - m.art.Cutoffs.Medium

	conf := 0.5 + abs(score-nearest)/span
	if conf > 0.99 {
		conf = 0.99
	}
	return conf
}

func (m *Model) Info() ModelInfo {
	return ModelInfo{
		ModelVersion: m.art.ModelVersion,
		Accuracy:     m.art.Accuracy,
		TrainedAt:    m.art.TrainedAt,
		Loaded:       true,
	}
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}

// Holder serves predictions from the currently loaded model and lets the
// refresh procedure swap a new artifact in atomically. In-flight requests
// see the old model or the new one, never a partial state.
type Holder struct {
	path    string
	current atomic.Pointer[Model]
}

// NewHolder loads the artifact at path. A missing artifact is not fatal:
// the holder starts degraded and Reload can recover it.
func NewHolder(path string) *Holder {
	h := &Holder{path: path}
	if err := h.Reload(); err != nil {
		log.Printf("model artifact not loaded: %v", err)
	}
	return h
}

// Reload reads the artifact from disk and swaps it in. On failure the
// previously loaded model keeps serving.
func (h *Holder) Reload() error {
	m, err := LoadModel(h.path)
	if err != nil {
		return err
	}
	h.current.Store(m)
	log.Printf("model loaded: version=%s accuracy=%.3f", m.art.ModelVersion, m.art.Accuracy)
	return nil
}

func (h *Holder) Predict(ctx context.Context, f Features) (Result, error) {
	m := h.current.Load()
	if m == nil {
		return Result{}, fmt.Errorf("%w: no model artifact loaded", ErrUnavailable)
	}
	return m.Predict(ctx, f)
}

// Info returns metadata for the loaded model, or Loaded=false when the
// holder is degraded.
func (h *Holder) Info() ModelInfo {
	m := h.current.Load()
	if m == nil {
		return ModelInfo{Loaded: false}
	}
	return m.Info()
}
