package analytics

import (
	"context"
	"errors"
	"testing"

	"market-demand-api/metrics"
	"market-demand-api/models"
	"market-demand-api/predict"
	"market-demand-api/store"
)

func confirmedWeek(year, wk int, demand string) models.MarketWeek {
	return models.MarketWeek{
		Year:           year,
		Week:           wk,
		Month:          "January",
		RainfallMM:     60,
		TemperatureC:   22,
		MarketDay:      true,
		SchoolOpen:     true,
		DiseaseAlert:   models.DiseaseAbsence,
		LastWeekDemand: models.DemandMedium,
		MarketDemand:   demand,
	}
}

func newTestSimulator(s store.RecordStore, p predict.Provider) (*Simulator, *metrics.Counter) {
	counter := metrics.NewCounter(nil)
	return NewSimulator(s, p, counter, nil), counter
}

func TestRunScoresAgainstActuals(t *testing.T) {
	// Weeks 1-3 of 2025 with actuals [Medium, High, High]; the stub always
	// answers High, so matches are [false, true, true] and accuracy 2/3.
	recs := store.NewMemoryStore(
		confirmedWeek(2025, 1, models.DemandMedium),
		confirmedWeek(2025, 2, models.DemandHigh),
		confirmedWeek(2025, 3, models.DemandHigh),
	)
	sim, counter := newTestSimulator(recs, predict.Stub{Demand: models.DemandHigh, Confidence: 0.9})

	result, err := sim.Run(context.Background(), 2025, 1, 3)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.TotalFrames != 3 {
		t.Errorf("TotalFrames = %d, want 3", result.TotalFrames)
	}
	wantMatches := []bool{false, true, true}
	for i, frame := range result.Frames {
		if frame.Match != wantMatches[i] {
			t.Errorf("frame %d Match = %v, want %v", i, frame.Match, wantMatches[i])
		}
		if frame.PredictedDemand == nil || *frame.PredictedDemand != models.DemandHigh {
			t.Errorf("frame %d PredictedDemand = %v, want High", i, frame.PredictedDemand)
		}
		if frame.Confidence == nil || *frame.Confidence != 0.9 {
			t.Errorf("frame %d Confidence = %v, want 0.9", i, frame.Confidence)
		}
	}

	if result.Accuracy == nil {
		t.Fatal("Accuracy = nil, want 2/3")
	}
	if want := 2.0 / 3.0; *result.Accuracy != want {
		t.Errorf("Accuracy = %f, want %f", *result.Accuracy, want)
	}

	// One counter increment per prediction actually issued.
	if got := counter.Read(metrics.AllTime); got != 3 {
		t.Errorf("counter = %d, want 3", got)
	}

	if acc, ok := sim.LastAccuracy(); !ok || acc != 2.0/3.0 {
		t.Errorf("LastAccuracy = (%f, %v), want (2/3, true)", acc, ok)
	}
}

func TestRunGapWeek(t *testing.T) {
	// No record exists for 2030-W5: one gap frame, accuracy undefined.
	recs := store.NewMemoryStore()
	sim, counter := newTestSimulator(recs, predict.Stub{Demand: models.DemandHigh, Confidence: 0.9})

	result, err := sim.Run(context.Background(), 2030, 5, 5)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.TotalFrames != 1 {
		t.Fatalf("TotalFrames = %d, want 1", result.TotalFrames)
	}
	frame := result.Frames[0]
	if frame.PredictedDemand != nil || frame.ActualDemand != nil || frame.Confidence != nil {
		t.Errorf("gap frame should have null prediction fields, got %+v", frame)
	}
	if frame.Match {
		t.Error("gap frame Match = true, want false")
	}
	if result.Accuracy != nil {
		t.Errorf("Accuracy = %v, want nil (no known actuals)", *result.Accuracy)
	}

	// No prediction was issued for the gap week.
	if got := counter.Read(metrics.AllTime); got != 0 {
		t.Errorf("counter = %d, want 0", got)
	}
}

func TestRunUnconfirmedWeekExcludedFromAccuracy(t *testing.T) {
	recs := store.NewMemoryStore(
		confirmedWeek(2025, 1, models.DemandHigh),
		confirmedWeek(2025, 2, ""), // outcome not yet recorded
	)
	sim, _ := newTestSimulator(recs, predict.Stub{Demand: models.DemandHigh, Confidence: 0.8})

	result, err := sim.Run(context.Background(), 2025, 1, 2)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	unconfirmed := result.Frames[1]
	if unconfirmed.ActualDemand != nil {
		t.Errorf("unconfirmed frame ActualDemand = %v, want nil", *unconfirmed.ActualDemand)
	}
	if unconfirmed.Match {
		t.Error("unconfirmed frame Match = true, want false")
	}
	if unconfirmed.PredictedDemand == nil {
		t.Error("unconfirmed frame should still carry a prediction")
	}

	// Only week 1 enters the denominator: 1/1.
	if result.Accuracy == nil || *result.Accuracy != 1.0 {
		t.Errorf("Accuracy = %v, want 1.0", result.Accuracy)
	}
}

func TestRunFrameCountEqualsRangeLength(t *testing.T) {
	recs := store.NewMemoryStore(
		confirmedWeek(2025, 2, models.DemandLow),
		confirmedWeek(2025, 4, models.DemandHigh),
	)
	sim, _ := newTestSimulator(recs, predict.Stub{Demand: models.DemandLow, Confidence: 0.7})

	ranges := [][2]int{{1, 1}, {1, 5}, {3, 10}, {1, 52}}
	for _, r := range ranges {
		result, err := sim.Run(context.Background(), 2025, r[0], r[1])
		if err != nil {
			t.Fatalf("Run(%d, %d) failed: %v", r[0], r[1], err)
		}
		want := r[1] - r[0] + 1
		if result.TotalFrames != want {
			t.Errorf("Run(%d, %d) TotalFrames = %d, want %d", r[0], r[1], result.TotalFrames, want)
		}
		if len(result.Frames) != want {
			t.Errorf("Run(%d, %d) len(Frames) = %d, want %d", r[0], r[1], len(result.Frames), want)
		}
		if result.Accuracy != nil && (*result.Accuracy < 0 || *result.Accuracy > 1) {
			t.Errorf("Accuracy = %f, want in [0, 1]", *result.Accuracy)
		}
	}
}

func TestRunInvalidRange(t *testing.T) {
	sim, _ := newTestSimulator(store.NewMemoryStore(), predict.Stub{Demand: models.DemandLow, Confidence: 0.5})

	tests := []struct {
		name             string
		year, start, end int
	}{
		{"start below 1", 2025, 0, 10},
		{"end above 52", 2025, 1, 53},
		{"start after end", 2025, 10, 5},
		{"year too early", 1999, 1, 10},
		{"year too late", 2101, 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sim.Run(context.Background(), tt.year, tt.start, tt.end)
			if !errors.Is(err, ErrInvalidRange) {
				t.Errorf("err = %v, want ErrInvalidRange", err)
			}
		})
	}
}

func TestRunProviderFailureSurfaces(t *testing.T) {
	recs := store.NewMemoryStore(confirmedWeek(2025, 1, models.DemandHigh))
	sim, _ := newTestSimulator(recs, predict.Stub{Err: predict.ErrUnavailable})

	_, err := sim.Run(context.Background(), 2025, 1, 1)
	if !errors.Is(err, predict.ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestRunLogsServedPredictions(t *testing.T) {
	recs := store.NewMemoryStore(
		confirmedWeek(2025, 1, models.DemandHigh),
		confirmedWeek(2025, 2, models.DemandLow),
	)
	counter := metrics.NewCounter(nil)
	sim := NewSimulator(recs, predict.Stub{Demand: models.DemandHigh, Confidence: 0.85}, counter, recs)

	// Week 3 has no record: two predictions issued, two log rows.
	if _, err := sim.Run(context.Background(), 2025, 1, 3); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	logged := recs.Predictions()
	if len(logged) != 2 {
		t.Fatalf("logged predictions = %d, want 2", len(logged))
	}
	if logged[0].Week != 1 || logged[1].Week != 2 {
		t.Errorf("logged weeks = [%d %d], want [1 2]", logged[0].Week, logged[1].Week)
	}
	if logged[0].PredictedDemand != models.DemandHigh {
		t.Errorf("logged demand = %q, want High", logged[0].PredictedDemand)
	}
}
