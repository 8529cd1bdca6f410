package handlers

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"market-demand-api/analytics"
	"market-demand-api/metrics"
	"market-demand-api/models"
	"market-demand-api/predict"
	"market-demand-api/services"
	"market-demand-api/store"

	"github.com/gin-gonic/gin"
)

func newHistoryRouter(recs store.RecordStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	counter := metrics.NewCounter(nil)
	provider := predict.Stub{Demand: models.DemandHigh, Confidence: 0.9}
	sim := analytics.NewSimulator(recs, provider, counter, nil)
	agg := analytics.NewAggregator(recs, provider, counter, sim, nil, 0.95)
	h := NewHistoryHandler(agg, services.NewDisabledCache(), time.Second)

	router := gin.New()
	router.GET("/api/market/history", h.GetHistory)
	return router
}

func TestHistoryEndpointLimitAndCount(t *testing.T) {
	// Four High-demand 2025 weeks in the store; limit 2 pages the first two
	// ascending while count reports all four matches.
	recs := store.NewMemoryStore(
		testWeek(2025, 7, models.DemandHigh),
		testWeek(2025, 2, models.DemandHigh),
		testWeek(2025, 4, models.DemandHigh),
		testWeek(2025, 9, models.DemandHigh),
		testWeek(2025, 3, models.DemandLow),
		testWeek(2024, 8, models.DemandHigh),
	)
	router := newHistoryRouter(recs)

	w := doRequest(t, router, "/api/market/history?year=2025&demand=High&limit=2")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", w.Code, w.Body.String())
	}

	var hist analytics.History
	if err := json.Unmarshal(w.Body.Bytes(), &hist); err != nil {
		t.Fatalf("decoding response: %v", err)
	}

	if len(hist.Data) != 2 {
		t.Fatalf("len(data) = %d, want 2", len(hist.Data))
	}
	if hist.Data[0].Week != 2 || hist.Data[1].Week != 4 {
		t.Errorf("weeks = [%d %d], want [2 4]", hist.Data[0].Week, hist.Data[1].Week)
	}
	if hist.Count != 4 {
		t.Errorf("count = %d, want 4", hist.Count)
	}
}

func TestHistoryEndpointNoMatches(t *testing.T) {
	router := newHistoryRouter(store.NewMemoryStore(testWeek(2025, 1, models.DemandLow)))

	w := doRequest(t, router, "/api/market/history?year=1990")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var hist analytics.History
	if err := json.Unmarshal(w.Body.Bytes(), &hist); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if hist.Count != 0 {
		t.Errorf("count = %d, want 0", hist.Count)
	}
}

func TestHistoryEndpointIgnoresBogusDemandFilter(t *testing.T) {
	router := newHistoryRouter(store.NewMemoryStore(
		testWeek(2025, 1, models.DemandLow),
		testWeek(2025, 2, models.DemandHigh),
	))

	w := doRequest(t, router, "/api/market/history?demand=Enormous")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	var hist analytics.History
	if err := json.Unmarshal(w.Body.Bytes(), &hist); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	if hist.Count != 2 {
		t.Errorf("count = %d, want 2 (filter dropped)", hist.Count)
	}
}
