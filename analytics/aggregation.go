package analytics

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"strconv"
	"time"

	"market-demand-api/metrics"
	"market-demand-api/models"
	"market-demand-api/predict"
	"market-demand-api/store"
)

// Card is one dashboard metric. Change is the signed percentage delta
// versus the immediately preceding equivalent period and is omitted when
// the previous period's value is zero (the delta is undefined, not 0).
type Card struct {
	Value  string  `json:"value"`
	Change *string `json:"change,omitempty"`
	Trend  string  `json:"trend"`
	Label  string  `json:"label"`
}

type DashboardCards struct {
	TotalPredictions  Card `json:"total_predictions"`
	WeeklyPredictions Card `json:"weekly_predictions"`
	ModelPerformance  Card `json:"model_performance"`
	HighDemandWeeks   Card `json:"high_demand_weeks"`
}

// CurrentWeekPrediction is the live headline prediction.
type CurrentWeekPrediction struct {
	Week                 int     `json:"week"`
	Year                 int     `json:"year"`
	PredictedDemand      string  `json:"predicted_demand"`
	Confidence           float64 `json:"confidence"`
	StatusColor          string  `json:"status_color"`
	ConfidencePercentage string  `json:"confidence_percentage"`
}

type ChartPoint struct {
	Week        string  `json:"week"`
	DemandLevel string  `json:"demand_level"`
	DemandValue int     `json:"demand_value"`
	Rainfall    float64 `json:"rainfall"`
	Temperature float64 `json:"temperature"`
}

type ChartData struct {
	TrendData          []ChartPoint   `json:"trend_data"`
	DemandDistribution map[string]int `json:"demand_distribution"`
	TotalWeeks         int            `json:"total_weeks"`
}

// HistoryEntry is a stored week plus its derived projections.
type HistoryEntry struct {
	models.MarketWeek
	DemandTrend  string `json:"demand_trend"`
	IsHighDemand bool   `json:"is_high_demand"`
}

// History is a filtered page of records. Count is the full match total,
// not capped by the page limit.
type History struct {
	Data  []HistoryEntry `json:"data"`
	Count int64          `json:"count"`
}

// Aggregator computes the read-only dashboard views. Every view is a pure
// function of the record store, the metrics counter and the classifier.
type Aggregator struct {
	records         store.RecordStore
	provider        predict.Provider
	counter         *metrics.Counter
	sim             *Simulator
	audit           store.PredictionLog
	defaultAccuracy float64
	now             func() time.Time
}

func NewAggregator(records store.RecordStore, provider predict.Provider, counter *metrics.Counter, sim *Simulator, audit store.PredictionLog, defaultAccuracy float64) *Aggregator {
	return &Aggregator{
		records:         records,
		provider:        provider,
		counter:         counter,
		sim:             sim,
		audit:           audit,
		defaultAccuracy: defaultAccuracy,
		now:             time.Now,
	}
}

// DashboardCards builds the four headline metric cards.
func (a *Aggregator) DashboardCards(ctx context.Context) (DashboardCards, error) {
	now := a.now()

	total := a.counter.Read(metrics.AllTime)
	totalChange, totalTrend := periodDelta(
		a.counter.Read(metrics.MonthKey(now)),
		a.counter.Read(metrics.PrevMonthKey(now)),
	)

	weekly := a.counter.Read(metrics.WeekKey(now))
	weeklyChange, weeklyTrend := periodDelta(weekly, a.counter.Read(metrics.PrevWeekKey(now)))

	accuracy := a.defaultAccuracy
	if acc, ok := a.sim.LastAccuracy(); ok {
		accuracy = acc
	}

	highTotal, err := a.records.Count(ctx, store.Filters{Demand: models.DemandHigh})
	if err != nil {
		return DashboardCards{}, err
	}
	highThisYear, err := a.records.Count(ctx, store.Filters{Year: now.Year(), Demand: models.DemandHigh})
	if err != nil {
		return DashboardCards{}, err
	}
	highLastYear, err := a.records.Count(ctx, store.Filters{Year: now.Year() - 1, Demand: models.DemandHigh})
	if err != nil {
		return DashboardCards{}, err
	}
	highChange, highTrend := periodDelta(highThisYear, highLastYear)

	return DashboardCards{
		TotalPredictions: Card{
			Value:  strconv.FormatInt(total, 10),
			Change: totalChange,
			Trend:  totalTrend,
			Label:  "TOTAL PREDICTIONS",
		},
		WeeklyPredictions: Card{
			Value:  strconv.FormatInt(weekly, 10),
			Change: weeklyChange,
			Trend:  weeklyTrend,
			Label:  "THIS WEEK",
		},
		ModelPerformance: Card{
			Value: fmt.Sprintf("%.0f%%", accuracy*100),
			// No historical accuracy series exists, so the delta is
			// undefined rather than invented.
			Trend: "up",
			Label: "ACCURACY",
		},
		HighDemandWeeks: Card{
			Value:  strconv.FormatInt(highTotal, 10),
			Change: highChange,
			Trend:  highTrend,
			Label:  "HIGH DEMAND",
		},
	}, nil
}

// CurrentWeek predicts demand for the week in progress: the most recent
// record without a confirmed outcome, falling back to the latest record,
// falling back to baseline conditions when the store is empty.
func (a *Aggregator) CurrentWeek(ctx context.Context) (CurrentWeekPrediction, error) {
	now := a.now()

	rec, err := a.records.LatestUnconfirmed(ctx)
	if errors.Is(err, store.ErrNotFound) {
		rec, err = a.records.Latest(ctx)
	}
	if errors.Is(err, store.ErrNotFound) {
		_, week := now.ISOWeek()
		rec = models.MarketWeek{
			Week:           week,
			Year:           now.Year(),
			Month:          now.Month().String(),
			RainfallMM:     75.0,
			TemperatureC:   23.0,
			MarketDay:      true,
			SchoolOpen:     true,
			DiseaseAlert:   models.DiseaseAbsence,
			LastWeekDemand: models.DemandMedium,
		}
	} else if err != nil {
		return CurrentWeekPrediction{}, err
	}

	res, err := a.provider.Predict(ctx, predict.FeaturesFromRecord(rec))
	if err != nil {
		return CurrentWeekPrediction{}, err
	}
	a.counter.RecordPrediction(now)
	a.logPrediction(ctx, rec, res)

	return CurrentWeekPrediction{
		Week:                 rec.Week,
		Year:                 rec.Year,
		PredictedDemand:      res.Demand,
		Confidence:           math.Round(res.Confidence*100) / 100,
		StatusColor:          statusColor(res.Demand),
		ConfidencePercentage: fmt.Sprintf("%d%%", int(res.Confidence*100)),
	}, nil
}

// ChartData projects the most recent confirmed weeks into trend points and
// a demand-class distribution. The distribution always sums to the number
// of points returned.
func (a *Aggregator) ChartData(ctx context.Context, weeks int) (ChartData, error) {
	if weeks <= 0 {
		weeks = 12
	}
	rows, err := a.records.Recent(ctx, weeks)
	if err != nil {
		return ChartData{}, err
	}

	points := make([]ChartPoint, 0, len(rows))
	distribution := map[string]int{
		models.DemandHigh:   0,
		models.DemandMedium: 0,
		models.DemandLow:    0,
	}
	for _, row := range rows {
		points = append(points, ChartPoint{
			Week:        fmt.Sprintf("W%d", row.Week),
			DemandLevel: row.MarketDemand,
			DemandValue: models.DemandValue(row.MarketDemand),
			Rainfall:    row.RainfallMM,
			Temperature: row.TemperatureC,
		})
		distribution[row.MarketDemand]++
	}

	return ChartData{
		TrendData:          points,
		DemandDistribution: distribution,
		TotalWeeks:         len(points),
	}, nil
}

// History returns a filtered, limited page of raw records with the
// unfiltered-by-limit match count.
func (a *Aggregator) History(ctx context.Context, f store.Filters, limit int) (History, error) {
	rows, err := a.records.Query(ctx, f, limit)
	if err != nil {
		return History{}, err
	}
	count, err := a.records.Count(ctx, f)
	if err != nil {
		return History{}, err
	}

	entries := make([]HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, HistoryEntry{
			MarketWeek:   row,
			DemandTrend:  row.DemandTrend(),
			IsHighDemand: row.IsHighDemand(),
		})
	}
	return History{Data: entries, Count: count}, nil
}

func (a *Aggregator) logPrediction(ctx context.Context, rec models.MarketWeek, res predict.Result) {
	if a.audit == nil {
		return
	}
	rain, temp := rec.RainfallMM, rec.TemperatureC
	p := models.Prediction{
		Timestamp:       a.now(),
		Week:            rec.Week,
		Year:            rec.Year,
		PredictedDemand: res.Demand,
		ConfidenceScore: res.Confidence,
		RainfallMM:      &rain,
		TemperatureC:    &temp,
	}
	if err := a.audit.LogPrediction(ctx, &p); err != nil {
		// Audit trail only; the prediction itself already succeeded.
		log.Printf("prediction log write failed: %v", err)
	}
}

// periodDelta renders the percentage change between two period values.
// A zero previous period makes the delta undefined: nil change, default
// "up" trend.
func periodDelta(current, previous int64) (*string, string) {
	if previous == 0 {
		return nil, "up"
	}
	pct := float64(current-previous) / float64(previous) * 100
	change := fmt.Sprintf("%+.1f%%", pct)
	trend := "up"
	if pct < 0 {
		trend = "down"
	}
	return &change, trend
}

func statusColor(demand string) string {
	switch demand {
	case models.DemandHigh:
		return "red"
	case models.DemandMedium:
		return "orange"
	default:
		return "green"
	}
}
