package analytics

import (
	"context"
	"errors"
	"fmt"

	"market-demand-api/models"
	"market-demand-api/store"
)

// Status card colors (hex, matched to the dashboard palette).
const (
	colorRed   = "#ef4444"
	colorBlue  = "#3b82f6"
	colorGreen = "#10b981"
	colorAmber = "#f59e0b"
)

type WeatherStatus struct {
	Status      string  `json:"status"`
	Details     string  `json:"details"`
	Color       string  `json:"color,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	Rainfall    float64 `json:"rainfall,omitempty"`
}

type HealthStatus struct {
	Status       string `json:"status"`
	Details      string `json:"details"`
	Color        string `json:"color,omitempty"`
	DiseaseAlert string `json:"disease_alert,omitempty"`
}

type StatusCards struct {
	Weather WeatherStatus `json:"weather"`
	Health  HealthStatus  `json:"health"`
}

// StatusCards derives weather and crop-health status from the latest
// recorded week.
func (a *Aggregator) StatusCards(ctx context.Context) (StatusCards, error) {
	latest, err := a.records.Latest(ctx)
	if errors.Is(err, store.ErrNotFound) {
		return StatusCards{
			Weather: WeatherStatus{Status: "No data", Details: "Weather data unavailable"},
			Health:  HealthStatus{Status: "No data", Details: "Health data unavailable"},
		}, nil
	}
	if err != nil {
		return StatusCards{}, err
	}

	weather := WeatherStatus{
		Temperature: latest.TemperatureC,
		Rainfall:    latest.RainfallMM,
		Details:     fmt.Sprintf("%.1f°C, %.1fmm rain", latest.TemperatureC, latest.RainfallMM),
	}
	switch {
	case latest.TemperatureC > 30:
		weather.Status, weather.Color = "Hot", colorRed
	case latest.TemperatureC < 15:
		weather.Status, weather.Color = "Cold", colorBlue
	default:
		weather.Status, weather.Color = "Moderate", colorGreen
	}

	health := HealthStatus{DiseaseAlert: latest.DiseaseAlert}
	if latest.DiseaseAlert == models.DiseasePresence {
		health.Status, health.Color = "Disease Alert", colorRed
		health.Details = "Disease detected in area"
	} else {
		health.Status, health.Color = "Healthy", colorGreen
		health.Details = "No disease reported"
	}

	return StatusCards{Weather: weather, Health: health}, nil
}

type DonutSlice struct {
	Label string `json:"label"`
	Value int    `json:"value"`
	Color string `json:"color"`
}

type MarketInsights struct {
	ChartType   string       `json:"chart_type"`
	Title       string       `json:"title"`
	Data        []DonutSlice `json:"data"`
	CenterText  string       `json:"center_text"`
	CenterLabel string       `json:"center_label"`
}

// MarketInsights summarizes the demand split over the most recent weeks as
// donut-chart percentages. An empty store falls back to a representative
// split so the card still renders.
func (a *Aggregator) MarketInsights(ctx context.Context) (MarketInsights, error) {
	rows, err := a.records.Recent(ctx, 20)
	if err != nil {
		return MarketInsights{}, err
	}

	counts := map[string]int{}
	for _, row := range rows {
		counts[row.MarketDemand]++
	}

	total := len(rows)
	var high, medium, low int
	if total == 0 {
		high, medium, low = 30, 50, 20
	} else {
		high = pct(counts[models.DemandHigh], total)
		medium = pct(counts[models.DemandMedium], total)
		low = pct(counts[models.DemandLow], total)
	}

	return MarketInsights{
		ChartType: "donut",
		Title:     "Demand Distribution",
		Data: []DonutSlice{
			{Label: "High Demand", Value: high, Color: colorRed},
			{Label: "Medium Demand", Value: medium, Color: colorAmber},
			{Label: "Low Demand", Value: low, Color: colorGreen},
		},
		CenterText:  fmt.Sprintf("%d%%", high),
		CenterLabel: "High Demand",
	}, nil
}

type BusinessInsights struct {
	CurrentProfitPotential string   `json:"current_profit_potential"`
	WeeklyRevenueEstimate  string   `json:"weekly_revenue_estimate"`
	BestSellingDays        string   `json:"best_selling_days"`
	MarketTrend            string   `json:"market_trend"`
	Insights               []string `json:"insights"`
}

// BusinessInsights rates profit potential and market trend from the recent
// mix of high-demand weeks and market-day activity.
func (a *Aggregator) BusinessInsights(ctx context.Context) (BusinessInsights, error) {
	rows, err := a.records.Recent(ctx, 12)
	if err != nil {
		return BusinessInsights{}, err
	}
	if len(rows) == 0 {
		return BusinessInsights{
			CurrentProfitPotential: "Medium",
			WeeklyRevenueEstimate:  "450,000",
			BestSellingDays:        "Tuesday, Friday",
			MarketTrend:            "Stable",
			Insights:               []string{"No recent market data recorded"},
		}, nil
	}

	highWeeks := 0
	marketDays := 0
	for _, row := range rows {
		if row.IsHighDemand() {
			highWeeks++
		}
		if row.MarketDay {
			marketDays++
		}
	}

	potential, revenue := "Low", "280,000"
	switch {
	case highWeeks >= 4:
		potential, revenue = "High", "650,000"
	case highWeeks >= 2:
		potential, revenue = "Medium", "450,000"
	}

	bestDays := "Friday, Saturday"
	if marketDays > 6 {
		bestDays = "Tuesday, Friday"
	}

	// Trend from the three most recent weeks (rows are ascending).
	recent := rows
	if len(recent) > 3 {
		recent = recent[len(recent)-3:]
	}
	highRecent := 0
	for _, row := range recent {
		if row.IsHighDemand() {
			highRecent++
		}
	}
	trend := "Declining"
	switch {
	case highRecent >= 2:
		trend = "Growing"
	case highRecent == 1:
		trend = "Stable"
	}

	return BusinessInsights{
		CurrentProfitPotential: potential,
		WeeklyRevenueEstimate:  revenue,
		BestSellingDays:        bestDays,
		MarketTrend:            trend,
		Insights: []string{
			fmt.Sprintf("%d high-demand weeks recorded", highWeeks),
			fmt.Sprintf("Market days show %d/%d activity", marketDays, len(rows)),
			fmt.Sprintf("Trend is %s over recent weeks", trend),
		},
	}, nil
}

func pct(n, total int) int {
	return int(float64(n)/float64(total)*100 + 0.5)
}
