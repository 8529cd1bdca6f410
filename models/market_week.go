package models

import "time"

// MarketWeek is one observed week of market conditions. MarketDemand is the
// ground-truth outcome and stays empty until the week has been confirmed by
// the external refresh.
type MarketWeek struct {
	ID             uint      `gorm:"column:id;primaryKey" json:"id"`
	Week           int       `gorm:"column:week;uniqueIndex:idx_year_week" json:"week"`
	Year           int       `gorm:"column:year;uniqueIndex:idx_year_week" json:"year"`
	Month          string    `gorm:"column:month" json:"month"`
	RainfallMM     float64   `gorm:"column:rainfall_mm" json:"rainfall_mm"`
	TemperatureC   float64   `gorm:"column:temperature_c" json:"temperature_c"`
	MarketDay      bool      `gorm:"column:market_day" json:"market_day"`
	SchoolOpen     bool      `gorm:"column:school_open" json:"school_open"`
	DiseaseAlert   string    `gorm:"column:disease_alert" json:"disease_alert"`
	LastWeekDemand string    `gorm:"column:last_week_demand" json:"last_week_demand"`
	MarketDemand   string    `gorm:"column:market_demand" json:"market_demand,omitempty"`
	Source         string    `gorm:"column:source" json:"source"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
	UpdatedAt      time.Time `gorm:"column:updated_at" json:"updated_at"`
}

func (MarketWeek) TableName() string { return "market_weeks" }

// Confirmed reports whether the week's actual outcome has been recorded.
func (m MarketWeek) Confirmed() bool {
	return ValidDemand(m.MarketDemand)
}

func (m MarketWeek) IsHighDemand() bool {
	return m.MarketDemand == DemandHigh
}

// DemandTrend compares this week's actual against the prior week's.
func (m MarketWeek) DemandTrend() string {
	current := DemandValue(m.MarketDemand)
	previous := DemandValue(m.LastWeekDemand)
	switch {
	case current > previous:
		return TrendIncreasing
	case current < previous:
		return TrendDecreasing
	default:
		return TrendStable
	}
}
