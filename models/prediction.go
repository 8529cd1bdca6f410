package models

import "time"

// Prediction is one served prediction, logged for audit and the dashboard.
type Prediction struct {
	ID              uint      `gorm:"column:id;primaryKey" json:"id"`
	Timestamp       time.Time `gorm:"column:timestamp" json:"timestamp"`
	Week            int       `gorm:"column:week" json:"week"`
	Year            int       `gorm:"column:year" json:"year"`
	PredictedDemand string    `gorm:"column:predicted_demand" json:"predicted_demand"`
	ConfidenceScore float64   `gorm:"column:confidence_score" json:"confidence_score"`
	RainfallMM      *float64  `gorm:"column:rainfall_mm" json:"rainfall_mm"`
	TemperatureC    *float64  `gorm:"column:temperature_c" json:"temperature_c"`
	ModelVersion    string    `gorm:"column:model_version" json:"model_version"`
}

func (Prediction) TableName() string { return "predictions" }
