package models

// Demand classes as stored and served.
const (
	DemandLow    = "Low"
	DemandMedium = "Medium"
	DemandHigh   = "High"
)

const (
	DiseaseAbsence  = "Absence"
	DiseasePresence = "Presence"
)

const (
	TrendIncreasing = "Increasing"
	TrendDecreasing = "Decreasing"
	TrendStable     = "Stable"
)

// DemandValue maps a demand class to its chart ordinal. Unknown classes map
// to 0 so unconfirmed weeks never plot as real demand.
func DemandValue(class string) int {
	switch class {
	case DemandLow:
		return 1
	case DemandMedium:
		return 2
	case DemandHigh:
		return 3
	default:
		return 0
	}
}

// ValidDemand reports whether class is one of the three demand labels.
func ValidDemand(class string) bool {
	return DemandValue(class) != 0
}
