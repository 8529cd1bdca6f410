package models

import "testing"

func TestDemandValue(t *testing.T) {
	tests := []struct {
		class string
		want  int
	}{
		{DemandLow, 1},
		{DemandMedium, 2},
		{DemandHigh, 3},
		{"", 0},
		{"Enormous", 0},
	}
	for _, tt := range tests {
		if got := DemandValue(tt.class); got != tt.want {
			t.Errorf("DemandValue(%q) = %d, want %d", tt.class, got, tt.want)
		}
	}
}

func TestDemandTrend(t *testing.T) {
	tests := []struct {
		name    string
		last    string
		current string
		want    string
	}{
		{"rising", DemandLow, DemandHigh, TrendIncreasing},
		{"falling", DemandHigh, DemandMedium, TrendDecreasing},
		{"flat", DemandMedium, DemandMedium, TrendStable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := MarketWeek{LastWeekDemand: tt.last, MarketDemand: tt.current}
			if got := m.DemandTrend(); got != tt.want {
				t.Errorf("DemandTrend() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConfirmed(t *testing.T) {
	if (MarketWeek{MarketDemand: ""}).Confirmed() {
		t.Error("week without outcome should not be confirmed")
	}
	if !(MarketWeek{MarketDemand: DemandHigh}).Confirmed() {
		t.Error("week with outcome should be confirmed")
	}
}
