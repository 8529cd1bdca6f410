// Package metrics holds the process-wide prediction counters. Counters start
// at zero at process start, only ever go up, and are exact under concurrent
// writers.
package metrics

import (
	"fmt"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// AllTime is the period key for the lifetime total.
const AllTime = "all_time"

// WeekKey is the period bucket for t's ISO week, e.g. "2025-W31".
func WeekKey(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}

// PrevWeekKey is the bucket immediately preceding WeekKey(t).
func PrevWeekKey(t time.Time) string {
	return WeekKey(t.AddDate(0, 0, -7))
}

// MonthKey is the period bucket for t's calendar month, e.g. "2025-08".
func MonthKey(t time.Time) string {
	return t.Format("2006-01")
}

// PrevMonthKey is the bucket immediately preceding MonthKey(t).
func PrevMonthKey(t time.Time) string {
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return MonthKey(first.AddDate(0, -1, 0))
}

// Counter counts served predictions per period bucket. Increments are also
// mirrored into a prometheus counter for scraping; the map is what Read
// serves, since prometheus counters are write-only from here.
type Counter struct {
	mu     sync.Mutex
	counts map[string]int64

	served prometheus.Counter
}

// NewCounter creates a zeroed counter. reg may be nil to skip prometheus
// registration (tests).
func NewCounter(reg prometheus.Registerer) *Counter {
	c := &Counter{counts: make(map[string]int64)}
	if reg != nil {
		c.served = promauto.With(reg).NewCounter(prometheus.CounterOpts{
			Name: "market_predictions_served_total",
			Help: "Total number of demand predictions served.",
		})
	}
	return c
}

// Increment adds one to the given period bucket.
func (c *Counter) Increment(period string) {
	c.mu.Lock()
	c.counts[period]++
	c.mu.Unlock()
}

// Read returns the current value of a period bucket (0 if never written).
func (c *Counter) Read(period string) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.counts[period]
}

// RecordPrediction counts one served prediction at time t: the all-time
// total plus t's week and month buckets, and the prometheus mirror.
func (c *Counter) RecordPrediction(t time.Time) {
	c.mu.Lock()
	c.counts[AllTime]++
	c.counts[WeekKey(t)]++
	c.counts[MonthKey(t)]++
	c.mu.Unlock()

	if c.served != nil {
		c.served.Inc()
	}
}
