package store

import (
	"context"
	"sort"
	"sync"

	"market-demand-api/models"
)

// MemoryStore is an in-memory RecordStore. It backs tests and gives the
// external refresh swap-in semantics: Replace installs a whole new snapshot
// under the lock, so readers see either the old rows or the new, never a mix.
type MemoryStore struct {
	mu          sync.RWMutex
	rows        []models.MarketWeek
	predictions []models.Prediction
}

func NewMemoryStore(rows ...models.MarketWeek) *MemoryStore {
	s := &MemoryStore{}
	s.Replace(rows)
	return s
}

// Replace swaps the full record set atomically.
func (s *MemoryStore) Replace(rows []models.MarketWeek) {
	sorted := make([]models.MarketWeek, len(rows))
	copy(sorted, rows)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Year != sorted[j].Year {
			return sorted[i].Year < sorted[j].Year
		}
		return sorted[i].Week < sorted[j].Week
	})

	s.mu.Lock()
	s.rows = sorted
	s.mu.Unlock()
}

func (s *MemoryStore) Get(ctx context.Context, year, week int) (models.MarketWeek, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.rows {
		if r.Year == year && r.Week == week {
			return r, nil
		}
	}
	return models.MarketWeek{}, ErrNotFound
}

func (s *MemoryStore) Query(ctx context.Context, f Filters, limit int) ([]models.MarketWeek, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.MarketWeek
	for _, r := range s.rows {
		if !matches(r, f) {
			continue
		}
		out = append(out, r)
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}

func (s *MemoryStore) Count(ctx context.Context, f Filters) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var n int64
	for _, r := range s.rows {
		if matches(r, f) {
			n++
		}
	}
	return n, nil
}

func (s *MemoryStore) Latest(ctx context.Context) (models.MarketWeek, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.rows) == 0 {
		return models.MarketWeek{}, ErrNotFound
	}
	return s.rows[len(s.rows)-1], nil
}

func (s *MemoryStore) LatestUnconfirmed(ctx context.Context) (models.MarketWeek, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for i := len(s.rows) - 1; i >= 0; i-- {
		if !s.rows[i].Confirmed() {
			return s.rows[i], nil
		}
	}
	return models.MarketWeek{}, ErrNotFound
}

func (s *MemoryStore) Recent(ctx context.Context, n int) ([]models.MarketWeek, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var confirmed []models.MarketWeek
	for _, r := range s.rows {
		if r.Confirmed() {
			confirmed = append(confirmed, r)
		}
	}
	if len(confirmed) > n {
		confirmed = confirmed[len(confirmed)-n:]
	}
	out := make([]models.MarketWeek, len(confirmed))
	copy(out, confirmed)
	return out, nil
}

func (s *MemoryStore) LogPrediction(ctx context.Context, p *models.Prediction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uint(len(s.predictions) + 1)
	s.predictions = append(s.predictions, *p)
	return nil
}

// Predictions returns the logged predictions, oldest first.
func (s *MemoryStore) Predictions() []models.Prediction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Prediction, len(s.predictions))
	copy(out, s.predictions)
	return out
}

func matches(r models.MarketWeek, f Filters) bool {
	if f.Year != 0 && r.Year != f.Year {
		return false
	}
	if f.Month != "" && r.Month != f.Month {
		return false
	}
	if f.Demand != "" && r.MarketDemand != f.Demand {
		return false
	}
	return true
}
