package store

import (
	"context"
	"errors"
	"fmt"

	"market-demand-api/models"

	"gorm.io/gorm"
)

// GormStore backs RecordStore with a postgres database via gorm.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) Get(ctx context.Context, year, week int) (models.MarketWeek, error) {
	var rec models.MarketWeek
	err := s.db.WithContext(ctx).
		Where("year = ? AND week = ?", year, week).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.MarketWeek{}, ErrNotFound
	}
	if err != nil {
		return models.MarketWeek{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return rec, nil
}

func (s *GormStore) Query(ctx context.Context, f Filters, limit int) ([]models.MarketWeek, error) {
	query := s.filtered(ctx, f).Order("year ASC, week ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	var rows []models.MarketWeek
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return rows, nil
}

func (s *GormStore) Count(ctx context.Context, f Filters) (int64, error) {
	var n int64
	if err := s.filtered(ctx, f).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return n, nil
}

func (s *GormStore) Latest(ctx context.Context) (models.MarketWeek, error) {
	var rec models.MarketWeek
	err := s.db.WithContext(ctx).
		Order("year DESC, week DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.MarketWeek{}, ErrNotFound
	}
	if err != nil {
		return models.MarketWeek{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return rec, nil
}

func (s *GormStore) LatestUnconfirmed(ctx context.Context) (models.MarketWeek, error) {
	var rec models.MarketWeek
	err := s.db.WithContext(ctx).
		Where("market_demand IS NULL OR market_demand = ''").
		Order("year DESC, week DESC").
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.MarketWeek{}, ErrNotFound
	}
	if err != nil {
		return models.MarketWeek{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return rec, nil
}

func (s *GormStore) Recent(ctx context.Context, n int) ([]models.MarketWeek, error) {
	var rows []models.MarketWeek
	err := s.db.WithContext(ctx).
		Where("market_demand IN ?", []string{models.DemandLow, models.DemandMedium, models.DemandHigh}).
		Order("year DESC, week DESC").
		Limit(n).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	// Query runs newest-first to apply the limit; callers want ascending.
	for i, j := 0, len(rows)-1; i < j; i, j = i+1, j-1 {
		rows[i], rows[j] = rows[j], rows[i]
	}
	return rows, nil
}

func (s *GormStore) LogPrediction(ctx context.Context, p *models.Prediction) error {
	if err := s.db.WithContext(ctx).Create(p).Error; err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

func (s *GormStore) filtered(ctx context.Context, f Filters) *gorm.DB {
	query := s.db.WithContext(ctx).Model(&models.MarketWeek{})
	if f.Year != 0 {
		query = query.Where("year = ?", f.Year)
	}
	if f.Month != "" {
		query = query.Where("month = ?", f.Month)
	}
	if f.Demand != "" {
		query = query.Where("market_demand = ?", f.Demand)
	}
	return query
}
