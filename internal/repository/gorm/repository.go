package gormrepository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"gexwatch/internal/models"
)

type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// --- Watchlist --------------------------------------------------------------

func (s *Store) ListWatchlist(ctx context.Context) ([]models.WatchlistEntry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.WatchlistEntry
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetWatchlistEntryByTicker(ctx context.Context, ticker string) (*models.WatchlistEntry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.WatchlistEntry
	err := s.db.WithContext(ctx).Where("ticker = ?", ticker).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetWatchlistEntryByID(ctx context.Context, id uint) (*models.WatchlistEntry, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.WatchlistEntry
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) InsertWatchlistEntry(ctx context.Context, item *models.WatchlistEntry) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) DeleteWatchlistByTicker(ctx context.Context, ticker string) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	res := s.db.WithContext(ctx).Where("ticker = ?", ticker).Delete(&models.WatchlistEntry{})
	return res.RowsAffected, res.Error
}

// --- Exposure reads ---------------------------------------------------------

func (s *Store) GetSummary(ctx context.Context, tickerID uint, date string) (*models.GexSummary, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.GexSummary
	err := s.db.WithContext(ctx).
		Where("ticker_id = ? AND date = ?", tickerID, date).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) GetLatestSummary(ctx context.Context, tickerID uint) (*models.GexSummary, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.GexSummary
	err := s.db.WithContext(ctx).
		Where("ticker_id = ?", tickerID).
		Order("date DESC").
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListStrikeDetails(ctx context.Context, tickerID uint, date string) ([]models.StrikeDetail, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var items []models.StrikeDetail
	err := s.db.WithContext(ctx).
		Where("ticker_id = ? AND date = ?", tickerID, date).
		Order("strike ASC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) GetPricePoint(ctx context.Context, tickerID uint, date string) (*models.PricePoint, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.PricePoint
	err := s.db.WithContext(ctx).
		Where("ticker_id = ? AND date = ?", tickerID, date).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) ListSummaryTotals(ctx context.Context, tickerID uint) ([]float64, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var totals []float64
	err := s.db.WithContext(ctx).
		Model(&models.GexSummary{}).
		Where("ticker_id = ?", tickerID).
		Order("date ASC").
		Pluck("total_gex", &totals).Error
	if err != nil {
		return nil, err
	}
	return totals, nil
}

// --- Exposure writes --------------------------------------------------------

func (s *Store) ReplaceDailyData(ctx context.Context, tickerID uint, date string, summary *models.GexSummary, price *models.PricePoint, strikes []models.StrikeDetail) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ticker_id = ? AND date = ?", tickerID, date).
			Delete(&models.GexSummary{}).Error; err != nil {
			return err
		}
		if err := tx.Where("ticker_id = ? AND date = ?", tickerID, date).
			Delete(&models.PricePoint{}).Error; err != nil {
			return err
		}
		if err := tx.Where("ticker_id = ? AND date = ?", tickerID, date).
			Delete(&models.StrikeDetail{}).Error; err != nil {
			return err
		}
		if summary != nil {
			if err := tx.Create(summary).Error; err != nil {
				return err
			}
		}
		if price != nil {
			if err := tx.Create(price).Error; err != nil {
				return err
			}
		}
		if len(strikes) > 0 {
			if err := tx.Create(&strikes).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// --- Fetch audit ------------------------------------------------------------

func (s *Store) InsertFetchRun(ctx context.Context, item *models.FetchRun) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

func (s *Store) ListFetchRuns(ctx context.Context, limit int) ([]models.FetchRun, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	if limit <= 0 || limit > 500 {
		limit = 50
	}
	var items []models.FetchRun
	err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}
