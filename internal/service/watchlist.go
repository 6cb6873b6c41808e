package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"gexwatch/internal/apperr"
	"gexwatch/internal/models"
	"gexwatch/internal/repository"
)

// WatchlistService owns ticker normalization and the watchlist operations.
type WatchlistService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

// NormalizeTicker uppercases and strips all whitespace from a symbol.
func NormalizeTicker(raw string) string {
	fields := strings.Fields(strings.ToUpper(raw))
	return strings.Join(fields, "")
}

func (s *WatchlistService) List(ctx context.Context) ([]models.WatchlistEntry, error) {
	items, err := s.Repo.ListWatchlist(ctx)
	if err != nil {
		return nil, apperr.Storage("listing watchlist", err)
	}
	if items == nil {
		items = []models.WatchlistEntry{}
	}
	return items, nil
}

// Add inserts a normalized ticker. The existence lookup supplies the
// friendly conflict message; the unique index on ticker is the real guard,
// so a racing insert still surfaces as Conflict.
func (s *WatchlistService) Add(ctx context.Context, raw string) (*models.WatchlistEntry, error) {
	ticker := NormalizeTicker(raw)
	if ticker == "" {
		return nil, apperr.InvalidInput("ticker is required")
	}

	existing, err := s.Repo.GetWatchlistEntryByTicker(ctx, ticker)
	if err != nil {
		return nil, apperr.Storage("checking watchlist", err)
	}
	if existing != nil {
		return nil, apperr.Newf(apperr.KindConflict, "%s is already in the watchlist", ticker)
	}

	entry := &models.WatchlistEntry{Ticker: ticker}
	if err := s.Repo.InsertWatchlistEntry(ctx, entry); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperr.Newf(apperr.KindConflict, "%s is already in the watchlist", ticker)
		}
		return nil, apperr.Storage("inserting watchlist entry", err)
	}
	return entry, nil
}

// Remove deletes all rows matching the normalized ticker. Zero matches is
// still success: the operation is idempotent.
func (s *WatchlistService) Remove(ctx context.Context, raw string) error {
	ticker := NormalizeTicker(raw)
	if ticker == "" {
		return apperr.InvalidInput("ticker is required")
	}
	deleted, err := s.Repo.DeleteWatchlistByTicker(ctx, ticker)
	if err != nil {
		return apperr.Storage("deleting watchlist entry", err)
	}
	if deleted == 0 && s.Logger != nil {
		s.Logger.Debug("remove matched no rows", zap.String("ticker", ticker))
	}
	return nil
}

// Reorder returns the list with the entry moved to the clamped newIndex.
// The new order is a view for the caller to hold client-side; storage order
// is deliberately left untouched.
func (s *WatchlistService) Reorder(ctx context.Context, id uint, newIndex int) ([]models.WatchlistEntry, error) {
	existing, err := s.Repo.GetWatchlistEntryByID(ctx, id)
	if err != nil {
		return nil, apperr.Storage("loading watchlist entry", err)
	}
	if existing == nil {
		return nil, apperr.Newf(apperr.KindNotFound, "no watchlist entry with id %d", id)
	}

	items, err := s.Repo.ListWatchlist(ctx)
	if err != nil {
		return nil, apperr.Storage("listing watchlist", err)
	}

	from := -1
	for i, item := range items {
		if item.ID == id {
			from = i
			break
		}
	}
	if from == -1 {
		// Deleted between the lookup and the list.
		return nil, apperr.Newf(apperr.KindNotFound, "no watchlist entry with id %d", id)
	}

	entry := items[from]
	items = append(items[:from], items[from+1:]...)
	if newIndex < 0 {
		newIndex = 0
	}
	if newIndex > len(items) {
		newIndex = len(items)
	}
	items = append(items[:newIndex], append([]models.WatchlistEntry{entry}, items[newIndex:]...)...)
	return items, nil
}
