package repository

import (
	"context"

	"gexwatch/internal/models"
)

// Repository is the storage surface for the watchlist and the daily
// exposure rows. Implementations return raw storage errors; services map
// them onto typed kinds.
type Repository interface {
	// Watchlist. ListWatchlist orders by id ascending (insertion order).
	ListWatchlist(ctx context.Context) ([]models.WatchlistEntry, error)
	GetWatchlistEntryByTicker(ctx context.Context, ticker string) (*models.WatchlistEntry, error)
	GetWatchlistEntryByID(ctx context.Context, id uint) (*models.WatchlistEntry, error)
	InsertWatchlistEntry(ctx context.Context, item *models.WatchlistEntry) error
	DeleteWatchlistByTicker(ctx context.Context, ticker string) (int64, error)

	// Exposure read path.
	GetSummary(ctx context.Context, tickerID uint, date string) (*models.GexSummary, error)
	GetLatestSummary(ctx context.Context, tickerID uint) (*models.GexSummary, error)
	ListStrikeDetails(ctx context.Context, tickerID uint, date string) ([]models.StrikeDetail, error)
	GetPricePoint(ctx context.Context, tickerID uint, date string) (*models.PricePoint, error)
	// ListSummaryTotals returns every historical total_gex for the ticker,
	// used for percentile ranking.
	ListSummaryTotals(ctx context.Context, tickerID uint) ([]float64, error)

	// Exposure write path. ReplaceDailyData swaps all rows for the
	// (ticker, date) pair in one transaction.
	ReplaceDailyData(ctx context.Context, tickerID uint, date string, summary *models.GexSummary, price *models.PricePoint, strikes []models.StrikeDetail) error

	// Fetch audit.
	InsertFetchRun(ctx context.Context, item *models.FetchRun) error
	ListFetchRuns(ctx context.Context, limit int) ([]models.FetchRun, error)
}
