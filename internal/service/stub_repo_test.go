package service

import (
	"context"
	"sort"

	"gorm.io/gorm"

	"gexwatch/internal/models"
	"gexwatch/internal/repository"
)

// stubRepo is an in-memory Repository for service tests.
type stubRepo struct {
	entries   []models.WatchlistEntry
	summaries []models.GexSummary
	details   []models.StrikeDetail
	prices    []models.PricePoint
	fetchRuns []models.FetchRun

	nextID  uint
	listErr error
}

var _ repository.Repository = (*stubRepo)(nil)

func newStubRepo() *stubRepo {
	return &stubRepo{nextID: 1}
}

func (r *stubRepo) ListWatchlist(ctx context.Context) ([]models.WatchlistEntry, error) {
	if r.listErr != nil {
		return nil, r.listErr
	}
	out := make([]models.WatchlistEntry, len(r.entries))
	copy(out, r.entries)
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *stubRepo) GetWatchlistEntryByTicker(ctx context.Context, ticker string) (*models.WatchlistEntry, error) {
	for i := range r.entries {
		if r.entries[i].Ticker == ticker {
			e := r.entries[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) GetWatchlistEntryByID(ctx context.Context, id uint) (*models.WatchlistEntry, error) {
	for i := range r.entries {
		if r.entries[i].ID == id {
			e := r.entries[i]
			return &e, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) InsertWatchlistEntry(ctx context.Context, item *models.WatchlistEntry) error {
	for i := range r.entries {
		if r.entries[i].Ticker == item.Ticker {
			return gorm.ErrDuplicatedKey
		}
	}
	item.ID = r.nextID
	r.nextID++
	r.entries = append(r.entries, *item)
	return nil
}

func (r *stubRepo) DeleteWatchlistByTicker(ctx context.Context, ticker string) (int64, error) {
	var kept []models.WatchlistEntry
	var deleted int64
	for _, e := range r.entries {
		if e.Ticker == ticker {
			deleted++
			continue
		}
		kept = append(kept, e)
	}
	r.entries = kept
	return deleted, nil
}

func (r *stubRepo) GetSummary(ctx context.Context, tickerID uint, date string) (*models.GexSummary, error) {
	for i := range r.summaries {
		if r.summaries[i].TickerID == tickerID && r.summaries[i].Date == date {
			s := r.summaries[i]
			return &s, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) GetLatestSummary(ctx context.Context, tickerID uint) (*models.GexSummary, error) {
	var latest *models.GexSummary
	for i := range r.summaries {
		s := r.summaries[i]
		if s.TickerID != tickerID {
			continue
		}
		if latest == nil || s.Date > latest.Date {
			latest = &s
		}
	}
	return latest, nil
}

func (r *stubRepo) ListStrikeDetails(ctx context.Context, tickerID uint, date string) ([]models.StrikeDetail, error) {
	var out []models.StrikeDetail
	for _, d := range r.details {
		if d.TickerID == tickerID && d.Date == date {
			out = append(out, d)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Strike < out[j].Strike })
	return out, nil
}

func (r *stubRepo) GetPricePoint(ctx context.Context, tickerID uint, date string) (*models.PricePoint, error) {
	for i := range r.prices {
		if r.prices[i].TickerID == tickerID && r.prices[i].Date == date {
			p := r.prices[i]
			return &p, nil
		}
	}
	return nil, nil
}

func (r *stubRepo) ListSummaryTotals(ctx context.Context, tickerID uint) ([]float64, error) {
	var out []float64
	for _, s := range r.summaries {
		if s.TickerID == tickerID {
			out = append(out, s.TotalGex)
		}
	}
	return out, nil
}

func (r *stubRepo) ReplaceDailyData(ctx context.Context, tickerID uint, date string, summary *models.GexSummary, price *models.PricePoint, strikes []models.StrikeDetail) error {
	keepSummaries := r.summaries[:0]
	for _, s := range r.summaries {
		if !(s.TickerID == tickerID && s.Date == date) {
			keepSummaries = append(keepSummaries, s)
		}
	}
	r.summaries = keepSummaries
	keepPrices := r.prices[:0]
	for _, p := range r.prices {
		if !(p.TickerID == tickerID && p.Date == date) {
			keepPrices = append(keepPrices, p)
		}
	}
	r.prices = keepPrices
	keepDetails := r.details[:0]
	for _, d := range r.details {
		if !(d.TickerID == tickerID && d.Date == date) {
			keepDetails = append(keepDetails, d)
		}
	}
	r.details = keepDetails

	if summary != nil {
		r.summaries = append(r.summaries, *summary)
	}
	if price != nil {
		r.prices = append(r.prices, *price)
	}
	r.details = append(r.details, strikes...)
	return nil
}

func (r *stubRepo) InsertFetchRun(ctx context.Context, item *models.FetchRun) error {
	r.fetchRuns = append(r.fetchRuns, *item)
	return nil
}

func (r *stubRepo) ListFetchRuns(ctx context.Context, limit int) ([]models.FetchRun, error) {
	out := make([]models.FetchRun, len(r.fetchRuns))
	copy(out, r.fetchRuns)
	return out, nil
}
