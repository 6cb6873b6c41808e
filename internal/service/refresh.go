package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"gexwatch/internal/gex"
	"gexwatch/internal/marketdata"
	"gexwatch/internal/metrics"
	"gexwatch/internal/models"
	"gexwatch/internal/repository"
)

// RefreshService recomputes exposure for watchlist tickers from a live
// chain and spot feed and replaces the day's stored rows.
type RefreshService struct {
	Repo   repository.Repository
	Chain  marketdata.ChainProvider
	Spot   marketdata.SpotProvider
	Logger *zap.Logger
	Opts   gex.Options

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

func (s *RefreshService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// RefreshAll sweeps the entire watchlist. Per-ticker failures are logged
// and skipped; the sweep itself only fails when the watchlist cannot be
// read.
func (s *RefreshService) RefreshAll(ctx context.Context) error {
	entries, err := s.Repo.ListWatchlist(ctx)
	if err != nil {
		return fmt.Errorf("listing watchlist: %w", err)
	}
	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.RefreshTicker(ctx, entry); err != nil {
			metrics.RefreshTickersTotal.WithLabelValues("failed").Inc()
			if s.Logger != nil {
				s.Logger.Warn("ticker refresh failed",
					zap.String("ticker", entry.Ticker),
					zap.Error(err),
				)
			}
			continue
		}
		metrics.RefreshTickersTotal.WithLabelValues("ok").Inc()
	}
	return nil
}

// RefreshTicker computes today's exposure profile for one entry and swaps
// the stored rows for (ticker, today).
func (s *RefreshService) RefreshTicker(ctx context.Context, entry models.WatchlistEntry) error {
	now := s.now()

	spot, err := s.Spot.LatestClose(ctx, entry.Ticker)
	if err != nil {
		return fmt.Errorf("resolving spot for %s: %w", entry.Ticker, err)
	}
	if spot <= 0 {
		return fmt.Errorf("no price data for %s", entry.Ticker)
	}

	chain, err := s.Chain.OptionChain(ctx, entry.Ticker, s.Opts.MaxExpiries)
	if err != nil {
		return fmt.Errorf("loading chain for %s: %w", entry.Ticker, err)
	}

	profile := gex.Aggregate(spot, chain, now, s.Opts)

	history, err := s.Repo.ListSummaryTotals(ctx, entry.ID)
	if err != nil {
		return fmt.Errorf("loading exposure history: %w", err)
	}

	date := now.Format("2006-01-02")
	summary := &models.GexSummary{
		TickerID:   entry.ID,
		Date:       date,
		TotalGex:   profile.TotalGex,
		FlipPrice:  profile.FlipPrice,
		Percentile: gex.PercentileOfScore(history, profile.TotalGex),
	}
	price := &models.PricePoint{TickerID: entry.ID, Date: date, Price: spot}
	strikes := make([]models.StrikeDetail, 0, len(profile.Strikes))
	for _, sg := range profile.Strikes {
		strikes = append(strikes, models.StrikeDetail{
			TickerID: entry.ID,
			Date:     date,
			Strike:   sg.Strike,
			NetGex:   sg.NetGex,
		})
	}

	if err := s.Repo.ReplaceDailyData(ctx, entry.ID, date, summary, price, strikes); err != nil {
		return fmt.Errorf("storing exposure for %s: %w", entry.Ticker, err)
	}

	if s.Logger != nil {
		s.Logger.Info("ticker refreshed",
			zap.String("ticker", entry.Ticker),
			zap.String("date", date),
			zap.Float64("total_gex", profile.TotalGex),
			zap.Float64("flip_price", profile.FlipPrice),
			zap.Int("strikes", len(strikes)),
		)
	}
	return nil
}
