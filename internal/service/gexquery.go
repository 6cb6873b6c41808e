package service

import (
	"context"

	"gexwatch/internal/apperr"
	"gexwatch/internal/metrics"
	"gexwatch/internal/models"
	"gexwatch/internal/repository"
)

// GexSummaryView is the summary block of a GEX query response.
type GexSummaryView struct {
	TotalGex   float64 `json:"total_gex"`
	FlipPrice  float64 `json:"flip_price"`
	Percentile float64 `json:"percentile"`
	Date       string  `json:"date"`
}

// GexResult is the assembled aggregation for one (ticker, date).
// An empty Strikes slice is valid output; Price is nil when no price point
// exists for the day.
type GexResult struct {
	Summary GexSummaryView        `json:"summary"`
	Price   *float64              `json:"price"`
	Strikes []models.StrikeDetail `json:"strikes"`
}

// GexQueryService assembles summary, strikes and price for a ticker+date.
type GexQueryService struct {
	Repo repository.Repository
}

// GetGex resolves the summary for the exact date when given, or the most
// recent one otherwise, then fetches the contemporaneous strikes and price.
// The extra round trip keeps "latest" correct without the caller tracking
// dates.
func (s *GexQueryService) GetGex(ctx context.Context, tickerID uint, date *string) (*GexResult, error) {
	var (
		summary *models.GexSummary
		err     error
	)
	if date != nil && *date != "" {
		summary, err = s.Repo.GetSummary(ctx, tickerID, *date)
	} else {
		summary, err = s.Repo.GetLatestSummary(ctx, tickerID)
	}
	if err != nil {
		metrics.GexQueriesTotal.WithLabelValues("error").Inc()
		return nil, apperr.Storage("loading summary", err)
	}
	if summary == nil {
		metrics.GexQueriesTotal.WithLabelValues("not_found").Inc()
		return nil, apperr.NotFound("No summary data found")
	}

	effectiveDate := summary.Date
	if date != nil && *date != "" {
		effectiveDate = *date
	}

	strikes, err := s.Repo.ListStrikeDetails(ctx, tickerID, effectiveDate)
	if err != nil {
		metrics.GexQueriesTotal.WithLabelValues("error").Inc()
		return nil, apperr.Storage("loading strikes", err)
	}
	if strikes == nil {
		strikes = []models.StrikeDetail{}
	}

	point, err := s.Repo.GetPricePoint(ctx, tickerID, effectiveDate)
	if err != nil {
		metrics.GexQueriesTotal.WithLabelValues("error").Inc()
		return nil, apperr.Storage("loading price", err)
	}
	var price *float64
	if point != nil {
		price = &point.Price
	}

	metrics.GexQueriesTotal.WithLabelValues("ok").Inc()
	return &GexResult{
		Summary: GexSummaryView{
			TotalGex:   summary.TotalGex,
			FlipPrice:  summary.FlipPrice,
			Percentile: summary.Percentile,
			Date:       effectiveDate,
		},
		Price:   price,
		Strikes: strikes,
	}, nil
}
