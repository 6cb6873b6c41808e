package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"gexwatch/internal/apperr"
	"gexwatch/internal/fetch"
	"gexwatch/internal/metrics"
	"gexwatch/internal/models"
	"gexwatch/internal/repository"
)

// FetchTriggerService runs the external per-ticker fetch process and audits
// every invocation.
type FetchTriggerService struct {
	Fetcher fetch.Fetcher
	Repo    repository.Repository
	Logger  *zap.Logger
}

// Trigger blocks until the fetch process for the ticker completes. Success
// returns the captured stdout; a non-zero exit or timeout surfaces as
// FetchFailed carrying the captured stderr.
func (s *FetchTriggerService) Trigger(ctx context.Context, raw string) (fetch.Result, error) {
	ticker := NormalizeTicker(raw)
	if ticker == "" {
		return fetch.Result{}, apperr.InvalidInput("ticker is required")
	}
	if s.Fetcher == nil {
		return fetch.Result{}, apperr.New(apperr.KindFetchFailed, "fetcher unavailable")
	}

	res, err := s.Fetcher.Run(ctx, ticker)

	status := "ok"
	if err != nil {
		status = "failed"
	}
	metrics.FetchRunsTotal.WithLabelValues(status).Inc()
	s.recordRun(ticker, status, res)

	if err != nil {
		if s.Logger != nil {
			s.Logger.Warn("fetch process failed",
				zap.String("ticker", ticker),
				zap.Int("exit_code", res.ExitCode),
				zap.String("stderr", res.Stderr),
			)
		}
		return res, err
	}
	return res, nil
}

// recordRun writes the audit row best-effort; a storage hiccup must not
// turn a completed fetch into an error.
func (s *FetchTriggerService) recordRun(ticker, status string, res fetch.Result) {
	if s.Repo == nil {
		return
	}
	output, err := json.Marshal(map[string]any{
		"stdout":    res.Stdout,
		"stderr":    res.Stderr,
		"exit_code": res.ExitCode,
	})
	if err != nil {
		output = []byte(`{}`)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	run := &models.FetchRun{
		Ticker:     ticker,
		Status:     status,
		Output:     output,
		DurationMs: res.Duration.Milliseconds(),
	}
	if err := s.Repo.InsertFetchRun(ctx, run); err != nil && s.Logger != nil {
		s.Logger.Warn("fetch run audit insert failed", zap.Error(err))
	}
}
