package chart

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"gexwatch/internal/apperr"
	"gexwatch/internal/models"
	"gexwatch/internal/service"
)

type stubQuerier struct {
	results map[string]*service.GexResult
	err     error
	calls   int
}

func key(tickerID uint, date *string) string {
	if date == nil || *date == "" {
		return fmt.Sprintf("%d:latest", tickerID)
	}
	return fmt.Sprintf("%d:%s", tickerID, *date)
}

func (q *stubQuerier) GetGex(ctx context.Context, tickerID uint, date *string) (*service.GexResult, error) {
	q.calls++
	if q.err != nil {
		return nil, q.err
	}
	res, ok := q.results[key(tickerID, date)]
	if !ok {
		return nil, apperr.NotFound("No summary data found")
	}
	return res, nil
}

func resultFor(date string, strikes []models.StrikeDetail) *service.GexResult {
	return &service.GexResult{
		Summary: service.GexSummaryView{Date: date, TotalGex: 100, FlipPrice: 98, Percentile: 60},
		Strikes: strikes,
	}
}

func TestProjectSplitsSeries(t *testing.T) {
	got := Project([]models.StrikeDetail{
		{Strike: 100, NetGex: -50},
		{Strike: 105, NetGex: 30},
	})

	if len(got.Strikes) != 2 || got.Strikes[0] != 100 || got.Strikes[1] != 105 {
		t.Fatalf("strikes = %v", got.Strikes)
	}
	if got.Negative[0] != -50 || got.Negative[1] != 0 {
		t.Fatalf("negative = %v, want [-50 0]", got.Negative)
	}
	if got.Positive[0] != 0 || got.Positive[1] != 30 {
		t.Fatalf("positive = %v, want [0 30]", got.Positive)
	}
}

func TestProjectEmpty(t *testing.T) {
	got := Project(nil)
	if len(got.Strikes) != 0 || len(got.Negative) != 0 || len(got.Positive) != 0 {
		t.Fatalf("expected empty series, got %+v", got)
	}
}

func TestLoadCachesByDate(t *testing.T) {
	date := "2024-01-05"
	q := &stubQuerier{results: map[string]*service.GexResult{
		"1:2024-01-05": resultFor(date, []models.StrikeDetail{{Strike: 100, NetGex: 10}}),
	}}
	s := NewSession(q, 5, 8)

	v1, err := s.Load(context.Background(), s.NextToken(1), 1, &date)
	if err != nil {
		t.Fatalf("first load: %v", err)
	}
	if v1.Empty || v1.Date != date {
		t.Fatalf("view = %+v", v1)
	}
	if q.calls != 1 {
		t.Fatalf("calls = %d, want 1", q.calls)
	}

	if _, err := s.Load(context.Background(), s.NextToken(1), 1, &date); err != nil {
		t.Fatalf("second load: %v", err)
	}
	if q.calls != 1 {
		t.Fatalf("calls = %d after cached load, want 1", q.calls)
	}
}

func TestLoadLatestNeverCached(t *testing.T) {
	q := &stubQuerier{results: map[string]*service.GexResult{
		"1:latest": resultFor("2024-01-05", nil),
	}}
	s := NewSession(q, 5, 8)

	for i := 0; i < 2; i++ {
		if _, err := s.Load(context.Background(), s.NextToken(1), 1, nil); err != nil {
			t.Fatalf("load %d: %v", i, err)
		}
	}
	if q.calls != 2 {
		t.Fatalf("calls = %d, latest must always query", q.calls)
	}

	// But the resolved date is now cached for explicit lookups.
	date := "2024-01-05"
	if _, err := s.Load(context.Background(), s.NextToken(1), 1, &date); err != nil {
		t.Fatalf("dated load: %v", err)
	}
	if q.calls != 2 {
		t.Fatalf("calls = %d, resolved date should hit cache", q.calls)
	}
}

func TestLoadNotFoundIsEmptyState(t *testing.T) {
	q := &stubQuerier{results: map[string]*service.GexResult{}}
	s := NewSession(q, 3, 8)

	v, err := s.Load(context.Background(), s.NextToken(7), 7, nil)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !v.Empty {
		t.Fatal("expected empty state for missing summary")
	}
	if len(v.Dates) != 3 {
		t.Fatalf("dates = %v, want lookback window of 3", v.Dates)
	}
}

func TestLoadOtherErrorsPropagate(t *testing.T) {
	q := &stubQuerier{err: apperr.Storage("loading summary", errors.New("db down"))}
	s := NewSession(q, 3, 8)

	_, err := s.Load(context.Background(), s.NextToken(1), 1, nil)
	if !apperr.Is(err, apperr.KindStorage) {
		t.Fatalf("expected storage error, got %v", err)
	}
}

func TestLoadStaleTokenDiscarded(t *testing.T) {
	q := &stubQuerier{results: map[string]*service.GexResult{
		"1:latest": resultFor("2024-01-05", nil),
	}}
	s := NewSession(q, 5, 8)

	old := s.NextToken(1)
	_ = s.NextToken(1) // a newer request for the same ticker supersedes the first

	_, err := s.Load(context.Background(), old, 1, nil)
	if !errors.Is(err, ErrStale) {
		t.Fatalf("expected ErrStale, got %v", err)
	}
}

func TestTokensScopedPerTicker(t *testing.T) {
	q := &stubQuerier{results: map[string]*service.GexResult{
		"1:latest": resultFor("2024-01-05", nil),
		"2:latest": resultFor("2024-01-05", nil),
	}}
	s := NewSession(q, 5, 8)

	// Two overlapping requests for different tickers: neither supersedes
	// the other.
	tokenA := s.NextToken(1)
	tokenB := s.NextToken(2)

	if _, err := s.Load(context.Background(), tokenB, 2, nil); err != nil {
		t.Fatalf("ticker 2 load: %v", err)
	}
	if _, err := s.Load(context.Background(), tokenA, 1, nil); err != nil {
		t.Fatalf("ticker 1 load after ticker 2 completed: %v", err)
	}
}

func TestCacheEviction(t *testing.T) {
	results := map[string]*service.GexResult{}
	for i := 0; i < 3; i++ {
		date := fmt.Sprintf("2024-01-0%d", i+1)
		results["1:"+date] = resultFor(date, nil)
	}
	q := &stubQuerier{results: results}
	s := NewSession(q, 5, 2)

	for i := 0; i < 3; i++ {
		date := fmt.Sprintf("2024-01-0%d", i+1)
		if _, err := s.Load(context.Background(), s.NextToken(1), 1, &date); err != nil {
			t.Fatalf("load %s: %v", date, err)
		}
	}
	if q.calls != 3 {
		t.Fatalf("calls = %d, want 3", q.calls)
	}

	// The oldest entry was evicted; loading it again must re-query.
	date := "2024-01-01"
	if _, err := s.Load(context.Background(), s.NextToken(1), 1, &date); err != nil {
		t.Fatalf("reload: %v", err)
	}
	if q.calls != 4 {
		t.Fatalf("calls = %d, want 4 after eviction", q.calls)
	}

	// The newest entry is still cached.
	date = "2024-01-03"
	if _, err := s.Load(context.Background(), s.NextToken(1), 1, &date); err != nil {
		t.Fatalf("cached load: %v", err)
	}
	if q.calls != 4 {
		t.Fatalf("calls = %d, want 4 for cached entry", q.calls)
	}
}

func TestLookbackDates(t *testing.T) {
	s := NewSession(&stubQuerier{}, 3, 8)
	s.now = func() time.Time { return time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC) }

	got := s.LookbackDates()
	want := []string{"2024-01-10", "2024-01-09", "2024-01-08"}
	if len(got) != len(want) {
		t.Fatalf("dates = %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("dates = %v, want %v", got, want)
		}
	}
}
