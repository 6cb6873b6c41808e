// Package chart projects GEX query results into diverging bar-chart series
// and owns the per-session result cache.
package chart

import (
	"context"
	"errors"
	"sync"
	"time"

	"gexwatch/internal/apperr"
	"gexwatch/internal/metrics"
	"gexwatch/internal/models"
	"gexwatch/internal/service"
)

// ErrStale marks a completion that was superseded by a newer request for the
// same ticker's view; callers drop it silently.
var ErrStale = errors.New("stale chart request superseded")

// Querier is the read path the session consumes.
type Querier interface {
	GetGex(ctx context.Context, tickerID uint, date *string) (*service.GexResult, error)
}

// Series holds the pairwise diverging bars: for each strike either the
// negative or the positive slot carries the exposure, the other is zero.
type Series struct {
	Strikes  []float64 `json:"strikes"`
	Negative []float64 `json:"negative_gex"`
	Positive []float64 `json:"positive_gex"`
}

// Project splits strike exposures into negative and positive series,
// preserving strike order.
func Project(strikes []models.StrikeDetail) Series {
	s := Series{
		Strikes:  make([]float64, len(strikes)),
		Negative: make([]float64, len(strikes)),
		Positive: make([]float64, len(strikes)),
	}
	for i, row := range strikes {
		s.Strikes[i] = row.Strike
		if row.NetGex < 0 {
			s.Negative[i] = row.NetGex
		} else {
			s.Positive[i] = row.NetGex
		}
	}
	return s
}

// View is the chart payload for one (ticker, date). Empty means the day has
// no summary; it is a benign state, not an error.
type View struct {
	TickerID   uint     `json:"ticker_id"`
	Date       string   `json:"date,omitempty"`
	Empty      bool     `json:"empty"`
	Series     Series   `json:"series"`
	FlipPrice  float64  `json:"flip_price,omitempty"`
	Percentile float64  `json:"percentile,omitempty"`
	TotalGex   float64  `json:"total_gex,omitempty"`
	Price      *float64 `json:"price"`
	Dates      []string `json:"dates"`
}

type cacheKey struct {
	tickerID uint
	date     string
}

// Session caches query results per (ticker, date) and discards completions
// that arrive out of order. The cache is bounded; the set of dates a session
// touches is small (one lookback window), so oldest-insertion eviction is
// enough.
type Session struct {
	query        Querier
	lookbackDays int
	maxEntries   int

	mu     sync.Mutex
	tokens map[uint]uint64
	cache  map[cacheKey]*service.GexResult
	order  []cacheKey

	// now is overridable for tests.
	now func() time.Time
}

func NewSession(query Querier, lookbackDays, maxEntries int) *Session {
	if lookbackDays <= 0 {
		lookbackDays = 20
	}
	if maxEntries <= 0 {
		maxEntries = 64
	}
	return &Session{
		query:        query,
		lookbackDays: lookbackDays,
		maxEntries:   maxEntries,
		tokens:       map[uint]uint64{},
		cache:        map[cacheKey]*service.GexResult{},
		now:          time.Now,
	}
}

// NextToken issues a monotonically increasing request token for one ticker's
// view. Tokens are compared only among requests for the same ticker, so
// concurrent chart traffic for different tickers never invalidates each other.
func (s *Session) NextToken(tickerID uint) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[tickerID]++
	return s.tokens[tickerID]
}

func (s *Session) latestToken(tickerID uint) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tokens[tickerID]
}

// Load fetches (or serves from cache) the chart view for a ticker+date.
// A NotFound from the query layer is the empty state, not an error.
func (s *Session) Load(ctx context.Context, token uint64, tickerID uint, date *string) (*View, error) {
	if cached := s.get(tickerID, date); cached != nil {
		metrics.ChartCacheTotal.WithLabelValues("hit").Inc()
		return s.view(tickerID, cached), nil
	}
	metrics.ChartCacheTotal.WithLabelValues("miss").Inc()

	result, err := s.query.GetGex(ctx, tickerID, date)

	if token < s.latestToken(tickerID) {
		return nil, ErrStale
	}

	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return &View{TickerID: tickerID, Empty: true, Dates: s.LookbackDates()}, nil
		}
		return nil, err
	}

	s.put(tickerID, result)
	return s.view(tickerID, result), nil
}

// LookbackDates returns the selectable history window, most recent first.
func (s *Session) LookbackDates() []string {
	today := s.now().UTC()
	dates := make([]string, 0, s.lookbackDays)
	for i := 0; i < s.lookbackDays; i++ {
		dates = append(dates, today.AddDate(0, 0, -i).Format("2006-01-02"))
	}
	return dates
}

func (s *Session) view(tickerID uint, r *service.GexResult) *View {
	return &View{
		TickerID:   tickerID,
		Date:       r.Summary.Date,
		Series:     Project(r.Strikes),
		FlipPrice:  r.Summary.FlipPrice,
		Percentile: r.Summary.Percentile,
		TotalGex:   r.Summary.TotalGex,
		Price:      r.Price,
		Dates:      s.LookbackDates(),
	}
}

func (s *Session) get(tickerID uint, date *string) *service.GexResult {
	if date == nil || *date == "" {
		// "Latest" is never served from cache; its identity is only known
		// after the query resolves.
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cache[cacheKey{tickerID: tickerID, date: *date}]
}

func (s *Session) put(tickerID uint, r *service.GexResult) {
	if r == nil || r.Summary.Date == "" {
		return
	}
	key := cacheKey{tickerID: tickerID, date: r.Summary.Date}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.cache[key]; ok {
		s.cache[key] = r
		return
	}
	for len(s.cache) >= s.maxEntries && len(s.order) > 0 {
		oldest := s.order[0]
		s.order = s.order[1:]
		delete(s.cache, oldest)
	}
	s.cache[key] = r
	s.order = append(s.order, key)
}
