package marketdata

import (
	"context"
	"fmt"
	"time"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"

	"gexwatch/internal/config"
)

// Compile-time interface check.
var _ SpotProvider = (*AlpacaSpot)(nil)

// AlpacaSpot resolves the latest daily close via the Alpaca market-data API.
type AlpacaSpot struct {
	client *marketdata.Client
}

func NewAlpacaSpot(cfg config.AlpacaConfig) *AlpacaSpot {
	opts := marketdata.ClientOpts{
		APIKey:    cfg.APIKey,
		APISecret: cfg.APISecret,
	}
	if cfg.BaseURL != "" {
		opts.BaseURL = cfg.BaseURL
	}
	return &AlpacaSpot{client: marketdata.NewClient(opts)}
}

// LatestClose returns the close of the most recent daily bar. A week of
// lookback covers weekends and market holidays. The Alpaca SDK does not
// thread contexts, so ctx only gates entry.
func (a *AlpacaSpot) LatestClose(ctx context.Context, symbol string) (float64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	end := time.Now().UTC()
	start := end.AddDate(0, 0, -7)
	bars, err := a.client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     start,
		End:       end,
	})
	if err != nil {
		return 0, fmt.Errorf("GetBars %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return 0, fmt.Errorf("no price data for %s", symbol)
	}
	return bars[len(bars)-1].Close, nil
}
