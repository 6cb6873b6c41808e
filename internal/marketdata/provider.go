// Package marketdata supplies the options chain and spot price inputs for
// exposure computation, behind small provider interfaces so the engine and
// the refresh job are testable without the network.
package marketdata

import (
	"context"

	"gexwatch/internal/gex"
)

// ChainProvider returns the option chain for a symbol, limited to the
// nearest maxExpiries expiration dates.
type ChainProvider interface {
	OptionChain(ctx context.Context, symbol string, maxExpiries int) ([]gex.Expiration, error)
}

// SpotProvider returns the most recent daily closing price for a symbol.
type SpotProvider interface {
	LatestClose(ctx context.Context, symbol string) (float64, error)
}
