// Package gex computes net gamma exposure profiles from an options chain.
//
// Dealer convention: calls contribute positive exposure, puts negative.
// Per-contract exposure is gamma * open_interest * 100 * spot^2 * 0.01,
// i.e. the dollar exposure of a 1% spot move across the contract's open
// interest.
package gex

import (
	"math"
	"sort"
	"time"
)

// OptionContract is one row of a chain: a strike with its open interest
// and implied volatility.
type OptionContract struct {
	Strike     float64
	OpenInt    float64
	ImpliedVol float64
}

// Expiration is one expiry date's calls and puts.
type Expiration struct {
	Date  time.Time
	Calls []OptionContract
	Puts  []OptionContract
}

type Options struct {
	RiskFreeRate float64
	// MaxExpiries caps how many of the nearest expiries are processed.
	MaxExpiries int
	// StrikeBandPct keeps output strikes within [spot*(1-p), spot*(1+p)].
	StrikeBandPct float64
}

// StrikeGex is the accumulated net exposure at one (integer-rounded) strike.
type StrikeGex struct {
	Strike float64
	NetGex float64
}

// Profile is the aggregate exposure picture for one ticker and day.
type Profile struct {
	TotalGex  float64
	FlipPrice float64
	Strikes   []StrikeGex
}

// Aggregate computes the exposure profile for the chain at the given spot
// price. Expiries at or before now and contracts without a usable implied
// volatility are skipped.
func Aggregate(spot float64, chain []Expiration, now time.Time, opts Options) Profile {
	if opts.MaxExpiries <= 0 {
		opts.MaxExpiries = 10
	}
	if opts.StrikeBandPct <= 0 {
		opts.StrikeBandPct = 0.15
	}

	sorted := make([]Expiration, len(chain))
	copy(sorted, chain)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })
	if len(sorted) > opts.MaxExpiries {
		sorted = sorted[:opts.MaxExpiries]
	}

	totalGex := 0.0
	strikeMap := map[float64]float64{}

	for _, exp := range sorted {
		T := exp.Date.Sub(now).Hours() / 24 / 365
		if T <= 0 {
			continue
		}
		for _, c := range exp.Calls {
			if c.ImpliedVol <= 0 || math.IsNaN(c.ImpliedVol) {
				continue
			}
			gamma := BlackScholesGamma(spot, c.Strike, T, opts.RiskFreeRate, c.ImpliedVol)
			if gamma <= 0 {
				continue
			}
			exposure := gamma * c.OpenInt * 100 * spot * spot * 0.01
			if math.IsNaN(exposure) || math.IsInf(exposure, 0) {
				continue
			}
			totalGex += exposure
			strikeMap[c.Strike] += exposure
		}
		for _, p := range exp.Puts {
			if p.ImpliedVol <= 0 || math.IsNaN(p.ImpliedVol) {
				continue
			}
			gamma := BlackScholesGamma(spot, p.Strike, T, opts.RiskFreeRate, p.ImpliedVol)
			if gamma <= 0 {
				continue
			}
			exposure := -1 * gamma * p.OpenInt * 100 * spot * spot * 0.01
			if math.IsNaN(exposure) || math.IsInf(exposure, 0) {
				continue
			}
			// Put exposure is negative; subtracting grows the total's
			// magnitude while the per-strike map stays signed.
			totalGex -= exposure
			strikeMap[p.Strike] += exposure
		}
	}

	if math.IsNaN(totalGex) || math.IsInf(totalGex, 0) {
		totalGex = 0
	}

	return Profile{
		TotalGex:  totalGex,
		FlipPrice: flipPrice(strikeMap, spot),
		Strikes:   bandedStrikes(strikeMap, spot, opts.StrikeBandPct),
	}
}

// flipPrice finds the negative-to-positive crossing closest to spot.
// When the profile never crosses, spot itself is returned.
func flipPrice(strikeMap map[float64]float64, spot float64) float64 {
	strikes := make([]float64, 0, len(strikeMap))
	for s := range strikeMap {
		strikes = append(strikes, s)
	}
	sort.Float64s(strikes)

	flip := spot
	minDistance := math.Inf(1)
	for i := 0; i+1 < len(strikes); i++ {
		if strikeMap[strikes[i]] < 0 && strikeMap[strikes[i+1]] > 0 {
			candidate := strikes[i]
			if math.Abs(strikes[i+1]-spot) < math.Abs(strikes[i]-spot) {
				candidate = strikes[i+1]
			}
			if d := math.Abs(candidate - spot); d < minDistance {
				minDistance = d
				flip = candidate
			}
		}
	}
	return flip
}

// bandedStrikes filters to the strike band around spot, rounds strikes to
// whole numbers, and merges duplicates by summing exposure.
func bandedStrikes(strikeMap map[float64]float64, spot, bandPct float64) []StrikeGex {
	merged := map[float64]float64{}
	for s, g := range strikeMap {
		if s < spot*(1-bandPct) || s > spot*(1+bandPct) {
			continue
		}
		if math.IsNaN(g) || math.IsInf(g, 0) {
			g = 0
		}
		merged[math.Trunc(s)] += g
	}
	out := make([]StrikeGex, 0, len(merged))
	for s, g := range merged {
		out = append(out, StrikeGex{Strike: s, NetGex: g})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Strike < out[j].Strike })
	return out
}

// PercentileOfScore ranks score against history on a 0-100 scale: the mean
// of the strictly-below and at-or-below counts, with a one-position credit
// when the score ties a history entry (rank semantics, so a score equal to
// the k-th of n ordered values ranks k/n), truncated to a whole number. An
// empty history ranks at the midpoint.
func PercentileOfScore(history []float64, score float64) float64 {
	if len(history) == 0 {
		return 50
	}
	below, belowOrEqual := 0, 0
	for _, h := range history {
		if h < score {
			below++
		}
		if h <= score {
			belowOrEqual++
		}
	}
	tie := 0
	if belowOrEqual > below {
		tie = 1
	}
	pct := float64(below+belowOrEqual+tie) * 50 / float64(len(history))
	return math.Trunc(pct)
}
