package gex

import "math"

// BlackScholesGamma returns the Black-Scholes gamma of an option.
// S is spot, K strike, T years to expiry, r the risk-free rate, sigma
// implied volatility. Degenerate inputs yield zero.
func BlackScholesGamma(S, K, T, r, sigma float64) float64 {
	if T <= 0 || sigma <= 0 || S <= 0 || K <= 0 {
		return 0
	}
	d1 := (math.Log(S/K) + (r+0.5*sigma*sigma)*T) / (sigma * math.Sqrt(T))
	gamma := normPDF(d1) / (S * sigma * math.Sqrt(T))
	if math.IsNaN(gamma) || math.IsInf(gamma, 0) {
		return 0
	}
	return gamma
}

func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}
