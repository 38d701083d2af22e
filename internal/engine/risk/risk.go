// Package risk computes portfolio-level risk statistics: weighted beta,
// annualized volatility, Sharpe ratio, 1-day Value-at-Risk and a bounded
// composite risk score.
package risk

import (
	"math"

	"github.com/aristath/portfolio-sentinel/internal/domain"
	"github.com/aristath/portfolio-sentinel/pkg/formulas"
)

// The constants below define the observable behavior contract of the risk
// score and must not be tuned.
const (
	// RiskFreeRate is the annual risk-free rate used by the Sharpe ratio
	RiskFreeRate = 0.045

	// AnnualizationFactor converts daily volatility to annual (≈ √252)
	AnnualizationFactor = 15.87

	// VaRZScore95 is the one-tailed z-score for 95% confidence
	VaRZScore95 = 1.65

	// DefaultBeta is assumed when fundamentals carry no beta
	DefaultBeta = 1.0

	// sharpeVolatilityFloor guards the Sharpe denominator
	sharpeVolatilityFloor = 0.001

	// Composite score penalties
	highRiskSectorWeight      = 0.3
	concentrationAlertPenalty = 5.0
	volatilityPenaltyCap      = 40.0

	// Score bounds and label thresholds
	minScore        = 1
	maxScore        = 99
	lowThreshold    = 70
	mediumThreshold = 40
)

// highRiskSectors are the designated sectors that penalize the risk score
// and trigger per-holding sector risk alerts
var highRiskSectors = map[string]bool{
	"Technology":         true,
	"Cryptocurrency":     true,
	"Consumer Cyclical":  true,
	"Financial Services": true,
}

// IsHighRiskSector reports whether a resolved sector is in the designated
// high-risk set
func IsHighRiskSector(sector string) bool {
	return highRiskSectors[sector]
}

// Asset is one valued, classified holding with its fetched market history
type Asset struct {
	Symbol string
	Name   string
	Sector string
	Value  float64
	Beta   float64   // 0 when fundamentals had no beta
	Closes []float64 // chronological daily closes, 3-month window
}

// Input carries everything the risk computation consumes
type Input struct {
	Assets         []Asset
	TotalValue     float64
	TotalReturnPct float64
	// QuoteChangePcts holds the daily change percent of every fetched quote,
	// used as a volatility fallback when no chart data is usable.
	QuoteChangePcts []float64
	// ConcentrationAlerts is the number of holdings over the concentration
	// threshold, each of which costs score points.
	ConcentrationAlerts int
}

// Result is the computed risk state
type Result struct {
	Beta        float64
	Volatility  float64 // annualized, as a decimal (0.25 = 25%)
	SharpeRatio float64
	ValueAtRisk float64 // 1-day 95% VaR, absolute
	Score       int
	Label       string
}

// Compute derives the full risk state from the given input. Every ratio
// guards its denominator: degenerate portfolios produce zeros, never NaN.
func Compute(in Input) Result {
	var r Result

	r.Beta = weightedBeta(in)
	r.Volatility = portfolioVolatility(in)

	if r.Volatility > sharpeVolatilityFloor {
		r.SharpeRatio = (in.TotalReturnPct/100 - RiskFreeRate) / r.Volatility
	}

	r.ValueAtRisk = in.TotalValue * r.Volatility * VaRZScore95 / AnnualizationFactor

	r.Score = score(in, r.Volatility)
	r.Label = Label(r.Score)

	return r
}

// weightedBeta is the value-weighted sum of per-asset betas
func weightedBeta(in Input) float64 {
	if in.TotalValue <= 0 {
		return 0
	}

	var beta float64
	for _, a := range in.Assets {
		b := a.Beta
		if b == 0 {
			b = DefaultBeta
		}
		beta += b * (a.Value / in.TotalValue)
	}
	return beta
}

// portfolioVolatility is the value-weighted sum of per-asset annualized
// volatilities, discounted for diversification. When no asset has usable
// chart data the raw estimate degrades to the average absolute daily quote
// change.
func portfolioVolatility(in Input) float64 {
	var vol float64
	if in.TotalValue > 0 {
		for _, a := range in.Assets {
			vol += assetVolatility(a.Closes) * (a.Value / in.TotalValue)
		}
	}

	if vol == 0 {
		vol = quoteFallbackVolatility(in.QuoteChangePcts)
	}

	return vol * diversificationFactor(len(in.Assets))
}

// assetVolatility annualizes the sample standard deviation of simple daily
// returns. Fewer than 2 points means no variance estimate.
func assetVolatility(closes []float64) float64 {
	returns := formulas.DailyReturns(closes)
	if len(returns) == 0 {
		return 0
	}
	return formulas.StdDev(returns) * AnnualizationFactor
}

// quoteFallbackVolatility treats each quote's absolute daily change as a
// one-sample daily volatility estimate and annualizes the average
func quoteFallbackVolatility(changePcts []float64) float64 {
	if len(changePcts) == 0 {
		return 0
	}

	var sum float64
	for _, pct := range changePcts {
		sum += math.Abs(pct) / 100
	}
	return sum / float64(len(changePcts)) * AnnualizationFactor
}

// diversificationFactor decreases monotonically from 1.0 for a single asset
// toward 0.5 as the holding count grows
func diversificationFactor(assetCount int) float64 {
	if assetCount < 1 {
		assetCount = 1
	}
	return 1/math.Sqrt(float64(assetCount))*0.5 + 0.5
}

// score composes the risk score: start at 100, subtract the high-risk sector
// exposure, concentration and volatility penalties, clamp to [1, 99].
func score(in Input, volatility float64) int {
	s := 100.0

	if in.TotalValue > 0 {
		var highRiskPct float64
		for _, a := range in.Assets {
			if highRiskSectors[a.Sector] {
				highRiskPct += a.Value / in.TotalValue * 100
			}
		}
		s -= highRiskSectorWeight * highRiskPct
	}

	s -= concentrationAlertPenalty * float64(in.ConcentrationAlerts)
	s -= math.Min(volatility*100, volatilityPenaltyCap)

	if s < minScore {
		s = minScore
	}
	if s > maxScore {
		s = maxScore
	}
	return int(s)
}

// Label maps a risk score to its 3-level label
func Label(score int) string {
	switch {
	case score >= lowThreshold:
		return domain.RiskLabelLow
	case score >= mediumThreshold:
		return domain.RiskLabelMedium
	default:
		return domain.RiskLabelHigh
	}
}
