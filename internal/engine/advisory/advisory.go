// Package advisory produces the single human-readable rebalancing suggestion
// shown with every metrics snapshot.
package advisory

import (
	"fmt"

	"github.com/aristath/portfolio-sentinel/internal/domain"
)

// Rule thresholds
const (
	topSectorPctThreshold = 40.0
	sharpeThreshold       = 0.5
	cryptoPctThreshold    = 20.0
)

// Input is the computed portfolio state the rules evaluate
type Input struct {
	RiskLabel      string
	TopSector      string
	TopSectorPct   float64
	SharpeRatio    float64
	TotalReturnPct float64
	CryptoPct      float64 // crypto asset-class exposure percentage
}

// Advise evaluates the advisory rules in strict priority order and returns
// the first matching message. Rules are never combined.
func Advise(in Input) string {
	switch {
	case in.RiskLabel == domain.RiskLabelHigh:
		return "Portfolio risk is high. Consider diversifying into defensive sectors such as Healthcare, Utilities or Consumer Defensive."

	case in.TopSectorPct > topSectorPctThreshold:
		return fmt.Sprintf("%s makes up %.1f%% of your portfolio. Consider trimming this position to reduce sector concentration.",
			in.TopSector, in.TopSectorPct)

	case in.SharpeRatio < sharpeThreshold && in.TotalReturnPct < 0:
		return "Risk-adjusted returns are weak. Review underperforming holdings and consider whether they still fit your strategy."

	case in.CryptoPct > cryptoPctThreshold:
		return fmt.Sprintf("Crypto assets make up %.1f%% of your portfolio. This exposure carries high volatility.", in.CryptoPct)

	default:
		return "Your portfolio looks balanced. Keep monitoring your positions regularly."
	}
}
