package domain

import "time"

// Holding represents a single portfolio position as entered by the user
type Holding struct {
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Quantity      float64 `json:"quantity"`
	PurchasePrice float64 `json:"purchase_price"`
	Category      string  `json:"category,omitempty"` // optional user hint, e.g. "crypto"
}

// Classification is the resolved (sector, country, asset class) triple for a
// holding. It is always fully populated, "Unknown" included.
type Classification struct {
	Sector     string `json:"sector"`
	Country    string `json:"country"`
	AssetClass string `json:"asset_class"`
}

// ExposureBucket aggregates portfolio value for one label of one
// classification dimension
type ExposureBucket struct {
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
	Color   string  `json:"color"`
}

// ConcentrationAlert flags a holding whose share of total portfolio value
// exceeds the concentration threshold
type ConcentrationAlert struct {
	Symbol  string  `json:"symbol"`
	Name    string  `json:"name"`
	Percent float64 `json:"percent"`
}

// SectorRiskAlert flags a holding whose resolved sector is in the high-risk
// sector set
type SectorRiskAlert struct {
	Symbol  string  `json:"symbol"`
	Sector  string  `json:"sector"`
	Percent float64 `json:"percent"`
}

// Mover references the best or worst daily performer among the holdings
type Mover struct {
	Symbol     string  `json:"symbol"`
	Name       string  `json:"name"`
	ChangePct  float64 `json:"change_pct"`
	ValueTotal float64 `json:"value"`
}

// DividendPayment is one entry of the dividend calendar
type DividendPayment struct {
	Display string `json:"display"` // "Payment: {date} - {symbol} (${amount})"
}

// PortfolioMetrics is the engine's sole output. It is immutable and fully
// replaces any prior value on every analytics run.
type PortfolioMetrics struct {
	TotalValue    float64 `json:"total_value"`
	TotalCost     float64 `json:"total_cost"`
	ReturnAbs     float64 `json:"return_abs"`
	ReturnPct     float64 `json:"return_pct"`
	TopGainer     *Mover  `json:"top_gainer,omitempty"`
	TopLoser      *Mover  `json:"top_loser,omitempty"`
	VolatilityPct float64 `json:"volatility_pct"` // annualized, in percent
	Beta          float64 `json:"beta"`
	SharpeRatio   float64 `json:"sharpe_ratio"`
	ValueAtRisk   float64 `json:"value_at_risk"` // 1-day 95% VaR, absolute
	RiskScore     int     `json:"risk_score"`    // [1, 99]
	RiskLabel     string  `json:"risk_label"`    // LOW / MEDIUM / HIGH
	AnnualIncome  float64 `json:"annual_income"`
	CurrentYield  float64 `json:"current_yield"`
	Advisory      string  `json:"advisory"`

	GeneratedAt time.Time `json:"generated_at"`
}

// Risk labels
const (
	RiskLabelLow    = "LOW"
	RiskLabelMedium = "MEDIUM"
	RiskLabelHigh   = "HIGH"
)
