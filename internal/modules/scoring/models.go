package scoring

import (
	"time"

	"github.com/aristath/factorlens/pkg/formulas"
)

// AssetInput is one ticker's price history plus pass-through metadata
type AssetInput struct {
	Ticker  string
	Company string
	Sector  string
	Series  formulas.PriceSeries
}

// RiskMetrics holds the raw risk statistics of an asset, or the cross-asset
// means of a portfolio. Nil fields had insufficient data.
type RiskMetrics struct {
	MaxDrawdown        *float64 `json:"max_drawdown"`
	Volatility         *float64 `json:"volatility"`
	DownsideVolatility *float64 `json:"downside_volatility"`
}

// AssetMetrics is the per-ticker metric record shown in the metrics table.
// Return columns are percentages rounded to two decimals.
type AssetMetrics struct {
	Ticker         string      `json:"ticker"`
	Company        string      `json:"company,omitempty"`
	Sector         string      `json:"sector,omitempty"`
	CAGR5YPct      *float64    `json:"cagr_5y_pct"`
	CAGR10YPct     *float64    `json:"cagr_10y_pct"`
	ConsistencyPct *float64    `json:"rolling_consistency_pct"`
	Risk           RiskMetrics `json:"risk"`
	DataPoints     int         `json:"data_points"`
	FirstDate      string      `json:"first_date,omitempty"`
	LastDate       string      `json:"last_date,omitempty"`
}

// SkippedTicker records a ticker dropped from a scoring run and why
type SkippedTicker struct {
	Ticker string `json:"ticker"`
	Reason string `json:"reason"`
}

// PortfolioScore is the result of one scoring run
type PortfolioScore struct {
	RunID      string          `json:"run_id"`
	Profile    RiskProfile     `json:"profile"`
	Assets     []AssetMetrics  `json:"assets"`
	Return     FactorScore     `json:"return"`
	Risk       FactorScore     `json:"risk"`
	Factors    FactorMap       `json:"factors"`
	Skipped    []SkippedTicker `json:"skipped"`
	ComputedAt time.Time       `json:"computed_at"`
}
