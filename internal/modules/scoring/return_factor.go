package scoring

import (
	"github.com/aristath/factorlens/pkg/formulas"
)

// ReturnMeans holds the portfolio-level mean of each Return column, in
// percent. Nil means no asset had the metric.
type ReturnMeans struct {
	CAGR5YPct      *float64 `json:"cagr_5y_pct"`
	CAGR10YPct     *float64 `json:"cagr_10y_pct"`
	ConsistencyPct *float64 `json:"rolling_consistency_pct"`
}

// ReturnFactor scores portfolio return quality.
//
// Scoring runs in two stages and the order matters: the raw metric columns are
// first averaged across assets (PortfolioMeans), then the means are normalised
// against the Return benchmarks and averaged (ScoreMeans). The result is the
// score of the mean asset, not the mean of asset scores.
type ReturnFactor struct {
	benchmarks *Benchmarks
}

// NewReturnFactor creates a Return factor aggregator
func NewReturnFactor(benchmarks *Benchmarks) *ReturnFactor {
	return &ReturnFactor{benchmarks: benchmarks}
}

// PortfolioMeans is stage one: the cross-asset mean of each raw column
func (f *ReturnFactor) PortfolioMeans(rows []AssetMetrics) ReturnMeans {
	cagr5y := make([]*float64, 0, len(rows))
	cagr10y := make([]*float64, 0, len(rows))
	consistency := make([]*float64, 0, len(rows))
	for _, row := range rows {
		cagr5y = append(cagr5y, row.CAGR5YPct)
		cagr10y = append(cagr10y, row.CAGR10YPct)
		consistency = append(consistency, row.ConsistencyPct)
	}

	return ReturnMeans{
		CAGR5YPct:      formulas.MeanOf(cagr5y),
		CAGR10YPct:     formulas.MeanOf(cagr10y),
		ConsistencyPct: formulas.MeanOf(consistency),
	}
}

// ScoreMeans is stage two: normalise each defined mean and average the
// resulting scores. With no defined mean the score is 0.
func (f *ReturnFactor) ScoreMeans(means ReturnMeans) (FactorScore, error) {
	columns := map[ReturnMetric]*float64{
		MetricCAGR5Y:      means.CAGR5YPct,
		MetricCAGR10Y:     means.CAGR10YPct,
		MetricConsistency: means.ConsistencyPct,
	}

	components := make(map[string]float64, len(columns))
	scores := make([]float64, 0, len(columns))
	for _, metric := range AllReturnMetrics() {
		pct := columns[metric]
		if pct == nil {
			continue
		}

		pair, err := f.benchmarks.ReturnPair(metric)
		if err != nil {
			return FactorScore{}, err
		}

		// Table values are percentages; anchors are decimals.
		score := pair.Score(*pct/100, HigherIsBetter)
		components[string(metric)] = score
		scores = append(scores, score)
	}

	return combine(scores, components), nil
}

// Score runs both stages over the metric table
func (f *ReturnFactor) Score(rows []AssetMetrics) (FactorScore, error) {
	return f.ScoreMeans(f.PortfolioMeans(rows))
}

// combine averages component scores, rounding to one decimal
func combine(scores []float64, components map[string]float64) FactorScore {
	if len(scores) == 0 {
		return FactorScore{Score: 0.0, Components: components}
	}
	return FactorScore{
		Score:      formulas.Round1(formulas.Mean(scores)),
		Components: components,
	}
}
