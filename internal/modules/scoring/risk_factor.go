package scoring

import (
	"sort"

	"github.com/aristath/factorlens/pkg/formulas"
)

// AssetRisk derives the raw risk metrics of a single price series
func AssetRisk(series formulas.PriceSeries) RiskMetrics {
	return RiskMetrics{
		MaxDrawdown:        formulas.CalculateMaxDrawdown(series),
		Volatility:         formulas.CalculateVolatility(series),
		DownsideVolatility: formulas.CalculateDownsideVolatility(series),
	}
}

// RiskFactor scores portfolio risk relative to a risk profile.
//
// Like ReturnFactor it averages raw metrics across assets first
// (PortfolioMeans) and only then normalises the means (ScoreMeans). A higher
// score means lower risk than the profile's calibration, so the same raw
// volatility scores differently under core and growth. Assets are equally
// weighted.
type RiskFactor struct {
	benchmarks *Benchmarks
}

// NewRiskFactor creates a Risk factor aggregator
func NewRiskFactor(benchmarks *Benchmarks) *RiskFactor {
	return &RiskFactor{benchmarks: benchmarks}
}

// PortfolioMeans is stage one: the cross-asset mean of each raw risk metric
func (f *RiskFactor) PortfolioMeans(assets []RiskMetrics) RiskMetrics {
	drawdowns := make([]*float64, 0, len(assets))
	vols := make([]*float64, 0, len(assets))
	downside := make([]*float64, 0, len(assets))
	for _, a := range assets {
		drawdowns = append(drawdowns, a.MaxDrawdown)
		vols = append(vols, a.Volatility)
		downside = append(downside, a.DownsideVolatility)
	}

	return RiskMetrics{
		MaxDrawdown:        formulas.MeanOf(drawdowns),
		Volatility:         formulas.MeanOf(vols),
		DownsideVolatility: formulas.MeanOf(downside),
	}
}

// ScoreMeans is stage two: normalise each defined mean (lower is better)
// against the profile's calibration and average the resulting scores.
func (f *RiskFactor) ScoreMeans(means RiskMetrics, profile RiskProfile) (FactorScore, error) {
	if err := f.benchmarks.CheckProfile(profile); err != nil {
		return FactorScore{}, err
	}

	columns := map[RiskMetric]*float64{
		MetricMaxDrawdown:        means.MaxDrawdown,
		MetricVolatility:         means.Volatility,
		MetricDownsideVolatility: means.DownsideVolatility,
	}

	components := make(map[string]float64, len(columns))
	scores := make([]float64, 0, len(columns))
	for _, metric := range AllRiskMetrics() {
		value := columns[metric]
		if value == nil {
			continue
		}

		pair, err := f.benchmarks.RiskPair(profile, metric)
		if err != nil {
			return FactorScore{}, err
		}

		score := pair.Score(*value, LowerIsBetter)
		components[string(metric)] = score
		scores = append(scores, score)
	}

	return combine(scores, components), nil
}

// Score derives per-asset risk metrics from each series and runs both stages.
// An unknown profile fails before any metric is computed.
func (f *RiskFactor) Score(series map[string]formulas.PriceSeries, profile RiskProfile) (FactorScore, error) {
	if err := f.benchmarks.CheckProfile(profile); err != nil {
		return FactorScore{}, err
	}

	tickers := make([]string, 0, len(series))
	for ticker := range series {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	assets := make([]RiskMetrics, 0, len(tickers))
	for _, ticker := range tickers {
		assets = append(assets, AssetRisk(series[ticker]))
	}

	return f.ScoreMeans(f.PortfolioMeans(assets), profile)
}
