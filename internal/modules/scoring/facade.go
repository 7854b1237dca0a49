package scoring

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/aristath/factorlens/pkg/formulas"
)

// DefaultWorkers bounds concurrent per-ticker metric derivation
const DefaultWorkers = 4

// Facade derives metrics for a batch of assets and aggregates them into
// portfolio factor scores. It performs no I/O.
type Facade struct {
	benchmarks    *Benchmarks
	returnFactor  *ReturnFactor
	riskFactor    *RiskFactor
	workers       int
	rollingWindow int
	log           zerolog.Logger
	now           func() time.Time
}

// NewFacade creates a scoring facade over the given calibration
func NewFacade(benchmarks *Benchmarks, workers int, log zerolog.Logger) *Facade {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Facade{
		benchmarks:    benchmarks,
		returnFactor:  NewReturnFactor(benchmarks),
		riskFactor:    NewRiskFactor(benchmarks),
		workers:       workers,
		rollingWindow: formulas.DefaultRollingWindowYears,
		log:           log.With().Str("component", "scoring_facade").Logger(),
		now:           time.Now,
	}
}

// Benchmarks returns the calibration the facade scores against
func (f *Facade) Benchmarks() *Benchmarks {
	return f.benchmarks
}

// DeriveMetrics computes the metric record of one asset. A series that fails
// formulas.PriceSeries.Validate yields ErrNoUsableData.
func (f *Facade) DeriveMetrics(input AssetInput) (AssetMetrics, error) {
	series := input.Series
	if err := series.Validate(); err != nil {
		return AssetMetrics{}, fmt.Errorf("%w: %s: %v", ErrNoUsableData, input.Ticker, err)
	}

	return AssetMetrics{
		Ticker:         input.Ticker,
		Company:        input.Company,
		Sector:         input.Sector,
		CAGR5YPct:      percent(formulas.CalculateCAGR(series, 5)),
		CAGR10YPct:     percent(formulas.CalculateCAGR(series, 10)),
		ConsistencyPct: roundPtr(formulas.RollingReturnConsistency(series, f.rollingWindow)),
		Risk:           AssetRisk(series),
		DataPoints:     len(series),
		FirstDate:      formatDate(series.FirstDate()),
		LastDate:       formatDate(series.LastDate()),
	}, nil
}

// Score scores a portfolio from already retrieved price histories.
//
// Assets with missing or malformed series, and repeated tickers, are skipped
// and reported in PortfolioScore.Skipped. Score fails only on an unknown risk
// profile or when no asset is left to score.
func (f *Facade) Score(assets []AssetInput, profile RiskProfile) (*PortfolioScore, error) {
	if err := f.benchmarks.CheckProfile(profile); err != nil {
		return nil, err
	}

	runID := uuid.New().String()
	log := f.log.With().Str("run_id", runID).Str("profile", string(profile)).Logger()

	usable, skipped := f.filter(assets, log)
	if len(usable) == 0 {
		return nil, &NoUsableDataError{Requested: len(assets), Skipped: skipped}
	}

	// Fan out per-asset derivation; aggregation waits for every result.
	rows := make([]AssetMetrics, len(usable))
	var g errgroup.Group
	g.SetLimit(f.workers)
	for i := range usable {
		i := i
		g.Go(func() error {
			row, err := f.DeriveMetrics(usable[i])
			if err != nil {
				return err
			}
			rows[i] = row
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to derive metrics: %w", err)
	}

	risks := make([]RiskMetrics, len(rows))
	for i, row := range rows {
		risks[i] = row.Risk
	}

	returnScore, err := f.returnFactor.Score(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to score return factor: %w", err)
	}
	riskScore, err := f.riskFactor.ScoreMeans(f.riskFactor.PortfolioMeans(risks), profile)
	if err != nil {
		return nil, fmt.Errorf("failed to score risk factor: %w", err)
	}

	log.Info().
		Int("assets", len(rows)).
		Int("skipped", len(skipped)).
		Float64("return_score", returnScore.Score).
		Float64("risk_score", riskScore.Score).
		Msg("Scored portfolio")

	return &PortfolioScore{
		RunID:   runID,
		Profile: profile,
		Assets:  rows,
		Return:  returnScore,
		Risk:    riskScore,
		Factors: NewFactorMap(map[Factor]float64{
			FactorReturn: returnScore.Score,
			FactorRisk:   riskScore.Score,
		}),
		Skipped:    skipped,
		ComputedAt: f.now().UTC(),
	}, nil
}

// filter drops assets that cannot be scored, keeping input order
func (f *Facade) filter(assets []AssetInput, log zerolog.Logger) ([]AssetInput, []SkippedTicker) {
	usable := make([]AssetInput, 0, len(assets))
	skipped := make([]SkippedTicker, 0)
	seen := make(map[string]bool, len(assets))

	for _, asset := range assets {
		ticker := strings.TrimSpace(asset.Ticker)
		reason := ""
		switch {
		case ticker == "":
			reason = "missing ticker"
		case seen[ticker]:
			reason = "duplicate ticker"
		default:
			if err := asset.Series.Validate(); err != nil {
				reason = err.Error()
			}
		}

		if reason != "" {
			log.Warn().Str("ticker", ticker).Str("reason", reason).Msg("Skipping ticker")
			skipped = append(skipped, SkippedTicker{Ticker: ticker, Reason: reason})
			continue
		}

		seen[ticker] = true
		asset.Ticker = ticker
		usable = append(usable, asset)
	}

	return usable, skipped
}

// percent converts a decimal metric to a percentage rounded to two decimals
func percent(v *float64) *float64 {
	if v == nil {
		return nil
	}
	pct := formulas.Round2(*v * 100)
	return &pct
}

func roundPtr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	r := formulas.Round2(*v)
	return &r
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}
