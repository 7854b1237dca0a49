package scoring

import (
	"fmt"
	"sort"
	"strings"
)

// Orientation tells the normaliser which direction is good
type Orientation int

const (
	// HigherIsBetter metrics score 100 at or above Best
	HigherIsBetter Orientation = iota
	// LowerIsBetter metrics score 100 at or below Best
	LowerIsBetter
)

// ReturnMetric names a metric of the Return factor
type ReturnMetric string

// Return factor metrics
const (
	MetricCAGR5Y      ReturnMetric = "cagr_5y"
	MetricCAGR10Y     ReturnMetric = "cagr_10y"
	MetricConsistency ReturnMetric = "consistency"
)

// AllReturnMetrics lists the Return factor metrics in aggregation order
func AllReturnMetrics() []ReturnMetric {
	return []ReturnMetric{MetricCAGR5Y, MetricCAGR10Y, MetricConsistency}
}

// RiskMetric names a metric of the Risk factor
type RiskMetric string

// Risk factor metrics
const (
	MetricMaxDrawdown        RiskMetric = "max_drawdown"
	MetricVolatility         RiskMetric = "volatility"
	MetricDownsideVolatility RiskMetric = "downside_volatility"
)

// AllRiskMetrics lists the Risk factor metrics in aggregation order
func AllRiskMetrics() []RiskMetric {
	return []RiskMetric{MetricMaxDrawdown, MetricVolatility, MetricDownsideVolatility}
}

// RiskProfile selects which risk calibration applies
type RiskProfile string

// Built-in risk profiles
const (
	ProfileCore   RiskProfile = "core"
	ProfileGrowth RiskProfile = "growth"
)

// ParseRiskProfile normalises user input into a profile tag.
// It does not check the profile exists; use Benchmarks.CheckProfile.
func ParseRiskProfile(s string) RiskProfile {
	return RiskProfile(strings.ToLower(strings.TrimSpace(s)))
}

// BenchmarkPair holds the calibration anchors of one metric
type BenchmarkPair struct {
	Worst float64 `json:"worst" yaml:"worst"`
	Best  float64 `json:"best" yaml:"best"`
}

// Validate checks the span is non-zero and points the right way
func (p BenchmarkPair) Validate(o Orientation) error {
	switch {
	case p.Worst == p.Best:
		return fmt.Errorf("%w: worst and best are both %v", ErrInvalidBenchmark, p.Worst)
	case o == HigherIsBetter && p.Best < p.Worst:
		return fmt.Errorf("%w: best %v must exceed worst %v", ErrInvalidBenchmark, p.Best, p.Worst)
	case o == LowerIsBetter && p.Worst < p.Best:
		return fmt.Errorf("%w: worst %v must exceed best %v", ErrInvalidBenchmark, p.Worst, p.Best)
	}
	return nil
}

// Score normalises value against the pair in the given orientation
func (p BenchmarkPair) Score(value float64, o Orientation) float64 {
	if o == LowerIsBetter {
		return NormaliseInverse(value, p.Best, p.Worst)
	}
	return Normalise(value, p.Worst, p.Best)
}

// Benchmarks is the calibration registry handed to the aggregators.
// It is built once at startup and treated as read-only afterwards.
type Benchmarks struct {
	Return map[ReturnMetric]BenchmarkPair               `json:"return" yaml:"return"`
	Risk   map[RiskProfile]map[RiskMetric]BenchmarkPair `json:"risk" yaml:"risk"`
}

// DefaultBenchmarks returns the standard calibration.
//
// Return anchors are decimals (0.15 = 15% CAGR); consistency is the share of
// positive rolling windows (0.80 = 80%). Growth tolerates more risk than core
// before penalising.
func DefaultBenchmarks() *Benchmarks {
	return &Benchmarks{
		Return: map[ReturnMetric]BenchmarkPair{
			MetricCAGR5Y:      {Worst: 0.00, Best: 0.15},
			MetricCAGR10Y:     {Worst: 0.00, Best: 0.12},
			MetricConsistency: {Worst: 0.30, Best: 0.80},
		},
		Risk: map[RiskProfile]map[RiskMetric]BenchmarkPair{
			ProfileCore: {
				MetricMaxDrawdown:        {Worst: 0.50, Best: 0.15},
				MetricVolatility:         {Worst: 0.35, Best: 0.15},
				MetricDownsideVolatility: {Worst: 0.30, Best: 0.10},
			},
			ProfileGrowth: {
				MetricMaxDrawdown:        {Worst: 0.70, Best: 0.25},
				MetricVolatility:         {Worst: 0.45, Best: 0.25},
				MetricDownsideVolatility: {Worst: 0.40, Best: 0.15},
			},
		},
	}
}

// RiskProfiles returns the configured profiles in sorted order
func (b *Benchmarks) RiskProfiles() []RiskProfile {
	profiles := make([]RiskProfile, 0, len(b.Risk))
	for p := range b.Risk {
		profiles = append(profiles, p)
	}
	sort.Slice(profiles, func(i, j int) bool { return profiles[i] < profiles[j] })
	return profiles
}

// CheckProfile returns an UnknownProfileError if the profile is not configured
func (b *Benchmarks) CheckProfile(profile RiskProfile) error {
	if _, ok := b.Risk[profile]; ok {
		return nil
	}

	profiles := b.RiskProfiles()
	valid := make([]string, len(profiles))
	for i, p := range profiles {
		valid[i] = string(p)
	}
	return &UnknownProfileError{Profile: string(profile), Valid: valid}
}

// ReturnPair looks up the calibration of a Return metric
func (b *Benchmarks) ReturnPair(metric ReturnMetric) (BenchmarkPair, error) {
	pair, ok := b.Return[metric]
	if !ok {
		return BenchmarkPair{}, fmt.Errorf("%w: return metric %q", ErrMissingBenchmark, metric)
	}
	return pair, nil
}

// RiskPair looks up the calibration of a Risk metric under a profile
func (b *Benchmarks) RiskPair(profile RiskProfile, metric RiskMetric) (BenchmarkPair, error) {
	if err := b.CheckProfile(profile); err != nil {
		return BenchmarkPair{}, err
	}

	pair, ok := b.Risk[profile][metric]
	if !ok {
		return BenchmarkPair{}, fmt.Errorf("%w: risk metric %q for profile %q", ErrMissingBenchmark, metric, profile)
	}
	return pair, nil
}

// Validate checks every metric is calibrated with a well-formed pair
func (b *Benchmarks) Validate() error {
	for _, metric := range AllReturnMetrics() {
		pair, err := b.ReturnPair(metric)
		if err != nil {
			return err
		}
		if err := pair.Validate(HigherIsBetter); err != nil {
			return fmt.Errorf("return metric %q: %w", metric, err)
		}
	}

	if len(b.Risk) == 0 {
		return fmt.Errorf("%w: no risk profiles configured", ErrMissingBenchmark)
	}
	for _, profile := range b.RiskProfiles() {
		for _, metric := range AllRiskMetrics() {
			pair, err := b.RiskPair(profile, metric)
			if err != nil {
				return err
			}
			if err := pair.Validate(LowerIsBetter); err != nil {
				return fmt.Errorf("profile %q metric %q: %w", profile, metric, err)
			}
		}
	}

	return nil
}

// Clone returns a deep copy so callers can derive overrides safely
func (b *Benchmarks) Clone() *Benchmarks {
	clone := &Benchmarks{
		Return: make(map[ReturnMetric]BenchmarkPair, len(b.Return)),
		Risk:   make(map[RiskProfile]map[RiskMetric]BenchmarkPair, len(b.Risk)),
	}
	for metric, pair := range b.Return {
		clone.Return[metric] = pair
	}
	for profile, pairs := range b.Risk {
		clone.Risk[profile] = make(map[RiskMetric]BenchmarkPair, len(pairs))
		for metric, pair := range pairs {
			clone.Risk[profile][metric] = pair
		}
	}
	return clone
}
