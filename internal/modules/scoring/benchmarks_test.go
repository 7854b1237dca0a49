package scoring

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultBenchmarks_Valid(t *testing.T) {
	b := DefaultBenchmarks()
	require.NoError(t, b.Validate())
	assert.Equal(t, []RiskProfile{ProfileCore, ProfileGrowth}, b.RiskProfiles())

	pair, err := b.RiskPair(ProfileGrowth, MetricMaxDrawdown)
	require.NoError(t, err)
	assert.Equal(t, BenchmarkPair{Worst: 0.70, Best: 0.25}, pair)

	pair, err = b.ReturnPair(MetricCAGR10Y)
	require.NoError(t, err)
	assert.Equal(t, BenchmarkPair{Worst: 0.0, Best: 0.12}, pair)
}

func TestBenchmarks_CheckProfile(t *testing.T) {
	b := DefaultBenchmarks()

	assert.NoError(t, b.CheckProfile(ProfileCore))
	assert.NoError(t, b.CheckProfile(ProfileGrowth))

	err := b.CheckProfile("aggressive")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownProfile))

	var profileErr *UnknownProfileError
	require.True(t, errors.As(err, &profileErr))
	assert.Equal(t, "aggressive", profileErr.Profile)
	assert.Equal(t, []string{"core", "growth"}, profileErr.Valid)
	assert.Contains(t, err.Error(), `"core","growth"`)
}

func TestBenchmarks_RiskPairUnknownProfile(t *testing.T) {
	_, err := DefaultBenchmarks().RiskPair("aggressive", MetricVolatility)
	assert.ErrorIs(t, err, ErrUnknownProfile)
}

func TestParseRiskProfile(t *testing.T) {
	assert.Equal(t, ProfileCore, ParseRiskProfile("  Core "))
	assert.Equal(t, ProfileGrowth, ParseRiskProfile("GROWTH"))
	assert.Equal(t, RiskProfile("aggressive"), ParseRiskProfile("aggressive"))
}

func TestBenchmarkPair_Validate(t *testing.T) {
	tests := []struct {
		name        string
		pair        BenchmarkPair
		orientation Orientation
		wantErr     bool
	}{
		{name: "higher is better ok", pair: BenchmarkPair{Worst: 0, Best: 0.15}, orientation: HigherIsBetter},
		{name: "lower is better ok", pair: BenchmarkPair{Worst: 0.5, Best: 0.15}, orientation: LowerIsBetter},
		{name: "zero span", pair: BenchmarkPair{Worst: 0.2, Best: 0.2}, orientation: HigherIsBetter, wantErr: true},
		{name: "inverted higher", pair: BenchmarkPair{Worst: 0.15, Best: 0}, orientation: HigherIsBetter, wantErr: true},
		{name: "inverted lower", pair: BenchmarkPair{Worst: 0.15, Best: 0.5}, orientation: LowerIsBetter, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.pair.Validate(tt.orientation)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidBenchmark)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestParseBenchmarks(t *testing.T) {
	t.Run("merges overrides onto defaults", func(t *testing.T) {
		b, err := ParseBenchmarks([]byte(`
return:
  cagr_5y: {worst: 0.02, best: 0.20}
risk:
  core:
    volatility: {worst: 0.30, best: 0.10}
`))
		require.NoError(t, err)

		pair, _ := b.ReturnPair(MetricCAGR5Y)
		assert.Equal(t, BenchmarkPair{Worst: 0.02, Best: 0.20}, pair)
		pair, _ = b.ReturnPair(MetricCAGR10Y)
		assert.Equal(t, BenchmarkPair{Worst: 0.0, Best: 0.12}, pair)
		pair, _ = b.RiskPair(ProfileCore, MetricVolatility)
		assert.Equal(t, BenchmarkPair{Worst: 0.30, Best: 0.10}, pair)
		pair, _ = b.RiskPair(ProfileCore, MetricMaxDrawdown)
		assert.Equal(t, BenchmarkPair{Worst: 0.50, Best: 0.15}, pair)
	})

	t.Run("adds a complete new profile", func(t *testing.T) {
		b, err := ParseBenchmarks([]byte(`
risk:
  Defensive:
    max_drawdown: {worst: 0.30, best: 0.10}
    volatility: {worst: 0.20, best: 0.08}
    downside_volatility: {worst: 0.15, best: 0.05}
`))
		require.NoError(t, err)
		assert.Equal(t, []RiskProfile{ProfileCore, "defensive", ProfileGrowth}, b.RiskProfiles())
	})

	t.Run("rejects an incomplete new profile", func(t *testing.T) {
		_, err := ParseBenchmarks([]byte(`
risk:
  defensive:
    volatility: {worst: 0.20, best: 0.08}
`))
		assert.ErrorIs(t, err, ErrMissingBenchmark)
	})

	t.Run("rejects an inverted pair", func(t *testing.T) {
		_, err := ParseBenchmarks([]byte(`
risk:
  growth:
    volatility: {worst: 0.10, best: 0.45}
`))
		assert.ErrorIs(t, err, ErrInvalidBenchmark)
	})

	t.Run("rejects malformed yaml", func(t *testing.T) {
		_, err := ParseBenchmarks([]byte("return: ["))
		assert.Error(t, err)
	})

	t.Run("does not mutate the defaults", func(t *testing.T) {
		_, err := ParseBenchmarks([]byte(`return: {cagr_5y: {worst: 0.05, best: 0.25}}`))
		require.NoError(t, err)
		pair, _ := DefaultBenchmarks().ReturnPair(MetricCAGR5Y)
		assert.Equal(t, BenchmarkPair{Worst: 0.0, Best: 0.15}, pair)
	})
}

func TestLoadBenchmarks(t *testing.T) {
	b, err := LoadBenchmarks("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBenchmarks(), b)

	path := filepath.Join(t.TempDir(), "benchmarks.yaml")
	require.NoError(t, os.WriteFile(path, []byte("return:\n  consistency: {worst: 0.40, best: 0.90}\n"), 0o644))

	b, err = LoadBenchmarks(path)
	require.NoError(t, err)
	pair, _ := b.ReturnPair(MetricConsistency)
	assert.Equal(t, BenchmarkPair{Worst: 0.40, Best: 0.90}, pair)

	_, err = LoadBenchmarks(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestBenchmarks_Clone(t *testing.T) {
	original := DefaultBenchmarks()
	clone := original.Clone()
	clone.Risk[ProfileCore][MetricVolatility] = BenchmarkPair{Worst: 1, Best: 0}

	pair, _ := original.RiskPair(ProfileCore, MetricVolatility)
	assert.Equal(t, BenchmarkPair{Worst: 0.35, Best: 0.15}, pair)
}
