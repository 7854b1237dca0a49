package scoring

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseBenchmarks merges YAML overrides on top of the default calibration.
//
// Only the pairs present in the document are replaced; a new profile must
// define every risk metric. The merged registry is validated before it is
// returned.
func ParseBenchmarks(data []byte) (*Benchmarks, error) {
	var overrides Benchmarks
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse benchmarks: %w", err)
	}

	merged := DefaultBenchmarks()
	for metric, pair := range overrides.Return {
		merged.Return[metric] = pair
	}
	for profile, pairs := range overrides.Risk {
		profile = ParseRiskProfile(string(profile))
		if _, ok := merged.Risk[profile]; !ok {
			merged.Risk[profile] = make(map[RiskMetric]BenchmarkPair, len(pairs))
		}
		for metric, pair := range pairs {
			merged.Risk[profile][metric] = pair
		}
	}

	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged, nil
}

// LoadBenchmarks reads overrides from a YAML file. An empty path yields the
// default calibration.
func LoadBenchmarks(path string) (*Benchmarks, error) {
	if path == "" {
		return DefaultBenchmarks(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read benchmarks file: %w", err)
	}

	benchmarks, err := ParseBenchmarks(data)
	if err != nil {
		return nil, fmt.Errorf("benchmarks file %s: %w", path, err)
	}
	return benchmarks, nil
}
