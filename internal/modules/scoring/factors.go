package scoring

import (
	"bytes"
	"encoding/json"
)

// Factor names one axis of the portfolio comparison frame
type Factor string

// Canonical factors. Only Return and Risk are computed today; the others hold
// NeutralScore so the comparison frame always has six axes.
const (
	FactorReturn              Factor = "Return"
	FactorRisk                Factor = "Risk"
	FactorQuality             Factor = "Quality"
	FactorGrowth              Factor = "Growth"
	FactorFinancialStrength   Factor = "Financial Strength"
	FactorValuationDiscipline Factor = "Valuation Discipline"
)

// NeutralScore fills factors that are not implemented
const NeutralScore = 50.0

// Factors returns the canonical factors in display order
func Factors() []Factor {
	return []Factor{
		FactorReturn,
		FactorRisk,
		FactorQuality,
		FactorGrowth,
		FactorFinancialStrength,
		FactorValuationDiscipline,
	}
}

// FactorScore is one factor's score with the normalised components behind it
type FactorScore struct {
	Score      float64            `json:"score"`
	Components map[string]float64 `json:"components"`
}

// FactorMap maps every canonical factor to a score in [0, 100]
type FactorMap map[Factor]float64

// NewFactorMap builds a map with all canonical factors present, using
// NeutralScore for any factor missing from scores.
func NewFactorMap(scores map[Factor]float64) FactorMap {
	m := make(FactorMap, len(Factors()))
	for _, f := range Factors() {
		if score, ok := scores[f]; ok {
			m[f] = score
		} else {
			m[f] = NeutralScore
		}
	}
	return m
}

// MarshalJSON writes the canonical factors in display order
func (m FactorMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, f := range Factors() {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(f))
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(m[f])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
