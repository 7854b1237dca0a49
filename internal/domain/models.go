// Package domain provides core domain models and types.
package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/aristath/factorlens/pkg/formulas"
)

// ProductType represents the type of financial product/instrument
type ProductType string

const (
	// ProductTypeEquity represents individual stocks/shares
	ProductTypeEquity ProductType = "EQUITY"
	// ProductTypeETF represents Exchange Traded Funds
	ProductTypeETF ProductType = "ETF"
	// ProductTypeMutualFund represents mutual funds
	ProductTypeMutualFund ProductType = "MUTUALFUND"
	// ProductTypeIndex represents market indices (non-tradeable)
	ProductTypeIndex ProductType = "INDEX"
	// ProductTypeUnknown represents unknown type
	ProductTypeUnknown ProductType = "UNKNOWN"
)

// ParseProductType maps a quote type reported by a data provider to a ProductType
func ParseProductType(quoteType string) ProductType {
	switch ProductType(strings.ToUpper(strings.TrimSpace(quoteType))) {
	case ProductTypeEquity:
		return ProductTypeEquity
	case ProductTypeETF:
		return ProductTypeETF
	case ProductTypeMutualFund:
		return ProductTypeMutualFund
	case ProductTypeIndex:
		return ProductTypeIndex
	default:
		return ProductTypeUnknown
	}
}

// CompanyMetadata is descriptive data about a ticker.
// It is display-only and never affects scores.
type CompanyMetadata struct {
	FetchedAt   time.Time   `json:"fetched_at" msgpack:"fetched_at"`
	Ticker      string      `json:"ticker" msgpack:"ticker"`
	Name        string      `json:"name" msgpack:"name"`
	Sector      string      `json:"sector,omitempty" msgpack:"sector"`
	Industry    string      `json:"industry,omitempty" msgpack:"industry"`
	Exchange    string      `json:"exchange,omitempty" msgpack:"exchange"`
	ProductType ProductType `json:"product_type" msgpack:"product_type"`
}

// DailyPrice is one adjusted daily close of a ticker
type DailyPrice struct {
	Date     string  `json:"date"` // YYYY-MM-DD
	Close    float64 `json:"close"`
	AdjClose float64 `json:"adj_close"`
	Volume   int64   `json:"volume"`
}

// NormalizeTicker trims and upper-cases a ticker symbol
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// NormalizeTickers normalises tickers, dropping blanks and repeats while
// keeping first-seen order.
func NormalizeTickers(tickers []string) []string {
	seen := make(map[string]bool, len(tickers))
	out := make([]string, 0, len(tickers))
	for _, t := range tickers {
		t = NormalizeTicker(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// ToPriceSeries converts stored daily prices into an adjusted close series.
// Rows must be ordered by date.
func ToPriceSeries(prices []DailyPrice) (formulas.PriceSeries, error) {
	series := make(formulas.PriceSeries, 0, len(prices))
	for _, p := range prices {
		date, err := time.Parse("2006-01-02", p.Date)
		if err != nil {
			return nil, fmt.Errorf("invalid price date %q: %w", p.Date, err)
		}
		series = append(series, formulas.PricePoint{Date: date, Price: p.AdjClose})
	}
	return series, nil
}
