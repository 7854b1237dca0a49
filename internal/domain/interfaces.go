package domain

import (
	"context"

	"github.com/aristath/factorlens/pkg/formulas"
)

// PriceSource provides adjusted daily close histories.
// Implementations return series ordered by date, oldest first.
type PriceSource interface {
	GetPriceSeries(ctx context.Context, ticker string) (formulas.PriceSeries, error)
}

// MetadataSource provides descriptive company data for display
type MetadataSource interface {
	GetMetadata(ctx context.Context, ticker string) (*CompanyMetadata, error)
}

// UniverseProvider resolves named ticker groups
type UniverseProvider interface {
	// Names returns the universe names in display order
	Names() []string
	// Tickers returns the tickers of a universe, or false if it does not exist
	Tickers(name string) ([]string, bool)
}
