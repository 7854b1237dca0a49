package testing

import (
	"time"

	"github.com/aristath/factorlens/internal/domain"
)

// NewDailyPriceFixtures returns one price per calendar day starting at start,
// with Close and AdjClose both set to the given values.
func NewDailyPriceFixtures(start time.Time, closes ...float64) []domain.DailyPrice {
	prices := make([]domain.DailyPrice, len(closes))
	for i, c := range closes {
		prices[i] = domain.DailyPrice{
			Date:     start.AddDate(0, 0, i).Format("2006-01-02"),
			Close:    c,
			AdjClose: c,
			Volume:   1000,
		}
	}
	return prices
}

// NewCompanyMetadataFixture returns display metadata for a ticker
func NewCompanyMetadataFixture(ticker string) *domain.CompanyMetadata {
	return &domain.CompanyMetadata{
		FetchedAt:   time.Date(2025, 1, 20, 12, 0, 0, 0, time.UTC),
		Ticker:      ticker,
		Name:        ticker + " Inc.",
		Sector:      "Technology",
		Industry:    "Software",
		Exchange:    "NMS",
		ProductType: domain.ProductTypeEquity,
	}
}
