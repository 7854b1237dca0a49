package clientdata

import (
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aristath/factorlens/internal/database"
	"github.com/aristath/factorlens/internal/domain"
	testingpkg "github.com/aristath/factorlens/internal/testing"
)

func setupTestDB(t *testing.T) *sql.DB {
	return testingpkg.NewMemoryDB(t, database.NameCache)
}

func TestStoreAndGet(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	meta := domain.CompanyMetadata{
		Ticker:      "AAPL",
		Name:        "Apple Inc.",
		Sector:      "Technology",
		ProductType: domain.ProductTypeEquity,
		FetchedAt:   time.Date(2026, time.March, 2, 10, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Store(TableCompanyMetadata, "AAPL", meta, time.Hour))

	var fresh domain.CompanyMetadata
	ok, err := repo.GetIfFresh(TableCompanyMetadata, "AAPL", &fresh)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Apple Inc.", fresh.Name)
	assert.Equal(t, domain.ProductTypeEquity, fresh.ProductType)
	assert.True(t, meta.FetchedAt.Equal(fresh.FetchedAt))

	var missing domain.CompanyMetadata
	ok, err = repo.GetIfFresh(TableCompanyMetadata, "MSFT", &missing)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestGetIfFresh_Expired(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.Store(TableCompanyMetadata, "NVDA", domain.CompanyMetadata{Name: "NVIDIA"}, time.Hour))
	repo.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	var meta domain.CompanyMetadata
	ok, err := repo.GetIfFresh(TableCompanyMetadata, "NVDA", &meta)
	require.NoError(t, err)
	assert.False(t, ok, "expired entries are not fresh")

	ok, err = repo.Get(TableCompanyMetadata, "NVDA", &meta)
	require.NoError(t, err)
	assert.True(t, ok, "stale entries are still readable")
	assert.Equal(t, "NVIDIA", meta.Name)
}

func TestInvalidTable(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	assert.Error(t, repo.Store("securities; DROP TABLE x", "AAPL", "x", time.Hour))
	_, err := repo.GetIfFresh("nope", "AAPL", &domain.CompanyMetadata{})
	assert.Error(t, err)
	_, err = repo.Get("nope", "AAPL", &domain.CompanyMetadata{})
	assert.Error(t, err)
	assert.Error(t, repo.Delete("nope", "AAPL"))
	_, err = repo.DeleteExpired("nope")
	assert.Error(t, err)
}

func TestDelete(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.Store(TableCompanyMetadata, "AMD", domain.CompanyMetadata{Name: "AMD"}, time.Hour))
	require.NoError(t, repo.Delete(TableCompanyMetadata, "AMD"))

	ok, err := repo.Get(TableCompanyMetadata, "AMD", &domain.CompanyMetadata{})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeleteAllExpired(t *testing.T) {
	repo := NewRepository(setupTestDB(t))

	require.NoError(t, repo.Store(TableCompanyMetadata, "OLD", domain.CompanyMetadata{}, -time.Hour))
	require.NoError(t, repo.Store(TableCompanyMetadata, "NEW", domain.CompanyMetadata{}, time.Hour))

	results, err := repo.DeleteAllExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), results[TableCompanyMetadata])

	ok, err := repo.Get(TableCompanyMetadata, "NEW", &domain.CompanyMetadata{})
	require.NoError(t, err)
	assert.True(t, ok)
}
