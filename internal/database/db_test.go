package database

import (
	"database/sql"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T, name string, profile DatabaseProfile) *DB {
	t.Helper()
	db, err := New(Config{
		Path:    filepath.Join(t.TempDir(), name+".db"),
		Profile: profile,
		Name:    name,
	})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBuildConnectionString(t *testing.T) {
	standard := buildConnectionString("/data/history.db", ProfileStandard)
	assert.Contains(t, standard, "/data/history.db?_pragma=journal_mode(WAL)")
	assert.Contains(t, standard, "synchronous(NORMAL)")

	cache := buildConnectionString("/data/cache.db", ProfileCache)
	assert.Contains(t, cache, "synchronous(OFF)")
	assert.Contains(t, cache, "busy_timeout(5000)")
}

func TestMigrate(t *testing.T) {
	tests := []struct {
		name    string
		profile DatabaseProfile
		tables  []string
	}{
		{name: NameHistory, profile: ProfileStandard, tables: []string{"daily_prices", "price_sync"}},
		{name: NameCache, profile: ProfileCache, tables: []string{"company_metadata"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := newTestDB(t, tt.name, tt.profile)
			require.NoError(t, db.Migrate())
			// Applying twice is harmless
			require.NoError(t, db.Migrate())

			for _, table := range tt.tables {
				var found string
				err := db.Conn().QueryRow(
					"SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table,
				).Scan(&found)
				require.NoError(t, err, table)
				assert.Equal(t, table, found)
			}
		})
	}
}

func TestApplySchema_UnknownDatabase(t *testing.T) {
	db := newTestDB(t, "ledger", ProfileStandard)
	assert.Error(t, db.Migrate())
}

func TestWithTransaction(t *testing.T) {
	db := newTestDB(t, NameHistory, ProfileStandard)
	require.NoError(t, db.Migrate())

	insert := func(tx *sql.Tx, ticker string) error {
		_, err := tx.Exec("INSERT INTO price_sync (ticker, synced_at, points) VALUES (?, 1, 1)", ticker)
		return err
	}

	require.NoError(t, WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		return insert(tx, "AAPL")
	}))

	err := WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		if err := insert(tx, "MSFT"); err != nil {
			return err
		}
		return errors.New("boom")
	})
	require.Error(t, err)

	err = WithTransaction(db.Conn(), func(tx *sql.Tx) error {
		_ = insert(tx, "NVDA")
		panic("unexpected")
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "panic")

	var count int
	require.NoError(t, db.Conn().QueryRow("SELECT COUNT(*) FROM price_sync").Scan(&count))
	assert.Equal(t, 1, count)

	assert.Error(t, WithTransaction(nil, func(tx *sql.Tx) error { return nil }))
}

func TestGetStats(t *testing.T) {
	db := newTestDB(t, NameCache, ProfileCache)
	require.NoError(t, db.Migrate())
	require.NoError(t, db.WALCheckpoint(""))

	stats, err := db.GetStats()
	require.NoError(t, err)
	assert.Greater(t, stats.PageCount, int64(0))
	assert.Greater(t, stats.PageSize, int64(0))
}
