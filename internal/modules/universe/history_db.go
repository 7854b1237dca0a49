package universe

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/factorlens/internal/database"
	"github.com/aristath/factorlens/internal/domain"
)

// HistoryDB provides access to cached daily price data
type HistoryDB struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewHistoryDB creates a new history database accessor
func NewHistoryDB(db *sql.DB, log zerolog.Logger) *HistoryDB {
	return &HistoryDB{
		db:  db,
		log: log.With().Str("component", "history_db").Logger(),
	}
}

// SyncInfo describes the last successful sync of a ticker
type SyncInfo struct {
	Ticker    string    `json:"ticker"`
	SyncedAt  time.Time `json:"synced_at"`
	Points    int       `json:"points"`
	FirstDate string    `json:"first_date,omitempty"`
	LastDate  string    `json:"last_date,omitempty"`
}

// GetDailyPrices fetches every cached price of a ticker, oldest first
func (h *HistoryDB) GetDailyPrices(ctx context.Context, ticker string) ([]domain.DailyPrice, error) {
	query := `
		SELECT date, close, adjusted_close, volume
		FROM daily_prices
		WHERE ticker = ?
		ORDER BY date ASC
	`

	rows, err := h.db.QueryContext(ctx, query, ticker)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily prices: %w", err)
	}
	defer rows.Close()

	var prices []domain.DailyPrice
	for rows.Next() {
		var p domain.DailyPrice
		var dateUnix int64
		var volume sql.NullInt64

		if err := rows.Scan(&dateUnix, &p.Close, &p.AdjClose, &volume); err != nil {
			return nil, fmt.Errorf("failed to scan daily price: %w", err)
		}

		p.Date = time.Unix(dateUnix, 0).UTC().Format("2006-01-02")
		if volume.Valid {
			p.Volume = volume.Int64
		}

		prices = append(prices, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating daily prices: %w", err)
	}

	return prices, nil
}

// SyncHistoricalPrices replaces a ticker's price history and records the sync
// in a single transaction. Adjusted closes are rescaled upstream after every
// dividend or split, so rows from an earlier fetch are never kept.
func (h *HistoryDB) SyncHistoricalPrices(ctx context.Context, ticker string, prices []domain.DailyPrice, syncedAt time.Time) error {
	err := database.WithTransaction(h.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM daily_prices WHERE ticker = ?", ticker); err != nil {
			return fmt.Errorf("failed to clear previous prices: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT OR REPLACE INTO daily_prices
			(ticker, date, close, adjusted_close, volume)
			VALUES (?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("failed to prepare statement: %w", err)
		}
		defer stmt.Close()

		var firstUnix, lastUnix sql.NullInt64
		for _, price := range prices {
			dateUnix, err := dateToUnix(price.Date)
			if err != nil {
				return err
			}

			volume := sql.NullInt64{Int64: price.Volume, Valid: price.Volume > 0}
			if _, err := stmt.ExecContext(ctx, ticker, dateUnix, price.Close, price.AdjClose, volume); err != nil {
				return fmt.Errorf("failed to insert daily price for %s: %w", price.Date, err)
			}

			if !firstUnix.Valid || dateUnix < firstUnix.Int64 {
				firstUnix = sql.NullInt64{Int64: dateUnix, Valid: true}
			}
			if !lastUnix.Valid || dateUnix > lastUnix.Int64 {
				lastUnix = sql.NullInt64{Int64: dateUnix, Valid: true}
			}
		}

		_, err = tx.ExecContext(ctx, `
			INSERT OR REPLACE INTO price_sync (ticker, synced_at, points, first_date, last_date)
			VALUES (?, ?, ?, ?, ?)
		`, ticker, syncedAt.Unix(), len(prices), firstUnix, lastUnix)
		if err != nil {
			return fmt.Errorf("failed to record sync: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to sync prices for %s: %w", ticker, err)
	}

	h.log.Info().
		Str("ticker", ticker).
		Int("count", len(prices)).
		Msg("Synced historical prices")

	return nil
}

// GetSyncInfo returns the last sync of a ticker, or nil if it was never synced
func (h *HistoryDB) GetSyncInfo(ctx context.Context, ticker string) (*SyncInfo, error) {
	var info SyncInfo
	var syncedAt int64
	var firstUnix, lastUnix sql.NullInt64

	err := h.db.QueryRowContext(ctx, `
		SELECT ticker, synced_at, points, first_date, last_date
		FROM price_sync
		WHERE ticker = ?
	`, ticker).Scan(&info.Ticker, &syncedAt, &info.Points, &firstUnix, &lastUnix)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sync info: %w", err)
	}

	info.SyncedAt = time.Unix(syncedAt, 0).UTC()
	if firstUnix.Valid {
		info.FirstDate = time.Unix(firstUnix.Int64, 0).UTC().Format("2006-01-02")
	}
	if lastUnix.Valid {
		info.LastDate = time.Unix(lastUnix.Int64, 0).UTC().Format("2006-01-02")
	}

	return &info, nil
}

// DeletePricesBefore removes cached prices older than cutoff.
// Used to keep the cache bounded to the scoring look-back.
func (h *HistoryDB) DeletePricesBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := h.db.ExecContext(ctx, "DELETE FROM daily_prices WHERE date < ?", cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old prices: %w", err)
	}

	rowsAffected, _ := result.RowsAffected()
	if rowsAffected > 0 {
		h.log.Info().
			Int64("rows_deleted", rowsAffected).
			Time("older_than", cutoff).
			Msg("Deleted old daily prices")
	}

	return rowsAffected, nil
}

// dateToUnix converts YYYY-MM-DD to a Unix timestamp at midnight UTC
func dateToUnix(date string) (int64, error) {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, fmt.Errorf("failed to parse date %s: %w", date, err)
	}
	return t.Unix(), nil
}
