package snapshots

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
)

// Repository is the snapshot store backed by the snapshots table
type Repository struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewRepository creates a new snapshot repository
func NewRepository(db *sql.DB, log zerolog.Logger) *Repository {
	return &Repository{
		db:  db,
		log: log.With().Str("repo", "snapshots").Logger(),
	}
}

// Upsert inserts obs or replaces the row with the same (ts, side, strike).
// A single statement, so concurrent readers never see a partial row.
func (r *Repository) Upsert(ctx context.Context, obs Observation) error {
	if !obs.Side.Valid() {
		return fmt.Errorf("invalid side %q", obs.Side)
	}

	query := `
		INSERT OR REPLACE INTO snapshots (ts, expiry, side, strike, oi, iv, vol)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.ExecContext(ctx, query,
		obs.Timestamp,
		obs.Expiry,
		string(obs.Side),
		obs.Strike,
		obs.OpenInterest,
		obs.ImpliedVolatility,
		obs.TradedVolume,
	)
	if err != nil {
		return fmt.Errorf("%w: upsert %s %d at %d: %w", ErrStorage, obs.Side, obs.Strike, obs.Timestamp, err)
	}

	return nil
}

// QuerySince returns every observation with ts >= cutoff, oldest first
func (r *Repository) QuerySince(ctx context.Context, cutoff int64) ([]Observation, error) {
	query := `
		SELECT ts, expiry, side, strike, oi, iv, vol
		FROM snapshots
		WHERE ts >= ?
		ORDER BY ts ASC, side ASC, strike ASC
	`

	rows, err := r.db.QueryContext(ctx, query, cutoff)
	if err != nil {
		return nil, fmt.Errorf("%w: query since %d: %w", ErrStorage, cutoff, err)
	}
	defer rows.Close()

	return scanObservations(rows)
}

// LatestSnapshot returns all observations sharing the newest timestamp.
// Returns an empty slice when the store is empty.
func (r *Repository) LatestSnapshot(ctx context.Context) ([]Observation, error) {
	query := `
		SELECT ts, expiry, side, strike, oi, iv, vol
		FROM snapshots
		WHERE ts = (SELECT MAX(ts) FROM snapshots)
		ORDER BY side ASC, strike ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: latest snapshot: %w", ErrStorage, err)
	}
	defer rows.Close()

	return scanObservations(rows)
}

// DeleteBefore removes every observation with ts < cutoff.
// Returns the number of rows deleted.
func (r *Repository) DeleteBefore(ctx context.Context, cutoff int64) (int64, error) {
	result, err := r.db.ExecContext(ctx, "DELETE FROM snapshots WHERE ts < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("%w: delete before %d: %w", ErrStorage, cutoff, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: rows affected: %w", ErrStorage, err)
	}

	return deleted, nil
}

func scanObservations(rows *sql.Rows) ([]Observation, error) {
	observations := make([]Observation, 0)
	for rows.Next() {
		var obs Observation
		var side string
		if err := rows.Scan(
			&obs.Timestamp,
			&obs.Expiry,
			&side,
			&obs.Strike,
			&obs.OpenInterest,
			&obs.ImpliedVolatility,
			&obs.TradedVolume,
		); err != nil {
			return nil, fmt.Errorf("%w: scan observation: %w", ErrStorage, err)
		}
		obs.Side = Side(side)
		observations = append(observations, obs)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate observations: %w", ErrStorage, err)
	}

	return observations, nil
}
