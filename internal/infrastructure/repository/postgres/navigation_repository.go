package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"
)

// NavigationRepository stores dashboard navigation as one row per storage key.
type NavigationRepository struct {
	db  *sql.DB
	now func() time.Time
}

func NewNavigationRepository(db *sql.DB) *NavigationRepository {
	return &NavigationRepository{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

func (r *NavigationRepository) EnsureSchema(ctx context.Context) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	// Serialize bootstrap DDL across api/worker startups.
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, int64(2026101601)); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}

	const query = `
CREATE TABLE IF NOT EXISTS navigation_state (
	user_id TEXT NOT NULL,
	storage_key TEXT NOT NULL,
	value TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (user_id, storage_key)
);
`
	if _, err := tx.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("execute schema ddl: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema tx: %w", err)
	}
	return nil
}

func (r *NavigationRepository) Load(ctx context.Context, userID string) (map[string]string, error) {
	rows, err := r.db.QueryContext(ctx, `
SELECT storage_key, value
FROM navigation_state
WHERE user_id = $1
`, userID)
	if err != nil {
		return nil, fmt.Errorf("query navigation state: %w", err)
	}
	defer rows.Close()

	entries := map[string]string{}
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan navigation entry: %w", err)
		}
		entries[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate navigation entries: %w", err)
	}
	return entries, nil
}

// Save upserts every entry in one transaction. Keys missing from entries keep
// their stored value.
func (r *NavigationRepository) Save(ctx context.Context, userID string, entries map[string]string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin navigation tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	keys := make([]string, 0, len(entries))
	for k := range entries {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	now := r.now()
	for _, key := range keys {
		_, err := tx.ExecContext(ctx, `
INSERT INTO navigation_state (user_id, storage_key, value, updated_at)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id, storage_key) DO UPDATE
SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at
`, userID, key, entries[key], now)
		if err != nil {
			return fmt.Errorf("upsert navigation entry %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit navigation tx: %w", err)
	}
	return nil
}
