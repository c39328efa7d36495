package store

import (
	"context"
	"database/sql"
)

// CacheEntry is one durable provider response, keyed by request fingerprint.
// CreatedAt is unix seconds; freshness is judged by the caller against its TTL.
type CacheEntry struct {
	Key       string `json:"key"`
	Payload   string `json:"payload"`
	CreatedAt int64  `json:"created_at"`
}

// GetCacheEntry retrieves a cache entry by key. Returns nil, nil if not found.
func (db *DB) GetCacheEntry(ctx context.Context, key string) (*CacheEntry, error) {
	var e CacheEntry
	err := db.QueryRowContext(ctx,
		`SELECT key, payload, created_at FROM provider_cache WHERE key = ?`, key,
	).Scan(&e.Key, &e.Payload, &e.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// PutCacheEntry stores or replaces a cache entry.
func (db *DB) PutCacheEntry(ctx context.Context, key, payload string, createdAt int64) error {
	_, err := db.ExecContext(ctx,
		`INSERT INTO provider_cache (key, payload, created_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload=excluded.payload, created_at=excluded.created_at`,
		key, payload, createdAt,
	)
	return err
}

// PurgeExpiredCache deletes entries created before cutoff (unix seconds) and
// returns how many were removed.
func (db *DB) PurgeExpiredCache(ctx context.Context, cutoff int64) (int64, error) {
	res, err := db.ExecContext(ctx,
		`DELETE FROM provider_cache WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
