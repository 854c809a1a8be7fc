package prices

import (
	"database/sql"
	"time"

	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
)

// Cache is a TTL cache for computed series, persisted in the series_cache
// table so entries survive restarts. Values are msgpack-encoded.
type Cache struct {
	db  *sql.DB
	log zerolog.Logger
}

// NewCache creates a new series cache
func NewCache(db *sql.DB, log zerolog.Logger) *Cache {
	return &Cache{
		db:  db,
		log: log.With().Str("component", "series_cache").Logger(),
	}
}

// Get loads a cached value into dest. Returns false on miss, expiry, or
// decode failure; cache problems never fail a request.
func (c *Cache) Get(key string, dest interface{}) bool {
	var payload []byte
	var expiresAt int64

	err := c.db.QueryRow(
		"SELECT payload, expires_at FROM series_cache WHERE cache_key = ?", key,
	).Scan(&payload, &expiresAt)
	if err != nil {
		return false
	}

	if time.Now().Unix() >= expiresAt {
		_, _ = c.db.Exec("DELETE FROM series_cache WHERE cache_key = ?", key)
		return false
	}

	if err := msgpack.Unmarshal(payload, dest); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Failed to decode cached payload")
		_, _ = c.db.Exec("DELETE FROM series_cache WHERE cache_key = ?", key)
		return false
	}
	return true
}

// Set stores a value under key with the given TTL, replacing any previous
// entry. Failures are logged and swallowed.
func (c *Cache) Set(key string, value interface{}, ttl time.Duration) {
	payload, err := msgpack.Marshal(value)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Failed to encode cache payload")
		return
	}

	expiresAt := time.Now().Add(ttl).Unix()
	_, err = c.db.Exec(
		"INSERT OR REPLACE INTO series_cache (cache_key, payload, expires_at) VALUES (?, ?, ?)",
		key, payload, expiresAt,
	)
	if err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("Failed to store cache entry")
	}
}

// PurgeExpired removes all expired entries and returns how many were
// deleted
func (c *Cache) PurgeExpired() (int64, error) {
	result, err := c.db.Exec(
		"DELETE FROM series_cache WHERE expires_at < ?", time.Now().Unix(),
	)
	if err != nil {
		return 0, err
	}
	deleted, _ := result.RowsAffected()
	if deleted > 0 {
		c.log.Debug().Int64("deleted", deleted).Msg("Purged expired cache entries")
	}
	return deleted, nil
}
