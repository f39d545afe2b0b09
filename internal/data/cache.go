package data

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// WeatherCache persists raw PSM3 payloads in a local SQLite database so
// repeated runs against the same location, year, and interval skip the
// download. Entries never expire: NSRDB historical years are immutable
// once published, and a TMY changes rarely enough that clearing the cache
// by hand is acceptable.
type WeatherCache struct {
	db *sql.DB
}

type cacheMigration struct {
	Version     int
	Description string
	SQL         string
}

var cacheMigrations = []cacheMigration{
	{
		Version:     1,
		Description: "Initial schema",
		SQL: `
CREATE TABLE IF NOT EXISTS weather_payloads (
    request_key TEXT PRIMARY KEY,
    payload BLOB NOT NULL,
    fetched_at DATETIME NOT NULL
);
`,
	},
}

// OpenWeatherCache opens the cache database at path, creating it and
// applying any pending schema migrations as needed.
func OpenWeatherCache(path string) (*WeatherCache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open cache database: %w", err)
	}

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	c := &WeatherCache{db: db}
	if err := c.migrate(); err != nil {
		db.Close()
		return nil, err
	}
	return c, nil
}

func (c *WeatherCache) Close() error {
	return c.db.Close()
}

func (c *WeatherCache) migrate() error {
	if err := c.ensureMigrationsTable(); err != nil {
		return fmt.Errorf("ensure migrations table: %w", err)
	}

	applied, err := c.appliedMigrations()
	if err != nil {
		return fmt.Errorf("get applied migrations: %w", err)
	}

	for _, m := range cacheMigrations {
		if applied[m.Version] {
			continue
		}

		log.Debug().Int("version", m.Version).Str("description", m.Description).Msg("applying cache migration")

		tx, err := c.db.Begin()
		if err != nil {
			return fmt.Errorf("begin tx for migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("execute migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec(
			"INSERT INTO schema_migrations (version, description, applied_at) VALUES (?, ?, ?)",
			m.Version, m.Description, time.Now().UTC(),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}
	return nil
}

func (c *WeatherCache) ensureMigrationsTable() error {
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			description TEXT,
			applied_at DATETIME
		)
	`)
	return err
}

func (c *WeatherCache) appliedMigrations() (map[int]bool, error) {
	rows, err := c.db.Query("SELECT version FROM schema_migrations")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[int]bool)
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			return nil, err
		}
		applied[version] = true
	}
	return applied, rows.Err()
}

// Get returns the cached payload for a request key, or nil when absent.
func (c *WeatherCache) Get(key string) ([]byte, time.Time, error) {
	row := c.db.QueryRow(`SELECT payload, fetched_at FROM weather_payloads WHERE request_key = ?`, key)

	var payload []byte
	var fetchedAt time.Time
	err := row.Scan(&payload, &fetchedAt)
	if err == sql.ErrNoRows {
		return nil, time.Time{}, nil
	}
	if err != nil {
		return nil, time.Time{}, err
	}
	return payload, fetchedAt, nil
}

// Put stores a payload, replacing any previous payload for the key.
func (c *WeatherCache) Put(key string, payload []byte) error {
	_, err := c.db.Exec(`
		INSERT INTO weather_payloads (request_key, payload, fetched_at)
		VALUES (?, ?, ?)
		ON CONFLICT(request_key) DO UPDATE SET
			payload = excluded.payload,
			fetched_at = excluded.fetched_at
	`, key, payload, time.Now().UTC())
	return err
}

// Clear removes all cached payloads.
func (c *WeatherCache) Clear() error {
	_, err := c.db.Exec(`DELETE FROM weather_payloads`)
	return err
}

// CacheStats reports what the cache currently holds.
type CacheStats struct {
	Entries         int
	TotalSizeBytes  int64
	OldestFetchedAt time.Time
	NewestFetchedAt time.Time
}

func (c *WeatherCache) Stats() (*CacheStats, error) {
	row := c.db.QueryRow(`
		SELECT COUNT(*), COALESCE(SUM(LENGTH(payload)), 0), MIN(fetched_at), MAX(fetched_at)
		FROM weather_payloads
	`)

	stats := &CacheStats{}
	var oldest, newest sql.NullTime
	if err := row.Scan(&stats.Entries, &stats.TotalSizeBytes, &oldest, &newest); err != nil {
		return nil, err
	}
	if oldest.Valid {
		stats.OldestFetchedAt = oldest.Time
	}
	if newest.Valid {
		stats.NewestFetchedAt = newest.Time
	}
	return stats, nil
}
