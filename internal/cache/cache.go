// Package cache persists generated summaries in a local sqlite database.
//
// All writes go through a dedicated connection capped at one open conn,
// so concurrent category workers never interleave a write.
package cache

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/matheuskafuri/pulse/internal/health"
	_ "modernc.org/sqlite"
)

type Store struct {
	readDB  *sql.DB
	writeDB *sql.DB
}

func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache dir: %w", err)
	}

	writeDB, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening write db: %w", err)
	}
	writeDB.SetMaxOpenConns(1)

	readDB, err := sql.Open("sqlite", dbPath+"?mode=ro")
	if err != nil {
		writeDB.Close()
		return nil, fmt.Errorf("opening read db: %w", err)
	}

	s := &Store{readDB: readDB, writeDB: writeDB}
	if err := s.init(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	_, err := s.writeDB.Exec(`
		CREATE TABLE IF NOT EXISTS summaries (
			category     TEXT NOT NULL,
			timespan     TEXT NOT NULL,
			generated_at DATETIME NOT NULL,
			text_summary TEXT NOT NULL,
			has_data     INTEGER NOT NULL,
			metrics      TEXT NOT NULL DEFAULT '{}',
			PRIMARY KEY (category, timespan)
		);

		CREATE TABLE IF NOT EXISTS meta (
			key   TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("initializing schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	var errs []error
	if s.readDB != nil {
		errs = append(errs, s.readDB.Close())
	}
	if s.writeDB != nil {
		errs = append(errs, s.writeDB.Close())
	}
	for _, e := range errs {
		if e != nil {
			return e
		}
	}
	return nil
}

// Get returns the cached summary for the key, or nil when absent.
// Pure read, no side effects.
func (s *Store) Get(cat health.Category, span health.TimeSpan) (*health.TimespanSummary, error) {
	row := s.readDB.QueryRow(`
		SELECT generated_at, text_summary, has_data, metrics
		FROM summaries WHERE category = ? AND timespan = ?
	`, string(cat), string(span))

	var (
		sum        health.TimespanSummary
		hasData    int
		metricsRaw string
	)
	err := row.Scan(&sum.GeneratedAt, &sum.Text, &hasData, &metricsRaw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying summary %s/%s: %w", cat, span, err)
	}

	sum.Category = cat
	sum.Span = span
	sum.HasData = hasData != 0
	if metricsRaw != "" && metricsRaw != "{}" {
		if err := json.Unmarshal([]byte(metricsRaw), &sum.Metrics); err != nil {
			return nil, fmt.Errorf("decoding metrics payload %s/%s: %w", cat, span, err)
		}
	}
	return &sum, nil
}

// Put upserts the summary under its (category, timespan) key.
// Last write wins; the previous row is fully replaced.
func (s *Store) Put(sum *health.TimespanSummary) error {
	payload, err := json.Marshal(sum.Metrics)
	if err != nil {
		return fmt.Errorf("encoding metrics payload: %w", err)
	}

	hasData := 0
	if sum.HasData {
		hasData = 1
	}

	_, err = s.writeDB.Exec(`
		INSERT INTO summaries (category, timespan, generated_at, text_summary, has_data, metrics)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(category, timespan) DO UPDATE SET
			generated_at = excluded.generated_at,
			text_summary = excluded.text_summary,
			has_data     = excluded.has_data,
			metrics      = excluded.metrics
	`, string(sum.Category), string(sum.Span), sum.GeneratedAt, sum.Text, hasData, string(payload))
	if err != nil {
		return fmt.Errorf("upserting summary %s/%s: %w", sum.Category, sum.Span, err)
	}
	return nil
}

// Prune removes summaries whose generated_at is older than the
// retention window. Maintenance only; the refresh pipeline never
// deletes.
func (s *Store) Prune(retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	res, err := s.writeDB.Exec("DELETE FROM summaries WHERE generated_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("pruning summaries: %w", err)
	}
	return res.RowsAffected()
}

// Stats reports row count and on-disk size.
func (s *Store) Stats(dbPath string) (count int64, size int64, err error) {
	if err := s.readDB.QueryRow("SELECT COUNT(*) FROM summaries").Scan(&count); err != nil {
		return 0, 0, fmt.Errorf("counting summaries: %w", err)
	}
	info, err := os.Stat(dbPath)
	if err != nil {
		return count, 0, err
	}
	return count, info.Size(), nil
}

// LastRefresh returns the timestamp of the last completed full refresh,
// or the zero time when none is recorded.
func (s *Store) LastRefresh() time.Time {
	var value string
	if err := s.readDB.QueryRow("SELECT value FROM meta WHERE key = 'last_refresh'").Scan(&value); err != nil {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}

func (s *Store) SetLastRefresh() error {
	_, err := s.writeDB.Exec(`
		INSERT INTO meta (key, value) VALUES ('last_refresh', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, time.Now().Format(time.RFC3339))
	return err
}
