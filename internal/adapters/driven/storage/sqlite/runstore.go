// Package sqlite persists sync-run history in a SQLite database.
// The index itself lives in bleve; this store only records what each
// sync invocation did, so operators can audit past runs.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/chorus-search/chorus/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/chorus-search/chorus/internal/core/domain"
	"github.com/chorus-search/chorus/internal/core/ports/driven"
)

// Ensure RunStore implements the interface.
var _ driven.RunStore = (*RunStore)(nil)

// RunStore is a SQLite-backed implementation of driven.RunStore.
type RunStore struct {
	db   *sql.DB
	path string
}

// NewRunStore opens (or creates) the history database under dataDir.
// An empty dataDir uses an in-memory database, for tests.
func NewRunStore(dataDir string) (*RunStore, error) {
	dsn := ":memory:"
	var dbPath string
	if dataDir != "" {
		if err := os.MkdirAll(dataDir, 0o700); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		dbPath = filepath.Join(dataDir, "history.db")
		dsn = dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &RunStore{db: db, path: dbPath}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}
	return s, nil
}

// migrate runs all pending migrations from the embedded filesystem.
func (s *RunStore) migrate() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(migrations.FS, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if strings.HasSuffix(entry.Name(), ".up.sql") {
			upFiles = append(upFiles, entry.Name())
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		version := migrationVersion(name)
		if version <= currentVersion {
			continue
		}
		script, err := fs.ReadFile(migrations.FS, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(script)); err != nil {
			return fmt.Errorf("applying migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}
	return nil
}

// migrationVersion extracts the numeric prefix of a migration filename.
func migrationVersion(name string) int {
	prefix, _, _ := strings.Cut(name, "_")
	version := 0
	for _, r := range prefix {
		if r < '0' || r > '9' {
			return 0
		}
		version = version*10 + int(r-'0')
	}
	return version
}

// SaveRun records one sync invocation and its pair outcomes in a
// single transaction.
func (s *RunStore) SaveRun(ctx context.Context, runID string, report *domain.SyncReport) error {
	if report == nil {
		return fmt.Errorf("%w: nil report", domain.ErrConfig)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO sync_runs (run_id, started_at, finished_at)
		VALUES (?, ?, ?)
	`, runID, report.StartedAt.UTC().Format(time.RFC3339), report.FinishedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("saving run: %w", err)
	}

	for _, outcome := range report.Outcomes {
		var errText sql.NullString
		if outcome.Err != nil {
			errText = sql.NullString{String: outcome.Err.Error(), Valid: true}
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO sync_run_pairs (run_id, kind, instance, status, added, updated, deleted, error)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		`, runID, outcome.Kind, outcome.Instance, string(outcome.Status),
			outcome.Added, outcome.Updated, outcome.Deleted, errText)
		if err != nil {
			return fmt.Errorf("saving pair outcome: %w", err)
		}
	}

	return tx.Commit()
}

// ListRuns returns recorded run summaries, newest first.
func (s *RunStore) ListRuns(ctx context.Context, limit int) ([]driven.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT r.run_id, r.started_at, r.finished_at,
		       COUNT(p.run_id),
		       COALESCE(SUM(CASE WHEN p.status = 'failed' THEN 1 ELSE 0 END), 0),
		       COALESCE(SUM(p.added + p.updated + p.deleted), 0)
		FROM sync_runs r
		LEFT JOIN sync_run_pairs p ON p.run_id = r.run_id
		GROUP BY r.run_id
		ORDER BY r.started_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying runs: %w", err)
	}
	defer rows.Close()

	var summaries []driven.RunSummary //nolint:prealloc // size unknown from query
	for rows.Next() {
		var (
			s                 driven.RunSummary
			started, finished string
		)
		if err := rows.Scan(&s.RunID, &started, &finished, &s.Pairs, &s.Failed, &s.Writes); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		if s.StartedAt, err = time.Parse(time.RFC3339, started); err != nil {
			return nil, fmt.Errorf("stored started_at for %s: %w", s.RunID, err)
		}
		if s.FinishedAt, err = time.Parse(time.RFC3339, finished); err != nil {
			return nil, fmt.Errorf("stored finished_at for %s: %w", s.RunID, err)
		}
		summaries = append(summaries, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return summaries, nil
}

// Path returns the database file path. Empty for in-memory stores.
func (s *RunStore) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *RunStore) Close() error {
	return s.db.Close()
}
