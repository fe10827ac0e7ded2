package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/nineslice-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/nineslice-cli/internal/core/domain"
	"github.com/custodia-labs/nineslice-cli/internal/core/ports/driven"
)

// timeLayout is fixed width so stored timestamps sort lexically. Times are
// always written in UTC.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store is a SQLite database holding import history.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.nineslice/data/history.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".nineslice", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("%w: creating data directory: %v", domain.ErrIO, err)
	}

	dbPath := filepath.Join(dataDir, "history.db")

	// Pragmas in the DSN apply to every pooled connection. WAL lets
	// `history` read while an import is writing.
	db, err := sql.Open("sqlite", dbPath+
		"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// HistoryStore returns a HistoryStore interface backed by this store.
func (s *Store) HistoryStore() driven.HistoryStore {
	return &historyStore{store: s}
}

// migrate runs all pending migrations, recording each applied version.
func (s *Store) migrate(fsys fs.FS) error {
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

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) applyMigration(version int, script string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(script); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== History Store ====================

// historyStore implements driven.HistoryStore.
type historyStore struct {
	store *Store
}

var _ driven.HistoryStore = (*historyStore)(nil)

// SaveRun stores or replaces a run and its targets in one transaction.
func (h *historyStore) SaveRun(ctx context.Context, run domain.ImportRun) error {
	if run.ID == "" {
		return fmt.Errorf("%w: run id is required", domain.ErrInvalidInput)
	}

	tx, err := h.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM run_targets WHERE run_id = ?", run.ID); err != nil {
		return fmt.Errorf("replacing run targets: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM import_runs WHERE id = ?", run.ID); err != nil {
		return fmt.Errorf("replacing run: %w", err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO import_runs (id, file_key, pattern, output_dir, phase, error, started_at, ended_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.FileKey, run.Pattern, run.OutputDir, string(run.Phase), run.Error,
		run.StartedAt.UTC().Format(timeLayout), formatNullableTime(run.EndedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO run_targets (run_id, position, node_id, name,
			border_left, border_top, border_right, border_bottom, path, error)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing target insert: %w", err)
	}
	defer stmt.Close()

	for i, t := range run.Targets {
		_, err := stmt.ExecContext(ctx, run.ID, i, t.NodeID, t.Name,
			t.Border.Left, t.Border.Top, t.Border.Right, t.Border.Bottom, t.Path, t.Error)
		if err != nil {
			return fmt.Errorf("inserting target %s: %w", t.NodeID, err)
		}
	}

	return tx.Commit()
}

// GetRun retrieves a run and its targets in selection order.
func (h *historyStore) GetRun(ctx context.Context, id string) (*domain.ImportRun, error) {
	row := h.store.db.QueryRowContext(ctx, `
		SELECT id, file_key, pattern, output_dir, phase, error, started_at, ended_at
		FROM import_runs WHERE id = ?`, id)

	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting run: %w", err)
	}

	rows, err := h.store.db.QueryContext(ctx, `
		SELECT node_id, name, border_left, border_top, border_right, border_bottom, path, error
		FROM run_targets WHERE run_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("getting run targets: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var t domain.RunTarget
		if err := rows.Scan(&t.NodeID, &t.Name,
			&t.Border.Left, &t.Border.Top, &t.Border.Right, &t.Border.Bottom, &t.Path, &t.Error); err != nil {
			return nil, fmt.Errorf("scanning run target: %w", err)
		}
		run.Targets = append(run.Targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating run targets: %w", err)
	}

	return run, nil
}

// ListRuns returns recent runs without their targets. A limit of zero or
// less returns every run.
func (h *historyStore) ListRuns(ctx context.Context, limit int) ([]domain.ImportRun, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := h.store.db.QueryContext(ctx, `
		SELECT id, file_key, pattern, output_dir, phase, error, started_at, ended_at
		FROM import_runs ORDER BY started_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var runs []domain.ImportRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		runs = append(runs, *run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating runs: %w", err)
	}
	return runs, nil
}

// PruneRuns removes all but the most recent keep runs.
func (h *historyStore) PruneRuns(ctx context.Context, keep int) error {
	if keep < 0 {
		return fmt.Errorf("%w: keep must not be negative", domain.ErrInvalidInput)
	}
	tx, err := h.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, `
		DELETE FROM import_runs WHERE id NOT IN (
			SELECT id FROM import_runs ORDER BY started_at DESC, id DESC LIMIT ?
		)`, keep)
	if err != nil {
		return fmt.Errorf("pruning runs: %w", err)
	}
	_, err = tx.ExecContext(ctx, "DELETE FROM run_targets WHERE run_id NOT IN (SELECT id FROM import_runs)")
	if err != nil {
		return fmt.Errorf("pruning run targets: %w", err)
	}
	return tx.Commit()
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*domain.ImportRun, error) {
	var (
		run       domain.ImportRun
		phase     string
		startedAt string
		endedAt   sql.NullString
	)
	if err := row.Scan(&run.ID, &run.FileKey, &run.Pattern, &run.OutputDir,
		&phase, &run.Error, &startedAt, &endedAt); err != nil {
		return nil, err
	}
	run.Phase = domain.ImportPhase(phase)
	if t, err := time.Parse(timeLayout, startedAt); err == nil {
		run.StartedAt = t
	}
	run.EndedAt = parseNullableTime(endedAt)
	return &run, nil
}

// formatNullableTime formats a time, or returns nil for zero time.
func formatNullableTime(t time.Time) any {
	if t.IsZero() {
		return nil
	}
	return t.UTC().Format(timeLayout)
}

// parseNullableTime parses a nullable timestamp.
func parseNullableTime(s sql.NullString) time.Time {
	if !s.Valid {
		return time.Time{}
	}
	t, err := time.Parse(timeLayout, s.String)
	if err != nil {
		return time.Time{}
	}
	return t
}
