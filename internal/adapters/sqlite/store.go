// Package sqlite implements the SQLite backend for the persisted resource graph.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"

	_ "github.com/mattn/go-sqlite3" // registers the sqlite3 driver
	"go.trai.ch/assetmap/internal/core/domain"
	"go.trai.ch/assetmap/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.GraphStore = (*Store)(nil)

// Store implements ports.GraphStore on a SQLite database file.
// Each call opens its own connection; the database is only touched once per update cycle.
type Store struct{}

// NewStore creates a new SQLite graph store.
func NewStore() *Store {
	return &Store{}
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS meta (
  key   TEXT PRIMARY KEY,
  value TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS resources (
  path   TEXT PRIMARY KEY,
  type   TEXT NOT NULL,
  id     TEXT NOT NULL,
  mtime  INTEGER NOT NULL,
  fields BLOB
);

CREATE INDEX IF NOT EXISTS idx_resources_type_id ON resources(type, id);
`

func open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=30000")
	if err != nil {
		return nil, zerr.Wrap(err, "open database")
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, zerr.Wrap(err, "ping database")
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		_ = db.Close()
		return nil, zerr.Wrap(err, "migrate")
	}
	return db, nil
}

// Load reads the graph stored in the database at path. A missing database yields nil, nil.
// Configurations share the resources table and are split back out by kind.
func (s *Store) Load(ctx context.Context, path string) (*domain.PersistedGraph, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", path)
	}

	db, err := open(ctx, path)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", path)
	}
	defer db.Close() //nolint:errcheck // read-only use

	var version string
	err = db.QueryRowContext(ctx, `SELECT value FROM meta WHERE key = 'version'`).Scan(&version)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", path)
	}

	rows, err := db.QueryContext(ctx, `SELECT type, path, id, mtime, fields FROM resources ORDER BY path`)
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", path)
	}
	defer rows.Close() //nolint:errcheck // closed after iteration

	graph := &domain.PersistedGraph{Version: version, Objects: []domain.Record{}}
	for rows.Next() {
		var (
			rec    domain.Record
			kind   string
			fields []byte
		)
		if err := rows.Scan(&kind, &rec.Path, &rec.ID, &rec.MTime, &fields); err != nil {
			return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", path)
		}
		rec.Type = domain.Kind(kind)
		rec.Fields = fields
		if rec.Type.Persistent() {
			graph.Objects = append(graph.Objects, rec)
		} else {
			graph.Configurations = append(graph.Configurations, rec)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, zerr.With(zerr.Wrap(err, domain.ErrCacheReadFailed.Error()), "path", path)
	}
	return graph, nil
}

// Save replaces the stored graph in a single transaction.
func (s *Store) Save(ctx context.Context, path string, graph *domain.PersistedGraph) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create directory for graph cache"), "path", path)
	}

	db, err := open(ctx, path)
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
	}
	defer db.Close() //nolint:errcheck // errors surface through the transaction

	if err := replaceAll(ctx, db, graph); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrCacheWriteFailed.Error()), "path", path)
	}
	return nil
}

func replaceAll(ctx context.Context, db *sql.DB, graph *domain.PersistedGraph) (err error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return zerr.Wrap(err, "begin transaction")
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM resources`); err != nil {
		return zerr.Wrap(err, "clear resources")
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO resources (path, type, id, mtime, fields) VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return zerr.Wrap(err, "prepare insert")
	}
	defer stmt.Close() //nolint:errcheck // closed with the transaction

	for _, rec := range slices.Concat(graph.Objects, graph.Configurations) {
		if _, err = stmt.ExecContext(ctx, rec.Path, string(rec.Type), rec.ID, rec.MTime, []byte(rec.Fields)); err != nil {
			return zerr.With(zerr.Wrap(err, "insert resource"), "resource", rec.Path)
		}
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES ('version', ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		graph.Version); err != nil {
		return zerr.Wrap(err, "write version")
	}

	if err = tx.Commit(); err != nil {
		return zerr.Wrap(err, "commit")
	}
	return nil
}
