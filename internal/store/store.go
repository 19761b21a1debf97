// Package store persists datasets into an embedded SQLite database, the
// analytical file every transform writes and the viewer reads.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Store wraps a single SQLite database file.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens (creating if needed) the database at path.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	// Single writer; SQLite misbehaves with concurrent connections.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	return &Store{db: db, path: path}, nil
}

// OpenExisting opens the database at path and fails when the file is absent,
// instead of silently creating an empty one.
func OpenExisting(path string) (*Store, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("database file %s not found: %w", path, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("database path %s is a directory", path)
	}
	return Open(path)
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// DB exposes the underlying connection for read-only query use (viewer).
func (s *Store) DB() *sql.DB {
	return s.db
}

// CountRows returns the number of rows in the named table.
func (s *Store) CountRows(table string) (int, error) {
	var count int
	if err := s.db.QueryRow(fmt.Sprintf(`SELECT COUNT(*) FROM %q`, table)).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return count, nil
}

// TableExists reports whether the named table exists.
func (s *Store) TableExists(table string) (bool, error) {
	var count int
	err := s.db.QueryRow(
		`SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?`, table,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check table %s: %w", table, err)
	}
	return count > 0, nil
}

// CreateUniqueAccountCodesView (re)creates the vw_UniqueAccountCodes view
// over the given table.
func (s *Store) CreateUniqueAccountCodesView(table string) error {
	if _, err := s.db.Exec(`DROP VIEW IF EXISTS vw_UniqueAccountCodes`); err != nil {
		return fmt.Errorf("failed to drop existing view: %w", err)
	}
	stmt := fmt.Sprintf(
		`CREATE VIEW vw_UniqueAccountCodes AS
		 SELECT DISTINCT CodeGrootboekrekening FROM %q ORDER BY CodeGrootboekrekening`, table)
	if _, err := s.db.Exec(stmt); err != nil {
		return fmt.Errorf("failed to create view: %w", err)
	}
	return nil
}

// CopyTableFrom attaches the database at srcPath and copies the named table
// into this database under the same name. The source must exist and contain
// the table; there is no partial copy.
func (s *Store) CopyTableFrom(srcPath, table string) (int, error) {
	if _, err := os.Stat(srcPath); err != nil {
		return 0, fmt.Errorf("source database %s not found: %w", srcPath, err)
	}

	if _, err := s.db.Exec(`ATTACH DATABASE ? AS source`, srcPath); err != nil {
		return 0, fmt.Errorf("failed to attach %s: %w", srcPath, err)
	}

	copyErr := func() error {
		// Qualify the drop: with a database attached, an unqualified name
		// in DDL can resolve against the attached schema and delete the
		// source table instead of the local one.
		if _, err := s.db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS main.%q`, table)); err != nil {
			return fmt.Errorf("failed to drop existing table %s: %w", table, err)
		}
		stmt := fmt.Sprintf(`CREATE TABLE %q AS SELECT * FROM source.%q`, table, table)
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to copy table %s from %s: %w", table, srcPath, err)
		}
		return nil
	}()

	if _, err := s.db.Exec(`DETACH DATABASE source`); err != nil && copyErr == nil {
		copyErr = fmt.Errorf("failed to detach source database: %w", err)
	}
	if copyErr != nil {
		return 0, copyErr
	}

	return s.CountRows(table)
}
