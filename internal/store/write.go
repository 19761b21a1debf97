package store

import (
	"fmt"
	"log/slog"
	"strings"

	"boekcli/internal/dataset"
)

// WriteMode controls what happens when the target table already exists.
type WriteMode string

const (
	// Replace drops and recreates the table (the default for transforms;
	// reruns overwrite the previous snapshot).
	Replace WriteMode = "replace"
	// Append inserts into the existing table, creating it if absent.
	Append WriteMode = "append"
	// Fail errors out when the table already exists.
	Fail WriteMode = "fail"
)

// WriteTable writes a dataset into the named table. Column types come from
// the schema; columns without a declared type are stored as TEXT. The write
// happens in a single transaction and the returned count is verified with a
// SELECT COUNT(*) afterwards.
func (s *Store) WriteTable(table string, ds *dataset.Dataset, schema dataset.Schema, mode WriteMode) (int, error) {
	switch mode {
	case Replace, Append, Fail:
	default:
		return 0, fmt.Errorf("write mode must be replace, append or fail, got: %s", mode)
	}

	exists, err := s.TableExists(table)
	if err != nil {
		return 0, err
	}

	if exists {
		switch mode {
		case Fail:
			return 0, fmt.Errorf("table %s already exists", table)
		case Replace:
			if _, err := s.db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %q`, table)); err != nil {
				return 0, fmt.Errorf("failed to drop table %s: %w", table, err)
			}
			exists = false
		}
	}

	if !exists {
		if _, err := s.db.Exec(createTableStmt(table, ds, schema)); err != nil {
			return 0, fmt.Errorf("failed to create table %s: %w", table, err)
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ds.Columns)), ",")
	quoted := make([]string, len(ds.Columns))
	for i, c := range ds.Columns {
		quoted[i] = fmt.Sprintf("%q", c)
	}
	insert := fmt.Sprintf(`INSERT INTO %q (%s) VALUES (%s)`,
		table, strings.Join(quoted, ", "), placeholders)

	stmt, err := tx.Prepare(insert)
	if err != nil {
		tx.Rollback()
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}

	for ri, row := range ds.Rows {
		if _, err := stmt.Exec(row...); err != nil {
			stmt.Close()
			tx.Rollback()
			return 0, fmt.Errorf("failed to insert row %d: %w", ri, err)
		}
	}
	stmt.Close()

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}

	count, err := s.CountRows(table)
	if err != nil {
		return 0, err
	}

	slog.Info("Table written",
		slog.String("table", table),
		slog.String("mode", string(mode)),
		slog.Int("rows", count))

	return count, nil
}

func createTableStmt(table string, ds *dataset.Dataset, schema dataset.Schema) string {
	defs := make([]string, len(ds.Columns))
	for i, col := range ds.Columns {
		typ := dataset.String
		if t, ok := schema[col]; ok {
			typ = t
		}
		defs[i] = fmt.Sprintf("%q %s", col, typ.String())
	}
	return fmt.Sprintf(`CREATE TABLE %q (%s)`, table, strings.Join(defs, ", "))
}
