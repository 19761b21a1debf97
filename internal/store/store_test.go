package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"boekcli/internal/dataset"
)

var testSchema = dataset.Schema{
	"CodeGrootboekrekening": dataset.String,
	"Value":                 dataset.Float,
	"LastDate":              dataset.Timestamp,
}

func testDataset(codes ...string) *dataset.Dataset {
	ds := dataset.New([]string{"CodeGrootboekrekening", "Value", "LastDate"})
	for i, code := range codes {
		ds.AppendRow([]any{
			code,
			float64(100 * (i + 1)),
			time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC),
		})
	}
	return ds
}

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "test.db")
	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, path, s.Path())
}

func TestOpenExisting(t *testing.T) {
	t.Run("missing file is an error", func(t *testing.T) {
		_, err := OpenExisting(filepath.Join(t.TempDir(), "absent.db"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("existing file opens", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "test.db")
		s, err := Open(path)
		require.NoError(t, err)
		require.NoError(t, s.Close())

		s, err = OpenExisting(path)
		require.NoError(t, err)
		s.Close()
	})
}

func TestWriteTable(t *testing.T) {
	t.Run("replace drops the previous snapshot", func(t *testing.T) {
		s := openTestStore(t)

		count, err := s.WriteTable("tbl", testDataset("0010", "0020", "0030"), testSchema, Replace)
		require.NoError(t, err)
		assert.Equal(t, 3, count)

		// A rerun with fewer rows must not leave stale ones behind.
		count, err = s.WriteTable("tbl", testDataset("0010"), testSchema, Replace)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("append accumulates", func(t *testing.T) {
		s := openTestStore(t)

		_, err := s.WriteTable("tbl", testDataset("0010"), testSchema, Append)
		require.NoError(t, err)

		count, err := s.WriteTable("tbl", testDataset("0020"), testSchema, Append)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("fail refuses an existing table", func(t *testing.T) {
		s := openTestStore(t)

		_, err := s.WriteTable("tbl", testDataset("0010"), testSchema, Fail)
		require.NoError(t, err)

		_, err = s.WriteTable("tbl", testDataset("0020"), testSchema, Fail)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("unknown mode is rejected", func(t *testing.T) {
		s := openTestStore(t)

		_, err := s.WriteTable("tbl", testDataset("0010"), testSchema, WriteMode("upsert"))
		require.Error(t, err)
	})

	t.Run("null cells round-trip", func(t *testing.T) {
		s := openTestStore(t)

		ds := dataset.New([]string{"CodeGrootboekrekening", "Value", "LastDate"})
		ds.AppendRow([]any{"0010", nil, nil})

		count, err := s.WriteTable("tbl", ds, testSchema, Replace)
		require.NoError(t, err)
		assert.Equal(t, 1, count)

		var nulls int
		err = s.DB().QueryRow(`SELECT COUNT(*) FROM tbl WHERE Value IS NULL AND LastDate IS NULL`).Scan(&nulls)
		require.NoError(t, err)
		assert.Equal(t, 1, nulls)
	})
}

func TestTableExists(t *testing.T) {
	s := openTestStore(t)

	exists, err := s.TableExists("tbl")
	require.NoError(t, err)
	assert.False(t, exists)

	_, err = s.WriteTable("tbl", testDataset("0010"), testSchema, Replace)
	require.NoError(t, err)

	exists, err = s.TableExists("tbl")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreateUniqueAccountCodesView(t *testing.T) {
	s := openTestStore(t)

	_, err := s.WriteTable("tbl", testDataset("0020", "0010", "0020"), testSchema, Replace)
	require.NoError(t, err)
	require.NoError(t, s.CreateUniqueAccountCodesView("tbl"))

	rows, err := s.DB().Query(`SELECT CodeGrootboekrekening FROM vw_UniqueAccountCodes`)
	require.NoError(t, err)
	defer rows.Close()

	var codes []string
	for rows.Next() {
		var code string
		require.NoError(t, rows.Scan(&code))
		codes = append(codes, code)
	}
	require.NoError(t, rows.Err())

	// Distinct and ordered.
	assert.Equal(t, []string{"0010", "0020"}, codes)

	// Recreating over a new table must not collide with the old view.
	_, err = s.WriteTable("tbl2", testDataset("0030"), testSchema, Replace)
	require.NoError(t, err)
	require.NoError(t, s.CreateUniqueAccountCodesView("tbl2"))
}

func TestCopyTableFrom(t *testing.T) {
	t.Run("copies a table between files", func(t *testing.T) {
		dir := t.TempDir()

		src, err := Open(filepath.Join(dir, "src.db"))
		require.NoError(t, err)
		_, err = src.WriteTable("tbl", testDataset("0010", "0020"), testSchema, Replace)
		require.NoError(t, err)
		require.NoError(t, src.Close())

		dst, err := Open(filepath.Join(dir, "dst.db"))
		require.NoError(t, err)
		defer dst.Close()

		count, err := dst.CopyTableFrom(filepath.Join(dir, "src.db"), "tbl")
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		got, err := dst.CountRows("tbl")
		require.NoError(t, err)
		assert.Equal(t, 2, got)
	})

	t.Run("source database is never modified", func(t *testing.T) {
		dir := t.TempDir()
		srcPath := filepath.Join(dir, "src.db")

		src, err := Open(srcPath)
		require.NoError(t, err)
		_, err = src.WriteTable("tbl", testDataset("0010", "0020"), testSchema, Replace)
		require.NoError(t, err)
		require.NoError(t, src.Close())

		dst, err := Open(filepath.Join(dir, "dst.db"))
		require.NoError(t, err)
		defer dst.Close()

		// A rerun into a destination that already holds the table must
		// replace the local copy, not the attached source's.
		_, err = dst.WriteTable("tbl", testDataset("9999"), testSchema, Replace)
		require.NoError(t, err)

		count, err := dst.CopyTableFrom(srcPath, "tbl")
		require.NoError(t, err)
		assert.Equal(t, 2, count)

		src, err = OpenExisting(srcPath)
		require.NoError(t, err)
		defer src.Close()

		exists, err := src.TableExists("tbl")
		require.NoError(t, err)
		assert.True(t, exists)

		srcCount, err := src.CountRows("tbl")
		require.NoError(t, err)
		assert.Equal(t, 2, srcCount)
	})

	t.Run("missing source is an error", func(t *testing.T) {
		s := openTestStore(t)

		_, err := s.CopyTableFrom(filepath.Join(t.TempDir(), "absent.db"), "tbl")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "not found")
	})

	t.Run("missing table in source is an error", func(t *testing.T) {
		dir := t.TempDir()

		src, err := Open(filepath.Join(dir, "src.db"))
		require.NoError(t, err)
		require.NoError(t, src.Close())

		dst, err := Open(filepath.Join(dir, "dst.db"))
		require.NoError(t, err)
		defer dst.Close()

		_, err = dst.CopyTableFrom(filepath.Join(dir, "src.db"), "tbl")
		require.Error(t, err)
	})
}
