package dataset

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"
)

// Type is a declared column type. Coercion to any of these is permissive:
// a cell that cannot be represented becomes nil instead of failing the run.
type Type int

const (
	String Type = iota
	Int         // nullable integer
	Float
	Timestamp
	Bool
)

// String returns the SQL-ish name used in logs and CREATE TABLE statements.
func (t Type) String() string {
	switch t {
	case String:
		return "TEXT"
	case Int:
		return "INTEGER"
	case Float:
		return "REAL"
	case Timestamp:
		return "TIMESTAMP"
	case Bool:
		return "BOOLEAN"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Schema maps column names to their declared types. Without an explicit
// schema an all-null or mixed column would be stored under whatever type the
// database infers from the first rows, corrupting downstream queries.
type Schema map[string]Type

// Apply coerces every declared column of ds in place. Columns declared but
// absent from the dataset produce a warning, not a failure. Columns present
// but undeclared are left untouched.
func Apply(ds *Dataset, schema Schema) {
	for _, col := range ds.Columns {
		typ, ok := schema[col]
		if !ok {
			continue
		}
		idx := ds.ColumnIndex(col)
		for ri := range ds.Rows {
			ds.Rows[ri][idx] = Coerce(ds.Rows[ri][idx], typ)
		}
	}

	for col := range schema {
		if !ds.HasColumn(col) {
			slog.Warn("schema column not found in dataset", slog.String("column", col))
		}
	}
}

// Validate checks ds against the expected schema: missing columns, extra
// columns and cells whose dynamic type does not match the declaration.
// Issues are logged as warnings and make the result false; the caller is
// expected to proceed with the write regardless.
func Validate(ds *Dataset, schema Schema) bool {
	valid := true

	for col := range schema {
		if !ds.HasColumn(col) {
			slog.Warn("missing expected column", slog.String("column", col))
			valid = false
		}
	}

	for _, col := range ds.Columns {
		if _, ok := schema[col]; !ok {
			slog.Info("unexpected column present", slog.String("column", col))
		}
	}

	for col, typ := range schema {
		idx := ds.ColumnIndex(col)
		if idx < 0 {
			continue
		}
		for ri := range ds.Rows {
			v := ds.Rows[ri][idx]
			if v == nil || matchesType(v, typ) {
				continue
			}
			slog.Warn("type mismatch",
				slog.String("column", col),
				slog.Int("row", ri),
				slog.String("expected", typ.String()),
				slog.String("got", fmt.Sprintf("%T", v)))
			valid = false
			break // one report per column is enough
		}
	}

	return valid
}

func matchesType(v any, typ Type) bool {
	switch typ {
	case String:
		_, ok := v.(string)
		return ok
	case Int:
		_, ok := v.(int64)
		return ok
	case Float:
		_, ok := v.(float64)
		return ok
	case Timestamp:
		_, ok := v.(time.Time)
		return ok
	case Bool:
		_, ok := v.(bool)
		return ok
	}
	return false
}

// Coerce converts a single cell to the target type. Unparseable values
// become nil, never an error.
func Coerce(v any, typ Type) any {
	if v == nil {
		return nil
	}

	switch typ {
	case String:
		return coerceString(v)
	case Int:
		return coerceInt(v)
	case Float:
		return coerceFloat(v)
	case Timestamp:
		return coerceTimestamp(v)
	case Bool:
		return coerceBool(v)
	}
	return nil
}

func coerceString(v any) any {
	switch s := v.(type) {
	case string:
		return s
	case time.Time:
		return s.Format("2006-01-02 15:04:05")
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int64:
		return strconv.FormatInt(s, 10)
	case bool:
		return strconv.FormatBool(s)
	}
	return fmt.Sprintf("%v", v)
}

func coerceInt(v any) any {
	switch n := v.(type) {
	case int64:
		return n
	case int:
		return int64(n)
	case float64:
		return int64(n)
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return nil
		}
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i
		}
		// Excel often hands integers back as "123.0".
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return int64(f)
		}
		return nil
	}
	return nil
}

func coerceFloat(v any) any {
	switch n := v.(type) {
	case float64:
		return n
	case int64:
		return float64(n)
	case int:
		return float64(n)
	case string:
		s := strings.ReplaceAll(strings.TrimSpace(n), ",", "")
		if s == "" {
			return nil
		}
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return f
		}
		return nil
	}
	return nil
}

var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02-01-2006",
	"01-02-06", // excelize default short date rendering
}

func coerceTimestamp(v any) any {
	switch t := v.(type) {
	case time.Time:
		return t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed
			}
		}
		return nil
	}
	return nil
}

func coerceBool(v any) any {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		s := strings.TrimSpace(b)
		if s == "" {
			return nil
		}
		if parsed, err := strconv.ParseBool(s); err == nil {
			return parsed
		}
		return nil
	case int64:
		return b != 0
	case float64:
		return b != 0
	}
	return nil
}
