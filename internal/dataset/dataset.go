// Package dataset provides the in-memory tabular dataset the transform
// binaries operate on, plus the explicit column schema applied before
// anything is persisted.
package dataset

// Dataset is an ordered set of named columns over rows of cells.
// A nil cell is the null marker.
type Dataset struct {
	Columns []string
	Rows    [][]any
}

// New creates an empty dataset with the given column names.
func New(columns []string) *Dataset {
	return &Dataset{Columns: columns}
}

// ColumnIndex returns the position of the named column, or -1 if absent.
func (d *Dataset) ColumnIndex(name string) int {
	for i, c := range d.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the named column exists.
func (d *Dataset) HasColumn(name string) bool {
	return d.ColumnIndex(name) >= 0
}

// AppendRow adds a row, padding or truncating it to the column count.
func (d *Dataset) AppendRow(row []any) {
	if len(row) < len(d.Columns) {
		padded := make([]any, len(d.Columns))
		copy(padded, row)
		row = padded
	} else if len(row) > len(d.Columns) {
		row = row[:len(d.Columns)]
	}
	d.Rows = append(d.Rows, row)
}

// DropColumns removes the named columns. Names that do not exist are
// skipped silently.
func (d *Dataset) DropColumns(names ...string) {
	drop := make(map[string]bool, len(names))
	for _, n := range names {
		drop[n] = true
	}

	var keep []int
	var columns []string
	for i, c := range d.Columns {
		if !drop[c] {
			keep = append(keep, i)
			columns = append(columns, c)
		}
	}
	if len(keep) == len(d.Columns) {
		return
	}

	for ri, row := range d.Rows {
		next := make([]any, len(keep))
		for j, i := range keep {
			next[j] = row[i]
		}
		d.Rows[ri] = next
	}
	d.Columns = columns
}

// RenameColumn renames a column in place. Renaming an absent column is a
// no-op.
func (d *Dataset) RenameColumn(from, to string) {
	if i := d.ColumnIndex(from); i >= 0 {
		d.Columns[i] = to
	}
}

// Value returns the cell at (row, column name), or nil if the column is
// absent.
func (d *Dataset) Value(row int, column string) any {
	i := d.ColumnIndex(column)
	if i < 0 {
		return nil
	}
	return d.Rows[row][i]
}

// SetValue writes the cell at (row, column name). Absent columns are
// ignored.
func (d *Dataset) SetValue(row int, column string, v any) {
	if i := d.ColumnIndex(column); i >= 0 {
		d.Rows[row][i] = v
	}
}

// Len returns the number of rows.
func (d *Dataset) Len() int {
	return len(d.Rows)
}
