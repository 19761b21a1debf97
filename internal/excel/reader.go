// Package excel loads source workbooks into datasets.
package excel

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/xuri/excelize/v2"

	"boekcli/internal/dataset"
)

// ReadSheet reads the first sheet of an .xlsx workbook into a dataset. The
// first row is taken as the header; every cell comes back as a string, with
// blank cells as nil. Type coercion is the caller's job (dataset.Apply).
func ReadSheet(path string) (*dataset.Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook %s has no sheets", path)
	}
	sheetName := sheets[0]

	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %s is empty", sheetName)
	}

	header := rows[0]
	columns := make([]string, 0, len(header))
	for _, h := range header {
		columns = append(columns, strings.TrimSpace(h))
	}

	ds := dataset.New(columns)
	for _, row := range rows[1:] {
		cells := make([]any, len(columns))
		for i := range columns {
			// GetRows trims trailing empty cells, so short rows are normal.
			if i < len(row) && strings.TrimSpace(row[i]) != "" {
				cells[i] = row[i]
			}
		}
		ds.AppendRow(cells)
	}

	slog.Info("Workbook loaded",
		slog.String("path", path),
		slog.String("sheet", sheetName),
		slog.Int("rows", ds.Len()),
		slog.Int("columns", len(ds.Columns)))

	return ds, nil
}
