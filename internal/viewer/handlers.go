package viewer

import (
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/render"

	"boekcli/internal/apierr"
)

// defaultRowLimit bounds the detail view; the data is spreadsheet-sized but
// the unpivoted fact table multiplies it by 13.
const defaultRowLimit = 500

// rollupDimensions maps the rollup mode to the grouping column.
var rollupDimensions = map[string]string{
	"account": "CodeGrootboekrekening",
	"code":    "Code1",
	"period":  "JaarPeriode",
}

// filterColumns maps query parameters to their columns. Filters combine
// with AND semantics.
var filterColumns = []struct {
	param  string
	column string
}{
	{"code", "CodeGrootboekrekening"},
	{"periode", "JaarPeriode"},
	{"code1", "Code1"},
}

type metaResponse struct {
	Database string   `json:"database"`
	Table    string   `json:"table"`
	RowCount int      `json:"row_count"`
	Columns  []string `json:"columns"`
}

type filtersResponse struct {
	Codes    []string `json:"codes"`
	Periodes []string `json:"periodes"`
	Code1s   []string `json:"code1s"`
}

type rowsResponse struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
	Total   int      `json:"total"`
}

type rollupRow struct {
	Key   string  `json:"key"`
	Rows  int     `json:"rows"`
	Value float64 `json:"value"`
	// DisplayValue is null when no row in the group has one (unmapped
	// Code1); a zero here would look like a real balance.
	DisplayValue *float64 `json:"display_value"`
}

type rollupResponse struct {
	By     string      `json:"by"`
	Groups []rollupRow `json:"groups"`
}

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	count, err := s.store.CountRows(FactTable)
	if err != nil {
		render.Render(w, r, apierr.QueryFailed(err))
		return
	}

	columns, err := s.tableColumns(FactTable)
	if err != nil {
		render.Render(w, r, apierr.QueryFailed(err))
		return
	}

	render.JSON(w, r, metaResponse{
		Database: s.store.Path(),
		Table:    FactTable,
		RowCount: count,
		Columns:  columns,
	})
}

func (s *Server) handleFilters(w http.ResponseWriter, r *http.Request) {
	resp := filtersResponse{}
	for _, q := range []struct {
		column string
		dest   *[]string
	}{
		{"CodeGrootboekrekening", &resp.Codes},
		{"JaarPeriode", &resp.Periodes},
		{"Code1", &resp.Code1s},
	} {
		values, err := s.distinctValues(q.column)
		if err != nil {
			render.Render(w, r, apierr.QueryFailed(err))
			return
		}
		*q.dest = values
	}

	render.JSON(w, r, resp)
}

func (s *Server) handleRows(w http.ResponseWriter, r *http.Request) {
	where, args := buildFilters(r)

	limit := defaultRowLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			render.Render(w, r, apierr.InvalidParameter("limit", "must be a positive integer"))
			return
		}
		limit = parsed
	}

	var total int
	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %q %s`, FactTable, where)
	if err := s.store.DB().QueryRow(countQuery, args...).Scan(&total); err != nil {
		render.Render(w, r, apierr.QueryFailed(err))
		return
	}

	query := fmt.Sprintf(
		`SELECT * FROM %q %s ORDER BY JaarPeriode, CodeGrootboekrekening LIMIT %d`,
		FactTable, where, limit)
	rows, err := s.store.DB().Query(query, args...)
	if err != nil {
		render.Render(w, r, apierr.QueryFailed(err))
		return
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		render.Render(w, r, apierr.QueryFailed(err))
		return
	}

	resp := rowsResponse{Columns: columns, Total: total}
	for rows.Next() {
		cells := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range cells {
			ptrs[i] = &cells[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			render.Render(w, r, apierr.QueryFailed(err))
			return
		}
		for i, c := range cells {
			if b, ok := c.([]byte); ok {
				cells[i] = string(b)
			}
		}
		resp.Rows = append(resp.Rows, cells)
	}
	if err := rows.Err(); err != nil {
		render.Render(w, r, apierr.QueryFailed(err))
		return
	}

	render.JSON(w, r, resp)
}

func (s *Server) handleRollup(w http.ResponseWriter, r *http.Request) {
	by := r.URL.Query().Get("by")
	column, ok := rollupDimensions[by]
	if !ok {
		render.Render(w, r, apierr.InvalidParameter("by", "must be one of: account, code, period"))
		return
	}

	where, args := buildFilters(r)

	query := fmt.Sprintf(
		`SELECT COALESCE(%[1]q, ''), COUNT(*), COALESCE(SUM(Value), 0), SUM(DisplayValue)
		 FROM %[2]q %[3]s GROUP BY %[1]q ORDER BY %[1]q`,
		column, FactTable, where)
	rows, err := s.store.DB().Query(query, args...)
	if err != nil {
		render.Render(w, r, apierr.QueryFailed(err))
		return
	}
	defer rows.Close()

	resp := rollupResponse{By: by}
	for rows.Next() {
		var g rollupRow
		var display sql.NullFloat64
		if err := rows.Scan(&g.Key, &g.Rows, &g.Value, &display); err != nil {
			render.Render(w, r, apierr.QueryFailed(err))
			return
		}
		if display.Valid {
			g.DisplayValue = &display.Float64
		}
		resp.Groups = append(resp.Groups, g)
	}
	if err := rows.Err(); err != nil {
		render.Render(w, r, apierr.QueryFailed(err))
		return
	}

	s.logger.Debug("Rollup served",
		slog.String("by", by),
		slog.Int("groups", len(resp.Groups)))

	render.JSON(w, r, resp)
}

// buildFilters turns the recognized query parameters into an AND-combined
// WHERE clause with bound arguments.
func buildFilters(r *http.Request) (string, []any) {
	var clauses []string
	var args []any
	for _, f := range filterColumns {
		if v := r.URL.Query().Get(f.param); v != "" {
			clauses = append(clauses, fmt.Sprintf("%q = ?", f.column))
			args = append(args, v)
		}
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return "WHERE " + strings.Join(clauses, " AND "), args
}

func (s *Server) distinctValues(column string) ([]string, error) {
	query := fmt.Sprintf(
		`SELECT DISTINCT %[1]q FROM %[2]q WHERE %[1]q IS NOT NULL ORDER BY %[1]q`,
		column, FactTable)
	rows, err := s.store.DB().Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var values []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		values = append(values, v)
	}
	return values, rows.Err()
}

func (s *Server) tableColumns(table string) ([]string, error) {
	rows, err := s.store.DB().Query(fmt.Sprintf(`SELECT * FROM %q LIMIT 0`, table))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return rows.Columns()
}
