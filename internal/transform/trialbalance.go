package transform

import (
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"boekcli/internal/dataset"
)

// ProfitAccountCode is the synthetic account that carries the running-year
// profit ("Winst lopend boekjaar") per period.
const ProfitAccountCode = "9999"

// profitCode1 places the synthetic profit rows in the Passiva bucket.
const profitCode1 = "060"

// balanceSheetCode0 marks balance-sheet rows in the source dimension type.
const balanceSheetCode0 = "BAS"

// trialBalanceIDColumns are the dimension columns every trial balance export
// must carry. Missing any of them is a hard error; without them the unpivot
// has nothing to key on.
var trialBalanceIDColumns = []string{
	"CodeGrootboekrekening",
	"NaamAdministratie",
	"CodeRelatiekostenplaats",
	"NaamRelatiekostenplaats",
	"CodeDimensietype",              // becomes Code0
	"CodeRapportagestructuurgroep1", // becomes Code1
}

// TrialBalancesSchema is the declared schema for the fct_TrialBalances table.
// Code1 stays in the persisted schema: the viewer filters on it.
var TrialBalancesSchema = dataset.Schema{
	"CodeGrootboekrekening":   dataset.String,
	"NaamAdministratie":       dataset.String,
	"CodeRelatiekostenplaats": dataset.Int, // nullable code
	"NaamRelatiekostenplaats": dataset.String,
	"Code1":                   dataset.String,
	"Value":                   dataset.Float,
	"JaarPeriode":             dataset.String,
	"LastDate":                dataset.Timestamp,
	"DisplayValue":            dataset.Float,
}

// trialBalanceColumns is the persisted column order.
var trialBalanceColumns = []string{
	"CodeGrootboekrekening",
	"NaamAdministratie",
	"CodeRelatiekostenplaats",
	"NaamRelatiekostenplaats",
	"Code1",
	"Value",
	"JaarPeriode",
	"LastDate",
	"DisplayValue",
}

// tbRow is one unpivoted trial balance fact during computation. Code0 is a
// helper needed only for the profit aggregation and never persisted.
type tbRow struct {
	accountCode      string
	administration   any
	kostenplaatsCode any
	kostenplaatsNaam any
	code0            string
	code1            any // normalized 3-digit string, or nil
	value            float64
	period           Period
}

// TrialBalances unpivots a wide trial balance export (opening balance plus
// twelve month columns) into the long fct_TrialBalances fact table:
// one row per (account, period), sign-corrected display values, and one
// synthetic profit row per (period, administration).
func TrialBalances(ds *dataset.Dataset) (*dataset.Dataset, error) {
	var missing []string
	for _, col := range trialBalanceIDColumns {
		if !ds.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required columns: %s", strings.Join(missing, ", "))
	}

	type periodColumn struct {
		index  int
		period Period
	}
	var periodColumns []periodColumn
	for i, col := range ds.Columns {
		if p, ok := ParsePeriodColumn(col); ok {
			periodColumns = append(periodColumns, periodColumn{index: i, period: p})
		}
	}
	if len(periodColumns) == 0 {
		return nil, fmt.Errorf("no period columns found (expected Openingsbalans plus month columns)")
	}
	slog.Info("Period columns found", slog.Int("count", len(periodColumns)))

	codeIdx := ds.ColumnIndex("CodeGrootboekrekening")
	adminIdx := ds.ColumnIndex("NaamAdministratie")
	kpCodeIdx := ds.ColumnIndex("CodeRelatiekostenplaats")
	kpNaamIdx := ds.ColumnIndex("NaamRelatiekostenplaats")
	code0Idx := ds.ColumnIndex("CodeDimensietype")
	code1Idx := ds.ColumnIndex("CodeRapportagestructuurgroep1")

	// Unpivot: one fact per (source row x period column). Blank period cells
	// carry no balance and are dropped here, not persisted as null facts.
	var facts []tbRow
	for _, row := range ds.Rows {
		for _, pc := range periodColumns {
			value := dataset.Coerce(row[pc.index], dataset.Float)
			if value == nil {
				continue
			}
			facts = append(facts, tbRow{
				accountCode:      cellString(row[codeIdx]),
				administration:   row[adminIdx],
				kostenplaatsCode: row[kpCodeIdx],
				kostenplaatsNaam: row[kpNaamIdx],
				code0:            cellString(row[code0Idx]),
				code1:            normalizeCode1(row[code1Idx]),
				value:            value.(float64),
				period:           pc.period,
			})
		}
	}
	slog.Info("Unpivoted trial balance", slog.Int("facts", len(facts)))

	profitRows := profitPerPeriod(facts)
	slog.Info("Synthetic profit rows created", slog.Int("count", len(profitRows)))

	out := dataset.New(trialBalanceColumns)
	for _, f := range append(facts, profitRows...) {
		var display any
		if code1, ok := f.code1.(string); ok {
			if dv, mapped := DisplayValue(code1, f.value); mapped {
				display = dv
			}
		}
		out.AppendRow([]any{
			PadAccountCode(f.accountCode),
			f.administration,
			f.kostenplaatsCode,
			f.kostenplaatsNaam,
			f.code1,
			f.value,
			f.period.JaarPeriode,
			f.period.LastDate,
			display,
		})
	}

	dataset.Apply(out, TrialBalancesSchema)
	dataset.Validate(out, TrialBalancesSchema)

	return out, nil
}

// profitPerPeriod sums the balance-sheet (Code0 = "BAS") values per
// (period, administration) and emits one synthetic row per group. The books
// balance when the row carries -profit; the display value shows +profit.
func profitPerPeriod(facts []tbRow) []tbRow {
	type groupKey struct {
		jaarPeriode    string
		administration string
	}
	type group struct {
		lastDate       time.Time
		administration any
		sum            float64
	}

	groups := make(map[groupKey]*group)
	for _, f := range facts {
		if f.code0 != balanceSheetCode0 {
			continue
		}
		key := groupKey{
			jaarPeriode:    f.period.JaarPeriode,
			administration: cellString(f.administration),
		}
		g, ok := groups[key]
		if !ok {
			g = &group{lastDate: f.period.LastDate, administration: f.administration}
			groups[key] = g
		}
		g.sum += f.value
	}

	keys := make([]groupKey, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].jaarPeriode != keys[j].jaarPeriode {
			return keys[i].jaarPeriode < keys[j].jaarPeriode
		}
		return keys[i].administration < keys[j].administration
	})

	rows := make([]tbRow, 0, len(keys))
	for _, k := range keys {
		g := groups[k]
		rows = append(rows, tbRow{
			accountCode:    ProfitAccountCode,
			administration: g.administration,
			code0:          balanceSheetCode0,
			code1:          profitCode1,
			value:          -g.sum,
			period:         Period{JaarPeriode: k.jaarPeriode, LastDate: g.lastDate},
		})
	}
	return rows
}

// normalizeCode1 turns the raw reporting group cell into a 3-digit
// zero-padded string ("10" and "010" are the same group). Empty cells stay
// null; non-numeric groups pass through trimmed.
func normalizeCode1(v any) any {
	s := strings.TrimSpace(cellString(v))
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return fmt.Sprintf("%03d", int(f))
	}
	return s
}

func cellString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
