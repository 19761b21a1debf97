package transform

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"boekcli/internal/dataset"
)

// Column names stripped from the transaction dump before persisting.
// Absent names are skipped silently; exports differ slightly between
// bookkeeping package versions.
var transactionColumnsToDrop = []string{
	"Btwbedrag",
	"Boekingsstatus",
	"CodeAdministratie",
	"Code2",
	"Debet",
	"Credit",
	"Btwcode",
	"Nummer",
}

// TransactionsSchema is the declared schema for the transactions table.
var TransactionsSchema = dataset.Schema{
	"NaamAdministratie":     dataset.String,
	"CodeGrootboekrekening": dataset.String,
	"NaamGrootboekrekening": dataset.String,
	"Code":                  dataset.String,
	"Boekdatum":             dataset.Timestamp,
	"Periode":               dataset.Int,
	"Code1":                 dataset.String,
	"Omschrijving":          dataset.String,
	"Bedrag":                dataset.Float,
	"Factuurnummer":         dataset.String,
}

// Transactions transforms a raw transaction dump in place: drops the unused
// columns, converts Boekdatum from milliseconds since epoch to a timestamp,
// pads the account codes and applies the declared schema. Row count is
// preserved; malformed cells become nulls.
func Transactions(ds *dataset.Dataset) error {
	before := len(ds.Columns)
	ds.DropColumns(transactionColumnsToDrop...)
	slog.Info("Dropped dump columns",
		slog.Int("before", before),
		slog.Int("after", len(ds.Columns)))

	if idx := ds.ColumnIndex("Boekdatum"); idx >= 0 {
		for ri := range ds.Rows {
			ds.Rows[ri][idx] = epochMillisToTime(ds.Rows[ri][idx])
		}
	} else {
		slog.Warn("missing expected column", slog.String("column", "Boekdatum"))
	}

	if idx := ds.ColumnIndex("CodeGrootboekrekening"); idx >= 0 {
		for ri := range ds.Rows {
			if s, ok := ds.Rows[ri][idx].(string); ok {
				ds.Rows[ri][idx] = PadAccountCode(s)
			}
		}
	} else {
		return fmt.Errorf("dump is missing the CodeGrootboekrekening column")
	}

	dataset.Apply(ds, TransactionsSchema)
	dataset.Validate(ds, TransactionsSchema)

	return nil
}

// epochMillisToTime reinterprets a numeric cell as milliseconds since the
// Unix epoch. Unparseable cells become nil.
func epochMillisToTime(v any) any {
	switch n := v.(type) {
	case nil:
		return nil
	case time.Time:
		return n
	case float64:
		return time.UnixMilli(int64(n)).UTC()
	case int64:
		return time.UnixMilli(n).UTC()
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return nil
		}
		// Excel renders large numbers in scientific notation, so go
		// through float parsing first.
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return time.UnixMilli(int64(f)).UTC()
		}
		return nil
	}
	return nil
}
