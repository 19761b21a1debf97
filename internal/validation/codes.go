// Package validation checks account code consistency between the two
// source workbooks: every code booked in the transaction dump should have a
// trial balance entry, or reporting rolls up against holes.
package validation

import (
	"fmt"
	"io"
	"log/slog"
	"sort"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"boekcli/internal/dataset"
	"boekcli/internal/excel"
	"boekcli/internal/transform"
)

// Result holds the outcome of an account code comparison.
type Result struct {
	TransactionCodes  int
	TrialBalanceCodes int
	// Missing are codes booked in transactions but absent from the trial
	// balances: true gaps.
	Missing []string
	// Extra are codes only present in trial balances: informational.
	Extra []string
	// Common are codes present in both.
	Common []string
}

// Passed reports whether every transaction code is covered.
func (r *Result) Passed() bool {
	return len(r.Missing) == 0
}

// Coverage returns the fraction of transaction codes covered by the trial
// balances, in percent.
func (r *Result) Coverage() float64 {
	if r.TransactionCodes == 0 {
		return 100
	}
	return float64(len(r.Common)) / float64(r.TransactionCodes) * 100
}

// ReadAccountCodes reads a source workbook and extracts the set of unique
// padded account codes, plus the total row count.
func ReadAccountCodes(path string) (map[string]bool, int, error) {
	ds, err := excel.ReadSheet(path)
	if err != nil {
		return nil, 0, err
	}

	idx := ds.ColumnIndex("CodeGrootboekrekening")
	if idx < 0 {
		return nil, 0, fmt.Errorf("%s is missing the CodeGrootboekrekening column", path)
	}

	codes := make(map[string]bool)
	for _, row := range ds.Rows {
		coerced := dataset.Coerce(row[idx], dataset.String)
		s, ok := coerced.(string)
		if !ok || s == "" {
			continue
		}
		codes[transform.PadAccountCode(s)] = true
	}

	slog.Info("Account codes extracted",
		slog.String("path", path),
		slog.Int("rows", ds.Len()),
		slog.Int("unique_codes", len(codes)))

	return codes, ds.Len(), nil
}

// Compare computes the code coverage between the transaction dump and the
// trial balances.
func Compare(transactionCodes, trialBalanceCodes map[string]bool) *Result {
	r := &Result{
		TransactionCodes:  len(transactionCodes),
		TrialBalanceCodes: len(trialBalanceCodes),
	}

	for code := range transactionCodes {
		if trialBalanceCodes[code] {
			r.Common = append(r.Common, code)
		} else {
			r.Missing = append(r.Missing, code)
		}
	}
	for code := range trialBalanceCodes {
		if !transactionCodes[code] {
			r.Extra = append(r.Extra, code)
		}
	}

	sort.Strings(r.Missing)
	sort.Strings(r.Extra)
	sort.Strings(r.Common)

	return r
}

// maxExtraListed caps the informational extra-codes listing.
const maxExtraListed = 20

// WriteReport prints a human-readable coverage report. Counts use
// thousands separators so spreadsheet-sized numbers stay readable.
func WriteReport(w io.Writer, r *Result) {
	p := message.NewPrinter(language.English)

	fmt.Fprintln(w, "ACCOUNT CODE VALIDATION REPORT")
	fmt.Fprintln(w, "==============================")
	p.Fprintf(w, "Transaction codes:   %d unique codes\n", r.TransactionCodes)
	p.Fprintf(w, "Trial balance codes: %d unique codes\n", r.TrialBalanceCodes)
	p.Fprintf(w, "Codes in both:       %d codes\n", len(r.Common))
	p.Fprintf(w, "Coverage:            %.1f%%\n", r.Coverage())
	fmt.Fprintln(w)

	if r.Passed() {
		fmt.Fprintln(w, "VALIDATION PASSED: all transaction codes exist in trial balances")
	} else {
		p.Fprintf(w, "VALIDATION FAILED: %d transaction codes not found in trial balances\n", len(r.Missing))
		fmt.Fprintln(w, "Missing codes (in transactions but not in trial balances):")
		for _, code := range r.Missing {
			fmt.Fprintf(w, "  - %s\n", code)
		}
	}

	if len(r.Extra) > 0 {
		fmt.Fprintln(w)
		p.Fprintf(w, "Info: %d codes exist only in trial balances (not used in transactions)\n", len(r.Extra))
		listed := r.Extra
		if len(listed) > maxExtraListed {
			p.Fprintf(w, "Showing first %d of %d codes:\n", maxExtraListed, len(listed))
			listed = listed[:maxExtraListed]
		}
		for _, code := range listed {
			fmt.Fprintf(w, "  - %s\n", code)
		}
	}
}

// Validate runs the full comparison for the two source workbooks.
func Validate(transactionsPath, trialBalancesPath string) (*Result, error) {
	transactionCodes, txRows, err := ReadAccountCodes(transactionsPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read transactions: %w", err)
	}
	trialBalanceCodes, tbRows, err := ReadAccountCodes(trialBalancesPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read trial balances: %w", err)
	}

	slog.Info("Comparing account codes",
		slog.Int("transaction_rows", txRows),
		slog.Int("trial_balance_rows", tbRows))

	return Compare(transactionCodes, trialBalanceCodes), nil
}
