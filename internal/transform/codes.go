// Package transform implements the spreadsheet-to-fact-table transforms:
// the transaction dump, the trial balance unpivot with sign correction, and
// the shared account code handling both rely on.
package transform

import "strings"

// PadAccountCode pads an account code with leading zeros until it is 4
// characters long. Codes of 4 or more characters are returned unchanged,
// so longer legacy codes survive intact.
func PadAccountCode(code string) string {
	code = strings.TrimSpace(code)
	if len(code) >= 4 {
		return code
	}
	return strings.Repeat("0", 4-len(code)) + code
}

// Category is a reporting bucket derived from an account's Code1 group.
type Category string

const (
	Activa      Category = "Activa"
	Passiva     Category = "Passiva"
	GrossMargin Category = "Gross Margin"
	Expenses    Category = "Expenses"
)

var code1Categories = map[string]Category{
	"000": Activa, "010": Activa, "020": Activa,
	"030": Activa, "040": Activa, "050": Activa,
	"060": Passiva, "065": Passiva, "070": Passiva, "080": Passiva,
	"500": GrossMargin, "510": GrossMargin,
	"520": Expenses, "530": Expenses, "540": Expenses, "550": Expenses,
}

// CategoryForCode1 returns the reporting category for a Code1 group.
// Not every account participates in sign-corrected reporting; unmapped
// groups return ok=false.
func CategoryForCode1(code1 string) (Category, bool) {
	c, ok := code1Categories[code1]
	return c, ok
}

// DisplayValue applies the per-category sign correction: Activa keeps the
// raw value, every other mapped category flips the sign, and unmapped Code1
// groups yield no display value at all.
func DisplayValue(code1 string, value float64) (float64, bool) {
	category, ok := CategoryForCode1(code1)
	if !ok {
		return 0, false
	}
	if category == Activa {
		return value, true
	}
	return -value, true
}
