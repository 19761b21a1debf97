package transform

import (
	"strconv"
	"strings"
	"time"
)

// Dutch month names as they appear in the trial balance column headers.
var monthNumbers = map[string]time.Month{
	"januari":   time.January,
	"februari":  time.February,
	"maart":     time.March,
	"april":     time.April,
	"mei":       time.May,
	"juni":      time.June,
	"juli":      time.July,
	"augustus":  time.August,
	"september": time.September,
	"oktober":   time.October,
	"november":  time.November,
	"december":  time.December,
}

// Period describes one unpivoted reporting period taken from a balance
// column header.
type Period struct {
	// JaarPeriode is "YYYY-MM", with "YYYY-00" for the opening balance.
	JaarPeriode string
	// LastDate is the last day of the period (Jan 1 for the opening balance).
	LastDate time.Time
}

// ParsePeriodColumn parses a trial balance column header into a period.
// Recognized forms (case-insensitive prefix, four-digit year suffix):
//
//	Openingsbalans2025 -> ("2025-00", 2025-01-01)
//	januari2025        -> ("2025-01", 2025-01-31)
//
// Any other header is not a period column and returns ok=false.
func ParsePeriodColumn(name string) (Period, bool) {
	trimmed := strings.TrimSpace(name)
	if len(trimmed) < 5 {
		return Period{}, false
	}

	year, err := strconv.Atoi(trimmed[len(trimmed)-4:])
	if err != nil || year < 1000 {
		return Period{}, false
	}

	lower := strings.ToLower(trimmed)

	if strings.HasPrefix(lower, "openingsbalans") {
		return Period{
			JaarPeriode: strconv.Itoa(year) + "-00",
			LastDate:    time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC),
		}, true
	}

	for monthName, month := range monthNumbers {
		if strings.HasPrefix(lower, monthName) {
			lastDay := lastDayOfMonth(year, month)
			var sb strings.Builder
			sb.WriteString(strconv.Itoa(year))
			sb.WriteString("-")
			if int(month) < 10 {
				sb.WriteString("0")
			}
			sb.WriteString(strconv.Itoa(int(month)))
			return Period{
				JaarPeriode: sb.String(),
				LastDate:    time.Date(year, month, lastDay, 0, 0, 0, 0, time.UTC),
			}, true
		}
	}

	return Period{}, false
}

func lastDayOfMonth(year int, month time.Month) int {
	// Day 0 of the next month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
