package transform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestParsePeriodColumn(t *testing.T) {
	tests := []struct {
		name        string
		column      string
		jaarPeriode string
		lastDate    time.Time
		ok          bool
	}{
		{
			name:        "opening balance",
			column:      "Openingsbalans2025",
			jaarPeriode: "2025-00",
			lastDate:    time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
			ok:          true,
		},
		{
			name:        "january",
			column:      "januari2025",
			jaarPeriode: "2025-01",
			lastDate:    time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC),
			ok:          true,
		},
		{
			name:        "february in a leap year",
			column:      "februari2024",
			jaarPeriode: "2024-02",
			lastDate:    time.Date(2024, time.February, 29, 0, 0, 0, 0, time.UTC),
			ok:          true,
		},
		{
			name:        "february in a non-leap year",
			column:      "februari2025",
			jaarPeriode: "2025-02",
			lastDate:    time.Date(2025, time.February, 28, 0, 0, 0, 0, time.UTC),
			ok:          true,
		},
		{
			name:        "december",
			column:      "december2023",
			jaarPeriode: "2023-12",
			lastDate:    time.Date(2023, time.December, 31, 0, 0, 0, 0, time.UTC),
			ok:          true,
		},
		{
			name:        "mixed case header",
			column:      "Maart2025",
			jaarPeriode: "2025-03",
			lastDate:    time.Date(2025, time.March, 31, 0, 0, 0, 0, time.UTC),
			ok:          true,
		},
		{
			name:        "space between month and year",
			column:      "januari 2025",
			jaarPeriode: "2025-01",
			lastDate:    time.Date(2025, time.January, 31, 0, 0, 0, 0, time.UTC),
			ok:          true,
		},
		{
			name:   "identifier column is not a period",
			column: "CodeGrootboekrekening",
			ok:     false,
		},
		{
			name:   "month without year",
			column: "januari",
			ok:     false,
		},
		{
			name:   "abbreviated month",
			column: "jan2025",
			ok:     false,
		},
		{
			name:   "empty header",
			column: "",
			ok:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			period, ok := ParsePeriodColumn(tt.column)
			assert.Equal(t, tt.ok, ok)
			if !tt.ok {
				return
			}
			assert.Equal(t, tt.jaarPeriode, period.JaarPeriode)
			assert.True(t, tt.lastDate.Equal(period.LastDate),
				"expected %s, got %s", tt.lastDate, period.LastDate)
		})
	}
}
