package transform

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPadAccountCode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "two digit code",
			input:    "10",
			expected: "0010",
		},
		{
			name:     "three digit code",
			input:    "100",
			expected: "0100",
		},
		{
			name:     "four digit code unchanged",
			input:    "1000",
			expected: "1000",
		},
		{
			name:     "longer code unchanged",
			input:    "12345",
			expected: "12345",
		},
		{
			name:     "single digit code",
			input:    "7",
			expected: "0007",
		},
		{
			name:     "surrounding whitespace trimmed before padding",
			input:    " 10 ",
			expected: "0010",
		},
		{
			name:     "empty code",
			input:    "",
			expected: "0000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PadAccountCode(tt.input))
		})
	}
}

func TestCategoryForCode1(t *testing.T) {
	tests := []struct {
		code1    string
		category Category
		mapped   bool
	}{
		{"000", Activa, true},
		{"010", Activa, true},
		{"050", Activa, true},
		{"060", Passiva, true},
		{"065", Passiva, true},
		{"080", Passiva, true},
		{"500", GrossMargin, true},
		{"510", GrossMargin, true},
		{"520", Expenses, true},
		{"550", Expenses, true},
		{"999", "", false},
		{"", "", false},
		{"60", "", false}, // only the normalized 3-digit form maps
	}

	for _, tt := range tests {
		t.Run("code1 "+tt.code1, func(t *testing.T) {
			category, ok := CategoryForCode1(tt.code1)
			assert.Equal(t, tt.mapped, ok)
			assert.Equal(t, tt.category, category)
		})
	}
}

func TestDisplayValue(t *testing.T) {
	tests := []struct {
		name     string
		code1    string
		value    float64
		expected float64
		mapped   bool
	}{
		{
			name:     "activa keeps sign",
			code1:    "010",
			value:    1250.50,
			expected: 1250.50,
			mapped:   true,
		},
		{
			name:     "passiva flips sign",
			code1:    "080",
			value:    500.0,
			expected: -500.0,
			mapped:   true,
		},
		{
			name:     "gross margin flips sign",
			code1:    "510",
			value:    -75.25,
			expected: 75.25,
			mapped:   true,
		},
		{
			name:     "expenses flip sign",
			code1:    "540",
			value:    300.0,
			expected: -300.0,
			mapped:   true,
		},
		{
			name:   "unmapped group has no display value",
			code1:  "123",
			value:  42.0,
			mapped: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DisplayValue(tt.code1, tt.value)
			assert.Equal(t, tt.mapped, ok)
			if tt.mapped {
				assert.InDelta(t, tt.expected, got, 1e-9)
			}
		})
	}
}
