package printing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"0", "$0"},
		{"999", "$999"},
		{"1234567", "$1,234,567"},
		{"1234567.49", "$1,234,567.49"},
		{"1234.56", "$1,234.56"},
		{"999.5", "$999.5"},
		{"12.10", "$12.1"},
		{"1234.567", "$1,234.57"},
		{"0.004", "$0"},
		{"1000000000", "$1,000,000,000"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatCurrency(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatQuantity(t *testing.T) {
	assert.Equal(t, "3", FormatQuantity(decimal.NewFromInt(3)))
	assert.Equal(t, "2.5", FormatQuantity(decimal.RequireFromString("2.50")))
	assert.Equal(t, "0.125", FormatQuantity(decimal.RequireFromString("0.125")))
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "octubre 16 de 2026", FormatDate(time.Date(2026, 10, 16, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "enero 1 de 2025", FormatDate(time.Date(2025, 1, 1, 23, 0, 0, 0, time.UTC)))
	assert.Equal(t, "diciembre 31 de 2024", FormatDate(time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)))
}

func TestUpper(t *testing.T) {
	assert.Equal(t, "SEÑORES", Upper("señores"))
	assert.Equal(t, "INSTALACIÓN ELÉCTRICA", Upper("instalación eléctrica"))
	assert.Equal(t, "", Upper(""))
}
