package views

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNumber(t *testing.T) {
	assert.Equal(t, "0", Number(0))
	assert.Equal(t, "999", Number(999))
	assert.Equal(t, "32,000", Number(32000))
	assert.Equal(t, "1,234,567", Number(1234567))
}

func TestUSD(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "$0.00"},
		{"5", "$5.00"},
		{"65000.5", "$65,000.50"},
		{"1234567.899", "$1,234,567.90"},
		{"-12.3", "-$12.30"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, USD(decimal.RequireFromString(tt.in)))
		})
	}
}
