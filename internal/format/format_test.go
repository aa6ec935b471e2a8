package format

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAmount(t *testing.T) {
	cases := map[float64]string{
		0:           "0.00",
		1:           "1.00",
		1234.5:      "1,234.50",
		1234567.891: "1,234,567.89",
		0.005:       "0.01",
		3479200:     "3,479,200.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, Amount(in), "input %v", in)
	}
}

func TestExchangeRate(t *testing.T) {
	assert.Equal(t, "800.00000", ExchangeRate(800))
	assert.Equal(t, "0.85000", ExchangeRate(0.85))
}

func TestNumber_NonFinite(t *testing.T) {
	assert.Equal(t, "-", Number(math.NaN(), 2))
	assert.Equal(t, "-", Number(math.Inf(1), 2))
}

func TestExchangeNote(t *testing.T) {
	assert.Equal(t, "1 CLP = 0.0013 USD", ExchangeNote("CLP", 800))
	assert.Equal(t, "1 EUR = 1.1765 USD", ExchangeNote("EUR", 0.85))
	assert.Equal(t, "", ExchangeNote("USD", 1))
	assert.Equal(t, "", ExchangeNote("XXX", 0))
}

func TestCents(t *testing.T) {
	assert.Equal(t, "1234.50", Cents(1234.5))
	assert.Equal(t, "0.33", Cents(1.0/3))
}
