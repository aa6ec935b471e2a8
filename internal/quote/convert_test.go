package quote

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"quotegen/internal/domain"
)

func TestConvert_USDField(t *testing.T) {
	f := Convert(domain.ParsedField{Label: "Gross", Amount: 1000, Currency: "USD"}, 800)
	assert.Equal(t, 1000.0, f.USDAmount)
	assert.Equal(t, 800000.0, f.LocalAmount)
}

func TestConvert_LocalField(t *testing.T) {
	f := Convert(domain.ParsedField{Label: "Gross", Amount: 800000, Currency: "CLP"}, 800)
	assert.Equal(t, 800000.0, f.LocalAmount)
	assert.InDelta(t, 1000, f.USDAmount, 1e-9)
}

func TestConvert_RoundTrip(t *testing.T) {
	rates := []float64{0.73, 0.85, 1, 3.8, 83, 800, 4200}
	amounts := []float64{0.01, 1, 1234.56, 99999.99}

	for _, rate := range rates {
		for _, amount := range amounts {
			usd := Convert(domain.ParsedField{Label: "x", Amount: amount, Currency: "USD"}, rate)
			back := usd.LocalAmount * (1 / rate)
			assert.InDelta(t, amount, back, 1e-9*amount+1e-9, "usd rate=%v amount=%v", rate, amount)

			local := Convert(domain.ParsedField{Label: "x", Amount: amount, Currency: "XXX"}, rate)
			again := local.USDAmount * rate
			assert.InDelta(t, amount, again, 1e-9*amount+1e-9, "local rate=%v amount=%v", rate, amount)
		}
	}
}

func TestRateToLocal(t *testing.T) {
	rates := domain.CurrencyRates{Rates: map[string]float64{"CLP": 800, "BAD": 0, "NEG": -3}}

	assert.Equal(t, 800.0, RateToLocal(rates, "CLP"))
	assert.Equal(t, 1.0, RateToLocal(rates, "MISSING"))
	assert.Equal(t, 1.0, RateToLocal(rates, "BAD"))
	assert.Equal(t, 1.0, RateToLocal(rates, "NEG"))
}

func TestConvertAmount(t *testing.T) {
	rates := domain.CurrencyRates{Rates: map[string]float64{"USD": 1, "EUR": 0.85, "CLP": 800}}

	assert.Equal(t, 100.0, ConvertAmount(100, "EUR", "EUR", rates))
	assert.Equal(t, 85.0, ConvertAmount(100, "USD", "EUR", rates))
	assert.Equal(t, 125.0, ConvertAmount(100000, "CLP", "USD", rates))
	assert.Equal(t, 94117.65, ConvertAmount(100, "EUR", "CLP", rates))
}

func TestDirectory_CurrencyFor(t *testing.T) {
	dir := DefaultDirectory()

	assert.Equal(t, "CLP", dir.CurrencyFor("Chile"))
	assert.Equal(t, "CLP", dir.CurrencyFor("chile"))
	assert.Equal(t, "CLP", dir.CurrencyFor("CL"))
	assert.Equal(t, "USD", dir.CurrencyFor("United States of America"))
	assert.Equal(t, "EUR", dir.CurrencyFor("Germany"))
	assert.Equal(t, "USD", dir.CurrencyFor("Atlantis"))
	assert.Equal(t, "USD", dir.CurrencyFor(""))
	assert.True(t, dir.Known("Brazil"))
	assert.False(t, dir.Known("Atlantis"))
}

func TestDirectory_CountriesSorted(t *testing.T) {
	countries := DefaultDirectory().Countries()
	assert.NotEmpty(t, countries)
	for i := 1; i < len(countries); i++ {
		assert.Less(t, countries[i-1].Name, countries[i].Name)
	}
}

func TestLoadDirectory_Invalid(t *testing.T) {
	_, err := LoadDirectory([]byte("countries:\n  - name: Nowhere\n    code: NW\n    currency: X\n"))
	assert.Error(t, err)

	_, err = LoadDirectory([]byte("countries: ["))
	assert.Error(t, err)
}
