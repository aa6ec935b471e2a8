package quote

import (
	"math"

	"github.com/shopspring/decimal"

	"quotegen/internal/domain"
)

// RateToLocal returns the USD→local multiplier for currency, or 1 when the table has no usable
// rate for it.
func RateToLocal(rates domain.CurrencyRates, currency string) float64 {
	r, ok := rates.Rates[currency]
	if !ok || r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
		return 1
	}
	return r
}

// Convert projects a field into local currency and USD. A USD field keeps its amount as the USD
// projection; any other field keeps it as the local projection.
func Convert(f domain.ParsedField, rateToLocal float64) domain.ConvertedField {
	out := domain.ConvertedField{ParsedField: f}
	if f.Currency == "USD" {
		out.USDAmount = f.Amount
		out.LocalAmount = f.Amount * rateToLocal
	} else {
		out.LocalAmount = f.Amount
		out.USDAmount = f.Amount * (1 / rateToLocal)
	}
	return out
}

// ConvertAll converts every field, preserving order.
func ConvertAll(fields []domain.ParsedField, rateToLocal float64) []domain.ConvertedField {
	out := make([]domain.ConvertedField, 0, len(fields))
	for _, f := range fields {
		out = append(out, Convert(f, rateToLocal))
	}
	return out
}

// ConvertAmount converts between any two currencies of the table through USD, rounded to cents.
func ConvertAmount(amount float64, from, to string, rates domain.CurrencyRates) float64 {
	if from == to {
		return amount
	}
	usd := amount
	if from != "USD" {
		usd = amount / RateToLocal(rates, from)
	}
	converted := usd * RateToLocal(rates, to)
	return decimal.NewFromFloat(converted).Round(2).InexactFloat64()
}
