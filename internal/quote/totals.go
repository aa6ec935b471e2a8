package quote

import (
	"quotegen/internal/classifier"
	"quotegen/internal/domain"
)

// Total is a dual-currency sum.
type Total struct {
	Local float64 `json:"local"`
	USD   float64 `json:"usd"`
}

// MonthlyCost returns the base monthly cost of a pay table: the total employment cost row when
// present, otherwise the sum of every non-computed row.
func MonthlyCost(fields []domain.ConvertedField) (domain.ConvertedField, bool) {
	for _, f := range fields {
		if classifier.IsTotalEmploymentCost(f.Label) && !classifier.IsComputed(f.Label) {
			return f, true
		}
	}
	var sum domain.ConvertedField
	sum.Label = classifier.LabelMonthlyCostFallback
	for _, f := range fields {
		if classifier.IsComputed(f.Label) {
			continue
		}
		sum.LocalAmount += f.LocalAmount
		sum.USDAmount += f.USDAmount
	}
	sum.Amount = sum.USDAmount
	sum.Currency = "USD"
	return sum, false
}

// PayTableTotal is the amount-you-pay total: base monthly cost plus the EOR fee plus the
// dismissal deposit when present. It is always derived from the rows given.
func PayTableTotal(fields []domain.ConvertedField) Total {
	base, _ := MonthlyCost(fields)
	t := Total{Local: base.LocalAmount, USD: base.USDAmount}
	for _, f := range fields {
		if classifier.IsEORFee(f.Label) || classifier.IsDismissalDeposit(f.Label) {
			t.Local += f.LocalAmount
			t.USD += f.USDAmount
		}
	}
	return t
}

// SummaryTotal sums every row of a table.
func SummaryTotal(fields []domain.ConvertedField) Total {
	var t Total
	for _, f := range fields {
		t.Local += f.LocalAmount
		t.USD += f.USDAmount
	}
	return t
}
