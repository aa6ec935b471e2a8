// Package quote turns parsed screenshots, operator form data and an exchange-rate table into a
// complete QuoteData.
package quote

import (
	"quotegen/internal/classifier"
	"quotegen/internal/domain"
)

// Input bundles everything one calculation needs.
type Input struct {
	Pay      domain.PayScreenshot
	Employee domain.EmployeeScreenshot
	Form     domain.FormData
	Rates    domain.CurrencyRates
}

// Calculator computes quotes. It holds no mutable state and is safe for concurrent use.
type Calculator struct {
	countries *Directory
}

// NewCalculator creates a calculator resolving local currencies through dir. A nil dir selects
// the embedded country table.
func NewCalculator(dir *Directory) *Calculator {
	if dir == nil {
		dir = DefaultDirectory()
	}
	return &Calculator{countries: dir}
}

// Countries exposes the directory used for local currency resolution.
func (c *Calculator) Countries() *Directory {
	return c.countries
}

// Calculate builds a quote. The only failure is a pay screenshot without fields, which means
// the gross salary anchor never made it through parsing.
func (c *Calculator) Calculate(in Input) (*domain.QuoteData, error) {
	if len(in.Pay.Fields) == 0 {
		return nil, domain.ErrMissingGrossSalary()
	}

	localCurrency := c.countries.CurrencyFor(in.Form.Country)
	rateToLocal := RateToLocal(in.Rates, localCurrency)

	payFields := ConvertAll(in.Pay.Fields, rateToLocal)
	employeeFields := ConvertAll(in.Employee.Fields, rateToLocal)

	eorFee := domain.ConvertedField{
		ParsedField: domain.ParsedField{Label: classifier.LabelEORFee, Amount: in.Form.EORFeeUSD, Currency: "USD"},
		LocalAmount: in.Form.EORFeeUSD * rateToLocal,
		USDAmount:   in.Form.EORFeeUSD,
	}

	var dismissal *domain.ConvertedField
	if !in.Pay.HasSeverancePay {
		gross := grossSalaryField(payFields)
		usd := gross.USDAmount / 12
		dismissal = &domain.ConvertedField{
			ParsedField: domain.ParsedField{Label: classifier.LabelDismissalDeposit, Amount: usd, Currency: "USD"},
			LocalAmount: usd * rateToLocal,
			USDAmount:   usd,
		}
	}

	// The base monthly cost is taken before the computed rows are appended so that they never
	// feed into the fallback sum.
	base, _ := MonthlyCost(payFields)

	if dismissal != nil {
		payFields = append(payFields, *dismissal)
	}
	payFields = append(payFields, eorFee)

	total := PayTableTotal(payFields)

	security := base
	security.Label = classifier.LabelSecurityDeposit
	setup := []domain.ConvertedField{security, eorFee}

	q := &domain.QuoteData{
		PayFields:      payFields,
		EmployeeFields: employeeFields,
		SetupSummary:   setup,
		LocalCurrency:  localCurrency,
		QuoteCurrency:  in.Form.QuoteCurrency,
		ExchangeRate:   rateToLocal,
		EORFeeLocal:    eorFee.LocalAmount,
		TotalYouPay:    total.Local,
		TotalYouPayUSD: total.USD,
		RatesDate:      in.Rates.Date,
		RatesSource:    in.Rates.Source,
	}
	if dismissal != nil {
		q.DismissalDeposit = dismissal.LocalAmount
	}
	if q.EmployeeFields == nil {
		q.EmployeeFields = []domain.ConvertedField{}
	}
	return q, nil
}

// grossSalaryField returns the converted gross salary row. The parser always emits it first.
func grossSalaryField(converted []domain.ConvertedField) domain.ConvertedField {
	for _, f := range converted {
		if classifier.IsGrossSalary(f.Label) {
			return f
		}
	}
	return converted[0]
}
