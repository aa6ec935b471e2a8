package quote

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quotegen/internal/classifier"
	"quotegen/internal/domain"
	"quotegen/internal/parser"
)

func chileRates() domain.CurrencyRates {
	return domain.CurrencyRates{
		Base:   "USD",
		Date:   "2024-06-01",
		Rates:  map[string]float64{"USD": 1, "CLP": 800, "EUR": 0.85},
		Source: domain.RateSourceLive,
	}
}

func chileForm() domain.FormData {
	return domain.FormData{
		Country:       "Chile",
		QuoteCurrency: domain.QuoteCurrencyUSD,
		AEName:        "Jane Doe",
		ClientName:    "Acme Corp",
		EORFeeUSD:     499,
	}
}

func parseInput(t *testing.T, payText, employeeText string) Input {
	t.Helper()
	pay, err := parser.ParsePayScreenshot(payText)
	require.NoError(t, err)
	return Input{
		Pay:      pay,
		Employee: parser.ParseEmployeeScreenshot(employeeText),
		Form:     chileForm(),
		Rates:    chileRates(),
	}
}

func findRow(fields []domain.ConvertedField, label string) (domain.ConvertedField, bool) {
	for _, f := range fields {
		if f.Label == label {
			return f, true
		}
	}
	return domain.ConvertedField{}, false
}

func TestCalculate_EndToEnd(t *testing.T) {
	in := parseInput(t,
		"Gross Monthly Salary USD 3000\nTotal Monthly Cost USD 3600",
		"Net Monthly Salary USD 2500")

	q, err := NewCalculator(nil).Calculate(in)
	require.NoError(t, err)

	assert.Equal(t, "CLP", q.LocalCurrency)
	assert.Equal(t, 800.0, q.ExchangeRate)

	dismissal, ok := findRow(q.PayFields, classifier.LabelDismissalDeposit)
	require.True(t, ok)
	assert.InDelta(t, 250, dismissal.USDAmount, 1e-9)
	assert.InDelta(t, 200000, dismissal.LocalAmount, 1e-6)

	fee, ok := findRow(q.PayFields, classifier.LabelEORFee)
	require.True(t, ok)
	assert.Equal(t, 499.0, fee.USDAmount)
	assert.Equal(t, 399200.0, fee.LocalAmount)
	assert.Equal(t, 399200.0, q.EORFeeLocal)

	assert.InDelta(t, 4349, q.TotalYouPayUSD, 1e-9)
	assert.InDelta(t, 4349*800, q.TotalYouPay, 1e-6)
	assert.InDelta(t, 200000, q.DismissalDeposit, 1e-6)

	// computed rows come last: dismissal deposit then EOR fee
	require.Len(t, q.PayFields, 4)
	assert.Equal(t, classifier.LabelGrossSalary, q.PayFields[0].Label)
	assert.Equal(t, classifier.LabelDismissalDeposit, q.PayFields[2].Label)
	assert.Equal(t, classifier.LabelEORFee, q.PayFields[3].Label)

	require.Len(t, q.EmployeeFields, 1)
	assert.Equal(t, 2500.0, q.EmployeeFields[0].USDAmount)
	assert.Equal(t, 2000000.0, q.EmployeeFields[0].LocalAmount)
}

func TestCalculate_SeveranceOmitsDismissalDeposit(t *testing.T) {
	in := parseInput(t,
		"Gross Monthly Salary USD 3000\nSeverance Pay USD 250\nTotal Monthly Cost USD 3850",
		"Net Monthly Salary USD 2500")
	require.True(t, in.Pay.HasSeverancePay)

	q, err := NewCalculator(nil).Calculate(in)
	require.NoError(t, err)

	_, ok := findRow(q.PayFields, classifier.LabelDismissalDeposit)
	assert.False(t, ok)
	assert.Zero(t, q.DismissalDeposit)
	assert.InDelta(t, 3850+499, q.TotalYouPayUSD, 1e-9)
}

func TestCalculate_SetupSummaryUsesTotalEmploymentCost(t *testing.T) {
	in := parseInput(t,
		"Gross Monthly Salary USD 3000\nTotal Employment Cost USD 3700",
		"")

	q, err := NewCalculator(nil).Calculate(in)
	require.NoError(t, err)

	require.Len(t, q.SetupSummary, 2)
	assert.Equal(t, classifier.LabelSecurityDeposit, q.SetupSummary[0].Label)
	assert.Equal(t, 3700.0, q.SetupSummary[0].USDAmount)
	assert.Equal(t, classifier.LabelEORFee, q.SetupSummary[1].Label)
	assert.Equal(t, 499.0, q.SetupSummary[1].USDAmount)
	assert.NotNil(t, q.EmployeeFields)
	assert.Empty(t, q.EmployeeFields)
}

func TestCalculate_FallbackSumWithoutTotalRow(t *testing.T) {
	in := parseInput(t,
		"Gross Monthly Salary USD 3000\nHealth Insurance USD 200\nPension Fund USD 300",
		"Net Monthly Salary USD 2500")

	q, err := NewCalculator(nil).Calculate(in)
	require.NoError(t, err)

	// 3000 + 200 + 300 base, 250 dismissal, 499 fee
	assert.InDelta(t, 4249, q.TotalYouPayUSD, 1e-9)
	assert.Equal(t, classifier.LabelSecurityDeposit, q.SetupSummary[0].Label)
	assert.InDelta(t, 3500, q.SetupSummary[0].USDAmount, 1e-9)
}

func TestCalculate_LocalCurrencyFields(t *testing.T) {
	in := parseInput(t,
		"Gross Monthly Salary CLP 2.400.000\nTotal Monthly Cost CLP 2.880.000",
		"Net Monthly Salary CLP 2.000.000")

	q, err := NewCalculator(nil).Calculate(in)
	require.NoError(t, err)

	gross := q.PayFields[0]
	assert.Equal(t, 2400000.0, gross.LocalAmount)
	assert.InDelta(t, 3000, gross.USDAmount, 1e-9)

	dismissal, ok := findRow(q.PayFields, classifier.LabelDismissalDeposit)
	require.True(t, ok)
	assert.InDelta(t, 250, dismissal.USDAmount, 1e-9)
	assert.InDelta(t, 4349, q.TotalYouPayUSD, 1e-6)
}

func TestCalculate_UnknownCountryDefaultsToUSD(t *testing.T) {
	in := parseInput(t, "Gross Monthly Salary USD 1200", "")
	in.Form.Country = "Atlantis"

	q, err := NewCalculator(nil).Calculate(in)
	require.NoError(t, err)

	assert.Equal(t, "USD", q.LocalCurrency)
	assert.Equal(t, 1.0, q.ExchangeRate)
	assert.Equal(t, q.TotalYouPay, q.TotalYouPayUSD)
}

func TestCalculate_MissingRateDefaultsToOne(t *testing.T) {
	in := parseInput(t, "Gross Monthly Salary USD 1200", "")
	in.Form.Country = "Peru"
	in.Rates.Rates = map[string]float64{"USD": 1}

	q, err := NewCalculator(nil).Calculate(in)
	require.NoError(t, err)

	assert.Equal(t, "PEN", q.LocalCurrency)
	assert.Equal(t, 1.0, q.ExchangeRate)
}

func TestCalculate_NoPayFields(t *testing.T) {
	_, err := NewCalculator(nil).Calculate(Input{Form: chileForm(), Rates: chileRates()})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrMissingRequiredField)
}

func TestCalculate_Idempotent(t *testing.T) {
	in := parseInput(t,
		"Gross Monthly Salary EUR 2.500,50\nTotal Monthly Cost EUR 3.100,75\nMeal Allowance EUR 120",
		"Net Monthly Salary EUR 1900\nIncome Tax EUR 350")
	in.Form.Country = "Germany"

	calc := NewCalculator(nil)
	a, err := calc.Calculate(in)
	require.NoError(t, err)
	b, err := calc.Calculate(in)
	require.NoError(t, err)

	ja, err := json.Marshal(a)
	require.NoError(t, err)
	jb, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Equal(t, string(ja), string(jb))
}

func TestCalculate_TotalDerivedFromRows(t *testing.T) {
	in := parseInput(t, "Gross Monthly Salary USD 3000\nTotal Monthly Cost USD 3600", "")

	q, err := NewCalculator(nil).Calculate(in)
	require.NoError(t, err)

	total := PayTableTotal(q.PayFields)
	assert.Equal(t, total.Local, q.TotalYouPay)
	assert.Equal(t, total.USD, q.TotalYouPayUSD)
}

func TestCalculate_RestatedGrossSalaryCountedOnce(t *testing.T) {
	in := parseInput(t,
		"Gross Monthly Salary USD 3000\nTotal Gross Monthly Salary USD 3000\nPension USD 300",
		"")

	q, err := NewCalculator(nil).Calculate(in)
	require.NoError(t, err)

	security, ok := findRow(q.SetupSummary, classifier.LabelSecurityDeposit)
	require.True(t, ok)
	assert.InDelta(t, 3300, security.USDAmount, 1e-9)
	assert.InDelta(t, 4049, q.TotalYouPayUSD, 1e-9)
}
