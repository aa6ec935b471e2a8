package validator

import (
	"context"
	"fmt"
	"math"

	"quotegen/internal/classifier"
	"quotegen/internal/domain"
	"quotegen/internal/quote"
)

const mathTolerance = 0.01

// ruleValidator checks one arithmetic relationship of a quote.
type ruleValidator struct {
	ruleKey  string
	ruleName string
	severity Severity
	validate func(*domain.QuoteData) []Result
}

func (v *ruleValidator) RuleKey() string    { return v.ruleKey }
func (v *ruleValidator) RuleName() string   { return v.ruleName }
func (v *ruleValidator) Severity() Severity { return v.severity }

func (v *ruleValidator) Validate(_ context.Context, q *domain.QuoteData) []Result {
	results := v.validate(q)
	for i := range results {
		results[i].RuleKey = v.ruleKey
		results[i].Severity = v.severity
	}
	return results
}

func approxEqual(a, b float64) bool {
	return math.Abs(a-b) <= mathTolerance
}

func mathResult(passed bool, fieldPath, expected, actual, ruleName string) Result {
	msg := fmt.Sprintf("%s: %s matches", ruleName, fieldPath)
	if !passed {
		msg = fmt.Sprintf("%s: %s mismatch (expected %s, got %s)", ruleName, fieldPath, expected, actual)
	}
	return Result{
		Passed: passed, FieldPath: fieldPath,
		Expected: expected, Actual: actual, Message: msg,
	}
}

func fmtf(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func findRow(fields []domain.ConvertedField, match func(string) bool) (int, bool) {
	for i := range fields {
		if match(fields[i].Label) {
			return i, true
		}
	}
	return -1, false
}

type table struct {
	name   string
	fields []domain.ConvertedField
}

func tables(q *domain.QuoteData) []table {
	return []table{
		{"payFields", q.PayFields},
		{"employeeFields", q.EmployeeFields},
		{"setupSummary", q.SetupSummary},
	}
}

// QuoteValidators returns all built-in quote rules.
func QuoteValidators() []*ruleValidator {
	return []*ruleValidator{
		{
			ruleKey: "math.total_you_pay.local", ruleName: "Math: Total You Pay (local)",
			severity: SeverityError,
			validate: func(q *domain.QuoteData) []Result {
				expected := quote.PayTableTotal(q.PayFields).Local
				passed := approxEqual(q.TotalYouPay, expected)
				return []Result{mathResult(passed, "totalYouPay", fmtf(expected), fmtf(q.TotalYouPay), "Math: Total You Pay (local)")}
			},
		},
		{
			ruleKey: "math.total_you_pay.usd", ruleName: "Math: Total You Pay (USD)",
			severity: SeverityError,
			validate: func(q *domain.QuoteData) []Result {
				expected := quote.PayTableTotal(q.PayFields).USD
				passed := approxEqual(q.TotalYouPayUSD, expected)
				return []Result{mathResult(passed, "totalYouPayUSD", fmtf(expected), fmtf(q.TotalYouPayUSD), "Math: Total You Pay (USD)")}
			},
		},
		{
			ruleKey: "math.eor_fee.local", ruleName: "Math: EOR Fee (local)",
			severity: SeverityError,
			validate: func(q *domain.QuoteData) []Result {
				i, ok := findRow(q.PayFields, classifier.IsEORFee)
				if !ok {
					return []Result{mathResult(false, "payFields", "EOR fee row", "none", "Math: EOR Fee (local)")}
				}
				fee := q.PayFields[i]
				expected := fee.USDAmount * q.ExchangeRate
				fp := fmt.Sprintf("payFields[%d].localAmount", i)
				return []Result{
					mathResult(approxEqual(fee.LocalAmount, expected), fp, fmtf(expected), fmtf(fee.LocalAmount), "Math: EOR Fee (local)"),
					mathResult(approxEqual(q.EORFeeLocal, fee.LocalAmount), "eorFeeLocal", fmtf(fee.LocalAmount), fmtf(q.EORFeeLocal), "Math: EOR Fee (local)"),
				}
			},
		},
		{
			ruleKey: "math.dismissal_deposit", ruleName: "Math: Dismissal Deposit",
			severity: SeverityError,
			validate: func(q *domain.QuoteData) []Result {
				i, ok := findRow(q.PayFields, classifier.IsDismissalDeposit)
				if !ok {
					passed := q.DismissalDeposit == 0
					return []Result{mathResult(passed, "dismissalDeposit", fmtf(0), fmtf(q.DismissalDeposit), "Math: Dismissal Deposit")}
				}
				row := q.PayFields[i]
				results := []Result{
					mathResult(approxEqual(q.DismissalDeposit, row.LocalAmount), "dismissalDeposit", fmtf(row.LocalAmount), fmtf(q.DismissalDeposit), "Math: Dismissal Deposit"),
				}
				if g, ok := findRow(q.PayFields, classifier.IsGrossSalary); ok {
					expected := q.PayFields[g].USDAmount / 12
					fp := fmt.Sprintf("payFields[%d].usdAmount", i)
					results = append(results, mathResult(approxEqual(row.USDAmount, expected), fp, fmtf(expected), fmtf(row.USDAmount), "Math: Dismissal Deposit"))
				}
				return results
			},
		},
		{
			ruleKey: "fields.non_negative_finite", ruleName: "Fields: Non-negative Finite",
			severity: SeverityError,
			validate: func(q *domain.QuoteData) []Result {
				var results []Result
				for _, t := range tables(q) {
					for i, f := range t.fields {
						for _, p := range []struct {
							name string
							v    float64
						}{{"localAmount", f.LocalAmount}, {"usdAmount", f.USDAmount}} {
							passed := p.v >= 0 && !math.IsNaN(p.v) && !math.IsInf(p.v, 0)
							fp := fmt.Sprintf("%s[%d].%s", t.name, i, p.name)
							results = append(results, mathResult(passed, fp, ">= 0", fmtf(p.v), "Fields: Non-negative Finite"))
						}
					}
				}
				return results
			},
		},
		{
			ruleKey: "fields.projection_consistency", ruleName: "Fields: Projection Consistency",
			severity: SeverityError,
			validate: func(q *domain.QuoteData) []Result {
				rate := q.ExchangeRate
				if rate <= 0 {
					return []Result{mathResult(false, "exchangeRate", "> 0", fmtf(rate), "Fields: Projection Consistency")}
				}
				var results []Result
				for _, t := range tables(q) {
					for i, f := range t.fields {
						var expected, actual float64
						var fp string
						if f.Currency == "USD" {
							expected, actual = f.Amount*rate, f.LocalAmount
							fp = fmt.Sprintf("%s[%d].localAmount", t.name, i)
						} else {
							expected, actual = f.Amount/rate, f.USDAmount
							fp = fmt.Sprintf("%s[%d].usdAmount", t.name, i)
						}
						results = append(results, mathResult(approxEqual(expected, actual), fp, fmtf(expected), fmtf(actual), "Fields: Projection Consistency"))
					}
				}
				return results
			},
		},
		{
			ruleKey: "setup.security_deposit", ruleName: "Setup: Security Deposit",
			severity: SeverityError,
			validate: func(q *domain.QuoteData) []Result {
				i, ok := findRow(q.SetupSummary, func(l string) bool { return l == classifier.LabelSecurityDeposit })
				if !ok {
					return []Result{mathResult(false, "setupSummary", "security deposit row", "none", "Setup: Security Deposit")}
				}
				base, _ := quote.MonthlyCost(q.PayFields)
				row := q.SetupSummary[i]
				return []Result{
					mathResult(approxEqual(row.LocalAmount, base.LocalAmount), fmt.Sprintf("setupSummary[%d].localAmount", i), fmtf(base.LocalAmount), fmtf(row.LocalAmount), "Setup: Security Deposit"),
					mathResult(approxEqual(row.USDAmount, base.USDAmount), fmt.Sprintf("setupSummary[%d].usdAmount", i), fmtf(base.USDAmount), fmtf(row.USDAmount), "Setup: Security Deposit"),
				}
			},
		},
	}
}
