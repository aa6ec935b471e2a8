// Package classifier holds the pure label predicates shared by the calculator, the validator
// and every rendering path. None of them cache results.
package classifier

import (
	"strings"
	"unicode"

	"quotegen/internal/domain"
)

// Computed row labels appended by the calculator.
const (
	LabelGrossSalary         = domain.GrossSalaryLabel
	LabelDismissalDeposit    = "Dismissal Deposit (1/12 salary)"
	LabelEORFee              = "Ontop EOR Fee"
	LabelSecurityDeposit     = "Security Deposit (1 month total cost)"
	LabelMonthlyCostFallback = "Total Monthly Cost"
)

// Tags is the full set of classifications for one label.
type Tags struct {
	GrossSalary         bool `json:"grossSalary"`
	Severance           bool `json:"severance"`
	Subtotal            bool `json:"subtotal"`
	NetSalary           bool `json:"netSalary"`
	TotalEmploymentCost bool `json:"totalEmploymentCost"`
	Computed            bool `json:"computed"`
}

func containsAny(s string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

func lower(label string) string {
	return strings.ToLower(label)
}

func stripSpaces(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// IsGrossSalary reports whether the label names the gross monthly salary.
func IsGrossSalary(label string) bool {
	return containsAny(lower(label), grossSalaryPhrases)
}

// IsSeverance reports whether the label mentions severance, tolerating OCR misspellings and
// spaces inserted inside the word.
func IsSeverance(label string) bool {
	return containsAny(stripSpaces(lower(label)), severanceSpellings)
}

// IsSubtotal reports whether the label is a subtotal row of the given table.
func IsSubtotal(label string, table domain.TableType) bool {
	if table == domain.TableEmployee {
		return containsAny(lower(label), employeeSubtotals)
	}
	return containsAny(lower(label), paySubtotals)
}

// IsNetSalary reports whether the label names the employee's net monthly salary.
func IsNetSalary(label string) bool {
	return strings.Contains(lower(label), "net monthly salary")
}

// IsTotalEmploymentCost reports whether the label is the monthly employment cost total.
func IsTotalEmploymentCost(label string) bool {
	l := lower(label)
	if containsAny(l, totalEmploymentCostPhrases) {
		return true
	}
	return strings.Contains(l, "total") && strings.Contains(l, "employment")
}

// IsDismissalDeposit reports whether the label is the computed dismissal deposit row.
func IsDismissalDeposit(label string) bool {
	return strings.Contains(lower(label), "dismissal deposit")
}

// IsEORFee reports whether the label is the computed EOR fee row.
func IsEORFee(label string) bool {
	return strings.Contains(lower(label), "ontop eor fee")
}

// IsComputed reports whether the label belongs to a row the calculator appends.
func IsComputed(label string) bool {
	return IsDismissalDeposit(label) || IsEORFee(label)
}

// Classify derives every tag for a label.
func Classify(label string, table domain.TableType) Tags {
	return Tags{
		GrossSalary:         IsGrossSalary(label),
		Severance:           IsSeverance(label),
		Subtotal:            IsSubtotal(label, table),
		NetSalary:           IsNetSalary(label),
		TotalEmploymentCost: IsTotalEmploymentCost(label),
		Computed:            IsComputed(label),
	}
}

// Emphasized reports whether a row should be rendered bold.
func (t Tags) Emphasized(table domain.TableType) bool {
	return t.Subtotal || (table == domain.TableEmployee && t.NetSalary)
}
