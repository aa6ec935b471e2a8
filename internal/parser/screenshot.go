package parser

import (
	"log"
	"math"
	"regexp"
	"strings"

	"quotegen/internal/classifier"
	"quotegen/internal/domain"
)

var (
	reGrossMonthlySalary = regexp.MustCompile(`(?i)gross\s+monthly\s+salary`)
	// Manual rows may use the shorter "Gross Salary" label.
	reGrossSalary = regexp.MustCompile(`(?i)\bgross\s+(?:monthly\s+)?salary\b`)
)

// ParsePayScreenshot parses the "amount you pay" screenshot. The gross monthly salary line is
// mandatory and is emitted first; it sets the screenshot's currency.
func ParsePayScreenshot(text string) (domain.PayScreenshot, error) {
	lines := Lines(text)

	anchor := -1
	for i, l := range lines {
		if reGrossMonthlySalary.MatchString(l) {
			anchor = i
			break
		}
	}
	if anchor < 0 {
		return domain.PayScreenshot{}, domain.ErrMissingGrossSalary()
	}
	gms, ok := ParseLine(lines[anchor])
	if !ok {
		return domain.PayScreenshot{}, domain.ErrMissingGrossSalary()
	}
	gms.Label = classifier.LabelGrossSalary

	hasSeverance := false
	for _, l := range lines {
		if classifier.IsSeverance(l) {
			hasSeverance = true
			break
		}
	}

	// Every gross monthly salary line is dropped, not only the anchor.
	rest := make([]string, 0, len(lines)-1)
	for _, l := range lines {
		if !reGrossMonthlySalary.MatchString(l) {
			rest = append(rest, l)
		}
	}

	fields := append([]domain.ParsedField{gms}, ParseLines(rest)...)
	log.Printf("parser.ParsePayScreenshot: %d fields, gross salary %.2f %s, severance=%t",
		len(fields), gms.Amount, gms.Currency, hasSeverance)

	return domain.PayScreenshot{
		Fields:          fields,
		GrossSalary:     gms.Amount,
		Currency:        gms.Currency,
		HasSeverancePay: hasSeverance,
	}, nil
}

// ParseEmployeeScreenshot parses the "amount employee gets" screenshot. It has no mandatory
// field; empty text yields no fields.
func ParseEmployeeScreenshot(text string) domain.EmployeeScreenshot {
	fields := ParseLines(Lines(text))
	log.Printf("parser.ParseEmployeeScreenshot: %d fields", len(fields))
	return domain.EmployeeScreenshot{Fields: fields}
}

// manualFields keeps operator-entered rows that have a label and a positive finite amount.
// A missing currency defaults to USD.
func manualFields(fields []domain.ParsedField) []domain.ParsedField {
	out := make([]domain.ParsedField, 0, len(fields))
	for _, f := range fields {
		label := strings.TrimSpace(f.Label)
		if label == "" || !(f.Amount > 0) || math.IsInf(f.Amount, 0) {
			continue
		}
		cur := strings.ToUpper(strings.TrimSpace(f.Currency))
		if cur == "" {
			cur = "USD"
		}
		out = append(out, domain.ParsedField{Label: label, Amount: f.Amount, Currency: cur})
	}
	return out
}

// PayScreenshotFromFields builds a pay screenshot from manually entered rows. The row naming
// the gross salary is required and moved to the front, exactly as parsed text would yield it.
func PayScreenshotFromFields(fields []domain.ParsedField) (domain.PayScreenshot, error) {
	kept := manualFields(fields)

	anchor := -1
	hasSeverance := false
	for i, f := range kept {
		if anchor < 0 && reGrossSalary.MatchString(f.Label) {
			anchor = i
		}
		if classifier.IsSeverance(f.Label) {
			hasSeverance = true
		}
	}
	if anchor < 0 {
		return domain.PayScreenshot{}, domain.ErrMissingGrossSalary()
	}

	gms := kept[anchor]
	gms.Label = classifier.LabelGrossSalary
	out := make([]domain.ParsedField, 0, len(kept))
	out = append(out, gms)
	out = append(out, kept[:anchor]...)
	out = append(out, kept[anchor+1:]...)

	return domain.PayScreenshot{
		Fields:          out,
		GrossSalary:     gms.Amount,
		Currency:        gms.Currency,
		HasSeverancePay: hasSeverance,
	}, nil
}

// EmployeeScreenshotFromFields builds an employee screenshot from manually entered rows.
func EmployeeScreenshotFromFields(fields []domain.ParsedField) domain.EmployeeScreenshot {
	return domain.EmployeeScreenshot{Fields: manualFields(fields)}
}
