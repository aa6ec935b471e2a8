// Package parser turns recognized screenshot text into typed monetary line items.
package parser

import (
	"regexp"
	"strings"

	"quotegen/internal/domain"
)

// number matches digits grouped by comma, dot or apostrophe, or by single spaces between
// three-digit groups ("1 234,56"). NormalizeAmount decides which mark is the decimal one.
const number = `(?:\d{1,3}(?: \d{3})+(?:[.,]\d+)?|\d(?:[\d.,'’]*\d)?)`

var (
	reCurrencyFirst = regexp.MustCompile(`^(.+?)\s+([A-Za-z]{3})\s*(` + number + `)$`)
	reAmountFirst   = regexp.MustCompile(`^(.+?)\s+(` + number + `)\s*([A-Za-z]{3})$`)
	reColonLabel    = regexp.MustCompile(`^(.+?):\s*([A-Za-z]{3})\s*(` + number + `)$`)
)

var noisePhrases = []string{
	"country",
	"amount you pay",
	"amount employee gets",
}

var (
	reCRLF       = regexp.MustCompile(`\r\n?`)
	reTabs       = regexp.MustCompile(`\t+`)
	reMultiSpace = regexp.MustCompile(` {2,}`)
)

// wideSpaces maps the no-break and thin spaces OCR engines emit to plain spaces.
var wideSpaces = strings.NewReplacer("\u00a0", " ", "\u202f", " ", "\u2009", " ")

// NormalizeText collapses OCR whitespace noise while keeping line breaks.
func NormalizeText(s string) string {
	s = reCRLF.ReplaceAllString(s, "\n")
	s = wideSpaces.Replace(s)
	s = reTabs.ReplaceAllString(s, " ")
	return reMultiSpace.ReplaceAllString(s, " ")
}

// Lines splits text into trimmed, non-empty lines.
func Lines(text string) []string {
	raw := strings.Split(NormalizeText(text), "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// IsNoise reports whether a line is a table header rather than a line item.
func IsNoise(line string) bool {
	l := strings.ToLower(line)
	for _, p := range noisePhrases {
		if strings.Contains(l, p) {
			return true
		}
	}
	return false
}

// ParseLine matches a single line against the accepted shapes, in order:
// "Label CCC 1,234.56", "Label 1,234.56 CCC" and "Label: CCC 1,234.56".
// It reports false for lines with no shape, no label or a non-positive amount.
func ParseLine(line string) (domain.ParsedField, bool) {
	line = strings.TrimSpace(reMultiSpace.ReplaceAllString(wideSpaces.Replace(line), " "))

	var label, currency, amount string
	if m := reCurrencyFirst.FindStringSubmatch(line); m != nil {
		label, currency, amount = m[1], m[2], m[3]
	} else if m := reAmountFirst.FindStringSubmatch(line); m != nil {
		label, amount, currency = m[1], m[2], m[3]
	} else if m := reColonLabel.FindStringSubmatch(line); m != nil {
		label, currency, amount = m[1], m[2], m[3]
	} else {
		return domain.ParsedField{}, false
	}

	label = strings.TrimSpace(strings.TrimRight(strings.TrimSpace(label), ":"))
	if label == "" {
		return domain.ParsedField{}, false
	}
	v, err := NormalizeAmount(amount)
	if err != nil {
		return domain.ParsedField{}, false
	}
	return domain.ParsedField{
		Label:    label,
		Amount:   v,
		Currency: strings.ToUpper(currency),
	}, true
}

// ParseLines runs the generic pass over already split lines, skipping header noise.
func ParseLines(lines []string) []domain.ParsedField {
	fields := make([]domain.ParsedField, 0, len(lines))
	for _, line := range lines {
		if IsNoise(line) {
			continue
		}
		if f, ok := ParseLine(line); ok {
			fields = append(fields, f)
		}
	}
	return fields
}
