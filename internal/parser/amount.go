package parser

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"unicode"
)

// NormalizeAmount converts a printed amount with grouping separators into a float.
//
// Whitespace variants and apostrophes are always grouping. When both ',' and '.' appear the
// comma is grouping, unless the comma comes last and is followed by one or two digits
// ("1.234,56", "1.234.567,5"). A lone comma is a decimal mark only when exactly two digits
// follow the last one.
func NormalizeAmount(raw string) (float64, error) {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) || r == '\'' || r == '’' {
			return -1
		}
		return r
	}, raw)
	if cleaned == "" {
		return 0, fmt.Errorf("empty amount %q", raw)
	}

	lastComma := strings.LastIndex(cleaned, ",")
	lastDot := strings.LastIndex(cleaned, ".")
	digitsAfter := func(idx int) int {
		if tail := cleaned[idx+1:]; isDigits(tail) {
			return len(tail)
		}
		return -1
	}
	twoDigitsAfter := func(idx int) bool { return digitsAfter(idx) == 2 }

	switch {
	case lastComma >= 0 && lastDot >= 0:
		if n := digitsAfter(lastComma); lastComma > lastDot && (n == 1 || n == 2) {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
			cleaned = strings.Replace(cleaned, ",", ".", 1)
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	case lastComma >= 0:
		if twoDigitsAfter(lastComma) {
			cleaned = strings.ReplaceAll(cleaned[:lastComma], ",", "") + "." + cleaned[lastComma+1:]
		} else {
			cleaned = strings.ReplaceAll(cleaned, ",", "")
		}
	}
	if strings.Count(cleaned, ".") > 1 {
		cleaned = strings.ReplaceAll(cleaned, ".", "")
	}

	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parsing amount %q: %w", raw, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
		return 0, fmt.Errorf("amount %q is not a positive number", raw)
	}
	return v, nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
