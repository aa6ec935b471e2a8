// Package format renders amounts the way every quote surface displays them: en-US grouping with
// a fixed number of fraction digits.
package format

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Number formats v with exactly decimals fraction digits, rounding half away from zero.
func Number(v float64, decimals int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "-"
	}
	rounded := decimal.NewFromFloat(v).Round(int32(decimals)).InexactFloat64()
	if rounded == 0 {
		rounded = 0 // drops negative zero
	}
	return printer.Sprint(number.Decimal(rounded, number.Scale(decimals)))
}

// Amount formats a monetary value with two fraction digits.
func Amount(v float64) string {
	return Number(v, 2)
}

// ExchangeRate formats a USD to local multiplier with five fraction digits.
func ExchangeRate(v float64) string {
	return Number(v, 5)
}

// ExchangeNote is the "1 CCC = x.xxxx USD" line shown under the pay table. It is empty when the
// rate is 1 or unusable.
func ExchangeNote(localCurrency string, rateToLocal float64) string {
	if rateToLocal <= 0 || rateToLocal == 1 || math.IsNaN(rateToLocal) || math.IsInf(rateToLocal, 0) {
		return ""
	}
	return fmt.Sprintf("1 %s = %s USD", localCurrency, decimal.NewFromFloat(1/rateToLocal).StringFixed(4))
}

// Cents returns v rounded to two decimals as a fixed-point string without grouping, for
// machine-readable exports.
func Cents(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}
