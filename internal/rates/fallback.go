package rates

import "quotegen/internal/domain"

// FallbackDate is the date stamped on the static table.
const FallbackDate = "2024-01-01"

var fallbackRates = map[string]float64{
	"USD": 1,
	"EUR": 0.85,
	"GBP": 0.73,
	"CLP": 800,
	"ARS": 350,
	"BRL": 5.2,
	"MXN": 18.5,
	"COP": 4200,
	"PEN": 3.8,
	"BDT": 110,
	"INR": 83,
	"SGD": 1.35,
	"AUD": 1.55,
	"CAD": 1.38,
	"CHF": 0.92,
	"JPY": 150,
	"CNY": 7.2,
}

// Fallback returns the static rate table used whenever live rates are unavailable.
// Each call returns a fresh copy.
func Fallback() domain.CurrencyRates {
	r := make(map[string]float64, len(fallbackRates))
	for k, v := range fallbackRates {
		r[k] = v
	}
	return domain.CurrencyRates{
		Base:   "USD",
		Date:   FallbackDate,
		Rates:  r,
		Source: domain.RateSourceFallback,
	}
}

// FallbackNotification is published once per lookup that ends up on the static table.
func FallbackNotification() domain.Notification {
	return domain.Notification{
		Variant:     domain.NotificationDestructive,
		Title:       "Exchange Rates",
		Description: "Live exchange rates unavailable, using fallback rates.",
	}
}
