package port

import (
	"context"

	"quotegen/internal/domain"
)

// RateProvider returns a usable USD-based rate table. It never fails: on any problem it serves a
// fallback table and reports the degradation through the notifier.
type RateProvider interface {
	Latest(ctx context.Context, notifier Notifier) domain.CurrencyRates
}
