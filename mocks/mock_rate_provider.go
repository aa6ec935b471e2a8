package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"quotegen/internal/domain"
	"quotegen/internal/port"
)

// MockRateProvider is a mock implementation of port.RateProvider.
type MockRateProvider struct {
	mock.Mock
}

func (m *MockRateProvider) Latest(ctx context.Context, notifier port.Notifier) domain.CurrencyRates {
	args := m.Called(ctx, notifier)
	return args.Get(0).(domain.CurrencyRates)
}
