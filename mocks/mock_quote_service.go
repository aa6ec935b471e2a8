package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"quotegen/internal/domain"
	"quotegen/internal/port"
	"quotegen/internal/quote"
	"quotegen/internal/service"
)

// MockQuoteService is a mock implementation of service.QuoteService.
type MockQuoteService struct {
	mock.Mock
}

func (m *MockQuoteService) PrepareForm(form domain.FormData) (domain.FormData, error) {
	args := m.Called(form)
	return args.Get(0).(domain.FormData), args.Error(1)
}

func (m *MockQuoteService) Analyze(ctx context.Context, input service.AnalyzeInput, notifier port.Notifier) (*domain.QuoteData, error) {
	args := m.Called(ctx, input, notifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuoteData), args.Error(1)
}

func (m *MockQuoteService) Manual(ctx context.Context, input service.ManualInput, notifier port.Notifier) (*domain.QuoteData, error) {
	args := m.Called(ctx, input, notifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.QuoteData), args.Error(1)
}

func (m *MockQuoteService) Rates(ctx context.Context, notifier port.Notifier) domain.CurrencyRates {
	args := m.Called(ctx, notifier)
	return args.Get(0).(domain.CurrencyRates)
}

func (m *MockQuoteService) Countries() []quote.Country {
	args := m.Called()
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).([]quote.Country)
}
