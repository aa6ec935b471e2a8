package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"quotegen/internal/port"
)

// MockQuoteMailer is a mock implementation of port.QuoteMailer.
type MockQuoteMailer struct {
	mock.Mock
}

func (m *MockQuoteMailer) SendQuoteLink(ctx context.Context, msg port.QuoteEmail) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
