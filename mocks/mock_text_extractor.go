package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"quotegen/internal/port"
)

// MockTextExtractor is a mock implementation of port.TextExtractor. Use Run to drive the
// progress callback, which is the third argument.
type MockTextExtractor struct {
	mock.Mock
}

func (m *MockTextExtractor) Extract(ctx context.Context, image []byte, progress port.ProgressFunc) (string, error) {
	args := m.Called(ctx, image, progress)
	return args.String(0), args.Error(1)
}

func (m *MockTextExtractor) Name() string {
	args := m.Called()
	return args.String(0)
}
