package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"quotegen/internal/port"
	"quotegen/internal/service"
)

// MockDeliveryService is a mock implementation of service.DeliveryService.
type MockDeliveryService struct {
	mock.Mock
}

func (m *MockDeliveryService) document(args mock.Arguments) (*port.Document, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*port.Document), args.Error(1)
}

func (m *MockDeliveryService) RenderPDF(ctx context.Context, sessionID uuid.UUID) (*port.Document, error) {
	return m.document(m.Called(ctx, sessionID))
}

func (m *MockDeliveryService) ExportCSV(ctx context.Context, sessionID uuid.UUID) (*port.Document, error) {
	return m.document(m.Called(ctx, sessionID))
}

func (m *MockDeliveryService) ExportXLSX(ctx context.Context, sessionID uuid.UUID) (*port.Document, error) {
	return m.document(m.Called(ctx, sessionID))
}

func (m *MockDeliveryService) Publish(ctx context.Context, sessionID uuid.UUID) (*service.PublishResult, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PublishResult), args.Error(1)
}

func (m *MockDeliveryService) Email(ctx context.Context, sessionID uuid.UUID, input service.EmailInput) (*service.PublishResult, error) {
	args := m.Called(ctx, sessionID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.PublishResult), args.Error(1)
}
