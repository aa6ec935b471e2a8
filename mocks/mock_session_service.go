package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"quotegen/internal/domain"
	"quotegen/internal/service"
)

// MockSessionService is a mock implementation of service.SessionService.
type MockSessionService struct {
	mock.Mock
}

func (m *MockSessionService) Create(ctx context.Context) (domain.Session, error) {
	args := m.Called(ctx)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockSessionService) Get(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockSessionService) SubmitForm(ctx context.Context, id uuid.UUID, form domain.FormData) (domain.Session, error) {
	args := m.Called(ctx, id, form)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockSessionService) Upload(ctx context.Context, id uuid.UUID, kind domain.SlotKind, image []byte) (domain.Session, error) {
	args := m.Called(ctx, id, kind, image)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockSessionService) Subscribe(ctx context.Context, id uuid.UUID, kind domain.SlotKind) (<-chan service.ProgressEvent, func(), error) {
	args := m.Called(ctx, id, kind)
	var ch <-chan service.ProgressEvent
	if c := args.Get(0); c != nil {
		switch v := c.(type) {
		case chan service.ProgressEvent:
			ch = v
		case <-chan service.ProgressEvent:
			ch = v
		}
	}
	var cancel func()
	if f := args.Get(1); f != nil {
		cancel = f.(func())
	}
	return ch, cancel, args.Error(2)
}

func (m *MockSessionService) Analyze(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockSessionService) SubmitManual(ctx context.Context, id uuid.UUID, pay, employee []domain.ParsedField) (domain.Session, error) {
	args := m.Called(ctx, id, pay, employee)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockSessionService) DismissError(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockSessionService) Reset(ctx context.Context, id uuid.UUID) (domain.Session, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.Session), args.Error(1)
}

func (m *MockSessionService) DrainNotifications(ctx context.Context, id uuid.UUID) ([]domain.Notification, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notification), args.Error(1)
}

func (m *MockSessionService) Wait() {
	m.Called()
}
