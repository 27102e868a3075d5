package mocks

import (
	"context"

	"auralink/internal/model"

	"github.com/stretchr/testify/mock"
)

type RegistrationRepositoryMock struct {
	mock.Mock
}

func NewRegistrationRepositoryMock() *RegistrationRepositoryMock {
	return &RegistrationRepositoryMock{}
}

func (m *RegistrationRepositoryMock) Create(ctx context.Context, registration *model.Registration) (*model.Registration, error) {
	args := m.Called(ctx, registration)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Registration), args.Error(1)
}

func (m *RegistrationRepositoryMock) ListByEvent(ctx context.Context, eventID int) ([]*model.Registration, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Registration), args.Error(1)
}

func (m *RegistrationRepositoryMock) RecentByOrganizer(ctx context.Context, organizerID int, limit int) ([]*model.RecentRegistration, error) {
	args := m.Called(ctx, organizerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.RecentRegistration), args.Error(1)
}

func (m *RegistrationRepositoryMock) CountByOrganizer(ctx context.Context, organizerID int) (int, error) {
	args := m.Called(ctx, organizerID)
	return args.Int(0), args.Error(1)
}

func (m *RegistrationRepositoryMock) CountByEvent(ctx context.Context, eventID int) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}
