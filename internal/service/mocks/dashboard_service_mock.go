package mocks

import (
	"context"

	"auralink/internal/model"

	"github.com/stretchr/testify/mock"
)

type DashboardServiceMock struct {
	mock.Mock
}

func NewDashboardServiceMock() *DashboardServiceMock {
	return &DashboardServiceMock{}
}

func (m *DashboardServiceMock) Dashboard(ctx context.Context, actor *model.User) (*model.Dashboard, error) {
	args := m.Called(ctx, actor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Dashboard), args.Error(1)
}

func (m *DashboardServiceMock) CreateEvent(ctx context.Context, actor *model.User, input model.EventInput) (*model.Event, error) {
	args := m.Called(ctx, actor, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *DashboardServiceMock) EventForManagement(ctx context.Context, actor *model.User, id int) (*model.ManagedEvent, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ManagedEvent), args.Error(1)
}

func (m *DashboardServiceMock) GetEditableEvent(ctx context.Context, actor *model.User, id int) (*model.Event, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *DashboardServiceMock) UpdateEvent(ctx context.Context, actor *model.User, id int, input model.EventInput) (*model.Event, error) {
	args := m.Called(ctx, actor, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *DashboardServiceMock) GetDeletableEvent(ctx context.Context, actor *model.User, id int) (*model.Event, error) {
	args := m.Called(ctx, actor, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *DashboardServiceMock) DeleteEvent(ctx context.Context, actor *model.User, id int) error {
	args := m.Called(ctx, actor, id)
	return args.Error(0)
}
