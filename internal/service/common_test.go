package service_test

import (
	"context"
	"time"

	"auralink/internal/model"
	"auralink/internal/payment"

	"github.com/stretchr/testify/mock"
)

type MailerMock struct {
	mock.Mock
}

func (m *MailerMock) Send(ctx context.Context, mail *model.Mail) error {
	args := m.Called(ctx, mail)
	return args.Error(0)
}

type GatewayMock struct {
	mock.Mock
}

func (m *GatewayMock) Charge(ctx context.Context, charge payment.Charge) (*payment.Receipt, error) {
	args := m.Called(ctx, charge)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*payment.Receipt), args.Error(1)
}

func intPtr(v int) *int {
	return &v
}

func staffUser(id int) *model.User {
	return &model.User{ID: id, Username: "staff", IsStaff: true}
}

func regularUser(id int) *model.User {
	return &model.User{ID: id, Username: "member"}
}

func testEvent(id int, organizerID *int) *model.Event {
	start := time.Date(2026, 5, 1, 18, 0, 0, 0, time.UTC)
	return &model.Event{
		ID:          id,
		Title:       "Spring Jazz Night",
		Slug:        "spring-jazz-night",
		Description: "Live music",
		StartTime:   start,
		EndTime:     start.Add(3 * time.Hour),
		Venue:       "Main Campus Auditorium",
		Price:       15,
		Capacity:    100,
		OrganizerID: organizerID,
	}
}

func validEventInput() model.EventInput {
	return model.EventInput{
		Title:       "Spring Jazz Night",
		Description: "Live music",
		StartTime:   "2026-05-01T18:00",
		EndTime:     "2026-05-01T21:00",
		Venue:       "Main Campus Auditorium",
		Price:       "15.00",
		Capacity:    "100",
	}
}
