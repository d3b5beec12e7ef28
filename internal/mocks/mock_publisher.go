package mocks

import (
	"context"

	"github.com/metinatakli/cinema-booking/internal/events"
	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishBookingConfirmed(ctx context.Context, event events.BookingConfirmed) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}
