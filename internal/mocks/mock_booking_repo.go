package mocks

import (
	"context"

	"github.com/metinatakli/cinema-booking/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking, seats []domain.SeatCoordinate) error {
	args := m.Called(ctx, booking, seats)
	return args.Error(0)
}

func (m *MockBookingRepo) GetTicketsByShowtimeId(ctx context.Context, showtimeID int) ([]domain.Ticket, error) {
	args := m.Called(ctx, showtimeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Ticket), args.Error(1)
}

func (m *MockBookingRepo) GetBookingsByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingDetail, *domain.Metadata, error) {

	args := m.Called(ctx, userID, pagination)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).([]domain.BookingDetail), args.Get(1).(*domain.Metadata), args.Error(2)
}

func (m *MockBookingRepo) GetByIdAndUserId(ctx context.Context, bookingID, userID int) (*domain.BookingDetail, error) {
	args := m.Called(ctx, bookingID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDetail), args.Error(1)
}
