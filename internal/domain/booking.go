package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Booking struct {
	ID         int
	Reference  uuid.UUID
	UserID     int
	ShowtimeID int
	Tickets    []Ticket
	CreatedAt  time.Time
}

// Ticket binds one seat of a showtime's hall to a booking.
type Ticket struct {
	ID         int
	BookingID  int
	ShowtimeID int
	SeatID     int
	Price      decimal.Decimal
}

type BookingTicket struct {
	ID    int
	Seat  Seat
	Price decimal.Decimal
}

type BookingDetail struct {
	ID        int
	Reference uuid.UUID
	Showtime  ShowtimeDetail
	Tickets   []BookingTicket
	CreatedAt time.Time
}

func (b BookingDetail) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, t := range b.Tickets {
		total = total.Add(t.Price)
	}

	return total
}

type BookingRepository interface {
	// Create books every requested seat for the showtime or none of them. On success the
	// booking's ID, CreatedAt and Tickets are filled in.
	Create(ctx context.Context, booking *Booking, seats []SeatCoordinate) error
	GetTicketsByShowtimeId(ctx context.Context, showtimeID int) ([]Ticket, error)
	GetBookingsByUserId(ctx context.Context, userID int, pagination Pagination) ([]BookingDetail, *Metadata, error)
	GetByIdAndUserId(ctx context.Context, bookingID, userID int) (*BookingDetail, error)
}
