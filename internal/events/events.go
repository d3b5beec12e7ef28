package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const BookingConfirmedQueue = "booking.confirmed"

// BookingConfirmed is published once a booking transaction has committed.
type BookingConfirmed struct {
	BookingID   int             `json:"bookingId"`
	Reference   uuid.UUID       `json:"reference"`
	UserID      int             `json:"userId"`
	UserName    string          `json:"userName"`
	UserEmail   string          `json:"userEmail"`
	MovieTitle  string          `json:"movieTitle"`
	TheaterName string          `json:"theaterName"`
	HallName    string          `json:"hallName"`
	StartTime   time.Time       `json:"startTime"`
	Seats       []string        `json:"seats"`
	TotalPrice  decimal.Decimal `json:"totalPrice"`
	ConfirmedAt time.Time       `json:"confirmedAt"`
}

type Publisher interface {
	PublishBookingConfirmed(ctx context.Context, event BookingConfirmed) error
}

// NoopPublisher drops every event. It is used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishBookingConfirmed(context.Context, BookingConfirmed) error {
	return nil
}
