package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Showtime struct {
	ID        int
	MovieID   int
	HallID    int
	StartTime time.Time
	Price     decimal.Decimal
}

// ShowtimeDetail is a showtime joined with the movie it screens and the hall it runs in.
type ShowtimeDetail struct {
	Showtime
	Movie   MovieSummary
	Hall    Hall
	Theater Theater
}

type ShowtimeFilters struct {
	MovieID *int
	CityID  *int
	Date    *time.Time
}

type ShowtimeRepository interface {
	GetShowtimes(ctx context.Context, filters ShowtimeFilters) ([]ShowtimeDetail, error)
}
