package mocks

import (
	"context"

	"github.com/metinatakli/cinema-booking/internal/domain"
)

type MockTheaterRepo struct {
	GetCitiesFunc   func(ctx context.Context) ([]domain.City, error)
	GetTheatersFunc func(ctx context.Context, cityID *int) ([]domain.Theater, error)
}

func (m *MockTheaterRepo) GetCities(ctx context.Context) ([]domain.City, error) {
	return m.GetCitiesFunc(ctx)
}

func (m *MockTheaterRepo) GetTheaters(ctx context.Context, cityID *int) ([]domain.Theater, error) {
	return m.GetTheatersFunc(ctx, cityID)
}
