package mocks

import (
	"context"

	"github.com/metinatakli/cinema-booking/internal/domain"
)

type MockShowtimeRepo struct {
	GetShowtimesFunc func(ctx context.Context, filters domain.ShowtimeFilters) ([]domain.ShowtimeDetail, error)
}

func (m *MockShowtimeRepo) GetShowtimes(ctx context.Context, filters domain.ShowtimeFilters) ([]domain.ShowtimeDetail, error) {
	return m.GetShowtimesFunc(ctx, filters)
}
