package mocks

import (
	"context"

	"github.com/metinatakli/cinema-booking/internal/domain"
)

type MockMovieRepo struct {
	domain.MovieRepository
	GetAllFunc    func(ctx context.Context, pagination domain.Pagination) ([]*domain.Movie, *domain.Metadata, error)
	GetByIdFunc   func(ctx context.Context, id int) (*domain.Movie, error)
	GetGenresFunc func(ctx context.Context) ([]domain.Genre, error)
}

func (m *MockMovieRepo) GetAll(ctx context.Context, pagination domain.Pagination) ([]*domain.Movie, *domain.Metadata, error) {
	return m.GetAllFunc(ctx, pagination)
}

func (m *MockMovieRepo) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	return m.GetByIdFunc(ctx, id)
}

func (m *MockMovieRepo) GetGenres(ctx context.Context) ([]domain.Genre, error) {
	return m.GetGenresFunc(ctx)
}
