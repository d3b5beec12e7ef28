package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

type Movie struct {
	ID          int
	Title       string
	Description string
	Year        int
	Duration    int
	Rating      decimal.Decimal
	Director    string
	PosterUrl   string
	BackdropUrl string
	TrailerUrl  string
	Genres      []string
	CreatedAt   time.Time
}

type MovieSummary struct {
	ID        int
	Title     string
	PosterUrl string
	Duration  int
}

type Genre struct {
	ID   int
	Name string
}

type MovieRepository interface {
	GetAll(ctx context.Context, pagination Pagination) ([]*Movie, *Metadata, error)
	GetById(ctx context.Context, id int) (*Movie, error)
	GetGenres(ctx context.Context) ([]Genre, error)
}
