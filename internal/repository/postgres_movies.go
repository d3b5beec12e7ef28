package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-booking/internal/domain"
)

const movieGenresSubquery = `ARRAY(
	SELECT g.name
	FROM movie_genres mg
	JOIN genres g ON g.id = mg.genre_id
	WHERE mg.movie_id = m.id
	ORDER BY g.name)`

type PostgresMovieRepository struct {
	db *pgxpool.Pool
}

func NewPostgresMovieRepository(db *pgxpool.Pool) *PostgresMovieRepository {
	return &PostgresMovieRepository{
		db: db,
	}
}

// GetAll expects pagination.Sort to be validated against the sortable columns before the call.
func (p *PostgresMovieRepository) GetAll(
	ctx context.Context,
	pagination domain.Pagination) ([]*domain.Movie, *domain.Metadata, error) {

	query := fmt.Sprintf(`SELECT count(*) OVER(), m.id, m.title, m.description, m.year, m.duration_min,
			m.rating, m.director, m.poster_url, %s
		FROM movies m
		WHERE (to_tsvector('english', m.title || ' ' || m.description) @@ plainto_tsquery('english', $1)
			OR $1 = '')
		ORDER BY m.%s %s, m.id ASC
		LIMIT $2 OFFSET $3`, movieGenresSubquery, pagination.SortColumn(), pagination.SortDirection())

	rows, err := p.db.Query(ctx, query, pagination.Term, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	totalRecords := 0
	movies := []*domain.Movie{}

	for rows.Next() {
		var movie domain.Movie
		var rating pgtype.Numeric

		err := rows.Scan(
			&totalRecords,
			&movie.ID,
			&movie.Title,
			&movie.Description,
			&movie.Year,
			&movie.Duration,
			&rating,
			&movie.Director,
			&movie.PosterUrl,
			&movie.Genres,
		)

		if err != nil {
			return nil, nil, err
		}

		movie.Rating = toDecimal(rating)
		movies = append(movies, &movie)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return movies, metadata, nil
}

func (p *PostgresMovieRepository) GetById(ctx context.Context, id int) (*domain.Movie, error) {
	query := `SELECT m.id, m.title, m.description, m.year, m.duration_min, m.rating, m.director,
			m.poster_url, m.backdrop_url, m.trailer_url, m.created_at, ` + movieGenresSubquery + `
		FROM movies m
		WHERE m.id = $1`

	var movie domain.Movie
	var rating pgtype.Numeric

	err := p.db.QueryRow(ctx, query, id).Scan(
		&movie.ID,
		&movie.Title,
		&movie.Description,
		&movie.Year,
		&movie.Duration,
		&rating,
		&movie.Director,
		&movie.PosterUrl,
		&movie.BackdropUrl,
		&movie.TrailerUrl,
		&movie.CreatedAt,
		&movie.Genres,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	movie.Rating = toDecimal(rating)

	return &movie, nil
}

func (p *PostgresMovieRepository) GetGenres(ctx context.Context) ([]domain.Genre, error) {
	rows, err := p.db.Query(ctx, `SELECT id, name FROM genres ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	genres := make([]domain.Genre, 0)

	for rows.Next() {
		var genre domain.Genre

		err := rows.Scan(&genre.ID, &genre.Name)
		if err != nil {
			return nil, err
		}

		genres = append(genres, genre)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return genres, nil
}
