package repository

import (
	"context"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-booking/internal/domain"
)

const showtimeDetailSelect = `
	SELECT
		s.id,
		s.movie_id,
		s.hall_id,
		s.start_time,
		s.price,
		m.title,
		m.poster_url,
		m.duration_min,
		h.name,
		h.total_seats,
		t.id,
		t.name,
		t.address,
		c.id,
		c.name
	FROM showtimes s
	JOIN movies m ON m.id = s.movie_id
	JOIN halls h ON h.id = s.hall_id
	JOIN theaters t ON t.id = h.theater_id
	JOIN cities c ON c.id = t.city_id
`

func scanShowtimeDetail(row pgx.Row) (*domain.ShowtimeDetail, error) {
	var s domain.ShowtimeDetail
	var price pgtype.Numeric

	err := row.Scan(
		&s.ID,
		&s.MovieID,
		&s.HallID,
		&s.StartTime,
		&price,
		&s.Movie.Title,
		&s.Movie.PosterUrl,
		&s.Movie.Duration,
		&s.Hall.Name,
		&s.Hall.TotalSeats,
		&s.Theater.ID,
		&s.Theater.Name,
		&s.Theater.Address,
		&s.Theater.City.ID,
		&s.Theater.City.Name,
	)
	if err != nil {
		return nil, err
	}

	s.Price = toDecimal(price)
	s.Movie.ID = s.MovieID
	s.Hall.ID = s.HallID
	s.Hall.TheaterID = s.Theater.ID

	return &s, nil
}

type PostgresShowtimeRepository struct {
	db *pgxpool.Pool
}

func NewPostgresShowtimeRepository(db *pgxpool.Pool) *PostgresShowtimeRepository {
	return &PostgresShowtimeRepository{
		db: db,
	}
}

func (p *PostgresShowtimeRepository) GetShowtimes(
	ctx context.Context,
	filters domain.ShowtimeFilters) ([]domain.ShowtimeDetail, error) {

	query := showtimeDetailSelect + ` WHERE TRUE`
	args := []any{}

	if filters.MovieID != nil {
		args = append(args, *filters.MovieID)
		query += ` AND s.movie_id = $` + strconv.Itoa(len(args))
	}

	if filters.CityID != nil {
		args = append(args, *filters.CityID)
		query += ` AND t.city_id = $` + strconv.Itoa(len(args))
	}

	if filters.Date != nil {
		args = append(args, *filters.Date)
		query += ` AND s.start_time >= $` + strconv.Itoa(len(args))

		args = append(args, filters.Date.AddDate(0, 0, 1))
		query += ` AND s.start_time < $` + strconv.Itoa(len(args))
	}

	query += ` ORDER BY s.start_time, s.id`

	rows, err := p.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	showtimes := make([]domain.ShowtimeDetail, 0)

	for rows.Next() {
		showtime, err := scanShowtimeDetail(rows)
		if err != nil {
			return nil, err
		}

		showtimes = append(showtimes, *showtime)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return showtimes, nil
}
