package repository

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-booking/internal/domain"
)

type PostgresTheaterRepository struct {
	db *pgxpool.Pool
}

func NewPostgresTheaterRepository(db *pgxpool.Pool) *PostgresTheaterRepository {
	return &PostgresTheaterRepository{
		db: db,
	}
}

func (p *PostgresTheaterRepository) GetCities(ctx context.Context) ([]domain.City, error) {
	rows, err := p.db.Query(ctx, `SELECT id, name FROM cities ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cities := make([]domain.City, 0)

	for rows.Next() {
		var city domain.City

		err := rows.Scan(&city.ID, &city.Name)
		if err != nil {
			return nil, err
		}

		cities = append(cities, city)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return cities, nil
}

func (p *PostgresTheaterRepository) GetTheaters(ctx context.Context, cityID *int) ([]domain.Theater, error) {
	query := `
		SELECT
			t.id,
			t.name,
			t.address,
			c.id,
			c.name,
			COALESCE(jsonb_agg(
				jsonb_build_object(
					'id', h.id,
					'theaterId', h.theater_id,
					'name', h.name,
					'totalSeats', h.total_seats
				) ORDER BY h.id) FILTER (WHERE h.id IS NOT NULL), '[]') AS halls
		FROM theaters t
		JOIN cities c ON c.id = t.city_id
		LEFT JOIN halls h ON h.theater_id = t.id
		WHERE ($1::int IS NULL OR t.city_id = $1)
		GROUP BY t.id, c.id
		ORDER BY t.name, t.id
	`

	rows, err := p.db.Query(ctx, query, cityID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	theaters := make([]domain.Theater, 0)

	for rows.Next() {
		var hallsJson json.RawMessage
		var theater domain.Theater

		if err := rows.Scan(
			&theater.ID,
			&theater.Name,
			&theater.Address,
			&theater.City.ID,
			&theater.City.Name,
			&hallsJson,
		); err != nil {
			return nil, err
		}

		if len(hallsJson) > 0 {
			if err := json.Unmarshal(hallsJson, &theater.Halls); err != nil {
				return nil, err
			}
		}

		theaters = append(theaters, theater)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return theaters, nil
}
