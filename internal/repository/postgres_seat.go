package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-booking/internal/domain"
)

type PostgresSeatRepository struct {
	db *pgxpool.Pool
}

func NewPostgresSeatRepository(db *pgxpool.Pool) *PostgresSeatRepository {
	return &PostgresSeatRepository{
		db: db,
	}
}

func (p *PostgresSeatRepository) GetSeatsByShowtime(ctx context.Context, showtimeID int) (*domain.ShowtimeSeats, error) {
	showtime, err := scanShowtimeDetail(p.db.QueryRow(ctx, showtimeDetailSelect+` WHERE s.id = $1`, showtimeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	query := `
		SELECT id, hall_id, row_num, seat_num, seat_type
		FROM seats
		WHERE hall_id = $1
		ORDER BY row_num, seat_num
	`

	rows, err := p.db.Query(ctx, query, showtime.HallID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seats := make([]domain.Seat, 0)

	for rows.Next() {
		var seat domain.Seat

		err := rows.Scan(&seat.ID, &seat.HallID, &seat.Row, &seat.Number, &seat.Type)
		if err != nil {
			return nil, err
		}

		seats = append(seats, seat)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return &domain.ShowtimeSeats{
		Showtime: *showtime,
		Seats:    seats,
	}, nil
}
