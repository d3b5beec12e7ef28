package repository

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-booking/internal/domain"
)

const ticketSeatConstraint = "tickets_showtime_id_seat_id_key"

type PostgresBookingRepository struct {
	db          *pgxpool.Pool
	lockTimeout time.Duration
}

// NewPostgresBookingRepository returns a repository whose booking transactions wait at most
// lockTimeout for seat locks. Zero leaves the server default in place.
func NewPostgresBookingRepository(db *pgxpool.Pool, lockTimeout time.Duration) *PostgresBookingRepository {
	return &PostgresBookingRepository{
		db:          db,
		lockTimeout: lockTimeout,
	}
}

func (p *PostgresBookingRepository) Create(
	ctx context.Context,
	booking *domain.Booking,
	seats []domain.SeatCoordinate) error {

	err := runInTx(ctx, p.db, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, func(tx pgx.Tx) error {
		if p.lockTimeout > 0 {
			_, err := tx.Exec(ctx,
				`SELECT set_config('lock_timeout', $1, true)`,
				fmt.Sprintf("%dms", p.lockTimeout.Milliseconds()))
			if err != nil {
				return err
			}
		}

		var hallID int
		var price pgtype.Numeric

		err := tx.QueryRow(ctx,
			`SELECT hall_id, price FROM showtimes WHERE id = $1`,
			booking.ShowtimeID).Scan(&hallID, &price)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrRecordNotFound
			}

			return err
		}

		seatIDs, err := resolveSeats(ctx, tx, hallID, seats)
		if err != nil {
			return err
		}

		err = lockSeats(ctx, tx, booking.ShowtimeID, seatIDs)
		if err != nil {
			return err
		}

		taken, err := findBookedSeats(ctx, tx, booking.ShowtimeID, seatIDs)
		if err != nil {
			return err
		}

		if len(taken) > 0 {
			return fmt.Errorf("%w: %s", domain.ErrSeatConflict, joinCoordinates(taken))
		}

		query := `
			INSERT INTO bookings (reference, user_id, showtime_id)
			VALUES ($1, $2, $3)
			RETURNING id, created_at
		`

		err = tx.QueryRow(ctx, query, booking.Reference, booking.UserID, booking.ShowtimeID).
			Scan(&booking.ID, &booking.CreatedAt)
		if err != nil {
			return err
		}

		rows := make([][]any, 0, len(seatIDs))
		tickets := make([]domain.Ticket, 0, len(seatIDs))

		for _, seatID := range seatIDs {
			rows = append(rows, []any{booking.ID, booking.ShowtimeID, seatID, price})
			tickets = append(tickets, domain.Ticket{
				BookingID:  booking.ID,
				ShowtimeID: booking.ShowtimeID,
				SeatID:     seatID,
				Price:      toDecimal(price),
			})
		}

		_, err = tx.CopyFrom(
			ctx,
			pgx.Identifier{"tickets"},
			[]string{"booking_id", "showtime_id", "seat_id", "price"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return err
		}

		booking.Tickets = tickets

		return nil
	})

	return classifyBookingError(err)
}

// resolveSeats maps the coordinates to seat ids of the hall. The returned ids follow the order
// of coords.
func resolveSeats(ctx context.Context, tx pgx.Tx, hallID int, coords []domain.SeatCoordinate) ([]int, error) {
	rowNums := make([]int32, len(coords))
	seatNums := make([]int32, len(coords))

	for i, c := range coords {
		rowNums[i] = int32(c.Row)
		seatNums[i] = int32(c.Number)
	}

	query := `
		SELECT s.id, s.row_num, s.seat_num
		FROM seats s
		JOIN unnest($2::int[], $3::int[]) AS req (row_num, seat_num)
			ON s.row_num = req.row_num AND s.seat_num = req.seat_num
		WHERE s.hall_id = $1
	`

	rows, err := tx.Query(ctx, query, hallID, rowNums, seatNums)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	resolved := make(map[domain.SeatCoordinate]int, len(coords))

	for rows.Next() {
		var id int
		var c domain.SeatCoordinate

		err := rows.Scan(&id, &c.Row, &c.Number)
		if err != nil {
			return nil, err
		}

		resolved[c] = id
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	ids := make([]int, 0, len(coords))
	var missing []domain.SeatCoordinate

	for _, c := range coords {
		id, ok := resolved[c]
		if !ok {
			missing = append(missing, c)
			continue
		}

		ids = append(ids, id)
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: seat(s) %s do not exist in this hall", domain.ErrInvalidRequest, joinCoordinates(missing))
	}

	return ids, nil
}

// lockSeats takes a transaction-scoped advisory lock per (showtime, seat) pair in seat id order.
// Overlapping bookings of one showtime queue up behind each other without deadlocking, while
// the same seat stays free to book on other showtimes.
func lockSeats(ctx context.Context, tx pgx.Tx, showtimeID int, seatIDs []int) error {
	ordered := slices.Clone(seatIDs)
	slices.Sort(ordered)

	batch := &pgx.Batch{}
	for _, id := range ordered {
		batch.Queue(`SELECT pg_advisory_xact_lock($1::int, $2::int)`, showtimeID, id)
	}

	return tx.SendBatch(ctx, batch).Close()
}

func findBookedSeats(ctx context.Context, tx pgx.Tx, showtimeID int, seatIDs []int) ([]domain.SeatCoordinate, error) {
	query := `
		SELECT s.row_num, s.seat_num
		FROM tickets t
		JOIN seats s ON s.id = t.seat_id
		WHERE t.showtime_id = $1 AND t.seat_id = ANY($2)
		ORDER BY s.row_num, s.seat_num
	`

	rows, err := tx.Query(ctx, query, showtimeID, seatIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var taken []domain.SeatCoordinate

	for rows.Next() {
		var c domain.SeatCoordinate

		err := rows.Scan(&c.Row, &c.Number)
		if err != nil {
			return nil, err
		}

		taken = append(taken, c)
	}

	return taken, rows.Err()
}

// classifyBookingError keeps business errors as they are and folds everything else into
// ErrTransactionFailure. A ticket uniqueness violation means another transaction won the seat.
func classifyBookingError(err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, domain.ErrRecordNotFound) ||
		errors.Is(err, domain.ErrInvalidRequest) ||
		errors.Is(err, domain.ErrSeatConflict) {
		return err
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) &&
		pgErr.Code == pgerrcode.UniqueViolation &&
		pgErr.ConstraintName == ticketSeatConstraint {
		return fmt.Errorf("%w: %s", domain.ErrSeatConflict, pgErr.Detail)
	}

	return fmt.Errorf("%w: %w", domain.ErrTransactionFailure, err)
}

func joinCoordinates(coords []domain.SeatCoordinate) string {
	parts := make([]string, len(coords))
	for i, c := range coords {
		parts[i] = c.String()
	}

	return strings.Join(parts, ", ")
}

func (p *PostgresBookingRepository) GetTicketsByShowtimeId(ctx context.Context, showtimeID int) ([]domain.Ticket, error) {
	query := `
		SELECT id, booking_id, showtime_id, seat_id, price
		FROM tickets
		WHERE showtime_id = $1
	`

	rows, err := p.db.Query(ctx, query, showtimeID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	tickets := make([]domain.Ticket, 0)

	for rows.Next() {
		var ticket domain.Ticket
		var price pgtype.Numeric

		err = rows.Scan(
			&ticket.ID,
			&ticket.BookingID,
			&ticket.ShowtimeID,
			&ticket.SeatID,
			&price,
		)
		if err != nil {
			return nil, err
		}

		ticket.Price = toDecimal(price)
		tickets = append(tickets, ticket)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return tickets, nil
}

const bookingDetailSelect = `
	b.id,
	b.reference,
	b.created_at,
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
`

const bookingDetailJoins = `
	FROM bookings b
	JOIN showtimes s ON s.id = b.showtime_id
	JOIN movies m ON m.id = s.movie_id
	JOIN halls h ON h.id = s.hall_id
	JOIN theaters t ON t.id = h.theater_id
	JOIN cities c ON c.id = t.city_id
`

func scanBookingDetail(row pgx.Row, leading ...any) (*domain.BookingDetail, error) {
	var b domain.BookingDetail
	var price pgtype.Numeric

	dest := append(leading,
		&b.ID,
		&b.Reference,
		&b.CreatedAt,
		&b.Showtime.ID,
		&b.Showtime.MovieID,
		&b.Showtime.HallID,
		&b.Showtime.StartTime,
		&price,
		&b.Showtime.Movie.Title,
		&b.Showtime.Movie.PosterUrl,
		&b.Showtime.Movie.Duration,
		&b.Showtime.Hall.Name,
		&b.Showtime.Hall.TotalSeats,
		&b.Showtime.Theater.ID,
		&b.Showtime.Theater.Name,
		&b.Showtime.Theater.Address,
		&b.Showtime.Theater.City.ID,
		&b.Showtime.Theater.City.Name,
	)

	err := row.Scan(dest...)
	if err != nil {
		return nil, err
	}

	b.Showtime.Price = toDecimal(price)
	b.Showtime.Movie.ID = b.Showtime.MovieID
	b.Showtime.Hall.ID = b.Showtime.HallID
	b.Showtime.Hall.TheaterID = b.Showtime.Theater.ID

	return &b, nil
}

func (p *PostgresBookingRepository) GetBookingsByUserId(
	ctx context.Context,
	userID int,
	pagination domain.Pagination) ([]domain.BookingDetail, *domain.Metadata, error) {

	query := `SELECT COUNT(*) OVER(),` + bookingDetailSelect + bookingDetailJoins + `
		WHERE b.user_id = $1
		ORDER BY b.created_at DESC, b.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := p.db.Query(ctx, query, userID, pagination.Limit(), pagination.Offset())
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	bookings := make([]domain.BookingDetail, 0)
	totalRecords := 0

	for rows.Next() {
		booking, err := scanBookingDetail(rows, &totalRecords)
		if err != nil {
			return nil, nil, err
		}

		bookings = append(bookings, *booking)
	}

	if err = rows.Err(); err != nil {
		return nil, nil, err
	}

	err = p.attachTickets(ctx, bookings)
	if err != nil {
		return nil, nil, err
	}

	metadata := domain.NewMetadata(totalRecords, pagination.Page, pagination.PageSize)

	return bookings, metadata, nil
}

func (p *PostgresBookingRepository) GetByIdAndUserId(
	ctx context.Context,
	bookingID,
	userID int) (*domain.BookingDetail, error) {

	query := `SELECT` + bookingDetailSelect + bookingDetailJoins + `
		WHERE b.id = $1 AND b.user_id = $2
	`

	booking, err := scanBookingDetail(p.db.QueryRow(ctx, query, bookingID, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrRecordNotFound
		}

		return nil, err
	}

	bookings := []domain.BookingDetail{*booking}

	err = p.attachTickets(ctx, bookings)
	if err != nil {
		return nil, err
	}

	return &bookings[0], nil
}

func (p *PostgresBookingRepository) attachTickets(ctx context.Context, bookings []domain.BookingDetail) error {
	if len(bookings) == 0 {
		return nil
	}

	ids := make([]int, len(bookings))
	index := make(map[int]int, len(bookings))

	for i, b := range bookings {
		ids[i] = b.ID
		index[b.ID] = i
		bookings[i].Tickets = make([]domain.BookingTicket, 0)
	}

	query := `
		SELECT t.booking_id, t.id, t.price, s.id, s.hall_id, s.row_num, s.seat_num, s.seat_type
		FROM tickets t
		JOIN seats s ON s.id = t.seat_id
		WHERE t.booking_id = ANY($1)
		ORDER BY s.row_num, s.seat_num
	`

	rows, err := p.db.Query(ctx, query, ids)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var bookingID int
		var ticket domain.BookingTicket
		var price pgtype.Numeric

		err := rows.Scan(
			&bookingID,
			&ticket.ID,
			&price,
			&ticket.Seat.ID,
			&ticket.Seat.HallID,
			&ticket.Seat.Row,
			&ticket.Seat.Number,
			&ticket.Seat.Type,
		)
		if err != nil {
			return err
		}

		ticket.Price = toDecimal(price)

		i := index[bookingID]
		bookings[i].Tickets = append(bookings[i].Tickets, ticket)
	}

	return rows.Err()
}
