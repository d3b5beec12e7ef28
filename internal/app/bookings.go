package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/metinatakli/cinema-booking/api"
	"github.com/metinatakli/cinema-booking/internal/domain"
	"github.com/metinatakli/cinema-booking/internal/events"
)

const publishTimeout = 5 * time.Second

func (app *Application) CreateBooking(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)
	userId := app.contextGetUserId(r)

	var input api.CreateBookingRequest

	err := app.readJSON(w, r, &input)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(input)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	seats, err := domain.ParseSeatCoordinates(input.SelectedSeats)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	booking := &domain.Booking{
		Reference:  uuid.New(),
		UserID:     userId,
		ShowtimeID: input.ShowtimeId,
	}

	err = app.bookingRepo.Create(r.Context(), booking, seats)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidRequest):
			app.badRequestResponse(w, r, err)
		case errors.Is(err, domain.ErrRecordNotFound):
			logger.Warn("booking for unknown showtime", "showtime_id", input.ShowtimeId)
			app.notFoundResponse(w, r)
		case errors.Is(err, domain.ErrSeatConflict):
			logger.Info("seat conflict", "showtime_id", input.ShowtimeId, "error", err)
			app.metrics.seatConflicts.Add(r.Context(), 1)
			app.conflictResponse(w, r, err.Error())
		case errors.Is(err, domain.ErrTransactionFailure):
			app.metrics.transactionFailures.Add(r.Context(), 1)
			app.transactionFailedResponse(w, r, err)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	app.metrics.created.Add(r.Context(), 1)

	logger.Info("booking created",
		"booking_id", booking.ID,
		"reference", booking.Reference,
		"showtime_id", booking.ShowtimeID,
		"seats", len(booking.Tickets))

	app.background(r, "publish booking confirmed", func(ctx context.Context) error {
		ctx, cancel := context.WithTimeout(ctx, publishTimeout)
		defer cancel()

		return app.publishBookingConfirmed(ctx, booking)
	})

	resp := api.CreateBookingResponse{
		BookingId: booking.ID,
		Reference: booking.Reference,
	}

	err = app.writeJSON(w, http.StatusCreated, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

// publishBookingConfirmed loads the committed booking and hands it to the broker. A failure
// here never affects the booking itself.
func (app *Application) publishBookingConfirmed(ctx context.Context, booking *domain.Booking) error {
	detail, err := app.bookingRepo.GetByIdAndUserId(ctx, booking.ID, booking.UserID)
	if err != nil {
		return fmt.Errorf("failed to load booking %d: %w", booking.ID, err)
	}

	user, err := app.userRepo.GetById(ctx, booking.UserID)
	if err != nil {
		return fmt.Errorf("failed to load user %d: %w", booking.UserID, err)
	}

	seats := make([]string, len(detail.Tickets))
	for i, ticket := range detail.Tickets {
		seats[i] = ticket.Seat.Coordinate().String()
	}

	event := events.BookingConfirmed{
		BookingID:   detail.ID,
		Reference:   detail.Reference,
		UserID:      user.ID,
		UserName:    user.Name,
		UserEmail:   user.Email,
		MovieTitle:  detail.Showtime.Movie.Title,
		TheaterName: detail.Showtime.Theater.Name,
		HallName:    detail.Showtime.Hall.Name,
		StartTime:   detail.Showtime.StartTime,
		Seats:       seats,
		TotalPrice:  detail.TotalPrice(),
		ConfirmedAt: time.Now().UTC(),
	}

	return app.publisher.PublishBookingConfirmed(ctx, event)
}

func (app *Application) GetUserBookings(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)

	var params api.GetUserBookingsParams

	for _, p := range []queryParam{
		{"page", &params.Page},
		{"pageSize", &params.PageSize},
	} {
		err := app.readQueryParam(r, p.name, p.dest)
		if err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
	}

	err := app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	bookings, metadata, err := app.bookingRepo.GetBookingsByUserId(
		r.Context(),
		userId,
		toPagination(params.Page, params.PageSize))
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.UserBookingsResponse{
		Bookings: make([]api.Booking, len(bookings)),
		Metadata: toApiMetadata(metadata),
	}

	for i := range bookings {
		resp.Bookings[i] = toBooking(&bookings[i])
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetUserBookingById(w http.ResponseWriter, r *http.Request) {
	userId := app.contextGetUserId(r)

	bookingId, err := app.readIDParam(r, "bookingId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	booking, err := app.bookingRepo.GetByIdAndUserId(r.Context(), bookingId, userId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	err = app.writeJSON(w, http.StatusOK, toBooking(booking), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toBooking(b *domain.BookingDetail) api.Booking {
	tickets := make([]api.BookingTicket, len(b.Tickets))

	for i, t := range b.Tickets {
		tickets[i] = api.BookingTicket{
			Id: t.ID,
			Seat: api.BookingSeat{
				SeatId:  t.Seat.ID,
				RowNum:  t.Seat.Row,
				SeatNum: t.Seat.Number,
				Type:    t.Seat.Type,
			},
			Price: t.Price,
		}
	}

	return api.Booking{
		Id:         b.ID,
		Reference:  b.Reference,
		CreatedAt:  b.CreatedAt,
		TotalPrice: b.TotalPrice(),
		Showtime:   toShowtime(&b.Showtime),
		Tickets:    tickets,
	}
}
