package app

import (
	"errors"
	"net/http"

	"github.com/metinatakli/cinema-booking/api"
	"github.com/metinatakli/cinema-booking/internal/domain"
)

func (app *Application) GetShowtimeAvailability(w http.ResponseWriter, r *http.Request) {
	logger := app.contextGetLogger(r)

	showtimeId, err := app.readIDParam(r, "showtimeId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	showtimeSeats, err := app.seatRepo.GetSeatsByShowtime(r.Context(), showtimeId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			logger.Warn("showtime not found", "showtime_id", showtimeId)
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	tickets, err := app.bookingRepo.GetTicketsByShowtimeId(r.Context(), showtimeId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	showtimeSeats.MarkOccupied(tickets)

	err = app.writeJSON(w, http.StatusOK, toAvailabilityResponse(showtimeSeats), nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toAvailabilityResponse(showtimeSeats *domain.ShowtimeSeats) api.AvailabilityResponse {
	showtime := &showtimeSeats.Showtime

	resp := api.AvailabilityResponse{
		Showtime: api.AvailabilityShowtime{
			Id:        showtime.ID,
			StartTime: showtime.StartTime,
			Price:     showtime.Price,
			Movie:     toShowtimeMovie(showtime.Movie),
		},
		Hall:  toShowtimeHall(showtime),
		Seats: make([]api.Seat, len(showtimeSeats.Seats)),
	}

	// Seats come ordered by row and number.
	for i, seat := range showtimeSeats.Seats {
		resp.Seats[i] = api.Seat{
			SeatId:     seat.ID,
			RowNum:     seat.Row,
			SeatNum:    seat.Number,
			Type:       seat.Type,
			IsOccupied: seat.Occupied,
		}
	}

	return resp
}
