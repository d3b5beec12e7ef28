package app

import (
	"net/http"
	"time"

	"github.com/metinatakli/cinema-booking/api"
	"github.com/metinatakli/cinema-booking/internal/domain"
)

func (app *Application) GetShowtimes(w http.ResponseWriter, r *http.Request) {
	var params api.GetShowtimesParams

	for _, p := range []queryParam{
		{"movieId", &params.MovieId},
		{"cityId", &params.CityId},
		{"date", &params.Date},
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

	filters := domain.ShowtimeFilters{
		MovieID: params.MovieId,
		CityID:  params.CityId,
	}

	if params.Date != nil {
		// Days are UTC calendar days.
		d := params.Date.Time
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		filters.Date = &day
	}

	showtimes, err := app.showtimeRepo.GetShowtimes(r.Context(), filters)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.ShowtimeListResponse{
		Showtimes: make([]api.Showtime, len(showtimes)),
	}

	for i := range showtimes {
		resp.Showtimes[i] = toShowtime(&showtimes[i])
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toShowtime(s *domain.ShowtimeDetail) api.Showtime {
	return api.Showtime{
		Id:        s.ID,
		StartTime: s.StartTime,
		Price:     s.Price,
		Movie:     toShowtimeMovie(s.Movie),
		Hall:      toShowtimeHall(s),
	}
}

func toShowtimeMovie(movie domain.MovieSummary) api.ShowtimeMovie {
	return api.ShowtimeMovie{
		Id:          movie.ID,
		Title:       movie.Title,
		PosterUrl:   movie.PosterUrl,
		DurationMin: movie.Duration,
	}
}

func toShowtimeHall(s *domain.ShowtimeDetail) api.ShowtimeHall {
	return api.ShowtimeHall{
		Id:   s.Hall.ID,
		Name: s.Hall.Name,
		Theater: api.ShowtimeTheater{
			Id:      s.Theater.ID,
			Name:    s.Theater.Name,
			Address: s.Theater.Address,
			City:    toCity(s.Theater.City),
		},
	}
}
