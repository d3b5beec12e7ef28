package app

import (
	"net/http"

	"github.com/metinatakli/cinema-booking/api"
	"github.com/metinatakli/cinema-booking/internal/domain"
)

func (app *Application) GetCities(w http.ResponseWriter, r *http.Request) {
	cities, err := app.theaterRepo.GetCities(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.CityListResponse{
		Cities: make([]api.City, len(cities)),
	}

	for i, city := range cities {
		resp.Cities[i] = toCity(city)
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetTheaters(w http.ResponseWriter, r *http.Request) {
	var params api.GetTheatersParams

	err := app.readQueryParam(r, "cityId", &params.CityId)
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	err = app.validator.Struct(params)
	if err != nil {
		app.failedValidationResponse(w, r, err)
		return
	}

	theaters, err := app.theaterRepo.GetTheaters(r.Context(), params.CityId)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.TheaterListResponse{
		Theaters: make([]api.Theater, len(theaters)),
	}

	for i, theater := range theaters {
		halls := make([]api.Hall, len(theater.Halls))
		for j, hall := range theater.Halls {
			halls[j] = api.Hall{Id: hall.ID, Name: hall.Name, TotalSeats: hall.TotalSeats}
		}

		resp.Theaters[i] = api.Theater{
			Id:      theater.ID,
			Name:    theater.Name,
			Address: theater.Address,
			City:    toCity(theater.City),
			Halls:   halls,
		}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toCity(city domain.City) api.City {
	return api.City{Id: city.ID, Name: city.Name}
}
