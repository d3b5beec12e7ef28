package app

import (
	"errors"
	"net/http"

	"github.com/metinatakli/cinema-booking/api"
	"github.com/metinatakli/cinema-booking/internal/domain"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 20
	DefaultSort     = "id"
)

func (app *Application) GetMovies(w http.ResponseWriter, r *http.Request) {
	var params api.GetMoviesParams

	for _, p := range []queryParam{
		{"page", &params.Page},
		{"pageSize", &params.PageSize},
		{"term", &params.Term},
		{"sort", &params.Sort},
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

	pagination := toPagination(params.Page, params.PageSize)
	pagination.Sort = DefaultSort

	if params.Sort != nil {
		pagination.Sort = *params.Sort
	}
	if params.Term != nil {
		pagination.Term = *params.Term
	}

	movies, metadata, err := app.movieRepo.GetAll(r.Context(), pagination)
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	summaries := make([]api.MovieSummary, len(movies))
	for i, movie := range movies {
		summaries[i] = toMovieSummary(movie)
	}

	apiMetadata := toApiMetadata(metadata)

	resp := api.MovieListResponse{
		Movies:   summaries,
		Metadata: &apiMetadata,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetMovieById(w http.ResponseWriter, r *http.Request) {
	movieId, err := app.readIDParam(r, "movieId")
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	movie, err := app.movieRepo.GetById(r.Context(), movieId)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRecordNotFound):
			app.notFoundResponse(w, r)
		default:
			app.serverErrorResponse(w, r, err)
		}

		return
	}

	resp := api.MovieDetailResponse{
		MovieSummary: toMovieSummary(movie),
		BackdropUrl:  movie.BackdropUrl,
		TrailerUrl:   movie.TrailerUrl,
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) GetGenres(w http.ResponseWriter, r *http.Request) {
	genres, err := app.movieRepo.GetGenres(r.Context())
	if err != nil {
		app.serverErrorResponse(w, r, err)
		return
	}

	resp := api.GenreListResponse{
		Genres: make([]api.Genre, len(genres)),
	}

	for i, genre := range genres {
		resp.Genres[i] = api.Genre{Id: genre.ID, Name: genre.Name}
	}

	err = app.writeJSON(w, http.StatusOK, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func toPagination(page, pageSize *int) domain.Pagination {
	pagination := domain.Pagination{
		Page:     DefaultPage,
		PageSize: DefaultPageSize,
	}

	if page != nil {
		pagination.Page = *page
	}
	if pageSize != nil {
		pagination.PageSize = *pageSize
	}

	return pagination
}

func toMovieSummary(movie *domain.Movie) api.MovieSummary {
	genres := movie.Genres
	if genres == nil {
		genres = []string{}
	}

	return api.MovieSummary{
		Id:          movie.ID,
		Title:       movie.Title,
		Description: movie.Description,
		Year:        movie.Year,
		DurationMin: movie.Duration,
		Rating:      movie.Rating,
		Director:    movie.Director,
		PosterUrl:   movie.PosterUrl,
		Genres:      genres,
	}
}

func toApiMetadata(metadata *domain.Metadata) api.Metadata {
	if metadata == nil {
		return api.Metadata{}
	}

	return api.Metadata{
		CurrentPage:  metadata.CurrentPage,
		FirstPage:    metadata.FirstPage,
		LastPage:     metadata.LastPage,
		PageSize:     metadata.PageSize,
		TotalRecords: metadata.TotalRecords,
	}
}
