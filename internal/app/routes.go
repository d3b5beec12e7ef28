package app

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/metinatakli/cinema-booking/api"
	appmiddleware "github.com/metinatakli/cinema-booking/internal/middleware"
	"github.com/riandyrn/otelchi"
)

func (app *Application) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(otelchi.Middleware(serviceName, otelchi.WithChiRoutes(r)))
	r.Use(app.logRequestContext)
	r.Use(appmiddleware.RecoverPanic(app.logger))

	r.NotFound(appmiddleware.NotFoundHandler)
	r.MethodNotAllowed(appmiddleware.MethodNotAllowedHandler)

	validateRequest := app.requestValidator()

	r.Group(func(r chi.Router) {
		r.Use(validateRequest)

		r.Get("/health", app.GetHealth)

		r.Post("/users/register", app.RegisterUser)
		r.Post("/users/login", app.Login)
		r.Get("/users/check", app.CheckAvailability)

		r.Get("/movies", app.GetMovies)
		r.Get("/movies/{movieId}", app.GetMovieById)
		r.Get("/genres", app.GetGenres)

		r.Get("/cities", app.GetCities)
		r.Get("/theaters", app.GetTheaters)
		r.Get("/showtimes", app.GetShowtimes)

		r.Get("/bookings/showtime/{showtimeId}", app.GetShowtimeAvailability)
	})

	r.Group(func(r chi.Router) {
		r.Use(app.requireAuthentication)
		r.Use(validateRequest)

		r.Get("/users/me", app.GetCurrentUser)
		r.Put("/users/profile", app.UpdateCurrentUser)
		r.Get("/users/me/bookings", app.GetUserBookings)
		r.Get("/users/me/bookings/{bookingId}", app.GetUserBookingById)

		r.With(app.rateLimit).Post("/bookings", app.CreateBooking)
	})

	return r
}

// requestValidator checks requests against the embedded OpenAPI document. When validation
// is switched off, or the document cannot be loaded, handlers validate on their own.
func (app *Application) requestValidator() func(http.Handler) http.Handler {
	passthrough := func(next http.Handler) http.Handler { return next }

	if !app.config.ValidateRequests {
		return passthrough
	}

	doc, err := api.GetSwagger()
	if err != nil {
		app.logger.Error("failed to load openapi document, request validation disabled", "error", err)
		return passthrough
	}

	validator, err := appmiddleware.OpenAPIValidator(doc)
	if err != nil {
		app.logger.Error("failed to build openapi validator, request validation disabled", "error", err)
		return passthrough
	}

	return validator
}
