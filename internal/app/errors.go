package app

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/metinatakli/cinema-booking/api"
	appvalidator "github.com/metinatakli/cinema-booking/internal/validator"
)

const (
	ErrInternalServer        = "The server encountered a problem and could not process your request"
	ErrNotFound              = "The requested resource not found"
	ErrFailedValidation      = "One or more fields have invalid values"
	ErrInvalidCredentials    = "Invalid login credentials"
	ErrAuthenticationNeeded  = "You must be authenticated to access this resource"
	ErrInvalidToken          = "Invalid or expired authentication token"
	ErrRateLimitExceeded     = "Rate limit exceeded, please slow down"
	ErrTransactionFailed     = "The booking could not be completed, please try again"
	ErrUserAlreadyRegistered = "A user with this login or email already exists"
)

func (app *Application) logError(r *http.Request, err error) {
	logger := app.contextGetLogger(r)
	logger.Error(err.Error())
}

// The errorResponse() method is a generic helper for sending JSON-formatted error
// messages to the client with a given status code.
func (app *Application) errorResponse(w http.ResponseWriter, r *http.Request, status int, message string) {
	app.errorResponseWithHeaders(w, r, status, message, nil)
}

func (app *Application) errorResponseWithHeaders(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	message string,
	headers http.Header) {

	resp := api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	err := app.writeJSON(w, status, resp, headers)
	if err != nil {
		app.logError(r, err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func (app *Application) serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logError(r, err)
	app.errorResponse(w, r, http.StatusInternalServerError, ErrInternalServer)
}

func (app *Application) notFoundResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusNotFound, ErrNotFound)
}

func (app *Application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func (app *Application) failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		app.badRequestResponse(w, r, err)
		return
	}

	resp := api.ValidationErrorResponse{
		Message:          ErrFailedValidation,
		RequestId:        middleware.GetReqID(r.Context()),
		Timestamp:        time.Now(),
		ValidationErrors: make([]api.ValidationError, len(validationErrors)),
	}

	for i, fieldErr := range validationErrors {
		resp.ValidationErrors[i] = api.ValidationError{
			Field: fieldErr.Field(),
			Issue: appvalidator.ValidationMessage(fieldErr),
		}
	}

	err = app.writeJSON(w, http.StatusUnprocessableEntity, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}

func (app *Application) conflictResponse(w http.ResponseWriter, r *http.Request, message string) {
	app.errorResponse(w, r, http.StatusConflict, message)
}

func (app *Application) invalidCredentialsResponse(w http.ResponseWriter, r *http.Request) {
	app.errorResponse(w, r, http.StatusUnauthorized, ErrInvalidCredentials)
}

func (app *Application) authenticationRequiredResponse(w http.ResponseWriter, r *http.Request) {
	headers := http.Header{"WWW-Authenticate": []string{"Bearer"}}
	app.errorResponseWithHeaders(w, r, http.StatusUnauthorized, ErrAuthenticationNeeded, headers)
}

func (app *Application) invalidTokenResponse(w http.ResponseWriter, r *http.Request) {
	headers := http.Header{"WWW-Authenticate": []string{`Bearer error="invalid_token"`}}
	app.errorResponseWithHeaders(w, r, http.StatusUnauthorized, ErrInvalidToken, headers)
}

func (app *Application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter time.Duration) {
	seconds := int(retryAfter.Round(time.Second) / time.Second)
	if seconds < 1 {
		seconds = 1
	}

	headers := http.Header{"Retry-After": []string{fmt.Sprint(seconds)}}
	app.errorResponseWithHeaders(w, r, http.StatusTooManyRequests, ErrRateLimitExceeded, headers)
}

// transactionFailedResponse tells the client the booking did not happen and can be retried as is.
func (app *Application) transactionFailedResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.contextGetLogger(r).Warn("booking transaction failed", "error", err)

	headers := http.Header{"Retry-After": []string{"1"}}
	app.errorResponseWithHeaders(w, r, http.StatusServiceUnavailable, ErrTransactionFailed, headers)
}
