package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/getkin/kin-openapi/openapi3filter"
	"github.com/getkin/kin-openapi/routers/gorillamux"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/metinatakli/cinema-booking/api"
	"github.com/metinatakli/cinema-booking/internal/jsonutil"
)

// OpenAPIValidator rejects requests that break the document's contract before they
// reach a handler. Schema violations answer 422, every other contract error 400.
// Paths the document does not describe are passed through untouched, and security
// requirements are left to the authentication middleware.
func OpenAPIValidator(doc *openapi3.T) (func(http.Handler) http.Handler, error) {
	err := doc.Validate(context.Background())
	if err != nil {
		return nil, fmt.Errorf("invalid openapi document: %w", err)
	}

	// match on path only, whatever host the server is reached through
	doc.Servers = nil

	router, err := gorillamux.NewRouter(doc)
	if err != nil {
		return nil, err
	}

	options := &openapi3filter.Options{
		AuthenticationFunc: openapi3filter.NoopAuthenticationFunc,
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route, pathParams, err := router.FindRoute(r)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			err = openapi3filter.ValidateRequest(r.Context(), &openapi3filter.RequestValidationInput{
				Request:    r,
				PathParams: pathParams,
				Route:      route,
				Options:    options,
			})
			if err != nil {
				writeContractError(w, r, err)
				return
			}

			next.ServeHTTP(w, r)
		})
	}, nil
}

func writeContractError(w http.ResponseWriter, r *http.Request, err error) {
	var requestErr *openapi3filter.RequestError
	var schemaErr *openapi3.SchemaError

	if errors.As(err, &requestErr) && errors.As(requestErr.Err, &schemaErr) {
		field := "body"
		if requestErr.Parameter != nil {
			field = requestErr.Parameter.Name
		} else if pointer := schemaErr.JSONPointer(); len(pointer) > 0 {
			field = strings.Join(pointer, ".")
		}

		resp := api.ValidationErrorResponse{
			Message:          "One or more fields have invalid values",
			RequestId:        middleware.GetReqID(r.Context()),
			Timestamp:        time.Now(),
			ValidationErrors: []api.ValidationError{{Field: field, Issue: schemaErr.Reason}},
		}

		jsonutil.WriteJSON(w, http.StatusUnprocessableEntity, resp, nil)
		return
	}

	details := err.Error()

	resp := api.ErrorResponse{
		Message:   "The request does not match the API contract",
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
		Details:   &details,
	}

	jsonutil.WriteJSON(w, http.StatusBadRequest, resp, nil)
}
