package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/metinatakli/cinema-booking/api"
	"github.com/metinatakli/cinema-booking/internal/jsonutil"
)

func writeError(w http.ResponseWriter, r *http.Request, status int, message string, headers http.Header) {
	resp := api.ErrorResponse{
		Message:   message,
		RequestId: middleware.GetReqID(r.Context()),
		Timestamp: time.Now(),
	}

	jsonutil.WriteJSON(w, status, resp, headers)
}

// RecoverPanic turns a panicking handler into a 500 response and closes the connection.
func RecoverPanic(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}

					logger.Error("recovered from panic",
						"panic", fmt.Sprintf("%v", err),
						"method", r.Method,
						"uri", r.URL.RequestURI(),
						"request_id", middleware.GetReqID(r.Context()),
					)

					writeError(w, r, http.StatusInternalServerError,
						"The server encountered a problem and could not process your request",
						http.Header{"Connection": []string{"close"}})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	writeError(w, r, http.StatusNotFound, "The requested resource not found", nil)
}

func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	message := fmt.Sprintf("The %s method is not supported for this resource", r.Method)
	writeError(w, r, http.StatusMethodNotAllowed, message, nil)
}
