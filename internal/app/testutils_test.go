package app

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/cinema-booking/api"
	"github.com/metinatakli/cinema-booking/internal/auth"
	"github.com/metinatakli/cinema-booking/internal/events"
	"github.com/metinatakli/cinema-booking/internal/mocks"
	"github.com/metinatakli/cinema-booking/internal/validator"
	"go.opentelemetry.io/otel/metric/noop"
)

const testJWTSecret = "a-very-long-secret-used-only-in-tests"

func newTestApplication(opts ...func(*Application)) *Application {
	metrics, err := newBookingMetrics(noop.NewMeterProvider().Meter("test"))
	if err != nil {
		panic(err)
	}

	cfg := Config{
		Env: "test",
		JWT: JWTConfig{
			Secret: testJWTSecret,
			TTL:    time.Hour,
			Issuer: "cinema-booking",
		},
		RateLimit: RateLimitConfig{
			Enabled: true,
			Burst:   5,
			Refill:  2 * time.Second,
		},
	}

	app := &Application{
		config:       cfg,
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		validator:    validator.NewValidator(),
		tokens:       auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer),
		publisher:    events.NoopPublisher{},
		metrics:      metrics,
		userRepo:     &mocks.MockUserRepo{},
		movieRepo:    &mocks.MockMovieRepo{},
		theaterRepo:  &mocks.MockTheaterRepo{},
		showtimeRepo: &mocks.MockShowtimeRepo{},
		seatRepo:     &mocks.MockSeatRepo{},
		bookingRepo:  &mocks.MockBookingRepo{},
	}

	for _, opt := range opts {
		opt(app)
	}

	return app
}

// executeRequest builds a JSON request. A string body is sent as is.
func executeRequest(t *testing.T, method, url string, body any) (*httptest.ResponseRecorder, *http.Request) {
	var payload []byte

	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		jsonData, err := json.Marshal(b)
		if err != nil {
			t.Fatal(err)
		}
		payload = jsonData
	}

	r := httptest.NewRequest(method, url, bytes.NewReader(payload))
	r.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()

	return w, r
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)

	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func withUser(app *Application, r *http.Request, userId int) *http.Request {
	return app.contextSetUserId(r, userId)
}

func checkErrorResponse(t *testing.T, w *httptest.ResponseRecorder, tt struct {
	wantStatus     int
	wantErrMessage string
}) {
	if tt.wantStatus >= 200 && tt.wantStatus < 300 {
		return
	}

	switch tt.wantStatus {
	case http.StatusUnprocessableEntity:
		var validationResp api.ValidationErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&validationResp); err != nil {
			t.Fatalf("Failed to decode validation error response: %v", err)
		}

		errorSet := make(map[string]bool)
		for _, vErr := range validationResp.ValidationErrors {
			errorSet[vErr.Issue] = true
		}

		if !errorSet[tt.wantErrMessage] {
			t.Errorf("Expected validation error message '%s' not found in response", tt.wantErrMessage)
		}

	default:
		var errorResp api.ErrorResponse
		if err := json.NewDecoder(w.Body).Decode(&errorResp); err != nil {
			t.Fatalf("Failed to decode error response: %v", err)
		}

		if tt.wantErrMessage != "" && errorResp.Message != tt.wantErrMessage {
			t.Errorf("Error message = %v, want %v", errorResp.Message, tt.wantErrMessage)
		}
	}
}

func ptr[T any](v T) *T {
	return &v
}
