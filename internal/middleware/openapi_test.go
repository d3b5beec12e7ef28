package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/metinatakli/cinema-booking/api"
	"github.com/stretchr/testify/suite"
)

type OpenAPIValidatorTestSuite struct {
	suite.Suite
	handler http.Handler
	reached bool
}

func (s *OpenAPIValidatorTestSuite) SetupTest() {
	doc, err := api.GetSwagger()
	s.Require().NoError(err)

	validate, err := OpenAPIValidator(doc)
	s.Require().NoError(err)

	s.reached = false
	s.handler = validate(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.reached = true
		w.WriteHeader(http.StatusOK)
	}))
}

func TestOpenAPIValidatorSuite(t *testing.T) {
	suite.Run(t, new(OpenAPIValidatorTestSuite))
}

func (s *OpenAPIValidatorTestSuite) TestValidateRequest() {
	tests := []struct {
		name        string
		method      string
		url         string
		body        string
		wantStatus  int
		wantReached bool
		wantField   string
	}{
		{
			name:        "should pass a valid booking request",
			method:      http.MethodPost,
			url:         "/bookings",
			body:        `{"showtimeId": 1, "selectedSeats": ["1-1", "1-2"]}`,
			wantStatus:  http.StatusOK,
			wantReached: true,
		},
		{
			name:       "should reject repeated seats",
			method:     http.MethodPost,
			url:        "/bookings",
			body:       `{"showtimeId": 1, "selectedSeats": ["1-1", "1-1"]}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantField:  "selectedSeats",
		},
		{
			name:       "should reject a malformed seat coordinate",
			method:     http.MethodPost,
			url:        "/bookings",
			body:       `{"showtimeId": 1, "selectedSeats": ["A-1"]}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantField:  "selectedSeats",
		},
		{
			name:       "should reject a non positive showtime id",
			method:     http.MethodPost,
			url:        "/bookings",
			body:       `{"showtimeId": 0, "selectedSeats": ["1-1"]}`,
			wantStatus: http.StatusUnprocessableEntity,
			wantField:  "showtimeId",
		},
		{
			name:       "should reject malformed JSON",
			method:     http.MethodPost,
			url:        "/bookings",
			body:       `{"showtimeId": 1,`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "should reject a non numeric path id",
			method:     http.MethodGet,
			url:        "/bookings/showtime/abc",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "should reject a page size over the limit",
			method:     http.MethodGet,
			url:        "/movies?pageSize=500",
			wantStatus: http.StatusUnprocessableEntity,
			wantField:  "pageSize",
		},
		{
			name:       "should reject an invalid date filter",
			method:     http.MethodGet,
			url:        "/showtimes?date=2026-13-40",
			wantStatus: http.StatusUnprocessableEntity,
			wantField:  "date",
		},
		{
			name:        "should leave authentication to the handlers",
			method:      http.MethodGet,
			url:         "/users/me",
			wantStatus:  http.StatusOK,
			wantReached: true,
		},
		{
			name:        "should pass through unknown paths",
			method:      http.MethodGet,
			url:         "/not-documented",
			wantStatus:  http.StatusOK,
			wantReached: true,
		},
	}

	for _, tt := range tests {
		s.Run(tt.name, func() {
			s.SetupTest()

			r := httptest.NewRequest(tt.method, tt.url, strings.NewReader(tt.body))
			if tt.body != "" {
				r.Header.Set("Content-Type", "application/json")
			}
			w := httptest.NewRecorder()

			s.handler.ServeHTTP(w, r)

			s.Equal(tt.wantStatus, w.Code)
			s.Equal(tt.wantReached, s.reached)

			switch tt.wantStatus {
			case http.StatusUnprocessableEntity:
				var resp api.ValidationErrorResponse
				s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
				s.Require().Len(resp.ValidationErrors, 1)
				s.True(strings.HasPrefix(resp.ValidationErrors[0].Field, tt.wantField),
					"field %q does not start with %q", resp.ValidationErrors[0].Field, tt.wantField)
				s.NotEmpty(resp.ValidationErrors[0].Issue)
			case http.StatusBadRequest:
				var resp api.ErrorResponse
				s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
				s.Require().NotNil(resp.Details)
				s.NotEmpty(*resp.Details)
			}
		})
	}
}

func (s *OpenAPIValidatorTestSuite) TestRecoverPanic() {
	logger := discardLogger()
	h := RecoverPanic(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	s.Equal(http.StatusInternalServerError, w.Code)
	s.Equal("close", w.Header().Get("Connection"))

	var resp api.ErrorResponse
	s.Require().NoError(json.NewDecoder(w.Body).Decode(&resp))
	s.Equal("The server encountered a problem and could not process your request", resp.Message)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
