package app

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/metinatakli/cinema-booking/api"
	"github.com/metinatakli/cinema-booking/internal/domain"
	"github.com/metinatakli/cinema-booking/internal/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetShowtimes(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantFilters domain.ShowtimeFilters
		wantStatus  int
	}{
		{
			name:       "no filters",
			wantStatus: http.StatusOK,
		},
		{
			name:  "all filters",
			query: "?movieId=7&cityId=1&date=2026-03-01",
			wantFilters: domain.ShowtimeFilters{
				MovieID: ptr(7),
				CityID:  ptr(1),
				Date:    ptr(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)),
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "invalid date",
			query:      "?date=01-03-2026",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "non positive movie",
			query:      "?movieId=-1",
			wantStatus: http.StatusUnprocessableEntity,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotFilters domain.ShowtimeFilters

			app := newTestApplication(func(a *Application) {
				a.showtimeRepo = &mocks.MockShowtimeRepo{
					GetShowtimesFunc: func(ctx context.Context, filters domain.ShowtimeFilters) ([]domain.ShowtimeDetail, error) {
						gotFilters = filters
						return []domain.ShowtimeDetail{testShowtime}, nil
					},
				}
			})

			w, r := executeRequest(t, http.MethodGet, "/showtimes"+tt.query, nil)
			app.GetShowtimes(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantFilters, gotFilters)

			if tt.wantStatus == http.StatusOK {
				var resp api.ShowtimeListResponse
				require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
				require.Len(t, resp.Showtimes, 1)
				assert.Equal(t, 1, resp.Showtimes[0].Id)
				assert.Equal(t, "Inception", resp.Showtimes[0].Movie.Title)
				assert.Equal(t, "Cinema City", resp.Showtimes[0].Hall.Theater.Name)
			}
		})
	}
}
