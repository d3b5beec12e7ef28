package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/metinatakli/cinema-booking/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(ctx context.Context) error {
	return p.err
}

func TestGetHealth(t *testing.T) {
	tests := []struct {
		name         string
		db           pinger
		wantStatus   int
		wantResponse api.HealthcheckResponse
	}{
		{
			name:       "database reachable",
			db:         stubPinger{},
			wantStatus: http.StatusOK,
			wantResponse: api.HealthcheckResponse{
				Status:     "UP",
				SystemInfo: api.SystemInfo{Version: version, Environment: "test"},
				Database:   "UP",
			},
		},
		{
			name:       "database unreachable",
			db:         stubPinger{err: errors.New("connection refused")},
			wantStatus: http.StatusServiceUnavailable,
			wantResponse: api.HealthcheckResponse{
				Status:     "DOWN",
				SystemInfo: api.SystemInfo{Version: version, Environment: "test"},
				Database:   "DOWN",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApplication(func(a *Application) {
				a.db = tt.db
			})

			w, r := executeRequest(t, http.MethodGet, "/health", nil)
			app.GetHealth(w, r)

			assert.Equal(t, tt.wantStatus, w.Code)

			var resp api.HealthcheckResponse
			require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
			assert.Equal(t, tt.wantResponse, resp)
		})
	}
}
