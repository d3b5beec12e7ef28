package app

import (
	"context"
	"net/http"
	"time"

	"github.com/metinatakli/cinema-booking/api"
)

const (
	statusUp   = "UP"
	statusDown = "DOWN"
)

func (app *Application) GetHealth(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK

	resp := api.HealthcheckResponse{
		Status: statusUp,
		SystemInfo: api.SystemInfo{
			Version:     version,
			Environment: app.config.Env,
		},
		Database: statusUp,
	}

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if app.db == nil {
		resp.Database = statusDown
	} else if err := app.db.Ping(ctx); err != nil {
		app.contextGetLogger(r).Error("database ping failed", "error", err)
		resp.Database = statusDown
	}

	if resp.Database == statusDown {
		resp.Status = statusDown
		status = http.StatusServiceUnavailable
	}

	err := app.writeJSON(w, status, resp, nil)
	if err != nil {
		app.serverErrorResponse(w, r, err)
	}
}
