package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/metinatakli/cinema-booking/internal/jsonutil"
	"github.com/oapi-codegen/runtime"
)

func (app *Application) writeJSON(w http.ResponseWriter, status int, data any, headers http.Header) error {
	return jsonutil.WriteJSON(w, status, data, headers)
}

func (app *Application) readJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	return jsonutil.ReadJSON(w, r, dst)
}

// readIDParam binds a positive integer path parameter such as {showtimeId}.
func (app *Application) readIDParam(r *http.Request, name string) (int, error) {
	var id int

	err := runtime.BindStyledParameterWithOptions("simple", name, chi.URLParam(r, name), &id,
		runtime.BindStyledParameterOptions{
			ParamLocation: runtime.ParamLocationPath,
			Explode:       false,
			Required:      true,
		})
	if err != nil {
		return 0, fmt.Errorf("invalid format for parameter %s", name)
	}

	if id < 1 {
		return 0, fmt.Errorf("%s must be greater than zero", name)
	}

	return id, nil
}

type queryParam struct {
	name string
	dest any
}

// readQueryParam binds an optional query parameter into dest, which must point to a pointer field.
func (app *Application) readQueryParam(r *http.Request, name string, dest any) error {
	err := runtime.BindQueryParameter("form", true, false, name, r.URL.Query(), dest)
	if err != nil {
		return fmt.Errorf("invalid format for parameter %s", name)
	}

	return nil
}

// background runs fn after the response has been handled. The request context is
// detached from cancellation so the work outlives the request, and the goroutine is
// tracked so shutdown can wait for it.
func (app *Application) background(r *http.Request, name string, fn func(ctx context.Context) error) {
	ctx := context.WithoutCancel(r.Context())
	logger := app.contextGetLogger(r).With("task", name)

	app.wg.Add(1)

	go func() {
		defer app.wg.Done()

		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic in background task", "panic", fmt.Sprintf("%v", err))
			}
		}()

		err := fn(ctx)
		if err != nil {
			logger.Error("background task failed", "error", err)
		}
	}()
}
