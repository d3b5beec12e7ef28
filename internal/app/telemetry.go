package app

import (
	"context"

	"github.com/metinatakli/cinema-booking/internal/telemetry"
	otelmetric "go.opentelemetry.io/otel/metric"
)

const serviceName = "cinema-booking-api"

// InitTelemetry installs the OpenTelemetry providers for the API and returns a shutdown function.
func (app *Application) InitTelemetry() (func(context.Context), error) {
	return telemetry.Init(context.Background(), app.telemetryConfig(), app.logger)
}

func (app *Application) telemetryConfig() telemetry.Config {
	return telemetry.Config{
		CollectorURL:   app.config.OtelCollectorUrl,
		ServiceName:    serviceName,
		ServiceVersion: version,
		Environment:    app.config.Env,
	}
}

// bookingMetrics counts booking outcomes. Instruments come from the global meter
// provider, so they are no-ops until InitTelemetry installs an exporter.
type bookingMetrics struct {
	created             otelmetric.Int64Counter
	seatConflicts       otelmetric.Int64Counter
	transactionFailures otelmetric.Int64Counter
}

func newBookingMetrics(meter otelmetric.Meter) (*bookingMetrics, error) {
	created, err := meter.Int64Counter("bookings.created",
		otelmetric.WithDescription("Bookings committed"),
		otelmetric.WithUnit("{booking}"))
	if err != nil {
		return nil, err
	}

	seatConflicts, err := meter.Int64Counter("bookings.seat_conflicts",
		otelmetric.WithDescription("Booking attempts rejected because a seat was already taken"),
		otelmetric.WithUnit("{attempt}"))
	if err != nil {
		return nil, err
	}

	transactionFailures, err := meter.Int64Counter("bookings.transaction_failures",
		otelmetric.WithDescription("Booking transactions that failed and may be retried"),
		otelmetric.WithUnit("{attempt}"))
	if err != nil {
		return nil, err
	}

	return &bookingMetrics{
		created:             created,
		seatConflicts:       seatConflicts,
		transactionFailures: transactionFailures,
	}, nil
}
