package notifier

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/metinatakli/cinema-booking/internal/events"
	"github.com/metinatakli/cinema-booking/internal/mailer"
	"github.com/metinatakli/cinema-booking/internal/telemetry"
	"github.com/metinatakli/cinema-booking/internal/vcs"
)

const (
	BookingConfirmationTemplate = "booking_confirmation.tmpl"

	serviceName = "cinema-booking-notifier"
)

// Notifier turns booking.confirmed events into confirmation emails.
type Notifier struct {
	mailer mailer.Mailer
	logger *slog.Logger
}

func New(m mailer.Mailer, logger *slog.Logger) *Notifier {
	return &Notifier{
		mailer: m,
		logger: logger,
	}
}

func (n *Notifier) HandleBookingConfirmed(ctx context.Context, event events.BookingConfirmed) error {
	logger := n.logger.With("booking_id", event.BookingID, "reference", event.Reference.String())

	if event.UserEmail == "" {
		logger.Warn("booking event has no recipient, skipping")
		return nil
	}

	err := n.mailer.Send(event.UserEmail, BookingConfirmationTemplate, event)
	if err != nil {
		return fmt.Errorf("failed to send booking confirmation: %w", err)
	}

	logger.Info("booking confirmation sent")

	return nil
}

type config struct {
	env              string
	otelCollectorUrl string
	amqp             struct {
		url      string
		queue    string
		prefetch int
	}
	smtp struct {
		host     string
		port     int
		username string
		password string
		sender   string
	}
}

// loadConfig parses args. Every flag falls back to an environment variable before its default.
func loadConfig(args []string) (config, bool, error) {
	var cfg config

	fs := flag.NewFlagSet("notifier", flag.ContinueOnError)

	fs.StringVar(&cfg.env, "env", envString("ENV", "dev"), "Environment (dev|staging|prod)")
	fs.StringVar(&cfg.otelCollectorUrl, "otel-collector-url", envString("OTEL_COLLECTOR_URL", ""), "OpenTelemetry collector gRPC endpoint")

	fs.StringVar(&cfg.amqp.url, "amqp-url", envString("AMQP_URL", ""), "RabbitMQ URL")
	fs.StringVar(&cfg.amqp.queue, "amqp-queue", envString("AMQP_QUEUE", events.BookingConfirmedQueue), "RabbitMQ queue for booking events")
	fs.IntVar(&cfg.amqp.prefetch, "amqp-prefetch", envInt("AMQP_PREFETCH", 10), "Unacknowledged messages per consumer")

	fs.StringVar(&cfg.smtp.host, "smtp-host", envString("SMTP_HOST", "sandbox.smtp.mailtrap.io"), "SMTP host")
	fs.IntVar(&cfg.smtp.port, "smtp-port", envInt("SMTP_PORT", 2525), "SMTP port")
	fs.StringVar(&cfg.smtp.username, "smtp-username", envString("SMTP_USERNAME", ""), "SMTP username")
	fs.StringVar(&cfg.smtp.password, "smtp-password", envString("SMTP_PASSWORD", ""), "SMTP password")
	fs.StringVar(&cfg.smtp.sender, "smtp-sender", envString("SMTP_SENDER", "Cinema <no-reply@cinema.local>"), "SMTP sender")

	displayVersion := fs.Bool("version", false, "Display version and exit")

	err := fs.Parse(args)
	if err != nil {
		return cfg, false, err
	}

	if *displayVersion {
		return cfg, true, nil
	}

	var errs []error

	if cfg.amqp.url == "" {
		errs = append(errs, errors.New("amqp-url is required"))
	}
	if cfg.amqp.prefetch < 1 {
		errs = append(errs, errors.New("amqp-prefetch must be positive"))
	}

	return cfg, false, errors.Join(errs...)
}

func (cfg config) telemetry() telemetry.Config {
	return telemetry.Config{
		CollectorURL:   cfg.otelCollectorUrl,
		ServiceName:    serviceName,
		ServiceVersion: vcs.Version(),
		Environment:    cfg.env,
	}
}

// Run starts the notifier process and blocks until SIGINT or SIGTERM.
func Run() error {
	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to load .env: %w", err)
	}

	cfg, displayVersion, err := loadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	if displayVersion {
		fmt.Printf("Version:\t%s\n", vcs.Version())
		os.Exit(0)
	}

	shutdownTelemetry, err := telemetry.Init(context.Background(), cfg.telemetry(), slog.New(slog.NewTextHandler(os.Stdout, nil)))
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	logger := telemetry.NewLogger(cfg.telemetry()).With("env", cfg.env)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	n := New(mailer.NewSMTPMailer(cfg.smtp.host, cfg.smtp.port, cfg.smtp.username, cfg.smtp.password, cfg.smtp.sender), logger)
	consumer := events.NewConsumer(cfg.amqp.url, cfg.amqp.queue, cfg.amqp.prefetch, logger)

	logger.Info("starting notifier", "queue", cfg.amqp.queue, "version", vcs.Version())

	err = consumer.Run(ctx, n.HandleBookingConfirmed)

	logger.Info("stopped notifier")

	return err
}

func envString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
