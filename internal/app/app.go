package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/exaring/otelpgx"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-booking/internal/auth"
	"github.com/metinatakli/cinema-booking/internal/domain"
	"github.com/metinatakli/cinema-booking/internal/events"
	"github.com/metinatakli/cinema-booking/internal/repository"
	"github.com/metinatakli/cinema-booking/internal/telemetry"
	appvalidator "github.com/metinatakli/cinema-booking/internal/validator"
	"github.com/metinatakli/cinema-booking/internal/vcs"
	"github.com/metinatakli/cinema-booking/migrations"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
)

var (
	version = vcs.Version()
)

type pinger interface {
	Ping(ctx context.Context) error
}

type Application struct {
	config    Config
	logger    *slog.Logger
	db        pinger
	redis     redis.UniversalClient
	validator *validator.Validate
	tokens    *auth.TokenManager
	publisher events.Publisher
	metrics   *bookingMetrics
	wg        sync.WaitGroup

	userRepo     domain.UserRepository
	movieRepo    domain.MovieRepository
	theaterRepo  domain.TheaterRepository
	showtimeRepo domain.ShowtimeRepository
	seatRepo     domain.SeatRepository
	bookingRepo  domain.BookingRepository
}

func NewApp(
	cfg Config,
	logger *slog.Logger,
	db *pgxpool.Pool,
	redisClient redis.UniversalClient,
	publisher events.Publisher) (*Application, error) {

	metrics, err := newBookingMetrics(otel.Meter("github.com/metinatakli/cinema-booking/internal/app"))
	if err != nil {
		return nil, err
	}

	app := &Application{
		config:       cfg,
		logger:       logger,
		db:           db,
		validator:    appvalidator.NewValidator(),
		tokens:       auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer),
		publisher:    publisher,
		metrics:      metrics,
		userRepo:     repository.NewPostgresUserRepository(db),
		movieRepo:    repository.NewPostgresMovieRepository(db),
		theaterRepo:  repository.NewPostgresTheaterRepository(db),
		showtimeRepo: repository.NewPostgresShowtimeRepository(db),
		seatRepo:     repository.NewPostgresSeatRepository(db),
		bookingRepo:  repository.NewPostgresBookingRepository(db, cfg.DB.LockTimeout),
	}

	if redisClient != nil {
		app.redis = redisClient
	}

	if publisher == nil {
		app.publisher = events.NoopPublisher{}
	}

	return app, nil
}

func Run() error {
	cfg, displayVersion, err := LoadConfig(os.Args[1:])
	if err != nil {
		return err
	}

	if displayVersion {
		fmt.Printf("Version:\t%s\n", version)
		os.Exit(0)
	}

	app := &Application{config: cfg, logger: slog.New(slog.NewTextHandler(os.Stdout, nil))}

	shutdownTelemetry, err := app.InitTelemetry()
	if err != nil {
		return err
	}
	defer shutdownTelemetry(context.Background())

	logger := telemetry.NewLogger(app.telemetryConfig())

	if cfg.DB.Migrate {
		err = migrations.Up(cfg.DB.DSN)
		if err != nil {
			return err
		}

		logger.Info("database migrations applied")
	}

	db, err := NewDatabasePool(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	var redisClient redis.UniversalClient

	if cfg.Redis.URL != "" {
		client, err := NewRedisClient(cfg)
		if err != nil {
			return err
		}
		defer client.Close()

		redisClient = client
	} else {
		logger.Warn("redis url not set, booking rate limiting disabled")
	}

	var publisher events.Publisher = events.NoopPublisher{}

	if cfg.AMQP.URL != "" {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		rabbit, err := events.NewRabbitMQPublisher(ctx, cfg.AMQP.URL, cfg.AMQP.Queue, logger)
		cancel()
		if err != nil {
			return err
		}
		defer rabbit.Close()

		publisher = rabbit
	} else {
		logger.Warn("amqp url not set, booking events are not published")
	}

	app, err = NewApp(cfg, logger, db, redisClient, publisher)
	if err != nil {
		return err
	}

	return app.run()
}

func NewRedisClient(cfg Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:            cfg.Redis.URL,
		MaxIdleConns:    cfg.Redis.MaxIdleConns,
		MaxActiveConns:  cfg.Redis.MaxOpenConns,
		ConnMaxIdleTime: cfg.Redis.MaxIdleTime,
	})

	err := redisotel.InstrumentTracing(rdb)
	if err != nil {
		rdb.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = rdb.Ping(ctx).Err()
	if err != nil {
		rdb.Close()
		return nil, err
	}

	return rdb, nil
}

func NewDatabasePool(cfg Config) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(cfg.DB.DSN)
	if err != nil {
		return nil, err
	}

	config.MaxConnIdleTime = cfg.DB.MaxIdleTime
	config.MaxConns = int32(cfg.DB.MaxOpenConns)
	config.ConnConfig.Tracer = otelpgx.NewTracer()

	db, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	err = db.Ping(ctx)
	if err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

func (app *Application) run() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf("0.0.0.0:%d", app.config.Port),
		Handler:      app.Routes(),
		IdleTimeout:  time.Minute,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		ErrorLog:     slog.NewLogLogger(app.logger.Handler(), slog.LevelError),
	}

	shutdownError := make(chan error)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		s := <-quit

		app.logger.Info("shutting down server", "signal", s.String())

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		err := srv.Shutdown(ctx)
		if err != nil {
			shutdownError <- err
			return
		}

		app.logger.Info("completing background tasks", "addr", srv.Addr)

		app.wg.Wait()
		shutdownError <- nil
	}()

	app.logger.Info("starting server", "addr", srv.Addr, "env", app.config.Env, "version", version)

	err := srv.ListenAndServe()
	if !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	err = <-shutdownError
	if err != nil {
		return err
	}

	app.logger.Info("stopped server", "addr", srv.Addr)

	return nil
}

// Wait blocks until every background task started by a handler has finished.
func (app *Application) Wait() {
	app.wg.Wait()
}
