package integration_test

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/metinatakli/cinema-booking/internal/app"
	"github.com/metinatakli/cinema-booking/internal/auth"
	"github.com/metinatakli/cinema-booking/internal/events"
	"github.com/metinatakli/cinema-booking/internal/mailer"
	"github.com/metinatakli/cinema-booking/internal/notifier"
	"github.com/redis/go-redis/v9"
)

// TestApp runs the API against real containers. Booking events travel through the
// broker to an in-process notifier that records mail instead of sending it.
type TestApp struct {
	App         *app.Application
	Handler     http.Handler
	DB          *pgxpool.Pool
	RedisClient *redis.Client
	Tokens      *auth.TokenManager
	Mailer      *mailer.MockMailer

	publisher *events.RabbitMQPublisher
	stop      context.CancelFunc
	done      chan struct{}
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	mockMailer := mailer.NewMockMailer()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	publisher, err := events.NewRabbitMQPublisher(ctx, cfg.AMQP.URL, cfg.AMQP.Queue, logger)
	if err != nil {
		redisClient.Close()
		db.Close()
		return nil, err
	}

	application, err := app.NewApp(cfg, logger, db, redisClient, publisher)
	if err != nil {
		publisher.Close()
		redisClient.Close()
		db.Close()
		return nil, err
	}

	consumerCtx, stop := context.WithCancel(context.Background())
	done := make(chan struct{})

	consumer := events.NewConsumer(cfg.AMQP.URL, cfg.AMQP.Queue, 10, logger)
	handler := notifier.New(mockMailer, logger)

	go func() {
		defer close(done)
		consumer.Run(consumerCtx, handler.HandleBookingConfirmed)
	}()

	return &TestApp{
		App:         application,
		Handler:     application.Routes(),
		DB:          db,
		RedisClient: redisClient,
		Tokens:      auth.NewTokenManager(cfg.JWT.Secret, cfg.JWT.TTL, cfg.JWT.Issuer),
		Mailer:      mockMailer,
		publisher:   publisher,
		stop:        stop,
		done:        done,
	}, nil
}

func (a *TestApp) Close() {
	a.App.Wait()
	a.stop()
	<-a.done
	a.publisher.Close()
	a.RedisClient.Close()
	a.DB.Close()
}
