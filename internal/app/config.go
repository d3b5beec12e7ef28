package app

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/metinatakli/cinema-booking/internal/events"
)

type Config struct {
	Port             int
	Env              string
	DB               DBConfig
	Redis            RedisConfig
	JWT              JWTConfig
	RateLimit        RateLimitConfig
	AMQP             AMQPConfig
	OtelCollectorUrl string
	ValidateRequests bool
}

type DBConfig struct {
	DSN          string
	MaxOpenConns int
	MaxIdleTime  time.Duration
	// LockTimeout bounds how long a booking waits for seat locks.
	LockTimeout time.Duration
	Migrate     bool
}

type RedisConfig struct {
	URL          string
	MaxOpenConns int
	MaxIdleConns int
	MaxIdleTime  time.Duration
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
	Issuer string
}

// RateLimitConfig describes a token bucket per user: Burst tokens, one more every Refill.
type RateLimitConfig struct {
	Enabled bool
	Burst   int
	Refill  time.Duration
}

type AMQPConfig struct {
	URL   string
	Queue string
}

// LoadConfig reads a .env file when present, then parses args. Every flag falls back
// to an environment variable before its built-in default.
func LoadConfig(args []string) (Config, bool, error) {
	var cfg Config

	err := godotenv.Load()
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, false, fmt.Errorf("failed to load .env: %w", err)
	}

	fs := flag.NewFlagSet("api", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "port", envInt("PORT", 3000), "server port")
	fs.StringVar(&cfg.Env, "env", envString("ENV", "dev"), "Environment (dev|staging|prod)")

	fs.StringVar(&cfg.DB.DSN, "db-dsn", envString("DB_DSN", ""), "PostgreSQL DSN")
	fs.IntVar(&cfg.DB.MaxOpenConns, "db-max-open-conns", envInt("DB_MAX_OPEN_CONNS", 25), "PostgreSQL max open connections")
	fs.DurationVar(&cfg.DB.MaxIdleTime, "db-max-idle-time", envDuration("DB_MAX_IDLE_TIME", 15*time.Minute), "PostgreSQL max idle time for connections")
	fs.DurationVar(&cfg.DB.LockTimeout, "db-lock-timeout", envDuration("DB_LOCK_TIMEOUT", 5*time.Second), "Max wait for seat locks inside a booking transaction")
	fs.BoolVar(&cfg.DB.Migrate, "db-migrate", envBool("DB_MIGRATE", false), "Apply pending migrations on startup")

	fs.StringVar(&cfg.Redis.URL, "redis-url", envString("REDIS_URL", ""), "Redis address (host:port), empty disables rate limiting")
	fs.IntVar(&cfg.Redis.MaxOpenConns, "redis-max-open-conns", envInt("REDIS_MAX_OPEN_CONNS", 25), "Redis max open connections")
	fs.IntVar(&cfg.Redis.MaxIdleConns, "redis-max-idle-conns", envInt("REDIS_MAX_IDLE_CONNS", 10), "Redis max idle connections")
	fs.DurationVar(&cfg.Redis.MaxIdleTime, "redis-max-idle-time", envDuration("REDIS_MAX_IDLE_TIME", 2*time.Minute), "Redis max idle time for connections")

	fs.StringVar(&cfg.JWT.Secret, "jwt-secret", envString("JWT_SECRET", ""), "HMAC secret for bearer tokens")
	fs.DurationVar(&cfg.JWT.TTL, "jwt-ttl", envDuration("JWT_TTL", 24*time.Hour), "Bearer token lifetime")
	fs.StringVar(&cfg.JWT.Issuer, "jwt-issuer", envString("JWT_ISSUER", "cinema-booking"), "Bearer token issuer")

	fs.BoolVar(&cfg.RateLimit.Enabled, "limiter-enabled", envBool("LIMITER_ENABLED", true), "Rate limit booking requests per user")
	fs.IntVar(&cfg.RateLimit.Burst, "limiter-burst", envInt("LIMITER_BURST", 5), "Booking requests a user can burst")
	fs.DurationVar(&cfg.RateLimit.Refill, "limiter-refill", envDuration("LIMITER_REFILL", 2*time.Second), "Time to regain one booking request")

	fs.StringVar(&cfg.AMQP.URL, "amqp-url", envString("AMQP_URL", ""), "RabbitMQ URL, empty disables booking events")
	fs.StringVar(&cfg.AMQP.Queue, "amqp-queue", envString("AMQP_QUEUE", events.BookingConfirmedQueue), "RabbitMQ queue for booking events")

	fs.StringVar(&cfg.OtelCollectorUrl, "otel-collector-url", envString("OTEL_COLLECTOR_URL", ""), "OpenTelemetry collector gRPC endpoint")
	fs.BoolVar(&cfg.ValidateRequests, "validate-requests", envBool("VALIDATE_REQUESTS", true), "Validate requests against the OpenAPI document")

	displayVersion := fs.Bool("version", false, "Display version and exit")

	err = fs.Parse(args)
	if err != nil {
		return cfg, false, err
	}

	if *displayVersion {
		return cfg, true, nil
	}

	return cfg, false, cfg.validate()
}

func (cfg Config) validate() error {
	var errs []error

	if cfg.DB.DSN == "" {
		errs = append(errs, errors.New("db-dsn is required"))
	}
	if len(cfg.JWT.Secret) < 32 {
		errs = append(errs, errors.New("jwt-secret must be at least 32 characters"))
	}
	if cfg.RateLimit.Enabled && (cfg.RateLimit.Burst < 1 || cfg.RateLimit.Refill <= 0) {
		errs = append(errs, errors.New("limiter-burst and limiter-refill must be positive"))
	}

	return errors.Join(errs...)
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

func envBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return fallback
}
