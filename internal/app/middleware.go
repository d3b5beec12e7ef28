package app

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"
)

// Token bucket kept in a redis hash. Returns {allowed, retry_after_ms}.
var tokenBucket = redis.NewScript(`
	local key = KEYS[1]
	local capacity = tonumber(ARGV[1])
	local refill_ms = tonumber(ARGV[2])
	local now = tonumber(ARGV[3])

	local bucket = redis.call("HMGET", key, "tokens", "ts")
	local tokens = tonumber(bucket[1])
	local ts = tonumber(bucket[2])

	if tokens == nil or ts == nil then
		tokens = capacity
		ts = now
	end

	local refilled = math.floor(math.max(0, now - ts) / refill_ms)
	if refilled > 0 then
		tokens = math.min(capacity, tokens + refilled)
		ts = ts + refilled * refill_ms
	end

	if tokens >= capacity then
		ts = now
	end

	local allowed = 0
	local retry_after = 0

	if tokens > 0 then
		tokens = tokens - 1
		allowed = 1
	else
		retry_after = refill_ms - (now - ts)
	end

	redis.call("HSET", key, "tokens", tokens, "ts", ts)
	redis.call("PEXPIRE", key, capacity * refill_ms)

	return {allowed, retry_after}
`)

func rateLimitKey(userId int) string {
	return fmt.Sprintf("rate_limit:bookings:%d", userId)
}

// logRequestContext stores a request scoped logger carrying the request id and, when
// a span is recording, the trace and span ids.
func (app *Application) logRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger := app.logger.With(
			"request_id", middleware.GetReqID(r.Context()),
			"method", r.Method,
			"uri", r.URL.RequestURI(),
		)

		spanCtx := trace.SpanContextFromContext(r.Context())
		if spanCtx.IsValid() {
			logger = logger.With(
				"trace_id", spanCtx.TraceID().String(),
				"span_id", spanCtx.SpanID().String(),
			)
		}

		next.ServeHTTP(w, app.contextSetLogger(r, logger))
	})
}

func (app *Application) requireAuthentication(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Add("Vary", "Authorization")

		authorizationHeader := r.Header.Get("Authorization")
		if authorizationHeader == "" {
			app.authenticationRequiredResponse(w, r)
			return
		}

		scheme, token, found := strings.Cut(authorizationHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			app.invalidTokenResponse(w, r)
			return
		}

		claims, err := app.tokens.Parse(strings.TrimSpace(token))
		if err != nil {
			app.contextGetLogger(r).Warn("rejected bearer token", "error", err)
			app.invalidTokenResponse(w, r)
			return
		}

		r = app.contextSetUserId(r, claims.UserID)
		r = app.contextSetLogger(r, app.contextGetLogger(r).With("user_id", claims.UserID))

		next.ServeHTTP(w, r)
	})
}

// rateLimit throttles each authenticated user with a token bucket in redis. It lets
// requests through when redis is not configured or cannot be reached.
func (app *Application) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !app.config.RateLimit.Enabled || app.redis == nil {
			next.ServeHTTP(w, r)
			return
		}

		logger := app.contextGetLogger(r)
		userId := app.contextGetUserId(r)

		result, err := tokenBucket.Run(
			r.Context(),
			app.redis,
			[]string{rateLimitKey(userId)},
			app.config.RateLimit.Burst,
			app.config.RateLimit.Refill.Milliseconds(),
			time.Now().UnixMilli(),
		).Int64Slice()
		if err != nil || len(result) != 2 {
			logger.Warn("rate limiter unavailable, allowing request", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		if result[0] == 0 {
			logger.Warn("rate limit exceeded")
			app.rateLimitExceededResponse(w, r, time.Duration(result[1])*time.Millisecond)
			return
		}

		next.ServeHTTP(w, r)
	})
}
