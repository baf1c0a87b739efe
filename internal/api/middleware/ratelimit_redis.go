package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
)

const msgRateLimiterUnavailable = "ограничитель запросов недоступен"

// Счётчик в окне фиксированной длины: INCR, TTL ставится на первом запросе окна
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return current
`)

// RedisRateLimiter ограничение частоты запросов, общее для всех экземпляров сервиса
type RedisRateLimiter struct {
	client   redis.Scripter
	limit    int64
	window   time.Duration
	prefix   string
	failOpen bool
	// X-Forwarded-For учитывается только за доверенным прокси
	trustProxy bool
	logger     Logger
}

// NewRedisRateLimiter создает limiter: не больше limit запросов клиента за window
func NewRedisRateLimiter(client redis.Scripter, limit int, window time.Duration, prefix string, failOpen bool, logger Logger) *RedisRateLimiter {
	if limit <= 0 {
		limit = 60
	}
	if window <= 0 {
		window = time.Minute
	}
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		prefix = "bookings:rl"
	}
	return &RedisRateLimiter{
		client:   client,
		limit:    int64(limit),
		window:   window,
		prefix:   prefix,
		failOpen: failOpen,
		logger:   logger,
	}
}

// WithTrustProxy включает определение IP клиента по X-Forwarded-For
func (rl *RedisRateLimiter) WithTrustProxy(trust bool) *RedisRateLimiter {
	rl.trustProxy = trust
	return rl
}

// Middleware возвращает http middleware
func (rl *RedisRateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.prefix + ":" + clientKey(r, rl.trustProxy)
		count, err := rl.incr(r.Context(), key)
		if err != nil {
			rl.logger.Warn("RedisRateLimit: counter error for %s: %v", key, err)
			if rl.failOpen {
				next.ServeHTTP(w, r)
				return
			}
			handlers.RespondError(w, http.StatusServiceUnavailable, handlers.CodeUnavailable, msgRateLimiterUnavailable)
			return
		}
		if count > rl.limit {
			rl.logger.Warn("RedisRateLimit: limit exceeded for %s on %s %s", key, r.Method, r.URL.Path)
			handlers.RespondTooManyRequests(w, msgRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (rl *RedisRateLimiter) incr(ctx context.Context, key string) (int64, error) {
	res, err := fixedWindowScript.Run(ctx, rl.client, []string{key}, rl.window.Milliseconds()).Result()
	if err != nil {
		return 0, err
	}
	switch v := res.(type) {
	case int64:
		return v, nil
	case string:
		return strconv.ParseInt(v, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected script result type %T", res)
	}
}
