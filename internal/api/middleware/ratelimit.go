package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-BarberBooking/internal/api/handlers"
	"github.com/m04kA/SMC-BarberBooking/internal/api/identity"
)

const msgRateLimited = "слишком много запросов, попробуйте позже"

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter token bucket на клиента в памяти процесса
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*limiterEntry
	limit    rate.Limit
	burst    int
	// X-Forwarded-For учитывается только за доверенным прокси
	trustProxy bool
	logger     Logger
}

// NewRateLimiter создает limiter: requestsPerMinute с запасом burst
func NewRateLimiter(requestsPerMinute, burst int, logger Logger) *RateLimiter {
	if requestsPerMinute <= 0 {
		requestsPerMinute = 60
	}
	if burst <= 0 {
		burst = 1
	}
	return &RateLimiter{
		limiters: make(map[string]*limiterEntry),
		limit:    rate.Every(time.Minute / time.Duration(requestsPerMinute)),
		burst:    burst,
		logger:   logger,
	}
}

// WithTrustProxy включает определение IP клиента по X-Forwarded-For
func (rl *RateLimiter) WithTrustProxy(trust bool) *RateLimiter {
	rl.trustProxy = trust
	return rl
}

// Middleware возвращает http middleware
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := clientKey(r, rl.trustProxy)
		if !rl.get(key).Allow() {
			rl.logger.Warn("RateLimit: limit exceeded for %s on %s %s", key, r.Method, r.URL.Path)
			handlers.RespondTooManyRequests(w, msgRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Cleanup периодически удаляет limiter'ы клиентов, неактивных дольше idle. Блокирует до отмены ctx.
func (rl *RateLimiter) Cleanup(ctx context.Context, interval, idle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			rl.evict(now, idle)
		}
	}
}

func (rl *RateLimiter) get(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry, ok := rl.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[key] = entry
	}
	entry.lastSeen = time.Now()
	return entry.limiter
}

func (rl *RateLimiter) evict(now time.Time, idle time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for key, entry := range rl.limiters {
		if now.Sub(entry.lastSeen) > idle {
			delete(rl.limiters, key)
		}
	}
}

// clientKey пользователь из токена, иначе IP клиента.
// Заголовок X-Forwarded-For подделывается клиентом, поэтому читается только при trustProxy.
func clientKey(r *http.Request, trustProxy bool) string {
	if id, ok := identity.FromContext(r.Context()); ok {
		return "user:" + id.UserID
	}
	if fwd := r.Header.Get("X-Forwarded-For"); trustProxy && fwd != "" {
		first := strings.TrimSpace(strings.Split(fwd, ",")[0])
		if first != "" {
			return "ip:" + first
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "ip:" + r.RemoteAddr
	}
	return "ip:" + host
}
