package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/dhima/catalog-service/internal/api/response"
	"github.com/dhima/catalog-service/pkg/clock"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// LoginWindow is the period in which a client may spend its full login burst.
const LoginWindow = 15 * time.Minute

// idleTTL bounds how long an unused per-client limiter is remembered.
const idleTTL = LoginWindow

// RateLimiter hands out one token bucket per client key.
type RateLimiter struct {
	clock clock.Clock
	every rate.Limit
	burst int

	mu        sync.Mutex
	limiters  map[string]*limiterEntry
	lastSweep time.Time
}

type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginLimiter allows attempts requests per client in each LoginWindow,
// refilled evenly across the window.
func NewLoginLimiter(attempts int, clk clock.Clock) *RateLimiter {
	return &RateLimiter{
		clock:    clk,
		every:    rate.Every(LoginWindow / time.Duration(attempts)),
		burst:    attempts,
		limiters: make(map[string]*limiterEntry),
	}
}

// Allow spends one token for key. When the bucket is empty it returns the
// wait before the next token.
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	now := l.clock.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	l.sweep(now)
	entry, ok := l.limiters[key]
	if !ok {
		entry = &limiterEntry{limiter: rate.NewLimiter(l.every, l.burst)}
		l.limiters[key] = entry
	}
	entry.lastSeen = now

	if entry.limiter.AllowN(now, 1) {
		return true, 0
	}
	r := entry.limiter.ReserveN(now, 1)
	wait := r.DelayFrom(now)
	r.CancelAt(now)
	return false, wait
}

// sweep drops idle limiters at most once per idleTTL. Callers hold mu.
func (l *RateLimiter) sweep(now time.Time) {
	if now.Sub(l.lastSweep) < idleTTL {
		return
	}
	for key, entry := range l.limiters {
		if now.Sub(entry.lastSeen) > idleTTL {
			delete(l.limiters, key)
		}
	}
	l.lastSweep = now
}

// RateLimit rejects requests over the client's budget with 429 and a
// Retry-After header. Clients are keyed by their IP address.
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		allowed, wait := limiter.Allow(c.ClientIP())
		if allowed {
			c.Next()
			return
		}
		seconds := int(wait.Round(time.Second) / time.Second)
		if seconds < 1 {
			seconds = 1
		}
		c.Header("Retry-After", strconv.Itoa(seconds))
		response.Error(c, http.StatusTooManyRequests, response.KindRateLimited, "too many attempts, try again later", nil)
	}
}
