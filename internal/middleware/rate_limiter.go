package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/paularynty/climaxlog/internal/config"
)

// clientWindow is one fixed window of requests for a single client IP.
type clientWindow struct {
	count   int
	resetAt time.Time
}

// RateLimiter counts requests per client IP in fixed windows.
type RateLimiter struct {
	mu              sync.Mutex
	limit           int
	window          time.Duration
	cleanupInterval time.Duration
	clients         map[string]*clientWindow
	lastCleanup     time.Time
	exempt          []string
	now             func() time.Time
}

// NewRateLimiter reads the window, limit and sweep interval from cfg.
// Requests whose route matches one of exemptRoutes are never counted.
func NewRateLimiter(cfg *config.Config, exemptRoutes ...string) *RateLimiter {
	return newRateLimiter(
		time.Duration(cfg.RateLimiterDurationInSec)*time.Second,
		cfg.RateLimiterRequestLimit,
		time.Duration(cfg.RateLimiterCleanupIntervalInSec)*time.Second,
		time.Now,
		exemptRoutes...,
	)
}

func newRateLimiter(window time.Duration, limit int, cleanupInterval time.Duration, now func() time.Time, exemptRoutes ...string) *RateLimiter {
	return &RateLimiter{
		limit:           limit,
		window:          window,
		cleanupInterval: cleanupInterval,
		clients:         make(map[string]*clientWindow),
		lastCleanup:     now(),
		exempt:          exemptRoutes,
		now:             now,
	}
}

// Take spends one request for clientID. It reports how many remain in the
// current window, or how long to wait when the window is exhausted.
func (rl *RateLimiter) Take(clientID string) (remaining int, retryAfter time.Duration, ok bool) {
	ts := rl.now()

	rl.mu.Lock()
	defer rl.mu.Unlock()

	if ts.Sub(rl.lastCleanup) > rl.cleanupInterval {
		rl.sweepLocked(ts)
		rl.lastCleanup = ts
	}

	w, exists := rl.clients[clientID]
	if !exists || !ts.Before(w.resetAt) {
		w = &clientWindow{resetAt: ts.Add(rl.window)}
		rl.clients[clientID] = w
	}

	if w.count >= rl.limit {
		return 0, w.resetAt.Sub(ts), false
	}

	w.count++
	return rl.limit - w.count, 0, true
}

func (rl *RateLimiter) RateLimit() gin.HandlerFunc {
	limit := strconv.Itoa(rl.limit)

	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions || slices.Contains(rl.exempt, c.FullPath()) {
			c.Next()
			return
		}

		remaining, retryAfter, ok := rl.Take(c.ClientIP())
		c.Header("X-RateLimit-Limit", limit)
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !ok {
			// round up so clients never retry inside the window
			seconds := int((retryAfter + time.Second - 1) / time.Second)
			c.Header("Retry-After", strconv.Itoa(seconds))
			// the limiter sits in front of ErrorHandler, so it writes its own body
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Too many requests"})
			return
		}

		c.Next()
	}
}

// sweepLocked drops windows that have closed. Caller holds rl.mu.
func (rl *RateLimiter) sweepLocked(ts time.Time) {
	for clientID, w := range rl.clients {
		if !ts.Before(w.resetAt) {
			delete(rl.clients, clientID)
		}
	}
}
