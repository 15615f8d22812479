package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/cotizador/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// RateLimiter counts attempts per key in fixed windows. It guards the
// login endpoint against password guessing; a limit of zero disables it.
type RateLimiter struct {
	limit  int
	period time.Duration
	now    func() time.Time

	mu       sync.Mutex
	windows  map[string]*attemptWindow
	stop     chan struct{}
	stopOnce sync.Once
}

type attemptWindow struct {
	used  int
	start time.Time
}

// NewRateLimiter allows limit attempts per key every period
func NewRateLimiter(limit int, period time.Duration) *RateLimiter {
	if period <= 0 {
		period = time.Minute
	}
	rl := &RateLimiter{
		limit:   limit,
		period:  period,
		now:     time.Now,
		windows: make(map[string]*attemptWindow),
		stop:    make(chan struct{}),
	}
	go rl.sweep()
	return rl
}

// sweep forgets keys whose window closed, every two periods
func (rl *RateLimiter) sweep() {
	ticker := time.NewTicker(2 * rl.period)
	defer ticker.Stop()

	for {
		select {
		case <-rl.stop:
			return
		case <-ticker.C:
		}
		rl.mu.Lock()
		now := rl.now()
		for key, w := range rl.windows {
			if now.Sub(w.start) >= rl.period {
				delete(rl.windows, key)
			}
		}
		rl.mu.Unlock()
	}
}

// Stop ends the sweeper; calling it more than once is safe
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Take records one attempt for key. When the window is exhausted it
// reports how long until the next attempt is accepted.
func (rl *RateLimiter) Take(key string) (remaining int, retryAfter time.Duration, ok bool) {
	if rl.limit <= 0 {
		return math.MaxInt32, 0, true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	w, exists := rl.windows[key]
	if !exists || now.Sub(w.start) >= rl.period {
		w = &attemptWindow{start: now}
		rl.windows[key] = w
	}
	if w.used >= rl.limit {
		return 0, w.start.Add(rl.period).Sub(now), false
	}
	w.used++
	return rl.limit - w.used, 0, true
}

// Allow is Take without the bookkeeping details
func (rl *RateLimiter) Allow(key string) bool {
	_, _, ok := rl.Take(key)
	return ok
}

// Remaining returns the attempts left for key in its current window
func (rl *RateLimiter) Remaining(key string) int {
	if rl.limit <= 0 {
		return math.MaxInt32
	}
	rl.mu.Lock()
	defer rl.mu.Unlock()

	w, exists := rl.windows[key]
	if !exists || rl.now().Sub(w.start) >= rl.period {
		return rl.limit
	}
	return rl.limit - w.used
}

// RateLimit throttles requests per client IP
func RateLimit(limiter *RateLimiter) gin.HandlerFunc {
	return RateLimitByKey(limiter, func(c *gin.Context) string {
		return c.ClientIP()
	})
}

// RateLimitByKey throttles requests per key extracted from the request
func RateLimitByKey(limiter *RateLimiter, keyFunc func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		remaining, retryAfter, ok := limiter.Take(keyFunc(c))
		if !ok {
			seconds := int(math.Ceil(retryAfter.Seconds()))
			c.Header("Retry-After", strconv.Itoa(max(seconds, 1)))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, dto.NewErrorResponseWithRequestID(
				dto.ErrCodeRateLimited,
				"Demasiados intentos. Intente de nuevo más tarde.",
				c.GetString(RequestIDKey),
			))
			return
		}

		if limiter.limit > 0 {
			c.Header("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
			c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		}
		c.Next()
	}
}
