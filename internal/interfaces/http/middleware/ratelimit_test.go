package middleware

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// fakeClock drives a limiter without sleeping
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.now = f.now.Add(d)
}

func newTestLimiter(t *testing.T, limit int, period time.Duration) (*RateLimiter, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC)}
	limiter := NewRateLimiter(limit, period)
	limiter.now = clock.Now
	t.Cleanup(limiter.Stop)
	return limiter, clock
}

func TestRateLimiter(t *testing.T) {
	t.Run("allows attempts within the limit", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 5, time.Minute)
		for i := 0; i < 5; i++ {
			assert.True(t, limiter.Allow("10.0.0.1"), "attempt %d", i+1)
		}
		assert.False(t, limiter.Allow("10.0.0.1"))
	})

	t.Run("keys are independent", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 1, time.Minute)
		assert.True(t, limiter.Allow("a"))
		assert.False(t, limiter.Allow("a"))
		assert.True(t, limiter.Allow("b"))
	})

	t.Run("reports the wait until the window closes", func(t *testing.T) {
		limiter, clock := newTestLimiter(t, 1, time.Minute)
		_, _, ok := limiter.Take("a")
		assert.True(t, ok)

		clock.Advance(20 * time.Second)
		remaining, retryAfter, ok := limiter.Take("a")
		assert.False(t, ok)
		assert.Equal(t, 0, remaining)
		assert.Equal(t, 40*time.Second, retryAfter)

		clock.Advance(40 * time.Second)
		assert.True(t, limiter.Allow("a"))
	})

	t.Run("remaining counts down", func(t *testing.T) {
		limiter, clock := newTestLimiter(t, 5, time.Minute)
		assert.Equal(t, 5, limiter.Remaining("a"))
		limiter.Allow("a")
		limiter.Allow("a")
		assert.Equal(t, 3, limiter.Remaining("a"))

		clock.Advance(time.Minute)
		assert.Equal(t, 5, limiter.Remaining("a"))
	})

	t.Run("zero limit disables throttling", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 0, time.Minute)
		for i := 0; i < 50; i++ {
			assert.True(t, limiter.Allow("a"))
		}
	})

	t.Run("stop is idempotent", func(t *testing.T) {
		limiter := NewRateLimiter(1, time.Minute)
		limiter.Stop()
		assert.NotPanics(t, limiter.Stop)
	})

	t.Run("concurrent attempts never exceed the limit", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 100, time.Minute)

		var wg sync.WaitGroup
		var mu sync.Mutex
		allowed := 0
		for i := 0; i < 150; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if limiter.Allow("shared") {
					mu.Lock()
					allowed++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 100, allowed)
	})
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(limiter *RateLimiter) *gin.Engine {
		router := gin.New()
		router.POST("/login", RateLimit(limiter), func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return router
	}

	t.Run("sets rate limit headers", func(t *testing.T) {
		limiter, _ := newTestLimiter(t, 3, time.Minute)

		w := httptest.NewRecorder()
		newRouter(limiter).ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "3", w.Header().Get("X-RateLimit-Limit"))
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Remaining"))
	})

	t.Run("returns 429 with retry-after when exhausted", func(t *testing.T) {
		limiter, clock := newTestLimiter(t, 1, time.Minute)
		router := newRouter(limiter)

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusOK, w.Code)

		clock.Advance(30 * time.Second)
		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/login", nil))
		assert.Equal(t, http.StatusTooManyRequests, w.Code)
		assert.Equal(t, "30", w.Header().Get("Retry-After"))
		assert.Contains(t, w.Body.String(), `"code":"RATE_LIMITED"`)
	})
}

func TestRateLimitByKey(t *testing.T) {
	gin.SetMode(gin.TestMode)
	limiter, _ := newTestLimiter(t, 1, time.Minute)

	router := gin.New()
	router.Use(RateLimitByKey(limiter, func(c *gin.Context) string {
		return c.GetHeader("X-Client")
	}))
	router.GET("/", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	request := func(client string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Client", client)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, request("a"))
	assert.Equal(t, http.StatusTooManyRequests, request("a"))
	assert.Equal(t, http.StatusOK, request("b"))
}
