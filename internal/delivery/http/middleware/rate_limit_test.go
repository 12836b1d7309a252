package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

func TestClientIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newCtx := func(headers map[string]string) *gin.Context {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest(http.MethodPost, "/contact", nil)
		for k, v := range headers {
			c.Request.Header.Set(k, v)
		}
		return c
	}

	t.Run("X-Forwarded-For wins, first entry only", func(t *testing.T) {
		c := newCtx(map[string]string{
			"X-Forwarded-For": "203.0.113.7, 10.0.0.1",
			"X-Real-IP":       "198.51.100.2",
		})
		assert.Equal(t, "203.0.113.7", ClientIdentity(c))
	})

	t.Run("X-Real-IP fallback", func(t *testing.T) {
		c := newCtx(map[string]string{"X-Real-IP": "198.51.100.2"})
		assert.Equal(t, "198.51.100.2", ClientIdentity(c))
	})

	t.Run("unknown literal when headers absent", func(t *testing.T) {
		c := newCtx(nil)
		assert.Equal(t, "unknown", ClientIdentity(c))
	})
}

func TestCheckRateLimitInMemory(t *testing.T) {
	cfg := RateLimitConfig{Limit: 5, Window: 15 * time.Minute}
	key := "rl:test:in-memory"
	now := time.Now()

	// First five submissions in the window are allowed
	for i := 1; i <= 5; i++ {
		allowed, count, _ := checkRateLimitInMemory(key, cfg, now)
		assert.True(t, allowed, "submission %d should be allowed", i)
		assert.Equal(t, i, count)
	}

	// The sixth is rejected and the counter does not pass the cap
	allowed, count, resetAt := checkRateLimitInMemory(key, cfg, now)
	assert.False(t, allowed)
	assert.Equal(t, 5, count)

	// Counting resets exactly once the window expires
	later := resetAt.Add(time.Second)
	allowed, count, _ = checkRateLimitInMemory(key, cfg, later)
	assert.True(t, allowed)
	assert.Equal(t, 1, count)
}

func TestCheckRateLimitRedis(t *testing.T) {
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	defer mr.Close()

	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()

	cfg := RateLimitConfig{Limit: 5, Window: 15 * time.Minute}
	ctx := context.Background()
	key := "rl:test:redis"

	for i := 1; i <= 5; i++ {
		allowed, count, _, err := checkRateLimitRedis(ctx, client, key, cfg)
		assert.NoError(t, err)
		assert.True(t, allowed, "submission %d should be allowed", i)
		assert.Equal(t, i, count)
	}

	allowed, count, _, err := checkRateLimitRedis(ctx, client, key, cfg)
	assert.NoError(t, err)
	assert.False(t, allowed)
	assert.Equal(t, 5, count)

	// TTL expiry opens a fresh window
	mr.FastForward(15*time.Minute + time.Second)
	allowed, count, _, err = checkRateLimitRedis(ctx, client, key, cfg)
	assert.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, count)
}

func TestRateLimitMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.POST("/contact", RateLimitMiddleware(RateLimitConfig{
		Limit:     2,
		Window:    time.Minute,
		KeyPrefix: "rl:mw-test:",
		KeyFunc:   ClientIdentity,
	}), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	do := func(ip string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/contact", nil)
		req.Header.Set("X-Forwarded-For", ip)
		r.ServeHTTP(w, req)
		return w
	}

	// Two allowed, third rejected
	first := do("203.0.113.7")
	assert.Equal(t, http.StatusOK, first.Code)
	assert.Equal(t, "1", first.Header().Get("X-RateLimit-Remaining"))

	second := do("203.0.113.7")
	assert.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, "0", second.Header().Get("X-RateLimit-Remaining"))

	third := do("203.0.113.7")
	assert.Equal(t, http.StatusTooManyRequests, third.Code)
	assert.Equal(t, "0", third.Header().Get("X-RateLimit-Remaining"))
	assert.NotEmpty(t, third.Header().Get("Retry-After"))
	assert.Contains(t, third.Body.String(), "Too many requests")

	// Other identities are independent
	other := do("198.51.100.2")
	assert.Equal(t, http.StatusOK, other.Code)
}

func TestRateLimitMiddleware_ConcurrentSameIdentity(t *testing.T) {
	cfg := RateLimitConfig{Limit: 5, Window: time.Minute}
	key := "rl:test:concurrent"
	now := time.Now()

	results := make(chan bool, 20)
	for i := 0; i < 20; i++ {
		go func() {
			allowed, _, _ := checkRateLimitInMemory(key, cfg, now)
			results <- allowed
		}()
	}

	allowedCount := 0
	for i := 0; i < 20; i++ {
		if <-results {
			allowedCount++
		}
	}
	// No undercounting under concurrent submissions from one identity
	assert.Equal(t, 5, allowedCount, fmt.Sprintf("exactly the limit must pass, got %d", allowedCount))
}
