package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"commflock/internal/repository/redis"

	"github.com/gin-gonic/gin"
)

type fakeLimiter struct {
	calls int
	limit int
	err   error
}

func (f *fakeLimiter) Allow(ctx context.Context, scope, identifier string, limit int, window time.Duration) (redis.LimitResult, error) {
	if f.err != nil {
		return redis.LimitResult{}, f.err
	}
	f.calls++
	remaining := limit - f.calls
	if remaining < 0 {
		remaining = 0
	}
	return redis.LimitResult{
		Allowed:   f.calls <= limit,
		Limit:     limit,
		Remaining: remaining,
		Reset:     time.Now().Add(window),
	}, nil
}

func limitTestRouter(l Limiter) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ping", RateLimit(l, ScopeAPI, 2, time.Minute), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"msg": "pong"})
	})
	return r
}

func TestRateLimitBlocksOverLimit(t *testing.T) {
	r := limitTestRouter(&fakeLimiter{})

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		statuses = append(statuses, w.Code)
		if i == 2 && w.Header().Get("X-RateLimit-Remaining") != "0" {
			t.Fatalf("remaining header: %q", w.Header().Get("X-RateLimit-Remaining"))
		}
	}
	want := []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}
	for i := range want {
		if statuses[i] != want[i] {
			t.Fatalf("request %d: status %d, want %d", i, statuses[i], want[i])
		}
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	r := limitTestRouter(&fakeLimiter{err: errors.New("redis down")})

	req := httptest.NewRequest(http.MethodGet, "/ping", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 when limiter is unavailable", w.Code)
	}

	r = limitTestRouter(nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 with no limiter configured", w.Code)
	}
}
