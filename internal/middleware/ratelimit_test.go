package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/xxxsen/mblog/internal/pkg/errcode"
)

func newLimitedRouter(window time.Duration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/login", RateLimit(window), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	router.GET("/other", RateLimit(window), func(c *gin.Context) {
		c.String(http.StatusOK, "ok")
	})
	return router
}

func doRequest(router *gin.Engine, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	req.RemoteAddr = "203.0.113.7:1234"
	router.ServeHTTP(rec, req)
	return rec
}

func TestRateLimitBlocksSecondRequest(t *testing.T) {
	router := newLimitedRouter(time.Minute)

	first := doRequest(router, "/login")
	require.Equal(t, "ok", first.Body.String())

	second := doRequest(router, "/login")
	require.NotEqual(t, "ok", second.Body.String())
	require.Contains(t, second.Body.String(), fmt.Sprintf("%d", errcode.ErrTooMany))
}

func TestRateLimitAllowsAfterWindow(t *testing.T) {
	router := newLimitedRouter(30 * time.Millisecond)

	first := doRequest(router, "/login")
	require.Equal(t, "ok", first.Body.String())

	time.Sleep(50 * time.Millisecond)
	second := doRequest(router, "/login")
	require.Equal(t, "ok", second.Body.String())
}

func TestRateLimitTracksPathsSeparately(t *testing.T) {
	router := newLimitedRouter(time.Minute)

	require.Equal(t, "ok", doRequest(router, "/login").Body.String())
	require.Equal(t, "ok", doRequest(router, "/other").Body.String())
}

func TestRateLimitSweepsExpiredEntries(t *testing.T) {
	now := time.Now()
	limiter := &rateLimiter{
		window: time.Minute,
		last: map[string]time.Time{
			"old|/login":   now.Add(-2 * time.Minute),
			"stale|/posts": now.Add(-time.Minute),
			"fresh|/login": now.Add(-time.Second),
		},
	}
	limiter.sweep(now)
	require.Len(t, limiter.last, 1)
	require.Contains(t, limiter.last, "fresh|/login")
}

func TestRateLimitDisabledWithZeroWindow(t *testing.T) {
	router := newLimitedRouter(0)

	require.Equal(t, "ok", doRequest(router, "/login").Body.String())
	require.Equal(t, "ok", doRequest(router, "/login").Body.String())
}
