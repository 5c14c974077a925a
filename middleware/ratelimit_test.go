package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"daily/config"
	"daily/logging"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiter_Middleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	limiter := NewRateLimiter(2, time.Minute)
	router := gin.New()
	router.Use(ErrorHandler(config.ModeTest, logging.Discard()))
	router.POST("/login", limiter.Middleware("登录尝试过于频繁，请稍后再试"), func(c *gin.Context) {
		c.String(200, "ok")
	})

	// 同一 IP 连续 3 次，第 3 次应返回 429
	doReq := func(ip string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/login", nil)
		req.RemoteAddr = ip + ":12345"
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	w1 := doReq("192.168.1.1")
	w2 := doReq("192.168.1.1")
	w3 := doReq("192.168.1.1")

	assert.Equal(t, 200, w1.Code)
	assert.Equal(t, 200, w2.Code)
	assert.Equal(t, http.StatusTooManyRequests, w3.Code)
	assert.Contains(t, w3.Body.String(), "频繁")
	assert.Equal(t, "60", w3.Header().Get("Retry-After"))

	// 不同 IP 互不影响
	assert.Equal(t, 200, doReq("192.168.1.2").Code)
}

func TestRateLimiter_WindowSlides(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(1, time.Minute)
	limiter.now = func() time.Time { return now }

	ok, _ := limiter.Allow("a")
	assert.True(t, ok)
	ok, wait := limiter.Allow("a")
	assert.False(t, ok)
	assert.Equal(t, time.Minute, wait)

	now = now.Add(61 * time.Second)
	ok, _ = limiter.Allow("a")
	assert.True(t, ok)
}

func TestRateLimiter_SweepsIdleClients(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	limiter := NewRateLimiter(5, time.Minute)
	limiter.now = func() time.Time { return now }

	limiter.Allow("a")
	limiter.Allow("b")
	now = now.Add(2 * time.Minute)
	limiter.Allow("c")

	assert.Len(t, limiter.store, 1)
	assert.Contains(t, limiter.store, "c")
}
