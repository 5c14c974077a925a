package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"daily/apperr"

	"github.com/gin-gonic/gin"
)

// RateLimiter 按客户端 IP 的滑动窗口限流
type RateLimiter struct {
	max    int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	store     map[string][]time.Time
	lastSweep time.Time
}

// NewRateLimiter 每个 IP 在 window 内最多 max 次请求
func NewRateLimiter(max int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		max:    max,
		window: window,
		now:    time.Now,
		store:  make(map[string][]time.Time),
	}
}

// Allow 记录一次请求；超出限制时返回需要等待的时间
func (l *RateLimiter) Allow(key string) (bool, time.Duration) {
	now := l.now()
	cutoff := now.Add(-l.window)

	l.mu.Lock()
	defer l.mu.Unlock()

	// 每个窗口清理一次长期不活跃的 IP
	if now.Sub(l.lastSweep) >= l.window {
		for k, ts := range l.store {
			if len(ts) == 0 || !ts[len(ts)-1].After(cutoff) {
				delete(l.store, k)
			}
		}
		l.lastSweep = now
	}

	// 移除窗口外的记录
	ts := l.store[key]
	kept := ts[:0]
	for _, t := range ts {
		if t.After(cutoff) {
			kept = append(kept, t)
		}
	}
	if len(kept) >= l.max {
		l.store[key] = kept
		return false, kept[0].Add(l.window).Sub(now)
	}
	l.store[key] = append(kept, now)
	return true, 0
}

// Middleware 超出限制返回 429
func (l *RateLimiter) Middleware(message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		ok, retryAfter := l.Allow(c.ClientIP())
		if !ok {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			c.Error(apperr.RateLimited(message))
			c.Abort()
			return
		}
		c.Next()
	}
}
