package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// LoginRateLimit 登录接口限流中间件
// 每 IP 在滑动窗口内最多 maxAttempts 次尝试，超过返回 429。
// 过期记录在访问时惰性清理，不起后台协程。
func LoginRateLimit(maxAttempts int, window time.Duration) gin.HandlerFunc {
	var (
		mu       sync.Mutex
		attempts = make(map[string][]time.Time)
	)

	return func(c *gin.Context) {
		ip := c.ClientIP()
		now := time.Now()
		cutoff := now.Add(-window)

		mu.Lock()
		live := attempts[ip][:0]
		for _, t := range attempts[ip] {
			if t.After(cutoff) {
				live = append(live, t)
			}
		}
		if len(live) >= maxAttempts {
			attempts[ip] = live
			mu.Unlock()
			c.JSON(http.StatusTooManyRequests, gin.H{
				"code":    http.StatusTooManyRequests,
				"message": "登录尝试过于频繁，请稍后再试",
			})
			c.Abort()
			return
		}
		attempts[ip] = append(live, now)
		mu.Unlock()

		c.Next()
	}
}
