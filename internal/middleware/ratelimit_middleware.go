package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/om_console/internal/utils"
)

const (
	loginAttemptLimit  = 5
	loginAttemptWindow = time.Minute
)

// LoginRateLimiter counts failed sign-in attempts per IP.
type LoginRateLimiter struct {
	mu       sync.Mutex
	attempts map[string]*attemptInfo
	now      func() time.Time
}

type attemptInfo struct {
	count   int
	firstAt time.Time
}

// NewLoginRateLimiter starts a limiter whose cleanup loop runs until ctx ends.
func NewLoginRateLimiter(ctx context.Context) *LoginRateLimiter {
	rl := &LoginRateLimiter{
		attempts: make(map[string]*attemptInfo),
		now:      time.Now,
	}
	go rl.cleanup(ctx)
	return rl
}

// Blocked reports whether ip used up its failed attempts in the current window.
// Limit: 5 failures per minute
func (r *LoginRateLimiter) Blocked(ip string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	info, exists := r.attempts[ip]
	if !exists || r.now().Sub(info.firstAt) > loginAttemptWindow {
		return false
	}
	return info.count >= loginAttemptLimit
}

// Fail records a failed attempt for ip.
func (r *LoginRateLimiter) Fail(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	info, exists := r.attempts[ip]
	if !exists || now.Sub(info.firstAt) > loginAttemptWindow {
		r.attempts[ip] = &attemptInfo{count: 1, firstAt: now}
		return
	}
	info.count++
}

// Handle rejects blocked clients and counts every 401 the login handler returns.
func (r *LoginRateLimiter) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if r.Blocked(ip) {
			utils.Error(c, http.StatusTooManyRequests, "TOO_MANY_REQUESTS", "Too many failed sign-in attempts")
			c.Abort()
			return
		}
		c.Next()
		if c.Writer.Status() == http.StatusUnauthorized {
			r.Fail(ip)
		}
	}
}

func (r *LoginRateLimiter) cleanup(ctx context.Context) {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.mu.Lock()
			now := r.now()
			for ip, info := range r.attempts {
				if now.Sub(info.firstAt) > loginAttemptWindow {
					delete(r.attempts, ip)
				}
			}
			r.mu.Unlock()
		}
	}
}
