// Package middleware - per-IP throttling for the login form.
// File: middleware/ratelimit.go
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"go-sched-log/logger"
)

type client struct {
	lim  *rate.Limiter
	seen time.Time
}

// LoginLimiter hands each client IP its own token bucket. There is no
// account lockout; a throttled caller just gets 429 and retries later.
type LoginLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	r       rate.Limit
	burst   int
}

// NewLoginLimiter creates a limiter allowing rps requests per second
// with the given burst, and starts a janitor that drops IPs not seen
// for a few minutes.
func NewLoginLimiter(rps float64, burst int) *LoginLimiter {
	rl := &LoginLimiter{
		clients: make(map[string]*client),
		r:       rate.Limit(rps),
		burst:   burst,
	}
	// cleanup stale entries every minute
	go func() {
		for {
			time.Sleep(time.Minute)
			rl.mu.Lock()
			for ip, c := range rl.clients {
				if time.Since(c.seen) > 3*time.Minute {
					delete(rl.clients, ip)
				}
			}
			rl.mu.Unlock()
		}
	}()
	return rl
}

func (rl *LoginLimiter) get(ip string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	if c, ok := rl.clients[ip]; ok {
		c.seen = time.Now()
		return c.lim
	}
	l := rate.NewLimiter(rl.r, rl.burst)
	rl.clients[ip] = &client{lim: l, seen: time.Now()}
	return l
}

// Middleware rejects over-limit requests with 429 before the login
// handler ever sees them.
func (rl *LoginLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.get(ip).Allow() {
			logger.Warn.Printf("LoginLimiter: throttling %s", ip)
			c.String(http.StatusTooManyRequests, "Too many login attempts. Please wait and try again.")
			c.Abort()
			return
		}
		c.Next()
	}
}
