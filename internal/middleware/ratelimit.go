// Package middleware contains Gin middleware for the local server.
package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// Clients idle for longer than clientIdleTTL lose their bucket. A returning
// client starts over with a full one.
const (
	clientIdleTTL = 3 * time.Minute
	sweepInterval = time.Minute
)

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// limiterSet holds one token bucket per client IP.
type limiterSet struct {
	mu        sync.Mutex
	rps       rate.Limit
	burst     int
	clients   map[string]*client
	lastSweep time.Time
	now       func() time.Time
}

func newLimiterSet(rps float64, burst int, now func() time.Time) *limiterSet {
	return &limiterSet{
		rps:       rate.Limit(rps),
		burst:     burst,
		clients:   make(map[string]*client),
		lastSweep: now(),
		now:       now,
	}
}

// allow takes a token from ip's bucket, creating it on first sight.
func (s *limiterSet) allow(ip string) bool {
	s.mu.Lock()
	now := s.now()
	if now.Sub(s.lastSweep) >= sweepInterval {
		s.sweep(now)
	}

	c, ok := s.clients[ip]
	if !ok {
		c = &client{limiter: rate.NewLimiter(s.rps, s.burst)}
		s.clients[ip] = c
	}
	c.lastSeen = now
	s.mu.Unlock()

	return c.limiter.AllowN(now, 1)
}

// sweep drops idle clients. Callers hold mu.
func (s *limiterSet) sweep(now time.Time) {
	for ip, c := range s.clients {
		if now.Sub(c.lastSeen) > clientIdleTTL {
			delete(s.clients, ip)
		}
	}
	s.lastSweep = now
}

func (s *limiterSet) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients)
}

// RateLimit returns per-client rate limiting middleware using token buckets.
// Each client IP gets a bucket that refills at rps tokens per second up to
// burst tokens; a request with an empty bucket is rejected with 429.
// Preflight requests are never limited.
func RateLimit(rps float64, burst int) gin.HandlerFunc {
	return rateLimit(newLimiterSet(rps, burst, time.Now))
}

func rateLimit(set *limiterSet) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		if !set.allow(c.ClientIP()) {
			c.Header("Access-Control-Allow-Origin", "*")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error": "rate limit exceeded",
			})
			return
		}

		c.Next()
	}
}
