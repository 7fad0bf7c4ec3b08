package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// SubmissionRateLimiter applies a per-client token bucket to write
// endpoints. Clients are keyed by device fingerprint when available (set by
// DeviceFingerprint upstream), else by IP. Idle limiters are dropped
// opportunistically so the map does not grow without bound.
type SubmissionRateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	perMin  int
	burst   int
	idleTTL time.Duration
}

type clientLimiter struct {
	limiter *rate.Limiter
	seenAt  time.Time
}

func NewSubmissionRateLimiter(perMin, burst int) *SubmissionRateLimiter {
	return &SubmissionRateLimiter{
		clients: make(map[string]*clientLimiter),
		perMin:  perMin,
		burst:   burst,
		idleTTL: 10 * time.Minute,
	}
}

func (l *SubmissionRateLimiter) limiterFor(key string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if len(l.clients) > 10000 {
		for k, c := range l.clients {
			if now.Sub(c.seenAt) > l.idleTTL {
				delete(l.clients, k)
			}
		}
	}

	client, ok := l.clients[key]
	if !ok {
		client = &clientLimiter{
			limiter: rate.NewLimiter(rate.Limit(float64(l.perMin)/60.0), l.burst),
		}
		l.clients[key] = client
	}
	client.seenAt = now
	return client.limiter
}

// Middleware rejects requests over the per-client budget with 429
func (l *SubmissionRateLimiter) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.GetString("deviceFingerprint")
		if key == "" {
			key = c.ClientIP()
		}

		if !l.limiterFor(key).Allow() {
			c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many submissions, slow down"})
			c.Abort()
			return
		}
		c.Next()
	}
}
