package middleware

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/turtacn/OncoTerm/pkg/errors"
)

// RateLimitConfig controls per-client request throttling.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained per-client rate.
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// Burst is the number of requests a client may spend above the
	// sustained rate.
	Burst int `yaml:"burst" mapstructure:"burst"`

	// ClientTTL is how long an idle client's limiter is retained.
	ClientTTL time.Duration `yaml:"client_ttl" mapstructure:"client_ttl"`
}

// DefaultRateLimitConfig returns production defaults.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 20,
		Burst:             40,
		ClientTTL:         10 * time.Minute,
	}
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles requests per client IP with a token bucket each.
type RateLimiter struct {
	cfg     RateLimitConfig
	mu      sync.Mutex
	clients map[string]*clientLimiter
	now     func() time.Time
}

// NewRateLimiter builds a limiter; zero-value config fields take defaults.
func NewRateLimiter(cfg RateLimitConfig) *RateLimiter {
	def := DefaultRateLimitConfig()
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = def.RequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}
	if cfg.ClientTTL <= 0 {
		cfg.ClientTTL = def.ClientTTL
	}
	return &RateLimiter{
		cfg:     cfg,
		clients: make(map[string]*clientLimiter),
		now:     time.Now,
	}
}

// Allow reports whether the client may proceed now.
func (l *RateLimiter) Allow(clientKey string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cl, ok := l.clients[clientKey]
	if !ok {
		cl = &clientLimiter{
			limiter:  rate.NewLimiter(rate.Limit(l.cfg.RequestsPerSecond), l.cfg.Burst),
			lastSeen: now,
		}
		l.clients[clientKey] = cl
		l.evictIdleLocked(now)
	}
	cl.lastSeen = now
	return cl.limiter.Allow()
}

// evictIdleLocked drops limiters idle past the TTL.  Called on new-client
// admission so the map stays bounded without a background goroutine.
func (l *RateLimiter) evictIdleLocked(now time.Time) {
	for key, cl := range l.clients {
		if now.Sub(cl.lastSeen) > l.cfg.ClientTTL {
			delete(l.clients, key)
		}
	}
}

// Handler returns the gin middleware enforcing the limit.
func (l *RateLimiter) Handler() gin.HandlerFunc {
	return func(c *gin.Context) {
		if skipped(c.Request.URL.Path) {
			c.Next()
			return
		}
		if !l.Allow(c.ClientIP()) {
			c.Header("Retry-After", strconv.Itoa(1))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"code":    string(errors.ErrCodeTooManyRequests),
				"message": "rate limit exceeded",
			})
			return
		}
		c.Next()
	}
}

//Personal.AI order the ending
