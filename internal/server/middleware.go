package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"auction-house/services/auction/helpers"
	"auction-house/utils"
)

// Identity headers set by the gateway in front of this service.
// Authentication itself happens upstream.
const (
	HeaderUserID   = "X-User-ID"
	HeaderUserRole = "X-User-Role"
)

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	utils.Info("HTTP Request", map[string]any{
		"method":  c.Request.Method,
		"path":    c.Request.URL.Path,
		"status":  c.Writer.Status(),
		"latency": time.Since(start).String(),
	})
}

// IdentityMiddleware copies the caller identity headers into the request
// context for handlers to read.
func IdentityMiddleware(c *gin.Context) {
	if userID := c.GetHeader(HeaderUserID); userID != "" {
		c.Set(helpers.ContextUserID, userID)
	}
	if role := c.GetHeader(HeaderUserRole); role != "" {
		c.Set(helpers.ContextUserRole, role)
	}
	c.Next()
}

// RateLimiter throttles requests per caller. Callers are keyed by user id,
// falling back to client IP for anonymous requests.
type RateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	rate     rate.Limit
	burst    int
}

// NewRateLimiter creates a limiter allowing perSecond requests with the
// given burst per caller.
func NewRateLimiter(perSecond float64, burst int) *RateLimiter {
	return &RateLimiter{
		limiters: make(map[string]*rate.Limiter),
		rate:     rate.Limit(perSecond),
		burst:    burst,
	}
}

// Middleware rejects callers above their rate with 429.
func (r *RateLimiter) Middleware(c *gin.Context) {
	key := c.GetString(helpers.ContextUserID)
	if key == "" {
		key = c.ClientIP()
	}

	if !r.limiterFor(key).Allow() {
		utils.Warn("request rate limited", map[string]any{
			"caller": key,
			"path":   c.Request.URL.Path,
		})
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
			"status":  http.StatusTooManyRequests,
			"message": "too many requests",
		})
		return
	}
	c.Next()
}

func (r *RateLimiter) limiterFor(key string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	l, ok := r.limiters[key]
	if !ok {
		l = rate.NewLimiter(r.rate, r.burst)
		r.limiters[key] = l
	}
	return l
}
