// Package httpkit provides HTTP middleware infrastructure.
// This is part of the platform layer and contains no business logic.
package httpkit

import (
	"context"
	"net/http"
	"sync"
	"time"

	"container_leads_backend/platform/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/time/rate"
)

// HeaderRequestID carries the correlation id in and out of the API.
const HeaderRequestID = "X-Request-ID"

// RequestID assigns a correlation id to every request and stores it on the
// request context for logger.WithContext.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderRequestID)
		if id == "" || len(id) > 64 {
			id = uuid.NewString()
		}
		ctx := context.WithValue(c.Request.Context(), logger.RequestIDKey, id)
		c.Request = c.Request.WithContext(ctx)
		c.Header(HeaderRequestID, id)
		c.Next()
	}
}

// RequestLogger logs HTTP requests with timing. Server errors recorded with
// c.Error are logged with their cause.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()
		clientIP := c.ClientIP()
		reqLog := log.WithContext(c.Request.Context())

		if status >= http.StatusInternalServerError && len(c.Errors) > 0 {
			reqLog.HTTPError(c.Request.Method, path, status, c.Errors.Last().Err, clientIP)
			return
		}
		reqLog.HTTPRequest(c.Request.Method, path, status, float64(latency.Milliseconds()), clientIP)
	}
}

// SecurityHeaders adds security headers to responses.
func SecurityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		if c.Request.TLS != nil {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}

// IPRateLimiter manages per-IP token buckets for the public intake routes.
type IPRateLimiter struct {
	limiters sync.Map
	rate     rate.Limit
	burst    int
	log      *logger.Logger
}

// NewIPRateLimiter creates a new IP-based rate limiter.
func NewIPRateLimiter(r rate.Limit, burst int, log *logger.Logger) *IPRateLimiter {
	return &IPRateLimiter{
		rate:  r,
		burst: burst,
		log:   log,
	}
}

// PerMinute converts a requests-per-minute budget into a rate.Limit.
func PerMinute(n int) rate.Limit {
	return rate.Limit(float64(n) / 60.0)
}

func (i *IPRateLimiter) getLimiter(ip string) *rate.Limiter {
	if limiter, ok := i.limiters.Load(ip); ok {
		return limiter.(*rate.Limiter)
	}
	limiter, _ := i.limiters.LoadOrStore(ip, rate.NewLimiter(i.rate, i.burst))
	return limiter.(*rate.Limiter)
}

// RateLimit returns a middleware that rate limits by IP.
func (i *IPRateLimiter) RateLimit() gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()

		if !i.getLimiter(ip).Allow() {
			if i.log != nil {
				i.log.RateLimitExceeded(ip, c.Request.URL.Path)
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "Demasiadas solicitudes, intenta de nuevo en un momento",
			})
			return
		}

		c.Next()
	}
}
