package transport

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"go-qr-platform/internal/observer"
	"go-qr-platform/internal/ratelimit"
)

// requestSizeLimiter caps request bodies so oversized uploads fail early.
func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err), "request processing failed", err)
		}
	}
}

// rateLimitMiddleware enforces tiered per-identifier caps. The identifier is
// the X-User-ID header when present, otherwise the client IP; the tier comes
// from X-User-Tier with a configured default. Health checks are exempt.
func rateLimitMiddleware(limiter *ratelimit.Limiter, defaultTier string, events observer.Subject) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.URL.Path == "/health" {
			c.Next()
			return
		}

		identifier := clientIdentifier(c)
		tier := clientTier(c, defaultTier)

		decision := limiter.IsAllowed(c.Request.Context(), identifier, tier, c.FullPath())

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(decision.ResetTime, 10))
		if decision.Degraded {
			c.Header("X-RateLimit-Status", "disabled")
		}

		if !decision.Allowed {
			c.Header("Retry-After", strconv.FormatInt(decision.RetryAfter, 10))
			if events != nil {
				events.NotifyObservers(c.Request.Context(), observer.Event{
					EventType: observer.RateLimitExceeded,
					Timestamp: time.Now(),
					Metadata: map[string]interface{}{
						"identifier": identifier,
						"tier":       string(tier),
						"limit_type": decision.LimitType,
						"endpoint":   c.FullPath(),
					},
				})
			}
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       http.StatusText(http.StatusTooManyRequests),
				"message":     "Rate limit exceeded for " + decision.LimitType + " window",
				"limit_type":  decision.LimitType,
				"limit":       decision.Limit,
				"reset_time":  decision.ResetTime,
				"retry_after": decision.RetryAfter,
			})
			return
		}

		c.Next()
	}
}

func clientIdentifier(c *gin.Context) string {
	if userID := c.GetHeader("X-User-ID"); userID != "" {
		return userID
	}
	return c.ClientIP()
}

func clientTier(c *gin.Context, defaultTier string) ratelimit.Tier {
	if tier := c.GetHeader("X-User-Tier"); tier != "" {
		return ratelimit.Tier(tier)
	}
	return ratelimit.Tier(defaultTier)
}
