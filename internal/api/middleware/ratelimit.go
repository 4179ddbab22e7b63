package middleware

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/corduroy/collector/internal/api/shared/errors"
	"github.com/corduroy/collector/internal/logger"
	"github.com/corduroy/collector/internal/ratelimit"
)

// RateLimit counts each request against limiter by client IP.
// Every response carries the RateLimit-* headers; refused requests get 429.
func RateLimit(limiter ratelimit.Limiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			// counting failures never block traffic
			logger.WarnCtx(c.Request.Context(), "Rate limit check failed", zap.String("limiter", limiter.Rule().Name), zap.Error(err))
			c.Next()
			return
		}

		resetSeconds := int64(math.Ceil(decision.ResetAfter.Seconds()))
		if resetSeconds < 0 {
			resetSeconds = 0
		}
		c.Header("RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("RateLimit-Remaining", strconv.Itoa(decision.Remaining))
		c.Header("RateLimit-Reset", strconv.FormatInt(resetSeconds, 10))

		if !decision.Allowed {
			logger.InfoCtx(c.Request.Context(), "Rate limit exceeded",
				zap.String("limiter", limiter.Rule().Name),
				zap.String("client_ip", c.ClientIP()),
			)
			c.Header("Retry-After", strconv.FormatInt(resetSeconds, 10))
			apiErr := apierrors.NewRateLimitedError(limiter.Rule().Message)
			c.AbortWithStatusJSON(apiErr.Status, apiErr)
			return
		}

		c.Next()
	}
}
