package middleware

import (
	"crypto/subtle"
	"errors"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apierrors "github.com/corduroy/collector/internal/api/shared/errors"
	"github.com/corduroy/collector/internal/logger"
)

// AuthConfig holds authentication configuration
type AuthConfig struct {
	// AdminToken is the bearer token of the operator, empty rejects every request
	AdminToken string
}

// Authenticate validates a "Bearer <token>" Authorization header against the admin token
func Authenticate(authHeader string, cfg AuthConfig) error {
	if authHeader == "" {
		return errors.New("missing Authorization header")
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 {
		return errors.New("invalid Authorization header format")
	}

	if strings.ToLower(parts[0]) != "bearer" {
		return errors.New("unsupported authorization type")
	}

	token := parts[1]
	if token == "" {
		return errors.New("empty bearer token")
	}
	if cfg.AdminToken == "" {
		return errors.New("admin token not configured")
	}

	if subtle.ConstantTimeCompare([]byte(token), []byte(cfg.AdminToken)) != 1 {
		return errors.New("invalid admin token")
	}

	return nil
}

// Auth returns a gin middleware that admits only the admin bearer token
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := Authenticate(c.GetHeader("Authorization"), cfg); err != nil {
			logger.WarnCtx(c.Request.Context(), "Authentication failed",
				zap.Error(err),
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
			)
			apiErr := apierrors.NewUnauthorizedError()
			c.AbortWithStatusJSON(apiErr.Status, apiErr)
			return
		}

		c.Next()
	}
}
