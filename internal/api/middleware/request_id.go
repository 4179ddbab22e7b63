package middleware

import (
	"regexp"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/corduroy/collector/internal/logger"
)

const REQUEST_ID_HEADER = "X-Request-ID"

// requestIDPattern bounds caller-supplied ids to short header- and log-safe tokens
var requestIDPattern = regexp.MustCompile(`^[A-Za-z0-9._:-]{1,128}$`)

// RequestID tags each request with the caller's X-Request-ID or a new uuid.
// Ids that are too long or carry other characters are replaced.
// The id is echoed in the response and carried by the request context for logging.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(REQUEST_ID_HEADER)
		if !requestIDPattern.MatchString(requestID) {
			requestID = uuid.New().String()
		}

		c.Header(REQUEST_ID_HEADER, requestID)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), requestID))

		c.Next()
	}
}
