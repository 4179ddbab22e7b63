package middleware

import (
	"fmt"
	"net/http"
	"regexp"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// SetupCORS configures CORS for origins matching any of the given regular expressions.
// Requests without an Origin header are not subject to CORS.
func SetupCORS(allowedOrigins []string) (gin.HandlerFunc, error) {
	patterns := make([]*regexp.Regexp, 0, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		re, err := regexp.Compile(origin)
		if err != nil {
			return nil, fmt.Errorf("invalid allowed origin pattern %q: %w", origin, err)
		}
		patterns = append(patterns, re)
	}

	config := cors.Config{
		AllowOriginFunc: func(origin string) bool {
			for _, re := range patterns {
				if re.MatchString(origin) {
					return true
				}
			}
			return false
		},
		AllowMethods:              []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:              []string{"Content-Type", "Authorization"},
		ExposeHeaders:             []string{"RateLimit-Limit", "RateLimit-Remaining", "RateLimit-Reset", REQUEST_ID_HEADER},
		AllowCredentials:          false,
		OptionsResponseStatusCode: http.StatusOK,
	}
	return cors.New(config), nil
}
