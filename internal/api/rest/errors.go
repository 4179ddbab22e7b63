package rest

import (
	"errors"
	"fmt"

	"github.com/gin-gonic/gin"

	apierrors "github.com/corduroy/collector/internal/api/shared/errors"
	"github.com/corduroy/collector/internal/logger"
)

// respondError writes err as the API error body.
// Errors that are not APIErrors are logged and hidden behind internal_error.
func respondError(c *gin.Context, err error) {
	var apiErr *apierrors.APIError
	if !errors.As(err, &apiErr) {
		logger.ErrorCtx(c.Request.Context(), fmt.Errorf("unexpected handler error: %w", err))
		apiErr = apierrors.NewInternalError("")
	}
	c.JSON(apiErr.Status, apiErr)
}
