package handlers

import (
	"errors"
	"net/http"

	"github.com/casfod/stafff-portal-backend-sub001/internal/lifecycle"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// writeError maps the engine's error taxonomy onto HTTP. Authorization
// failures all collapse into one generic forbidden body so a caller cannot
// probe which specific check failed.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	var authErr *lifecycle.AuthorizationError
	var invalidErr *lifecycle.InvalidTransitionError
	var validationErr *lifecycle.ValidationError

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &authErr):
		c.JSON(http.StatusForbidden, gin.H{"error": "forbidden"})
	case errors.As(err, &invalidErr):
		c.JSON(http.StatusConflict, gin.H{
			"error":        invalidErr.Error(),
			"allowed_next": invalidErr.Allowed,
		})
	case errors.Is(err, lifecycle.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "conflicting update, retry the operation"})
	case errors.Is(err, lifecycle.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	default:
		logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
