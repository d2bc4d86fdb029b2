package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/speechturn/errors"
	"github.com/kbukum/speechturn/logger"
)

// RespondWithError writes err as {"error": {...}} with its taxonomy status.
// Errors outside the taxonomy become a 500 and are logged with their cause.
func RespondWithError(c *gin.Context, err error) {
	appErr, ok := apperrors.AsAppError(err)
	if !ok {
		appErr = apperrors.Internal(err)
	}
	if appErr.HTTPStatus >= http.StatusInternalServerError {
		if log, ok := c.Get(loggerKey); ok {
			log.(*logger.Logger).WithContext(c.Request.Context()).Error("request failed", logger.ErrorFields(c.FullPath(), err))
		}
	}
	if appErr.Retryable && appErr.HTTPStatus == http.StatusTooManyRequests {
		c.Header("Retry-After", "1")
	}
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr.ToResponse())
}

// RespondOK writes data as a 200 JSON body.
func RespondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, data)
}

// RespondNoContent writes a 204.
func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

const loggerKey = "server.logger"

// WithLogger makes log available to RespondWithError for 5xx reporting.
func WithLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(loggerKey, log)
		c.Next()
	}
}
