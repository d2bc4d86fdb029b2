package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/kbukum/speechturn/errors"
)

// BodySizeLimit caps request bodies at limit bytes. Requests that declare a
// larger Content-Length are rejected up front with 413; others are cut off by
// http.MaxBytesReader while the handler reads.
func BodySizeLimit(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.ContentLength > limit {
			abort(c, apperrors.PayloadTooLarge("body", limit))
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
