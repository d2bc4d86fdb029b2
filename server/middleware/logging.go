package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/speechturn/logger"
)

var quietPaths = map[string]bool{"/health": true, "/ready": true, "/live": true}

// RequestLogger logs each request with method, path, status and latency.
// Probe endpoints are skipped. Query strings are never logged since audio
// links carry tokens.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if quietPaths[c.Request.URL.Path] {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)
		status := c.Writer.Status()

		fields := map[string]interface{}{
			"method":             c.Request.Method,
			"path":               c.Request.URL.Path,
			logger.FieldStatus:   status,
			logger.FieldDuration: latency.Milliseconds(),
			"client":             c.ClientIP(),
		}
		if latency > 5*time.Second {
			fields["slow"] = true
		}

		l := log.WithContext(c.Request.Context())
		switch {
		case status >= 500:
			l.Error("request completed", fields)
		case status >= 400:
			l.Warn("request completed", fields)
		default:
			l.Debug("request completed", fields)
		}
	}
}
