package middleware

import (
	"log/slog"
	"time"

	"github.com/gin-gonic/gin"
)

func Logger(log *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		requestID := c.GetString(RequestIDHeader)

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"latency", latency,
			"request_id", requestID,
			"ip", c.ClientIP(),
		}
		if user, ok := CurrentUser(c); ok {
			attrs = append(attrs, "user_id", user.ID)
		}

		if c.Writer.Status() >= 500 {
			log.ErrorContext(c.Request.Context(), "request completed", attrs...)
			return
		}
		log.InfoContext(c.Request.Context(), "request completed", attrs...)
	}
}
