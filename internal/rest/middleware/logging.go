package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/sendwell/sendwell/internal/logger"
	"github.com/sendwell/sendwell/internal/types"
)

// LoggingMiddleware returns a gin middleware that logs HTTP requests using our standard logger
func LoggingMiddleware(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		raw := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := []interface{}{
			"status", c.Writer.Status(),
			"method", c.Request.Method,
			"path", path,
			"query", raw,
			"latency_ms", latency.Milliseconds(),
		}

		ctx := c.Request.Context()
		if requestID := types.GetRequestID(ctx); requestID != "" {
			fields = append(fields, "request_id", requestID)
		}
		if accountID := types.GetAccountID(ctx); accountID != "" {
			fields = append(fields, "account_id", accountID)
		}

		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		statusCode := c.Writer.Status()
		switch {
		case statusCode >= 500:
			log.Errorw("HTTP_REQUEST_ERROR", fields...)
		case statusCode >= 400:
			log.Errorw("HTTP_REQUEST_WARNING", fields...)
		default:
			log.Infow("HTTP_REQUEST_INFO", fields...)
		}
	}
}
