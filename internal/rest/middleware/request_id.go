package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/oklog/ulid/v2"

	"github.com/sendwell/sendwell/internal/types"
)

// RequestIDMiddleware attaches a request id to the context, reusing the
// client-provided header when present so retries correlate in the logs
func RequestIDMiddleware(c *gin.Context) {
	requestID := c.GetHeader(types.HeaderRequestID)
	if requestID == "" {
		requestID = ulid.Make().String()
	}

	ctx := types.SetRequestID(c.Request.Context(), requestID)
	c.Request = c.Request.WithContext(ctx)
	c.Writer.Header().Set(types.HeaderRequestID, requestID)
	c.Next()
}
