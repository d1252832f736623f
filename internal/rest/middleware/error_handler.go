package middleware

import (
	"github.com/gin-gonic/gin"

	ierr "github.com/sendwell/sendwell/internal/errors"
)

// ErrorHandler renders errors pushed via c.Error into the standard error
// envelope. Only the last error is rendered; earlier ones stay in the log.
func ErrorHandler(c *gin.Context) {
	c.Next()

	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}

	err := c.Errors.Last().Err
	c.JSON(ierr.HTTPStatusFromErr(err), ierr.NewErrorResponse(err))
}
