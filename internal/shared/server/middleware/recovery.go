package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"archive-backend/internal/shared/server/respond"
	"archive-backend/internal/shared/telemetry"
)

const msgPanic = "خطأ غير متوقع في الخادم"

// Recovery turns a handler panic into a logged 500. A response that was
// already started is left as is; only the log line is added.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			fields := map[string]any{
				"request_id": RequestIDFromContext(c),
				"error":      rec,
				"method":     c.Request.Method,
				"route":      c.FullPath(),
				"path":       c.Request.URL.Path,
				"written":    c.Writer.Written(),
				"stack":      string(debug.Stack()),
			}
			if id := c.Param("id"); id != "" {
				fields["document_id"] = id
			}
			telemetry.Error("panic", fields)

			if c.Writer.Written() {
				c.Abort()
				return
			}
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, msgPanic, nil)
			c.Abort()
		}()
		c.Next()
	}
}
